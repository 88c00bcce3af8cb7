package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Category struct {
	BaseModel
	CompanyID uuid.UUID `gorm:"type:uuid;not null;index" json:"company_id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name" validate:"required"`

	// Mirrors of the category ReturnPolicy row, kept for join-free lookups.
	ReturnPeriodDays *int `json:"return_period_days,omitempty"`
	NoReturns        bool `gorm:"default:false" json:"no_returns"`
}

type Vendor struct {
	BaseModel
	CompanyID   uuid.UUID `gorm:"type:uuid;not null;index" json:"company_id"`
	Name        string    `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	ContactName string    `gorm:"type:varchar(255)" json:"contact_name"`
	Email       string    `gorm:"type:varchar(255)" json:"email" validate:"omitempty,email"`
	Phone       string    `gorm:"type:varchar(30)" json:"phone"`
}

type Item struct {
	BaseModel
	CompanyID  uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_item_company_sku" json:"company_id"`
	SKU        string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_item_company_sku" json:"sku" validate:"required"`
	Name       string          `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Price      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"price"`
	Cost       decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"cost"`
	Stock      int             `gorm:"default:0" json:"stock"`
	Taxable    bool            `gorm:"not null" json:"taxable"`
	CategoryID *uuid.UUID      `gorm:"type:uuid;index" json:"category_id,omitempty"`
	Category   *Category       `json:"category,omitempty" validate:"-"`
	VendorID   *uuid.UUID      `gorm:"type:uuid;index" json:"vendor_id,omitempty"`
	Vendor     *Vendor         `json:"vendor,omitempty" validate:"-"`

	// Mirrors of the item ReturnPolicy row.
	ReturnPeriodDays *int `json:"return_period_days,omitempty"`
	NoReturns        bool `gorm:"default:false" json:"no_returns"`
}
