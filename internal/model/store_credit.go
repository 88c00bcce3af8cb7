package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StoreCredit is single-use: once IsUsed is set it never flips back.
type StoreCredit struct {
	LedgerModel
	CompanyID              uuid.UUID       `gorm:"type:uuid;not null;index" json:"company_id"`
	Barcode                string          `gorm:"type:varchar(24);not null;uniqueIndex" json:"barcode"`
	Amount                 decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	IsUsed                 bool            `gorm:"default:false;index" json:"is_used"`
	UsedAt                 *time.Time      `json:"used_at,omitempty"`
	IssuedByEmployeeID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"issued_by_employee_id"`
	AuthorizedByEmployeeID *uuid.UUID      `gorm:"type:uuid" json:"authorized_by_employee_id,omitempty"`
	// TransactionID is the transaction that produced the credit (refund or split remainder).
	TransactionID         *uuid.UUID `gorm:"type:uuid;index" json:"transaction_id,omitempty"`
	RedeemedTransactionID *uuid.UUID `gorm:"type:uuid" json:"redeemed_transaction_id,omitempty"`
}

type GiftCard struct {
	LedgerModel
	CompanyID          uuid.UUID       `gorm:"type:uuid;not null;index" json:"company_id"`
	Code               string          `gorm:"type:varchar(24);not null;uniqueIndex" json:"code"`
	InitialBalance     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"initial_balance"`
	Balance            decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"balance"`
	IsActive           bool            `gorm:"not null" json:"is_active"`
	IssuedByEmployeeID uuid.UUID       `gorm:"type:uuid;not null" json:"issued_by_employee_id"`
}

type Customer struct {
	BaseModel
	CompanyID     uuid.UUID `gorm:"type:uuid;not null;index" json:"company_id"`
	Name          string    `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Email         string    `gorm:"type:varchar(255)" json:"email" validate:"omitempty,email"`
	Phone         string    `gorm:"type:varchar(30)" json:"phone"`
	LoyaltyPoints int64     `gorm:"not null;default:0" json:"loyalty_points"`
}
