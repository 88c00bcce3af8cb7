package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultReturnPeriodDays applies when a company has not set its own return window.
const DefaultReturnPeriodDays = 30

type Company struct {
	BaseModel
	Name                 string          `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	TaxRatePercent       decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0" json:"tax_rate_percent"`
	ReturnPeriodDays     *int            `json:"return_period_days,omitempty" validate:"omitempty,gte=0"`
	LoyaltyPointsPerUnit decimal.Decimal `gorm:"type:decimal(8,4);not null;default:0" json:"loyalty_points_per_unit"`
	Timezone             string          `gorm:"type:varchar(64);default:'UTC'" json:"timezone"`
	IsActive             bool            `gorm:"not null" json:"is_active"`
}

// DefaultReturnPeriod resolves the company-wide return window.
func (c *Company) DefaultReturnPeriod() int {
	if c.ReturnPeriodDays == nil {
		return DefaultReturnPeriodDays
	}
	return *c.ReturnPeriodDays
}

// Location returns the company's timezone, falling back to fallback when unset or unknown.
func (c *Company) Location(fallback *time.Location) *time.Location {
	if c.Timezone == "" {
		return fallback
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return fallback
	}
	return loc
}
