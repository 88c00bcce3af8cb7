package model

import (
	"time"

	"github.com/google/uuid"
)

type PolicyTarget string

const (
	PolicyTargetItem     PolicyTarget = "item"
	PolicyTargetCategory PolicyTarget = "category"
)

// ReturnPolicy is keyed by (company, target type, target id).
type ReturnPolicy struct {
	CompanyID        uuid.UUID    `gorm:"type:uuid;primaryKey" json:"company_id"`
	TargetType       PolicyTarget `gorm:"type:varchar(10);primaryKey" json:"target_type"`
	TargetID         uuid.UUID    `gorm:"type:uuid;primaryKey" json:"target_id"`
	ReturnPeriodDays *int         `json:"return_period_days,omitempty"`
	NoReturns        bool         `gorm:"default:false" json:"no_returns"`
	UpdatedAt        time.Time    `json:"updated_at"`
	UpdatedBy        string       `json:"updated_by,omitempty"`
}
