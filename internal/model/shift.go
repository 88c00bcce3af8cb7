package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ShiftStatus string

const (
	ShiftOpen   ShiftStatus = "open"
	ShiftClosed ShiftStatus = "closed"
)

// Shift is one employee's register session. At most one open shift exists per
// employee per company; the partial unique index backs the lookup-before-create.
type Shift struct {
	LedgerModel
	CompanyID      uuid.UUID           `gorm:"type:uuid;not null;index;uniqueIndex:idx_shift_one_open,where:status = 'open'" json:"company_id"`
	EmployeeID     uuid.UUID           `gorm:"type:uuid;not null;index;uniqueIndex:idx_shift_one_open,where:status = 'open'" json:"employee_id"`
	Employee       *Employee           `json:"employee,omitempty"`
	StartTime      time.Time           `gorm:"not null" json:"start_time"`
	EndTime        *time.Time          `json:"end_time,omitempty"`
	OpeningBalance decimal.Decimal     `gorm:"type:decimal(12,2);not null;default:0" json:"opening_balance"`
	ClosingBalance decimal.NullDecimal `gorm:"type:decimal(12,2)" json:"closing_balance"`
	CashInjections decimal.Decimal     `gorm:"type:decimal(12,2);not null;default:0" json:"cash_injections"`
	ExpectedCash   decimal.NullDecimal `gorm:"type:decimal(12,2)" json:"expected_cash"`
	Variance       decimal.NullDecimal `gorm:"type:decimal(12,2)" json:"variance"`
	Status         ShiftStatus         `gorm:"type:varchar(10);not null;default:'open'" json:"status"`
}

// WindowEnd is the reconciliation upper bound: the close time, or now while open.
func (s *Shift) WindowEnd(now time.Time) time.Time {
	if s.EndTime != nil {
		return *s.EndTime
	}
	return now
}
