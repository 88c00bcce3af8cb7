package model

import (
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Employee is a POS terminal operator. Barcodes are unique per company.
type Employee struct {
	BaseModel
	CompanyID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_employee_company_barcode" json:"company_id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Barcode   string    `gorm:"type:varchar(20);not null;uniqueIndex:idx_employee_company_barcode" json:"barcode"`
	PinHash   string    `gorm:"type:varchar(255)" json:"-"`
	IsManager bool      `gorm:"not null" json:"is_manager"`
	IsActive  bool      `gorm:"not null" json:"is_active"`
	InSales   bool      `gorm:"not null" json:"in_sales"`
}

func (e *Employee) SetPin(pin string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	e.PinHash = string(hashed)
	return nil
}

func (e *Employee) CheckPin(pin string) bool {
	if e.PinHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(e.PinHash), []byte(pin)) == nil
}

// Participates reports whether the employee is part of sales peer comparisons.
func (e *Employee) Participates() bool {
	return e.IsActive && e.InSales
}
