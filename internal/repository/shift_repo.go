package repository

import (
	"time"

	"go-retail-pos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ShiftFilter struct {
	EmployeeID *uuid.UUID
	Status     model.ShiftStatus
	From       *time.Time
	To         *time.Time
	Limit      int
}

type ShiftRepository interface {
	Create(shift *model.Shift) error
	FindByID(companyID, id uuid.UUID) (*model.Shift, error)
	FindOpenByEmployee(companyID, employeeID uuid.UUID) (*model.Shift, error)
	FindByCompany(companyID uuid.UUID, filter ShiftFilter) ([]model.Shift, error)

	// AddCashInjection increments the injection total of an open shift.
	// It reports false when the shift is missing or already closed.
	AddCashInjection(companyID, id uuid.UUID, amount decimal.Decimal) (bool, error)

	// Close moves an open shift to closed. It reports false when another request
	// closed it first.
	Close(shift *model.Shift) (bool, error)
}

type shiftRepo struct {
	db *gorm.DB
}

func NewShiftRepo(db *gorm.DB) ShiftRepository {
	return &shiftRepo{db}
}

func (r *shiftRepo) Create(shift *model.Shift) error {
	return r.db.Create(shift).Error
}

func (r *shiftRepo) FindByID(companyID, id uuid.UUID) (*model.Shift, error) {
	var shift model.Shift
	if err := r.db.Preload("Employee").
		First(&shift, "id = ? AND company_id = ?", id, companyID).Error; err != nil {
		return nil, err
	}
	return &shift, nil
}

func (r *shiftRepo) FindOpenByEmployee(companyID, employeeID uuid.UUID) (*model.Shift, error) {
	var shift model.Shift
	err := r.db.Where("company_id = ? AND employee_id = ? AND status = ?", companyID, employeeID, model.ShiftOpen).
		Order("start_time DESC").
		First(&shift).Error
	if err != nil {
		return nil, err
	}
	return &shift, nil
}

func (r *shiftRepo) FindByCompany(companyID uuid.UUID, filter ShiftFilter) ([]model.Shift, error) {
	var shifts []model.Shift
	query := r.db.Preload("Employee").Where("company_id = ?", companyID)

	if filter.EmployeeID != nil {
		query = query.Where("employee_id = ?", *filter.EmployeeID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.From != nil {
		query = query.Where("start_time >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("start_time <= ?", *filter.To)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	err := query.Order("start_time DESC").Find(&shifts).Error
	return shifts, err
}

func (r *shiftRepo) AddCashInjection(companyID, id uuid.UUID, amount decimal.Decimal) (bool, error) {
	res := r.db.Model(&model.Shift{}).
		Where("id = ? AND company_id = ? AND status = ?", id, companyID, model.ShiftOpen).
		Update("cash_injections", gorm.Expr("cash_injections + ?", amount))
	return res.RowsAffected == 1, res.Error
}

func (r *shiftRepo) Close(shift *model.Shift) (bool, error) {
	res := r.db.Model(&model.Shift{}).
		Where("id = ? AND company_id = ? AND status = ?", shift.ID, shift.CompanyID, model.ShiftOpen).
		Updates(map[string]interface{}{
			"status":          model.ShiftClosed,
			"end_time":        shift.EndTime,
			"closing_balance": shift.ClosingBalance,
			"expected_cash":   shift.ExpectedCash,
			"variance":        shift.Variance,
		})
	return res.RowsAffected == 1, res.Error
}
