package repository

import (
	"go-retail-pos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EmployeeRepository interface {
	Create(employee *model.Employee) error
	Update(employee *model.Employee) error
	FindByID(companyID, id uuid.UUID) (*model.Employee, error)
	FindByBarcode(companyID uuid.UUID, barcode string) (*model.Employee, error)
	BarcodeExists(companyID uuid.UUID, barcode string) (bool, error)
	// FindByCompany returns employees ordered by name, then id. Performance
	// comparisons rely on this order to break ties.
	FindByCompany(companyID uuid.UUID) ([]model.Employee, error)
}

type employeeRepo struct {
	db *gorm.DB
}

func NewEmployeeRepo(db *gorm.DB) EmployeeRepository {
	return &employeeRepo{db}
}

func (r *employeeRepo) Create(employee *model.Employee) error {
	return r.db.Create(employee).Error
}

func (r *employeeRepo) Update(employee *model.Employee) error {
	return r.db.Save(employee).Error
}

func (r *employeeRepo) FindByID(companyID, id uuid.UUID) (*model.Employee, error) {
	var employee model.Employee
	if err := r.db.First(&employee, "id = ? AND company_id = ?", id, companyID).Error; err != nil {
		return nil, err
	}
	return &employee, nil
}

func (r *employeeRepo) FindByBarcode(companyID uuid.UUID, barcode string) (*model.Employee, error) {
	var employee model.Employee
	if err := r.db.First(&employee, "company_id = ? AND barcode = ?", companyID, barcode).Error; err != nil {
		return nil, err
	}
	return &employee, nil
}

func (r *employeeRepo) BarcodeExists(companyID uuid.UUID, barcode string) (bool, error) {
	var count int64
	err := r.db.Model(&model.Employee{}).
		Where("company_id = ? AND barcode = ?", companyID, barcode).
		Count(&count).Error
	return count > 0, err
}

func (r *employeeRepo) FindByCompany(companyID uuid.UUID) ([]model.Employee, error) {
	var employees []model.Employee
	err := r.db.Where("company_id = ?", companyID).
		Order("name ASC, id ASC").
		Find(&employees).Error
	return employees, err
}
