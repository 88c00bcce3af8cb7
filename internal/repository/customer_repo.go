package repository

import (
	"go-retail-pos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CustomerRepository interface {
	Create(customer *model.Customer) error
	Update(customer *model.Customer) error
	FindByID(companyID, id uuid.UUID) (*model.Customer, error)
	FindByCompany(companyID uuid.UUID, search string) ([]model.Customer, error)
	AddPoints(tx *gorm.DB, companyID, id uuid.UUID, points int64) error
	// DeductPoints takes back up to points, never leaving a negative balance.
	DeductPoints(tx *gorm.DB, companyID, id uuid.UUID, points int64) error
	// RedeemPoints subtracts points only when the balance covers them.
	RedeemPoints(companyID, id uuid.UUID, points int64) (bool, error)
}

type customerRepo struct {
	db *gorm.DB
}

func NewCustomerRepo(db *gorm.DB) CustomerRepository {
	return &customerRepo{db}
}

func (r *customerRepo) Create(customer *model.Customer) error {
	return r.db.Create(customer).Error
}

func (r *customerRepo) Update(customer *model.Customer) error {
	return r.db.Omit("loyalty_points").Save(customer).Error
}

func (r *customerRepo) FindByID(companyID, id uuid.UUID) (*model.Customer, error) {
	var customer model.Customer
	if err := r.db.First(&customer, "id = ? AND company_id = ?", id, companyID).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *customerRepo) FindByCompany(companyID uuid.UUID, search string) ([]model.Customer, error) {
	var customers []model.Customer
	query := r.db.Where("company_id = ?", companyID)
	if search != "" {
		like := "%" + search + "%"
		query = query.Where("name ILIKE ? OR email ILIKE ? OR phone ILIKE ?", like, like, like)
	}
	err := query.Order("name ASC").Find(&customers).Error
	return customers, err
}

func (r *customerRepo) AddPoints(tx *gorm.DB, companyID, id uuid.UUID, points int64) error {
	return tx.Model(&model.Customer{}).
		Where("id = ? AND company_id = ?", id, companyID).
		Update("loyalty_points", gorm.Expr("loyalty_points + ?", points)).Error
}

func (r *customerRepo) DeductPoints(tx *gorm.DB, companyID, id uuid.UUID, points int64) error {
	return tx.Model(&model.Customer{}).
		Where("id = ? AND company_id = ?", id, companyID).
		Update("loyalty_points", gorm.Expr("GREATEST(loyalty_points - ?, 0)", points)).Error
}

func (r *customerRepo) RedeemPoints(companyID, id uuid.UUID, points int64) (bool, error) {
	res := r.db.Model(&model.Customer{}).
		Where("id = ? AND company_id = ? AND loyalty_points >= ?", id, companyID, points).
		Update("loyalty_points", gorm.Expr("loyalty_points - ?", points))
	return res.RowsAffected == 1, res.Error
}
