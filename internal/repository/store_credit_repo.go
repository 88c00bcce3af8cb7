package repository

import (
	"time"

	"go-retail-pos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StoreCreditRepository interface {
	Create(tx *gorm.DB, credit *model.StoreCredit) error
	FindByBarcode(companyID uuid.UUID, barcode string) (*model.StoreCredit, error)
	FindByCompany(companyID uuid.UUID, onlyUnused bool) ([]model.StoreCredit, error)

	// Redeem marks an unused credit as used in a single conditional update.
	// It reports false when the credit is missing or was already redeemed.
	Redeem(tx *gorm.DB, companyID uuid.UUID, barcode string, redeemedTx *uuid.UUID, at time.Time) (bool, error)

	// FindForShift returns credits the employee issued within [start, end], plus
	// credits linked to one of txIDs.
	FindForShift(companyID, employeeID uuid.UUID, start, end time.Time, txIDs []uuid.UUID) ([]model.StoreCredit, error)
	FindByTransactionIDs(txIDs []uuid.UUID) ([]model.StoreCredit, error)
}

type storeCreditRepo struct {
	db *gorm.DB
}

func NewStoreCreditRepo(db *gorm.DB) StoreCreditRepository {
	return &storeCreditRepo{db}
}

func (r *storeCreditRepo) Create(tx *gorm.DB, credit *model.StoreCredit) error {
	return tx.Create(credit).Error
}

func (r *storeCreditRepo) FindByBarcode(companyID uuid.UUID, barcode string) (*model.StoreCredit, error) {
	var credit model.StoreCredit
	if err := r.db.First(&credit, "company_id = ? AND barcode = ?", companyID, barcode).Error; err != nil {
		return nil, err
	}
	return &credit, nil
}

func (r *storeCreditRepo) FindByCompany(companyID uuid.UUID, onlyUnused bool) ([]model.StoreCredit, error) {
	var credits []model.StoreCredit
	query := r.db.Where("company_id = ?", companyID)
	if onlyUnused {
		query = query.Where("is_used = ?", false)
	}
	err := query.Order("created_at DESC").Find(&credits).Error
	return credits, err
}

func (r *storeCreditRepo) Redeem(tx *gorm.DB, companyID uuid.UUID, barcode string, redeemedTx *uuid.UUID, at time.Time) (bool, error) {
	res := tx.Model(&model.StoreCredit{}).
		Where("company_id = ? AND barcode = ? AND is_used = ?", companyID, barcode, false).
		Updates(map[string]interface{}{
			"is_used":                 true,
			"used_at":                 at,
			"redeemed_transaction_id": redeemedTx,
		})
	return res.RowsAffected == 1, res.Error
}

func (r *storeCreditRepo) FindForShift(companyID, employeeID uuid.UUID, start, end time.Time, txIDs []uuid.UUID) ([]model.StoreCredit, error) {
	var credits []model.StoreCredit
	query := r.db.Where("company_id = ?", companyID)
	if len(txIDs) > 0 {
		query = query.Where("(issued_by_employee_id = ? AND created_at BETWEEN ? AND ?) OR transaction_id IN ?", employeeID, start, end, txIDs)
	} else {
		query = query.Where("issued_by_employee_id = ? AND created_at BETWEEN ? AND ?", employeeID, start, end)
	}
	err := query.Order("created_at ASC").Find(&credits).Error
	return credits, err
}

func (r *storeCreditRepo) FindByTransactionIDs(txIDs []uuid.UUID) ([]model.StoreCredit, error) {
	var credits []model.StoreCredit
	if len(txIDs) == 0 {
		return credits, nil
	}
	err := r.db.Where("transaction_id IN ?", txIDs).Find(&credits).Error
	return credits, err
}
