package repository

import (
	"go-retail-pos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ItemFilter struct {
	CategoryID *uuid.UUID
	VendorID   *uuid.UUID
	Search     string
	LowStock   bool
}

type ItemRepository interface {
	Create(item *model.Item) error
	Update(item *model.Item) error
	Delete(companyID, id uuid.UUID, deletedBy string) error
	FindByID(companyID, id uuid.UUID) (*model.Item, error)
	FindBySKU(companyID uuid.UUID, sku string) (*model.Item, error)
	FindByCompany(companyID uuid.UUID, filter ItemFilter) ([]model.Item, error)

	// LockByIDs loads the items with FOR UPDATE inside tx.
	LockByIDs(tx *gorm.DB, companyID uuid.UUID, ids []uuid.UUID) ([]model.Item, error)
	AdjustStock(tx *gorm.DB, id uuid.UUID, delta int, updatedBy string) error
}

type itemRepo struct {
	db *gorm.DB
}

func NewItemRepo(db *gorm.DB) ItemRepository {
	return &itemRepo{db}
}

func (r *itemRepo) Create(item *model.Item) error {
	return r.db.Create(item).Error
}

func (r *itemRepo) Update(item *model.Item) error {
	return r.db.Omit("Category", "Vendor").Save(item).Error
}

func (r *itemRepo) Delete(companyID, id uuid.UUID, deletedBy string) error {
	return r.db.Model(&model.Item{}).Where("id = ? AND company_id = ?", id, companyID).Updates(map[string]interface{}{
		"deleted_at": gorm.Expr("NOW()"),
		"deleted_by": deletedBy,
	}).Error
}

func (r *itemRepo) FindByID(companyID, id uuid.UUID) (*model.Item, error) {
	var item model.Item
	err := r.db.Preload("Category").Preload("Vendor").
		First(&item, "id = ? AND company_id = ?", id, companyID).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *itemRepo) FindBySKU(companyID uuid.UUID, sku string) (*model.Item, error) {
	var item model.Item
	if err := r.db.First(&item, "company_id = ? AND sku = ?", companyID, sku).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *itemRepo) FindByCompany(companyID uuid.UUID, filter ItemFilter) ([]model.Item, error) {
	var items []model.Item
	query := r.db.Preload("Category").Where("company_id = ?", companyID)

	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.VendorID != nil {
		query = query.Where("vendor_id = ?", *filter.VendorID)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR sku ILIKE ?", like, like)
	}
	if filter.LowStock {
		query = query.Where("stock < ?", 10)
	}

	err := query.Order("name ASC").Find(&items).Error
	return items, err
}

func (r *itemRepo) LockByIDs(tx *gorm.DB, companyID uuid.UUID, ids []uuid.UUID) ([]model.Item, error) {
	var items []model.Item
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("company_id = ? AND id IN ?", companyID, ids).
		Find(&items).Error
	return items, err
}

func (r *itemRepo) AdjustStock(tx *gorm.DB, id uuid.UUID, delta int, updatedBy string) error {
	return tx.Model(&model.Item{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"stock":      gorm.Expr("stock + ?", delta),
			"updated_by": updatedBy,
		}).Error
}
