package repository

import (
	"go-retail-pos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CategoryRepository interface {
	Create(category *model.Category) error
	Update(category *model.Category) error
	Delete(companyID, id uuid.UUID, deletedBy string) error
	FindByID(companyID, id uuid.UUID) (*model.Category, error)
	FindByCompany(companyID uuid.UUID) ([]model.Category, error)
}

type categoryRepo struct {
	db *gorm.DB
}

func NewCategoryRepo(db *gorm.DB) CategoryRepository {
	return &categoryRepo{db}
}

func (r *categoryRepo) Create(category *model.Category) error {
	return r.db.Create(category).Error
}

func (r *categoryRepo) Update(category *model.Category) error {
	return r.db.Model(category).Updates(map[string]interface{}{
		"name":       category.Name,
		"updated_by": category.UpdatedBy,
	}).Error
}

func (r *categoryRepo) Delete(companyID, id uuid.UUID, deletedBy string) error {
	return r.db.Model(&model.Category{}).Where("id = ? AND company_id = ?", id, companyID).Updates(map[string]interface{}{
		"deleted_at": gorm.Expr("NOW()"),
		"deleted_by": deletedBy,
	}).Error
}

func (r *categoryRepo) FindByID(companyID, id uuid.UUID) (*model.Category, error) {
	var category model.Category
	if err := r.db.First(&category, "id = ? AND company_id = ?", id, companyID).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepo) FindByCompany(companyID uuid.UUID) ([]model.Category, error) {
	var categories []model.Category
	err := r.db.Where("company_id = ?", companyID).Order("name ASC").Find(&categories).Error
	return categories, err
}
