package repository

import (
	"go-retail-pos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type VendorRepository interface {
	Create(vendor *model.Vendor) error
	Update(vendor *model.Vendor) error
	Delete(companyID, id uuid.UUID, deletedBy string) error
	FindByID(companyID, id uuid.UUID) (*model.Vendor, error)
	FindByCompany(companyID uuid.UUID) ([]model.Vendor, error)
}

type vendorRepo struct {
	db *gorm.DB
}

func NewVendorRepo(db *gorm.DB) VendorRepository {
	return &vendorRepo{db}
}

func (r *vendorRepo) Create(vendor *model.Vendor) error {
	return r.db.Create(vendor).Error
}

func (r *vendorRepo) Update(vendor *model.Vendor) error {
	return r.db.Save(vendor).Error
}

func (r *vendorRepo) Delete(companyID, id uuid.UUID, deletedBy string) error {
	return r.db.Model(&model.Vendor{}).Where("id = ? AND company_id = ?", id, companyID).Updates(map[string]interface{}{
		"deleted_at": gorm.Expr("NOW()"),
		"deleted_by": deletedBy,
	}).Error
}

func (r *vendorRepo) FindByID(companyID, id uuid.UUID) (*model.Vendor, error) {
	var vendor model.Vendor
	if err := r.db.First(&vendor, "id = ? AND company_id = ?", id, companyID).Error; err != nil {
		return nil, err
	}
	return &vendor, nil
}

func (r *vendorRepo) FindByCompany(companyID uuid.UUID) ([]model.Vendor, error) {
	var vendors []model.Vendor
	err := r.db.Where("company_id = ?", companyID).Order("name ASC").Find(&vendors).Error
	return vendors, err
}
