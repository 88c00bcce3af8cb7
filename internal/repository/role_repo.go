package repository

import (
	"errors"

	"go-retail-pos/internal/model"

	"gorm.io/gorm"
)

type RoleRepository interface {
	FindAll() ([]model.Role, error)
	FindByCode(code string) (*model.Role, error)
	// SeedDefaults creates the built-in roles and grants their default privileges.
	// Privileges must already be seeded.
	SeedDefaults() error
}

type roleRepo struct {
	db *gorm.DB
}

func NewRoleRepo(db *gorm.DB) RoleRepository {
	return &roleRepo{db: db}
}

func (r *roleRepo) FindAll() ([]model.Role, error) {
	var roles []model.Role
	err := r.db.Preload("Privileges").Order("id ASC").Find(&roles).Error
	return roles, err
}

func (r *roleRepo) FindByCode(code string) (*model.Role, error) {
	var role model.Role
	err := r.db.Preload("Privileges").Where("code = ?", code).First(&role).Error
	if err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *roleRepo) SeedDefaults() error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		for _, def := range model.DefaultRoles {
			role := def
			err := tx.Where("code = ?", role.Code).First(&role).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				if err := tx.Create(&role).Error; err != nil {
					return err
				}
			} else if err != nil {
				return err
			}

			var privileges []model.Privilege
			if err := tx.Where("code IN ?", model.RolePrivilegeCodes(role.Code)).Find(&privileges).Error; err != nil {
				return err
			}
			if err := tx.Model(&role).Association("Privileges").Replace(privileges); err != nil {
				return err
			}
		}
		return nil
	})
}
