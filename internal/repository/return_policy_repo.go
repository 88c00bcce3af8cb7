package repository

import (
	"go-retail-pos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReturnPolicyRepository interface {
	// Save upserts the policy row and mirrors it onto the target item or category.
	// Both writes share one database transaction; a missing target rolls back the upsert.
	Save(policy *model.ReturnPolicy) error
	// Delete removes the policy row and clears the mirrored override.
	Delete(companyID uuid.UUID, targetType model.PolicyTarget, targetID uuid.UUID) error
	FindByCompany(companyID uuid.UUID) ([]model.ReturnPolicy, error)
}

type returnPolicyRepo struct {
	db *gorm.DB
}

func NewReturnPolicyRepo(db *gorm.DB) ReturnPolicyRepository {
	return &returnPolicyRepo{db}
}

func (r *returnPolicyRepo) Save(policy *model.ReturnPolicy) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := mirrorPolicy(tx, policy.CompanyID, policy.TargetType, policy.TargetID, policy.ReturnPeriodDays, policy.NoReturns); err != nil {
			return err
		}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "company_id"}, {Name: "target_type"}, {Name: "target_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"return_period_days", "no_returns", "updated_at", "updated_by"}),
		}).Create(policy).Error
	})
}

func (r *returnPolicyRepo) Delete(companyID uuid.UUID, targetType model.PolicyTarget, targetID uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("company_id = ? AND target_type = ? AND target_id = ?", companyID, targetType, targetID).
			Delete(&model.ReturnPolicy{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return mirrorPolicy(tx, companyID, targetType, targetID, nil, false)
	})
}

func (r *returnPolicyRepo) FindByCompany(companyID uuid.UUID) ([]model.ReturnPolicy, error) {
	var policies []model.ReturnPolicy
	err := r.db.Where("company_id = ?", companyID).Order("target_type ASC, updated_at DESC").Find(&policies).Error
	return policies, err
}

func mirrorPolicy(tx *gorm.DB, companyID uuid.UUID, targetType model.PolicyTarget, targetID uuid.UUID, days *int, noReturns bool) error {
	var target interface{}
	switch targetType {
	case model.PolicyTargetItem:
		target = &model.Item{}
	case model.PolicyTargetCategory:
		target = &model.Category{}
	default:
		return gorm.ErrInvalidField
	}

	res := tx.Model(target).
		Where("id = ? AND company_id = ?", targetID, companyID).
		Updates(map[string]interface{}{
			"return_period_days": days,
			"no_returns":         noReturns,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
