package repository

import (
	"go-retail-pos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type GiftCardRepository interface {
	Create(card *model.GiftCard) error
	FindByCode(companyID uuid.UUID, code string) (*model.GiftCard, error)
	CodeExists(code string) (bool, error)

	// Debit subtracts amount when the card is active and holds at least amount.
	Debit(tx *gorm.DB, companyID uuid.UUID, code string, amount decimal.Decimal) (bool, error)
	// Credit adds amount to an active card.
	Credit(tx *gorm.DB, companyID uuid.UUID, code string, amount decimal.Decimal) (bool, error)
}

type giftCardRepo struct {
	db *gorm.DB
}

func NewGiftCardRepo(db *gorm.DB) GiftCardRepository {
	return &giftCardRepo{db}
}

func (r *giftCardRepo) Create(card *model.GiftCard) error {
	return r.db.Create(card).Error
}

func (r *giftCardRepo) FindByCode(companyID uuid.UUID, code string) (*model.GiftCard, error) {
	var card model.GiftCard
	if err := r.db.First(&card, "company_id = ? AND code = ?", companyID, code).Error; err != nil {
		return nil, err
	}
	return &card, nil
}

func (r *giftCardRepo) CodeExists(code string) (bool, error) {
	var count int64
	err := r.db.Model(&model.GiftCard{}).Where("code = ?", code).Count(&count).Error
	return count > 0, err
}

func (r *giftCardRepo) Debit(tx *gorm.DB, companyID uuid.UUID, code string, amount decimal.Decimal) (bool, error) {
	res := tx.Model(&model.GiftCard{}).
		Where("company_id = ? AND code = ? AND is_active = ? AND balance >= ?", companyID, code, true, amount).
		Update("balance", gorm.Expr("balance - ?", amount))
	return res.RowsAffected == 1, res.Error
}

func (r *giftCardRepo) Credit(tx *gorm.DB, companyID uuid.UUID, code string, amount decimal.Decimal) (bool, error) {
	res := tx.Model(&model.GiftCard{}).
		Where("company_id = ? AND code = ? AND is_active = ?", companyID, code, true).
		Update("balance", gorm.Expr("balance + ?", amount))
	return res.RowsAffected == 1, res.Error
}
