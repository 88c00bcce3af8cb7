package service

import (
	"context"

	"go-retail-pos/internal/model"
	"go-retail-pos/internal/repository"
	"go-retail-pos/pkg/codegen"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type GiftCardService interface {
	IssueGiftCard(ctx context.Context, companyID, issuedBy uuid.UUID, req *GiftCardAmountRequest) (*model.GiftCard, error)
	LookupGiftCard(companyID uuid.UUID, code string) (*model.GiftCard, error)
	RedeemGiftCard(companyID uuid.UUID, code string, req *GiftCardAmountRequest) (*model.GiftCard, error)
	ReloadGiftCard(companyID uuid.UUID, code string, req *GiftCardAmountRequest) (*model.GiftCard, error)
}

type GiftCardAmountRequest struct {
	Amount decimal.Decimal `json:"amount" validate:"decimal_gt0"`
}

type giftCardService struct {
	db           TxRunner
	giftCardRepo repository.GiftCardRepository
	employeeRepo repository.EmployeeRepository
	codes        codegen.Source
}

func NewGiftCardService(db TxRunner, giftCardRepo repository.GiftCardRepository, employeeRepo repository.EmployeeRepository) GiftCardService {
	return &giftCardService{
		db:           db,
		giftCardRepo: giftCardRepo,
		employeeRepo: employeeRepo,
		codes:        codegen.Default,
	}
}

func (s *giftCardService) IssueGiftCard(ctx context.Context, companyID, issuedBy uuid.UUID, req *GiftCardAmountRequest) (*model.GiftCard, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	issuer, err := s.employeeRepo.FindByID(companyID, issuedBy)
	if err != nil {
		return nil, lookupErr(err, ErrEmployeeNotFound)
	}
	if !issuer.IsActive {
		return nil, ErrEmployeeInactive
	}

	code, _, err := codegen.Unique(ctx,
		func() string { return codegen.GiftCardCode(s.codes) },
		func(_ context.Context, c string) (bool, error) { return s.giftCardRepo.CodeExists(c) },
	)
	if err != nil {
		return nil, err
	}

	amount := req.Amount.Round(moneyPlaces)
	card := &model.GiftCard{
		CompanyID:          companyID,
		Code:               code,
		InitialBalance:     amount,
		Balance:            amount,
		IsActive:           true,
		IssuedByEmployeeID: issuer.ID,
	}
	if err := s.giftCardRepo.Create(card); err != nil {
		return nil, writeErr(err, ErrBarcodeTaken)
	}
	return card, nil
}

func (s *giftCardService) LookupGiftCard(companyID uuid.UUID, code string) (*model.GiftCard, error) {
	card, err := s.giftCardRepo.FindByCode(companyID, code)
	if err != nil {
		return nil, lookupErr(err, ErrGiftCardNotFound)
	}
	return card, nil
}

// RedeemGiftCard debits the card in one conditional update; the balance never goes negative.
func (s *giftCardService) RedeemGiftCard(companyID uuid.UUID, code string, req *GiftCardAmountRequest) (*model.GiftCard, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	if _, err := s.LookupGiftCard(companyID, code); err != nil {
		return nil, err
	}

	var debited bool
	err := s.db.Transaction(func(tx *gorm.DB) error {
		ok, err := s.giftCardRepo.Debit(tx, companyID, code, req.Amount.Round(moneyPlaces))
		debited = ok
		return err
	})
	if err != nil {
		return nil, err
	}
	if !debited {
		return nil, ErrGiftCardBalance
	}
	return s.LookupGiftCard(companyID, code)
}

func (s *giftCardService) ReloadGiftCard(companyID uuid.UUID, code string, req *GiftCardAmountRequest) (*model.GiftCard, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	var ok bool
	err := s.db.Transaction(func(tx *gorm.DB) error {
		credited, err := s.giftCardRepo.Credit(tx, companyID, code, req.Amount.Round(moneyPlaces))
		ok = credited
		return err
	})
	if err != nil {
		return nil, err
	}
	if !ok {
		if _, lerr := s.LookupGiftCard(companyID, code); lerr != nil {
			return nil, lerr
		}
		return nil, errValidationf("gift card is inactive")
	}
	return s.LookupGiftCard(companyID, code)
}
