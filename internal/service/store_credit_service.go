package service

import (
	"context"
	"time"

	"go-retail-pos/internal/model"
	"go-retail-pos/internal/repository"
	"go-retail-pos/pkg/codegen"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type StoreCreditService interface {
	IssueStoreCredit(ctx context.Context, companyID, issuedBy uuid.UUID, req *IssueStoreCreditRequest) (*model.StoreCredit, error)
	LookupStoreCredit(companyID uuid.UUID, barcode string) (*model.StoreCredit, error)
	// RedeemStoreCredit marks the credit used. A second redemption fails with ErrStoreCreditUsed
	// and leaves the row untouched.
	RedeemStoreCredit(ctx context.Context, companyID uuid.UUID, barcode string) (*model.StoreCredit, error)
	ListStoreCredits(companyID uuid.UUID, onlyUnused bool) ([]model.StoreCredit, error)
}

type IssueStoreCreditRequest struct {
	Amount        decimal.Decimal `json:"amount" validate:"decimal_gt0"`
	AuthorizedBy  *uuid.UUID      `json:"authorized_by"`
	TransactionID *uuid.UUID      `json:"transaction_id"`
}

type storeCreditService struct {
	db           TxRunner
	creditRepo   repository.StoreCreditRepository
	employeeRepo repository.EmployeeRepository
	txRepo       repository.TransactionRepository
	reports      ReportService
	codes        codegen.Source
	now          clock
}

func NewStoreCreditService(
	db TxRunner,
	creditRepo repository.StoreCreditRepository,
	employeeRepo repository.EmployeeRepository,
	txRepo repository.TransactionRepository,
	reports ReportService,
) StoreCreditService {
	return &storeCreditService{
		db:           db,
		creditRepo:   creditRepo,
		employeeRepo: employeeRepo,
		txRepo:       txRepo,
		reports:      reports,
		codes:        codegen.Default,
		now:          time.Now,
	}
}

func (s *storeCreditService) IssueStoreCredit(ctx context.Context, companyID, issuedBy uuid.UUID, req *IssueStoreCreditRequest) (*model.StoreCredit, error) {
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

	// Credits issued outside a refund need a manager's sign-off.
	authorizer := req.AuthorizedBy
	if authorizer == nil && req.TransactionID == nil {
		if !issuer.IsManager {
			return nil, ErrManagerRequired
		}
		authorizer = &issuer.ID
	}
	if authorizer != nil && *authorizer != issuer.ID {
		manager, err := s.employeeRepo.FindByID(companyID, *authorizer)
		if err != nil {
			return nil, lookupErr(err, ErrEmployeeNotFound)
		}
		if !manager.IsManager || !manager.IsActive {
			return nil, ErrManagerRequired
		}
	}
	if req.TransactionID != nil {
		if _, err := s.txRepo.FindByID(companyID, *req.TransactionID); err != nil {
			return nil, lookupErr(err, ErrTransactionNotFound)
		}
	}

	credit := &model.StoreCredit{
		CompanyID:              companyID,
		Barcode:                codegen.StoreCreditBarcode(s.codes, s.now()),
		Amount:                 req.Amount.Round(moneyPlaces),
		IssuedByEmployeeID:     issuer.ID,
		AuthorizedByEmployeeID: authorizer,
		TransactionID:          req.TransactionID,
	}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		return s.creditRepo.Create(tx, credit)
	})
	if err != nil {
		return nil, writeErr(err, ErrBarcodeTaken)
	}

	if credit.TransactionID != nil && s.reports != nil {
		s.reports.Invalidate(ctx, companyID)
	}
	return credit, nil
}

func (s *storeCreditService) LookupStoreCredit(companyID uuid.UUID, barcode string) (*model.StoreCredit, error) {
	credit, err := s.creditRepo.FindByBarcode(companyID, barcode)
	if err != nil {
		return nil, lookupErr(err, ErrStoreCreditNotFound)
	}
	return credit, nil
}

func (s *storeCreditService) RedeemStoreCredit(ctx context.Context, companyID uuid.UUID, barcode string) (*model.StoreCredit, error) {
	if barcode == "" {
		return nil, errValidationf("barcode is required")
	}

	var redeemed bool
	err := s.db.Transaction(func(tx *gorm.DB) error {
		ok, err := s.creditRepo.Redeem(tx, companyID, barcode, nil, s.now())
		redeemed = ok
		return err
	})
	if err != nil {
		return nil, err
	}

	credit, err := s.creditRepo.FindByBarcode(companyID, barcode)
	if err != nil {
		return nil, lookupErr(err, ErrStoreCreditNotFound)
	}
	if !redeemed {
		return nil, ErrStoreCreditUsed
	}
	return credit, nil
}

func (s *storeCreditService) ListStoreCredits(companyID uuid.UUID, onlyUnused bool) ([]model.StoreCredit, error) {
	return s.creditRepo.FindByCompany(companyID, onlyUnused)
}
