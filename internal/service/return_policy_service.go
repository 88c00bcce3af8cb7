package service

import (
	"time"

	"go-retail-pos/internal/model"
	"go-retail-pos/internal/repository"

	"github.com/google/uuid"
)

type ReturnPolicyService interface {
	ResolveReturnEligibility(companyID uuid.UUID, q EligibilityQuery) (*ReturnEligibility, error)
	SetReturnPolicy(companyID uuid.UUID, req *SetReturnPolicyRequest, updatedBy string) (*model.ReturnPolicy, error)
	DeleteReturnPolicy(companyID uuid.UUID, targetType model.PolicyTarget, targetID uuid.UUID) error
	ListReturnPolicies(companyID uuid.UUID) ([]model.ReturnPolicy, error)
}

// EligibilityQuery selects exactly one of the two lookup paths.
type EligibilityQuery struct {
	TransactionID *uuid.UUID
	ItemID        *uuid.UUID
}

type SetReturnPolicyRequest struct {
	TargetType       model.PolicyTarget `json:"target_type" validate:"required,oneof=item category"`
	TargetID         uuid.UUID          `json:"target_id" validate:"uuid_required"`
	ReturnPeriodDays *int               `json:"return_period_days" validate:"omitempty,gte=0,lte=3650"`
	NoReturns        bool               `json:"no_returns"`
}

type returnPolicyService struct {
	policyRepo   repository.ReturnPolicyRepository
	companyRepo  repository.CompanyRepository
	itemRepo     repository.ItemRepository
	categoryRepo repository.CategoryRepository
	txRepo       repository.TransactionRepository
	now          clock
}

func NewReturnPolicyService(
	policyRepo repository.ReturnPolicyRepository,
	companyRepo repository.CompanyRepository,
	itemRepo repository.ItemRepository,
	categoryRepo repository.CategoryRepository,
	txRepo repository.TransactionRepository,
) ReturnPolicyService {
	return &returnPolicyService{
		policyRepo:   policyRepo,
		companyRepo:  companyRepo,
		itemRepo:     itemRepo,
		categoryRepo: categoryRepo,
		txRepo:       txRepo,
		now:          time.Now,
	}
}

func (s *returnPolicyService) ResolveReturnEligibility(companyID uuid.UUID, q EligibilityQuery) (*ReturnEligibility, error) {
	if (q.TransactionID == nil) == (q.ItemID == nil) {
		return nil, errValidationf("exactly one of transactionId or itemId is required")
	}

	company, err := s.companyRepo.FindByID(companyID)
	if err != nil {
		return nil, lookupErr(err, ErrCompanyNotFound)
	}

	if q.TransactionID != nil {
		t, err := s.txRepo.FindByID(companyID, *q.TransactionID)
		if err != nil && !isNotFound(err) {
			return nil, err
		}
		res := TransactionEligibility(t, company.DefaultReturnPeriod(), s.now())
		return &res, nil
	}

	item, err := s.itemRepo.FindByID(companyID, *q.ItemID)
	if err != nil {
		return nil, lookupErr(err, ErrItemNotFound)
	}
	category := item.Category
	if category == nil && item.CategoryID != nil {
		category, err = s.categoryRepo.FindByID(companyID, *item.CategoryID)
		if err != nil && !isNotFound(err) {
			return nil, err
		}
	}
	res := ItemEligibility(item, category, company.DefaultReturnPeriod())
	return &res, nil
}

func (s *returnPolicyService) SetReturnPolicy(companyID uuid.UUID, req *SetReturnPolicyRequest, updatedBy string) (*model.ReturnPolicy, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	policy := &model.ReturnPolicy{
		CompanyID:        companyID,
		TargetType:       req.TargetType,
		TargetID:         req.TargetID,
		ReturnPeriodDays: req.ReturnPeriodDays,
		NoReturns:        req.NoReturns,
		UpdatedBy:        updatedBy,
	}
	if err := s.policyRepo.Save(policy); err != nil {
		return nil, lookupErr(err, policyTargetNotFound(req.TargetType))
	}
	return policy, nil
}

func (s *returnPolicyService) DeleteReturnPolicy(companyID uuid.UUID, targetType model.PolicyTarget, targetID uuid.UUID) error {
	if targetType != model.PolicyTargetItem && targetType != model.PolicyTargetCategory {
		return errValidationf("target type must be item or category")
	}
	return lookupErr(s.policyRepo.Delete(companyID, targetType, targetID), ErrPolicyNotFound)
}

func (s *returnPolicyService) ListReturnPolicies(companyID uuid.UUID) ([]model.ReturnPolicy, error) {
	return s.policyRepo.FindByCompany(companyID)
}

func policyTargetNotFound(t model.PolicyTarget) error {
	if t == model.PolicyTargetCategory {
		return ErrCategoryNotFound
	}
	return ErrItemNotFound
}
