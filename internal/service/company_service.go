package service

import (
	"time"

	"go-retail-pos/internal/model"
	"go-retail-pos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CompanyService interface {
	CreateCompany(req *CompanyRequest, createdBy string) (*model.Company, error)
	UpdateCompany(id uuid.UUID, req *CompanyRequest, updatedBy string) (*model.Company, error)
	GetCompany(id uuid.UUID) (*model.Company, error)
	ListCompanies() ([]model.Company, error)
}

type CompanyRequest struct {
	Name                 string          `json:"name" validate:"required,max=255"`
	TaxRatePercent       decimal.Decimal `json:"tax_rate_percent" validate:"decimal_gte0"`
	ReturnPeriodDays     *int            `json:"return_period_days" validate:"omitempty,gte=0,lte=3650"`
	LoyaltyPointsPerUnit decimal.Decimal `json:"loyalty_points_per_unit" validate:"decimal_gte0"`
	Timezone             string          `json:"timezone"`
	IsActive             *bool           `json:"is_active"`
}

type companyService struct {
	companyRepo repository.CompanyRepository
}

func NewCompanyService(companyRepo repository.CompanyRepository) CompanyService {
	return &companyService{companyRepo: companyRepo}
}

func (r *CompanyRequest) check() error {
	if err := validate(r); err != nil {
		return err
	}
	if r.TaxRatePercent.GreaterThan(hundred) {
		return errValidationf("tax_rate_percent must not exceed 100")
	}
	if r.Timezone != "" {
		if _, err := time.LoadLocation(r.Timezone); err != nil {
			return errValidationf("unknown timezone %q", r.Timezone)
		}
	}
	return nil
}

func (s *companyService) CreateCompany(req *CompanyRequest, createdBy string) (*model.Company, error) {
	if err := req.check(); err != nil {
		return nil, err
	}
	company := &model.Company{
		Name:                 req.Name,
		TaxRatePercent:       req.TaxRatePercent,
		ReturnPeriodDays:     req.ReturnPeriodDays,
		LoyaltyPointsPerUnit: req.LoyaltyPointsPerUnit,
		Timezone:             req.Timezone,
		IsActive:             true,
	}
	if company.Timezone == "" {
		company.Timezone = "UTC"
	}
	company.CreatedBy = createdBy
	company.UpdatedBy = createdBy
	if err := s.companyRepo.Create(company); err != nil {
		return nil, err
	}
	return company, nil
}

func (s *companyService) UpdateCompany(id uuid.UUID, req *CompanyRequest, updatedBy string) (*model.Company, error) {
	if err := req.check(); err != nil {
		return nil, err
	}
	company, err := s.GetCompany(id)
	if err != nil {
		return nil, err
	}
	company.Name = req.Name
	company.TaxRatePercent = req.TaxRatePercent
	company.ReturnPeriodDays = req.ReturnPeriodDays
	company.LoyaltyPointsPerUnit = req.LoyaltyPointsPerUnit
	if req.Timezone != "" {
		company.Timezone = req.Timezone
	}
	if req.IsActive != nil {
		company.IsActive = *req.IsActive
	}
	company.UpdatedBy = updatedBy
	if err := s.companyRepo.Update(company); err != nil {
		return nil, err
	}
	return company, nil
}

func (s *companyService) GetCompany(id uuid.UUID) (*model.Company, error) {
	company, err := s.companyRepo.FindByID(id)
	if err != nil {
		return nil, lookupErr(err, ErrCompanyNotFound)
	}
	return company, nil
}

func (s *companyService) ListCompanies() ([]model.Company, error) {
	return s.companyRepo.FindAll()
}
