package service

import (
	"context"

	"go-retail-pos/internal/model"
	"go-retail-pos/internal/repository"
	"go-retail-pos/pkg/codegen"

	"github.com/google/uuid"
)

type EmployeeService interface {
	CreateEmployee(ctx context.Context, companyID uuid.UUID, req *CreateEmployeeRequest, createdBy string) (*model.Employee, error)
	UpdateEmployee(ctx context.Context, companyID, id uuid.UUID, req *UpdateEmployeeRequest, updatedBy string) (*model.Employee, error)
	DeactivateEmployee(ctx context.Context, companyID, id uuid.UUID, updatedBy string) error
	RegenerateBarcode(ctx context.Context, companyID, id uuid.UUID, updatedBy string) (*model.Employee, error)
	GetEmployee(companyID, id uuid.UUID) (*model.Employee, error)
	ListEmployees(companyID uuid.UUID) ([]model.Employee, error)
}

type CreateEmployeeRequest struct {
	Name      string `json:"name" validate:"required,max=255"`
	Pin       string `json:"pin" validate:"omitempty,numeric,min=4,max=8"`
	IsManager bool   `json:"is_manager"`
	InSales   *bool  `json:"in_sales"`
}

type UpdateEmployeeRequest struct {
	Name      string  `json:"name" validate:"required,max=255"`
	Pin       *string `json:"pin" validate:"omitempty,numeric,min=4,max=8"`
	IsManager bool    `json:"is_manager"`
	InSales   bool    `json:"in_sales"`
	IsActive  bool    `json:"is_active"`
}

type employeeService struct {
	employeeRepo repository.EmployeeRepository
	companyRepo  repository.CompanyRepository
	reports      ReportService
	codes        codegen.Source
}

// NewEmployeeService drops cached performance reports of a company on every roster write.
func NewEmployeeService(employeeRepo repository.EmployeeRepository, companyRepo repository.CompanyRepository, reports ReportService) EmployeeService {
	return &employeeService{
		employeeRepo: employeeRepo,
		companyRepo:  companyRepo,
		reports:      reports,
		codes:        codegen.Default,
	}
}

func (s *employeeService) CreateEmployee(ctx context.Context, companyID uuid.UUID, req *CreateEmployeeRequest, createdBy string) (*model.Employee, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	if _, err := s.companyRepo.FindByID(companyID); err != nil {
		return nil, lookupErr(err, ErrCompanyNotFound)
	}

	barcode, err := s.barcode(ctx, companyID)
	if err != nil {
		return nil, err
	}

	employee := &model.Employee{
		CompanyID: companyID,
		Name:      req.Name,
		Barcode:   barcode,
		IsManager: req.IsManager,
		IsActive:  true,
		InSales:   req.InSales == nil || *req.InSales,
	}
	if req.Pin != "" {
		if err := employee.SetPin(req.Pin); err != nil {
			return nil, err
		}
	}
	employee.CreatedBy = createdBy
	employee.UpdatedBy = createdBy

	if err := s.employeeRepo.Create(employee); err != nil {
		return nil, writeErr(err, ErrBarcodeTaken)
	}
	s.invalidateReports(ctx, companyID)
	return employee, nil
}

func (s *employeeService) UpdateEmployee(ctx context.Context, companyID, id uuid.UUID, req *UpdateEmployeeRequest, updatedBy string) (*model.Employee, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	employee, err := s.GetEmployee(companyID, id)
	if err != nil {
		return nil, err
	}

	employee.Name = req.Name
	employee.IsManager = req.IsManager
	employee.InSales = req.InSales
	employee.IsActive = req.IsActive
	if req.Pin != nil {
		if *req.Pin == "" {
			employee.PinHash = ""
		} else if err := employee.SetPin(*req.Pin); err != nil {
			return nil, err
		}
	}
	employee.UpdatedBy = updatedBy

	if err := s.employeeRepo.Update(employee); err != nil {
		return nil, err
	}
	s.invalidateReports(ctx, companyID)
	return employee, nil
}

func (s *employeeService) DeactivateEmployee(ctx context.Context, companyID, id uuid.UUID, updatedBy string) error {
	employee, err := s.GetEmployee(companyID, id)
	if err != nil {
		return err
	}
	employee.IsActive = false
	employee.UpdatedBy = updatedBy
	if err := s.employeeRepo.Update(employee); err != nil {
		return err
	}
	s.invalidateReports(ctx, companyID)
	return nil
}

func (s *employeeService) invalidateReports(ctx context.Context, companyID uuid.UUID) {
	if s.reports != nil {
		s.reports.Invalidate(ctx, companyID)
	}
}

func (s *employeeService) RegenerateBarcode(ctx context.Context, companyID, id uuid.UUID, updatedBy string) (*model.Employee, error) {
	employee, err := s.GetEmployee(companyID, id)
	if err != nil {
		return nil, err
	}
	barcode, err := s.barcode(ctx, companyID)
	if err != nil {
		return nil, err
	}
	employee.Barcode = barcode
	employee.UpdatedBy = updatedBy
	if err := s.employeeRepo.Update(employee); err != nil {
		return nil, writeErr(err, ErrBarcodeTaken)
	}
	return employee, nil
}

func (s *employeeService) GetEmployee(companyID, id uuid.UUID) (*model.Employee, error) {
	employee, err := s.employeeRepo.FindByID(companyID, id)
	if err != nil {
		return nil, lookupErr(err, ErrEmployeeNotFound)
	}
	return employee, nil
}

func (s *employeeService) ListEmployees(companyID uuid.UUID) ([]model.Employee, error) {
	return s.employeeRepo.FindByCompany(companyID)
}

// barcode draws EMP- codes until one is free in the company. After the retry budget
// the last candidate is returned and the unique index decides.
func (s *employeeService) barcode(ctx context.Context, companyID uuid.UUID) (string, error) {
	code, _, err := codegen.Unique(ctx,
		func() string { return codegen.EmployeeBarcode(s.codes) },
		func(_ context.Context, c string) (bool, error) { return s.employeeRepo.BarcodeExists(companyID, c) },
	)
	return code, err
}
