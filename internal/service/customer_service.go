package service

import (
	"go-retail-pos/internal/model"
	"go-retail-pos/internal/repository"

	"github.com/google/uuid"
)

type CustomerService interface {
	CreateCustomer(companyID uuid.UUID, req *CustomerRequest, createdBy string) (*model.Customer, error)
	UpdateCustomer(companyID, id uuid.UUID, req *CustomerRequest, updatedBy string) (*model.Customer, error)
	GetCustomer(companyID, id uuid.UUID) (*model.Customer, error)
	ListCustomers(companyID uuid.UUID, search string) ([]model.Customer, error)
	RedeemLoyaltyPoints(companyID, id uuid.UUID, req *RedeemPointsRequest) (*model.Customer, error)
}

type CustomerRequest struct {
	Name  string `json:"name" validate:"required,max=255"`
	Email string `json:"email" validate:"omitempty,email"`
	Phone string `json:"phone" validate:"max=30"`
}

type RedeemPointsRequest struct {
	Points int64 `json:"points" validate:"gt=0"`
}

type customerService struct {
	customerRepo repository.CustomerRepository
}

func NewCustomerService(customerRepo repository.CustomerRepository) CustomerService {
	return &customerService{customerRepo: customerRepo}
}

func (s *customerService) CreateCustomer(companyID uuid.UUID, req *CustomerRequest, createdBy string) (*model.Customer, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	customer := &model.Customer{
		CompanyID: companyID,
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
	}
	customer.CreatedBy = createdBy
	customer.UpdatedBy = createdBy
	if err := s.customerRepo.Create(customer); err != nil {
		return nil, err
	}
	return customer, nil
}

func (s *customerService) UpdateCustomer(companyID, id uuid.UUID, req *CustomerRequest, updatedBy string) (*model.Customer, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	customer, err := s.GetCustomer(companyID, id)
	if err != nil {
		return nil, err
	}
	customer.Name = req.Name
	customer.Email = req.Email
	customer.Phone = req.Phone
	customer.UpdatedBy = updatedBy
	if err := s.customerRepo.Update(customer); err != nil {
		return nil, err
	}
	return customer, nil
}

func (s *customerService) GetCustomer(companyID, id uuid.UUID) (*model.Customer, error) {
	customer, err := s.customerRepo.FindByID(companyID, id)
	if err != nil {
		return nil, lookupErr(err, ErrCustomerNotFound)
	}
	return customer, nil
}

func (s *customerService) ListCustomers(companyID uuid.UUID, search string) ([]model.Customer, error) {
	return s.customerRepo.FindByCompany(companyID, search)
}

// RedeemLoyaltyPoints subtracts points in one conditional update; the balance never goes negative.
func (s *customerService) RedeemLoyaltyPoints(companyID, id uuid.UUID, req *RedeemPointsRequest) (*model.Customer, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	if _, err := s.GetCustomer(companyID, id); err != nil {
		return nil, err
	}
	ok, err := s.customerRepo.RedeemPoints(companyID, id, req.Points)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInsufficientPoints
	}
	return s.GetCustomer(companyID, id)
}
