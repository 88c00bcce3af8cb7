package service

import (
	"time"

	"go-retail-pos/internal/repository"

	"github.com/google/uuid"
)

const maxMovementDays = 366

type DashboardService interface {
	GetSalesMovement(companyID uuid.UUID, days int) ([]repository.SalesMovementData, error)
	GetDashboardStats(companyID uuid.UUID) (*repository.DashboardStats, error)
}

type dashboardService struct {
	txRepo      repository.TransactionRepository
	companyRepo repository.CompanyRepository
	defaultLoc  *time.Location
	now         clock
}

func NewDashboardService(txRepo repository.TransactionRepository, companyRepo repository.CompanyRepository, defaultLoc *time.Location) DashboardService {
	if defaultLoc == nil {
		defaultLoc = time.UTC
	}
	return &dashboardService{txRepo: txRepo, companyRepo: companyRepo, defaultLoc: defaultLoc, now: time.Now}
}

func (s *dashboardService) GetSalesMovement(companyID uuid.UUID, days int) ([]repository.SalesMovementData, error) {
	if days <= 0 || days > maxMovementDays {
		return nil, errValidationf("days must be between 1 and %d", maxMovementDays)
	}
	end := s.now()
	return s.txRepo.GetSalesMovement(companyID, end.AddDate(0, 0, -days), end)
}

// GetDashboardStats reports figures since local midnight of the company plus inventory totals.
func (s *dashboardService) GetDashboardStats(companyID uuid.UUID) (*repository.DashboardStats, error) {
	company, err := s.companyRepo.FindByID(companyID)
	if err != nil {
		return nil, lookupErr(err, ErrCompanyNotFound)
	}
	return s.txRepo.GetDashboardStats(companyID, startOfDay(s.now(), company.Location(s.defaultLoc)))
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}
