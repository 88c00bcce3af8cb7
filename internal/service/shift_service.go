package service

import (
	"time"

	"go-retail-pos/internal/model"
	"go-retail-pos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ShiftService interface {
	// ClockIn returns the employee's open shift, opening one when none exists.
	// The boolean reports whether a new shift was created.
	ClockIn(companyID, employeeID uuid.UUID, req *ClockInRequest) (*model.Shift, bool, error)
	AddCashInjection(companyID, shiftID uuid.UUID, req *CashInjectionRequest) (*model.Shift, error)
	ClockOut(companyID, shiftID uuid.UUID, req *ClockOutRequest) (*ShiftSummary, error)
	CurrentShift(companyID, employeeID uuid.UUID) (*model.Shift, error)
	GetShift(companyID, shiftID uuid.UUID) (*model.Shift, error)
	ListShifts(companyID uuid.UUID, filter repository.ShiftFilter) ([]model.Shift, error)
	SummarizeShift(companyID, shiftID uuid.UUID) (*ShiftSummary, error)
}

type ClockInRequest struct {
	OpeningBalance decimal.Decimal `json:"opening_balance" validate:"decimal_gte0"`
}

type CashInjectionRequest struct {
	Amount decimal.Decimal `json:"amount" validate:"decimal_gt0"`
}

type ClockOutRequest struct {
	ClosingBalance decimal.Decimal `json:"closing_balance" validate:"decimal_gte0"`
}

type shiftService struct {
	shiftRepo    repository.ShiftRepository
	employeeRepo repository.EmployeeRepository
	companyRepo  repository.CompanyRepository
	txRepo       repository.TransactionRepository
	creditRepo   repository.StoreCreditRepository
	notifier     Notifier
	defaultLoc   *time.Location
	now          clock
}

func NewShiftService(
	shiftRepo repository.ShiftRepository,
	employeeRepo repository.EmployeeRepository,
	companyRepo repository.CompanyRepository,
	txRepo repository.TransactionRepository,
	creditRepo repository.StoreCreditRepository,
	notifier Notifier,
	defaultLoc *time.Location,
) ShiftService {
	if defaultLoc == nil {
		defaultLoc = time.UTC
	}
	return &shiftService{
		shiftRepo:    shiftRepo,
		employeeRepo: employeeRepo,
		companyRepo:  companyRepo,
		txRepo:       txRepo,
		creditRepo:   creditRepo,
		notifier:     notifier,
		defaultLoc:   defaultLoc,
		now:          time.Now,
	}
}

func (s *shiftService) ClockIn(companyID, employeeID uuid.UUID, req *ClockInRequest) (*model.Shift, bool, error) {
	if err := validate(req); err != nil {
		return nil, false, err
	}

	employee, err := s.employeeRepo.FindByID(companyID, employeeID)
	if err != nil {
		return nil, false, lookupErr(err, ErrEmployeeNotFound)
	}
	if !employee.IsActive {
		return nil, false, ErrEmployeeInactive
	}

	open, err := s.shiftRepo.FindOpenByEmployee(companyID, employeeID)
	if err == nil {
		return open, false, nil
	}
	if !isNotFound(err) {
		return nil, false, err
	}

	shift := &model.Shift{
		CompanyID:      companyID,
		EmployeeID:     employeeID,
		StartTime:      s.now(),
		OpeningBalance: req.OpeningBalance,
		CashInjections: decimal.Zero,
		Status:         model.ShiftOpen,
	}
	if err := s.shiftRepo.Create(shift); err != nil {
		// A concurrent clock-in won the partial unique index; hand back its shift.
		if isUniqueViolation(err) {
			if open, ferr := s.shiftRepo.FindOpenByEmployee(companyID, employeeID); ferr == nil {
				return open, false, nil
			}
		}
		return nil, false, err
	}
	shift.Employee = employee

	publish(s.notifier, companyID, map[string]interface{}{
		"type":        "shift_update",
		"action":      "shift_opened",
		"shift_id":    shift.ID,
		"employee_id": employeeID,
		"employee":    employee.Name,
		"start_time":  shift.StartTime,
	})
	return shift, true, nil
}

func (s *shiftService) AddCashInjection(companyID, shiftID uuid.UUID, req *CashInjectionRequest) (*model.Shift, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	ok, err := s.shiftRepo.AddCashInjection(companyID, shiftID, req.Amount)
	if err != nil {
		return nil, err
	}
	if !ok {
		if _, ferr := s.shiftRepo.FindByID(companyID, shiftID); ferr != nil {
			return nil, lookupErr(ferr, ErrShiftNotFound)
		}
		return nil, ErrShiftClosed
	}

	shift, err := s.shiftRepo.FindByID(companyID, shiftID)
	if err != nil {
		return nil, lookupErr(err, ErrShiftNotFound)
	}
	return shift, nil
}

func (s *shiftService) ClockOut(companyID, shiftID uuid.UUID, req *ClockOutRequest) (*ShiftSummary, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	shift, err := s.shiftRepo.FindByID(companyID, shiftID)
	if err != nil {
		return nil, lookupErr(err, ErrShiftNotFound)
	}
	if shift.Status != model.ShiftOpen {
		return nil, ErrShiftClosed
	}

	end := s.now()
	shift.EndTime = &end
	shift.ClosingBalance = decimal.NewNullDecimal(req.ClosingBalance)

	summary, err := s.summarize(shift, end)
	if err != nil {
		return nil, err
	}
	shift.ExpectedCash = decimal.NewNullDecimal(summary.ExpectedCash)
	shift.Variance = summary.Variance

	closed, err := s.shiftRepo.Close(shift)
	if err != nil {
		return nil, err
	}
	if !closed {
		return nil, ErrShiftClosed
	}
	summary.Status = model.ShiftClosed

	payload := map[string]interface{}{
		"type":          "shift_update",
		"action":        "shift_closed",
		"shift_id":      shift.ID,
		"employee_id":   shift.EmployeeID,
		"expected_cash": summary.ExpectedCash,
		"variance":      summary.Variance,
	}
	if shift.Employee != nil {
		payload["employee"] = shift.Employee.Name
	}
	publish(s.notifier, companyID, payload)

	return summary, nil
}

func (s *shiftService) CurrentShift(companyID, employeeID uuid.UUID) (*model.Shift, error) {
	shift, err := s.shiftRepo.FindOpenByEmployee(companyID, employeeID)
	if err != nil {
		return nil, lookupErr(err, ErrShiftNotFound)
	}
	return shift, nil
}

func (s *shiftService) GetShift(companyID, shiftID uuid.UUID) (*model.Shift, error) {
	shift, err := s.shiftRepo.FindByID(companyID, shiftID)
	if err != nil {
		return nil, lookupErr(err, ErrShiftNotFound)
	}
	return shift, nil
}

func (s *shiftService) ListShifts(companyID uuid.UUID, filter repository.ShiftFilter) ([]model.Shift, error) {
	return s.shiftRepo.FindByCompany(companyID, filter)
}

func (s *shiftService) SummarizeShift(companyID, shiftID uuid.UUID) (*ShiftSummary, error) {
	shift, err := s.shiftRepo.FindByID(companyID, shiftID)
	if err != nil {
		return nil, lookupErr(err, ErrShiftNotFound)
	}
	return s.summarize(shift, s.now())
}

func (s *shiftService) summarize(shift *model.Shift, now time.Time) (*ShiftSummary, error) {
	company, err := s.companyRepo.FindByID(shift.CompanyID)
	if err != nil {
		return nil, lookupErr(err, ErrCompanyNotFound)
	}

	start, end := shift.StartTime, shift.WindowEnd(now)
	txs, err := s.txRepo.FindForShift(shift.ID, start, end)
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, len(txs))
	for i := range txs {
		ids[i] = txs[i].ID
	}
	credits, err := s.creditRepo.FindForShift(shift.CompanyID, shift.EmployeeID, start, end, ids)
	if err != nil {
		return nil, err
	}

	summary := SummarizeShift(shift, txs, credits, company.Location(s.defaultLoc), now)
	return &summary, nil
}
