package service

import (
	"context"
	"testing"

	"go-retail-pos/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *store) shiftService() *shiftService {
	svc := NewShiftService(s.shifts, s.employees, newFakeCompanies(s.company), s.txs, s.credits, nil, nil).(*shiftService)
	svc.now = s.now
	return svc
}

func TestClockInReturnsOpenShift(t *testing.T) {
	s := newStore(t)
	newbie := employee("Newbie", false)
	newbie.CompanyID = s.company.ID
	s.employees.rows[newbie.ID] = &newbie

	first, created, err := s.shiftService().ClockIn(s.company.ID, newbie.ID, &ClockInRequest{OpeningBalance: dec("100")})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, model.ShiftOpen, first.Status)
	assertDec(t, "0", first.CashInjections)

	again, created, err := s.shiftService().ClockIn(s.company.ID, newbie.ID, &ClockInRequest{OpeningBalance: dec("999")})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, again.ID)
	assertDec(t, "100", again.OpeningBalance)
}

// blindShifts misses the open shift on lookup, as when a concurrent clock-in
// commits between the read and the insert.
type blindShifts struct {
	*fakeShifts
	misses int
}

func (b *blindShifts) FindOpenByEmployee(companyID, employeeID uuid.UUID) (*model.Shift, error) {
	if b.misses > 0 {
		b.misses--
		return b.fakeShifts.FindOpenByEmployee(uuid.Nil, employeeID)
	}
	return b.fakeShifts.FindOpenByEmployee(companyID, employeeID)
}

func TestClockInConcurrentWinner(t *testing.T) {
	s := newStore(t)
	svc := s.shiftService()
	svc.shiftRepo = &blindShifts{fakeShifts: s.shifts, misses: 1}

	shift, created, err := svc.ClockIn(s.company.ID, s.cashier.ID, &ClockInRequest{OpeningBalance: dec("0")})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, s.shift.ID, shift.ID)
}

func TestClockInRejections(t *testing.T) {
	s := newStore(t)

	gone := employee("Gone", false)
	gone.CompanyID = s.company.ID
	gone.IsActive = false
	s.employees.rows[gone.ID] = &gone
	_, _, err := s.shiftService().ClockIn(s.company.ID, gone.ID, &ClockInRequest{})
	assert.ErrorIs(t, err, ErrEmployeeInactive)

	_, _, err = s.shiftService().ClockIn(s.company.ID, uuid.New(), &ClockInRequest{})
	assert.ErrorIs(t, err, ErrEmployeeNotFound)

	_, _, err = s.shiftService().ClockIn(s.company.ID, s.cashier.ID, &ClockInRequest{OpeningBalance: dec("-1")})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestClockOutReconcilesAndCloses(t *testing.T) {
	s := newStore(t)
	s.shifts.rows[s.shift.ID].OpeningBalance = dec("100")

	_, err := s.shiftService().AddCashInjection(s.company.ID, s.shift.ID, &CashInjectionRequest{Amount: dec("20")})
	require.NoError(t, err)
	sale := s.cashSale(t) // 27.00 in cash
	_, err = s.sales().CreateSale(context.Background(), s.company.ID, s.cashier.ID, &CreateSaleRequest{
		Lines:         []SaleLineRequest{{ItemID: s.widget.ID, Quantity: 1}},
		PaymentMethod: model.PayCard,
	})
	require.NoError(t, err)

	summary, err := s.shiftService().ClockOut(s.company.ID, s.shift.ID, &ClockOutRequest{ClosingBalance: dec("145")})
	require.NoError(t, err)

	assert.Equal(t, model.ShiftClosed, summary.Status)
	assert.Equal(t, 2, summary.SaleCount)
	assertDec(t, sale.Total.String(), summary.CashCollected)
	assertDec(t, "11", summary.CardTotal)
	assertDec(t, "147", summary.ExpectedCash)
	require.True(t, summary.Variance.Valid)
	assertDec(t, "-2", summary.Variance.Decimal)

	stored := s.shifts.rows[s.shift.ID]
	assert.Equal(t, model.ShiftClosed, stored.Status)
	require.NotNil(t, stored.EndTime)
	assertDec(t, "147", stored.ExpectedCash.Decimal)
	assertDec(t, "-2", stored.Variance.Decimal)

	_, err = s.shiftService().ClockOut(s.company.ID, s.shift.ID, &ClockOutRequest{ClosingBalance: dec("145")})
	assert.ErrorIs(t, err, ErrShiftClosed)

	_, err = s.shiftService().AddCashInjection(s.company.ID, s.shift.ID, &CashInjectionRequest{Amount: dec("5")})
	assert.ErrorIs(t, err, ErrShiftClosed)
}

func TestAddCashInjectionUnknownShift(t *testing.T) {
	s := newStore(t)
	_, err := s.shiftService().AddCashInjection(s.company.ID, uuid.New(), &CashInjectionRequest{Amount: dec("5")})
	assert.ErrorIs(t, err, ErrShiftNotFound)

	_, err = s.shiftService().AddCashInjection(s.company.ID, s.shift.ID, &CashInjectionRequest{Amount: dec("0")})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestSummarizeShiftWhileOpen(t *testing.T) {
	s := newStore(t)
	s.cashSale(t)

	summary, err := s.shiftService().SummarizeShift(s.company.ID, s.shift.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ShiftOpen, summary.Status)
	assert.Equal(t, 1, summary.SaleCount)
	assert.False(t, summary.Variance.Valid)

	_, err = s.shiftService().SummarizeShift(uuid.New(), s.shift.ID)
	assert.ErrorIs(t, err, ErrShiftNotFound)
}
