package handler

import (
	"strings"
	"testing"

	"go-retail-pos/internal/middleware"
	"go-retail-pos/internal/model"
	"go-retail-pos/internal/service"
	"go-retail-pos/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type stubShifts struct {
	service.ShiftService
	shifts   map[uuid.UUID]*model.Shift
	open     map[uuid.UUID]bool
	injected int
}

func (s *stubShifts) ClockIn(companyID, employeeID uuid.UUID, req *service.ClockInRequest) (*model.Shift, bool, error) {
	created := !s.open[employeeID]
	s.open[employeeID] = true
	shift := &model.Shift{CompanyID: companyID, EmployeeID: employeeID, OpeningBalance: req.OpeningBalance, Status: model.ShiftOpen}
	return shift, created, nil
}

func (s *stubShifts) GetShift(companyID, shiftID uuid.UUID) (*model.Shift, error) {
	shift, ok := s.shifts[shiftID]
	if !ok {
		return nil, service.ErrShiftNotFound
	}
	return shift, nil
}

func (s *stubShifts) AddCashInjection(companyID, shiftID uuid.UUID, req *service.CashInjectionRequest) (*model.Shift, error) {
	s.injected++
	return s.shifts[shiftID], nil
}

func as(claims *jwt.Claims) fiber.Handler {
	return func(c *fiber.Ctx) error {
		middleware.SetClaims(c, claims)
		return c.Next()
	}
}

func terminalClaims(companyID uuid.UUID, manager bool) *jwt.Claims {
	return &jwt.Claims{SubjectID: uuid.New(), Kind: jwt.SubjectEmployee, CompanyID: &companyID, IsManager: manager}
}

func TestClockInStatus(t *testing.T) {
	companyID := uuid.New()
	stub := &stubShifts{open: map[uuid.UUID]bool{}}
	h := NewShiftHandler(stub)
	app := fiber.New()
	app.Post("/shifts/clock-in", as(terminalClaims(companyID, false)), withCompany(companyID), h.ClockIn)

	status, body := call(t, app, "POST", "/shifts/clock-in", strings.NewReader(`{"opening_balance":"150.00"}`))
	assert.Equal(t, 201, status)
	assert.Equal(t, "Clocked in", body["message"])

	status, body = call(t, app, "POST", "/shifts/clock-in", strings.NewReader(`{"opening_balance":"0"}`))
	assert.Equal(t, 200, status)
	assert.Equal(t, "Shift already open", body["message"])

	status, _ = call(t, app, "POST", "/shifts/clock-in", strings.NewReader(`[`))
	assert.Equal(t, 400, status)
}

func TestCashInjectionOwnership(t *testing.T) {
	companyID := uuid.New()
	owner := terminalClaims(companyID, false)
	shift := &model.Shift{EmployeeID: owner.SubjectID, Status: model.ShiftOpen}
	shift.ID = uuid.New()
	stub := &stubShifts{shifts: map[uuid.UUID]*model.Shift{shift.ID: shift}}
	h := NewShiftHandler(stub)

	route := func(claims *jwt.Claims) *fiber.App {
		app := fiber.New()
		app.Post("/shifts/:id/cash-injections", as(claims), withCompany(companyID), h.AddCashInjection)
		return app
	}
	target := "/shifts/" + shift.ID.String() + "/cash-injections"
	body := func() *strings.Reader { return strings.NewReader(`{"amount":"20"}`) }

	status, _ := call(t, route(owner), "POST", target, body())
	assert.Equal(t, 200, status)

	status, resp := call(t, route(terminalClaims(companyID, false)), "POST", target, body())
	assert.Equal(t, 403, status)
	assert.Contains(t, resp["error"], "another employee")

	status, _ = call(t, route(terminalClaims(companyID, true)), "POST", target, body())
	assert.Equal(t, 200, status, "managers may act on any shift")

	status, _ = call(t, route(owner), "POST", "/shifts/"+uuid.NewString()+"/cash-injections", body())
	assert.Equal(t, 404, status)

	assert.Equal(t, 2, stub.injected)
}
