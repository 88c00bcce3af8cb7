package handler

import (
	"go-retail-pos/internal/middleware"
	"go-retail-pos/internal/model"
	"go-retail-pos/internal/repository"
	"go-retail-pos/internal/service"
	"go-retail-pos/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ShiftHandler struct {
	shiftService service.ShiftService
}

func NewShiftHandler(shiftService service.ShiftService) *ShiftHandler {
	return &ShiftHandler{shiftService: shiftService}
}

// ClockIn opens a shift for the signed-in employee, or returns the open one
// POST /api/v1/shifts/clock-in
func (h *ShiftHandler) ClockIn(c *fiber.Ctx) error {
	var req service.ClockInRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	shift, created, err := h.shiftService.ClockIn(middleware.CompanyID(c), subjectID(c), &req)
	if err != nil {
		return respondError(c, err)
	}

	if !created {
		return c.JSON(fiber.Map{"message": "Shift already open", "data": shift})
	}
	return c.Status(201).JSON(fiber.Map{"message": "Clocked in", "data": shift})
}

// CurrentShift returns the signed-in employee's open shift
// GET /api/v1/shifts/current
func (h *ShiftHandler) CurrentShift(c *fiber.Ctx) error {
	shift, err := h.shiftService.CurrentShift(middleware.CompanyID(c), subjectID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(shift)
}

// AddCashInjection records cash added to the drawer mid-shift
// POST /api/v1/shifts/:id/cash-injections
func (h *ShiftHandler) AddCashInjection(c *fiber.Ctx) error {
	shiftID, err := paramUUID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid shift ID")
	}
	if ok, err := h.checkOwner(c, shiftID); !ok {
		return err
	}

	var req service.CashInjectionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	shift, err := h.shiftService.AddCashInjection(middleware.CompanyID(c), shiftID, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Cash injection recorded", "data": shift})
}

// ClockOut closes a shift with the counted drawer and returns its reconciliation
// POST /api/v1/shifts/:id/clock-out
func (h *ShiftHandler) ClockOut(c *fiber.Ctx) error {
	shiftID, err := paramUUID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid shift ID")
	}
	if ok, err := h.checkOwner(c, shiftID); !ok {
		return err
	}

	var req service.ClockOutRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	summary, err := h.shiftService.ClockOut(middleware.CompanyID(c), shiftID, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Clocked out", "data": summary})
}

// GetShift returns one shift
// GET /api/v1/shifts/:id
func (h *ShiftHandler) GetShift(c *fiber.Ctx) error {
	shiftID, err := paramUUID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid shift ID")
	}
	shift, err := h.shiftService.GetShift(middleware.CompanyID(c), shiftID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(shift)
}

// GetSummary reconciles a shift, open or closed
// GET /api/v1/shifts/:id/summary
func (h *ShiftHandler) GetSummary(c *fiber.Ctx) error {
	shiftID, err := paramUUID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid shift ID")
	}
	summary, err := h.shiftService.SummarizeShift(middleware.CompanyID(c), shiftID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(summary)
}

// GetShifts lists shifts
// Query params: employeeId, status, from, to, limit
func (h *ShiftHandler) GetShifts(c *fiber.Ctx) error {
	var filter repository.ShiftFilter
	var err error
	if filter.EmployeeID, err = queryUUID(c, "employeeId"); err != nil {
		return badRequest(c, "Invalid employeeId")
	}
	if filter.From, err = queryTime(c, "from"); err != nil {
		return badRequest(c, "Invalid from date")
	}
	if filter.To, err = queryTime(c, "to"); err != nil {
		return badRequest(c, "Invalid to date")
	}
	filter.Status = model.ShiftStatus(c.Query("status"))
	filter.Limit = queryLimit(c)

	shifts, err := h.shiftService.ListShifts(middleware.CompanyID(c), filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(shifts)
}

// checkOwner lets employees act on their own shift only; managers and admin
// users may act on any shift of the company.
// When ok is false the response has been written.
func (h *ShiftHandler) checkOwner(c *fiber.Ctx, shiftID uuid.UUID) (bool, error) {
	claims := middleware.GetClaims(c)
	if claims == nil || claims.Kind != jwt.SubjectEmployee || claims.IsManager {
		return true, nil
	}
	shift, err := h.shiftService.GetShift(middleware.CompanyID(c), shiftID)
	if err != nil {
		return false, respondError(c, err)
	}
	if shift.EmployeeID != claims.SubjectID {
		return false, c.Status(403).JSON(fiber.Map{"error": "Forbidden: shift belongs to another employee"})
	}
	return true, nil
}
