package handler

import (
	"go-retail-pos/internal/middleware"
	"go-retail-pos/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ReportHandler struct {
	service service.ReportService
}

func NewReportHandler(s service.ReportService) *ReportHandler {
	return &ReportHandler{service: s}
}

// GetEmployeePerformance compares one employee against the sales staff
// GET /api/v1/reports/employees/:id/performance?from=&to=
func (h *ReportHandler) GetEmployeePerformance(c *fiber.Ctx) error {
	focusID, err := paramUUID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid employee ID")
	}
	from, err := queryTime(c, "from")
	if err != nil {
		return badRequest(c, "Invalid from date")
	}
	to, err := queryTime(c, "to")
	if err != nil {
		return badRequest(c, "Invalid to date")
	}

	report, err := h.service.CompareEmployees(c.UserContext(), middleware.CompanyID(c), focusID, from, to)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(report)
}
