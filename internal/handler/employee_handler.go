package handler

import (
	"go-retail-pos/internal/middleware"
	"go-retail-pos/internal/service"

	"github.com/gofiber/fiber/v2"
)

type EmployeeHandler struct {
	service service.EmployeeService
}

func NewEmployeeHandler(s service.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{service: s}
}

func (h *EmployeeHandler) GetEmployees(c *fiber.Ctx) error {
	employees, err := h.service.ListEmployees(middleware.CompanyID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(employees)
}

func (h *EmployeeHandler) GetEmployee(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid employee ID")
	}
	employee, err := h.service.GetEmployee(middleware.CompanyID(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(employee)
}

// CreateEmployee registers a terminal operator and assigns a barcode
// POST /api/v1/employees
func (h *EmployeeHandler) CreateEmployee(c *fiber.Ctx) error {
	var req service.CreateEmployeeRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	employee, err := h.service.CreateEmployee(c.UserContext(), middleware.CompanyID(c), &req, getUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Employee created", "data": employee})
}

func (h *EmployeeHandler) UpdateEmployee(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid employee ID")
	}
	var req service.UpdateEmployeeRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	employee, err := h.service.UpdateEmployee(c.UserContext(), middleware.CompanyID(c), id, &req, getUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Employee updated", "data": employee})
}

// DeactivateEmployee blocks terminal sign-in without removing history
// DELETE /api/v1/employees/:id
func (h *EmployeeHandler) DeactivateEmployee(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid employee ID")
	}
	if err := h.service.DeactivateEmployee(c.UserContext(), middleware.CompanyID(c), id, getUserID(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Employee deactivated"})
}

// RegenerateBarcode issues a fresh sign-in barcode
// POST /api/v1/employees/:id/barcode
func (h *EmployeeHandler) RegenerateBarcode(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid employee ID")
	}
	employee, err := h.service.RegenerateBarcode(c.UserContext(), middleware.CompanyID(c), id, getUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Barcode regenerated", "data": employee})
}
