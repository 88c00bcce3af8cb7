package handler

import (
	"go-retail-pos/internal/service"

	"github.com/gofiber/fiber/v2"
)

type CompanyHandler struct {
	service service.CompanyService
}

func NewCompanyHandler(s service.CompanyService) *CompanyHandler {
	return &CompanyHandler{service: s}
}

// GetCompanies lists every tenant
// GET /api/v1/companies
func (h *CompanyHandler) GetCompanies(c *fiber.Ctx) error {
	companies, err := h.service.ListCompanies()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(companies)
}

// GetCompany returns one tenant. Company-bound tokens only see their own.
// GET /api/v1/companies/:id
func (h *CompanyHandler) GetCompany(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid company ID")
	}
	if bound := scope(c); bound != nil && *bound != id {
		return c.Status(403).JSON(fiber.Map{"error": "Forbidden: token is not valid for this company"})
	}

	company, err := h.service.GetCompany(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(company)
}

func (h *CompanyHandler) CreateCompany(c *fiber.Ctx) error {
	var req service.CompanyRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	company, err := h.service.CreateCompany(&req, getUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Company created", "data": company})
}

func (h *CompanyHandler) UpdateCompany(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid company ID")
	}
	var req service.CompanyRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	company, err := h.service.UpdateCompany(id, &req, getUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Company updated", "data": company})
}
