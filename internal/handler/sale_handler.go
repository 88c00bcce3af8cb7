package handler

import (
	"go-retail-pos/internal/middleware"
	"go-retail-pos/internal/model"
	"go-retail-pos/internal/repository"
	"go-retail-pos/internal/service"

	"github.com/gofiber/fiber/v2"
)

type SaleHandler struct {
	saleService service.SaleService
}

func NewSaleHandler(saleService service.SaleService) *SaleHandler {
	return &SaleHandler{saleService: saleService}
}

// CreateSale rings up a sale on the employee's open shift
// POST /api/v1/sales
func (h *SaleHandler) CreateSale(c *fiber.Ctx) error {
	var req service.CreateSaleRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	sale, err := h.saleService.CreateSale(c.UserContext(), middleware.CompanyID(c), subjectID(c), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Sale completed", "data": sale})
}

// RefundSale refunds a completed sale within its return window
// POST /api/v1/sales/:id/refund
func (h *SaleHandler) RefundSale(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid transaction ID")
	}
	var req service.RefundRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	res, err := h.saleService.RefundSale(c.UserContext(), middleware.CompanyID(c), id, subjectID(c), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Refund completed", "data": res})
}

// VoidSale cancels a completed sale
// POST /api/v1/sales/:id/void
func (h *SaleHandler) VoidSale(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid transaction ID")
	}

	result, err := h.saleService.VoidSale(c.UserContext(), middleware.CompanyID(c), id, subjectID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Sale voided", "data": result})
}

func (h *SaleHandler) GetTransaction(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid transaction ID")
	}
	t, err := h.saleService.GetTransaction(middleware.CompanyID(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(t)
}

// GetTransactions lists the ledger
// Query params: employeeId, shiftId, type, status, from, to, limit
func (h *SaleHandler) GetTransactions(c *fiber.Ctx) error {
	var filter repository.TransactionFilter
	var err error
	if filter.EmployeeID, err = queryUUID(c, "employeeId"); err != nil {
		return badRequest(c, "Invalid employeeId")
	}
	if filter.ShiftID, err = queryUUID(c, "shiftId"); err != nil {
		return badRequest(c, "Invalid shiftId")
	}
	if filter.From, err = queryTime(c, "from"); err != nil {
		return badRequest(c, "Invalid from date")
	}
	if filter.To, err = queryTime(c, "to"); err != nil {
		return badRequest(c, "Invalid to date")
	}
	filter.Type = model.TransactionType(c.Query("type"))
	filter.Status = model.TransactionStatus(c.Query("status"))
	filter.Limit = queryLimit(c)

	txs, err := h.saleService.ListTransactions(middleware.CompanyID(c), filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(txs)
}
