package handler

import (
	"go-retail-pos/internal/middleware"
	"go-retail-pos/internal/repository"
	"go-retail-pos/internal/service"

	"github.com/gofiber/fiber/v2"
)

type InventoryHandler struct {
	service service.InventoryService
}

func NewInventoryHandler(s service.InventoryService) *InventoryHandler {
	return &InventoryHandler{service: s}
}

func (h *InventoryHandler) GetCategories(c *fiber.Ctx) error {
	categories, err := h.service.ListCategories(middleware.CompanyID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(categories)
}

func (h *InventoryHandler) CreateCategory(c *fiber.Ctx) error {
	var req service.CategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	category, err := h.service.CreateCategory(middleware.CompanyID(c), &req, getUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Category created", "data": category})
}

func (h *InventoryHandler) UpdateCategory(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid category ID")
	}
	var req service.CategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	category, err := h.service.UpdateCategory(middleware.CompanyID(c), id, &req, getUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Category updated", "data": category})
}

func (h *InventoryHandler) DeleteCategory(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid category ID")
	}
	if err := h.service.DeleteCategory(middleware.CompanyID(c), id, getUserID(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Category deleted"})
}

func (h *InventoryHandler) GetVendors(c *fiber.Ctx) error {
	vendors, err := h.service.ListVendors(middleware.CompanyID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(vendors)
}

func (h *InventoryHandler) CreateVendor(c *fiber.Ctx) error {
	var req service.VendorRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	vendor, err := h.service.CreateVendor(middleware.CompanyID(c), &req, getUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Vendor created", "data": vendor})
}

func (h *InventoryHandler) UpdateVendor(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid vendor ID")
	}
	var req service.VendorRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	vendor, err := h.service.UpdateVendor(middleware.CompanyID(c), id, &req, getUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Vendor updated", "data": vendor})
}

func (h *InventoryHandler) DeleteVendor(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid vendor ID")
	}
	if err := h.service.DeleteVendor(middleware.CompanyID(c), id, getUserID(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Vendor deleted"})
}

// GetItems lists items.
// Query params: categoryId, vendorId, search, lowStock=true
func (h *InventoryHandler) GetItems(c *fiber.Ctx) error {
	var filter repository.ItemFilter
	var err error
	if filter.CategoryID, err = queryUUID(c, "categoryId"); err != nil {
		return badRequest(c, "Invalid categoryId")
	}
	if filter.VendorID, err = queryUUID(c, "vendorId"); err != nil {
		return badRequest(c, "Invalid vendorId")
	}
	filter.Search = c.Query("search")
	filter.LowStock = c.QueryBool("lowStock")

	items, err := h.service.ListItems(middleware.CompanyID(c), filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(items)
}

func (h *InventoryHandler) GetItem(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid item ID")
	}
	item, err := h.service.GetItem(middleware.CompanyID(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(item)
}

func (h *InventoryHandler) CreateItem(c *fiber.Ctx) error {
	var req service.ItemRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	item, err := h.service.CreateItem(middleware.CompanyID(c), &req, getUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Item created", "data": item})
}

func (h *InventoryHandler) UpdateItem(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid item ID")
	}
	var req service.ItemRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	item, err := h.service.UpdateItem(middleware.CompanyID(c), id, &req, getUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Item updated", "data": item})
}

func (h *InventoryHandler) DeleteItem(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid item ID")
	}
	if err := h.service.DeleteItem(middleware.CompanyID(c), id, getUserID(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Item deleted"})
}

// AdjustStock applies a manual stock correction
// POST /api/v1/items/:id/stock
func (h *InventoryHandler) AdjustStock(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid item ID")
	}
	var req service.StockAdjustmentRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	item, err := h.service.AdjustStock(middleware.CompanyID(c), id, &req, getUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Stock adjusted", "data": item})
}
