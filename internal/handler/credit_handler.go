package handler

import (
	"go-retail-pos/internal/middleware"
	"go-retail-pos/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreditHandler serves store credits and gift cards.
type CreditHandler struct {
	storeCredits service.StoreCreditService
	giftCards    service.GiftCardService
}

func NewCreditHandler(storeCredits service.StoreCreditService, giftCards service.GiftCardService) *CreditHandler {
	return &CreditHandler{storeCredits: storeCredits, giftCards: giftCards}
}

// IssueStoreCredit issues a barcoded credit slip
// POST /api/v1/store-credits
func (h *CreditHandler) IssueStoreCredit(c *fiber.Ctx) error {
	var req service.IssueStoreCreditRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	credit, err := h.storeCredits.IssueStoreCredit(c.UserContext(), middleware.CompanyID(c), subjectID(c), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Store credit issued", "data": credit})
}

// GetStoreCredit looks a credit up by barcode
// GET /api/v1/store-credits/:barcode
func (h *CreditHandler) GetStoreCredit(c *fiber.Ctx) error {
	credit, err := h.storeCredits.LookupStoreCredit(middleware.CompanyID(c), c.Params("barcode"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(credit)
}

// RedeemStoreCredit consumes a credit outside of a sale
// POST /api/v1/store-credits/:barcode/redeem
func (h *CreditHandler) RedeemStoreCredit(c *fiber.Ctx) error {
	credit, err := h.storeCredits.RedeemStoreCredit(c.UserContext(), middleware.CompanyID(c), c.Params("barcode"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Store credit redeemed", "data": credit})
}

// GetStoreCredits lists credits
// Query params: unused=true
func (h *CreditHandler) GetStoreCredits(c *fiber.Ctx) error {
	credits, err := h.storeCredits.ListStoreCredits(middleware.CompanyID(c), c.QueryBool("unused"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(credits)
}

// IssueGiftCard sells a new gift card
// POST /api/v1/gift-cards
func (h *CreditHandler) IssueGiftCard(c *fiber.Ctx) error {
	var req service.GiftCardAmountRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	card, err := h.giftCards.IssueGiftCard(c.UserContext(), middleware.CompanyID(c), subjectID(c), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Gift card issued", "data": card})
}

// GetGiftCard returns a card and its balance
// GET /api/v1/gift-cards/:code
func (h *CreditHandler) GetGiftCard(c *fiber.Ctx) error {
	card, err := h.giftCards.LookupGiftCard(middleware.CompanyID(c), c.Params("code"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(card)
}

// RedeemGiftCard debits a card
// POST /api/v1/gift-cards/:code/redeem
func (h *CreditHandler) RedeemGiftCard(c *fiber.Ctx) error {
	var req service.GiftCardAmountRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	card, err := h.giftCards.RedeemGiftCard(middleware.CompanyID(c), c.Params("code"), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Gift card redeemed", "data": card})
}

// ReloadGiftCard credits a card
// POST /api/v1/gift-cards/:code/reload
func (h *CreditHandler) ReloadGiftCard(c *fiber.Ctx) error {
	var req service.GiftCardAmountRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	card, err := h.giftCards.ReloadGiftCard(middleware.CompanyID(c), c.Params("code"), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Gift card reloaded", "data": card})
}
