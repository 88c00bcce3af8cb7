package handler

import (
	"go-retail-pos/internal/middleware"
	"go-retail-pos/internal/model"
	"go-retail-pos/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ReturnPolicyHandler struct {
	service service.ReturnPolicyService
}

func NewReturnPolicyHandler(s service.ReturnPolicyService) *ReturnPolicyHandler {
	return &ReturnPolicyHandler{service: s}
}

// GetEligibility resolves whether a transaction or an item can be returned
// GET /api/v1/returns/eligibility?transactionId= | ?itemId=
func (h *ReturnPolicyHandler) GetEligibility(c *fiber.Ctx) error {
	var q service.EligibilityQuery
	var err error
	if q.TransactionID, err = queryUUID(c, "transactionId"); err != nil {
		return badRequest(c, "Invalid transactionId")
	}
	if q.ItemID, err = queryUUID(c, "itemId"); err != nil {
		return badRequest(c, "Invalid itemId")
	}

	res, err := h.service.ResolveReturnEligibility(middleware.CompanyID(c), q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(res)
}

// GetPolicies lists item and category overrides
// GET /api/v1/return-policies
func (h *ReturnPolicyHandler) GetPolicies(c *fiber.Ctx) error {
	policies, err := h.service.ListReturnPolicies(middleware.CompanyID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(policies)
}

// SetPolicy creates or replaces an override
// PUT /api/v1/return-policies
func (h *ReturnPolicyHandler) SetPolicy(c *fiber.Ctx) error {
	var req service.SetReturnPolicyRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	policy, err := h.service.SetReturnPolicy(middleware.CompanyID(c), &req, getUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Return policy saved", "data": policy})
}

// DeletePolicy removes an override so the target falls back to its parent
// DELETE /api/v1/return-policies/:type/:id
func (h *ReturnPolicyHandler) DeletePolicy(c *fiber.Ctx) error {
	targetType := model.PolicyTarget(c.Params("type"))
	if targetType != model.PolicyTargetItem && targetType != model.PolicyTargetCategory {
		return badRequest(c, "type must be item or category")
	}
	targetID, err := paramUUID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid target ID")
	}

	if err := h.service.DeleteReturnPolicy(middleware.CompanyID(c), targetType, targetID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Return policy deleted"})
}
