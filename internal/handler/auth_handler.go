package handler

import (
	"go-retail-pos/internal/middleware"
	"go-retail-pos/internal/service"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService service.AuthService
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ChangePasswordRequest represents the change password request body
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// Login handles admin portal authentication
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	if req.Email == "" || req.Password == "" {
		return badRequest(c, "Email and password are required")
	}

	response, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(response)
}

// EmployeeLogin handles terminal sign-in by barcode and PIN
// POST /api/v1/auth/employee-login
func (h *AuthHandler) EmployeeLogin(c *fiber.Ctx) error {
	var req service.EmployeeLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	response, err := h.authService.EmployeeLogin(&req)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(response)
}

// ChangePassword handles password change for the signed-in user
// POST /api/v1/auth/change-password
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	var req ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	if req.OldPassword == "" || req.NewPassword == "" {
		return badRequest(c, "Old password and new password are required")
	}

	if len(req.NewPassword) < 6 {
		return badRequest(c, "New password must be at least 6 characters")
	}

	if err := h.authService.ChangePassword(subjectID(c), req.OldPassword, req.NewPassword); err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Password changed successfully. Please sign in again."})
}

// ValidateToken reports whether the bearer token is still accepted
// GET /api/v1/auth/validate-token
func (h *AuthHandler) ValidateToken(c *fiber.Ctx) error {
	tokenString, err := middleware.BearerToken(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"valid": false, "error": err.Error()})
	}

	claims, err := h.authService.Authenticate(tokenString)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"valid": false, "error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"valid":      true,
		"subject_id": claims.SubjectID,
		"kind":       claims.Kind,
		"company_id": claims.CompanyID,
		"name":       claims.Name,
		"privileges": claims.Privileges,
		"expires_at": claims.ExpiresAt,
	})
}

// Heartbeat refreshes the admin session idle timer
// POST /api/v1/auth/heartbeat
func (h *AuthHandler) Heartbeat(c *fiber.Ctx) error {
	if err := h.authService.Heartbeat(subjectID(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"status": "ok"})
}
