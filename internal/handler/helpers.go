package handler

import (
	"errors"
	"strconv"
	"time"

	"go-retail-pos/internal/middleware"
	"go-retail-pos/internal/service"
	"go-retail-pos/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// respondError maps service error kinds onto HTTP statuses. Anything
// unrecognised is logged and reported as a 500 without details.
func respondError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return c.Status(404).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrValidation):
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrConflict):
		return c.Status(409).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrUnauthorized):
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrForbidden):
		return c.Status(403).JSON(fiber.Map{"error": err.Error()})
	}

	log := logger.FromContext(c.UserContext())
	log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("request failed")
	return c.Status(500).JSON(fiber.Map{"error": "Internal server error"})
}

func getUserID(c *fiber.Ctx) string {
	if id, ok := c.Locals("user_id").(string); ok && id != "" {
		return id
	}
	return "system"
}

// subjectID is the authenticated user or employee.
func subjectID(c *fiber.Ctx) uuid.UUID {
	if claims := middleware.GetClaims(c); claims != nil {
		return claims.SubjectID
	}
	return uuid.Nil
}

// scope is the company an admin token is bound to; nil for platform admins.
func scope(c *fiber.Ctx) *uuid.UUID {
	if claims := middleware.GetClaims(c); claims != nil {
		return claims.CompanyID
	}
	return nil
}

func paramUUID(c *fiber.Ctx, name string) (uuid.UUID, error) {
	return uuid.Parse(c.Params(name))
}

func queryUUID(c *fiber.Ctx, name string) (*uuid.UUID, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// queryTime accepts RFC3339 timestamps or plain YYYY-MM-DD dates.
func queryTime(c *fiber.Ctx, name string) (*time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func queryLimit(c *fiber.Ctx) int {
	limit, err := strconv.Atoi(c.Query("limit", "0"))
	if err != nil || limit < 0 {
		return 0
	}
	return limit
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(400).JSON(fiber.Map{"error": msg})
}
