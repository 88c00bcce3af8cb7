package middleware

import (
	"errors"
	"strings"

	"go-retail-pos/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Authenticator validates a bearer token against the session store.
type Authenticator interface {
	Authenticate(tokenString string) (*jwt.Claims, error)
}

// BearerToken extracts the token from "Authorization: Bearer <token>".
func BearerToken(c *fiber.Ctx) (string, error) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return "", jwt.ErrMissingToken
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return "", errors.New("Invalid authorization format. Use: Bearer <token>")
	}
	return parts[1], nil
}

// RequireAuth is middleware that validates JWT token and sets subject info in context
func RequireAuth(auth Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, err := BearerToken(c)
		if err != nil {
			if errors.Is(err, jwt.ErrMissingToken) {
				return c.Status(401).JSON(fiber.Map{"error": "Missing authorization token"})
			}
			return c.Status(401).JSON(fiber.Map{"error": err.Error()})
		}

		claims, err := auth.Authenticate(tokenString)
		if err != nil {
			return c.Status(401).JSON(fiber.Map{"error": err.Error()})
		}

		SetClaims(c, claims)
		return c.Next()
	}
}

// SetClaims publishes the token subject to downstream handlers.
func SetClaims(c *fiber.Ctx, claims *jwt.Claims) {
	c.Locals("claims", claims)
	c.Locals("user_id", claims.SubjectID.String())
	c.Locals("subject_kind", string(claims.Kind))
	c.Locals("user_email", claims.Email)
	c.Locals("user_name", claims.Name)
	c.Locals("user_privileges", claims.Privileges)
	c.Locals("is_manager", claims.IsManager)
}

// GetClaims returns the claims set by RequireAuth, or nil.
func GetClaims(c *fiber.Ctx) *jwt.Claims {
	claims, _ := c.Locals("claims").(*jwt.Claims)
	return claims
}

// RequirePrivilege checks if the authenticated subject has the required privilege
func RequirePrivilege(requiredPrivilege string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		privileges, ok := c.Locals("user_privileges").([]string)
		if !ok {
			return c.Status(403).JSON(fiber.Map{"error": "No privileges found"})
		}

		for _, p := range privileges {
			if p == requiredPrivilege {
				return c.Next()
			}
		}

		return c.Status(403).JSON(fiber.Map{
			"error": "Forbidden: requires '" + requiredPrivilege + "' privilege",
		})
	}
}

// RequireAnyPrivilege checks if the subject has at least one of the specified privileges
func RequireAnyPrivilege(requiredPrivileges ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		privileges, ok := c.Locals("user_privileges").([]string)
		if !ok {
			return c.Status(403).JSON(fiber.Map{"error": "No privileges found"})
		}

		for _, userPriv := range privileges {
			for _, reqPriv := range requiredPrivileges {
				if userPriv == reqPriv {
					return c.Next()
				}
			}
		}

		return c.Status(403).JSON(fiber.Map{
			"error": "Forbidden: requires one of " + strings.Join(requiredPrivileges, ", ") + " privileges",
		})
	}
}

// RequireEmployee admits terminal (employee) tokens only.
func RequireEmployee() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Locals("subject_kind") != string(jwt.SubjectEmployee) {
			return c.Status(403).JSON(fiber.Map{"error": "Forbidden: terminal operators only"})
		}
		return c.Next()
	}
}

// RequireUser admits admin portal (user) tokens only.
func RequireUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Locals("subject_kind") != string(jwt.SubjectUser) {
			return c.Status(403).JSON(fiber.Map{"error": "Forbidden: admin portal users only"})
		}
		return c.Next()
	}
}

// RequireCompany resolves the tenant of the request into Locals("company_id").
// Tokens bound to a company may only address that company; unbound tokens
// (platform admins) must name one with ?companyId=.
func RequireCompany() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var bound *uuid.UUID
		if claims := GetClaims(c); claims != nil {
			bound = claims.CompanyID
		}

		raw := c.Query("companyId")
		if raw == "" {
			if bound == nil {
				return c.Status(400).JSON(fiber.Map{"error": "companyId is required"})
			}
			c.Locals("company_id", *bound)
			return c.Next()
		}

		companyID, err := uuid.Parse(raw)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid companyId"})
		}
		if bound != nil && *bound != companyID {
			return c.Status(403).JSON(fiber.Map{"error": "Forbidden: token is not valid for this company"})
		}
		c.Locals("company_id", companyID)
		return c.Next()
	}
}

// CompanyID returns the tenant resolved by RequireCompany.
func CompanyID(c *fiber.Ctx) uuid.UUID {
	id, _ := c.Locals("company_id").(uuid.UUID)
	return id
}
