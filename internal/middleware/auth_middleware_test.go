package middleware

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"go-retail-pos/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAuth map[string]*jwt.Claims

func (s stubAuth) Authenticate(token string) (*jwt.Claims, error) {
	if c, ok := s[token]; ok {
		return c, nil
	}
	return nil, errors.New("invalid or expired token")
}

var (
	boundCompany = uuid.New()

	cashierClaims = &jwt.Claims{
		SubjectID:  uuid.New(),
		Kind:       jwt.SubjectEmployee,
		CompanyID:  &boundCompany,
		Name:       "Casey",
		Privileges: []string{"sale:create", "shift:operate"},
	}
	platformClaims = &jwt.Claims{
		SubjectID:  uuid.New(),
		Kind:       jwt.SubjectUser,
		Email:      "admin@example.com",
		Privileges: []string{"report:view", "company:manage"},
	}
	auth = stubAuth{"cashier": cashierClaims, "platform": platformClaims}
)

func newApp(guards ...fiber.Handler) *fiber.App {
	app := fiber.New()
	handlers := append([]fiber.Handler{RequireAuth(auth)}, guards...)
	handlers = append(handlers, func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"user_id":    c.Locals("user_id"),
			"company_id": CompanyID(c).String(),
		})
	})
	app.Get("/probe", handlers...)
	return app
}

func do(t *testing.T, app *fiber.App, target, token string) (int, map[string]string) {
	t.Helper()
	req := httptest.NewRequest("GET", target, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	body := map[string]string{}
	_ = json.NewDecoder(resp.Body).Decode(&body)
	return resp.StatusCode, body
}

func TestRequireAuth(t *testing.T) {
	app := newApp()

	status, body := do(t, app, "/probe", "")
	assert.Equal(t, 401, status)
	assert.Equal(t, "Missing authorization token", body["error"])

	req := httptest.NewRequest("GET", "/probe", nil)
	req.Header.Set("Authorization", "Token cashier")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 401, resp.StatusCode)

	status, _ = do(t, app, "/probe", "forged")
	assert.Equal(t, 401, status)

	status, body = do(t, app, "/probe", "cashier")
	assert.Equal(t, 200, status)
	assert.Equal(t, cashierClaims.SubjectID.String(), body["user_id"])
}

func TestRequireCompany(t *testing.T) {
	app := newApp(RequireCompany())
	other := uuid.New()

	t.Run("bound token defaults to its company", func(t *testing.T) {
		status, body := do(t, app, "/probe", "cashier")
		assert.Equal(t, 200, status)
		assert.Equal(t, boundCompany.String(), body["company_id"])
	})

	t.Run("bound token naming its own company", func(t *testing.T) {
		status, _ := do(t, app, "/probe?companyId="+boundCompany.String(), "cashier")
		assert.Equal(t, 200, status)
	})

	t.Run("bound token naming another company", func(t *testing.T) {
		status, _ := do(t, app, "/probe?companyId="+other.String(), "cashier")
		assert.Equal(t, 403, status)
	})

	t.Run("platform admin without companyId", func(t *testing.T) {
		status, body := do(t, app, "/probe", "platform")
		assert.Equal(t, 400, status)
		assert.Equal(t, "companyId is required", body["error"])
	})

	t.Run("platform admin picks any company", func(t *testing.T) {
		status, body := do(t, app, "/probe?companyId="+other.String(), "platform")
		assert.Equal(t, 200, status)
		assert.Equal(t, other.String(), body["company_id"])
	})

	t.Run("malformed companyId", func(t *testing.T) {
		status, _ := do(t, app, "/probe?companyId=shop-1", "platform")
		assert.Equal(t, 400, status)
	})
}

func TestSubjectKindGuards(t *testing.T) {
	terminal := newApp(RequireEmployee())
	portal := newApp(RequireUser())

	status, _ := do(t, terminal, "/probe", "cashier")
	assert.Equal(t, 200, status)
	status, _ = do(t, terminal, "/probe", "platform")
	assert.Equal(t, 403, status)

	status, _ = do(t, portal, "/probe", "platform")
	assert.Equal(t, 200, status)
	status, _ = do(t, portal, "/probe", "cashier")
	assert.Equal(t, 403, status)
}

func TestPrivilegeGuards(t *testing.T) {
	status, _ := do(t, newApp(RequirePrivilege("sale:create")), "/probe", "cashier")
	assert.Equal(t, 200, status)

	status, body := do(t, newApp(RequirePrivilege("sale:void")), "/probe", "cashier")
	assert.Equal(t, 403, status)
	assert.Contains(t, body["error"], "sale:void")

	status, _ = do(t, newApp(RequireAnyPrivilege("sale:refund", "report:view")), "/probe", "platform")
	assert.Equal(t, 200, status)

	status, _ = do(t, newApp(RequireAnyPrivilege("sale:refund", "credit:issue")), "/probe", "platform")
	assert.Equal(t, 403, status)
}
