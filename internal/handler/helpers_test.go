package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"go-retail-pos/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// call performs a request and decodes the JSON body, if any.
func call(t *testing.T, app *fiber.App, method, target string, body io.Reader) (int, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	out := map[string]interface{}{}
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp.StatusCode, out
}

// withCompany stands in for RequireCompany.
func withCompany(id uuid.UUID) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("company_id", id)
		return c.Next()
	}
}

func TestRespondErrorStatuses(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{service.ErrTransactionNotFound, 404},
		{fmt.Errorf("%w (expired)", service.ErrNotEligible), 400},
		{service.ErrStoreCreditUsed, 409},
		{service.ErrSessionExpired, 401},
		{service.ErrManagerRequired, 403},
		{errors.New("connection reset by peer"), 500},
	}

	for _, tc := range cases {
		app := fiber.New()
		app.Get("/", func(c *fiber.Ctx) error { return respondError(c, tc.err) })

		status, body := call(t, app, "GET", "/", nil)
		assert.Equal(t, tc.status, status, tc.err.Error())
		if tc.status == 500 {
			assert.Equal(t, "Internal server error", body["error"], "storage details stay out of the response")
		} else {
			assert.Equal(t, tc.err.Error(), body["error"])
		}
	}
}

func TestQueryHelpers(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		from, err := queryTime(c, "from")
		if err != nil {
			return badRequest(c, "Invalid from")
		}
		id, err := queryUUID(c, "id")
		if err != nil {
			return badRequest(c, "Invalid id")
		}
		out := fiber.Map{"limit": queryLimit(c), "has_id": id != nil}
		if from != nil {
			out["from"] = from.UTC().Format("2006-01-02T15:04:05Z")
		}
		return c.JSON(out)
	})

	status, body := call(t, app, "GET", "/?from=2024-05-01&limit=20", nil)
	assert.Equal(t, 200, status)
	assert.Equal(t, "2024-05-01T00:00:00Z", body["from"])
	assert.EqualValues(t, 20, body["limit"])
	assert.Equal(t, false, body["has_id"])

	status, body = call(t, app, "GET", "/?from=2024-05-01T10:30:00%2B02:00&limit=-4&id="+uuid.NewString(), nil)
	assert.Equal(t, 200, status)
	assert.Equal(t, "2024-05-01T08:30:00Z", body["from"])
	assert.EqualValues(t, 0, body["limit"])
	assert.Equal(t, true, body["has_id"])

	status, _ = call(t, app, "GET", "/?from=yesterday", nil)
	assert.Equal(t, 400, status)
	status, _ = call(t, app, "GET", "/?id=42", nil)
	assert.Equal(t, 400, status)
}
