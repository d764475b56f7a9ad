package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler(c *fiber.Ctx) error {
	return c.SendStatus(200)
}

func withPrivileges(privileges []string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("user_privileges", privileges)
		return c.Next()
	}
}

func TestRequireStore_MissingHeader(t *testing.T) {
	app := fiber.New()
	app.Get("/x", RequireStore(nil), okHandler)

	resp, err := app.Test(httptest.NewRequest("GET", "/x", nil))
	require.NoError(t, err)
	assert.Equal(t, 401, resp.StatusCode)
}

func TestRequireStore_MalformedHeader(t *testing.T) {
	app := fiber.New()
	app.Get("/x", RequireStore(nil), okHandler)

	req := httptest.NewRequest("GET", "/x", nil)
	req.Header.Set("Authorization", "Token abc")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 401, resp.StatusCode)
}

func TestRequireStore_GarbageToken(t *testing.T) {
	app := fiber.New()
	app.Get("/x", RequireStore(nil), okHandler)

	req := httptest.NewRequest("GET", "/x", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 401, resp.StatusCode)
}

func TestRequirePrivilege_Allows(t *testing.T) {
	app := fiber.New()
	app.Put("/x", withPrivileges([]string{"other", PrivilegeManageStock}),
		RequirePrivilege(PrivilegeManageStock), okHandler)

	resp, err := app.Test(httptest.NewRequest("PUT", "/x", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}

func TestRequirePrivilege_DeniesMissingPrivilege(t *testing.T) {
	app := fiber.New()
	app.Put("/x", withPrivileges([]string{"other"}),
		RequirePrivilege(PrivilegeManageStock), okHandler)

	resp, err := app.Test(httptest.NewRequest("PUT", "/x", nil))
	require.NoError(t, err)
	assert.Equal(t, 403, resp.StatusCode)
}

func TestRequirePrivilege_DeniesWhenUnset(t *testing.T) {
	app := fiber.New()
	app.Put("/x", RequirePrivilege(PrivilegeManageStock), okHandler)

	resp, err := app.Test(httptest.NewRequest("PUT", "/x", nil))
	require.NoError(t, err)
	assert.Equal(t, 403, resp.StatusCode)
}
