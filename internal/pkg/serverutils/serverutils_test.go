package serverutils

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signTestToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func protectedApp() *fiber.App {
	app := fiber.New()
	app.Get("/me", JwtMiddleware, func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{
			"user_id":  ctx.Locals("user_id"),
			"email":    ctx.Locals("email"),
			"is_admin": ctx.Locals("is_admin"),
		})
	})
	app.Get("/admin", JwtMiddleware, AdminMiddleware, func(ctx *fiber.Ctx) error {
		return ctx.SendStatus(fiber.StatusOK)
	})
	return app
}

func TestJwtMiddleware(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	app := protectedApp()

	t.Run("missing header", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/me", nil)
		res, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, res.StatusCode)
	})

	t.Run("malformed header", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/me", nil)
		req.Header.Set("Authorization", "Basic abc")
		res, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, res.StatusCode)
	})

	t.Run("garbage token", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/me", nil)
		req.Header.Set("Authorization", "Bearer not.a.token")
		res, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, res.StatusCode)
	})

	t.Run("expired token", func(t *testing.T) {
		token := signTestToken(t, jwt.MapClaims{
			"sub": "user@example.com",
			"exp": time.Now().Add(-time.Hour).Unix(),
		})
		req := httptest.NewRequest("GET", "/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		res, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, res.StatusCode)
	})

	t.Run("valid token", func(t *testing.T) {
		token := signTestToken(t, jwt.MapClaims{
			"sub":     "user@example.com",
			"user_id": "4b2a8f9e-0000-0000-0000-000000000000",
			"adm":     false,
			"exp":     time.Now().Add(time.Hour).Unix(),
		})
		req := httptest.NewRequest("GET", "/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		res, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, res.StatusCode)
	})
}

func TestAdminMiddleware(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	app := protectedApp()

	t.Run("non-admin forbidden", func(t *testing.T) {
		token := signTestToken(t, jwt.MapClaims{
			"sub": "user@example.com",
			"adm": false,
			"exp": time.Now().Add(time.Hour).Unix(),
		})
		req := httptest.NewRequest("GET", "/admin", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		res, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusForbidden, res.StatusCode)
	})

	t.Run("admin allowed", func(t *testing.T) {
		token := signTestToken(t, jwt.MapClaims{
			"sub": "admin@example.com",
			"adm": true,
			"exp": time.Now().Add(time.Hour).Unix(),
		})
		req := httptest.NewRequest("GET", "/admin", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		res, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, res.StatusCode)
	})

	t.Run("missing adm claim forbidden", func(t *testing.T) {
		token := signTestToken(t, jwt.MapClaims{
			"sub": "user@example.com",
			"exp": time.Now().Add(time.Hour).Unix(),
		})
		req := httptest.NewRequest("GET", "/admin", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		res, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusForbidden, res.StatusCode)
	})
}

func TestValidateRequest(t *testing.T) {
	type loginForm struct {
		Name  string `validate:"required"`
		Email string `validate:"required,email"`
	}

	assert.NoError(t, ValidateRequest(loginForm{Name: "Jane", Email: "jane@example.com"}))
	assert.Error(t, ValidateRequest(loginForm{Email: "jane@example.com"}))
	assert.Error(t, ValidateRequest(loginForm{Name: "Jane", Email: "not-an-email"}))
}

func TestErrorHandlerMiddleware(t *testing.T) {
	app := fiber.New()
	app.Use(ErrorHandlerMiddleware())
	app.Get("/boom", func(ctx *fiber.Ctx) error {
		panic("kaboom")
	})
	app.Get("/fail", func(ctx *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusTeapot, "short and stout")
	})

	res, err := app.Test(httptest.NewRequest("GET", "/boom", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, res.StatusCode)

	res, err = app.Test(httptest.NewRequest("GET", "/fail", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTeapot, res.StatusCode)
}
