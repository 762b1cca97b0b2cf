package serverutils

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJwtSecret = "test-signing-secret"

func newAuthedApp() *fiber.App {
	app := fiber.New()
	app.Use(NewJwtMiddleware(testJwtSecret))
	app.Get("/whoami", func(ctx *fiber.Ctx) error {
		return ctx.SendString(ctx.Locals("user_id").(string))
	})
	return app
}

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func requestWhoami(t *testing.T, app *fiber.App, authHeader string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestJwtMiddleware(t *testing.T) {
	app := newAuthedApp()
	userId := uuid.NewString()

	t.Run("valid token passes the user id to handlers", func(t *testing.T) {
		token := signToken(t, testJwtSecret, jwt.MapClaims{"user_id": userId})
		status, body := requestWhoami(t, app, "Bearer "+token)
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, userId, body)
	})

	t.Run("missing header is rejected", func(t *testing.T) {
		status, _ := requestWhoami(t, app, "")
		assert.Equal(t, http.StatusUnauthorized, status)
	})

	t.Run("token signed with a different secret is rejected", func(t *testing.T) {
		token := signToken(t, "some-other-secret", jwt.MapClaims{"user_id": userId})
		status, _ := requestWhoami(t, app, "Bearer "+token)
		assert.Equal(t, http.StatusUnauthorized, status)
	})

	t.Run("unsigned token is rejected", func(t *testing.T) {
		unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"user_id": userId}).
			SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		status, _ := requestWhoami(t, app, "Bearer "+unsigned)
		assert.Equal(t, http.StatusUnauthorized, status)
	})

	t.Run("token without a user id claim is rejected", func(t *testing.T) {
		token := signToken(t, testJwtSecret, jwt.MapClaims{"sub": "someone"})
		status, _ := requestWhoami(t, app, "Bearer "+token)
		assert.Equal(t, http.StatusUnauthorized, status)
	})
}
