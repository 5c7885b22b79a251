package serverutils

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"portfolio-notes-be/internal/pkg/apperror"
	"portfolio-notes-be/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, secret string, userID uuid.UUID) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID.String(),
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestJwtMiddlewareAcceptsSignedToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	userID := uuid.New()

	app := fiber.New()
	app.Get("/protected", JwtMiddleware, func(c *fiber.Ctx) error {
		return c.SendString(OwnerID(c).String())
	})

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signedToken(t, "test-secret", userID))

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestJwtMiddlewareRejectsBadTokens(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	userID := uuid.New()

	// alg=none: header and claims without a signature.
	noneHeader := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"none","typ":"JWT"}`))
	noneClaims := base64.RawURLEncoding.EncodeToString([]byte(`{"user_id":"` + userID.String() + `"}`))

	tests := []struct {
		name  string
		token string
	}{
		{name: "missing token", token: ""},
		{name: "wrong secret", token: signedToken(t, "other-secret", userID)},
		{name: "unsigned alg none", token: noneHeader + "." + noneClaims + "."},
		{name: "garbage", token: "not-a-jwt"},
	}

	app := fiber.New()
	app.Get("/protected", JwtMiddleware, func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/protected", nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}

			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
		})
	}
}

func TestErrorHandlerMapsDomainErrors(t *testing.T) {
	app := fiber.New()
	app.Use(ErrorHandlerMiddleware(logger.NewNopLogger()))
	app.Get("/missing", func(c *fiber.Ctx) error {
		return apperror.NotFound("note not found")
	})
	app.Get("/invalid", func(c *fiber.Ctx) error {
		return apperror.Validation("bad input", map[string]string{"limit": "too large"})
	})
	app.Get("/boom", func(c *fiber.Ctx) error {
		return errors.New("connection reset")
	})

	tests := []struct {
		path       string
		wantStatus int
		wantCode   string
	}{
		{path: "/missing", wantStatus: fiber.StatusNotFound, wantCode: "NOT_FOUND"},
		{path: "/invalid", wantStatus: fiber.StatusUnprocessableEntity, wantCode: "VALIDATION_ERROR"},
		{path: "/boom", wantStatus: fiber.StatusInternalServerError, wantCode: "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest("GET", tt.path, nil))
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			var envelope ErrorEnvelope
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
			assert.Equal(t, tt.wantCode, envelope.Error.Code)
		})
	}
}

func TestErrorHandlerMapsFiberErrors(t *testing.T) {
	app := fiber.New()
	app.Use(ErrorHandlerMiddleware(logger.NewNopLogger()))
	app.Get("/teapot", func(c *fiber.Ctx) error {
		return fiber.ErrBadRequest
	})

	// Route miss surfaces fiber's 404, not an internal error.
	resp, err := app.Test(httptest.NewRequest("GET", "/nowhere", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	var envelope ErrorEnvelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	assert.Equal(t, "NOT_FOUND", envelope.Error.Code)

	// Other fiber 4xx errors read as validation failures.
	resp, err = app.Test(httptest.NewRequest("GET", "/teapot", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	assert.Equal(t, "VALIDATION_ERROR", envelope.Error.Code)
}
