package middleware

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/leetuiux/leetuiux-backend/internal/auth"
	"github.com/leetuiux/leetuiux-backend/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signTestToken(t *testing.T, secret string, userID uuid.UUID) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub": userID.String(),
		"exp": time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func viewerApp(cfg *config.Config) *fiber.App {
	app := fiber.New()
	app.Get("/view", OptionalJWT(cfg), func(c *fiber.Ctx) error {
		viewerID, err := auth.GetUserID(c)
		if err != nil {
			viewerID = uuid.Nil
		}
		return c.SendString(viewerID.String())
	})
	return app
}

func TestOptionalJWTIdentifiesTokenBearer(t *testing.T) {
	cfg := &config.Config{JWTSecret: "test-secret"}
	app := viewerApp(cfg)
	userID := uuid.New()

	req := httptest.NewRequest("GET", "/view", nil)
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, cfg.JWTSecret, userID))

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), string(body))
}

func TestOptionalJWTAllowsAnonymous(t *testing.T) {
	cfg := &config.Config{JWTSecret: "test-secret"}
	app := viewerApp(cfg)

	resp, err := app.Test(httptest.NewRequest("GET", "/view", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, uuid.Nil.String(), string(body))
}

func TestOptionalJWTIgnoresGarbageToken(t *testing.T) {
	cfg := &config.Config{JWTSecret: "test-secret"}
	app := viewerApp(cfg)

	req := httptest.NewRequest("GET", "/view", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, uuid.Nil.String(), string(body))
}

func TestOptionalJWTRejectsForeignSignature(t *testing.T) {
	cfg := &config.Config{JWTSecret: "test-secret"}
	app := viewerApp(cfg)
	userID := uuid.New()

	req := httptest.NewRequest("GET", "/view", nil)
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, "other-secret", userID))

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	// Forged tokens get the anonymous treatment, not the viewer's id.
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, uuid.Nil.String(), string(body))
}
