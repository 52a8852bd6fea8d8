package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/example/rakshop/internal/config"
	"github.com/example/rakshop/internal/database"
	"github.com/example/rakshop/internal/models"
	"github.com/example/rakshop/internal/utils"
)

func setupGate(t *testing.T) (*fiber.App, *gorm.DB, *config.Config) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	cfg := &config.Config{JWTSecret: "test-secret", TokenExpires: time.Hour}

	app := fiber.New()
	app.Get("/public", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	app.Get("/protected", AuthMiddleware(db, cfg), func(c *fiber.Ctx) error {
		id, ok := GetCurrentUserID(c)
		if !ok {
			return fiber.NewError(fiber.StatusInternalServerError, "user id missing from context")
		}
		return c.JSON(fiber.Map{"user_id": id})
	})

	return app, db, cfg
}

func seedUser(t *testing.T, db *gorm.DB) models.User {
	t.Helper()
	user := models.User{Name: "Alice", Email: "alice@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func TestGateAllowsPublicRouteWithoutHeader(t *testing.T) {
	app, _, _ := setupGate(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/public", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestGateRejectsMissingOrMalformedHeader(t *testing.T) {
	app, db, cfg := setupGate(t)
	user := seedUser(t, db)

	token, err := utils.GenerateToken(cfg.JWTSecret, user.ID, time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"wrong scheme", "Basic " + token},
		{"no scheme", token},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/protected", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
		})
	}
}

func TestGateRejectsExpiredAndForgedTokens(t *testing.T) {
	app, db, cfg := setupGate(t)
	user := seedUser(t, db)

	expired, err := utils.GenerateToken(cfg.JWTSecret, user.ID, -time.Minute)
	require.NoError(t, err)
	forged, err := utils.GenerateToken("other-secret", user.ID, time.Hour)
	require.NoError(t, err)

	for name, token := range map[string]string{"expired": expired, "forged": forged} {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/protected", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			resp, err := app.Test(req)
			require.NoError(t, err)
			require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
		})
	}
}

func TestGateAcceptsValidToken(t *testing.T) {
	app, db, cfg := setupGate(t)
	user := seedUser(t, db)

	token, err := utils.GenerateToken(cfg.JWTSecret, user.ID, time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestGateRejectsTokenOfDeletedUser(t *testing.T) {
	app, _, cfg := setupGate(t)

	// Valid signature, but the user record no longer exists.
	token, err := utils.GenerateToken(cfg.JWTSecret, uuid.New(), time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
