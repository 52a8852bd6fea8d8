package routes

import (
	"bytes"
	"encoding/json"
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
	"github.com/example/rakshop/internal/utils"
)

func setupApp(t *testing.T) (*fiber.App, *config.Config) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	cfg := &config.Config{
		JWTSecret:       "test-secret",
		TokenExpires:    time.Hour,
		UploadDir:       t.TempDir(),
		BakongAPIURL:    "http://unused",
		BakongToken:     "test-token",
		BakongAccountID: "merchant@bank",
		MerchantName:    "NEW GENERATION",
		MerchantCity:    "Phnom Penh",
		StoreLabel:      "RAKShop",
		TerminalLabel:   "Cashier-01",
		PaymentCurrency: "KHR",
	}

	app := fiber.New()
	Register(app, db, cfg)
	return app, cfg
}

func postJSON(t *testing.T, app *fiber.App, path string, body any, token string) (*fiber.Map, int) {
	t.Helper()

	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest("POST", path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req)
	require.NoError(t, err)

	var parsed fiber.Map
	_ = json.NewDecoder(resp.Body).Decode(&parsed)
	return &parsed, resp.StatusCode
}

func registerUser(t *testing.T, app *fiber.App, email string) (token, userID string) {
	t.Helper()

	body, status := postJSON(t, app, "/register", fiber.Map{
		"name":     "Alice",
		"email":    email,
		"password": "hunter2",
	}, "")
	require.Equal(t, fiber.StatusOK, status)

	token, _ = (*body)["token"].(string)
	userID, _ = (*body)["user_id"].(string)
	require.NotEmpty(t, token)
	require.NotEmpty(t, userID)
	return token, userID
}

func TestRegisterReturnsTokenForCreatedUser(t *testing.T) {
	app, cfg := setupApp(t)

	token, userID := registerUser(t, app, "alice@example.com")

	parsed, err := utils.ParseToken(cfg.JWTSecret, token)
	require.NoError(t, err)
	require.Equal(t, userID, parsed.String())
}

func TestRegisterDuplicateEmailRejected(t *testing.T) {
	app, _ := setupApp(t)

	registerUser(t, app, "alice@example.com")

	_, status := postJSON(t, app, "/register", fiber.Map{
		"name":     "Mallory",
		"email":    "alice@example.com",
		"password": "other",
	}, "")
	require.Equal(t, fiber.StatusBadRequest, status)
}

func TestLoginBadCredentialsRejected(t *testing.T) {
	app, _ := setupApp(t)
	registerUser(t, app, "alice@example.com")

	_, status := postJSON(t, app, "/login", fiber.Map{
		"email":    "alice@example.com",
		"password": "wrong",
	}, "")
	require.Equal(t, fiber.StatusBadRequest, status)
}

func TestAllowListBypassesGate(t *testing.T) {
	app, _ := setupApp(t)

	for _, path := range []string{"/getproduct", "/getslides"} {
		resp, err := app.Test(httptest.NewRequest("GET", path, nil))
		require.NoError(t, err)
		require.Equal(t, fiber.StatusOK, resp.StatusCode, path)
	}

	// Missing payment_id fails in the handler, not at the gate.
	resp, err := app.Test(httptest.NewRequest("GET", "/chceck_payment_status", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	app, _ := setupApp(t)

	paths := []struct{ method, path string }{
		{"POST", "/validate_token"},
		{"POST", "/updateprofile"},
		{"POST", "/insertproduct"},
		{"POST", "/insertslides"},
		{"POST", "/generate_qr"},
		{"PUT", "/updateproduct/" + uuid.NewString()},
		{"DELETE", "/deleteslides/" + uuid.NewString()},
	}

	for _, tt := range paths {
		resp, err := app.Test(httptest.NewRequest(tt.method, tt.path, nil))
		require.NoError(t, err)
		require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode, tt.method+" "+tt.path)
	}
}

func TestValidateTokenReturnsProfile(t *testing.T) {
	app, _ := setupApp(t)
	token, userID := registerUser(t, app, "alice@example.com")

	body, status := postJSON(t, app, "/validate_token", fiber.Map{"token": token}, token)
	require.Equal(t, fiber.StatusOK, status)
	require.Equal(t, userID, (*body)["user_id"])
	require.Equal(t, "alice@example.com", (*body)["email"])
}

func TestGenerateQRUnknownProductRejected(t *testing.T) {
	app, _ := setupApp(t)
	token, _ := registerUser(t, app, "alice@example.com")

	_, status := postJSON(t, app, "/generate_qr", fiber.Map{
		"product_ids": []string{uuid.NewString()},
	}, token)
	require.Equal(t, fiber.StatusBadRequest, status)
}
