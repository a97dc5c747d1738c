package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"collabfeed/internal/config"
	"collabfeed/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testSecret = "test-secret-that-is-long-enough-000"

type testEnv struct {
	app *fiber.App
	db  *gorm.DB
	srv *Server
}

func newTestEnv(t *testing.T, flags string) *testEnv {
	t.Helper()
	t.Setenv("APP_ENV", "test")
	db := testutil.NewSQLiteDB(t)
	cfg := &config.Config{JWTSecret: testSecret, Env: "test", FeatureFlags: flags}

	srv, err := NewServerWithDeps(cfg, db, nil)
	require.NoError(t, err)

	app := fiber.New()
	srv.SetupRoutes(app)
	return &testEnv{app: app, db: db, srv: srv}
}

func signToken(t *testing.T, secret, issuer, subject string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		Issuer:    issuer,
		Audience:  jwt.ClaimStrings{tokenAudience},
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

// do sends an authenticated request as userID and returns the status and body.
func (e *testEnv) do(t *testing.T, userID uint, method, path string, body any) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != 0 {
		req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, tokenIssuer, fmt.Sprint(userID)))
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, out
}

func decode[T any](t *testing.T, body []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(body, &v), string(body))
	return v
}

func TestNewServerWithDeps_RequiresDB(t *testing.T) {
	_, err := NewServerWithDeps(&config.Config{}, nil, nil)
	assert.Error(t, err)
}

func TestAuthRequired(t *testing.T) {
	env := newTestEnv(t, "personalized_feed=on")

	send := func(header string) int {
		req := httptest.NewRequest(http.MethodGet, "/api/feed/feature-flags", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		resp, err := env.app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		return resp.StatusCode
	}

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"wrong secret", "Bearer " + signToken(t, "another-secret", tokenIssuer, "1"), http.StatusUnauthorized},
		{"wrong issuer", "Bearer " + signToken(t, testSecret, "someone-else", "1"), http.StatusUnauthorized},
		{"non numeric subject", "Bearer " + signToken(t, testSecret, tokenIssuer, "abc"), http.StatusUnauthorized},
		{"zero subject", "Bearer " + signToken(t, testSecret, tokenIssuer, "0"), http.StatusUnauthorized},
		{"valid", "Bearer " + signToken(t, testSecret, tokenIssuer, "7"), http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, send(tt.header))
		})
	}
}

func TestGetFeatureFlags(t *testing.T) {
	env := newTestEnv(t, "personalized_feed=on,mention_notifications=off")

	status, body := env.do(t, 3, http.MethodGet, "/api/feed/feature-flags", nil)
	require.Equal(t, http.StatusOK, status)

	got := decode[struct {
		Raw       map[string]string `json:"raw"`
		Evaluated map[string]bool   `json:"evaluated"`
	}](t, body)
	assert.Equal(t, "on", got.Raw["personalized_feed"])
	assert.True(t, got.Evaluated["personalized_feed"])
	assert.False(t, got.Evaluated["mention_notifications"])
}

func TestHealthChecks(t *testing.T) {
	env := newTestEnv(t, "")

	status, _ := env.do(t, 0, http.MethodGet, "/health/live", nil)
	assert.Equal(t, http.StatusOK, status)

	status, body := env.do(t, 0, http.MethodGet, "/health/ready", nil)
	require.Equal(t, http.StatusOK, status)
	got := decode[struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}](t, body)
	assert.Equal(t, "degraded", got.Status)
	assert.Equal(t, "healthy", got.Checks["database"])
	assert.Equal(t, "unavailable", got.Checks["redis"])
}

func TestSetupMiddleware_CORSPreflight(t *testing.T) {
	env := newTestEnv(t, "")
	app := fiber.New()
	env.srv.SetupMiddleware(app)
	env.srv.SetupRoutes(app)

	req := httptest.NewRequest(http.MethodOptions, "/api/feed/posts", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "http://localhost:5173", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.NotEmpty(t, resp.Header.Get("X-Request-Id"))
}

func TestHumanizeParam(t *testing.T) {
	assert.Equal(t, "ID", humanizeParam("id"))
	assert.Equal(t, "collection ID", humanizeParam("collectionId"))
	assert.Equal(t, "saved collection ID", humanizeParam("savedCollectionId"))
	assert.Equal(t, "name", humanizeParam("name"))
}
