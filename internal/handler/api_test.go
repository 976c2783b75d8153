package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/require"

	"github.com/iwork-app/iwork-backend/internal/adapter/memory"
	"github.com/iwork-app/iwork-backend/internal/domain"
	"github.com/iwork-app/iwork-backend/internal/middleware"
	"github.com/iwork-app/iwork-backend/internal/service"
	"github.com/iwork-app/iwork-backend/internal/token"
)

type testAPI struct {
	app   *fiber.App
	store *memory.Store
	auth  *service.AuthService
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	st := memory.NewStore()
	sessions := memory.NewSessionCache()
	codec := token.NewCodec([]byte("test-secret"), 15*time.Minute, 24*time.Hour)

	authz := service.NewAuthz(st)
	authService := service.NewAuthService(st, sessions, codec, nil)
	companyService := service.NewCompanyService(st)
	reviewService := service.NewReviewService(st, st, authz)
	salaryService := service.NewSalaryService(st, st, authz)
	settingsService := service.NewSettingsService(st)

	app := fiber.New()

	authHandler := NewAuthHandler(authService, "")
	companyHandler := NewCompanyHandler(companyService)
	reviewHandler := NewReviewHandler(reviewService)
	salaryHandler := NewSalaryHandler(salaryService)

	public := app.Group("/api/v1")
	authHandler.Register(public)
	companyHandler.Register(public)
	reviewHandler.Register(public)
	salaryHandler.Register(public)

	api := app.Group("/api/v1", middleware.RequireAuth(authService))
	authHandler.RegisterProtected(api)
	companyHandler.RegisterProtected(api)
	reviewHandler.RegisterProtected(api)
	salaryHandler.RegisterProtected(api)
	NewSettingsHandler(settingsService).Register(api)
	NewAuditHandler(st).Register(api)

	return &testAPI{app: app, store: st, auth: authService}
}

func (a *testAPI) request(t *testing.T, method, path, bearer string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := a.app.Test(req)
	require.NoError(t, err)

	var decoded map[string]any
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &decoded), "body: %s", raw)
	}
	return resp, decoded
}

// signup registers a user with the given role and returns an access token.
// Roles other than "user" are applied directly in the store, since the public
// API never accepts a role.
func (a *testAPI) signup(t *testing.T, email, username string, role domain.Role) string {
	t.Helper()
	ctx := context.Background()

	user, err := a.auth.Register(ctx, service.RegisterInput{
		Email:    email,
		Username: username,
		Password: "password123",
	})
	require.NoError(t, err)

	if role != domain.RoleUser {
		require.NoError(t, a.store.SetUserRole(user.ID, role))
		user.Role = role
	}

	pair, err := a.auth.IssueTokenPair(ctx, user)
	require.NoError(t, err)
	return pair.AccessToken
}

func TestAPI_RegisterLoginMe(t *testing.T) {
	api := newTestAPI(t)

	resp, body := api.request(t, "POST", "/api/v1/auth/register", "", map[string]any{
		"email":    "alice@example.com",
		"username": "alice",
		"password": "password123",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	require.Contains(t, body, "token")

	resp, body = api.request(t, "POST", "/api/v1/auth/login", "", map[string]any{
		"email":    "alice@example.com",
		"password": "password123",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	access := body["access_token"].(string)

	resp, body = api.request(t, "GET", "/api/v1/auth/me", access, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, "alice", body["username"])
	// password material never serializes
	require.NotContains(t, body, "password_hash")
}

func TestAPI_LoginBadPassword(t *testing.T) {
	api := newTestAPI(t)
	api.signup(t, "alice@example.com", "alice", domain.RoleUser)

	resp, body := api.request(t, "POST", "/api/v1/auth/login", "", map[string]any{
		"email":    "alice@example.com",
		"password": "wrong",
	})
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, "invalid email or password", body["error"])
}

func TestAPI_ProtectedRoutesRequireToken(t *testing.T) {
	api := newTestAPI(t)

	for _, tc := range []struct{ method, path string }{
		{"GET", "/api/v1/auth/me"},
		{"GET", "/api/v1/users/me/settings"},
		{"POST", "/api/v1/reviews/"},
		{"POST", "/api/v1/salaries/"},
		{"POST", "/api/v1/companies/"},
		{"GET", "/api/v1/admin/audit"},
	} {
		resp, _ := api.request(t, tc.method, tc.path, "", nil)
		require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode, tc.path)
	}
}

func TestAPI_ReadsArePublic(t *testing.T) {
	api := newTestAPI(t)

	resp, body := api.request(t, "GET", "/api/v1/companies/", "", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.EqualValues(t, 0, body["count"])
}

func TestAPI_CompanyRoleGate(t *testing.T) {
	api := newTestAPI(t)
	userTok := api.signup(t, "user@example.com", "user1", domain.RoleUser)
	adminTok := api.signup(t, "admin@example.com", "admin1", domain.RoleAdmin)

	// plain users can read but not create
	resp, _ := api.request(t, "POST", "/api/v1/companies/", userTok, map[string]any{"name": "Acme"})
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, created := api.request(t, "POST", "/api/v1/companies/", adminTok, map[string]any{"name": "Acme"})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	require.NotEmpty(t, created["id"])

	resp, _ = api.request(t, "POST", "/api/v1/companies/", adminTok, map[string]any{"name": "Acme"})
	require.Equal(t, fiber.StatusConflict, resp.StatusCode)

	resp, listed := api.request(t, "GET", "/api/v1/companies/", userTok, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.EqualValues(t, 1, listed["count"])
}

func TestAPI_ReviewModerationFlow(t *testing.T) {
	api := newTestAPI(t)
	userTok := api.signup(t, "user@example.com", "user1", domain.RoleUser)
	modTok := api.signup(t, "mod@example.com", "mod1", domain.RoleModerator)
	adminTok := api.signup(t, "admin@example.com", "admin1", domain.RoleAdmin)

	_, company := api.request(t, "POST", "/api/v1/companies/", adminTok, map[string]any{"name": "Acme"})
	companyID := company["id"].(string)

	resp, review := api.request(t, "POST", "/api/v1/reviews/", userTok, map[string]any{
		"company_id": companyID,
		"rating":     5,
		"title":      "Great",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	require.Equal(t, "pending", review["status"])
	reviewID := review["id"].(string)

	// moderation is moderator-only, admin is not enough
	resp, _ = api.request(t, "GET", "/api/v1/moderation/reviews", adminTok, nil)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, queue := api.request(t, "GET", "/api/v1/moderation/reviews", modTok, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.EqualValues(t, 1, queue["count"])

	resp, moderated := api.request(t, "PATCH", "/api/v1/moderation/reviews/"+reviewID, modTok, map[string]any{
		"status": "verified",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, "verified", moderated["status"])

	// verified review now feeds the company rating
	resp, got := api.request(t, "GET", "/api/v1/companies/"+companyID, userTok, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.EqualValues(t, 5, got["rating"])
}

func TestAPI_SalaryStatistics(t *testing.T) {
	api := newTestAPI(t)
	userTok := api.signup(t, "user@example.com", "user1", domain.RoleUser)
	adminTok := api.signup(t, "admin@example.com", "admin1", domain.RoleAdmin)

	_, company := api.request(t, "POST", "/api/v1/companies/", adminTok, map[string]any{"name": "Acme"})
	companyID := company["id"].(string)

	resp, empty := api.request(t, "GET", "/api/v1/salaries/statistics?company_id="+companyID, userTok, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, "No salary data found", empty["error"])

	for _, amount := range []float64{50000, 60000, 70000} {
		resp, _ := api.request(t, "POST", "/api/v1/salaries/", userTok, map[string]any{
			"company_id":    companyID,
			"position":      "Engineer",
			"salary_amount": amount,
		})
		require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	}

	resp, stats := api.request(t, "GET", "/api/v1/salaries/statistics?company_id="+companyID, userTok, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.EqualValues(t, 3, stats["count"])
	require.EqualValues(t, 60000, stats["average"])
	require.EqualValues(t, 60000, stats["median"])
	require.EqualValues(t, 50000, stats["min"])
	require.EqualValues(t, 70000, stats["max"])
	require.EqualValues(t, 50000, stats["percentile_25"])
	require.EqualValues(t, 70000, stats["percentile_75"])
}

func TestAPI_PaginationRejected(t *testing.T) {
	api := newTestAPI(t)
	userTok := api.signup(t, "user@example.com", "user1", domain.RoleUser)

	for _, q := range []string{"?limit=0", "?limit=101", "?skip=-1"} {
		resp, _ := api.request(t, "GET", "/api/v1/companies/"+q, userTok, nil)
		require.Equal(t, fiber.StatusBadRequest, resp.StatusCode, q)
	}
}

func TestAPI_Settings(t *testing.T) {
	api := newTestAPI(t)
	userTok := api.signup(t, "user@example.com", "user1", domain.RoleUser)

	resp, settings := api.request(t, "GET", "/api/v1/users/me/settings", userTok, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, true, settings["email_notifications"])
	require.Equal(t, "public", settings["profile_visibility"])

	resp, updated := api.request(t, "PATCH", "/api/v1/users/me/settings", userTok, map[string]any{
		"profile_visibility": "anonymous",
		"data_sharing":       true,
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, "anonymous", updated["profile_visibility"])
	require.Equal(t, true, updated["data_sharing"])

	resp, _ = api.request(t, "PATCH", "/api/v1/users/me/settings", userTok, map[string]any{
		"profile_visibility": "invisible",
	})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestAPI_AuditAdminOnly(t *testing.T) {
	api := newTestAPI(t)
	userTok := api.signup(t, "user@example.com", "user1", domain.RoleUser)
	adminTok := api.signup(t, "admin@example.com", "admin1", domain.RoleAdmin)

	require.NoError(t, api.store.WriteAudit("u-1", "http_request", "api", "/x", "{}", "127.0.0.1", "test"))

	resp, _ := api.request(t, "GET", "/api/v1/admin/audit", userTok, nil)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, body := api.request(t, "GET", "/api/v1/admin/audit", adminTok, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.EqualValues(t, 1, body["count"])
}
