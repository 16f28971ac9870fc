package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/example/byteristo/pkg/auth"
	"github.com/example/byteristo/pkg/config"
	"github.com/example/byteristo/pkg/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Server: config.ServerConfig{Name: "byteristo-test"},
		JWT: config.JWTConfig{
			Secret:     "test-secret",
			AccessTTL:  time.Hour,
			RefreshTTL: 24 * time.Hour,
		},
	}

	router := gin.New()
	s := &Server{
		config: cfg,
		logger: zap.NewNop(),
		router: router,
	}
	s.SetupRoutes()
	return s
}

func makeToken(t *testing.T, s *Server, role string) string {
	t.Helper()
	token, err := auth.NewAccessToken(&s.config.JWT, &models.User{
		ID:       uuid.NewString(),
		Username: "tester",
		Email:    "tester@example.com",
		Role:     role,
	})
	if err != nil {
		t.Fatalf("failed to issue test token: %v", err)
	}
	return token
}

func doRequest(s *Server, method, path, token, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	recorder := httptest.NewRecorder()
	s.router.ServeHTTP(recorder, req)
	return recorder
}

func TestMissingAuthorizationHeader(t *testing.T) {
	s := newTestServer(t)

	recorder := doRequest(s, http.MethodGet, "/api/users/me", "", "")

	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", recorder.Code)
	}
	if !strings.Contains(recorder.Body.String(), "authorization_required") {
		t.Errorf("body = %s, want authorization_required error", recorder.Body.String())
	}
}

func TestInvalidToken(t *testing.T) {
	s := newTestServer(t)

	recorder := doRequest(s, http.MethodGet, "/api/users/me", "not-a-real-token", "")

	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", recorder.Code)
	}
	if !strings.Contains(recorder.Body.String(), "invalid_token") {
		t.Errorf("body = %s, want invalid_token error", recorder.Body.String())
	}
}

func TestExpiredToken(t *testing.T) {
	s := newTestServer(t)

	expiredCfg := s.config.JWT
	expiredCfg.AccessTTL = -time.Minute
	token, err := auth.NewAccessToken(&expiredCfg, &models.User{ID: uuid.NewString(), Role: models.RoleWaiter})
	if err != nil {
		t.Fatalf("failed to issue expired token: %v", err)
	}

	recorder := doRequest(s, http.MethodGet, "/api/users/me", token, "")

	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", recorder.Code)
	}
	if !strings.Contains(recorder.Body.String(), "token_expired") {
		t.Errorf("body = %s, want token_expired error", recorder.Body.String())
	}
}

func TestRefreshTokenRejectedOnProtectedRoute(t *testing.T) {
	s := newTestServer(t)

	token, err := auth.NewRefreshToken(&s.config.JWT, &models.User{ID: uuid.NewString()})
	if err != nil {
		t.Fatalf("failed to issue refresh token: %v", err)
	}

	recorder := doRequest(s, http.MethodGet, "/api/users/me", token, "")

	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", recorder.Code)
	}
}

func TestRoleGateDeniesNonManager(t *testing.T) {
	s := newTestServer(t)

	recorder := doRequest(s, http.MethodGet, "/api/users/", makeToken(t, s, models.RoleWaiter), "")

	if recorder.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", recorder.Code)
	}
	if !strings.Contains(recorder.Body.String(), "Access denied") {
		t.Errorf("body = %s, want access denied message", recorder.Body.String())
	}
}

func TestRoleGateManagerAlwaysPasses(t *testing.T) {
	s := newTestServer(t)

	router := gin.New()
	router.GET("/guarded", s.requireAuth, s.requireRole(models.RoleChef), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	})
	s.router = router

	recorder := doRequest(s, http.MethodGet, "/guarded", makeToken(t, s, models.RoleManager), "")

	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: manager must pass every role gate", recorder.Code)
	}
}

func TestPermissionGate(t *testing.T) {
	s := newTestServer(t)

	router := gin.New()
	router.POST("/guarded", s.requireAuth, s.requirePermission("order.update_status"), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	})
	s.router = router

	tests := []struct {
		role string
		want int
	}{
		{models.RoleChef, http.StatusOK},
		{models.RoleManager, http.StatusOK},
		{models.RoleCashier, http.StatusForbidden},
		{models.RoleWaiter, http.StatusForbidden},
	}

	for _, tt := range tests {
		recorder := doRequest(s, http.MethodPost, "/guarded", makeToken(t, s, tt.role), "")
		if recorder.Code != tt.want {
			t.Errorf("role %s: status = %d, want %d", tt.role, recorder.Code, tt.want)
		}
	}
}

func TestPermissionDeniedForWaiterCreatingMenuItem(t *testing.T) {
	s := newTestServer(t)

	recorder := doRequest(s, http.MethodPost, "/api/menu/", makeToken(t, s, models.RoleWaiter),
		`{"name":"Tiramisù","price":6.5,"category":"dessert","preparation_time":5}`)

	if recorder.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", recorder.Code)
	}
}

func TestRegisterRequiresManager(t *testing.T) {
	s := newTestServer(t)

	recorder := doRequest(s, http.MethodPost, "/api/auth/register", makeToken(t, s, models.RoleChef),
		`{"username":"new","email":"new@example.com","password":"password123","full_name":"New User","role":"waiter"}`)

	if recorder.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", recorder.Code)
	}
}

func TestHealthEndpointIsPublic(t *testing.T) {
	s := newTestServer(t)

	recorder := doRequest(s, http.MethodGet, "/health", "", "")

	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", recorder.Code)
	}
	if !strings.Contains(recorder.Body.String(), "healthy") {
		t.Errorf("body = %s, want healthy status", recorder.Body.String())
	}
}
