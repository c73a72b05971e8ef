package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"atlas/internal/auth"
	"atlas/internal/config"
	"atlas/internal/entity"
	"atlas/internal/model"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// stubRepo backs handler tests with an in-memory user table and audit
// trail. The embedded interface covers the Repository methods the tests
// never reach.
type stubRepo struct {
	model.Repository

	mu      sync.Mutex
	users   map[uint]*entity.DbUser
	entries []entity.DbAuditEntry
}

func newStubRepo() *stubRepo {
	return &stubRepo{users: make(map[uint]*entity.DbUser)}
}

func (s *stubRepo) addUser(user entity.DbUser) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.ID] = &user
}

func (s *stubRepo) GetUserByEmail(_ context.Context, email string) (*entity.DbUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, user := range s.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubRepo) GetUserByID(_ context.Context, id uint) (*entity.DbUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *user
	return &copied, nil
}

func (s *stubRepo) UpdateUserPasswordHash(_ context.Context, id uint, hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	user.PasswordHash = hash
	return nil
}

func (s *stubRepo) UpdateUserLastLogin(_ context.Context, id uint, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	user.LastLoginAt = &at
	return nil
}

func (s *stubRepo) CreateAuditEntry(_ context.Context, entry *entity.DbAuditEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, *entry)
	return nil
}

func (s *stubRepo) ListAuditEntries(_ context.Context, _ *entity.AuditQuery) ([]entity.DbAuditEntry, *entity.Meta, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries := append([]entity.DbAuditEntry(nil), s.entries...)
	return entries, &entity.Meta{Total: int64(len(entries))}, nil
}

func (s *stubRepo) SummarizeReports(_ context.Context, _ *entity.ReportSummaryQuery) ([]entity.ReportAggregate, error) {
	return []entity.ReportAggregate{}, nil
}

func (s *stubRepo) auditCount(action string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, entry := range s.entries {
		if entry.Action == action {
			count++
		}
	}
	return count
}

const testPassword = "Str0ng!Pass"

// newTestHandler builds a handler over the stub repo with three seeded
// accounts: an admin, a viewer, and a deactivated analyst.
func newTestHandler(t *testing.T) (*HTTPHandler, *stubRepo) {
	t.Helper()

	hash, err := auth.HashPassword(testPassword)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}

	repo := newStubRepo()
	repo.addUser(entity.DbUser{ID: 1, Email: "admin@atlas.com", PasswordHash: hash, DisplayName: "Admin", Role: entity.RoleAdmin, IsActive: true})
	repo.addUser(entity.DbUser{ID: 2, Email: "viewer@atlas.com", PasswordHash: hash, DisplayName: "Viewer", Role: entity.RoleViewer, IsActive: true})
	repo.addUser(entity.DbUser{ID: 3, Email: "inactive@atlas.com", PasswordHash: hash, DisplayName: "Gone", Role: entity.RoleAnalyst, IsActive: false})

	cfg := config.Config{
		JWTSecret:            "test-secret-key",
		JWTIssuer:            "atlas-test",
		JWTExpirationMinutes: 60,
	}
	handler, err := NewHTTPHandler(cfg, repo, nil)
	if err != nil {
		t.Fatalf("NewHTTPHandler: %v", err)
	}
	return handler, repo
}

// newTestRouter mirrors the production route layout for the paths the
// tests exercise.
func newTestRouter(h *HTTPHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	authGroup := r.Group("/api/auth")
	authGroup.POST("/login", h.Login)
	authGroup.POST("/logout", h.Logout)
	authGroup.GET("/me", h.RequireAuth(), h.Me)
	authGroup.POST("/change-password", h.RequireAuth(), h.ChangePassword)

	protected := r.Group("/api")
	protected.Use(h.RequireAuth())
	protected.GET("/reports/summary", h.RequirePermissions(entity.PermViewAnalytics), h.ReportSummary)
	protected.POST("/branches", h.RequirePermissions(entity.PermManageBranches), h.CreateBranch)
	protected.GET("/audit-logs", h.RequirePermissions(entity.PermViewAuditLog), h.ListAuditEntries)

	return r
}

func tokenFor(t *testing.T, h *HTTPHandler, repo *stubRepo, id uint) string {
	t.Helper()
	user, err := repo.GetUserByID(context.Background(), id)
	if err != nil {
		t.Fatalf("load user %d: %v", id, err)
	}
	token, _, err := h.authManager.GenerateToken(user)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return token
}

func TestRequireAuthMissingToken(t *testing.T) {
	handler, _ := newTestHandler(t)
	router := newTestRouter(handler)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	var response APIError
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if response.Code != ErrCodeUnauthorized || response.Message != "Authentication required" {
		t.Errorf("unexpected body: %+v", response)
	}
}

func TestRequireAuthCookiePrecedence(t *testing.T) {
	handler, repo := newTestHandler(t)
	router := newTestRouter(handler)
	adminToken := tokenFor(t, handler, repo, 1)

	t.Run("valid cookie wins over garbage header", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
		req.AddCookie(&http.Cookie{Name: AuthCookieName, Value: adminToken})
		req.Header.Set("Authorization", "Bearer not-a-token")
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}
		var summary entity.UserSummary
		if err := json.Unmarshal(w.Body.Bytes(), &summary); err != nil {
			t.Fatalf("unmarshal response: %v", err)
		}
		if summary.Email != "admin@atlas.com" {
			t.Errorf("email = %q", summary.Email)
		}
	})

	t.Run("garbage cookie blocks a valid header", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
		req.AddCookie(&http.Cookie{Name: AuthCookieName, Value: "not-a-token"})
		req.Header.Set("Authorization", "Bearer "+adminToken)
		router.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", w.Code)
		}
	})

	t.Run("bearer header alone works", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
		req.Header.Set("Authorization", "Bearer "+adminToken)
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
	})
}

func TestRequireAuthDeactivatedAccount(t *testing.T) {
	handler, repo := newTestHandler(t)
	router := newTestRouter(handler)

	// The token itself is valid; only the account state rejects it.
	token := tokenFor(t, handler, repo, 3)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	var response APIError
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if response.Message != "Authentication required" {
		t.Errorf("deactivated account leaked a distinct message: %q", response.Message)
	}
}

func TestAuthenticationBeatsAuthorization(t *testing.T) {
	handler, _ := newTestHandler(t)
	router := newTestRouter(handler)

	// No credentials on a permission-guarded route must be 401, never 403.
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/branches", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestRequirePermissionsDenies(t *testing.T) {
	handler, repo := newTestHandler(t)
	router := newTestRouter(handler)
	viewerToken := tokenFor(t, handler, repo, 2)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/audit-logs", nil)
	req.Header.Set("Authorization", "Bearer "+viewerToken)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
	var response APIError
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if response.Code != ErrCodeForbidden || response.Message != "Forbidden" {
		t.Errorf("unexpected body: %+v", response)
	}
}

func TestRequirePermissionsAllows(t *testing.T) {
	handler, repo := newTestHandler(t)
	router := newTestRouter(handler)
	viewerToken := tokenFor(t, handler, repo, 2)

	// Viewer holds VIEW_ANALYTICS.
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/reports/summary", nil)
	req.Header.Set("Authorization", "Bearer "+viewerToken)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
}
