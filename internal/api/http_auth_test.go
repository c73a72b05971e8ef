package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"atlas/internal/entity"

	"github.com/gin-gonic/gin"
)

func postJSON(router *gin.Engine, path, body, token string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	router.ServeHTTP(w, req)
	return w
}

func TestLoginGrantsScopedSession(t *testing.T) {
	handler, _ := newTestHandler(t)
	router := newTestRouter(handler)

	w := postJSON(router, "/api/auth/login", `{"email":"admin@atlas.com","password":"Str0ng!Pass"}`, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp entity.AuthResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if !resp.Success || resp.Token == "" {
		t.Fatalf("unexpected auth response: %+v", resp)
	}
	if resp.User.Role != entity.RoleAdmin {
		t.Errorf("role = %q, want %q", resp.User.Role, entity.RoleAdmin)
	}

	hasAnalytics, hasBranches := false, false
	for _, perm := range resp.User.Permissions {
		if perm == entity.PermViewAnalytics {
			hasAnalytics = true
		}
		if perm == entity.PermManageBranches {
			hasBranches = true
		}
	}
	if !hasAnalytics {
		t.Error("admin must hold VIEW_ANALYTICS")
	}
	if hasBranches {
		t.Error("admin must not hold MANAGE_BRANCHES")
	}

	cookieSet := false
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == AuthCookieName && cookie.Value == resp.Token {
			cookieSet = true
		}
	}
	if !cookieSet {
		t.Error("login must mirror the token into the auth cookie")
	}

	// The issued token opens what the role allows and nothing more.
	analytics := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/reports/summary", nil)
	req.Header.Set("Authorization", "Bearer "+resp.Token)
	router.ServeHTTP(analytics, req)
	if analytics.Code != http.StatusOK {
		t.Errorf("analytics summary: expected 200, got %d", analytics.Code)
	}

	branches := postJSON(router, "/api/branches", `{"name":"Cairo","code":"cai"}`, resp.Token)
	if branches.Code != http.StatusForbidden {
		t.Errorf("create branch: expected 403, got %d", branches.Code)
	}
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	handler, _ := newTestHandler(t)
	router := newTestRouter(handler)

	bodies := map[string]string{
		"unknown email":       `{"email":"ghost@atlas.com","password":"Str0ng!Pass"}`,
		"wrong password":      `{"email":"admin@atlas.com","password":"Wr0ng!Pass1"}`,
		"deactivated account": `{"email":"inactive@atlas.com","password":"Str0ng!Pass"}`,
	}

	var reference string
	for name, body := range bodies {
		w := postJSON(router, "/api/auth/login", body, "")
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401, got %d", name, w.Code)
		}
		if reference == "" {
			reference = w.Body.String()
			continue
		}
		if w.Body.String() != reference {
			t.Errorf("%s: body %q differs from %q", name, w.Body.String(), reference)
		}
	}

	var response APIError
	if err := json.Unmarshal([]byte(reference), &response); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if response.Code != ErrCodeInvalidCredentials || response.Message != "Invalid credentials" {
		t.Errorf("unexpected envelope: %+v", response)
	}
}

func TestLogoutAlwaysSucceeds(t *testing.T) {
	handler, repo := newTestHandler(t)
	router := newTestRouter(handler)

	// Without any token.
	w := postJSON(router, "/api/auth/logout", "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("anonymous logout: expected 200, got %d", w.Code)
	}
	if repo.auditCount(entity.AuditActionLogout) != 0 {
		t.Error("anonymous logout must not audit")
	}

	// With a valid token the logout is audited and the cookie cleared.
	token := tokenFor(t, handler, repo, 1)
	w = postJSON(router, "/api/auth/logout", "", token)
	if w.Code != http.StatusOK {
		t.Fatalf("logout: expected 200, got %d", w.Code)
	}
	if repo.auditCount(entity.AuditActionLogout) != 1 {
		t.Errorf("expected 1 logout audit entry, got %d", repo.auditCount(entity.AuditActionLogout))
	}

	cleared := false
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == AuthCookieName && cookie.Value == "" && cookie.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Error("logout must clear the auth cookie")
	}

	// The token stays valid; logging out twice is still a 200.
	w = postJSON(router, "/api/auth/logout", "", token)
	if w.Code != http.StatusOK {
		t.Fatalf("second logout: expected 200, got %d", w.Code)
	}
	if repo.auditCount(entity.AuditActionLogout) != 2 {
		t.Errorf("expected 2 logout audit entries, got %d", repo.auditCount(entity.AuditActionLogout))
	}
}

func TestChangePasswordValidation(t *testing.T) {
	handler, repo := newTestHandler(t)
	router := newTestRouter(handler)
	token := tokenFor(t, handler, repo, 1)

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantCode   string
	}{
		{
			name:       "missing fields",
			body:       `{"current_password":"Str0ng!Pass"}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   ErrCodeMissingField,
		},
		{
			name:       "confirmation mismatch",
			body:       `{"current_password":"Str0ng!Pass","new_password":"N3w!Passw0rd","confirm_password":"Other!Pass9"}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   ErrCodePasswordMismatch,
		},
		{
			name:       "weak password",
			body:       `{"current_password":"Str0ng!Pass","new_password":"short1!","confirm_password":"short1!"}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   ErrCodeWeakPassword,
		},
		{
			name:       "wrong current password",
			body:       `{"current_password":"Wr0ng!Pass1","new_password":"N3w!Passw0rd","confirm_password":"N3w!Passw0rd"}`,
			wantStatus: http.StatusUnauthorized,
			wantCode:   ErrCodeInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(router, "/api/auth/change-password", tt.body, token)
			if w.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d: %s", tt.wantStatus, w.Code, w.Body.String())
			}
			var response APIError
			if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
				t.Fatalf("unmarshal response: %v", err)
			}
			if response.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", response.Code, tt.wantCode)
			}
		})
	}
}

func TestChangePasswordRotatesCredential(t *testing.T) {
	handler, repo := newTestHandler(t)
	router := newTestRouter(handler)
	token := tokenFor(t, handler, repo, 1)

	w := postJSON(router, "/api/auth/change-password",
		`{"current_password":"Str0ng!Pass","new_password":"N3w!Passw0rd","confirm_password":"N3w!Passw0rd"}`, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	// Old password is dead, new one works.
	old := postJSON(router, "/api/auth/login", `{"email":"admin@atlas.com","password":"Str0ng!Pass"}`, "")
	if old.Code != http.StatusUnauthorized {
		t.Errorf("old password: expected 401, got %d", old.Code)
	}
	fresh := postJSON(router, "/api/auth/login", `{"email":"admin@atlas.com","password":"N3w!Passw0rd"}`, "")
	if fresh.Code != http.StatusOK {
		t.Errorf("new password: expected 200, got %d", fresh.Code)
	}

	if repo.auditCount(entity.AuditActionChangePassword) != 1 {
		t.Errorf("expected 1 change-password audit entry, got %d", repo.auditCount(entity.AuditActionChangePassword))
	}
}
