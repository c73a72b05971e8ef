package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"atlas/internal/entity"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	currentUserContextKey = "current-user"

	// AuthCookieName is the session cookie checked before the
	// Authorization header.
	AuthCookieName = "auth-token"
)

// RequestUser is the authenticated principal attached to the request
// context, with its permission set resolved once per request.
type RequestUser struct {
	ID          uint
	Email       string
	DisplayName string
	Role        entity.Role
	BranchID    *uint
	Permissions []entity.Permission
}

// HasPermission reports whether the resolved permission set contains perm.
func (u *RequestUser) HasPermission(perm entity.Permission) bool {
	if u == nil {
		return false
	}
	for _, held := range u.Permissions {
		if held == perm {
			return true
		}
	}
	return false
}

// extractToken returns the bearer token for the request. The auth cookie
// wins over the Authorization header when both are present.
func extractToken(c *gin.Context) string {
	if cookie, err := c.Cookie(AuthCookieName); err == nil {
		if trimmed := strings.TrimSpace(cookie); trimmed != "" {
			return trimmed
		}
	}

	authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// RequireAuth authenticates the request. Every failure collapses to the
// same 401 envelope so a caller cannot tell a missing token from an expired
// one or from a deactivated account. The user row is re-read on each
// request, which makes deactivation effective immediately even though
// tokens are stateless.
func (h *HTTPHandler) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c)
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, APIError{
				Code:    ErrCodeUnauthorized,
				Message: "Authentication required",
			})
			return
		}

		claims, err := h.authManager.ParseToken(tokenString)
		if err != nil {
			logrus.WithError(err).Debug("rejected token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, APIError{
				Code:    ErrCodeUnauthorized,
				Message: "Authentication required",
			})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		user, err := h.repo.GetUserByID(ctx, claims.UserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, APIError{
					Code:    ErrCodeUnauthorized,
					Message: "Authentication required",
				})
				return
			}
			logrus.WithError(err).WithField("user_id", claims.UserID).Error("failed to load user for auth")
			c.AbortWithStatusJSON(http.StatusInternalServerError, APIError{
				Code:    ErrCodeInternalError,
				Message: "failed to authenticate request",
			})
			return
		}

		if !user.IsActive {
			c.AbortWithStatusJSON(http.StatusUnauthorized, APIError{
				Code:    ErrCodeUnauthorized,
				Message: "Authentication required",
			})
			return
		}

		c.Set(currentUserContextKey, &RequestUser{
			ID:          user.ID,
			Email:       user.Email,
			DisplayName: user.DisplayName,
			Role:        user.Role,
			BranchID:    user.BranchID,
			Permissions: h.matrix.PermissionsFor(user.Role),
		})
		c.Next()
	}
}

// RequirePermissions guards a route group with one or more permissions; the
// caller must hold all of them. An unauthenticated request is a 401 even
// here, so authentication errors always win over authorization errors.
func (h *HTTPHandler) RequirePermissions(perms ...entity.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, APIError{
				Code:    ErrCodeUnauthorized,
				Message: "Authentication required",
			})
			return
		}
		for _, perm := range perms {
			if !h.matrix.HasPermission(user.Role, perm) {
				c.AbortWithStatusJSON(http.StatusForbidden, APIError{
					Code:    ErrCodeForbidden,
					Message: "Forbidden",
				})
				return
			}
		}
		c.Next()
	}
}

// CurrentUser returns the authenticated principal, or nil outside an
// authenticated request.
func CurrentUser(c *gin.Context) *RequestUser {
	value, exists := c.Get(currentUserContextKey)
	if !exists {
		return nil
	}
	user, ok := value.(*RequestUser)
	if !ok {
		return nil
	}
	return user
}
