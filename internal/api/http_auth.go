package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"atlas/internal/auth"
	"atlas/internal/entity"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Login verifies credentials and issues a session token. The token is
// returned in the body and mirrored into the auth cookie. Unknown email,
// wrong password, and disabled account all produce the identical 401
// envelope.
func (h *HTTPHandler) Login(c *gin.Context) {
	var req entity.AuthLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	user, token, expiresAt, err := h.authService.Login(ctx, req.Email, req.Password, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) || errors.Is(err, auth.ErrAccountInactive) {
			ErrorResponse(c, http.StatusUnauthorized, ErrCodeInvalidCredentials, "Invalid credentials")
			return
		}
		logrus.WithError(err).Error("login failed")
		InternalError(c, "failed to create session")
		return
	}

	maxAge := int(time.Until(expiresAt).Seconds())
	c.SetCookie(AuthCookieName, token, maxAge, "/", "", false, true)

	c.JSON(http.StatusOK, entity.AuthResponse{
		Success:   true,
		Token:     token,
		ExpiresAt: expiresAt,
		User:      h.userSummary(user),
	})
}

// Logout clears the auth cookie. It succeeds whether or not the request
// carries a usable token; a decodable token additionally lands in the audit
// trail. The token itself stays valid until expiry.
func (h *HTTPHandler) Logout(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if token := extractToken(c); token != "" {
		h.authService.Logout(ctx, token, c.ClientIP(), c.Request.UserAgent())
	}

	c.SetCookie(AuthCookieName, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Me returns the authenticated user's profile with its permission set.
func (h *HTTPHandler) Me(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		Unauthorized(c)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	dbUser, err := h.repo.GetUserByID(ctx, user.ID)
	if err != nil {
		logrus.WithError(err).WithField("user_id", user.ID).Error("failed to load user profile")
		InternalError(c, "failed to load profile")
		return
	}

	c.JSON(http.StatusOK, h.userSummary(dbUser))
}

// ChangePassword rotates the caller's own password.
func (h *HTTPHandler) ChangePassword(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		Unauthorized(c)
		return
	}

	var req entity.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	err := h.authService.ChangePassword(ctx, user.ID,
		req.CurrentPassword, req.NewPassword, req.ConfirmPassword,
		c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		var weak *auth.WeakPasswordError
		switch {
		case errors.Is(err, auth.ErrMissingPasswordFields):
			ErrorResponse(c, http.StatusBadRequest, ErrCodeMissingField, err.Error())
		case errors.Is(err, auth.ErrPasswordMismatch):
			ErrorResponse(c, http.StatusBadRequest, ErrCodePasswordMismatch, err.Error())
		case errors.As(err, &weak):
			ErrorResponseWithDetails(c, http.StatusBadRequest, ErrCodeWeakPassword, weak.Error(), gin.H{"rule": weak.Rule})
		case errors.Is(err, auth.ErrInvalidCredentials):
			ErrorResponse(c, http.StatusUnauthorized, ErrCodeInvalidCredentials, "Invalid credentials")
		default:
			logrus.WithError(err).WithField("user_id", user.ID).Error("failed to change password")
			InternalError(c, "failed to change password")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// userSummary renders a user for clients, with the role's permission set
// resolved from the matrix. The password hash never leaves the server.
func (h *HTTPHandler) userSummary(user *entity.DbUser) entity.UserSummary {
	if user == nil {
		return entity.UserSummary{}
	}
	return entity.UserSummary{
		ID:          user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Role:        user.Role,
		BranchID:    user.BranchID,
		AgentNumber: user.AgentNumber,
		Permissions: h.matrix.PermissionsFor(user.Role),
		IsActive:    user.IsActive,
		CreatedAt:   user.CreatedAt,
		UpdatedAt:   user.UpdatedAt,
		LastLoginAt: user.LastLoginAt,
	}
}
