package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"atlas/internal/auth"
	"atlas/internal/entity"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

func (h *HTTPHandler) ListUsers(c *gin.Context) {
	var query entity.UserQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		BadRequest(c, ErrCodeInvalidRequest, "invalid query parameters")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	users, meta, err := h.repo.ListUsers(ctx, &query)
	if err != nil {
		logrus.WithError(err).Error("failed to list users")
		InternalError(c, "failed to load users")
		return
	}

	response := entity.UserListResponse{
		Users: make([]entity.UserSummary, 0, len(users)),
		Meta:  meta,
	}
	for idx := range users {
		response.Users = append(response.Users, h.userSummary(&users[idx]))
	}

	c.JSON(http.StatusOK, response)
}

func (h *HTTPHandler) CreateUser(c *gin.Context) {
	requestUser := CurrentUser(c)

	var req entity.UserCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	email := auth.NormalizeEmail(req.Email)
	if email == "" {
		MissingField(c, "email")
		return
	}

	role, ok := parseRole(req.Role)
	if !ok {
		BadRequest(c, ErrCodeInvalidRole, "invalid role")
		return
	}
	if role == entity.RoleSuperAdmin {
		BadRequest(c, ErrCodeInvalidRole, "cannot create super admin")
		return
	}
	if role == entity.RoleAdmin && (requestUser == nil || requestUser.Role != entity.RoleSuperAdmin) {
		Forbidden(c)
		return
	}

	if err := auth.ValidatePasswordPolicy(req.Password); err != nil {
		var weak *auth.WeakPasswordError
		if errors.As(err, &weak) {
			ErrorResponseWithDetails(c, http.StatusBadRequest, ErrCodeWeakPassword, weak.Error(), gin.H{"rule": weak.Rule})
			return
		}
		BadRequest(c, ErrCodeInvalidRequest, "invalid password")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		logrus.WithError(err).Error("failed to hash password for new user")
		InternalError(c, "failed to create user")
		return
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	user := &entity.DbUser{
		Email:        email,
		DisplayName:  strings.TrimSpace(req.DisplayName),
		PasswordHash: hash,
		Role:         role,
		BranchID:     req.BranchID,
		AgentNumber:  strings.TrimSpace(req.AgentNumber),
		IsActive:     isActive,
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			BadRequest(c, ErrCodeDuplicateRecord, "email already registered")
			return
		}
		logrus.WithError(err).Error("failed to create user")
		InternalError(c, "failed to create user")
		return
	}

	c.JSON(http.StatusCreated, h.userSummary(user))
}

func (h *HTTPHandler) UpdateUser(c *gin.Context) {
	requestUser := CurrentUser(c)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req entity.UserUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	dbUser, err := h.repo.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "user not found")
			return
		}
		logrus.WithError(err).Error("failed to load user for update")
		InternalError(c, "failed to update user")
		return
	}

	if dbUser.Role == entity.RoleSuperAdmin && (requestUser == nil || requestUser.ID != dbUser.ID) {
		Forbidden(c)
		return
	}

	var updates entity.UserUpdates

	if req.DisplayName != nil {
		trimmed := strings.TrimSpace(*req.DisplayName)
		updates.DisplayName = &trimmed
	}
	if req.BranchID != nil {
		updates.BranchID = req.BranchID
	}
	if req.AgentNumber != nil {
		trimmed := strings.TrimSpace(*req.AgentNumber)
		updates.AgentNumber = &trimmed
	}

	if req.Password != nil {
		if err := auth.ValidatePasswordPolicy(*req.Password); err != nil {
			var weak *auth.WeakPasswordError
			if errors.As(err, &weak) {
				ErrorResponseWithDetails(c, http.StatusBadRequest, ErrCodeWeakPassword, weak.Error(), gin.H{"rule": weak.Rule})
				return
			}
			BadRequest(c, ErrCodeInvalidRequest, "invalid password")
			return
		}
		hash, err := auth.HashPassword(*req.Password)
		if err != nil {
			logrus.WithError(err).Error("failed to hash password for update")
			InternalError(c, "failed to update user")
			return
		}
		updates.PasswordHash = &hash
	}

	if req.Role != nil {
		if requestUser == nil || requestUser.Role != entity.RoleSuperAdmin {
			Forbidden(c)
			return
		}
		targetRole, ok := parseRole(*req.Role)
		if !ok || targetRole == entity.RoleSuperAdmin {
			BadRequest(c, ErrCodeInvalidRole, "invalid role")
			return
		}
		roleValue := string(targetRole)
		updates.Role = &roleValue
	}

	if req.IsActive != nil {
		if dbUser.Role == entity.RoleSuperAdmin {
			BadRequest(c, ErrCodeInvalidRequest, "super admin must remain active")
			return
		}
		if dbUser.Role == entity.RoleAdmin && (requestUser == nil || requestUser.Role != entity.RoleSuperAdmin) {
			Forbidden(c)
			return
		}
		updates.IsActive = req.IsActive
	}

	if updates.IsEmpty() {
		c.JSON(http.StatusOK, h.userSummary(dbUser))
		return
	}

	if err := h.repo.UpdateUser(ctx, dbUser.ID, updates); err != nil {
		logrus.WithError(err).Error("failed to update user")
		InternalError(c, "failed to update user")
		return
	}

	updated, err := h.repo.GetUserByID(ctx, dbUser.ID)
	if err != nil {
		logrus.WithError(err).Error("failed to reload user after update")
		InternalError(c, "failed to load updated user")
		return
	}

	c.JSON(http.StatusOK, h.userSummary(updated))
}

func (h *HTTPHandler) DeleteUser(c *gin.Context) {
	requestUser := CurrentUser(c)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if requestUser != nil && requestUser.ID == id {
		BadRequest(c, ErrCodeCannotDeleteSelf, "cannot delete current user")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	dbUser, err := h.repo.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "user not found")
			return
		}
		logrus.WithError(err).Error("failed to load user for deletion")
		InternalError(c, "failed to delete user")
		return
	}

	if dbUser.Role == entity.RoleSuperAdmin {
		Forbidden(c)
		return
	}
	if dbUser.Role == entity.RoleAdmin && (requestUser == nil || requestUser.Role != entity.RoleSuperAdmin) {
		Forbidden(c)
		return
	}

	if err := h.repo.DeleteUser(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "user not found")
			return
		}
		logrus.WithError(err).Error("failed to delete user")
		InternalError(c, "failed to delete user")
		return
	}

	c.Status(http.StatusNoContent)
}

func parseRole(value string) (entity.Role, bool) {
	role := entity.Role(strings.ToUpper(strings.TrimSpace(value)))
	return role, role.IsValid()
}

// parseIDParam reads the :id path parameter. On failure it writes the 400
// response itself and returns ok=false.
func parseIDParam(c *gin.Context) (uint, bool) {
	idValue := strings.TrimSpace(c.Param("id"))
	id, err := strconv.ParseUint(idValue, 10, 64)
	if err != nil || id == 0 {
		BadRequest(c, ErrCodeInvalidRequest, "invalid id")
		return 0, false
	}
	return uint(id), true
}
