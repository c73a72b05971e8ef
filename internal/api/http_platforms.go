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

func (h *HTTPHandler) ListPlatforms(c *gin.Context) {
	includeInactive := strings.EqualFold(c.Query("include_inactive"), "true")

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	platforms, err := h.repo.ListPlatforms(ctx, includeInactive)
	if err != nil {
		logrus.WithError(err).Error("failed to list platforms")
		InternalError(c, "failed to load platforms")
		return
	}

	c.JSON(http.StatusOK, entity.PlatformListResponse{Platforms: platforms})
}

func (h *HTTPHandler) CreatePlatform(c *gin.Context) {
	var req entity.PlatformCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	platform := &entity.DbPlatform{
		Code:     strings.ToLower(strings.TrimSpace(req.Code)),
		Name:     strings.TrimSpace(req.Name),
		IsActive: isActive,
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.repo.CreatePlatform(ctx, platform); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			BadRequest(c, ErrCodeDuplicateRecord, "platform code already exists")
			return
		}
		logrus.WithError(err).Error("failed to create platform")
		InternalError(c, "failed to create platform")
		return
	}

	c.JSON(http.StatusCreated, platform)
}

func (h *HTTPHandler) UpdatePlatform(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req entity.PlatformUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	updates := entity.PlatformUpdates{
		Name:     req.Name,
		IsActive: req.IsActive,
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if !updates.IsEmpty() {
		if err := h.repo.UpdatePlatform(ctx, id, updates); err != nil {
			logrus.WithError(err).Error("failed to update platform")
			InternalError(c, "failed to update platform")
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *HTTPHandler) DeletePlatform(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.repo.DeletePlatform(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "platform not found")
			return
		}
		logrus.WithError(err).Error("failed to delete platform")
		InternalError(c, "failed to delete platform")
		return
	}

	c.Status(http.StatusNoContent)
}
