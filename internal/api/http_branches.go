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

func (h *HTTPHandler) ListBranches(c *gin.Context) {
	var query entity.BranchQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		BadRequest(c, ErrCodeInvalidRequest, "invalid query parameters")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	branches, meta, err := h.repo.ListBranches(ctx, &query)
	if err != nil {
		logrus.WithError(err).Error("failed to list branches")
		InternalError(c, "failed to load branches")
		return
	}

	c.JSON(http.StatusOK, entity.BranchListResponse{Branches: branches, Meta: meta})
}

func (h *HTTPHandler) CreateBranch(c *gin.Context) {
	var req entity.BranchCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	branch := &entity.DbBranch{
		Name:     strings.TrimSpace(req.Name),
		Code:     strings.ToLower(strings.TrimSpace(req.Code)),
		City:     strings.TrimSpace(req.City),
		Country:  strings.TrimSpace(req.Country),
		Phone:    strings.TrimSpace(req.Phone),
		IsActive: isActive,
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.repo.CreateBranch(ctx, branch); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			BadRequest(c, ErrCodeDuplicateRecord, "branch code already exists")
			return
		}
		logrus.WithError(err).Error("failed to create branch")
		InternalError(c, "failed to create branch")
		return
	}

	c.JSON(http.StatusCreated, branch)
}

func (h *HTTPHandler) UpdateBranch(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req entity.BranchUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	updates := entity.BranchUpdates{
		Name:     req.Name,
		City:     req.City,
		Country:  req.Country,
		Phone:    req.Phone,
		IsActive: req.IsActive,
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if !updates.IsEmpty() {
		if err := h.repo.UpdateBranch(ctx, id, updates); err != nil {
			logrus.WithError(err).Error("failed to update branch")
			InternalError(c, "failed to update branch")
			return
		}
	}

	branch, err := h.repo.GetBranch(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "branch not found")
			return
		}
		logrus.WithError(err).Error("failed to reload branch")
		InternalError(c, "failed to load branch")
		return
	}

	c.JSON(http.StatusOK, branch)
}

func (h *HTTPHandler) DeleteBranch(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.repo.DeleteBranch(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "branch not found")
			return
		}
		logrus.WithError(err).Error("failed to delete branch")
		InternalError(c, "failed to delete branch")
		return
	}

	c.Status(http.StatusNoContent)
}
