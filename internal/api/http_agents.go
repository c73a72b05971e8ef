package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"atlas/internal/auth"
	"atlas/internal/entity"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

func (h *HTTPHandler) ListAgents(c *gin.Context) {
	var query entity.AgentQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		BadRequest(c, ErrCodeInvalidRequest, "invalid query parameters")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	agents, meta, err := h.repo.ListAgents(ctx, &query)
	if err != nil {
		logrus.WithError(err).Error("failed to list agents")
		InternalError(c, "failed to load agents")
		return
	}

	c.JSON(http.StatusOK, entity.AgentListResponse{Agents: agents, Meta: meta})
}

func (h *HTTPHandler) CreateAgent(c *gin.Context) {
	var req entity.AgentCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	// A dangling branch reference would poison every per-branch rollup.
	if _, err := h.repo.GetBranch(ctx, req.BranchID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			BadRequest(c, ErrCodeInvalidRequest, "branch does not exist")
			return
		}
		logrus.WithError(err).Error("failed to check branch for agent")
		InternalError(c, "failed to create agent")
		return
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	agent := &entity.DbAgent{
		Name:        strings.TrimSpace(req.Name),
		Email:       auth.NormalizeEmail(req.Email),
		AgentNumber: strings.ToUpper(strings.TrimSpace(req.AgentNumber)),
		BranchID:    req.BranchID,
		IsActive:    isActive,
	}

	if err := h.repo.CreateAgent(ctx, agent); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			BadRequest(c, ErrCodeDuplicateRecord, "agent number already exists")
			return
		}
		logrus.WithError(err).Error("failed to create agent")
		InternalError(c, "failed to create agent")
		return
	}

	c.JSON(http.StatusCreated, agent)
}

func (h *HTTPHandler) UpdateAgent(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req entity.AgentUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if req.BranchID != nil {
		if _, err := h.repo.GetBranch(ctx, *req.BranchID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				BadRequest(c, ErrCodeInvalidRequest, "branch does not exist")
				return
			}
			logrus.WithError(err).Error("failed to check branch for agent update")
			InternalError(c, "failed to update agent")
			return
		}
	}

	updates := entity.AgentUpdates{
		Name:     req.Name,
		Email:    req.Email,
		BranchID: req.BranchID,
		IsActive: req.IsActive,
	}

	if !updates.IsEmpty() {
		if err := h.repo.UpdateAgent(ctx, id, updates); err != nil {
			logrus.WithError(err).Error("failed to update agent")
			InternalError(c, "failed to update agent")
			return
		}
	}

	agent, err := h.repo.GetAgent(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "agent not found")
			return
		}
		logrus.WithError(err).Error("failed to reload agent")
		InternalError(c, "failed to load agent")
		return
	}

	c.JSON(http.StatusOK, agent)
}

func (h *HTTPHandler) DeleteAgent(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.repo.DeleteAgent(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "agent not found")
			return
		}
		logrus.WithError(err).Error("failed to delete agent")
		InternalError(c, "failed to delete agent")
		return
	}

	c.Status(http.StatusNoContent)
}
