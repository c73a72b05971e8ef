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

func (h *HTTPHandler) ListCountries(c *gin.Context) {
	var query entity.CountryQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		BadRequest(c, ErrCodeInvalidRequest, "invalid query parameters")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	countries, meta, err := h.repo.ListCountries(ctx, &query)
	if err != nil {
		logrus.WithError(err).Error("failed to list countries")
		InternalError(c, "failed to load countries")
		return
	}

	c.JSON(http.StatusOK, entity.CountryListResponse{Countries: countries, Meta: meta})
}

func (h *HTTPHandler) CreateCountry(c *gin.Context) {
	var req entity.CountryCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	country := &entity.DbCountry{
		Code:     strings.ToUpper(strings.TrimSpace(req.Code)),
		Name:     strings.TrimSpace(req.Name),
		Region:   strings.TrimSpace(req.Region),
		IsActive: isActive,
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.repo.CreateCountry(ctx, country); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			BadRequest(c, ErrCodeDuplicateRecord, "country code already exists")
			return
		}
		logrus.WithError(err).Error("failed to create country")
		InternalError(c, "failed to create country")
		return
	}

	c.JSON(http.StatusCreated, country)
}

func (h *HTTPHandler) UpdateCountry(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req entity.CountryUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	updates := entity.CountryUpdates{
		Name:     req.Name,
		Region:   req.Region,
		IsActive: req.IsActive,
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if !updates.IsEmpty() {
		if err := h.repo.UpdateCountry(ctx, id, updates); err != nil {
			logrus.WithError(err).Error("failed to update country")
			InternalError(c, "failed to update country")
			return
		}
	}

	country, err := h.repo.GetCountry(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "country not found")
			return
		}
		logrus.WithError(err).Error("failed to reload country")
		InternalError(c, "failed to load country")
		return
	}

	c.JSON(http.StatusOK, country)
}

func (h *HTTPHandler) DeleteCountry(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.repo.DeleteCountry(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "country not found")
			return
		}
		logrus.WithError(err).Error("failed to delete country")
		InternalError(c, "failed to delete country")
		return
	}

	c.Status(http.StatusNoContent)
}
