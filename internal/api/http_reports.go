package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"atlas/internal/entity"
	"atlas/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const reportDateLayout = "2006-01-02"

func (h *HTTPHandler) ListReports(c *gin.Context) {
	var query entity.ReportQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		BadRequest(c, ErrCodeInvalidRequest, "invalid query parameters")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	reports, meta, err := h.repo.ListReports(ctx, &query)
	if err != nil {
		logrus.WithError(err).Error("failed to list reports")
		InternalError(c, "failed to load reports")
		return
	}

	c.JSON(http.StatusOK, entity.ReportListResponse{Reports: reports, Meta: meta})
}

func (h *HTTPHandler) CreateReport(c *gin.Context) {
	requestUser := CurrentUser(c)

	var req entity.ReportCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	reportDate, err := time.Parse(reportDateLayout, strings.TrimSpace(req.ReportDate))
	if err != nil {
		BadRequest(c, ErrCodeInvalidRequest, "report_date must be YYYY-MM-DD")
		return
	}
	if req.Spend < 0 || req.Leads < 0 || req.Bookings < 0 || req.Revenue < 0 {
		BadRequest(c, ErrCodeInvalidRequest, "metrics must not be negative")
		return
	}

	report := &entity.DbReport{
		ReportDate: reportDate,
		BranchID:   req.BranchID,
		AgentID:    req.AgentID,
		PlatformID: req.PlatformID,
		CountryID:  req.CountryID,
		Spend:      req.Spend,
		Leads:      req.Leads,
		Bookings:   req.Bookings,
		Revenue:    req.Revenue,
		Notes:      strings.TrimSpace(req.Notes),
	}
	if requestUser != nil {
		report.CreatedBy = requestUser.ID
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.repo.CreateReport(ctx, report); err != nil {
		logrus.WithError(err).Error("failed to create report")
		InternalError(c, "failed to create report")
		return
	}

	c.JSON(http.StatusCreated, report)
}

func (h *HTTPHandler) UpdateReport(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req entity.ReportUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	if (req.Spend != nil && *req.Spend < 0) ||
		(req.Leads != nil && *req.Leads < 0) ||
		(req.Bookings != nil && *req.Bookings < 0) ||
		(req.Revenue != nil && *req.Revenue < 0) {
		BadRequest(c, ErrCodeInvalidRequest, "metrics must not be negative")
		return
	}

	updates := entity.ReportUpdates{
		Spend:    req.Spend,
		Leads:    req.Leads,
		Bookings: req.Bookings,
		Revenue:  req.Revenue,
		Notes:    req.Notes,
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if !updates.IsEmpty() {
		if err := h.repo.UpdateReport(ctx, id, updates); err != nil {
			logrus.WithError(err).Error("failed to update report")
			InternalError(c, "failed to update report")
			return
		}
	}

	report, err := h.repo.GetReport(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "report not found")
			return
		}
		logrus.WithError(err).Error("failed to reload report")
		InternalError(c, "failed to load report")
		return
	}

	c.JSON(http.StatusOK, report)
}

func (h *HTTPHandler) DeleteReport(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.repo.DeleteReport(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "report not found")
			return
		}
		logrus.WithError(err).Error("failed to delete report")
		InternalError(c, "failed to delete report")
		return
	}

	c.Status(http.StatusNoContent)
}

// ReportSummary aggregates report rows by branch, platform, or country and
// adds the derived spend efficiency metrics.
func (h *HTTPHandler) ReportSummary(c *gin.Context) {
	var query entity.ReportSummaryQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		BadRequest(c, ErrCodeInvalidRequest, "invalid query parameters")
		return
	}

	switch query.GroupBy {
	case "", entity.ReportGroupByBranch, entity.ReportGroupByPlatform, entity.ReportGroupByCountry:
	default:
		BadRequest(c, ErrCodeInvalidRequest, "group_by must be branch, platform, or country")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	summary, err := h.reportService.Summarize(ctx, &query)
	if err != nil {
		logrus.WithError(err).Error("failed to summarize reports")
		InternalError(c, "failed to summarize reports")
		return
	}

	c.JSON(http.StatusOK, summary)
}

// ExportReports renders the matching rows as CSV and stores the file on the
// configured storage backend.
func (h *HTTPHandler) ExportReports(c *gin.Context) {
	var query entity.ReportQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		BadRequest(c, ErrCodeInvalidRequest, "invalid query parameters")
		return
	}

	// Exports walk every matching row, so give them more room than the
	// regular CRUD budget.
	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	result, err := h.reportService.Export(ctx, &query)
	if err != nil {
		logrus.WithError(err).Error("failed to export reports")
		InternalError(c, "failed to export reports")
		return
	}

	// Local storage is served under the public base path; remote backends
	// return their object key only.
	if _, ok := h.storage.(storage.LocalBaseDirProvider); ok {
		result.URL = h.storagePublicBase + "/" + strings.TrimLeft(result.Path, "/")
	}

	c.JSON(http.StatusOK, result)
}
