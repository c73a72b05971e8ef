package api

import (
	"context"
	"net/http"
	"time"

	"atlas/internal/entity"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ListAuditEntries returns the append-only audit trail, newest first.
func (h *HTTPHandler) ListAuditEntries(c *gin.Context) {
	var query entity.AuditQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		BadRequest(c, ErrCodeInvalidRequest, "invalid query parameters")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	entries, meta, err := h.repo.ListAuditEntries(ctx, &query)
	if err != nil {
		logrus.WithError(err).Error("failed to list audit entries")
		InternalError(c, "failed to load audit entries")
		return
	}

	c.JSON(http.StatusOK, entity.AuditListResponse{Entries: entries, Meta: meta})
}
