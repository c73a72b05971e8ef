package auth

import (
	"context"
	"time"

	"atlas/internal/entity"

	"github.com/sirupsen/logrus"
)

// auditWriteTimeout bounds how long a single audit write may hold up an
// auth operation when the sink misbehaves.
const auditWriteTimeout = 3 * time.Second

// AuditSink persists authentication audit entries. Writes are best-effort:
// the service logs sink failures and carries on, so a broken audit store
// can never fail a login or password change.
type AuditSink interface {
	CreateAuditEntry(ctx context.Context, entry *entity.DbAuditEntry) error
}

func (s *Service) recordAudit(actor, action, outcome, reason, ip, userAgent string) {
	if s == nil || s.audit == nil {
		return
	}
	entry := &entity.DbAuditEntry{
		Actor:     actor,
		Action:    action,
		Outcome:   outcome,
		Reason:    reason,
		IP:        ip,
		UserAgent: userAgent,
	}

	ctx, cancel := context.WithTimeout(context.Background(), auditWriteTimeout)
	defer cancel()

	if err := s.audit.CreateAuditEntry(ctx, entry); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"actor":  actor,
			"action": action,
		}).Warn("failed to record audit entry")
	}
}
