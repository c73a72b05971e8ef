package sql

import (
	"atlas/internal/entity"
	"context"
	"fmt"
	"strings"
)

// CreateAuditEntry appends an audit entry. Entries are write-once; there is
// no update or delete path.
func (r *GormRepository) CreateAuditEntry(ctx context.Context, entry *entity.DbAuditEntry) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if entry == nil {
		return fmt.Errorf("audit entry is nil")
	}
	return r.db.WithContext(ctx).Create(entry).Error
}

// ListAuditEntries returns paginated audit entries, newest first.
func (r *GormRepository) ListAuditEntries(ctx context.Context, params *entity.AuditQuery) ([]entity.DbAuditEntry, *entity.Meta, error) {
	if r == nil || r.db == nil {
		return nil, nil, fmt.Errorf("repository not initialised")
	}

	query := r.db.WithContext(ctx).Model(&entity.DbAuditEntry{})
	if params != nil {
		if actor := strings.TrimSpace(params.Actor); actor != "" {
			query = query.Where("actor = ?", actor)
		}
		if action := strings.TrimSpace(params.Action); action != "" {
			query = query.Where("action = ?", action)
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, nil, err
	}

	var base *entity.BaseParams
	if params != nil {
		base = &params.BaseParams
	}
	page, pageSize, offset := pageWindow(base)

	var entries []entity.DbAuditEntry
	if err := query.Order("id DESC").Offset(offset).Limit(pageSize).Find(&entries).Error; err != nil {
		return nil, nil, err
	}

	meta := r.calculatePagination(total, page, pageSize)
	return entries, meta, nil
}
