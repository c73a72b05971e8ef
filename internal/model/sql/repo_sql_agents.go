package sql

import (
	"atlas/internal/entity"
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// CreateAgent persists a new agent record.
func (r *GormRepository) CreateAgent(ctx context.Context, agent *entity.DbAgent) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if agent == nil {
		return fmt.Errorf("agent is nil")
	}
	return r.db.WithContext(ctx).Create(agent).Error
}

// UpdateAgent updates an existing agent entry.
func (r *GormRepository) UpdateAgent(ctx context.Context, id uint, updates entity.AgentUpdates) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return fmt.Errorf("invalid agent id")
	}
	if updates.IsEmpty() {
		return nil
	}
	return r.db.WithContext(ctx).Model(&entity.DbAgent{}).Where("id = ?", id).Updates(updates.ToMap()).Error
}

// GetAgent loads an agent by ID.
func (r *GormRepository) GetAgent(ctx context.Context, id uint) (*entity.DbAgent, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return nil, fmt.Errorf("invalid agent id")
	}
	var agent entity.DbAgent
	if err := r.db.WithContext(ctx).First(&agent, id).Error; err != nil {
		return nil, err
	}
	return &agent, nil
}

// ListAgents returns paginated agents.
func (r *GormRepository) ListAgents(ctx context.Context, params *entity.AgentQuery) ([]entity.DbAgent, *entity.Meta, error) {
	if r == nil || r.db == nil {
		return nil, nil, fmt.Errorf("repository not initialised")
	}

	query := r.db.WithContext(ctx).Model(&entity.DbAgent{})
	if params != nil {
		if !params.IncludeInactive {
			query = query.Where("is_active = ?", true)
		}
		if params.BranchID > 0 {
			query = query.Where("branch_id = ?", params.BranchID)
		}
		if keyword := strings.TrimSpace(params.Keyword); keyword != "" {
			kw := "%" + strings.ToLower(keyword) + "%"
			query = query.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR LOWER(agent_number) LIKE ?", kw, kw, kw)
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

	var agents []entity.DbAgent
	if err := query.Order("id").Offset(offset).Limit(pageSize).Find(&agents).Error; err != nil {
		return nil, nil, err
	}

	meta := r.calculatePagination(total, page, pageSize)
	return agents, meta, nil
}

// DeleteAgent removes an agent by ID.
func (r *GormRepository) DeleteAgent(ctx context.Context, id uint) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return fmt.Errorf("invalid agent id")
	}
	result := r.db.WithContext(ctx).Delete(&entity.DbAgent{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
