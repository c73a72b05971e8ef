package sql

import (
	"atlas/internal/entity"
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// CreateBranch persists a new branch record.
func (r *GormRepository) CreateBranch(ctx context.Context, branch *entity.DbBranch) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if branch == nil {
		return fmt.Errorf("branch is nil")
	}
	return r.db.WithContext(ctx).Create(branch).Error
}

// UpdateBranch updates an existing branch entry.
func (r *GormRepository) UpdateBranch(ctx context.Context, id uint, updates entity.BranchUpdates) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return fmt.Errorf("invalid branch id")
	}
	if updates.IsEmpty() {
		return nil
	}
	return r.db.WithContext(ctx).Model(&entity.DbBranch{}).Where("id = ?", id).Updates(updates.ToMap()).Error
}

// GetBranch loads a branch by ID.
func (r *GormRepository) GetBranch(ctx context.Context, id uint) (*entity.DbBranch, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return nil, fmt.Errorf("invalid branch id")
	}
	var branch entity.DbBranch
	if err := r.db.WithContext(ctx).First(&branch, id).Error; err != nil {
		return nil, err
	}
	return &branch, nil
}

// ListBranches returns paginated branches.
func (r *GormRepository) ListBranches(ctx context.Context, params *entity.BranchQuery) ([]entity.DbBranch, *entity.Meta, error) {
	if r == nil || r.db == nil {
		return nil, nil, fmt.Errorf("repository not initialised")
	}

	query := r.db.WithContext(ctx).Model(&entity.DbBranch{})
	if params != nil {
		if !params.IncludeInactive {
			query = query.Where("is_active = ?", true)
		}
		if keyword := strings.TrimSpace(params.Keyword); keyword != "" {
			kw := "%" + strings.ToLower(keyword) + "%"
			query = query.Where("LOWER(name) LIKE ? OR LOWER(code) LIKE ? OR LOWER(city) LIKE ?", kw, kw, kw)
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

	var branches []entity.DbBranch
	if err := query.Order("id").Offset(offset).Limit(pageSize).Find(&branches).Error; err != nil {
		return nil, nil, err
	}

	meta := r.calculatePagination(total, page, pageSize)
	return branches, meta, nil
}

// DeleteBranch removes a branch by ID.
func (r *GormRepository) DeleteBranch(ctx context.Context, id uint) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return fmt.Errorf("invalid branch id")
	}
	result := r.db.WithContext(ctx).Delete(&entity.DbBranch{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
