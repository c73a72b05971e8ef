package sql

import (
	"atlas/internal/entity"
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// CreatePlatform persists a new platform record.
func (r *GormRepository) CreatePlatform(ctx context.Context, platform *entity.DbPlatform) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if platform == nil {
		return fmt.Errorf("platform is nil")
	}
	return r.db.WithContext(ctx).Create(platform).Error
}

// UpdatePlatform updates an existing platform entry.
func (r *GormRepository) UpdatePlatform(ctx context.Context, id uint, updates entity.PlatformUpdates) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return fmt.Errorf("invalid platform id")
	}
	if updates.IsEmpty() {
		return nil
	}
	return r.db.WithContext(ctx).Model(&entity.DbPlatform{}).Where("id = ?", id).Updates(updates.ToMap()).Error
}

// GetPlatformByCode loads a platform by its unique code.
func (r *GormRepository) GetPlatformByCode(ctx context.Context, code string) (*entity.DbPlatform, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	trimmed := strings.TrimSpace(code)
	if trimmed == "" {
		return nil, fmt.Errorf("platform code is empty")
	}
	var platform entity.DbPlatform
	if err := r.db.WithContext(ctx).Where("code = ?", strings.ToLower(trimmed)).First(&platform).Error; err != nil {
		return nil, err
	}
	return &platform, nil
}

// ListPlatforms returns all platforms.
func (r *GormRepository) ListPlatforms(ctx context.Context, includeInactive bool) ([]entity.DbPlatform, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	query := r.db.WithContext(ctx).Model(&entity.DbPlatform{})
	if !includeInactive {
		query = query.Where("is_active = ?", true)
	}
	var platforms []entity.DbPlatform
	if err := query.Order("id").Find(&platforms).Error; err != nil {
		return nil, err
	}
	return platforms, nil
}

// DeletePlatform removes a platform by ID.
func (r *GormRepository) DeletePlatform(ctx context.Context, id uint) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return fmt.Errorf("invalid platform id")
	}
	result := r.db.WithContext(ctx).Delete(&entity.DbPlatform{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
