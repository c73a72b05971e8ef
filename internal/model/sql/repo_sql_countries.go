package sql

import (
	"atlas/internal/entity"
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// CreateCountry persists a new country record.
func (r *GormRepository) CreateCountry(ctx context.Context, country *entity.DbCountry) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if country == nil {
		return fmt.Errorf("country is nil")
	}
	return r.db.WithContext(ctx).Create(country).Error
}

// UpdateCountry updates an existing country entry.
func (r *GormRepository) UpdateCountry(ctx context.Context, id uint, updates entity.CountryUpdates) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return fmt.Errorf("invalid country id")
	}
	if updates.IsEmpty() {
		return nil
	}
	return r.db.WithContext(ctx).Model(&entity.DbCountry{}).Where("id = ?", id).Updates(updates.ToMap()).Error
}

// GetCountry loads a country by ID.
func (r *GormRepository) GetCountry(ctx context.Context, id uint) (*entity.DbCountry, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return nil, fmt.Errorf("invalid country id")
	}
	var country entity.DbCountry
	if err := r.db.WithContext(ctx).First(&country, id).Error; err != nil {
		return nil, err
	}
	return &country, nil
}

// ListCountries returns paginated countries.
func (r *GormRepository) ListCountries(ctx context.Context, params *entity.CountryQuery) ([]entity.DbCountry, *entity.Meta, error) {
	if r == nil || r.db == nil {
		return nil, nil, fmt.Errorf("repository not initialised")
	}

	query := r.db.WithContext(ctx).Model(&entity.DbCountry{})
	if params != nil {
		if !params.IncludeInactive {
			query = query.Where("is_active = ?", true)
		}
		if region := strings.TrimSpace(params.Region); region != "" {
			query = query.Where("region = ?", region)
		}
		if keyword := strings.TrimSpace(params.Keyword); keyword != "" {
			kw := "%" + strings.ToLower(keyword) + "%"
			query = query.Where("LOWER(name) LIKE ? OR LOWER(code) LIKE ?", kw, kw)
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

	var countries []entity.DbCountry
	if err := query.Order("name").Offset(offset).Limit(pageSize).Find(&countries).Error; err != nil {
		return nil, nil, err
	}

	meta := r.calculatePagination(total, page, pageSize)
	return countries, meta, nil
}

// DeleteCountry removes a country by ID.
func (r *GormRepository) DeleteCountry(ctx context.Context, id uint) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return fmt.Errorf("invalid country id")
	}
	result := r.db.WithContext(ctx).Delete(&entity.DbCountry{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
