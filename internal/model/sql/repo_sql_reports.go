package sql

import (
	"atlas/internal/entity"
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

const reportDateLayout = "2006-01-02"

// CreateReport persists a new report row.
func (r *GormRepository) CreateReport(ctx context.Context, report *entity.DbReport) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if report == nil {
		return fmt.Errorf("report is nil")
	}
	return r.db.WithContext(ctx).Create(report).Error
}

// UpdateReport updates an existing report row.
func (r *GormRepository) UpdateReport(ctx context.Context, id uint, updates entity.ReportUpdates) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return fmt.Errorf("invalid report id")
	}
	if updates.IsEmpty() {
		return nil
	}
	return r.db.WithContext(ctx).Model(&entity.DbReport{}).Where("id = ?", id).Updates(updates.ToMap()).Error
}

// GetReport loads a report by ID.
func (r *GormRepository) GetReport(ctx context.Context, id uint) (*entity.DbReport, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return nil, fmt.Errorf("invalid report id")
	}
	var report entity.DbReport
	if err := r.db.WithContext(ctx).First(&report, id).Error; err != nil {
		return nil, err
	}
	return &report, nil
}

// applyReportFilters narrows a reports query. From/To are inclusive dates.
func applyReportFilters(query *gorm.DB, params *entity.ReportQuery) (*gorm.DB, error) {
	if params == nil {
		return query, nil
	}
	if from := strings.TrimSpace(params.From); from != "" {
		t, err := time.Parse(reportDateLayout, from)
		if err != nil {
			return nil, fmt.Errorf("invalid from date %q", from)
		}
		query = query.Where("report_date >= ?", t)
	}
	if to := strings.TrimSpace(params.To); to != "" {
		t, err := time.Parse(reportDateLayout, to)
		if err != nil {
			return nil, fmt.Errorf("invalid to date %q", to)
		}
		query = query.Where("report_date < ?", t.AddDate(0, 0, 1))
	}
	if params.BranchID > 0 {
		query = query.Where("branch_id = ?", params.BranchID)
	}
	if params.AgentID > 0 {
		query = query.Where("agent_id = ?", params.AgentID)
	}
	if params.PlatformID > 0 {
		query = query.Where("platform_id = ?", params.PlatformID)
	}
	if params.CountryID > 0 {
		query = query.Where("country_id = ?", params.CountryID)
	}
	return query, nil
}

// ListReports returns paginated report rows, newest first.
func (r *GormRepository) ListReports(ctx context.Context, params *entity.ReportQuery) ([]entity.DbReport, *entity.Meta, error) {
	if r == nil || r.db == nil {
		return nil, nil, fmt.Errorf("repository not initialised")
	}

	query, err := applyReportFilters(r.db.WithContext(ctx).Model(&entity.DbReport{}), params)
	if err != nil {
		return nil, nil, err
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

	var reports []entity.DbReport
	if err := query.Order("report_date DESC, id DESC").Offset(offset).Limit(pageSize).Find(&reports).Error; err != nil {
		return nil, nil, err
	}

	meta := r.calculatePagination(total, page, pageSize)
	return reports, meta, nil
}

// ListReportsForExport returns every matching row without pagination, in
// date order, for CSV rendering.
func (r *GormRepository) ListReportsForExport(ctx context.Context, params *entity.ReportQuery) ([]entity.DbReport, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}

	query, err := applyReportFilters(r.db.WithContext(ctx).Model(&entity.DbReport{}), params)
	if err != nil {
		return nil, err
	}

	var reports []entity.DbReport
	if err := query.Order("report_date, id").Find(&reports).Error; err != nil {
		return nil, err
	}
	return reports, nil
}

// DeleteReport removes a report row by ID.
func (r *GormRepository) DeleteReport(ctx context.Context, id uint) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return fmt.Errorf("invalid report id")
	}
	result := r.db.WithContext(ctx).Delete(&entity.DbReport{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SummarizeReports aggregates spend/leads/bookings/revenue grouped by
// branch, platform, or country.
func (r *GormRepository) SummarizeReports(ctx context.Context, params *entity.ReportSummaryQuery) ([]entity.ReportAggregate, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	if params == nil {
		return nil, fmt.Errorf("summary query is nil")
	}

	filter := &entity.ReportQuery{
		From:       params.From,
		To:         params.To,
		BranchID:   params.BranchID,
		PlatformID: params.PlatformID,
	}
	query, err := applyReportFilters(r.db.WithContext(ctx).Model(&entity.DbReport{}), filter)
	if err != nil {
		return nil, err
	}

	const sums = "COALESCE(SUM(reports.spend), 0) AS spend, " +
		"COALESCE(SUM(reports.leads), 0) AS leads, " +
		"COALESCE(SUM(reports.bookings), 0) AS bookings, " +
		"COALESCE(SUM(reports.revenue), 0) AS revenue"

	switch params.GroupBy {
	case "", entity.ReportGroupByBranch:
		query = query.
			Select("reports.branch_id AS group_id, COALESCE(branches.name, '') AS label, " + sums).
			Joins("LEFT JOIN branches ON branches.id = reports.branch_id").
			Group("reports.branch_id, branches.name")
	case entity.ReportGroupByPlatform:
		query = query.
			Select("reports.platform_id AS group_id, COALESCE(platforms.name, '') AS label, " + sums).
			Joins("LEFT JOIN platforms ON platforms.id = reports.platform_id").
			Group("reports.platform_id, platforms.name")
	case entity.ReportGroupByCountry:
		query = query.
			Select("reports.country_id AS group_id, COALESCE(countries.name, '') AS label, " + sums).
			Joins("LEFT JOIN countries ON countries.id = reports.country_id").
			Group("reports.country_id, countries.name")
	default:
		return nil, fmt.Errorf("unsupported group_by %q", params.GroupBy)
	}

	var rows []entity.ReportAggregate
	if err := query.Order("label").Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
