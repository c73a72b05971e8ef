package service

import (
	"atlas/internal/entity"
	"atlas/internal/model"
	"atlas/internal/storage"
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"math"
	"strconv"
	"time"
)

// ReportService layers derived metrics and CSV export on top of the raw
// report aggregates in the store.
type ReportService struct {
	repo  model.Repository
	store storage.Storage
}

func NewReportService(repo model.Repository, store storage.Storage) *ReportService {
	return &ReportService{repo: repo, store: store}
}

// Summarize aggregates report rows and enriches each group with cost per
// lead and the lead-to-booking conversion rate in percent. Groups with zero
// leads report both metrics as zero rather than dividing by zero.
func (s *ReportService) Summarize(ctx context.Context, params *entity.ReportSummaryQuery) (*entity.ReportSummaryResponse, error) {
	if params == nil {
		params = &entity.ReportSummaryQuery{}
	}
	if params.GroupBy == "" {
		params.GroupBy = entity.ReportGroupByBranch
	}

	aggregates, err := s.repo.SummarizeReports(ctx, params)
	if err != nil {
		return nil, err
	}

	rows := make([]entity.ReportSummaryRow, 0, len(aggregates))
	for _, agg := range aggregates {
		row := entity.ReportSummaryRow{ReportAggregate: agg}
		if agg.Leads > 0 {
			row.CostPerLead = round2(agg.Spend / float64(agg.Leads))
			row.ConversionRate = round2(float64(agg.Bookings) / float64(agg.Leads) * 100)
		}
		rows = append(rows, row)
	}

	return &entity.ReportSummaryResponse{GroupBy: params.GroupBy, Rows: rows}, nil
}

var exportHeader = []string{
	"report_date", "branch_id", "agent_id", "platform_id", "country_id",
	"spend", "leads", "bookings", "revenue", "notes",
}

// Export renders the matching report rows as CSV and hands the bytes to the
// configured storage backend. The returned path identifies the stored file.
func (s *ReportService) Export(ctx context.Context, params *entity.ReportQuery) (*entity.ReportExportResponse, error) {
	reports, err := s.repo.ListReportsForExport(ctx, params)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if err := writer.Write(exportHeader); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	for _, report := range reports {
		if err := writer.Write(exportRecord(report)); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}

	path, err := s.store.Save(ctx, buf.Bytes(), storage.SaveOptions{
		Category:  "exports",
		Extension: "csv",
		BaseName:  fmt.Sprintf("reports_%s", time.Now().UTC().Format("20060102T150405")),
	})
	if err != nil {
		return nil, fmt.Errorf("save export: %w", err)
	}

	return &entity.ReportExportResponse{Success: true, Path: path, Rows: len(reports)}, nil
}

func exportRecord(report entity.DbReport) []string {
	return []string{
		report.ReportDate.Format("2006-01-02"),
		strconv.FormatUint(uint64(report.BranchID), 10),
		formatOptionalID(report.AgentID),
		strconv.FormatUint(uint64(report.PlatformID), 10),
		formatOptionalID(report.CountryID),
		strconv.FormatFloat(report.Spend, 'f', 2, 64),
		strconv.FormatInt(report.Leads, 10),
		strconv.FormatInt(report.Bookings, 10),
		strconv.FormatFloat(report.Revenue, 'f', 2, 64),
		report.Notes,
	}
}

func formatOptionalID(id *uint) string {
	if id == nil {
		return ""
	}
	return strconv.FormatUint(uint64(*id), 10)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
