package entity

import "time"

// Grouping keys accepted by the report summary endpoint.
const (
	ReportGroupByBranch   = "branch"
	ReportGroupByPlatform = "platform"
	ReportGroupByCountry  = "country"
)

// DbReport is one media-buyer daily performance row: ad spend and the
// leads/bookings/revenue it produced for a branch, platform, and
// destination country.
type DbReport struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	ReportDate time.Time `gorm:"column:report_date;index;not null" json:"report_date"`
	BranchID   uint      `gorm:"column:branch_id;index;not null" json:"branch_id"`
	AgentID    *uint     `gorm:"column:agent_id;index" json:"agent_id"`
	PlatformID uint      `gorm:"column:platform_id;index;not null" json:"platform_id"`
	CountryID  *uint     `gorm:"column:country_id;index" json:"country_id"`
	Spend      float64   `gorm:"column:spend;not null;default:0" json:"spend"`
	Leads      int64     `gorm:"column:leads;not null;default:0" json:"leads"`
	Bookings   int64     `gorm:"column:bookings;not null;default:0" json:"bookings"`
	Revenue    float64   `gorm:"column:revenue;not null;default:0" json:"revenue"`
	Notes      string    `gorm:"column:notes;type:varchar(1024)" json:"notes,omitempty"`
	CreatedBy  uint      `gorm:"column:created_by;index" json:"created_by"`
}

// TableName overrides default pluralised name.
func (DbReport) TableName() string {
	return "reports"
}

// ReportQuery filters report rows. From/To are inclusive dates in
// YYYY-MM-DD form.
type ReportQuery struct {
	BaseParams
	From       string `json:"from" form:"from" query:"from"`
	To         string `json:"to" form:"to" query:"to"`
	BranchID   uint   `json:"branch_id" form:"branch_id" query:"branch_id"`
	AgentID    uint   `json:"agent_id" form:"agent_id" query:"agent_id"`
	PlatformID uint   `json:"platform_id" form:"platform_id" query:"platform_id"`
	CountryID  uint   `json:"country_id" form:"country_id" query:"country_id"`
}

type ReportCreateRequest struct {
	ReportDate string  `json:"report_date" binding:"required"`
	BranchID   uint    `json:"branch_id" binding:"required"`
	AgentID    *uint   `json:"agent_id"`
	PlatformID uint    `json:"platform_id" binding:"required"`
	CountryID  *uint   `json:"country_id"`
	Spend      float64 `json:"spend"`
	Leads      int64   `json:"leads"`
	Bookings   int64   `json:"bookings"`
	Revenue    float64 `json:"revenue"`
	Notes      string  `json:"notes"`
}

type ReportUpdateRequest struct {
	Spend    *float64 `json:"spend,omitempty"`
	Leads    *int64   `json:"leads,omitempty"`
	Bookings *int64   `json:"bookings,omitempty"`
	Revenue  *float64 `json:"revenue,omitempty"`
	Notes    *string  `json:"notes,omitempty"`
}

type ReportListResponse struct {
	Reports []DbReport `json:"reports"`
	Meta    *Meta      `json:"meta"`
}

// ReportSummaryQuery selects and groups rows for aggregation.
type ReportSummaryQuery struct {
	From       string `json:"from" form:"from" query:"from"`
	To         string `json:"to" form:"to" query:"to"`
	BranchID   uint   `json:"branch_id" form:"branch_id" query:"branch_id"`
	PlatformID uint   `json:"platform_id" form:"platform_id" query:"platform_id"`
	GroupBy    string `json:"group_by" form:"group_by" query:"group_by"`
}

// ReportAggregate is one raw SUM/GROUP BY row from the store.
type ReportAggregate struct {
	GroupID  uint    `json:"group_id"`
	Label    string  `json:"label"`
	Spend    float64 `json:"spend"`
	Leads    int64   `json:"leads"`
	Bookings int64   `json:"bookings"`
	Revenue  float64 `json:"revenue"`
}

// ReportSummaryRow is an aggregate enriched with derived metrics.
type ReportSummaryRow struct {
	ReportAggregate
	CostPerLead    float64 `json:"cost_per_lead"`
	ConversionRate float64 `json:"conversion_rate"`
}

type ReportSummaryResponse struct {
	GroupBy string             `json:"group_by"`
	Rows    []ReportSummaryRow `json:"rows"`
}

type ReportExportResponse struct {
	Success bool   `json:"success"`
	Path    string `json:"path"`
	URL     string `json:"url,omitempty"`
	Rows    int    `json:"rows"`
}
