package model

import (
	"atlas/internal/entity"
	"context"
	"time"
)

// Repository defines the database operations. The first block is the
// credential-store and audit contract consumed by the auth core; the rest
// backs the business CRUD handlers.
type Repository interface {
	// Credential store (auth core contract)
	GetUserByEmail(ctx context.Context, email string) (*entity.DbUser, error)
	GetUserByID(ctx context.Context, id uint) (*entity.DbUser, error)
	UpdateUserPasswordHash(ctx context.Context, id uint, hash string) error
	UpdateUserLastLogin(ctx context.Context, id uint, at time.Time) error

	// Audit log (append-only)
	CreateAuditEntry(ctx context.Context, entry *entity.DbAuditEntry) error
	ListAuditEntries(ctx context.Context, params *entity.AuditQuery) ([]entity.DbAuditEntry, *entity.Meta, error)

	// User administration
	CreateUser(ctx context.Context, user *entity.DbUser) error
	UpdateUser(ctx context.Context, id uint, updates entity.UserUpdates) error
	ListUsers(ctx context.Context, params *entity.UserQuery) ([]entity.DbUser, *entity.Meta, error)
	DeleteUser(ctx context.Context, id uint) error
	CountUsers(ctx context.Context) (int64, error)

	// Branches
	CreateBranch(ctx context.Context, branch *entity.DbBranch) error
	UpdateBranch(ctx context.Context, id uint, updates entity.BranchUpdates) error
	GetBranch(ctx context.Context, id uint) (*entity.DbBranch, error)
	ListBranches(ctx context.Context, params *entity.BranchQuery) ([]entity.DbBranch, *entity.Meta, error)
	DeleteBranch(ctx context.Context, id uint) error

	// Agents
	CreateAgent(ctx context.Context, agent *entity.DbAgent) error
	UpdateAgent(ctx context.Context, id uint, updates entity.AgentUpdates) error
	GetAgent(ctx context.Context, id uint) (*entity.DbAgent, error)
	ListAgents(ctx context.Context, params *entity.AgentQuery) ([]entity.DbAgent, *entity.Meta, error)
	DeleteAgent(ctx context.Context, id uint) error

	// Countries
	CreateCountry(ctx context.Context, country *entity.DbCountry) error
	UpdateCountry(ctx context.Context, id uint, updates entity.CountryUpdates) error
	GetCountry(ctx context.Context, id uint) (*entity.DbCountry, error)
	ListCountries(ctx context.Context, params *entity.CountryQuery) ([]entity.DbCountry, *entity.Meta, error)
	DeleteCountry(ctx context.Context, id uint) error

	// Platforms
	CreatePlatform(ctx context.Context, platform *entity.DbPlatform) error
	UpdatePlatform(ctx context.Context, id uint, updates entity.PlatformUpdates) error
	GetPlatformByCode(ctx context.Context, code string) (*entity.DbPlatform, error)
	ListPlatforms(ctx context.Context, includeInactive bool) ([]entity.DbPlatform, error)
	DeletePlatform(ctx context.Context, id uint) error

	// Reports
	CreateReport(ctx context.Context, report *entity.DbReport) error
	UpdateReport(ctx context.Context, id uint, updates entity.ReportUpdates) error
	GetReport(ctx context.Context, id uint) (*entity.DbReport, error)
	ListReports(ctx context.Context, params *entity.ReportQuery) ([]entity.DbReport, *entity.Meta, error)
	ListReportsForExport(ctx context.Context, params *entity.ReportQuery) ([]entity.DbReport, error)
	DeleteReport(ctx context.Context, id uint) error
	SummarizeReports(ctx context.Context, params *entity.ReportSummaryQuery) ([]entity.ReportAggregate, error)
}
