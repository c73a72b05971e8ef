package entity

// Role is the closed set of account categories. Permission membership is
// explicit per role (see the auth package matrix); there is no implied
// hierarchy between roles.
type Role string

const (
	RoleSuperAdmin    Role = "SUPER_ADMIN"
	RoleAdmin         Role = "ADMIN"
	RoleBranchManager Role = "BRANCH_MANAGER"
	RoleMediaBuyer    Role = "MEDIA_BUYER"
	RoleSalesAgent    Role = "SALES_AGENT"
	RoleAnalyst       Role = "ANALYST"
	RoleViewer        Role = "VIEWER"
)

// AllRoles returns every enumerated role.
func AllRoles() []Role {
	return []Role{
		RoleSuperAdmin,
		RoleAdmin,
		RoleBranchManager,
		RoleMediaBuyer,
		RoleSalesAgent,
		RoleAnalyst,
		RoleViewer,
	}
}

// IsValid reports whether the role is one of the enumerated values. Unknown
// roles are never an error at check time; they simply hold no permissions.
func (r Role) IsValid() bool {
	switch r {
	case RoleSuperAdmin, RoleAdmin, RoleBranchManager, RoleMediaBuyer,
		RoleSalesAgent, RoleAnalyst, RoleViewer:
		return true
	default:
		return false
	}
}

// Permission names a capability a handler requires to execute.
type Permission string

const (
	PermViewAnalytics   Permission = "VIEW_ANALYTICS"
	PermViewReports     Permission = "VIEW_REPORTS"
	PermManageReports   Permission = "MANAGE_REPORTS"
	PermExportReports   Permission = "EXPORT_REPORTS"
	PermManageBranches  Permission = "MANAGE_BRANCHES"
	PermManageAgents    Permission = "MANAGE_AGENTS"
	PermManageCountries Permission = "MANAGE_COUNTRIES"
	PermManagePlatforms Permission = "MANAGE_PLATFORMS"
	PermManageUsers     Permission = "MANAGE_USERS"
	PermViewAuditLog    Permission = "VIEW_AUDIT_LOG"
)

// AllPermissions returns every enumerated permission.
func AllPermissions() []Permission {
	return []Permission{
		PermViewAnalytics,
		PermViewReports,
		PermManageReports,
		PermExportReports,
		PermManageBranches,
		PermManageAgents,
		PermManageCountries,
		PermManagePlatforms,
		PermManageUsers,
		PermViewAuditLog,
	}
}
