package auth

import (
	"fmt"
	"sort"

	"atlas/internal/entity"
)

// Matrix is the static role to permission-set table. It is built once at
// process start and read-only afterwards, so concurrent lookups need no
// locking. Handlers must route every role check through it instead of
// comparing role strings.
type Matrix struct {
	grants map[entity.Role]map[entity.Permission]struct{}
}

// defaultGrants enumerates the permission set of every role. Membership is
// explicit: a role gets exactly what is listed here, nothing is inferred
// from rank.
func defaultGrants() map[entity.Role][]entity.Permission {
	return map[entity.Role][]entity.Permission{
		entity.RoleSuperAdmin: entity.AllPermissions(),
		// Branch topology stays with the super admin.
		entity.RoleAdmin: {
			entity.PermViewAnalytics,
			entity.PermViewReports,
			entity.PermManageReports,
			entity.PermExportReports,
			entity.PermManageAgents,
			entity.PermManageCountries,
			entity.PermManagePlatforms,
			entity.PermManageUsers,
			entity.PermViewAuditLog,
		},
		entity.RoleBranchManager: {
			entity.PermViewAnalytics,
			entity.PermViewReports,
			entity.PermManageReports,
			entity.PermExportReports,
			entity.PermManageAgents,
		},
		entity.RoleMediaBuyer: {
			entity.PermViewAnalytics,
			entity.PermViewReports,
			entity.PermManageReports,
		},
		entity.RoleAnalyst: {
			entity.PermViewAnalytics,
			entity.PermViewReports,
			entity.PermExportReports,
		},
		entity.RoleSalesAgent: {
			entity.PermViewReports,
		},
		entity.RoleViewer: {
			entity.PermViewAnalytics,
			entity.PermViewReports,
		},
	}
}

// NewMatrix builds the process-wide permission matrix.
func NewMatrix() (*Matrix, error) {
	return newMatrix(defaultGrants())
}

// newMatrix validates the grant table: every enumerated role must have an
// explicit (possibly empty) entry and every granted permission must be a
// known one. A missing role entry is a configuration defect, not an
// implicit empty set.
func newMatrix(grants map[entity.Role][]entity.Permission) (*Matrix, error) {
	known := make(map[entity.Permission]struct{}, len(entity.AllPermissions()))
	for _, perm := range entity.AllPermissions() {
		known[perm] = struct{}{}
	}

	built := make(map[entity.Role]map[entity.Permission]struct{}, len(grants))
	for role, perms := range grants {
		if !role.IsValid() {
			return nil, fmt.Errorf("rbac: grants for unknown role %q", role)
		}
		set := make(map[entity.Permission]struct{}, len(perms))
		for _, perm := range perms {
			if _, ok := known[perm]; !ok {
				return nil, fmt.Errorf("rbac: unknown permission %q granted to role %q", perm, role)
			}
			set[perm] = struct{}{}
		}
		built[role] = set
	}

	for _, role := range entity.AllRoles() {
		if _, ok := built[role]; !ok {
			return nil, fmt.Errorf("rbac: role %q has no permission entry", role)
		}
	}

	return &Matrix{grants: built}, nil
}

// HasPermission reports whether the role holds the permission. Unknown
// roles hold nothing (fail closed).
func (m *Matrix) HasPermission(role entity.Role, perm entity.Permission) bool {
	if m == nil {
		return false
	}
	set, ok := m.grants[role]
	if !ok {
		return false
	}
	_, ok = set[perm]
	return ok
}

// PermissionsFor returns the role's permission set in stable order. Unknown
// roles yield an empty set.
func (m *Matrix) PermissionsFor(role entity.Role) []entity.Permission {
	if m == nil {
		return []entity.Permission{}
	}
	set, ok := m.grants[role]
	if !ok {
		return []entity.Permission{}
	}
	perms := make([]entity.Permission, 0, len(set))
	for perm := range set {
		perms = append(perms, perm)
	}
	sort.Slice(perms, func(i, j int) bool { return perms[i] < perms[j] })
	return perms
}
