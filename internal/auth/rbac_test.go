package auth

import (
	"testing"

	"atlas/internal/entity"
)

func TestNewMatrixCoversEveryRole(t *testing.T) {
	m, err := NewMatrix()
	if err != nil {
		t.Fatalf("unexpected error building matrix: %v", err)
	}
	for _, role := range entity.AllRoles() {
		// Every role must resolve to an explicit set, even an empty one.
		if m.PermissionsFor(role) == nil {
			t.Fatalf("role %s has no permission entry", role)
		}
	}
}

func TestNewMatrixRejectsMissingRoleEntry(t *testing.T) {
	grants := defaultGrants()
	delete(grants, entity.RoleViewer)

	if _, err := newMatrix(grants); err == nil {
		t.Fatal("expected error for missing role entry")
	}
}

func TestNewMatrixRejectsUnknownPermission(t *testing.T) {
	grants := defaultGrants()
	grants[entity.RoleViewer] = append(grants[entity.RoleViewer], entity.Permission("LAUNCH_ROCKETS"))

	if _, err := newMatrix(grants); err == nil {
		t.Fatal("expected error for unknown permission")
	}
}

func TestHasPermission(t *testing.T) {
	m, err := NewMatrix()
	if err != nil {
		t.Fatalf("unexpected error building matrix: %v", err)
	}

	tests := []struct {
		name string
		role entity.Role
		perm entity.Permission
		want bool
	}{
		{"super admin manages branches", entity.RoleSuperAdmin, entity.PermManageBranches, true},
		{"admin views analytics", entity.RoleAdmin, entity.PermViewAnalytics, true},
		{"admin cannot manage branches", entity.RoleAdmin, entity.PermManageBranches, false},
		{"branch manager manages agents", entity.RoleBranchManager, entity.PermManageAgents, true},
		{"media buyer manages reports", entity.RoleMediaBuyer, entity.PermManageReports, true},
		{"sales agent cannot export", entity.RoleSalesAgent, entity.PermExportReports, false},
		{"viewer views reports", entity.RoleViewer, entity.PermViewReports, true},
		{"viewer cannot manage users", entity.RoleViewer, entity.PermManageUsers, false},
		{"unknown role holds nothing", entity.Role("INTERN"), entity.PermViewReports, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := m.HasPermission(tt.role, tt.perm); got != tt.want {
				t.Fatalf("HasPermission(%s, %s) = %v, want %v", tt.role, tt.perm, got, tt.want)
			}
		})
	}
}

func TestHasPermissionIsDeterministic(t *testing.T) {
	m, err := NewMatrix()
	if err != nil {
		t.Fatalf("unexpected error building matrix: %v", err)
	}

	first := m.HasPermission(entity.RoleAnalyst, entity.PermExportReports)
	for i := 0; i < 100; i++ {
		if m.HasPermission(entity.RoleAnalyst, entity.PermExportReports) != first {
			t.Fatal("expected identical results for repeated lookups")
		}
	}
}

func TestPermissionsForUnknownRoleIsEmpty(t *testing.T) {
	m, err := NewMatrix()
	if err != nil {
		t.Fatalf("unexpected error building matrix: %v", err)
	}
	if perms := m.PermissionsFor(entity.Role("GHOST")); len(perms) != 0 {
		t.Fatalf("expected empty set, got %v", perms)
	}
}
