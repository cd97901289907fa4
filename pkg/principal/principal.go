package principal

import "github.com/google/uuid"

// Role is the platform-wide role an authenticated caller holds. Roles are
// closed: tokens carrying anything outside this set are rejected at the edge.
type Role string

const (
	RoleViewer        Role = "viewer"
	RoleAuditor       Role = "auditor"
	RoleHSEManager    Role = "hse_manager"
	RoleOrgAdmin      Role = "org_admin"
	RolePlatformAdmin Role = "platform_admin"
)

// Valid reports whether the role belongs to the closed set.
func (r Role) Valid() bool {
	switch r {
	case RoleViewer, RoleAuditor, RoleHSEManager, RoleOrgAdmin, RolePlatformAdmin:
		return true
	}
	return false
}

// Elevated reports whether the role may cross organization boundaries.
// Only platform staff qualify; every organization-level role, including
// org_admin, stays inside its own organization.
func (r Role) Elevated() bool {
	return r == RolePlatformAdmin
}

// Principal is an authenticated caller as established by token verification.
// TenantID is the organization membership claim; it is nil for platform staff
// who are not bound to a single organization.
type Principal struct {
	ID       uuid.UUID
	Role     Role
	TenantID *uuid.UUID
}

// Elevated reports whether the principal may use the operator surface.
func (p Principal) Elevated() bool {
	return p.Role.Elevated()
}

// MemberOf reports whether the principal's membership claim names the given
// organization. Elevated principals are not implicit members of anything.
func (p Principal) MemberOf(tenantID uuid.UUID) bool {
	return p.TenantID != nil && *p.TenantID == tenantID
}
