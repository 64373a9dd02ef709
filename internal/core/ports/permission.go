package ports

import (
	"github.com/sfsc/platform-governance/internal/core/domain/permission"
	"github.com/sfsc/platform-governance/internal/core/domain/role"
)

// PermissionService resolves capabilities and quotas for role names. Unknown names
// never fail: they resolve to the lowest role.
type PermissionService interface {
	Resolve(roleName string) role.Role
	PowerLevelOf(roleName string) int
	PermissionsOf(roleName string) permission.Set
	QuotaOf(roleName string) permission.Quota
	IsHigher(a, b string) bool
	IsHigherOrEqual(a, b string) bool

	HasCapability(roleName string, c permission.Capability) bool
	HasAnyCapability(roleName string, caps ...permission.Capability) bool
	MeetsMinimum(roleName string, minimum role.Role) bool

	Catalog() []role.Definition
}
