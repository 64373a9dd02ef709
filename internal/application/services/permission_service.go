package services

import (
	"github.com/sirupsen/logrus"

	"github.com/sfsc/platform-governance/internal/core/domain/permission"
	"github.com/sfsc/platform-governance/internal/core/domain/role"
	"github.com/sfsc/platform-governance/internal/core/ports"
)

// PermissionService is the permission matrix over the static role catalog.
// It holds no mutable state and is safe for any number of concurrent callers.
type PermissionService struct {
	logger *logrus.Logger
}

func NewPermissionService(logger *logrus.Logger) ports.PermissionService {
	return &PermissionService{logger: logger}
}

// Resolve maps a role name to its catalog role; unknown names degrade to the lowest role.
func (s *PermissionService) Resolve(roleName string) role.Role {
	r, ok := role.Parse(roleName)
	if !ok {
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"role": roleName, "fallback": role.Lowest().String()}).Debug("unknown role; degrading to lowest privilege")
		}
		return role.Lowest()
	}
	return r
}

func (s *PermissionService) PowerLevelOf(roleName string) int {
	return s.Resolve(roleName).PowerLevel()
}

func (s *PermissionService) PermissionsOf(roleName string) permission.Set {
	return s.Resolve(roleName).Permissions()
}

func (s *PermissionService) QuotaOf(roleName string) permission.Quota {
	return s.Resolve(roleName).Quota()
}

func (s *PermissionService) IsHigher(a, b string) bool {
	return role.IsHigher(s.Resolve(a), s.Resolve(b))
}

func (s *PermissionService) IsHigherOrEqual(a, b string) bool {
	return role.IsHigherOrEqual(s.Resolve(a), s.Resolve(b))
}

// HasCapability checks a single capability flag of a role
func (s *PermissionService) HasCapability(roleName string, c permission.Capability) bool {
	return s.PermissionsOf(roleName).Has(c)
}

// HasAnyCapability checks if the role holds any of the given capabilities
func (s *PermissionService) HasAnyCapability(roleName string, caps ...permission.Capability) bool {
	set := s.PermissionsOf(roleName)
	for _, c := range caps {
		if set.Has(c) {
			return true
		}
	}
	return false
}

// MeetsMinimum checks that the role's power level is at least that of minimum
func (s *PermissionService) MeetsMinimum(roleName string, minimum role.Role) bool {
	return role.IsHigherOrEqual(s.Resolve(roleName), minimum)
}

// Catalog returns every role definition from lowest to highest power
func (s *PermissionService) Catalog() []role.Definition {
	return role.Definitions()
}
