package services

import (
	"github.com/sirupsen/logrus"

	"github.com/sfsc/platform-governance/internal/core/domain/role"
	"github.com/sfsc/platform-governance/internal/core/ports"
)

// AccessControlService implements ports.AccessControlService
type AccessControlService struct {
	permissionSvc ports.PermissionService
	logger        *logrus.Logger
}

func NewAccessControlService(permissionSvc ports.PermissionService, logger *logrus.Logger) ports.AccessControlService {
	return &AccessControlService{permissionSvc: permissionSvc, logger: logger}
}

// CanTransition resolves the role names and applies the ordered transition rules.
func (a *AccessControlService) CanTransition(currentRole, newRole, actingRole string) role.TransitionResult {
	res := role.CanTransition(
		a.permissionSvc.Resolve(currentRole),
		a.permissionSvc.Resolve(newRole),
		a.permissionSvc.Resolve(actingRole),
	)
	if !res.Allowed && a.logger != nil {
		a.logger.WithFields(logrus.Fields{"current_role": currentRole, "new_role": newRole, "acting_role": actingRole, "reason": res.Reason}).Debug("role transition denied")
	}
	return res
}

// AuthorizeTransition is CanTransition expressed as a typed error for callers that branch on err.
// The reason always follows rule order; the code is ACCodePermissionDenied when the acting role
// may not touch the account at all and ACCodeInvalidTransition otherwise.
func (a *AccessControlService) AuthorizeTransition(currentRole, newRole, actingRole string) error {
	res := a.CanTransition(currentRole, newRole, actingRole)
	if res.Allowed {
		return nil
	}
	if !a.CanModify(actingRole, currentRole) {
		return ports.NewAccessControlError(ports.ACCodePermissionDenied, res.Reason)
	}
	return ports.NewAccessControlError(ports.ACCodeInvalidTransition, res.Reason)
}

// ValidateBulk checks every request independently; one denial does not affect the others.
func (a *AccessControlService) ValidateBulk(actingRole string, reqs []ports.TransitionRequest) []ports.TransitionOutcome {
	out := make([]ports.TransitionOutcome, 0, len(reqs))
	for _, req := range reqs {
		out = append(out, ports.TransitionOutcome{
			TransitionRequest: req,
			TransitionResult:  a.CanTransition(req.CurrentRole, req.NewRole, actingRole),
		})
	}
	return out
}

// CanModify reports whether the acting role may modify an account holding targetRole.
func (a *AccessControlService) CanModify(actingRole, targetRole string) bool {
	return role.CanModify(a.permissionSvc.Resolve(actingRole), a.permissionSvc.Resolve(targetRole))
}

// AssignableRoles lists the roles actingRole may grant.
func (a *AccessControlService) AssignableRoles(actingRole string) []role.Role {
	return role.AssignableRoles(a.permissionSvc.Resolve(actingRole))
}
