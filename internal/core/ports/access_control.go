package ports

import (
	"github.com/sfsc/platform-governance/internal/core/domain/role"
)

// TransitionRequest is a single role change to validate.
type TransitionRequest struct {
	PrincipalID string `json:"principal_id"`
	CurrentRole string `json:"current_role" validate:"required"`
	NewRole     string `json:"new_role" validate:"required"`
}

// TransitionOutcome pairs a request with its decision.
type TransitionOutcome struct {
	TransitionRequest
	role.TransitionResult
}

// AccessControlService defines role governance checks. Every method is pure with
// respect to its inputs; refusals are returned as data.
type AccessControlService interface {
	CanTransition(currentRole, newRole, actingRole string) role.TransitionResult
	// AuthorizeTransition returns nil if allowed, or an AccessControlError carrying the reason.
	AuthorizeTransition(currentRole, newRole, actingRole string) error
	ValidateBulk(actingRole string, reqs []TransitionRequest) []TransitionOutcome
	CanModify(actingRole, targetRole string) bool
	AssignableRoles(actingRole string) []role.Role
}

// AccessControlError represents a typed error returned by access control checks.
// It is defined here so infrastructure can depend on the error contract without
// importing application-level implementations.
type AccessControlError interface {
	error
	Code() int
	Message() string
}

// Concrete implementation returned by NewAccessControlError.
type accessControlError struct {
	code    int
	message string
}

func (e *accessControlError) Error() string   { return e.message }
func (e *accessControlError) Code() int       { return e.code }
func (e *accessControlError) Message() string { return e.message }

const (
	ACCodePermissionDenied  = 1
	ACCodeInvalidTransition = 2
)

// NewAccessControlError constructs a typed AccessControlError that implementations
// in the application layer can return and infrastructure can inspect.
func NewAccessControlError(code int, message string) AccessControlError {
	return &accessControlError{code: code, message: message}
}
