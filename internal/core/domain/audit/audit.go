package audit

import (
	"time"

	"github.com/google/uuid"
)

type AuditLog struct {
	ID         uuid.UUID `json:"id" db:"id"`
	ActorID    string    `json:"actor_id" db:"actor_id"`
	ActorRole  string    `json:"actor_role" db:"actor_role"`
	Action     string    `json:"action" db:"action"`
	Resource   string    `json:"resource" db:"resource"`
	ResourceID string    `json:"resource_id" db:"resource_id"`
	Details    any       `json:"details" db:"details"`
	IPAddress  string    `json:"ip_address" db:"ip_address"`
	UserAgent  string    `json:"user_agent" db:"user_agent"`
	Timestamp  time.Time `json:"timestamp" db:"timestamp"`
}

type AuditAction string

const (
	ActionRoleTransition AuditAction = "role_transition"
	ActionRateLimitReset AuditAction = "rate_limit_reset"
	ActionSequenceReset  AuditAction = "sequence_reset"
	ActionCodeAllocated  AuditAction = "code_allocated"
)

type AuditResource string

const (
	ResourceRole      AuditResource = "role"
	ResourceRateLimit AuditResource = "rate_limit"
	ResourceSequence  AuditResource = "sequence"
)

// CreateAuditLogRequest represents the request to create an audit log entry
type CreateAuditLogRequest struct {
	ActorID    string        `json:"actor_id"`
	ActorRole  string        `json:"actor_role"`
	Action     AuditAction   `json:"action"`
	Resource   AuditResource `json:"resource"`
	ResourceID string        `json:"resource_id,omitempty"`
	Details    any           `json:"details,omitempty"`
	IPAddress  string        `json:"ip_address"`
	UserAgent  string        `json:"user_agent"`
}

// AuditLogFilter represents filters for querying audit logs
type AuditLogFilter struct {
	ActorID    *string        `json:"actor_id,omitempty" query:"actor_id"`
	Action     *AuditAction   `json:"action,omitempty" query:"action"`
	Resource   *AuditResource `json:"resource,omitempty" query:"resource"`
	ResourceID *string        `json:"resource_id,omitempty" query:"resource_id"`
	StartTime  *time.Time     `json:"start_time,omitempty" query:"start_time"`
	EndTime    *time.Time     `json:"end_time,omitempty" query:"end_time"`
	Limit      int            `json:"limit" query:"limit"`
	Offset     int            `json:"offset" query:"offset"`
}
