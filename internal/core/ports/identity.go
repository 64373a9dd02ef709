package ports

import (
	"context"
	"time"

	"github.com/sfsc/platform-governance/internal/core/domain/identity"
)

// IdentityProvider resolves bearer tokens issued by the session collaborator into principals.
type IdentityProvider interface {
	Authenticate(ctx context.Context, token string) (identity.Principal, error)
	IssueToken(p identity.Principal, ttl time.Duration) (string, error)
}
