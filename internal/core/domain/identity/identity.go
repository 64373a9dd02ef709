package identity

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"

	"github.com/sfsc/platform-governance/internal/core/domain/role"
)

var (
	ErrMissingToken = errors.New("missing bearer token")
	ErrInvalidToken = errors.New("invalid token")
)

// Principal is the acting user or session checked by the governance core.
type Principal struct {
	ID        string    `json:"id"`
	Role      role.Role `json:"role"`
	Anonymous bool      `json:"anonymous"`
}

// AnonymousPrincipal identifies an unauthenticated caller by network address.
// Anonymous callers always hold the lowest role.
func AnonymousPrincipal(remoteAddr string) Principal {
	return Principal{ID: "anon:" + remoteAddr, Role: role.Lowest(), Anonymous: true}
}

// Claims are the JWT claims issued by the session provider. Role is kept as a raw
// string so stale or unknown names degrade instead of failing token parsing.
type Claims struct {
	Role string `json:"role"`

	jwt.RegisteredClaims
}

// Principal resolves the claims into a Principal.
func (c *Claims) Principal() Principal {
	return Principal{ID: c.Subject, Role: role.ParseOrLowest(c.Role)}
}
