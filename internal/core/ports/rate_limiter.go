package ports

import (
	"context"
	"time"

	"github.com/sfsc/platform-governance/internal/core/domain/ratelimit"
)

// RateLimitStore provides low-level atomic operations for fixed-window counters.
// It abstracts storage (in-process map, Redis). Implementations must be safe for
// concurrent use and must serialize increments of the same window.
type RateLimitStore interface {
	// Increment atomically increments the counter of principalID in the window starting at
	// windowStart, creating it if needed. The window becomes removable after resetAt.
	// Returns the updated count.
	Increment(ctx context.Context, principalID string, windowStart, resetAt time.Time) (int, error)
	// Reset discards every window of principalID.
	Reset(ctx context.Context, principalID string) error
	// Sweep removes windows whose reset time is before now and reports how many were removed.
	Sweep(ctx context.Context, now time.Time) (int, error)
}

// RateLimiterService defines a principal-scoped, role-aware rate limiting capability.
// Implementations MUST be safe for concurrent use.
type RateLimiterService interface {
	// CheckLimit consumes one request unit for principalID under the quota of roleName.
	// A denial is reported through Result.Allowed, never as an error. Errors are storage
	// failures only; in that case the returned result fails open.
	CheckLimit(ctx context.Context, principalID string, roleName string) (ratelimit.Result, error)
	// Reset discards every window of principalID (administrative override).
	Reset(ctx context.Context, principalID string) error
	// Sweep removes expired windows from the store.
	Sweep(ctx context.Context) (int, error)
}
