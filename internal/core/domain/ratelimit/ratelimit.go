package ratelimit

import (
	"math"
	"time"

	"github.com/sfsc/platform-governance/internal/core/domain/permission"
)

// DefaultWindow is the fixed window length. Windows are aligned to minute boundaries,
// so a burst straddling a boundary can reach twice the per-window limit.
const DefaultWindow = time.Minute

// WindowBounds returns the start and reset time of the fixed window containing now.
func WindowBounds(now time.Time, size time.Duration) (start, reset time.Time) {
	start = now.Truncate(size)
	return start, start.Add(size)
}

// Result describes a single limiter decision.
type Result struct {
	Allowed   bool             `json:"allowed"`
	Remaining permission.Limit `json:"remaining"`
	Limit     permission.Limit `json:"limit"`
	ResetAt   time.Time        `json:"reset_at"`
}

// RetryAfter returns how long the caller should wait before the window resets.
func (r Result) RetryAfter(now time.Time) time.Duration {
	if d := r.ResetAt.Sub(now); d > 0 {
		return d
	}
	return 0
}

// RetryAfterSeconds returns RetryAfter rounded up to whole seconds, as used in the Retry-After header.
func (r Result) RetryAfterSeconds(now time.Time) int {
	return int(math.Ceil(r.RetryAfter(now).Seconds()))
}
