package memory

import (
	"context"
	"time"

	"github.com/puzpuzpuz/xsync/v3"
)

type windowKey struct {
	principalID string
	start       int64
}

type windowEntry struct {
	count   int
	resetAt time.Time
}

// RateLimitStore keeps fixed-window counters in process memory. Counters are
// lost on restart and are not shared between processes.
type RateLimitStore struct {
	windows *xsync.MapOf[windowKey, windowEntry]
}

func NewRateLimitStore() *RateLimitStore {
	return &RateLimitStore{windows: xsync.NewMapOf[windowKey, windowEntry]()}
}

func (s *RateLimitStore) Increment(_ context.Context, principalID string, windowStart, resetAt time.Time) (int, error) {
	key := windowKey{principalID: principalID, start: windowStart.UnixNano()}
	entry, _ := s.windows.Compute(key, func(old windowEntry, loaded bool) (windowEntry, bool) {
		if !loaded {
			return windowEntry{count: 1, resetAt: resetAt}, false
		}
		old.count++
		return old, false
	})
	return entry.count, nil
}

func (s *RateLimitStore) Reset(_ context.Context, principalID string) error {
	s.windows.Range(func(k windowKey, _ windowEntry) bool {
		if k.principalID == principalID {
			s.windows.Delete(k)
		}
		return true
	})
	return nil
}

// Sweep drops windows whose reset time has passed. A window is re-checked under
// its bucket lock before deletion so a concurrent increment is never lost.
func (s *RateLimitStore) Sweep(_ context.Context, now time.Time) (int, error) {
	var expired []windowKey
	s.windows.Range(func(k windowKey, v windowEntry) bool {
		if v.resetAt.Before(now) {
			expired = append(expired, k)
		}
		return true
	})
	removed := 0
	for _, k := range expired {
		s.windows.Compute(k, func(old windowEntry, loaded bool) (windowEntry, bool) {
			if loaded && old.resetAt.Before(now) {
				removed++
				return old, true
			}
			return old, !loaded
		})
	}
	return removed, nil
}

// Len reports the number of live windows.
func (s *RateLimitStore) Len() int { return s.windows.Size() }
