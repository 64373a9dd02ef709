package memory

import (
	"context"
	"fmt"
	"math"

	"github.com/puzpuzpuz/xsync/v3"

	"github.com/sfsc/platform-governance/internal/core/domain/sequence"
)

// SequenceStore keeps partition counters in process memory. Suitable for tests and
// single-process deployments only.
type SequenceStore struct {
	counters *xsync.MapOf[string, int64]
}

func NewSequenceStore() *SequenceStore {
	return &SequenceStore{counters: xsync.NewMapOf[string, int64]()}
}

func (s *SequenceStore) Increment(_ context.Context, partition string, floor int64) (int64, error) {
	var exhausted bool
	v, _ := s.counters.Compute(partition, func(old int64, loaded bool) (int64, bool) {
		if !loaded {
			old = floor
		}
		if old == math.MaxInt64 {
			exhausted = true
			return old, false
		}
		return old + 1, false
	})
	if exhausted {
		return 0, fmt.Errorf("%w: %s", sequence.ErrExhausted, partition)
	}
	return v, nil
}

func (s *SequenceStore) Current(_ context.Context, partition string) (int64, bool, error) {
	v, ok := s.counters.Load(partition)
	return v, ok, nil
}

func (s *SequenceStore) Set(_ context.Context, partition string, value int64) error {
	s.counters.Store(partition, value)
	return nil
}
