package services_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	impl "github.com/sfsc/platform-governance/internal/application/services"
	"github.com/sfsc/platform-governance/internal/core/domain/permission"
	"github.com/sfsc/platform-governance/internal/core/ports"
	"github.com/sfsc/platform-governance/internal/infrastructure/memory"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type metricsRecorder struct {
	allowed, denied, swept atomic.Int64
	allocations            atomic.Int64
}

func (m *metricsRecorder) ObserveLimitDecision(_ string, allowed bool) {
	if allowed {
		m.allowed.Add(1)
	} else {
		m.denied.Add(1)
	}
}
func (m *metricsRecorder) ObserveAllocation(string) { m.allocations.Add(1) }
func (m *metricsRecorder) ObserveSweep(n int)       { m.swept.Add(int64(n)) }

type failingStore struct{}

func (failingStore) Increment(context.Context, string, time.Time, time.Time) (int, error) {
	return 0, errors.New("redis down")
}
func (failingStore) Reset(context.Context, string) error           { return errors.New("redis down") }
func (failingStore) Sweep(context.Context, time.Time) (int, error) { return 0, nil }

func newLimiter(clock *fakeClock, metrics *metricsRecorder) (*impl.RateLimiterService, *memory.RateLimitStore) {
	store := memory.NewRateLimitStore()
	var m ports.GovernanceMetrics
	if metrics != nil {
		m = metrics
	}
	svc := impl.NewRateLimiterService(store, impl.NewPermissionService(nil), m, &impl.RateLimiterConfig{Now: clock.Now}, nil)
	return svc, store
}

func TestRateLimiter_GuestQuotaWithinOneWindow(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 5, 1, 12, 0, 10, 0, time.UTC)}
	rec := &metricsRecorder{}
	svc, _ := newLimiter(clock, rec)
	ctx := context.Background()

	for i := 1; i <= 10; i++ {
		res, err := svc.CheckLimit(ctx, "anon:10.0.0.1", "guest")
		require.NoError(t, err)
		assert.True(t, res.Allowed, "request %d", i)
		assert.Equal(t, permission.Limit(10-i), res.Remaining)
		assert.Equal(t, permission.Limit(10), res.Limit)
		assert.Equal(t, time.Date(2026, 5, 1, 12, 1, 0, 0, time.UTC), res.ResetAt)
	}

	res, err := svc.CheckLimit(ctx, "anon:10.0.0.1", "guest")
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Equal(t, permission.Limit(0), res.Remaining)
	assert.Equal(t, 50, res.RetryAfterSeconds(clock.Now()))
	assert.Equal(t, int64(10), rec.allowed.Load())
	assert.Equal(t, int64(1), rec.denied.Load())
}

func TestRateLimiter_NewWindowResetsCount(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 5, 1, 12, 0, 59, 0, time.UTC)}
	svc, _ := newLimiter(clock, nil)
	ctx := context.Background()

	for i := 0; i < 11; i++ {
		_, _ = svc.CheckLimit(ctx, "u1", "guest")
	}
	res, _ := svc.CheckLimit(ctx, "u1", "guest")
	assert.False(t, res.Allowed)

	clock.Advance(time.Second)
	res, err := svc.CheckLimit(ctx, "u1", "guest")
	require.NoError(t, err)
	assert.True(t, res.Allowed)
	assert.Equal(t, permission.Limit(9), res.Remaining)
}

func TestRateLimiter_UnlimitedRoleNeverDenied(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)}
	svc, store := newLimiter(clock, nil)

	for i := 0; i < 1000; i++ {
		res, err := svc.CheckLimit(context.Background(), "root", "sadmin")
		require.NoError(t, err)
		require.True(t, res.Allowed)
		assert.True(t, res.Remaining.IsUnlimited())
	}
	assert.Zero(t, store.Len(), "unlimited roles keep no counters")
}

func TestRateLimiter_UnknownRoleUsesLowestQuota(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)}
	svc, _ := newLimiter(clock, nil)

	res, err := svc.CheckLimit(context.Background(), "u1", "emperor")
	require.NoError(t, err)
	assert.Equal(t, permission.Limit(10), res.Limit)
}

func TestRateLimiter_PrincipalsAreIsolated(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)}
	svc, _ := newLimiter(clock, nil)
	ctx := context.Background()

	for i := 0; i < 20; i++ {
		_, _ = svc.CheckLimit(ctx, "a", "guest")
	}
	res, _ := svc.CheckLimit(ctx, "b", "guest")
	assert.True(t, res.Allowed)
	assert.Equal(t, permission.Limit(9), res.Remaining)
}

func TestRateLimiter_ConcurrentRequestsNeverExceedLimit(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)}
	svc, _ := newLimiter(clock, nil)

	var allowed atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := svc.CheckLimit(context.Background(), "hot", "member")
			if err == nil && res.Allowed {
				allowed.Add(1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int64(60), allowed.Load())
}

func TestRateLimiter_StoreFailureFailsOpen(t *testing.T) {
	svc := impl.NewRateLimiterService(failingStore{}, impl.NewPermissionService(nil), nil, nil, nil)

	res, err := svc.CheckLimit(context.Background(), "u1", "member")
	assert.Error(t, err)
	assert.True(t, res.Allowed)
	assert.Equal(t, permission.Limit(60), res.Remaining)

	assert.Error(t, svc.Reset(context.Background(), "u1"))
}

func TestRateLimiter_ResetAndSweep(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)}
	rec := &metricsRecorder{}
	svc, store := newLimiter(clock, rec)
	ctx := context.Background()

	for i := 0; i < 11; i++ {
		_, _ = svc.CheckLimit(ctx, "u1", "guest")
	}
	require.NoError(t, svc.Reset(ctx, "u1"))
	res, _ := svc.CheckLimit(ctx, "u1", "guest")
	assert.True(t, res.Allowed)

	_, _ = svc.CheckLimit(ctx, "u2", "guest")
	clock.Advance(2 * time.Minute)
	removed, err := svc.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)
	assert.Zero(t, store.Len())
	assert.Equal(t, int64(2), rec.swept.Load())
}

func TestRateLimiter_WindowIsOneMinute(t *testing.T) {
	svc, _ := newLimiter(&fakeClock{now: time.Now()}, nil)
	assert.Equal(t, time.Minute, svc.Window())
}
