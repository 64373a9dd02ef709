package services

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sfsc/platform-governance/internal/core/domain/permission"
	"github.com/sfsc/platform-governance/internal/core/domain/ratelimit"
	"github.com/sfsc/platform-governance/internal/core/ports"
)

// RateLimiterService implements a fixed-window limiter whose quota comes from the caller's role.
type RateLimiterService struct {
	store   ports.RateLimitStore
	perms   ports.PermissionService
	metrics ports.GovernanceMetrics
	window  time.Duration
	now     func() time.Time
	logger  *logrus.Logger
}

// RateLimiterConfig groups configuration parameters for the rate limiter.
type RateLimiterConfig struct {
	// Now overrides the clock; tests use it to cross window boundaries.
	Now func() time.Time
}

func NewRateLimiterService(store ports.RateLimitStore, perms ports.PermissionService, metrics ports.GovernanceMetrics, cfg *RateLimiterConfig, logger *logrus.Logger) *RateLimiterService {
	now := time.Now
	if cfg != nil && cfg.Now != nil {
		now = cfg.Now
	}
	return &RateLimiterService{store: store, perms: perms, metrics: metrics, window: ratelimit.DefaultWindow, now: now, logger: logger}
}

// Window returns the fixed window length.
func (s *RateLimiterService) Window() time.Duration { return s.window }

func (s *RateLimiterService) CheckLimit(ctx context.Context, principalID string, roleName string) (ratelimit.Result, error) {
	now := s.now()
	limit := s.perms.QuotaOf(roleName).RequestsPerMinute
	if limit.IsUnlimited() {
		s.observe(roleName, true)
		return ratelimit.Result{Allowed: true, Remaining: permission.Unlimited, Limit: permission.Unlimited, ResetAt: now.Add(s.window)}, nil
	}

	start, reset := ratelimit.WindowBounds(now, s.window)
	count, err := s.store.Increment(ctx, principalID, start, reset)
	if err != nil {
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"principal_id": principalID, "role": roleName}).WithError(err).Error("rate limiter: failed to increment window")
		}
		// fail open
		return ratelimit.Result{Allowed: true, Remaining: limit, Limit: limit, ResetAt: reset}, fmt.Errorf("rate limiter: increment window: %w", err)
	}

	remaining := limit - permission.Limit(count)
	if remaining < 0 {
		remaining = 0
	}
	allowed := count <= int(limit)
	s.observe(roleName, allowed)
	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"principal_id": principalID, "role": roleName, "count": count, "limit": int(limit), "allowed": allowed}).Debug("rate limiter window state")
	}
	return ratelimit.Result{Allowed: allowed, Remaining: remaining, Limit: limit, ResetAt: reset}, nil
}

func (s *RateLimiterService) Reset(ctx context.Context, principalID string) error {
	if err := s.store.Reset(ctx, principalID); err != nil {
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"principal_id": principalID}).WithError(err).Error("rate limiter: failed to reset windows")
		}
		return fmt.Errorf("rate limiter: reset %s: %w", principalID, err)
	}
	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"principal_id": principalID}).Warn("rate limiter windows reset")
	}
	return nil
}

func (s *RateLimiterService) Sweep(ctx context.Context) (int, error) {
	removed, err := s.store.Sweep(ctx, s.now())
	if err != nil {
		return removed, fmt.Errorf("rate limiter: sweep: %w", err)
	}
	if s.metrics != nil {
		s.metrics.ObserveSweep(removed)
	}
	if s.logger != nil && removed > 0 {
		s.logger.WithFields(logrus.Fields{"removed": removed}).Debug("rate limiter swept expired windows")
	}
	return removed, nil
}

func (s *RateLimiterService) observe(roleName string, allowed bool) {
	if s.metrics != nil {
		s.metrics.ObserveLimitDecision(s.perms.Resolve(roleName).String(), allowed)
	}
}
