package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/sfsc/platform-governance/internal/core/ports"
)

// Sweeper periodically removes expired rate limit windows.
type Sweeper struct {
	limiter  ports.RateLimiterService
	interval time.Duration
	logger   *logrus.Logger
}

func NewSweeper(limiter ports.RateLimiterService, interval time.Duration, logger *logrus.Logger) *Sweeper {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Sweeper{limiter: limiter, interval: interval, logger: logger}
}

// RunOnce performs a single sweep.
func (s *Sweeper) RunOnce(ctx context.Context) (int, error) {
	removed, err := s.limiter.Sweep(ctx)
	if err != nil {
		if s.logger != nil {
			s.logger.WithError(err).Warn("sweeper: rate limit sweep failed")
		}
		return removed, err
	}
	return removed, nil
}

// Run schedules sweeps until ctx is cancelled, then waits for a running sweep to finish.
func (s *Sweeper) Run(ctx context.Context) error {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := c.AddFunc(fmt.Sprintf("@every %s", s.interval), func() {
		_, _ = s.RunOnce(ctx)
	}); err != nil {
		return fmt.Errorf("sweeper: schedule: %w", err)
	}
	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"interval": s.interval.String()}).Info("rate limit sweeper started")
	}
	c.Start()
	<-ctx.Done()
	<-c.Stop().Done()
	if s.logger != nil {
		s.logger.Info("rate limit sweeper stopped")
	}
	return nil
}
