package services

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/sfsc/platform-governance/internal/core/domain/audit"
	"github.com/sfsc/platform-governance/internal/core/domain/sequence"
	"github.com/sfsc/platform-governance/internal/core/ports"
)

// SequenceService allocates publishing codes from a partitioned counter store.
type SequenceService struct {
	store    ports.SequenceStore
	auditSvc ports.AuditService
	metrics  ports.GovernanceMetrics
	format   sequence.Format
	floor    int64
	logger   *logrus.Logger
}

// SequenceConfig groups configuration parameters for code allocation.
type SequenceConfig struct {
	Prefix    string
	SubPrefix string
	Width     int
	// Floor is the stored value of a fresh partition; nil keeps sequence.DefaultFloor.
	Floor *int64
}

func NewSequenceService(store ports.SequenceStore, auditSvc ports.AuditService, metrics ports.GovernanceMetrics, cfg *SequenceConfig, logger *logrus.Logger) *SequenceService {
	f := sequence.DefaultFormat()
	floor := sequence.DefaultFloor
	if cfg != nil {
		if cfg.Prefix != "" {
			f.Prefix = cfg.Prefix
		}
		if cfg.SubPrefix != "" {
			f.SubPrefix = cfg.SubPrefix
		}
		if cfg.Width > 0 {
			f.Width = cfg.Width
		}
		if cfg.Floor != nil && *cfg.Floor >= 0 {
			floor = *cfg.Floor
		}
	}
	return &SequenceService{store: store, auditSvc: auditSvc, metrics: metrics, format: f, floor: floor, logger: logger}
}

func (s *SequenceService) AllocateNext(ctx context.Context, partition string) (int64, error) {
	if err := sequence.ValidatePartition(partition); err != nil {
		return 0, err
	}
	v, err := s.store.Increment(ctx, partition, s.floor)
	if err != nil {
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"partition": partition}).WithError(err).Error("sequence: failed to allocate")
		}
		return 0, fmt.Errorf("sequence: allocate %s: %w", partition, err)
	}
	if s.metrics != nil {
		s.metrics.ObserveAllocation(partition)
	}
	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"partition": partition, "sequence": v}).Debug("sequence allocated")
	}
	return v, nil
}

func (s *SequenceService) PeekNext(ctx context.Context, partition string) (int64, error) {
	if err := sequence.ValidatePartition(partition); err != nil {
		return 0, err
	}
	v, found, err := s.store.Current(ctx, partition)
	if err != nil {
		return 0, fmt.Errorf("sequence: peek %s: %w", partition, err)
	}
	if !found {
		v = s.floor
	}
	if v > sequence.MaxValue {
		return 0, fmt.Errorf("%w: %s", sequence.ErrExhausted, partition)
	}
	return v + 1, nil
}

func (s *SequenceService) ResetSequence(ctx context.Context, partition string, value int64, actorID string) error {
	if err := sequence.ValidatePartition(partition); err != nil {
		return err
	}
	if value < 0 || value > sequence.MaxValue {
		return fmt.Errorf("%w: %d", sequence.ErrInvalidValue, value)
	}
	previous, found, err := s.store.Current(ctx, partition)
	if err != nil {
		return fmt.Errorf("sequence: reset %s: %w", partition, err)
	}
	if err := s.store.Set(ctx, partition, value); err != nil {
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"partition": partition, "value": value}).WithError(err).Error("sequence: failed to reset")
		}
		return fmt.Errorf("sequence: reset %s: %w", partition, err)
	}
	details := map[string]any{"value": value}
	if found {
		details["previous"] = previous
	}
	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"partition": partition, "value": value, "previous": details["previous"], "actor_id": actorID}).Warn("sequence reset by operator")
	}
	if s.auditSvc != nil {
		err := s.auditSvc.LogAction(ctx, &audit.CreateAuditLogRequest{
			ActorID:    actorID,
			Action:     audit.ActionSequenceReset,
			Resource:   audit.ResourceSequence,
			ResourceID: partition,
			Details:    details,
		})
		if err != nil && s.logger != nil {
			s.logger.WithFields(logrus.Fields{"partition": partition}).WithError(err).Error("sequence: failed to audit reset")
		}
	}
	return nil
}

func (s *SequenceService) AllocateCode(ctx context.Context, year string) (string, int64, error) {
	if err := sequence.ValidateYear(year); err != nil {
		return "", 0, err
	}
	v, err := s.AllocateNext(ctx, year)
	if err != nil {
		return "", 0, err
	}
	return s.FormatCode(year, v), v, nil
}

func (s *SequenceService) FormatCode(partition string, seq int64) string {
	return s.format.Code(partition, seq)
}

func (s *SequenceService) ParseCode(code string) (string, int64, error) {
	return s.format.Parse(code)
}
