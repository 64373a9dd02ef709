package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sfsc/platform-governance/internal/core/domain/audit"
)

// AuditRepository keeps audit entries in memory for deployments without Postgres.
type AuditRepository struct {
	mu   sync.RWMutex
	logs []*audit.AuditLog
}

func NewAuditRepository() *AuditRepository {
	return &AuditRepository{}
}

func (r *AuditRepository) Create(_ context.Context, log *audit.AuditLog) error {
	if log.ID == uuid.Nil {
		log.ID = uuid.New()
	}
	if log.Timestamp.IsZero() {
		log.Timestamp = time.Now().UTC()
	}
	cp := *log
	r.mu.Lock()
	r.logs = append(r.logs, &cp)
	r.mu.Unlock()
	return nil
}

func (r *AuditRepository) List(_ context.Context, filter *audit.AuditLogFilter) ([]*audit.AuditLog, error) {
	out := r.matching(filter)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	if filter == nil {
		return out, nil
	}
	if filter.Offset > 0 {
		if filter.Offset >= len(out) {
			return nil, nil
		}
		out = out[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(out) {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (r *AuditRepository) Count(_ context.Context, filter *audit.AuditLogFilter) (int, error) {
	return len(r.matching(filter)), nil
}

func (r *AuditRepository) matching(f *audit.AuditLogFilter) []*audit.AuditLog {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*audit.AuditLog
	for _, l := range r.logs {
		if f != nil {
			if f.ActorID != nil && l.ActorID != *f.ActorID ||
				f.Action != nil && l.Action != string(*f.Action) ||
				f.Resource != nil && l.Resource != string(*f.Resource) ||
				f.ResourceID != nil && l.ResourceID != *f.ResourceID ||
				f.StartTime != nil && l.Timestamp.Before(*f.StartTime) ||
				f.EndTime != nil && l.Timestamp.After(*f.EndTime) {
				continue
			}
		}
		cp := *l
		out = append(out, &cp)
	}
	return out
}
