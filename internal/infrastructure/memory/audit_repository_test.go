package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sfsc/platform-governance/internal/core/domain/audit"
)

func TestAuditRepository_FiltersAndPages(t *testing.T) {
	repo := NewAuditRepository()
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Create(ctx, &audit.AuditLog{
			ActorID:   "admin",
			Action:    string(audit.ActionSequenceReset),
			Timestamp: base.Add(time.Duration(i) * time.Minute),
		}))
	}
	require.NoError(t, repo.Create(ctx, &audit.AuditLog{ActorID: "mgr", Action: string(audit.ActionRateLimitReset), Timestamp: base}))

	actor := "admin"
	f := &audit.AuditLogFilter{ActorID: &actor, Limit: 2, Offset: 1}
	logs, err := repo.List(ctx, f)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, base.Add(3*time.Minute), logs[0].Timestamp, "newest first")

	n, _ := repo.Count(ctx, f)
	assert.Equal(t, 5, n)
	n, _ = repo.Count(ctx, nil)
	assert.Equal(t, 6, n)
}
