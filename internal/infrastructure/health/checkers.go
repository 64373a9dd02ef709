package health

import (
	"context"

	"github.com/go-redis/redis/v8"

	"github.com/sfsc/platform-governance/internal/core/ports"
	infraDB "github.com/sfsc/platform-governance/internal/infrastructure/db"
)

// probePartition is a partition key no allocation ever uses.
const probePartition = "_health"

type checker struct {
	name  string
	check func(ctx context.Context) error
}

func (c *checker) Name() string                    { return c.name }
func (c *checker) Check(ctx context.Context) error { return c.check(ctx) }

// NewChecker adapts a probe function to ports.HealthChecker.
func NewChecker(name string, check func(ctx context.Context) error) ports.HealthChecker {
	return &checker{name: name, check: check}
}

// NewDBHealthChecker creates a health checker for the database.
func NewDBHealthChecker(db *infraDB.Database) ports.HealthChecker {
	return NewChecker("database", db.DB.PingContext)
}

// NewRedisHealthChecker creates a health checker for Redis.
func NewRedisHealthChecker(client redis.Cmdable) ports.HealthChecker {
	return NewChecker("redis", func(ctx context.Context) error { return client.Ping(ctx).Err() })
}

// NewSequenceStoreChecker reads a probe partition to confirm the counter store answers.
func NewSequenceStoreChecker(store ports.SequenceStore) ports.HealthChecker {
	return NewChecker("sequence_store", func(ctx context.Context) error {
		_, _, err := store.Current(ctx, probePartition)
		return err
	})
}
