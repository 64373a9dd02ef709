package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"
)

const defaultSequencePrefix = "sequence"

// SequenceRedisRepository stores partition counters as Redis integers.
type SequenceRedisRepository struct {
	r         redis.Cmdable
	keyPrefix string
}

func NewSequenceRedisRepository(r redis.Cmdable, keyPrefix string) *SequenceRedisRepository {
	if keyPrefix == "" {
		keyPrefix = defaultSequencePrefix
	}
	return &SequenceRedisRepository{r: r, keyPrefix: keyPrefix}
}

func (repo *SequenceRedisRepository) key(partition string) string {
	return fmt.Sprintf("%s:%s", repo.keyPrefix, partition)
}

// Increment seeds the counter with floor if absent and increments it in one MULTI block.
func (repo *SequenceRedisRepository) Increment(ctx context.Context, partition string, floor int64) (int64, error) {
	key := repo.key(partition)
	pipe := repo.r.TxPipeline()
	pipe.SetNX(ctx, key, floor, 0)
	incr := pipe.Incr(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("increment sequence %s: %w", partition, err)
	}
	return incr.Val(), nil
}

func (repo *SequenceRedisRepository) Current(ctx context.Context, partition string) (int64, bool, error) {
	v, err := repo.r.Get(ctx, repo.key(partition)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("read sequence %s: %w", partition, err)
	}
	return v, true, nil
}

func (repo *SequenceRedisRepository) Set(ctx context.Context, partition string, value int64) error {
	if err := repo.r.Set(ctx, repo.key(partition), value, 0).Err(); err != nil {
		return fmt.Errorf("set sequence %s: %w", partition, err)
	}
	return nil
}
