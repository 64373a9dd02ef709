package repositories

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
)

const defaultRateLimitPrefix = "ratelimit"

// RateLimitRedisRepository implements fixed-window counter storage with Redis.
// Keys expire at their window's reset time, so Sweep has nothing to do.
type RateLimitRedisRepository struct {
	r         redis.Cmdable
	keyPrefix string
}

func NewRateLimitRedisRepository(r redis.Cmdable, keyPrefix string) *RateLimitRedisRepository {
	if keyPrefix == "" {
		keyPrefix = defaultRateLimitPrefix
	}
	return &RateLimitRedisRepository{r: r, keyPrefix: keyPrefix}
}

func (repo *RateLimitRedisRepository) key(principalID string, windowStart time.Time) string {
	return fmt.Sprintf("%s:%s:%d", repo.keyPrefix, principalID, windowStart.Unix())
}

// Increment increments the principal's counter for the window starting at windowStart.
func (repo *RateLimitRedisRepository) Increment(ctx context.Context, principalID string, windowStart, resetAt time.Time) (int, error) {
	key := repo.key(principalID, windowStart)
	pipe := repo.r.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireAt(ctx, key, resetAt)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return int(incr.Val()), nil
}

// Reset deletes every window key of principalID. The glob also matches ids that extend
// principalID with ':', so keys are kept only when the remainder is a bare window timestamp.
func (repo *RateLimitRedisRepository) Reset(ctx context.Context, principalID string) error {
	base := fmt.Sprintf("%s:%s:", repo.keyPrefix, principalID)
	match := fmt.Sprintf("%s:%s:*", repo.keyPrefix, escapeGlob(principalID))
	var cursor uint64
	for {
		scanned, next, err := repo.r.Scan(ctx, cursor, match, 100).Result()
		if err != nil {
			return err
		}
		keys := scanned[:0]
		for _, k := range scanned {
			if isWindowSuffix(strings.TrimPrefix(k, base)) {
				keys = append(keys, k)
			}
		}
		if len(keys) > 0 {
			if err := repo.r.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}

func (repo *RateLimitRedisRepository) Sweep(context.Context, time.Time) (int, error) {
	return 0, nil
}

var globEscaper = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`, `[`, `\[`, `]`, `\]`)

func escapeGlob(s string) string { return globEscaper.Replace(s) }

func isWindowSuffix(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
