package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisRateLimiter keeps one sorted set of request timestamps per client so
// the window slides and is shared by every server instance.
type RedisRateLimiter struct {
	client *redis.Client
	policy Policy
	now    func() time.Time
}

func NewRedisRateLimiter(client *redis.Client, policy Policy) *RedisRateLimiter {
	return &RedisRateLimiter{
		client: client,
		policy: policy,
		now:    time.Now,
	}
}

func (l *RedisRateLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	now := l.now()
	redisKey := l.getKey(key)
	windowStart := now.Add(-l.policy.Window).UnixNano()

	pipe := l.client.TxPipeline()
	pipe.ZRemRangeByScore(ctx, redisKey, "0", strconv.FormatInt(windowStart, 10))
	zcard := pipe.ZCard(ctx, redisKey)
	oldest := pipe.ZRangeWithScores(ctx, redisKey, 0, 0)
	pipe.ZAdd(ctx, redisKey, redis.Z{Score: float64(now.UnixNano()), Member: uuid.NewString()})
	pipe.Expire(ctx, redisKey, l.policy.Window+time.Minute)

	if _, err := pipe.Exec(ctx); err != nil {
		return Decision{}, fmt.Errorf("failed to execute pipeline: %w", err)
	}

	count := int(zcard.Val())
	if count < l.policy.Limit {
		return Decision{Allowed: true, Remaining: l.policy.Limit - count - 1}, nil
	}

	retry := l.policy.Window
	if first := oldest.Val(); len(first) > 0 {
		retry = time.Unix(0, int64(first[0].Score)).Add(l.policy.Window).Sub(now)
	}
	return Decision{Allowed: false, RetryAfter: retry}, nil
}

func (l *RedisRateLimiter) Reset(ctx context.Context, key string) error {
	if err := l.client.Del(ctx, l.getKey(key)).Err(); err != nil {
		return fmt.Errorf("failed to delete key %s: %w", key, err)
	}
	return nil
}

func (l *RedisRateLimiter) getKey(identifier string) string {
	return fmt.Sprintf("ratelimit:%s:%s", identifier, l.policy.Window.String())
}
