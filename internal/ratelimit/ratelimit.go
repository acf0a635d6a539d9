package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const keyPrefix = "roomcal:ratelimit:"

// Limiter decides whether one more request for key fits in the current
// window.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// RedisLimiter is a fixed-window counter shared by every server instance
// pointed at the same Redis.
type RedisLimiter struct {
	client redis.UniversalClient
	limit  int
	window time.Duration
}

func NewRedisLimiter(client redis.UniversalClient, limit int, window time.Duration) (*RedisLimiter, error) {
	if client == nil {
		return nil, errors.New("redis client is required")
	}
	if limit <= 0 {
		return nil, errors.New("limit must be positive")
	}
	if window <= 0 {
		return nil, errors.New("window must be positive")
	}

	return &RedisLimiter{
		client: client,
		limit:  limit,
		window: window,
	}, nil
}

// Allow counts the request and reports whether it is within the limit.
// A key left without a TTL, for instance after a failed EXPIRE, gets one
// on its next hit so the window always ends.
func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	key = keyPrefix + key

	pipe := l.client.Pipeline()
	incrCmd := pipe.Incr(ctx, key)
	ttlCmd := pipe.TTL(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("rate limit pipeline: %w", err)
	}

	count := incrCmd.Val()
	allowed := count <= int64(l.limit)

	// -1 means the key exists without an expiry
	if ttlCmd.Val() < 0 {
		if err := l.client.Expire(ctx, key, l.window).Err(); err != nil {
			return allowed, fmt.Errorf("rate limit expire: %w", err)
		}
	}

	return allowed, nil
}
