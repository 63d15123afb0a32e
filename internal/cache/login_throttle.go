package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	redisv9 "github.com/redis/go-redis/v9"
)

// LoginThrottle locks a username out after maxFailures failed logins inside window.
// The counter expires with the window, so a lockout lifts on its own.
type LoginThrottle struct {
	client      *redisv9.Client
	maxFailures int64
	window      time.Duration
}

func NewLoginThrottle(client *redisv9.Client, maxFailures int, window time.Duration) *LoginThrottle {
	if maxFailures <= 0 {
		maxFailures = 5
	}
	if window <= 0 {
		window = 15 * time.Minute
	}
	return &LoginThrottle{
		client:      client,
		maxFailures: int64(maxFailures),
		window:      window,
	}
}

func (t *LoginThrottle) Blocked(ctx context.Context, username string) (time.Duration, bool, error) {
	key := failureKey(username)
	count, err := t.client.Get(ctx, key).Int64()
	if err == redisv9.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("redis get login failures failed: %w", err)
	}
	if count < t.maxFailures {
		return 0, false, nil
	}

	ttl, err := t.client.TTL(ctx, key).Result()
	if err != nil {
		return 0, false, fmt.Errorf("redis ttl login failures failed: %w", err)
	}
	return retryAfter(ttl, t.window), true, nil
}

// RecordFailure bumps the counter. The window starts at the first failure and is not
// extended by later ones.
func (t *LoginThrottle) RecordFailure(ctx context.Context, username string) error {
	key := failureKey(username)
	pipe := t.client.TxPipeline()
	pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, t.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis record login failure failed: %w", err)
	}
	return nil
}

func (t *LoginThrottle) Reset(ctx context.Context, username string) error {
	if err := t.client.Del(ctx, failureKey(username)).Err(); err != nil {
		return fmt.Errorf("redis reset login failures failed: %w", err)
	}
	return nil
}

func failureKey(username string) string {
	return "auth:login:fail:" + strings.TrimSpace(username)
}

// retryAfter turns a redis TTL into a wait time. Negative TTLs mean the key has no expiry
// (-1) or vanished (-2); fall back to the full window in the first case.
func retryAfter(ttl, window time.Duration) time.Duration {
	switch {
	case ttl > 0:
		return ttl
	case ttl == -1:
		return window
	default:
		return time.Second
	}
}
