package cache

import (
	"context"
	"os"
	"testing"
	"time"

	redisv9 "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFailureKey(t *testing.T) {
	assert.Equal(t, "auth:login:fail:Gandalf", failureKey("  Gandalf "))
	assert.NotEqual(t, failureKey("Bob"), failureKey("bob"))
}

func TestRetryAfter(t *testing.T) {
	window := 15 * time.Minute
	assert.Equal(t, 42*time.Second, retryAfter(42*time.Second, window))
	assert.Equal(t, window, retryAfter(-1, window))
	assert.Equal(t, time.Second, retryAfter(-2, window))
}

// Runs against a real server when REDIS_ADDR is set.
func TestLoginThrottleRedis(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}

	ctx := context.Background()
	client := redisv9.NewClient(&redisv9.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.Ping(ctx).Err())

	username := "throttle-test-" + time.Now().Format("150405.000000")
	throttle := NewLoginThrottle(client, 2, time.Minute)
	t.Cleanup(func() { _ = throttle.Reset(ctx, username) })

	_, blocked, err := throttle.Blocked(ctx, username)
	require.NoError(t, err)
	assert.False(t, blocked)

	require.NoError(t, throttle.RecordFailure(ctx, username))
	_, blocked, err = throttle.Blocked(ctx, username)
	require.NoError(t, err)
	assert.False(t, blocked)

	require.NoError(t, throttle.RecordFailure(ctx, username))
	wait, blocked, err := throttle.Blocked(ctx, username)
	require.NoError(t, err)
	assert.True(t, blocked)
	assert.Greater(t, wait, time.Duration(0))
	assert.LessOrEqual(t, wait, time.Minute)

	require.NoError(t, throttle.Reset(ctx, username))
	_, blocked, err = throttle.Blocked(ctx, username)
	require.NoError(t, err)
	assert.False(t, blocked)
}
