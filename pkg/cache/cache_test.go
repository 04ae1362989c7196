package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// connect returns a cache against REDIS_ADDR (default localhost:6379) or
// skips the test when redis is unreachable.
func connect(t *testing.T) *Cache {
	t.Helper()
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	c, err := Connect(ctx, addr, os.Getenv("REDIS_PASSWORD"))
	if err != nil {
		t.Skipf("redis not available: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestSetGetDel(t *testing.T) {
	c := connect(t)
	ctx := context.Background()
	key := "nexus:test:" + t.Name()

	type payload struct {
		Name string `json:"name"`
		N    int    `json:"n"`
	}

	require.NoError(t, c.Set(ctx, key, payload{Name: "x", N: 3}, time.Minute))

	var got payload
	require.NoError(t, c.Get(ctx, key, &got))
	assert.Equal(t, payload{Name: "x", N: 3}, got)

	require.NoError(t, c.Del(ctx, key))
	assert.ErrorIs(t, c.Get(ctx, key, &got), ErrMiss)
}

func TestConnectFailure(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	_, err := Connect(ctx, "127.0.0.1:1", "")
	assert.Error(t, err)
}
