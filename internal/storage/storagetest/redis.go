// Package storagetest provides Redis-backed storage for tests.
package storagetest

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/creative-studio/internal/storage"
)

// NewRedis starts an in-memory Redis and returns a cache bound to it.
// Both are closed when the test ends.
func NewRedis(t testing.TB) (*storage.RedisCache, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return storage.NewRedisCacheFromClient(client), mr
}
