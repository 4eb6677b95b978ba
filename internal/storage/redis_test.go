package storage

import (
	"testing"

	"github.com/creative-studio/internal/config"
)

func TestNewRedisCache(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	cfg := &config.RedisConfig{
		Host:           "localhost",
		Port:           "6379",
		DB:             0,
		MaxConnections: 10,
	}

	cache, err := NewRedisCache(testContext(t), cfg)
	if err != nil {
		t.Skipf("Skipping test - Redis not available: %v", err)
	}
	defer func() {
		if err := cache.Close(); err != nil {
			t.Errorf("Close() error = %v", err)
		}
	}()

	if err := cache.Ping(testContext(t)); err != nil {
		t.Errorf("Ping() error = %v", err)
	}
}
