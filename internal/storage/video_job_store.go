package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/creative-studio/internal/models"
)

const videoQueueKey = keyPrefix + "video:queue"

func videoJobKey(id string) string {
	return keyPrefix + "video:job:" + id
}

// VideoJobStore persists video jobs and the pending-job queue
type VideoJobStore struct {
	cache *RedisCache
	ttl   time.Duration
}

// NewVideoJobStore creates a video job store; jobs expire after ttl
func NewVideoJobStore(cache *RedisCache, ttl time.Duration) *VideoJobStore {
	return &VideoJobStore{cache: cache, ttl: ttl}
}

// Save writes job, refreshing its expiry
func (s *VideoJobStore) Save(ctx context.Context, job *models.VideoJob) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal video job: %w", err)
	}
	if err := s.cache.client.Set(ctx, videoJobKey(job.ID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save video job: %w", err)
	}
	return nil
}

// Get loads a job or returns ErrNotFound
func (s *VideoJobStore) Get(ctx context.Context, id string) (*models.VideoJob, error) {
	data, err := s.cache.client.Get(ctx, videoJobKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get video job: %w", err)
	}

	var job models.VideoJob
	if err := json.Unmarshal(data, &job); err != nil {
		return nil, fmt.Errorf("failed to unmarshal video job: %w", err)
	}
	return &job, nil
}

// Enqueue appends a job id to the pending queue
func (s *VideoJobStore) Enqueue(ctx context.Context, id string) error {
	if err := s.cache.client.RPush(ctx, videoQueueKey, id).Err(); err != nil {
		return fmt.Errorf("failed to enqueue video job: %w", err)
	}
	return nil
}

// Dequeue pops the oldest pending job id. ok is false when the queue is empty.
func (s *VideoJobStore) Dequeue(ctx context.Context) (string, bool, error) {
	id, err := s.cache.client.LPop(ctx, videoQueueKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to dequeue video job: %w", err)
	}
	return id, true, nil
}

// QueueLength returns the number of pending jobs
func (s *VideoJobStore) QueueLength(ctx context.Context) (int64, error) {
	n, err := s.cache.client.LLen(ctx, videoQueueKey).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to read video queue length: %w", err)
	}
	return n, nil
}
