package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/creative-studio/internal/models"
	"github.com/creative-studio/internal/types"
)

func panelKey(kind, userID string, tool types.ToolID) string {
	return fmt.Sprintf("%s%s:%s:%s", keyPrefix, kind, userID, tool)
}

// releaseScript deletes the guard only while it still holds our token
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// extendScript resets the guard's TTL only while it still holds our token
var extendScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 0
`)

// PanelGuard marks a panel's request as in flight
type PanelGuard struct {
	cache *RedisCache
}

// NewPanelGuard creates a panel guard
func NewPanelGuard(cache *RedisCache) *PanelGuard {
	return &PanelGuard{cache: cache}
}

// Lease is a held panel guard
type Lease struct {
	Key   string
	Token string
}

// Acquire takes the guard for (userID, tool). ok is false while another
// request holds it. The guard expires after ttl even if never released.
func (g *PanelGuard) Acquire(ctx context.Context, userID string, tool types.ToolID, ttl time.Duration) (*Lease, bool, error) {
	lease := &Lease{Key: panelKey("guard", userID, tool), Token: uuid.New().String()}

	ok, err := g.cache.client.SetNX(ctx, lease.Key, lease.Token, ttl).Result()
	if err != nil {
		return nil, false, fmt.Errorf("failed to acquire panel guard: %w", err)
	}
	if !ok {
		return nil, false, nil
	}
	return lease, true, nil
}

// Release frees lease. Releasing an expired or foreign lease is a no-op.
func (g *PanelGuard) Release(ctx context.Context, lease *Lease) error {
	if lease == nil {
		return nil
	}
	if err := releaseScript.Run(ctx, g.cache.client, []string{lease.Key}, lease.Token).Err(); err != nil {
		return fmt.Errorf("failed to release panel guard: %w", err)
	}
	return nil
}

// Extend sets lease to expire ttl from now. ok is false when the lease has
// already expired or passed to another holder.
func (g *PanelGuard) Extend(ctx context.Context, lease *Lease, ttl time.Duration) (bool, error) {
	n, err := extendScript.Run(ctx, g.cache.client, []string{lease.Key}, lease.Token, ttl.Milliseconds()).Int()
	if err != nil {
		return false, fmt.Errorf("failed to extend panel guard: %w", err)
	}
	return n == 1, nil
}

// LeaseFor rebuilds the lease for a token handed out by Acquire
func (g *PanelGuard) LeaseFor(userID string, tool types.ToolID, token string) *Lease {
	return &Lease{Key: panelKey("guard", userID, tool), Token: token}
}

// Busy reports whether the guard for (userID, tool) is held
func (g *PanelGuard) Busy(ctx context.Context, userID string, tool types.ToolID) (bool, error) {
	n, err := g.cache.client.Exists(ctx, panelKey("guard", userID, tool)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check panel guard: %w", err)
	}
	return n > 0, nil
}

// HistoryStore keeps a most-recent-first artifact list per panel
type HistoryStore struct {
	cache *RedisCache
	limit int64
	ttl   time.Duration
}

// NewHistoryStore creates a history store capped at limit entries
func NewHistoryStore(cache *RedisCache, limit int, ttl time.Duration) *HistoryStore {
	return &HistoryStore{cache: cache, limit: int64(limit), ttl: ttl}
}

// Prepend puts artifact at the head of the panel history
func (s *HistoryStore) Prepend(ctx context.Context, userID string, artifact *models.Artifact) error {
	data, err := json.Marshal(artifact)
	if err != nil {
		return fmt.Errorf("failed to marshal artifact: %w", err)
	}

	key := panelKey("history", userID, artifact.Tool)
	pipe := s.cache.client.TxPipeline()
	pipe.LPush(ctx, key, data)
	pipe.LTrim(ctx, key, 0, s.limit-1)
	pipe.Expire(ctx, key, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to prepend history: %w", err)
	}
	return nil
}

// List returns the panel history, most recent first
func (s *HistoryStore) List(ctx context.Context, userID string, tool types.ToolID) ([]*models.Artifact, error) {
	raw, err := s.cache.client.LRange(ctx, panelKey("history", userID, tool), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}

	out := make([]*models.Artifact, 0, len(raw))
	for _, item := range raw {
		var a models.Artifact
		if err := json.Unmarshal([]byte(item), &a); err != nil {
			return nil, fmt.Errorf("failed to unmarshal artifact: %w", err)
		}
		out = append(out, &a)
	}
	return out, nil
}

// Clear drops the panel history
func (s *HistoryStore) Clear(ctx context.Context, userID string, tool types.ToolID) error {
	if err := s.cache.client.Del(ctx, panelKey("history", userID, tool)).Err(); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}

// OutputStore holds each panel's current artifact
type OutputStore struct {
	cache *RedisCache
	ttl   time.Duration
}

// NewOutputStore creates an output store
func NewOutputStore(cache *RedisCache, ttl time.Duration) *OutputStore {
	return &OutputStore{cache: cache, ttl: ttl}
}

// SetCurrent replaces the panel's current artifact
func (s *OutputStore) SetCurrent(ctx context.Context, userID string, artifact *models.Artifact) error {
	data, err := json.Marshal(artifact)
	if err != nil {
		return fmt.Errorf("failed to marshal artifact: %w", err)
	}
	if err := s.cache.client.Set(ctx, panelKey("output", userID, artifact.Tool), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set current output: %w", err)
	}
	return nil
}

// GetCurrent returns the panel's current artifact or ErrNotFound
func (s *OutputStore) GetCurrent(ctx context.Context, userID string, tool types.ToolID) (*models.Artifact, error) {
	data, err := s.cache.client.Get(ctx, panelKey("output", userID, tool)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get current output: %w", err)
	}

	var a models.Artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("failed to unmarshal artifact: %w", err)
	}
	return &a, nil
}

// SessionStore remembers which panel a user has open
type SessionStore struct {
	cache *RedisCache
	ttl   time.Duration
}

// NewSessionStore creates a session store
func NewSessionStore(cache *RedisCache, ttl time.Duration) *SessionStore {
	return &SessionStore{cache: cache, ttl: ttl}
}

func sessionKey(userID string) string {
	return keyPrefix + "session:" + userID + ":tool"
}

// SetActiveTool records tool as the user's active panel
func (s *SessionStore) SetActiveTool(ctx context.Context, userID string, tool types.ToolID) error {
	if err := s.cache.client.Set(ctx, sessionKey(userID), string(tool), s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set active tool: %w", err)
	}
	return nil
}

// GetActiveTool returns the active panel, or the dashboard when none is set
func (s *SessionStore) GetActiveTool(ctx context.Context, userID string) (types.ToolID, error) {
	tool, err := s.cache.client.Get(ctx, sessionKey(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return types.ToolDashboard, nil
		}
		return "", fmt.Errorf("failed to get active tool: %w", err)
	}
	return types.ToolID(tool), nil
}
