// Package ratelimit keeps generator traffic within the provider quota. A
// Redis-backed budget is shared by every API server and video worker, with
// part of it reserved for interactive requests.
package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Default budget configuration values.
const (
	DefaultTotalBudget    = 120         // units per window
	DefaultReservedBudget = 80          // reserved for interactive requests
	DefaultWindowSize     = time.Minute // fixed window
)

// Redis key prefixes for budget tracking.
const (
	KeyPrefixTotal    = "studio:budget:total:"
	KeyPrefixReserved = "studio:budget:reserved:"
	KeyPrefixShared   = "studio:budget:shared:"
	KeyPrefixMethod   = "studio:budget:method:"
)

// Priority levels for budget allocation.
type Priority int

const (
	// PriorityHigh is for interactive generations (uses the reserved pool).
	PriorityHigh Priority = iota
	// PriorityLow is for background video polling (uses the shared pool).
	PriorityLow
)

// String returns a string representation of the priority level.
func (p Priority) String() string {
	switch p {
	case PriorityHigh:
		return "high"
	case PriorityLow:
		return "low"
	default:
		return "unknown"
	}
}

// consumeScript checks both the total and the pool counter and increments
// them together, so concurrent callers never overshoot the budget.
var consumeScript = redis.NewScript(`
	local totalKey = KEYS[1]
	local poolKey = KEYS[2]
	local units = tonumber(ARGV[1])
	local totalBudget = tonumber(ARGV[2])
	local poolBudget = tonumber(ARGV[3])
	local ttl = tonumber(ARGV[4])

	local totalUsed = tonumber(redis.call('GET', totalKey) or '0')
	local poolUsed = tonumber(redis.call('GET', poolKey) or '0')

	if totalUsed + units > totalBudget then
		return {0, totalUsed, poolUsed}
	end
	if poolUsed + units > poolBudget then
		return {0, totalUsed, poolUsed}
	end

	redis.call('INCRBY', totalKey, units)
	redis.call('EXPIRE', totalKey, ttl)
	redis.call('INCRBY', poolKey, units)
	redis.call('EXPIRE', poolKey, ttl)

	return {1, totalUsed + units, poolUsed + units}
`)

// BudgetTracker coordinates generator spending across processes using Redis.
// Each window has a reserved pool for priority callers and a shared pool
// for best-effort ones.
type BudgetTracker struct {
	redis          redis.Cmdable
	totalBudget    int
	reservedBudget int
	sharedBudget   int
	windowSize     time.Duration
	keyTTL         time.Duration
	now            func() time.Time
}

// BudgetTrackerConfig holds configuration for the budget tracker.
type BudgetTrackerConfig struct {
	// Redis is the client used for cross-process coordination. Required.
	Redis redis.Cmdable

	// TotalBudget is the number of units per window. Default: 120.
	TotalBudget int

	// ReservedBudget is the part of TotalBudget kept for PriorityHigh. nil
	// selects the default of 80. Zero reserves nothing, and every priority
	// draws from the shared pool.
	ReservedBudget *int

	// WindowSize is the budget window. Default: 1m.
	WindowSize time.Duration

	// KeyTTL is the TTL for window counters. Default: twice the window.
	KeyTTL time.Duration
}

// UsageStats contains the consumption of the current window.
type UsageStats struct {
	TotalUsed      int       `json:"totalUsed"`
	ReservedUsed   int       `json:"reservedUsed"`
	SharedUsed     int       `json:"sharedUsed"`
	TotalBudget    int       `json:"totalBudget"`
	ReservedBudget int       `json:"reservedBudget"`
	SharedBudget   int       `json:"sharedBudget"`
	WindowStart    time.Time `json:"windowStart"`
}

// Validate checks if the configuration is valid.
func (c *BudgetTrackerConfig) Validate() error {
	if c.Redis == nil {
		return errors.New("redis client is required")
	}
	if c.TotalBudget < 0 {
		return errors.New("total budget cannot be negative")
	}
	if c.ReservedBudget != nil && *c.ReservedBudget < 0 {
		return errors.New("reserved budget cannot be negative")
	}

	total, reserved := c.budgets()
	if reserved > total {
		return fmt.Errorf("reserved budget (%d) cannot exceed total budget (%d)", reserved, total)
	}
	return nil
}

func (c *BudgetTrackerConfig) budgets() (total, reserved int) {
	total = c.TotalBudget
	if total == 0 {
		total = DefaultTotalBudget
	}
	reserved = DefaultReservedBudget
	if c.ReservedBudget != nil {
		reserved = *c.ReservedBudget
	}
	return total, reserved
}

// NewBudgetTracker creates a new tracker with the given configuration.
func NewBudgetTracker(cfg *BudgetTrackerConfig) (*BudgetTracker, error) {
	if cfg == nil {
		return nil, errors.New("configuration is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	total, reserved := cfg.budgets()

	windowSize := cfg.WindowSize
	if windowSize == 0 {
		windowSize = DefaultWindowSize
	}

	keyTTL := cfg.KeyTTL
	if keyTTL == 0 {
		keyTTL = 2 * windowSize
	}

	return &BudgetTracker{
		redis:          cfg.Redis,
		totalBudget:    total,
		reservedBudget: reserved,
		sharedBudget:   total - reserved,
		windowSize:     windowSize,
		keyTTL:         keyTTL,
		now:            time.Now,
	}, nil
}

// windowTimestamp returns the start of the current window in milliseconds.
func (t *BudgetTracker) windowTimestamp() int64 {
	return t.now().Truncate(t.windowSize).UnixMilli()
}

func (t *BudgetTracker) keys(windowTS int64) (totalKey, reservedKey, sharedKey string) {
	ts := strconv.FormatInt(windowTS, 10)
	return KeyPrefixTotal + ts, KeyPrefixReserved + ts, KeyPrefixShared + ts
}

// TryConsume attempts to spend units from the pool matching priority.
// When denied, waitTime is the time until the next window opens.
func (t *BudgetTracker) TryConsume(ctx context.Context, units int, priority Priority) (bool, time.Duration) {
	if units <= 0 {
		return true, 0
	}

	windowTS := t.windowTimestamp()
	totalKey, reservedKey, sharedKey := t.keys(windowTS)

	poolKey, poolBudget := sharedKey, t.sharedBudget
	if t.usesReserve(priority) {
		poolKey, poolBudget = reservedKey, t.reservedBudget
	}

	ttlSeconds := int(t.keyTTL.Seconds())
	if ttlSeconds < 1 {
		ttlSeconds = 1
	}

	result, err := consumeScript.Run(ctx, t.redis, []string{totalKey, poolKey},
		units, t.totalBudget, poolBudget, ttlSeconds).Int64Slice()
	if err != nil || len(result) == 0 || result[0] != 1 {
		// a Redis failure denies the call as well
		return false, t.waitTime(windowTS)
	}
	return true, 0
}

func (t *BudgetTracker) usesReserve(priority Priority) bool {
	return priority == PriorityHigh && t.reservedBudget > 0
}

// waitTime returns the time until the window after windowTS starts.
func (t *BudgetTracker) waitTime(windowTS int64) time.Duration {
	windowEnd := time.UnixMilli(windowTS).Add(t.windowSize)
	wait := windowEnd.Sub(t.now())
	if wait < 0 {
		wait = 0
	}
	return wait + time.Millisecond
}

// GetUsage returns the consumption of the current window.
func (t *BudgetTracker) GetUsage(ctx context.Context) (*UsageStats, error) {
	windowTS := t.windowTimestamp()
	totalKey, reservedKey, sharedKey := t.keys(windowTS)

	pipe := t.redis.Pipeline()
	totalCmd := pipe.Get(ctx, totalKey)
	reservedCmd := pipe.Get(ctx, reservedKey)
	sharedCmd := pipe.Get(ctx, sharedKey)

	// missing keys come back as redis.Nil and count as zero
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("failed to read budget usage: %w", err)
	}

	return &UsageStats{
		TotalUsed:      parseIntOrZero(totalCmd),
		ReservedUsed:   parseIntOrZero(reservedCmd),
		SharedUsed:     parseIntOrZero(sharedCmd),
		TotalBudget:    t.totalBudget,
		ReservedBudget: t.reservedBudget,
		SharedBudget:   t.sharedBudget,
		WindowStart:    time.UnixMilli(windowTS),
	}, nil
}

func parseIntOrZero(cmd *redis.StringCmd) int {
	val, err := cmd.Int()
	if err != nil {
		return 0
	}
	return val
}

// RecordMethodUsage counts units spent by one generator method. It is for
// monitoring only and does not affect allocation.
func (t *BudgetTracker) RecordMethodUsage(ctx context.Context, method string, units int) error {
	if units <= 0 || method == "" {
		return nil
	}

	key := fmt.Sprintf("%s%s:%d", KeyPrefixMethod, method, t.windowTimestamp())

	pipe := t.redis.Pipeline()
	pipe.IncrBy(ctx, key, int64(units))
	pipe.Expire(ctx, key, t.keyTTL)
	_, err := pipe.Exec(ctx)
	return err
}

// MethodUsage returns the units each method spent in the current window.
func (t *BudgetTracker) MethodUsage(ctx context.Context, methods []string) (map[string]int, error) {
	windowTS := t.windowTimestamp()

	pipe := t.redis.Pipeline()
	cmds := make(map[string]*redis.StringCmd, len(methods))
	for _, m := range methods {
		cmds[m] = pipe.Get(ctx, fmt.Sprintf("%s%s:%d", KeyPrefixMethod, m, windowTS))
	}
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("failed to read method usage: %w", err)
	}

	usage := make(map[string]int, len(methods))
	for m, cmd := range cmds {
		if n := parseIntOrZero(cmd); n > 0 {
			usage[m] = n
		}
	}
	return usage, nil
}

// AvailableBudget returns the units left in the pool for priority.
func (t *BudgetTracker) AvailableBudget(ctx context.Context, priority Priority) (int, error) {
	stats, err := t.GetUsage(ctx)
	if err != nil {
		return 0, err
	}

	available := t.sharedBudget - stats.SharedUsed
	if t.usesReserve(priority) {
		available = t.reservedBudget - stats.ReservedUsed
	}
	if remaining := t.totalBudget - stats.TotalUsed; remaining < available {
		available = remaining
	}
	if available < 0 {
		available = 0
	}
	return available, nil
}

// TotalUtilization returns the current window utilization as a percentage (0-100).
func (t *BudgetTracker) TotalUtilization(ctx context.Context) (float64, error) {
	stats, err := t.GetUsage(ctx)
	if err != nil {
		return 0, err
	}
	if t.totalBudget == 0 {
		return 100, nil
	}
	return float64(stats.TotalUsed) * 100 / float64(t.totalBudget), nil
}

// IsWarningThreshold returns true if utilization is at or above 80%.
func (t *BudgetTracker) IsWarningThreshold(ctx context.Context) (bool, error) {
	utilization, err := t.TotalUtilization(ctx)
	if err != nil {
		return false, err
	}
	return utilization >= 80, nil
}

// GetWindowSize returns the configured window size.
func (t *BudgetTracker) GetWindowSize() time.Duration {
	return t.windowSize
}
