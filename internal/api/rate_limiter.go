package api

import (
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/creative-studio/internal/errors"
	"github.com/creative-studio/internal/types"
)

const (
	defaultBurst  = 10
	limiterIdle   = 10 * time.Minute
	pruneInterval = time.Minute
)

// RateLimiter manages per-user request limits by tier
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*clientLimiter

	// Rate limits per tier (requests per second)
	freeTierLimit rate.Limit
	proTierLimit  rate.Limit

	// Burst size (number of requests that can be made in a burst)
	burstSize int

	lastPrune time.Time
	now       func() time.Time
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter(freeTierRPS, proTierRPS int) *RateLimiter {
	return &RateLimiter{
		limiters:      make(map[string]*clientLimiter),
		freeTierLimit: rate.Limit(freeTierRPS),
		proTierLimit:  rate.Limit(proTierRPS),
		burstSize:     defaultBurst,
		now:           time.Now,
	}
}

// getLimiter returns the limiter for a client at a tier. Idle limiters are
// dropped once they have not been used for a while.
func (rl *RateLimiter) getLimiter(clientID string, tier types.UserTier) *rate.Limiter {
	limit := rl.freeTierLimit
	if tier == types.TierPro {
		limit = rl.proTierLimit
	}
	key := string(tier) + ":" + clientID
	now := rl.now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	if now.Sub(rl.lastPrune) >= pruneInterval {
		for k, cl := range rl.limiters {
			if now.Sub(cl.lastSeen) > limiterIdle {
				delete(rl.limiters, k)
			}
		}
		rl.lastPrune = now
	}

	cl, ok := rl.limiters[key]
	if !ok {
		cl = &clientLimiter{limiter: rate.NewLimiter(limit, rl.burstSize)}
		rl.limiters[key] = cl
	}
	cl.lastSeen = now
	return cl.limiter
}

// size returns the number of tracked clients
func (rl *RateLimiter) size() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.limiters)
}

// RateLimitMiddleware creates a middleware that enforces rate limiting
func RateLimitMiddleware(rl *RateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientID := r.Header.Get(UserIDHeader)
			if clientID == "" {
				clientID = r.RemoteAddr // Use IP address as fallback
			}
			tier := requestTier(r)

			limiter := rl.getLimiter(clientID, tier)
			if !limiter.Allow() {
				writeError(w, errors.NewRateLimitError(tier, float64(limiter.Limit())))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// requestTier reads X-User-Tier. Anything but "pro" is the free tier.
func requestTier(r *http.Request) types.UserTier {
	if types.UserTier(r.Header.Get(UserTierHeader)) == types.TierPro {
		return types.TierPro
	}
	return types.TierFree
}
