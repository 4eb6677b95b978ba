// Package circuitbreaker stops calling a failing upstream for a cool-down
// period before letting a few probe calls through.
package circuitbreaker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/creative-studio/internal/logging"
)

// State represents the circuit breaker state
type State string

const (
	// StateClosed means the circuit is closed and requests are allowed
	StateClosed State = "closed"
	// StateOpen means the circuit is open and requests are blocked
	StateOpen State = "open"
	// StateHalfOpen means the circuit is testing if the upstream has recovered
	StateHalfOpen State = "half_open"
)

// ErrCircuitOpen is returned when the circuit breaker is open
var ErrCircuitOpen = errors.New("circuit breaker is open")

// ErrTooManyRequests is returned when the half-open probe budget is spent
var ErrTooManyRequests = errors.New("too many requests in half-open state")

// Config configures a circuit breaker
type Config struct {
	Name string
	// MinCalls is the number of calls in a window before the failure rate counts
	MinCalls int
	// FailureThreshold is the failure rate (0.0-1.0) that opens the circuit
	FailureThreshold float64
	// MaxConsecutiveFails opens the circuit regardless of rate
	MaxConsecutiveFails int
	// Timeout is how long the circuit stays open before probing
	Timeout time.Duration
	// HalfOpenMaxCalls is the probe budget; that many successes close it again
	HalfOpenMaxCalls int
	// IsFailure decides which errors count against the upstream. nil counts all.
	IsFailure func(error) bool
}

// DefaultConfig returns a default circuit breaker configuration
func DefaultConfig(name string) *Config {
	return &Config{
		Name:                name,
		MinCalls:            10,
		FailureThreshold:    0.5,
		MaxConsecutiveFails: 5,
		Timeout:             30 * time.Second,
		HalfOpenMaxCalls:    3,
	}
}

// CircuitBreaker implements the circuit breaker pattern
type CircuitBreaker struct {
	cfg Config
	now func() time.Time

	mu               sync.Mutex
	state            State
	failures         int
	successes        int
	totalCalls       int
	inFlightProbes   int
	consecutiveFails int
	lastFailureTime  time.Time
	lastStateChange  time.Time
}

// NewCircuitBreaker creates a new circuit breaker
func NewCircuitBreaker(config *Config) *CircuitBreaker {
	cfg := *config
	if cfg.HalfOpenMaxCalls <= 0 {
		cfg.HalfOpenMaxCalls = 1
	}
	return &CircuitBreaker{
		cfg:             cfg,
		now:             time.Now,
		state:           StateClosed,
		lastStateChange: time.Now(),
	}
}

// Execute runs fn unless the circuit is open. fn's error is returned as is.
func (cb *CircuitBreaker) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := cb.beforeRequest(); err != nil {
		return err
	}

	err := fn(ctx)
	cb.afterRequest(err)
	return err
}

func (cb *CircuitBreaker) beforeRequest() error {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case StateOpen:
		if cb.now().Sub(cb.lastStateChange) < cb.cfg.Timeout {
			return ErrCircuitOpen
		}
		cb.setState(StateHalfOpen)
		cb.reset()
		logging.WithFields(map[string]interface{}{
			"circuitBreaker": cb.cfg.Name,
			"state":          StateHalfOpen,
		}).Info("Circuit breaker transitioning to half-open")
		fallthrough
	case StateHalfOpen:
		if cb.inFlightProbes+cb.successes >= cb.cfg.HalfOpenMaxCalls {
			return ErrTooManyRequests
		}
		cb.inFlightProbes++
	}
	return nil
}

func (cb *CircuitBreaker) afterRequest(err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.state == StateHalfOpen && cb.inFlightProbes > 0 {
		cb.inFlightProbes--
	}

	cb.totalCalls++
	if err != nil && cb.counts(err) {
		cb.onFailure()
		return
	}
	cb.onSuccess()
}

func (cb *CircuitBreaker) counts(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	if cb.cfg.IsFailure == nil {
		return true
	}
	return cb.cfg.IsFailure(err)
}

func (cb *CircuitBreaker) onSuccess() {
	cb.successes++
	cb.consecutiveFails = 0

	if cb.state == StateHalfOpen && cb.successes >= cb.cfg.HalfOpenMaxCalls {
		cb.setState(StateClosed)
		cb.reset()
		logging.WithFields(map[string]interface{}{
			"circuitBreaker": cb.cfg.Name,
			"state":          StateClosed,
		}).Info("Circuit breaker closed after successful recovery")
	}
}

func (cb *CircuitBreaker) onFailure() {
	cb.failures++
	cb.consecutiveFails++
	cb.lastFailureTime = cb.now()

	switch cb.state {
	case StateClosed:
		if cb.shouldOpen() {
			logging.WithFields(map[string]interface{}{
				"circuitBreaker":   cb.cfg.Name,
				"state":            StateOpen,
				"failures":         cb.failures,
				"totalCalls":       cb.totalCalls,
				"failureRate":      cb.failureRate(),
				"consecutiveFails": cb.consecutiveFails,
			}).Warn("Circuit breaker opened due to failures")
			cb.setState(StateOpen)
		}
	case StateHalfOpen:
		cb.setState(StateOpen)
		logging.WithFields(map[string]interface{}{
			"circuitBreaker": cb.cfg.Name,
			"state":          StateOpen,
		}).Warn("Circuit breaker reopened after failure in half-open state")
	}
}

func (cb *CircuitBreaker) shouldOpen() bool {
	if cb.cfg.MaxConsecutiveFails > 0 && cb.consecutiveFails >= cb.cfg.MaxConsecutiveFails {
		return true
	}
	// Rate tripping needs both a sample size and a threshold
	if cb.cfg.MinCalls <= 0 || cb.cfg.FailureThreshold <= 0 {
		return false
	}
	return cb.totalCalls >= cb.cfg.MinCalls && cb.failureRate() >= cb.cfg.FailureThreshold
}

func (cb *CircuitBreaker) failureRate() float64 {
	if cb.totalCalls == 0 {
		return 0.0
	}
	return float64(cb.failures) / float64(cb.totalCalls)
}

func (cb *CircuitBreaker) setState(state State) {
	cb.state = state
	cb.lastStateChange = cb.now()
}

func (cb *CircuitBreaker) reset() {
	cb.failures = 0
	cb.successes = 0
	cb.totalCalls = 0
	cb.consecutiveFails = 0
	cb.inFlightProbes = 0
}

// GetState returns the current state of the circuit breaker
func (cb *CircuitBreaker) GetState() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// Stats represents circuit breaker statistics
type Stats struct {
	Name             string    `json:"name"`
	State            State     `json:"state"`
	Failures         int       `json:"failures"`
	Successes        int       `json:"successes"`
	TotalCalls       int       `json:"totalCalls"`
	ConsecutiveFails int       `json:"consecutiveFails"`
	FailureRate      float64   `json:"failureRate"`
	LastFailureTime  time.Time `json:"lastFailureTime"`
	LastStateChange  time.Time `json:"lastStateChange"`
}

// GetStats returns statistics about the circuit breaker
func (cb *CircuitBreaker) GetStats() *Stats {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	return &Stats{
		Name:             cb.cfg.Name,
		State:            cb.state,
		Failures:         cb.failures,
		Successes:        cb.successes,
		TotalCalls:       cb.totalCalls,
		ConsecutiveFails: cb.consecutiveFails,
		FailureRate:      cb.failureRate(),
		LastFailureTime:  cb.lastFailureTime,
		LastStateChange:  cb.lastStateChange,
	}
}

// Reset manually resets the circuit breaker to closed state
func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.setState(StateClosed)
	cb.reset()
	logging.WithField("circuitBreaker", cb.cfg.Name).Info("Circuit breaker manually reset")
}

// Set holds one breaker per upstream capability
type Set struct {
	mu       sync.Mutex
	breakers map[string]*CircuitBreaker
	template Config
}

// NewSet creates breakers on demand from template, named "<prefix>.<key>"
func NewSet(template *Config) *Set {
	return &Set{breakers: make(map[string]*CircuitBreaker), template: *template}
}

// Get returns the breaker for key, creating it on first use
func (s *Set) Get(key string) *CircuitBreaker {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cb, ok := s.breakers[key]; ok {
		return cb
	}
	cfg := s.template
	cfg.Name = s.template.Name + "." + key
	cb := NewCircuitBreaker(&cfg)
	s.breakers[key] = cb
	return cb
}

// Stats returns statistics for every breaker created so far
func (s *Set) Stats() map[string]*Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]*Stats, len(s.breakers))
	for key, cb := range s.breakers {
		out[key] = cb.GetStats()
	}
	return out
}
