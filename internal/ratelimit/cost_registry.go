package ratelimit

import (
	"sort"
	"sync"
)

// Default unit costs per generator method.
const (
	DefaultCost = 1

	CostGenerateText  = 1
	CostGenerateImage = 4
	CostStartVideo    = 20
	CostPollVideo     = 1
	CostDownloadVideo = 0
)

// Generator method names
const (
	MethodGenerateText  = "generate_text"
	MethodGenerateImage = "generate_image"
	MethodStartVideo    = "start_video"
	MethodPollVideo     = "poll_video"
	MethodDownloadVideo = "download_video"
)

// CostRegistry maps generator methods to their unit costs.
// It is safe for concurrent use.
type CostRegistry struct {
	mu          sync.RWMutex
	costs       map[string]int
	defaultCost int
}

// CostRegistryConfig holds configuration for the registry.
type CostRegistryConfig struct {
	// DefaultCost is the cost of unknown methods. Zero uses DefaultCost.
	DefaultCost int

	// Overrides replace the built-in cost of specific methods. A zero
	// override makes a method free.
	Overrides map[string]int
}

// NewCostRegistry creates a registry with the built-in costs.
// If cfg is nil, default configuration is used.
func NewCostRegistry(cfg *CostRegistryConfig) *CostRegistry {
	costs := map[string]int{
		MethodGenerateText:  CostGenerateText,
		MethodGenerateImage: CostGenerateImage,
		MethodStartVideo:    CostStartVideo,
		MethodPollVideo:     CostPollVideo,
		MethodDownloadVideo: CostDownloadVideo,
	}

	defaultCost := DefaultCost
	if cfg != nil {
		if cfg.DefaultCost > 0 {
			defaultCost = cfg.DefaultCost
		}
		for method, cost := range cfg.Overrides {
			if cost >= 0 {
				costs[method] = cost
			}
		}
	}

	return &CostRegistry{costs: costs, defaultCost: defaultCost}
}

// GetCost returns the unit cost of method, or the default for unknown methods.
func (r *CostRegistry) GetCost(method string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if cost, ok := r.costs[method]; ok {
		return cost
	}
	return r.defaultCost
}

// SetCost sets the cost of method. Negative costs are ignored.
func (r *CostRegistry) SetCost(method string, cost int) {
	if cost < 0 {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.costs[method] = cost
}

// KnownMethods returns the registered method names in sorted order.
func (r *CostRegistry) KnownMethods() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	methods := make([]string, 0, len(r.costs))
	for m := range r.costs {
		methods = append(methods, m)
	}
	sort.Strings(methods)
	return methods
}
