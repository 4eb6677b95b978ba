package ratelimit

import (
	"sync"
	"testing"
)

func TestCostRegistry_Defaults(t *testing.T) {
	registry := NewCostRegistry(nil)

	tests := []struct {
		method string
		want   int
	}{
		{MethodGenerateText, CostGenerateText},
		{MethodGenerateImage, CostGenerateImage},
		{MethodStartVideo, CostStartVideo},
		{MethodPollVideo, CostPollVideo},
		{MethodDownloadVideo, 0},
		{"unknown_method", DefaultCost},
	}
	for _, tt := range tests {
		if got := registry.GetCost(tt.method); got != tt.want {
			t.Errorf("GetCost(%q) = %d, want %d", tt.method, got, tt.want)
		}
	}
}

func TestCostRegistry_ConfigOverrides(t *testing.T) {
	registry := NewCostRegistry(&CostRegistryConfig{
		DefaultCost: 7,
		Overrides: map[string]int{
			MethodGenerateImage: 10,
			MethodPollVideo:     0,
			MethodGenerateText:  -3,
		},
	})

	if got := registry.GetCost(MethodGenerateImage); got != 10 {
		t.Errorf("image cost = %d, want 10", got)
	}
	if got := registry.GetCost(MethodPollVideo); got != 0 {
		t.Errorf("zero override should make polling free, got %d", got)
	}
	if got := registry.GetCost(MethodGenerateText); got != CostGenerateText {
		t.Errorf("negative override should be ignored, got %d", got)
	}
	if got := registry.GetCost("other"); got != 7 {
		t.Errorf("default cost = %d, want 7", got)
	}
}

func TestCostRegistry_SetCost(t *testing.T) {
	registry := NewCostRegistry(nil)

	registry.SetCost("custom", 3)
	registry.SetCost(MethodStartVideo, -1)

	if got := registry.GetCost("custom"); got != 3 {
		t.Errorf("GetCost(custom) = %d, want 3", got)
	}
	if got := registry.GetCost(MethodStartVideo); got != CostStartVideo {
		t.Errorf("negative SetCost should be ignored, got %d", got)
	}

	methods := registry.KnownMethods()
	if len(methods) != 6 || methods[0] != "custom" {
		t.Errorf("KnownMethods() = %v", methods)
	}
}

func TestCostRegistry_ConcurrentAccess(t *testing.T) {
	registry := NewCostRegistry(nil)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			registry.SetCost(MethodGenerateImage, i)
		}(i)
		go func() {
			defer wg.Done()
			_ = registry.GetCost(MethodGenerateImage)
			_ = registry.KnownMethods()
		}()
	}
	wg.Wait()
}
