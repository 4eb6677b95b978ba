package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/creative-studio/internal/adapter"
)

func newTestGenerator(t *testing.T, total, reserved int, priority Priority) (*BudgetedGenerator, *BudgetTracker, *adapter.FakeGenerator) {
	t.Helper()

	tracker, _ := newTestTracker(t, total, reserved)
	fake := &adapter.FakeGenerator{}
	gen, err := NewBudgetedGenerator(&BudgetedGeneratorConfig{
		Generator:    fake,
		Tracker:      tracker,
		CostRegistry: NewCostRegistry(nil),
		Priority:     priority,
		MaxWait:      10 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("NewBudgetedGenerator() error = %v", err)
	}
	return gen, tracker, fake
}

func TestNewBudgetedGenerator_Validation(t *testing.T) {
	tracker, _ := newTestTracker(t, 10, 5)
	registry := NewCostRegistry(nil)

	tests := []struct {
		name string
		cfg  *BudgetedGeneratorConfig
	}{
		{name: "nil config", cfg: nil},
		{name: "no generator", cfg: &BudgetedGeneratorConfig{Tracker: tracker, CostRegistry: registry}},
		{name: "no tracker", cfg: &BudgetedGeneratorConfig{Generator: &adapter.FakeGenerator{}, CostRegistry: registry}},
		{name: "no registry", cfg: &BudgetedGeneratorConfig{Generator: &adapter.FakeGenerator{}, Tracker: tracker}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewBudgetedGenerator(tt.cfg); err == nil {
				t.Error("NewBudgetedGenerator() expected error")
			}
		})
	}

	gen, err := NewBudgetedGenerator(&BudgetedGeneratorConfig{Generator: &adapter.FakeGenerator{}, Tracker: tracker, CostRegistry: registry})
	if err != nil {
		t.Fatalf("NewBudgetedGenerator() error = %v", err)
	}
	if gen.maxWait != DefaultMaxWait || gen.GetPriority() != PriorityHigh {
		t.Errorf("defaults: maxWait = %v, priority = %v", gen.maxWait, gen.GetPriority())
	}
}

func TestBudgetedGenerator_SpendsMethodCost(t *testing.T) {
	gen, tracker, fake := newTestGenerator(t, 100, 60, PriorityHigh)
	ctx := context.Background()

	if _, err := gen.GenerateText(ctx, "hello", ""); err != nil {
		t.Fatalf("GenerateText() error = %v", err)
	}
	if _, err := gen.GenerateImage(ctx, "a fox", "1:1"); err != nil {
		t.Fatalf("GenerateImage() error = %v", err)
	}

	stats, err := tracker.GetUsage(ctx)
	if err != nil {
		t.Fatalf("GetUsage() error = %v", err)
	}
	if want := CostGenerateText + CostGenerateImage; stats.ReservedUsed != want || stats.SharedUsed != 0 {
		t.Errorf("usage = %+v, want %d reserved units", stats, want)
	}
	if len(fake.Calls()) != 2 {
		t.Errorf("underlying calls = %d, want 2", len(fake.Calls()))
	}

	usage, err := tracker.MethodUsage(ctx, []string{MethodGenerateImage})
	if err != nil || usage[MethodGenerateImage] != CostGenerateImage {
		t.Errorf("MethodUsage() = %v, %v", usage, err)
	}
}

func TestBudgetedGenerator_LowPriorityUsesSharedPool(t *testing.T) {
	gen, tracker, _ := newTestGenerator(t, 30, 5, PriorityLow)
	ctx := context.Background()

	if _, err := gen.StartVideo(ctx, "a car"); err != nil {
		t.Fatalf("StartVideo() error = %v", err)
	}
	if _, err := gen.PollVideo(ctx, "operations/x"); err != nil {
		t.Fatalf("PollVideo() error = %v", err)
	}

	stats, _ := tracker.GetUsage(ctx)
	if stats.SharedUsed != CostStartVideo+CostPollVideo || stats.ReservedUsed != 0 {
		t.Errorf("usage = %+v", stats)
	}
}

func TestBudgetedGenerator_ExhaustedBudgetIsProviderUnavailable(t *testing.T) {
	gen, _, fake := newTestGenerator(t, 4, 4, PriorityHigh)
	ctx := context.Background()

	if _, err := gen.GenerateImage(ctx, "a fox", "1:1"); err != nil {
		t.Fatalf("first GenerateImage() error = %v", err)
	}

	_, err := gen.GenerateImage(ctx, "another fox", "1:1")
	if !errors.Is(err, ErrMaxWaitExceeded) || !errors.Is(err, adapter.ErrProviderUnavailable) {
		t.Fatalf("GenerateImage() error = %v, want budget exhaustion", err)
	}
	if n := len(fake.CallsTo("GenerateImage")); n != 1 {
		t.Errorf("underlying image calls = %d, want 1", n)
	}
}

func TestBudgetedGenerator_FreeMethodsSkipBudget(t *testing.T) {
	gen, _, _ := newTestGenerator(t, 1, 1, PriorityHigh)
	ctx := context.Background()

	// exhaust the only unit
	if _, err := gen.GenerateText(ctx, "hello", ""); err != nil {
		t.Fatalf("GenerateText() error = %v", err)
	}

	content, err := gen.DownloadVideo(ctx, "https://example.invalid/v.mp4")
	if err != nil {
		t.Fatalf("DownloadVideo() error = %v", err)
	}
	content.Body.Close()
}

func TestBudgetedGenerator_ContextCancelled(t *testing.T) {
	gen, _, fake := newTestGenerator(t, 10, 5, PriorityHigh)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := gen.GenerateText(ctx, "hello", ""); !errors.Is(err, context.Canceled) {
		t.Fatalf("GenerateText() error = %v, want context.Canceled", err)
	}
	if len(fake.Calls()) != 0 {
		t.Error("cancelled calls must not reach the provider")
	}
	if gen.Underlying() != fake {
		t.Error("Underlying() should return the wrapped generator")
	}
}
