package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/creative-studio/internal/adapter"
	"github.com/creative-studio/internal/models"
	"github.com/creative-studio/internal/storage"
	"github.com/creative-studio/internal/storage/storagetest"
)

const testUserID = "usr_test"

type memoryEvents struct {
	mu     sync.Mutex
	events []*models.GenerationEvent
}

func (m *memoryEvents) Record(ctx context.Context, events ...*models.GenerationEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, events...)
	return nil
}

func (m *memoryEvents) all() []*models.GenerationEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*models.GenerationEvent, len(m.events))
	copy(out, m.events)
	return out
}

type fixture struct {
	studio  *Studio
	gen     *adapter.FakeGenerator
	users   *storagetest.Users
	events  *memoryEvents
	mr      *miniredis.Miniredis
	cache   *storage.RedisCache
	guard   *storage.PanelGuard
	outputs *storage.OutputStore
	history *storage.HistoryStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	cache, mr := storagetest.NewRedis(t)
	f := &fixture{
		gen:     &adapter.FakeGenerator{},
		users:   storagetest.NewUsers(&models.User{ID: testUserID, Name: "Ada", Email: "ada@example.com", Credits: 100}),
		events:  &memoryEvents{},
		mr:      mr,
		cache:   cache,
		guard:   storage.NewPanelGuard(cache),
		outputs: storage.NewOutputStore(cache, time.Hour),
		history: storage.NewHistoryStore(cache, 50, time.Hour),
	}
	f.studio = NewStudio(StudioDeps{
		Users:     f.users,
		Guard:     f.guard,
		Outputs:   f.outputs,
		History:   f.history,
		Events:    f.events,
		Generator: f.gen,
		GuardTTL:  time.Minute,
	})
	return f
}
