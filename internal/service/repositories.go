package service

import (
	"context"
	"time"

	"github.com/creative-studio/internal/models"
	"github.com/creative-studio/internal/storage"
	"github.com/creative-studio/internal/types"
)

// UserRepository defines the user ledger the services need
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	AddCredits(ctx context.Context, id string, amount int64) (*models.User, error)
}

// PanelGuard marks a panel's request as in flight
type PanelGuard interface {
	Acquire(ctx context.Context, userID string, tool types.ToolID, ttl time.Duration) (*storage.Lease, bool, error)
	Release(ctx context.Context, lease *storage.Lease) error
}

// HistoryStore keeps a panel's most-recent-first artifacts
type HistoryStore interface {
	Prepend(ctx context.Context, userID string, artifact *models.Artifact) error
	List(ctx context.Context, userID string, tool types.ToolID) ([]*models.Artifact, error)
	Clear(ctx context.Context, userID string, tool types.ToolID) error
}

// OutputStore keeps a panel's current artifact
type OutputStore interface {
	SetCurrent(ctx context.Context, userID string, artifact *models.Artifact) error
	GetCurrent(ctx context.Context, userID string, tool types.ToolID) (*models.Artifact, error)
}

// SessionStore keeps the active navigation entry
type SessionStore interface {
	SetActiveTool(ctx context.Context, userID string, tool types.ToolID) error
	GetActiveTool(ctx context.Context, userID string) (types.ToolID, error)
}

// VideoJobStore persists and queues video jobs
type VideoJobStore interface {
	Save(ctx context.Context, job *models.VideoJob) error
	Get(ctx context.Context, id string) (*models.VideoJob, error)
	Enqueue(ctx context.Context, id string) error
}

// EventRecorder writes generation events to the usage log
type EventRecorder interface {
	Record(ctx context.Context, events ...*models.GenerationEvent) error
}

// UsageReader aggregates the usage log
type UsageReader interface {
	UsageByUser(ctx context.Context, userID string) ([]*models.ToolUsage, error)
}
