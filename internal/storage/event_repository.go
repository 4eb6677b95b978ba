package storage

import (
	"context"
	"fmt"

	"github.com/creative-studio/internal/models"
	"github.com/creative-studio/internal/types"
)

const generationEventsDDL = `
	CREATE TABLE IF NOT EXISTS generation_events (
		event_id     String,
		user_id      String,
		tool         LowCardinality(String),
		action       LowCardinality(String),
		success      UInt8,
		duration_ms  Int64,
		error        String,
		created_at   DateTime64(3, 'UTC')
	) ENGINE = MergeTree()
	PARTITION BY toYYYYMM(created_at)
	ORDER BY (user_id, tool, created_at)
	TTL toDateTime(created_at) + INTERVAL 180 DAY
`

// EventRepository writes and aggregates generation events in ClickHouse
type EventRepository struct {
	db *ClickHouseDB
}

// NewEventRepository creates a new event repository
func NewEventRepository(db *ClickHouseDB) *EventRepository {
	return &EventRepository{db: db}
}

// EnsureSchema creates the events table when missing
func (r *EventRepository) EnsureSchema(ctx context.Context) error {
	if err := r.db.Exec(ctx, generationEventsDDL); err != nil {
		return fmt.Errorf("failed to create generation_events: %w", err)
	}
	return nil
}

// Record inserts events in one batch
func (r *EventRepository) Record(ctx context.Context, events ...*models.GenerationEvent) error {
	if len(events) == 0 {
		return nil
	}

	batch, err := r.db.Conn().PrepareBatch(ctx, `
		INSERT INTO generation_events (event_id, user_id, tool, action, success, duration_ms, error, created_at)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare batch: %w", err)
	}

	for _, e := range events {
		var success uint8
		if e.Success {
			success = 1
		}
		if err := batch.Append(e.EventID, e.UserID, string(e.Tool), e.Action, success, e.DurationMs, e.Error, e.CreatedAt); err != nil {
			return fmt.Errorf("failed to append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("failed to send batch: %w", err)
	}
	return nil
}

// UsageByUser aggregates a user's events per tool
func (r *EventRepository) UsageByUser(ctx context.Context, userID string) ([]*models.ToolUsage, error) {
	query := `
		SELECT tool,
		       count() AS total,
		       countIf(success = 1) AS succeeded,
		       countIf(success = 0) AS failed,
		       avg(duration_ms) AS avg_ms
		FROM generation_events
		WHERE user_id = ?
		GROUP BY tool
		ORDER BY total DESC
	`

	rows, err := r.db.Conn().Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query usage: %w", err)
	}
	defer rows.Close()

	var usage []*models.ToolUsage
	for rows.Next() {
		var (
			u    models.ToolUsage
			tool string
		)
		if err := rows.Scan(&tool, &u.Total, &u.Succeeded, &u.Failed, &u.AvgMs); err != nil {
			return nil, fmt.Errorf("failed to scan usage: %w", err)
		}
		u.Tool = types.ToolID(tool)
		usage = append(usage, &u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate usage: %w", err)
	}
	return usage, nil
}
