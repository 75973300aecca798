package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/genpass/genpass-go/internal/model"
	"github.com/google/uuid"
)

var ErrNoDatabase = errors.New("event store has no database")

// EventRepository persists generation events.
type EventRepository struct {
	db *sql.DB
}

// NewEventRepository creates a new EventRepository.
func NewEventRepository(db *sql.DB) *EventRepository {
	return &EventRepository{db: db}
}

// Insert stores an event, assigning an ID and timestamp when unset.
func (r *EventRepository) Insert(ctx context.Context, event *model.GenerationEvent) error {
	if r.db == nil {
		return ErrNoDatabase
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}

	query := `INSERT INTO generation_events
		(id, preset, length, charset_size, attempts, outcome, client_hash, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		event.ID,
		event.Preset,
		event.Length,
		event.CharsetSize,
		event.Attempts,
		event.Outcome,
		event.ClientHash,
		event.CreatedAt,
	)
	return err
}

// StatsSince aggregates events created after since, grouped by preset.
func (r *EventRepository) StatsSince(ctx context.Context, since time.Time) ([]model.PresetStats, error) {
	if r.db == nil {
		return nil, ErrNoDatabase
	}

	query := `SELECT preset,
			COUNT(*),
			COALESCE(SUM(outcome <> ?), 0),
			COALESCE(AVG(CASE WHEN outcome = ? THEN attempts END), 0)
		FROM generation_events
		WHERE created_at > ?
		GROUP BY preset
		ORDER BY preset`

	rows, err := r.db.QueryContext(ctx, query, model.OutcomeOK, model.OutcomeOK, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []model.PresetStats
	for rows.Next() {
		var s model.PresetStats
		if err := rows.Scan(&s.Preset, &s.Total, &s.Failed, &s.MeanAttempts); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}

	return stats, rows.Err()
}
