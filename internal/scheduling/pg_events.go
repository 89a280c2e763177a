package scheduling

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PgEventRecorder struct {
	pool *pgxpool.Pool
}

func NewPgEventRecorder(pool *pgxpool.Pool) *PgEventRecorder {
	return &PgEventRecorder{pool: pool}
}

// EnsureSchema creates the events table on first run.
func (r *PgEventRecorder) EnsureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS events (
			id         BIGSERIAL PRIMARY KEY,
			event_type TEXT NOT NULL,
			entity_id  TEXT,
			payload    JSONB,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`)
	if err != nil {
		return fmt.Errorf("create events table: %w", err)
	}
	return nil
}

func (r *PgEventRecorder) Record(ctx context.Context, ev Event) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO events (event_type, entity_id, payload, created_at)
		VALUES ($1, $2, $3, $4)
	`, ev.EventType, ev.EntityID, ev.Payload, ev.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert event %s: %w", ev.EventType, err)
	}
	return nil
}
