package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/luizhmmachado/school-diary/internal/dates"
	"github.com/luizhmmachado/school-diary/internal/model"
)

// EventRepository handles event data access, partitioned by owner like
// ClassRepository.
type EventRepository struct {
	pool *pgxpool.Pool
}

// NewEventRepository creates a new EventRepository.
func NewEventRepository(pool *pgxpool.Pool) *EventRepository {
	return &EventRepository{pool: pool}
}

const eventColumns = `owner_id, event_id, class_id, name, date, time, grade, weight, color, created_at`

func scanEvent(row pgx.Row) (*model.Event, error) {
	e := &model.Event{}
	var day time.Time
	err := row.Scan(&e.OwnerID, &e.EventID, &e.ClassID, &e.Name, &day,
		&e.Time, &e.Grade, &e.Weight, &e.Color, &e.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	e.Date = dates.FromTime(day)
	return e, nil
}

// List retrieves every event in the owner's partition.
func (r *EventRepository) List(ctx context.Context, ownerID string) ([]model.Event, error) {
	return r.queryEvents(ctx,
		`SELECT `+eventColumns+` FROM events WHERE owner_id = $1 ORDER BY date, time, created_at`,
		ownerID)
}

// ListByClass retrieves the owner's events referencing one class (secondary
// index lookup, used by the cascade delete).
func (r *EventRepository) ListByClass(ctx context.Context, ownerID, classID string) ([]model.Event, error) {
	return r.queryEvents(ctx,
		`SELECT `+eventColumns+` FROM events WHERE owner_id = $1 AND class_id = $2 ORDER BY date, time, created_at`,
		ownerID, classID)
}

func (r *EventRepository) queryEvents(ctx context.Context, sql string, args ...interface{}) ([]model.Event, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []model.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, *e)
	}
	return events, rows.Err()
}

// Get retrieves one event by partition and item key.
func (r *EventRepository) Get(ctx context.Context, ownerID, eventID string) (*model.Event, error) {
	return scanEvent(r.pool.QueryRow(ctx,
		`SELECT `+eventColumns+` FROM events WHERE owner_id = $1 AND event_id = $2`,
		ownerID, eventID))
}

// Put inserts a new event.
func (r *EventRepository) Put(ctx context.Context, e *model.Event) error {
	day := time.Date(e.Date.Year, e.Date.Month, e.Date.Day, 0, 0, 0, 0, time.UTC)
	return r.pool.QueryRow(ctx,
		`INSERT INTO events (owner_id, event_id, class_id, name, date, time, grade, weight, color)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING created_at`,
		e.OwnerID, e.EventID, e.ClassID, e.Name, day, e.Time, e.Grade, e.Weight, e.Color,
	).Scan(&e.CreatedAt)
}

// Update replaces the mutable fields of an existing event.
func (r *EventRepository) Update(ctx context.Context, e *model.Event) error {
	day := time.Date(e.Date.Year, e.Date.Month, e.Date.Day, 0, 0, 0, 0, time.UTC)
	tag, err := r.pool.Exec(ctx,
		`UPDATE events SET class_id = $3, name = $4, date = $5, time = $6, grade = $7,
			weight = $8, color = $9
		 WHERE owner_id = $1 AND event_id = $2`,
		e.OwnerID, e.EventID, e.ClassID, e.Name, day, e.Time, e.Grade, e.Weight, e.Color,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes an event. Removing an already-deleted event succeeds, so
// cascade retries stay safe.
func (r *EventRepository) Delete(ctx context.Context, ownerID, eventID string) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM events WHERE owner_id = $1 AND event_id = $2`, ownerID, eventID)
	return err
}
