package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Shivanand-hulikatti/event-attendee-api/internal/model"
)

const eventColumns = `id, name, description, attendees_total, date, type, created_at`

// EventRepository handles Postgres persistence for events.
type EventRepository struct {
	db *pgxpool.Pool
}

// NewEventRepository constructs an EventRepository.
func NewEventRepository(db *pgxpool.Pool) *EventRepository {
	return &EventRepository{db: db}
}

// Create inserts a new event.
func (r *EventRepository) Create(ctx context.Context, e *model.Event) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.Exec(ctx,
		`INSERT INTO events (id, name, description, attendees_total, date, type, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		e.ID, e.Name, e.Description, e.AttendeesTotal, e.Date, string(e.Type), e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

// List returns events in insertion order, optionally filtered by type.
func (r *EventRepository) List(ctx context.Context, filter model.EventFilter) ([]model.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events
		 WHERE ($1 = '' OR type = $1)
		 ORDER BY seq ASC
		 OFFSET $2`
	args := []any{string(filter.Type), filter.Offset}
	if filter.Limit > 0 {
		query += ` LIMIT $3`
		args = append(args, filter.Limit)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
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

// Count returns the number of events matching eventType ("" for all).
func (r *EventRepository) Count(ctx context.Context, eventType model.EventType) (int, error) {
	var n int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM events WHERE ($1 = '' OR type = $1)`,
		string(eventType),
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count events: %w", err)
	}
	return n, nil
}

// GetByID returns a single event or ErrNotFound.
func (r *EventRepository) GetByID(ctx context.Context, id string) (*model.Event, error) {
	e, err := scanEvent(r.db.QueryRow(ctx,
		`SELECT `+eventColumns+` FROM events WHERE id = $1`,
		id,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return e, nil
}

// Update merges the supplied fields and returns the stored event or ErrNotFound.
func (r *EventRepository) Update(ctx context.Context, id string, u model.EventUpdate) (*model.Event, error) {
	var eventType *string
	if u.Type != nil {
		s := string(*u.Type)
		eventType = &s
	}

	e, err := scanEvent(r.db.QueryRow(ctx,
		`UPDATE events SET
		     name = COALESCE($2, name),
		     description = COALESCE($3, description),
		     date = COALESCE($4, date),
		     type = COALESCE($5, type)
		 WHERE id = $1
		 RETURNING `+eventColumns,
		id, u.Name, u.Description, u.Date, eventType,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update event: %w", err)
	}
	return e, nil
}

// Delete removes the event. Attendees go with it via ON DELETE CASCADE.
func (r *EventRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM events WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}

func scanEvent(row pgx.Row) (*model.Event, error) {
	var (
		e         model.Event
		eventType string
	)
	if err := row.Scan(&e.ID, &e.Name, &e.Description, &e.AttendeesTotal, &e.Date, &eventType, &e.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan event: %w", err)
	}
	e.Type = model.EventType(eventType)
	return &e, nil
}
