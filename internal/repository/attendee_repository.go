package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Shivanand-hulikatti/event-attendee-api/internal/model"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"

	constraintEventEmail = "attendees_event_email_key"
	constraintEmail      = "attendees_email_key"
)

const attendeeColumns = `id, name, email, phone, event_id, created_at`

// AttendeeRepository handles Postgres persistence for attendees.
type AttendeeRepository struct {
	db *pgxpool.Pool
}

// NewAttendeeRepository constructs an AttendeeRepository.
func NewAttendeeRepository(db *pgxpool.Pool) *AttendeeRepository {
	return &AttendeeRepository{db: db}
}

// FindByEventAndEmail returns the attendee registered with email for
// eventID, or ErrNotFound.
func (r *AttendeeRepository) FindByEventAndEmail(ctx context.Context, eventID, email string) (*model.Attendee, error) {
	var a model.Attendee
	err := r.db.QueryRow(ctx,
		`SELECT `+attendeeColumns+` FROM attendees WHERE event_id = $1 AND email = $2`,
		eventID, email,
	).Scan(&a.ID, &a.Name, &a.Email, &a.Phone, &a.EventID, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find attendee: %w", err)
	}
	return &a, nil
}

// Register inserts the attendee and bumps the event's attendees_total in a
// single transaction.
//
// The (event_id, email) unique constraint decides concurrent duplicates:
// of two racing inserts only one commits, and the counter is incremented
// only inside the transaction whose insert succeeded. A crash between the
// two statements rolls both back.
func (r *AttendeeRepository) Register(ctx context.Context, a *model.Attendee) (err error) {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	_, err = tx.Exec(ctx,
		`INSERT INTO attendees (id, name, email, phone, event_id, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		a.ID, a.Name, a.Email, a.Phone, a.EventID, a.CreatedAt,
	)
	if err != nil {
		return translateInsertError(err)
	}

	tag, err := tx.Exec(ctx,
		`UPDATE events SET attendees_total = attendees_total + 1 WHERE id = $1`,
		a.EventID,
	)
	if err != nil {
		return fmt.Errorf("increment attendees_total: %w", err)
	}
	if tag.RowsAffected() == 0 {
		err = ErrNotFound
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// List returns every attendee in registration order.
func (r *AttendeeRepository) List(ctx context.Context) ([]model.Attendee, error) {
	return r.query(ctx,
		`SELECT `+attendeeColumns+` FROM attendees ORDER BY seq ASC`,
	)
}

// ListByEvent returns the attendees of one event in registration order.
func (r *AttendeeRepository) ListByEvent(ctx context.Context, eventID string) ([]model.Attendee, error) {
	return r.query(ctx,
		`SELECT `+attendeeColumns+` FROM attendees WHERE event_id = $1 ORDER BY seq ASC`,
		eventID,
	)
}

// Count returns the number of attendees across all events.
func (r *AttendeeRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM attendees`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count attendees: %w", err)
	}
	return n, nil
}

func (r *AttendeeRepository) query(ctx context.Context, sql string, args ...any) ([]model.Attendee, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list attendees: %w", err)
	}
	defer rows.Close()

	var attendees []model.Attendee
	for rows.Next() {
		var a model.Attendee
		if err := rows.Scan(&a.ID, &a.Name, &a.Email, &a.Phone, &a.EventID, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan attendee: %w", err)
		}
		attendees = append(attendees, a)
	}
	return attendees, rows.Err()
}

func translateInsertError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == pgUniqueViolation && pgErr.ConstraintName == constraintEventEmail:
			return ErrAlreadyRegistered
		case pgErr.Code == pgUniqueViolation && pgErr.ConstraintName == constraintEmail:
			return ErrEmailTaken
		case pgErr.Code == pgForeignKeyViolation:
			return ErrNotFound
		}
	}
	return fmt.Errorf("insert attendee: %w", err)
}
