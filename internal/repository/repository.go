// Package repository implements persistence for users, events and attendees.
// The Postgres stores use pgx directly (no ORM); MemoryStore backs local
// development and tests with the same semantics.
package repository

import (
	"context"
	"errors"

	"github.com/Shivanand-hulikatti/event-attendee-api/internal/model"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// ErrAlreadyRegistered is returned when the same email registers twice for one event.
var ErrAlreadyRegistered = errors.New("email already registered for this event")

// ErrEmailTaken is returned when an email is already used by an attendee of another event.
var ErrEmailTaken = errors.New("email already used by another attendee")

// EventStore persists events.
type EventStore interface {
	// Create assigns an ID and creation time when absent and stores e.
	Create(ctx context.Context, e *model.Event) error
	// List returns events in insertion order. A zero Limit returns every match.
	List(ctx context.Context, filter model.EventFilter) ([]model.Event, error)
	// Count returns the number of events of the given type, or all events for "".
	Count(ctx context.Context, eventType model.EventType) (int, error)
	GetByID(ctx context.Context, id string) (*model.Event, error)
	// Update merges the non-nil fields of u into the event and returns the result.
	Update(ctx context.Context, id string, u model.EventUpdate) (*model.Event, error)
	// Delete removes the event and its attendees. Deleting a missing id is not an error.
	Delete(ctx context.Context, id string) error
}

// AttendeeStore persists attendee registrations.
type AttendeeStore interface {
	FindByEventAndEmail(ctx context.Context, eventID, email string) (*model.Attendee, error)
	// Register stores a and increments the owning event's attendee total as
	// one unit. Uniqueness on (eventID, email) is enforced by the store.
	Register(ctx context.Context, a *model.Attendee) error
	List(ctx context.Context) ([]model.Attendee, error)
	ListByEvent(ctx context.Context, eventID string) ([]model.Attendee, error)
	Count(ctx context.Context) (int, error)
}

// UserStore persists operator accounts.
type UserStore interface {
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	// Upsert creates the user or replaces the password hash of an existing one.
	Upsert(ctx context.Context, u *model.User) error
}

var (
	_ EventStore    = (*EventRepository)(nil)
	_ AttendeeStore = (*AttendeeRepository)(nil)
	_ UserStore     = (*UserRepository)(nil)
)
