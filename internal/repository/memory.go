package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Shivanand-hulikatti/event-attendee-api/internal/model"
)

// MemoryStore keeps users, events and attendees in process memory.
// It is used for local development (STORAGE_DRIVER=memory) and tests, and
// enforces the same uniqueness and cascade rules as the Postgres schema.
type MemoryStore struct {
	mu        sync.RWMutex
	events    []*model.Event // insertion order
	attendees []*model.Attendee
	users     map[string]*model.User // username -> user
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{users: make(map[string]*model.User)}
}

// Events returns the store's EventStore view.
func (s *MemoryStore) Events() EventStore { return memoryEvents{s} }

// Attendees returns the store's AttendeeStore view.
func (s *MemoryStore) Attendees() AttendeeStore { return memoryAttendees{s} }

// Users returns the store's UserStore view.
func (s *MemoryStore) Users() UserStore { return memoryUsers{s} }

func (s *MemoryStore) findEvent(id string) *model.Event {
	for _, e := range s.events {
		if e.ID == id {
			return e
		}
	}
	return nil
}

type memoryEvents struct{ s *MemoryStore }

func (m memoryEvents) Create(_ context.Context, e *model.Event) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	stored := *e
	m.s.events = append(m.s.events, &stored)
	return nil
}

func (m memoryEvents) List(_ context.Context, filter model.EventFilter) ([]model.Event, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	var out []model.Event
	skipped := 0
	for _, e := range m.s.events {
		if filter.Type != "" && e.Type != filter.Type {
			continue
		}
		if skipped < filter.Offset {
			skipped++
			continue
		}
		if filter.Limit > 0 && len(out) >= filter.Limit {
			break
		}
		out = append(out, *e)
	}
	return out, nil
}

func (m memoryEvents) Count(_ context.Context, eventType model.EventType) (int, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	if eventType == "" {
		return len(m.s.events), nil
	}
	n := 0
	for _, e := range m.s.events {
		if e.Type == eventType {
			n++
		}
	}
	return n, nil
}

func (m memoryEvents) GetByID(_ context.Context, id string) (*model.Event, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	e := m.s.findEvent(id)
	if e == nil {
		return nil, ErrNotFound
	}
	out := *e
	return &out, nil
}

func (m memoryEvents) Update(_ context.Context, id string, u model.EventUpdate) (*model.Event, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	e := m.s.findEvent(id)
	if e == nil {
		return nil, ErrNotFound
	}
	if u.Name != nil {
		e.Name = *u.Name
	}
	if u.Description != nil {
		e.Description = *u.Description
	}
	if u.Date != nil {
		e.Date = *u.Date
	}
	if u.Type != nil {
		e.Type = *u.Type
	}
	out := *e
	return &out, nil
}

func (m memoryEvents) Delete(_ context.Context, id string) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	events := m.s.events[:0]
	for _, e := range m.s.events {
		if e.ID != id {
			events = append(events, e)
		}
	}
	m.s.events = events

	attendees := m.s.attendees[:0]
	for _, a := range m.s.attendees {
		if a.EventID != id {
			attendees = append(attendees, a)
		}
	}
	m.s.attendees = attendees
	return nil
}

type memoryAttendees struct{ s *MemoryStore }

func (m memoryAttendees) FindByEventAndEmail(_ context.Context, eventID, email string) (*model.Attendee, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	for _, a := range m.s.attendees {
		if a.EventID == eventID && a.Email == email {
			out := *a
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

func (m memoryAttendees) Register(_ context.Context, a *model.Attendee) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	event := m.s.findEvent(a.EventID)
	if event == nil {
		return ErrNotFound
	}
	for _, existing := range m.s.attendees {
		if existing.EventID == a.EventID && existing.Email == a.Email {
			return ErrAlreadyRegistered
		}
	}
	for _, existing := range m.s.attendees {
		if existing.Email == a.Email {
			return ErrEmailTaken
		}
	}

	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	stored := *a
	m.s.attendees = append(m.s.attendees, &stored)
	event.AttendeesTotal++
	return nil
}

func (m memoryAttendees) List(_ context.Context) ([]model.Attendee, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	var out []model.Attendee
	for _, a := range m.s.attendees {
		out = append(out, *a)
	}
	return out, nil
}

func (m memoryAttendees) ListByEvent(_ context.Context, eventID string) ([]model.Attendee, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	var out []model.Attendee
	for _, a := range m.s.attendees {
		if a.EventID == eventID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (m memoryAttendees) Count(_ context.Context) (int, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	return len(m.s.attendees), nil
}

type memoryUsers struct{ s *MemoryStore }

func (m memoryUsers) GetByUsername(_ context.Context, username string) (*model.User, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	u, ok := m.s.users[username]
	if !ok {
		return nil, ErrNotFound
	}
	out := *u
	return &out, nil
}

func (m memoryUsers) Upsert(_ context.Context, u *model.User) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	if existing, ok := m.s.users[u.Username]; ok {
		existing.PasswordHash = u.PasswordHash
		u.ID, u.CreatedAt = existing.ID, existing.CreatedAt
		return nil
	}
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	stored := *u
	m.s.users[u.Username] = &stored
	return nil
}
