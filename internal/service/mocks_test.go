package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/Shivanand-hulikatti/event-attendee-api/internal/model"
)

type MockEventStore struct {
	mock.Mock
}

func (m *MockEventStore) Create(ctx context.Context, e *model.Event) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockEventStore) List(ctx context.Context, filter model.EventFilter) ([]model.Event, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Event), args.Error(1)
}

func (m *MockEventStore) Count(ctx context.Context, eventType model.EventType) (int, error) {
	args := m.Called(ctx, eventType)
	return args.Int(0), args.Error(1)
}

func (m *MockEventStore) GetByID(ctx context.Context, id string) (*model.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Event), args.Error(1)
}

func (m *MockEventStore) Update(ctx context.Context, id string, u model.EventUpdate) (*model.Event, error) {
	args := m.Called(ctx, id, u)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Event), args.Error(1)
}

func (m *MockEventStore) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockAttendeeStore struct {
	mock.Mock
}

func (m *MockAttendeeStore) FindByEventAndEmail(ctx context.Context, eventID, email string) (*model.Attendee, error) {
	args := m.Called(ctx, eventID, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Attendee), args.Error(1)
}

func (m *MockAttendeeStore) Register(ctx context.Context, a *model.Attendee) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockAttendeeStore) List(ctx context.Context) ([]model.Attendee, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Attendee), args.Error(1)
}

func (m *MockAttendeeStore) ListByEvent(ctx context.Context, eventID string) ([]model.Attendee, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Attendee), args.Error(1)
}

func (m *MockAttendeeStore) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}
