package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Shivanand-hulikatti/event-attendee-api/internal/model"
	"github.com/Shivanand-hulikatti/event-attendee-api/internal/repository"
)

// Paging defaults applied when a request omits or mangles page and limit.
const (
	DefaultPage  = 1
	DefaultLimit = 2
	MaxLimit     = 100
)

// EventService orchestrates event-related business operations.
type EventService struct {
	events repository.EventStore
}

// NewEventService constructs an EventService.
func NewEventService(events repository.EventStore) *EventService {
	return &EventService{events: events}
}

// CreateEvent validates the request and stores a new event with a zero
// attendee total.
func (s *EventService) CreateEvent(ctx context.Context, req model.CreateEventRequest) (*model.Event, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return nil, err
	}

	event := &model.Event{
		Name:        req.Name,
		Description: req.Description,
		Date:        date,
		Type:        model.EventType(req.Type),
	}
	if err := s.events.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	return event, nil
}

// GetEvent returns a single event by ID.
func (s *EventService) GetEvent(ctx context.Context, id string) (*model.Event, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	event, err := s.events.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

// ListEvents returns one page of all events and the unfiltered total.
func (s *EventService) ListEvents(ctx context.Context, page, limit int) (*model.EventPage, error) {
	return s.FilterEvents(ctx, "", page, limit)
}

// ListAllEvents returns every event, unpaginated.
func (s *EventService) ListAllEvents(ctx context.Context) ([]model.Event, error) {
	events, err := s.events.List(ctx, model.EventFilter{})
	if err != nil {
		return nil, fmt.Errorf("list all events: %w", err)
	}
	return events, nil
}

// FilterEvents returns one page of events of the given type ("" for all)
// and the total count of matching events.
func (s *EventService) FilterEvents(ctx context.Context, eventType string, page, limit int) (*model.EventPage, error) {
	page, limit = NormalizePage(page, limit)
	typ := model.EventType(strings.TrimSpace(eventType))

	events, err := s.events.List(ctx, model.EventFilter{
		Type:   typ,
		Offset: (page - 1) * limit,
		Limit:  limit,
	})
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	total, err := s.events.Count(ctx, typ)
	if err != nil {
		return nil, fmt.Errorf("count events: %w", err)
	}

	if events == nil {
		events = []model.Event{}
	}
	return &model.EventPage{Events: events, Total: total}, nil
}

// UpdateEvent merges the supplied fields into the event. The attendee total
// is not writable here. Returns repository.ErrNotFound for an unknown id.
func (s *EventService) UpdateEvent(ctx context.Context, id string, req model.UpdateEventRequest) (*model.Event, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	if req.Name != nil {
		trimmed := strings.TrimSpace(*req.Name)
		req.Name = &trimmed
	}
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	update := model.EventUpdate{
		Name:        req.Name,
		Description: req.Description,
	}
	if req.Date != nil {
		date, err := parseDate(*req.Date)
		if err != nil {
			return nil, err
		}
		update.Date = &date
	}
	if req.Type != nil {
		typ := model.EventType(*req.Type)
		update.Type = &typ
	}

	event, err := s.events.Update(ctx, id, update)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("update event: %w", err)
	}
	return event, nil
}

// DeleteEvent removes the event. An unknown id is not an error.
func (s *EventService) DeleteEvent(ctx context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	if err := s.events.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}

// NormalizePage replaces non-positive page or limit values with the
// defaults and caps limit at MaxLimit.
func NormalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return page, limit
}
