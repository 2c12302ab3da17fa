package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Shivanand-hulikatti/event-attendee-api/internal/metrics"
	"github.com/Shivanand-hulikatti/event-attendee-api/internal/model"
	"github.com/Shivanand-hulikatti/event-attendee-api/internal/repository"
)

// AttendeeService orchestrates attendee registration and listing.
type AttendeeService struct {
	attendees repository.AttendeeStore
}

// NewAttendeeService constructs an AttendeeService.
func NewAttendeeService(attendees repository.AttendeeStore) *AttendeeService {
	return &AttendeeService{attendees: attendees}
}

// Register adds an attendee to an event and bumps the event's attendee
// total. A second registration with the same email for the same event
// fails with repository.ErrAlreadyRegistered and writes nothing.
func (s *AttendeeService) Register(ctx context.Context, req model.RegisterAttendeeRequest) (*model.Attendee, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Phone = strings.TrimSpace(req.Phone)
	req.EventID = strings.TrimSpace(req.EventID)
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	if err := checkID(req.EventID); err != nil {
		return nil, err
	}

	if _, err := s.attendees.FindByEventAndEmail(ctx, req.EventID, req.Email); err == nil {
		metrics.RegistrationsTotal.WithLabelValues(metrics.OutcomeDuplicate).Inc()
		return nil, repository.ErrAlreadyRegistered
	} else if !errors.Is(err, repository.ErrNotFound) {
		metrics.RegistrationsTotal.WithLabelValues(metrics.OutcomeError).Inc()
		return nil, fmt.Errorf("check existing registration: %w", err)
	}

	attendee := &model.Attendee{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		EventID: req.EventID,
	}
	err := s.attendees.Register(ctx, attendee)
	switch {
	case err == nil:
		metrics.RegistrationsTotal.WithLabelValues(metrics.OutcomeRegistered).Inc()
		return attendee, nil
	case errors.Is(err, repository.ErrAlreadyRegistered):
		metrics.RegistrationsTotal.WithLabelValues(metrics.OutcomeDuplicate).Inc()
		return nil, repository.ErrAlreadyRegistered
	case errors.Is(err, repository.ErrEmailTaken):
		// A racing insert for this same event may have tripped the global
		// email constraint first; report that case as a duplicate.
		if _, findErr := s.attendees.FindByEventAndEmail(ctx, req.EventID, req.Email); findErr == nil {
			metrics.RegistrationsTotal.WithLabelValues(metrics.OutcomeDuplicate).Inc()
			return nil, repository.ErrAlreadyRegistered
		}
		metrics.RegistrationsTotal.WithLabelValues(metrics.OutcomeEmailTaken).Inc()
		return nil, repository.ErrEmailTaken
	case errors.Is(err, repository.ErrNotFound):
		metrics.RegistrationsTotal.WithLabelValues(metrics.OutcomeNotFound).Inc()
		return nil, repository.ErrNotFound
	default:
		metrics.RegistrationsTotal.WithLabelValues(metrics.OutcomeError).Inc()
		return nil, fmt.Errorf("register attendee: %w", err)
	}
}

// ListAttendees returns every attendee across all events.
func (s *AttendeeService) ListAttendees(ctx context.Context) ([]model.Attendee, error) {
	attendees, err := s.attendees.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list attendees: %w", err)
	}
	return attendees, nil
}

// ListEventAttendees returns the attendees registered for one event.
func (s *AttendeeService) ListEventAttendees(ctx context.Context, eventID string) ([]model.Attendee, error) {
	eventID = strings.TrimSpace(eventID)
	if err := checkID(eventID); err != nil {
		return nil, err
	}
	attendees, err := s.attendees.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list event attendees: %w", err)
	}
	return attendees, nil
}
