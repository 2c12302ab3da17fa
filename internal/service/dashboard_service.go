package service

import (
	"context"
	"fmt"

	"github.com/Shivanand-hulikatti/event-attendee-api/internal/model"
	"github.com/Shivanand-hulikatti/event-attendee-api/internal/repository"
)

// DashboardService computes the aggregate counts shown on the dashboard.
type DashboardService struct {
	events    repository.EventStore
	attendees repository.AttendeeStore
}

// NewDashboardService constructs a DashboardService.
func NewDashboardService(events repository.EventStore, attendees repository.AttendeeStore) *DashboardService {
	return &DashboardService{events: events, attendees: attendees}
}

// Summary returns the total number of events and attendees.
func (s *DashboardService) Summary(ctx context.Context) (*model.DashboardSummary, error) {
	totalEvents, err := s.events.Count(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("count events: %w", err)
	}
	totalAttendees, err := s.attendees.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count attendees: %w", err)
	}
	return &model.DashboardSummary{TotalEvents: totalEvents, TotalAttendees: totalAttendees}, nil
}
