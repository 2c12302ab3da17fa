// Package model defines the core domain types for the event and attendee API.
package model

import "time"

// EventType enumerates the kinds of event the registry accepts.
type EventType string

// Accepted event types.
const (
	EventTypeConference EventType = "Conference"
	EventTypeWorkshop   EventType = "Workshop"
	EventTypeMeetup     EventType = "Meetup"
)

// Valid reports whether t is one of the enumerated event types.
func (t EventType) Valid() bool {
	switch t {
	case EventTypeConference, EventTypeWorkshop, EventTypeMeetup:
		return true
	}
	return false
}

// Event represents a scheduled event that attendees can register for.
type Event struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Description    string    `json:"description,omitempty"`
	AttendeesTotal int       `json:"attendeesTotal"`
	Date           time.Time `json:"date"`
	Type           EventType `json:"type"`
	CreatedAt      time.Time `json:"createdAt"`
}

// Attendee represents a person registered for a single event.
type Attendee struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	EventID   string    `json:"eventId"`
	CreatedAt time.Time `json:"createdAt"`
}

// User is an operator account allowed to log in.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// EventFilter narrows a paginated event listing. A zero Type matches all.
type EventFilter struct {
	Type   EventType
	Offset int
	Limit  int
}

// EventUpdate carries the fields of an event that a caller may replace.
// Nil fields keep their stored value.
type EventUpdate struct {
	Name        *string
	Description *string
	Date        *time.Time
	Type        *EventType
}

// CreateEventRequest is the payload for creating a new event.
type CreateEventRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	Date        string `json:"date" validate:"required"`
	Type        string `json:"type" validate:"required,oneof=Conference Workshop Meetup"`
}

// UpdateEventRequest is the payload for updating an event. Omitted fields
// are left unchanged.
type UpdateEventRequest struct {
	Name        *string `json:"name" validate:"omitnil,min=1"`
	Description *string `json:"description"`
	Date        *string `json:"date" validate:"omitnil,min=1"`
	Type        *string `json:"type" validate:"omitnil,oneof=Conference Workshop Meetup"`
}

// RegisterAttendeeRequest is the payload for registering for an event.
type RegisterAttendeeRequest struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone" validate:"required"`
	EventID string `json:"eventId" validate:"required"`
}

// LoginRequest is the payload for POST /api/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse carries the issued token.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// EventPage is one page of a listing plus the total matching count.
type EventPage struct {
	Events []Event `json:"events"`
	Total  int     `json:"total"`
}

// DashboardSummary holds the aggregate counts shown on the dashboard.
type DashboardSummary struct {
	TotalEvents    int `json:"totalEvents"`
	TotalAttendees int `json:"totalAttendees"`
}

// MessageResponse is a plain confirmation envelope.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is a standard JSON error envelope.
type ErrorResponse struct {
	Error string `json:"error"`
}
