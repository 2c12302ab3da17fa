package handler

import (
	"net/http"

	"github.com/Shivanand-hulikatti/event-attendee-api/internal/model"
	"github.com/Shivanand-hulikatti/event-attendee-api/internal/service"
)

// AttendeeHandler holds the HTTP handlers for attendee registration.
type AttendeeHandler struct {
	svc *service.AttendeeService
}

// NewAttendeeHandler constructs an AttendeeHandler.
func NewAttendeeHandler(svc *service.AttendeeService) *AttendeeHandler {
	return &AttendeeHandler{svc: svc}
}

// Register handles POST /api/attendees
func (h *AttendeeHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterAttendeeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	attendee, err := h.svc.Register(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err, "failed to register attendee")
		return
	}

	writeJSON(w, http.StatusOK, attendee)
}

// ListAll handles GET /api/all-attendees
func (h *AttendeeHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	attendees, err := h.svc.ListAttendees(r.Context())
	if err != nil {
		writeServiceError(w, r, err, "failed to list attendees")
		return
	}
	if attendees == nil {
		attendees = []model.Attendee{}
	}

	writeJSON(w, http.StatusOK, attendees)
}

// ListByEvent handles GET /api/attendees?eventId
func (h *AttendeeHandler) ListByEvent(w http.ResponseWriter, r *http.Request) {
	attendees, err := h.svc.ListEventAttendees(r.Context(), r.URL.Query().Get("eventId"))
	if err != nil {
		writeServiceError(w, r, err, "failed to list attendees")
		return
	}
	if attendees == nil {
		attendees = []model.Attendee{}
	}

	writeJSON(w, http.StatusOK, attendees)
}

// DashboardHandler serves the aggregate counts.
type DashboardHandler struct {
	svc *service.DashboardService
}

// NewDashboardHandler constructs a DashboardHandler.
func NewDashboardHandler(svc *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

// Summary handles GET /api/dashboard
func (h *DashboardHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.svc.Summary(r.Context())
	if err != nil {
		writeServiceError(w, r, err, "failed to load dashboard")
		return
	}

	writeJSON(w, http.StatusOK, summary)
}
