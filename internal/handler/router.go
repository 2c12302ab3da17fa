package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/Shivanand-hulikatti/event-attendee-api/internal/auth"
	"github.com/Shivanand-hulikatti/event-attendee-api/internal/config"
	"github.com/Shivanand-hulikatti/event-attendee-api/internal/metrics"
	"github.com/Shivanand-hulikatti/event-attendee-api/internal/service"
)

// Services bundles the business services the router dispatches to.
type Services struct {
	Auth      *service.AuthService
	Events    *service.EventService
	Attendees *service.AttendeeService
	Dashboard *service.DashboardService
}

// NewRouter builds the chi router with the global middleware stack, the
// public login route and the token-protected API.
func NewRouter(svc Services, tokens *auth.JWTManager, cors config.CORSConfig, logger zerolog.Logger) http.Handler {
	authHandler := NewAuthHandler(svc.Auth)
	eventHandler := NewEventHandler(svc.Events)
	attendeeHandler := NewAttendeeHandler(svc.Attendees)
	dashboardHandler := NewDashboardHandler(svc.Dashboard)

	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer) // recover from panics, return 500
	r.Use(chimiddleware.RequestID) // attach request IDs
	r.Use(chimiddleware.RealIP)    // trust X-Forwarded-For
	r.Use(Logger(logger))
	r.Use(metrics.HTTPMiddleware)
	r.Use(CORS(cors))

	r.Get("/health", HealthCheck)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/login", authHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(RequireAuth(tokens))

			r.Route("/events", func(r chi.Router) {
				r.Post("/", eventHandler.CreateEvent)
				r.Get("/", eventHandler.ListEvents)
				r.Get("/all", eventHandler.ListAllEvents)
				r.Get("/filter", eventHandler.FilterEvents)
				r.Get("/{id}", eventHandler.GetEvent)
				r.Put("/{id}", eventHandler.UpdateEvent)
				r.Delete("/{id}", eventHandler.DeleteEvent)
			})

			r.Post("/attendees", attendeeHandler.Register)
			r.Get("/attendees", attendeeHandler.ListByEvent)
			r.Get("/all-attendees", attendeeHandler.ListAll)
			r.Get("/dashboard", dashboardHandler.Summary)
		})
	})

	return r
}
