package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"devevent/internal/delivery/http/controllers"
	"devevent/internal/delivery/http/middleware"
	"devevent/internal/domain"
)

// Controllers groups the handlers mounted by NewRouter.
type Controllers struct {
	Events   *controllers.EventController
	Bookings *controllers.BookingController
	Auth     *controllers.AuthController
	Health   *controllers.HealthController
}

// NewRouter mounts every route and wraps the mux in CORS and request logging.
func NewRouter(c Controllers, verifier domain.TokenVerifier, allowedOrigins []string, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()
	auth := middleware.RequireAuth(verifier, logger)

	mux.HandleFunc("GET /healthz", c.Health.Health)

	// Events
	mux.HandleFunc("GET /events", c.Events.ListEvents)
	mux.HandleFunc("GET /events/{slug}", c.Events.GetEventBySlug)
	mux.HandleFunc("POST /events", auth(c.Events.CreateEvent))
	mux.HandleFunc("PATCH /events/{eventID}", auth(c.Events.UpdateEvent))
	mux.HandleFunc("DELETE /events/{eventID}", auth(c.Events.DeleteEvent))

	// Bookings
	mux.HandleFunc("POST /events/{eventID}/bookings", c.Bookings.CreateBooking)
	mux.HandleFunc("GET /events/{eventID}/bookings", auth(c.Bookings.ListBookings))

	// Auth
	mux.HandleFunc("POST /auth/login", c.Auth.Login)

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return middleware.LoggingMiddleware(logger, middleware.CORS(allowedOrigins, mux))
}
