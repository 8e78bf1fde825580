package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
)

// RouterConfig carries the transport settings for NewRouter.
type RouterConfig struct {
	CORSOrigins  []string
	RateLimitRPM int
}

// NewRouter builds and returns the Chi router with all routes configured.
// Catalog and review reads are public, account and booking routes require a
// bearer token, and catalog writes additionally require an admin.
func NewRouter(h *Handlers, tokens TokenVerifier, db dbPinger, redis redisPinger, cfg RouterConfig, log *slog.Logger) *chi.Mux {
	if cfg.RateLimitRPM <= 0 {
		cfg.RateLimitRPM = 120
	}
	if len(cfg.CORSOrigins) == 0 {
		cfg.CORSOrigins = []string{"*"}
	}

	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))
	r.Use(httprate.LimitByIP(cfg.RateLimitRPM, time.Minute))

	authed := Authenticate(tokens, h.svc, log)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", HealthHandlerFunc(db, redis, log))

		r.Post("/auth/register", h.Register)
		r.Post("/auth/login", h.Login)

		r.Get("/destinations", h.ListDestinations)
		r.Get("/destinations/{id}", h.GetDestination)
		r.Get("/packages", h.ListPackages)
		r.Get("/packages/{id}", h.GetPackage)
		r.Get("/reviews", h.ListReviews)

		r.Group(func(r chi.Router) {
			r.Use(authed)

			r.Get("/users/me", h.Me)

			r.Get("/bookings", h.ListBookings)
			r.Post("/bookings", h.CreateBooking)
			r.Get("/bookings/{id}", h.GetBooking)
			r.Put("/bookings/{id}/cancel", h.CancelBooking)

			r.Post("/reviews", h.CreateReview)

			r.Group(func(r chi.Router) {
				r.Use(RequireAdmin)

				r.Post("/destinations", h.CreateDestination)
				r.Put("/destinations/{id}", h.UpdateDestination)
				r.Delete("/destinations/{id}", h.DeleteDestination)

				r.Post("/packages", h.CreatePackage)
				r.Put("/packages/{id}", h.UpdatePackage)
				r.Delete("/packages/{id}", h.DeletePackage)
			})
		})
	})

	return r
}

// Ensure chi.Mux implements http.Handler.
var _ http.Handler = (*chi.Mux)(nil)
