// Package router assembles the HTTP surface: webhook ingress, admin
// endpoints and operational routes.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/brightpaw/booking-inbox/internal/http/handlers"
	httpmiddleware "github.com/brightpaw/booking-inbox/internal/http/middleware"
	"github.com/brightpaw/booking-inbox/pkg/logging"
)

// Config carries the wired handlers and route-level settings.
type Config struct {
	Webhooks *handlers.WebhookHandler
	Admin    *handlers.AdminHandler

	AdminToken     string
	AllowedOrigins []string
	MetricsHandler http.Handler
	Logger         *logging.Logger

	// Requests per second and burst for the webhook ingress; zero disables
	// throttling.
	WebhookRate  float64
	WebhookBurst int
}

// New builds the chi router.
func New(cfg Config) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}
	if len(cfg.AllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.AllowedOrigins))
	}

	r.Group(func(public chi.Router) {
		public.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
		})
		if cfg.MetricsHandler != nil {
			public.Method(http.MethodGet, "/metrics", cfg.MetricsHandler)
		}

		public.Route("/webhooks", func(wh chi.Router) {
			if cfg.WebhookRate > 0 {
				wh.Use(httpmiddleware.RateLimit(cfg.WebhookRate, cfg.WebhookBurst))
			}
			wh.Post("/sms", cfg.Webhooks.HandleSMS)
			wh.Post("/rover", cfg.Webhooks.HandleRover)
		})
	})

	r.Route("/admin", func(admin chi.Router) {
		admin.Use(httpmiddleware.BearerToken(cfg.AdminToken))
		admin.Get("/messages/{id}", cfg.Admin.GetMessage)
		admin.Post("/messages/{id}/read", cfg.Admin.MarkMessageRead)
		admin.Delete("/messages", cfg.Admin.ClearMessages)
		admin.Get("/bookings", cfg.Admin.ListBookings)
		admin.Post("/bookings/{id}/confirm", cfg.Admin.ConfirmBooking)
		admin.Post("/bookings/{id}/decline", cfg.Admin.DeclineBooking)
		admin.Post("/reparse", cfg.Admin.RunReparse)
	})

	return r
}
