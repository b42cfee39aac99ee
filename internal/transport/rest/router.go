package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"

	"github.com/frahmantamala/plan-checkout/api"
	"github.com/frahmantamala/plan-checkout/internal/checkout"
	"github.com/frahmantamala/plan-checkout/internal/transport/middleware"
	"github.com/frahmantamala/plan-checkout/internal/transport/swagger"
)

type RouterOptions struct {
	AllowedOrigins string
	// Validator is the OpenAPI request validator; nil disables validation.
	Validator func(http.Handler) http.Handler
	// DB is pinged by the health check when the plan store is Postgres.
	DB *sql.DB
}

func RegisterAllRoutes(router *chi.Mux, checkoutHandler *checkout.Handler, opts RouterOptions, logger *slog.Logger) {
	healthHandler := NewHealthHandler(opts.DB)

	router.Use(middleware.CORS(opts.AllowedOrigins))
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware)

	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		w.Write(api.OpenAPISpec)
	})
	router.Handle("/swagger/*", swagger.Handler())

	router.Group(func(r chi.Router) {
		if opts.Validator != nil {
			r.Use(opts.Validator)
		}

		r.Route("/api/v1", func(r chi.Router) {
			r.Get("/health", healthHandler.healthCheckHandler)
			r.Get("/ping", healthHandler.pingHandler)

			if checkoutHandler != nil {
				r.Post("/checkout", checkoutHandler.Checkout)
			}
		})

		// legacy path kept for existing storefronts
		if checkoutHandler != nil {
			r.Post("/api/process-payment", checkoutHandler.Checkout)
		}
	})
}
