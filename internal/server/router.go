package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/brunesovrbrauns/bdc-manager-app/internal/config"
	"github.com/brunesovrbrauns/bdc-manager-app/internal/domain"
	"github.com/brunesovrbrauns/bdc-manager-app/internal/handler"
	"github.com/brunesovrbrauns/bdc-manager-app/internal/websocket"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter wires HTTP routes and middleware. When no JWT secret is
// configured every route is open.
func NewRouter(cfg config.Config,
	logger *slog.Logger,
	health handler.HealthHandler,
	agents handler.AgentHandler,
	today handler.TodayHandler,
	shifts handler.ShiftHandler,
	storewide handler.StorewideHandler,
	reports handler.ReportHandler,
	ws *websocket.Handler,
) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(NewLoggerMiddleware(logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(httprate.LimitByIP(cfg.RateLimitPerMinute, 1*time.Minute))

	health.RegisterRoutes(r)
	handler.DocsHandler{}.RegisterRoutes(r)
	r.Method("GET", "/metrics", promhttp.Handler())

	authenticate := passthrough
	requireRole := func(...domain.AgentRole) func(http.Handler) http.Handler { return passthrough }
	if cfg.AuthEnabled() {
		authenticate = AuthMiddleware(cfg.JWTSecret)
		requireRole = RequireRole
	}

	r.Group(func(pr chi.Router) {
		pr.Use(authenticate)
		// page sessions outlive the request timeout
		if ws != nil {
			ws.RegisterRoutes(pr)
		}

		pr.Group(func(tr chi.Router) {
			tr.Use(middleware.Timeout(60 * time.Second))
			agents.RegisterRoutes(tr)
			today.RegisterRoutes(tr)
			shifts.RegisterRoutes(tr)
			storewide.RegisterRoutes(tr)
			reports.RegisterRoutes(tr)

			// closers (manager/assistant manager)
			tr.Group(func(cr chi.Router) {
				cr.Use(requireRole(domain.CloserRoles...))
				storewide.RegisterCloserRoutes(cr)
			})
			// manager only
			tr.Group(func(mr chi.Router) {
				mr.Use(requireRole(domain.RoleManager))
				storewide.RegisterManagerRoutes(mr)
			})
		})
	})

	return r
}
