// Package httptransport assembles the chi router: shared middleware, the public
// health and metrics endpoints, and the authenticated API.
package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"talentlink/internal/platform/metrics"
	"talentlink/pkg/platform/httputil"
	authmw "talentlink/pkg/platform/middleware/auth"
	"talentlink/pkg/platform/middleware/request"
)

// Registrar mounts a handler's routes.
type Registrar interface {
	Register(r chi.Router)
}

// HealthCheck reports whether a backing dependency is reachable.
type HealthCheck func(ctx context.Context) error

type Config struct {
	Logger    *slog.Logger
	Validator authmw.JWTValidator
	// Metrics may be nil.
	Metrics *metrics.Metrics
	// Now is the request clock; nil uses time.Now.
	Now      func() time.Time
	Checks   map[string]HealthCheck
	Handlers []Registrar
}

// NewRouter wires every endpoint. Everything except /health and /metrics requires
// a bearer token.
func NewRouter(cfg Config) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(request.RequestID)
	r.Use(request.Clock(cfg.Now))
	r.Use(middleware.Recoverer)
	r.Use(cfg.Metrics.Middleware)

	r.Get("/health", healthHandler(cfg.Checks))
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(authmw.RequireAuth(cfg.Validator, cfg.Logger))
		for _, h := range cfg.Handlers {
			h.Register(r)
		}
	})
	return r
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

func healthHandler(checks map[string]HealthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		resp := healthResponse{Status: "ok"}
		status := http.StatusOK
		if len(checks) > 0 {
			resp.Checks = make(map[string]string, len(checks))
		}
		for name, check := range checks {
			if err := check(ctx); err != nil {
				resp.Checks[name] = err.Error()
				resp.Status = "degraded"
				status = http.StatusServiceUnavailable
				continue
			}
			resp.Checks[name] = "ok"
		}
		httputil.WriteJSON(w, status, resp)
	}
}
