// Package httptransport assembles the HTTP surface: middleware stack, module
// handlers, and the operational endpoints.
package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	consenthandler "hearth/internal/consent/handler"
	journeyhandler "hearth/internal/journey/handler"
	"hearth/internal/platform/metrics"
	"hearth/internal/platform/middleware"
	publishinghandler "hearth/internal/publishing/handler"
	tenanthandler "hearth/internal/tenant/handler"
	"hearth/internal/transport/http/shared"
)

const requestTimeout = 15 * time.Second

// Handlers bundles the per-module handlers the router mounts.
type Handlers struct {
	Consent    *consenthandler.Handler
	Publishing *publishinghandler.Handler
	Journeys   *journeyhandler.Handler
	Tenant     *tenanthandler.Handler
}

// HealthChecker reports the readiness of one backing dependency.
type HealthChecker func() error

// NewRouter wires the middleware stack and every module's routes. Business
// endpoints sit behind JWT auth; health and metrics do not.
func NewRouter(
	handlers Handlers,
	validator middleware.JWTValidator,
	logger *slog.Logger,
	httpMetrics *metrics.Metrics,
	health map[string]HealthChecker,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(middleware.ContentTypeJSON)
	r.Use(middleware.LatencyMiddleware(httpMetrics))

	r.Get("/healthz", handleHealth(health))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(validator, logger))
		handlers.Consent.Register(r)
		handlers.Publishing.Register(r)
		handlers.Journeys.Register(r)
		handlers.Tenant.Register(r)
	})

	return r
}

func handleHealth(checks map[string]HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := http.StatusOK
		detail := make(map[string]string, len(checks)+1)
		detail["status"] = "ok"

		for name, check := range checks {
			if err := check(); err != nil {
				status = http.StatusServiceUnavailable
				detail["status"] = "degraded"
				detail[name] = err.Error()
				continue
			}
			detail[name] = "ok"
		}

		shared.WriteJSON(w, status, detail)
	}
}
