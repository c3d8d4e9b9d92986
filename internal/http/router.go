// Package httpapi assembles the public router: request middleware, the
// authenticated /v1 surface, staff routes, health and metrics.
package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cavidescun/314q34wefasd/internal/homologation/handler"
	"github.com/cavidescun/314q34wefasd/internal/homologation/models"
	"github.com/cavidescun/314q34wefasd/internal/platform/metrics"
	"github.com/cavidescun/314q34wefasd/internal/ratelimit"
	id "github.com/cavidescun/314q34wefasd/pkg/domain"
	dErrors "github.com/cavidescun/314q34wefasd/pkg/domain-errors"
	audit "github.com/cavidescun/314q34wefasd/pkg/platform/audit"
	"github.com/cavidescun/314q34wefasd/pkg/platform/httputil"
	"github.com/cavidescun/314q34wefasd/pkg/platform/middleware/admin"
	"github.com/cavidescun/314q34wefasd/pkg/platform/middleware/auth"
	"github.com/cavidescun/314q34wefasd/pkg/platform/middleware/metadata"
	"github.com/cavidescun/314q34wefasd/pkg/platform/middleware/request"
	"github.com/cavidescun/314q34wefasd/pkg/platform/middleware/requesttime"
)

const healthTimeout = 2 * time.Second

// HealthCheck reports whether one dependency is reachable.
type HealthCheck func(ctx context.Context) error

type StatusCounter interface {
	StatusCounts(ctx context.Context) (map[models.Status]int, error)
}

// Deps are the pieces the router mounts. Validator nil leaves /v1 open;
// RateLimit nil leaves writes unthrottled; AuditLog nil hides the audit
// trail route.
type Deps struct {
	Logger        *slog.Logger
	Metrics       *metrics.Metrics
	Validator     auth.JWTValidator
	RateLimit     *ratelimit.Middleware
	AdminToken    string
	Health        map[string]HealthCheck
	Homologations *handler.Handler
	Counter       StatusCounter
	AuditLog      audit.Lister
}

func NewRouter(deps Deps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(request.RequestID)
	r.Use(request.Recover(logger))
	r.Use(request.Logger(logger, deps.Metrics))
	r.Use(metadata.ClientMetadata)
	r.Use(requesttime.Middleware)

	r.Get("/health", healthHandler(deps.Health))
	r.Handle("/metrics", promhttp.Handler())

	staffOnly := admin.RequireAdminToken(deps.AdminToken, logger)
	r.Route("/v1", func(r chi.Router) {
		if deps.Validator != nil {
			r.Use(auth.RequireAuth(deps.Validator, logger))
		} else {
			r.Use(auth.Optional)
		}
		if deps.RateLimit != nil {
			r.Use(deps.RateLimit.Writes)
		}
		deps.Homologations.Register(r, staffOnly)
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(staffOnly)
		if deps.Counter != nil {
			r.Get("/status-counts", statusCountsHandler(deps.Counter, logger))
		}
		if deps.AuditLog != nil {
			r.Get("/students/{nationalID}/audit-events", auditTrailHandler(deps.AuditLog, logger))
		}
	})
	return r
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

func healthHandler(checks map[string]HealthCheck) http.HandlerFunc {
	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	sort.Strings(names)

	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()

		resp := healthResponse{Status: "ok", Checks: map[string]string{}}
		status := http.StatusOK
		for _, name := range names {
			if err := checks[name](ctx); err != nil {
				resp.Checks[name] = "unavailable"
				resp.Status = "degraded"
				status = http.StatusServiceUnavailable
				continue
			}
			resp.Checks[name] = "ok"
		}
		httputil.WriteJSON(w, status, resp)
	}
}

func statusCountsHandler(counter StatusCounter, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		counts, err := counter.StatusCounts(ctx)
		if err != nil {
			logger.ErrorContext(ctx, "status counts failed", "error", err)
			httputil.WriteError(w, err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, counts)
	}
}

func auditTrailHandler(log audit.Lister, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		nid, err := id.ParseNationalID(chi.URLParam(r, "nationalID"))
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		events, err := log.ListBySubject(ctx, audit.HashSubject(nid.String()))
		if err != nil {
			logger.ErrorContext(ctx, "audit trail lookup failed", "error", err)
			httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodePersistence, "failed to read audit trail"))
			return
		}
		if events == nil {
			events = []audit.Event{}
		}
		httputil.WriteJSON(w, http.StatusOK, events)
	}
}
