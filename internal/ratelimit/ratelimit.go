// Package ratelimit throttles write requests per client IP. The intake and
// document routes call the OCR service and blob storage, so each client gets a
// bounded number of them per window.
package ratelimit

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/cavidescun/314q34wefasd/pkg/platform/httputil"
	"github.com/cavidescun/314q34wefasd/pkg/requestcontext"
)

// Result is the outcome of one Allow call.
type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// RetryAfter is the whole number of seconds until the window resets.
func (r Result) RetryAfter(now time.Time) int {
	secs := int(r.ResetAt.Sub(now).Round(time.Second).Seconds())
	if secs < 1 {
		return 1
	}
	return secs
}

// Store counts requests per key inside a window.
type Store interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (Result, error)
}

// Limit is a request budget per window. A non-positive Requests disables it.
type Limit struct {
	Requests int
	Window   time.Duration
}

type Middleware struct {
	store  Store
	limit  Limit
	logger *slog.Logger
	now    func() time.Time
}

func New(store Store, limit Limit, logger *slog.Logger) *Middleware {
	if logger == nil {
		logger = slog.Default()
	}
	return &Middleware{store: store, limit: limit, logger: logger, now: time.Now}
}

type exceededResponse struct {
	Error      string `json:"error"`
	Message    string `json:"error_description"`
	RetryAfter int    `json:"retry_after"`
}

// Writes limits POST, PUT and PATCH requests per client IP. Reads pass
// through. Store failures let the request through.
func (m *Middleware) Writes(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.limit.Requests <= 0 || !isWrite(r.Method) {
			next.ServeHTTP(w, r)
			return
		}

		ctx := r.Context()
		ip := requestcontext.ClientIP(ctx)
		result, err := m.store.Allow(ctx, Key("writes", ip), m.limit.Requests, m.limit.Window)
		if err != nil {
			m.logger.ErrorContext(ctx, "rate limit check failed",
				"request_id", requestcontext.RequestID(ctx),
				"error", err,
			)
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))
		if !result.Allowed {
			retry := result.RetryAfter(m.now())
			m.logger.WarnContext(ctx, "rate limit exceeded",
				"request_id", requestcontext.RequestID(ctx),
				"path", r.URL.Path,
			)
			w.Header().Set("Retry-After", strconv.Itoa(retry))
			httputil.WriteJSON(w, http.StatusTooManyRequests, exceededResponse{
				Error:      "rate_limit_exceeded",
				Message:    "Demasiadas solicitudes. Intente de nuevo más tarde.",
				RetryAfter: retry,
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func isWrite(method string) bool {
	return method == http.MethodPost || method == http.MethodPut || method == http.MethodPatch
}

// Key namespaces a limiter key, e.g. Key("writes", "10.0.0.1").
func Key(scope, subject string) string {
	if subject == "" {
		subject = "unknown"
	}
	return "ratelimit:" + scope + ":" + subject
}
