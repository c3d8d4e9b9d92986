package admin

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	dErrors "github.com/cavidescun/314q34wefasd/pkg/domain-errors"
	"github.com/cavidescun/314q34wefasd/pkg/platform/httputil"
	"github.com/cavidescun/314q34wefasd/pkg/requestcontext"
)

// RequireAdminToken protects staff-only routes (status changes, ticket
// closing). An empty expected token rejects every request.
func RequireAdminToken(expectedToken string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := r.Header.Get("X-Admin-Token")
			// Use constant-time comparison to prevent timing attacks
			if expectedToken == "" || subtle.ConstantTimeCompare([]byte(token), []byte(expectedToken)) != 1 {
				ctx := r.Context()
				logger.WarnContext(ctx, "admin token mismatch",
					"request_id", requestcontext.RequestID(ctx),
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "admin token required"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
