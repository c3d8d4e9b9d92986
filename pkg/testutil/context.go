package testutil

import (
	"context"
	"net/http"

	"github.com/cavidescun/314q34wefasd/pkg/requestcontext"
)

// WithCaller adds the service-token subject to the request context.
// This simulates what the auth middleware does for authenticated requests.
func WithCaller(req *http.Request, caller string) *http.Request {
	return req.WithContext(requestcontext.WithCaller(req.Context(), caller))
}

// WithClientMetadata adds client IP, User-Agent and the parsed device summary,
// as the metadata middleware would.
func WithClientMetadata(req *http.Request, ip, userAgent, summary string) *http.Request {
	ctx := requestcontext.WithClientMetadata(req.Context(), ip, userAgent)
	ctx = requestcontext.WithDeviceSummary(ctx, summary)
	return req.WithContext(ctx)
}

// WithContextValue adds an arbitrary key-value pair to the request context.
func WithContextValue(req *http.Request, key, value any) *http.Request {
	ctx := context.WithValue(req.Context(), key, value)
	return req.WithContext(ctx)
}
