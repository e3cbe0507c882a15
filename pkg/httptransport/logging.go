package httptransport

import (
	"net/http"
	"time"

	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"
)

// LogRequests returns a middleware that logs every outgoing request with its
// method, path, status, and duration. The logger is taken from the request
// context (zctx), so per-request fields injected upstream are preserved.
func LogRequests() Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
			start := time.Now()
			resp, err := next.RoundTrip(r)
			lg := zctx.From(r.Context())

			fields := []zap.Field{
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", r.Header.Get("X-Request-ID")),
			}
			if err != nil {
				lg.Warn("Request failed", append(fields, zap.Error(err))...)
				return resp, err
			}

			fields = append(fields, zap.Int("status", resp.StatusCode))
			if resp.StatusCode >= http.StatusBadRequest {
				lg.Warn("Request error response", fields...)
			} else {
				lg.Debug("Request completed", fields...)
			}
			return resp, nil
		})
	}
}
