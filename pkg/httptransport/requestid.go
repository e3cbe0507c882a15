package httptransport

import (
	"net/http"

	"github.com/google/uuid"
)

// RequestID returns a middleware that stamps every outgoing request with a
// unique X-Request-ID header. If the request already carries a valid value,
// it is kept. Values must be at most 128 bytes and contain only printable
// ASCII characters (0x20–0x7E).
func RequestID() Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
			if !isValidRequestID(r.Header.Get("X-Request-ID")) {
				r = cloneRequest(r)
				r.Header.Set("X-Request-ID", uuid.New().String())
			}
			return next.RoundTrip(r)
		})
	}
}

// isValidRequestID checks that id is non-empty, at most 128 bytes, and
// contains only printable ASCII (0x20–0x7E).
func isValidRequestID(id string) bool {
	if len(id) == 0 || len(id) > 128 {
		return false
	}
	for i := range len(id) {
		if id[i] < 0x20 || id[i] > 0x7E {
			return false
		}
	}
	return true
}
