// Package httptransport provides composable http.RoundTripper middleware for
// outgoing requests: request correlation IDs, structured request logging, and
// a User-Agent stamp.
package httptransport

import "net/http"

// Middleware wraps an http.RoundTripper with additional behaviour.
type Middleware func(http.RoundTripper) http.RoundTripper

// RoundTripperFunc adapts a function to the http.RoundTripper interface.
type RoundTripperFunc func(*http.Request) (*http.Response, error)

// RoundTrip implements http.RoundTripper.
func (f RoundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

// Wrap applies the middlewares to base so that the first listed middleware is
// the outermost one, i.e. the first to see each request.
func Wrap(base http.RoundTripper, mws ...Middleware) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	rt := base
	for i := len(mws) - 1; i >= 0; i-- {
		rt = mws[i](rt)
	}
	return rt
}

// UserAgent returns a middleware that sets the User-Agent header on every
// request that does not already carry one.
func UserAgent(ua string) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
			if r.Header.Get("User-Agent") == "" {
				r = cloneRequest(r)
				r.Header.Set("User-Agent", ua)
			}
			return next.RoundTrip(r)
		})
	}
}

// cloneRequest returns a shallow copy of r with a deep-copied header map.
// RoundTrippers must not modify the caller's request.
func cloneRequest(r *http.Request) *http.Request {
	clone := r.Clone(r.Context())
	return clone
}
