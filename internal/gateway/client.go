// Package gateway is the typed HTTP client for the Orderly REST backend.
// It authenticates with a session cookie and maps non-2xx responses onto the
// client error taxonomy (validation, conflict, authorization, not-found,
// network).
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"

	"github.com/go-faster/errors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/aperezolmos/orderly/pkg/httptransport"
)

const (
	defaultCookieName = "JSESSIONID"
	defaultUserAgent  = "orderly-dashboard/1.0"
)

// Config holds the connection settings for the backend.
type Config struct {
	// BaseURL is the API root, e.g. "https://orderly.example.com/api".
	BaseURL string
	// CookieName is the session cookie name. Defaults to JSESSIONID.
	CookieName string
	// CookieValue is the session cookie credential. When empty, the client
	// still keeps a jar so a login response can establish the session.
	CookieValue string
	// UserAgent overrides the default User-Agent header.
	UserAgent string
}

type options struct {
	base           http.RoundTripper
	tracerProvider trace.TracerProvider
	meterProvider  metric.MeterProvider
}

// Option customizes the client construction.
type Option func(*options)

// WithBaseTransport overrides the innermost transport. Used by tests.
func WithBaseTransport(rt http.RoundTripper) Option {
	return func(o *options) { o.base = rt }
}

// WithTelemetry instruments the transport with the given trace and metric
// providers.
func WithTelemetry(tp trace.TracerProvider, mp metric.MeterProvider) Option {
	return func(o *options) {
		o.tracerProvider = tp
		o.meterProvider = mp
	}
}

// Client issues requests against the Orderly backend.
type Client struct {
	baseURL *url.URL
	http    *http.Client
}

// NewClient builds a Client for the given backend.
//
// No client-side deadline is configured; callers control cancellation through
// the request context.
func NewClient(cfg Config, opts ...Option) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("base URL is required")
	}
	u, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, errors.Wrap(err, "parse base URL")
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	var otelOpts []otelhttp.Option
	if o.tracerProvider != nil {
		otelOpts = append(otelOpts, otelhttp.WithTracerProvider(o.tracerProvider))
	}
	if o.meterProvider != nil {
		otelOpts = append(otelOpts, otelhttp.WithMeterProvider(o.meterProvider))
	}

	ua := cfg.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}

	transport := httptransport.Wrap(
		otelhttp.NewTransport(o.base, otelOpts...),
		httptransport.UserAgent(ua),
		httptransport.RequestID(),
		httptransport.LogRequests(),
	)

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, errors.Wrap(err, "create cookie jar")
	}
	if cfg.CookieValue != "" {
		name := cfg.CookieName
		if name == "" {
			name = defaultCookieName
		}
		jar.SetCookies(u, []*http.Cookie{{Name: name, Value: cfg.CookieValue, Path: "/"}})
	}

	return &Client{
		baseURL: u,
		http:    &http.Client{Transport: transport, Jar: jar},
	}, nil
}

// do issues a single request. A non-nil in is sent as a JSON body; a non-nil
// out receives the decoded JSON response. Non-2xx responses are mapped onto
// the error taxonomy and never decoded into out.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	u := c.baseURL.JoinPath(path)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return errors.Wrap(err, "encode request body")
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return errors.Wrap(err, "build request")
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &NetworkError{Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &NetworkError{Cause: errors.Wrap(err, "read response body")}
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return mapError(method, resp.StatusCode, data)
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &NetworkError{Cause: errors.Wrap(err, "decode response body")}
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) post(ctx context.Context, path string, in, out any) error {
	return c.do(ctx, http.MethodPost, path, nil, in, out)
}

func (c *Client) put(ctx context.Context, path string, in, out any) error {
	return c.do(ctx, http.MethodPut, path, nil, in, out)
}

func (c *Client) patch(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodPatch, path, query, nil, out)
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}
