// Package tacticus implements the TacticusClient port against the public
// Tacticus game API using resty.
package tacticus

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/gregjones/httpcache"
	"golang.org/x/time/rate"

	"github.com/ericfisherdev/tacticuspanel/internal/domain/model"
	"github.com/ericfisherdev/tacticuspanel/internal/domain/port/driven"
)

// DefaultBaseURL is the production Tacticus API base.
const DefaultBaseURL = "https://api.tacticusgame.com/api/v1/"

// apiKeyHeader carries the credential on every request.
const apiKeyHeader = "X-API-KEY"

// Compile-time interface satisfaction check.
var _ driven.TacticusClient = (*Client)(nil)

// Client implements the driven.TacticusClient port. Its transport stack:
//  1. httpcache, one in-memory cache per key fingerprint (ETag revalidation)
//  2. x/time/rate limiter (the upstream allows a small requests-per-second quota)
//  3. resty (HTTP client with timeout)
//
// The client holds no credential of its own; the API key is explicit input to
// every Fetch call.
type Client struct {
	rc      *resty.Client
	limiter *rate.Limiter
}

// keyedCacheTransport routes each request to an httpcache transport owned by
// the request's key fingerprint. httpcache keys cached responses by URL only,
// so a single shared cache would hand one credential's payload to another;
// partitioning per fingerprint keeps every credential's cache invisible to
// the rest.
type keyedCacheTransport struct {
	base http.RoundTripper

	mu    sync.Mutex
	byKey map[string]*httpcache.Transport
}

func newKeyedCacheTransport(base http.RoundTripper) *keyedCacheTransport {
	return &keyedCacheTransport{
		base:  base,
		byKey: make(map[string]*httpcache.Transport),
	}
}

func (t *keyedCacheTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	fingerprint := model.KeyFingerprint(req.Header.Get(apiKeyHeader))

	t.mu.Lock()
	cached, ok := t.byKey[fingerprint]
	if !ok {
		cached = httpcache.NewMemoryCacheTransport()
		cached.Transport = t.base
		t.byKey[fingerprint] = cached
	}
	t.mu.Unlock()

	return cached.RoundTrip(req)
}

// NewClient creates a Client against the given base URL with the given
// request timeout. Pass DefaultBaseURL in production; tests pass an httptest
// server URL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	rc := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetTransport(newKeyedCacheTransport(http.DefaultTransport))

	// 10 req/s with a small burst keeps the panel comfortably inside the
	// upstream quota even when all three endpoints refresh at once.
	return &Client{
		rc:      rc,
		limiter: rate.NewLimiter(rate.Limit(10), 3),
	}
}

// NewClientWithHTTPClient creates a Client on top of a caller-supplied
// http.Client. Intended for tests that inject an httptest server's client.
func NewClientWithHTTPClient(httpClient *http.Client, baseURL string, timeout time.Duration) *Client {
	rc := resty.NewWithClient(httpClient).
		SetBaseURL(baseURL).
		SetTimeout(timeout)

	return &Client{
		rc:      rc,
		limiter: rate.NewLimiter(rate.Inf, 1),
	}
}

// errorBody is the shape of upstream error responses.
type errorBody struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Fetch issues a single authenticated GET and classifies the outcome.
// No retries: a failed attempt surfaces immediately and the user retries
// manually.
func (c *Client) Fetch(ctx context.Context, endpoint model.Endpoint, apiKey string) (json.RawMessage, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("fetch /%s: %w", endpoint, model.ErrAuthInvalid)
	}
	if _, err := model.ParseEndpoint(string(endpoint)); err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &model.UnavailableError{Detail: "rate limiter wait", Err: err}
	}

	// max-age=0 marks any cached entry stale, so every call revalidates
	// upstream: a cached body is only served after the API re-authenticates
	// the key and answers 304. Without it a fresh max-age window would
	// satisfy a manual refresh without any network call.
	resp, err := c.rc.R().
		SetContext(ctx).
		SetHeader(apiKeyHeader, apiKey).
		SetHeader("Cache-Control", "max-age=0").
		Get(string(endpoint))
	if err != nil {
		// Transport-level failure: DNS, connect, TLS, or timeout.
		return nil, &model.UnavailableError{Detail: fmt.Sprintf("GET /%s", endpoint), Err: err}
	}

	slog.Debug("tacticus api call",
		"endpoint", endpoint,
		"status", resp.StatusCode(),
		"duration", resp.Time().Round(time.Millisecond),
	)

	body := resp.Body()

	switch resp.StatusCode() {
	case http.StatusOK:
		if !json.Valid(body) {
			return nil, &model.UnavailableError{Detail: fmt.Sprintf("GET /%s returned malformed JSON", endpoint)}
		}
		return json.RawMessage(body), nil

	case http.StatusUnauthorized:
		return nil, fmt.Errorf("fetch /%s: %w", endpoint, model.ErrAuthInvalid)

	case http.StatusForbidden:
		if endpoint.RequiresScope() && isScopeDenial(body) {
			return nil, &model.ScopeError{Endpoint: endpoint}
		}
		return nil, fmt.Errorf("fetch /%s: %w", endpoint, model.ErrAuthInvalid)

	case http.StatusNotFound:
		return nil, fmt.Errorf("fetch /%s: %w", endpoint, model.ErrNotFound)

	default:
		return nil, &model.UnavailableError{
			Detail: fmt.Sprintf("GET /%s returned status %d", endpoint, resp.StatusCode()),
		}
	}
}

// isScopeDenial reports whether a 403 body is the structured denial the API
// sends for keys missing an endpoint scope, as opposed to a blanket rejection
// of the key itself.
func isScopeDenial(body []byte) bool {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		return false
	}
	if eb.Type == "" {
		return false
	}
	return eb.Type == "FORBIDDEN" || strings.Contains(strings.ToLower(eb.Message), "scope")
}
