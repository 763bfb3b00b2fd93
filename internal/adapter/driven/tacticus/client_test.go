package tacticus_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/tacticuspanel/internal/adapter/driven/tacticus"
	"github.com/ericfisherdev/tacticuspanel/internal/domain/model"
)

// newTestClient creates a Client backed by the given httptest handler.
func newTestClient(t *testing.T, handler http.Handler) *tacticus.Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return tacticus.NewClientWithHTTPClient(server.Client(), server.URL+"/", 5*time.Second)
}

func TestFetch_Success(t *testing.T) {
	var gotKey string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("X-API-KEY")
		assert.Equal(t, "/player", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"player":{"details":{"name":"Brother Marbas","powerLevel":123456}}}`))
	}))

	payload, err := client.Fetch(context.Background(), model.EndpointPlayer, "test-key")

	require.NoError(t, err)
	assert.Equal(t, "test-key", gotKey)

	var decoded struct {
		Player struct {
			Details struct {
				Name string `json:"name"`
			} `json:"details"`
		} `json:"player"`
	}
	require.NoError(t, json.Unmarshal(payload, &decoded))
	assert.Equal(t, "Brother Marbas", decoded.Player.Details.Name)
}

func TestFetch_EmptyKey(t *testing.T) {
	requested := false
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requested = true
	}))

	_, err := client.Fetch(context.Background(), model.EndpointPlayer, "")

	assert.ErrorIs(t, err, model.ErrAuthInvalid)
	assert.False(t, requested, "no request should be issued for an empty key")
}

func TestFetch_InvalidEndpoint(t *testing.T) {
	requested := false
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requested = true
	}))

	_, err := client.Fetch(context.Background(), model.Endpoint("players"), "test-key")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown endpoint")
	assert.False(t, requested, "no request should be issued for an unknown endpoint")
}

func TestFetch_Unauthorized(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"type":"UNAUTHORIZED"}`, http.StatusUnauthorized)
	}))

	_, err := client.Fetch(context.Background(), model.EndpointPlayer, "bad-key")

	assert.ErrorIs(t, err, model.ErrAuthInvalid)
}

func TestFetch_ForbiddenOnPlayerIsAuthInvalid(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"type":"FORBIDDEN"}`, http.StatusForbidden)
	}))

	_, err := client.Fetch(context.Background(), model.EndpointPlayer, "bad-key")

	assert.ErrorIs(t, err, model.ErrAuthInvalid)
}

func TestFetch_ScopeMissing(t *testing.T) {
	for _, endpoint := range []model.Endpoint{model.EndpointGuild, model.EndpointGuildRaid} {
		t.Run(string(endpoint), func(t *testing.T) {
			client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				_, _ = w.Write([]byte(`{"type":"FORBIDDEN","message":"missing scope"}`))
			}))

			_, err := client.Fetch(context.Background(), endpoint, "limited-key")

			var scopeErr *model.ScopeError
			require.ErrorAs(t, err, &scopeErr)
			assert.Equal(t, endpoint, scopeErr.Endpoint)
		})
	}
}

func TestFetch_ForbiddenWithoutErrorBodyIsAuthInvalid(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))

	_, err := client.Fetch(context.Background(), model.EndpointGuild, "bad-key")

	assert.ErrorIs(t, err, model.ErrAuthInvalid)
}

func TestFetch_NotFound(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"type":"NOT_FOUND"}`, http.StatusNotFound)
	}))

	_, err := client.Fetch(context.Background(), model.EndpointGuild, "solo-key")

	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestFetch_ServerErrorIsUnavailable(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))

	_, err := client.Fetch(context.Background(), model.EndpointPlayer, "test-key")

	var unavailable *model.UnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.Contains(t, unavailable.Detail, "status 500")
}

func TestFetch_MalformedSuccessBodyIsUnavailable(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"player":`))
	}))

	_, err := client.Fetch(context.Background(), model.EndpointPlayer, "test-key")

	var unavailable *model.UnavailableError
	require.ErrorAs(t, err, &unavailable)
}

func TestFetch_CacheIsolatedPerKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "max-age=300")
		switch r.Header.Get("X-API-KEY") {
		case "key-a":
			_, _ = w.Write([]byte(`{"player":{"details":{"name":"OwnerA"}}}`))
		default:
			_, _ = w.Write([]byte(`{"player":{"details":{"name":"OwnerB"}}}`))
		}
	}))
	t.Cleanup(server.Close)

	client := tacticus.NewClient(server.URL+"/", 5*time.Second)

	first, err := client.Fetch(context.Background(), model.EndpointPlayer, "key-a")
	require.NoError(t, err)
	assert.Contains(t, string(first), "OwnerA")

	second, err := client.Fetch(context.Background(), model.EndpointPlayer, "key-b")
	require.NoError(t, err)
	assert.Contains(t, string(second), "OwnerB", "a cacheable response for one key must never be served to another")
}

func TestFetch_RevalidatesCachedResponses(t *testing.T) {
	hits := 0
	var revalidation string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		if match := r.Header.Get("If-None-Match"); match != "" {
			revalidation = match
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "max-age=300")
		w.Header().Set("ETag", `"v1"`)
		_, _ = w.Write([]byte(`{"player":{"details":{"name":"OwnerA"}}}`))
	}))
	t.Cleanup(server.Close)

	client := tacticus.NewClient(server.URL+"/", 5*time.Second)
	ctx := context.Background()

	first, err := client.Fetch(ctx, model.EndpointPlayer, "key-a")
	require.NoError(t, err)

	// A fresh max-age window must not shortcut the network; the second call
	// revalidates the ETag and is answered 304.
	second, err := client.Fetch(ctx, model.EndpointPlayer, "key-a")
	require.NoError(t, err)

	assert.Equal(t, 2, hits, "every fetch must reach the upstream")
	assert.Equal(t, `"v1"`, revalidation)
	assert.Equal(t, string(first), string(second))
}

func TestFetch_NetworkFailureIsUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	client := tacticus.NewClientWithHTTPClient(server.Client(), server.URL+"/", 5*time.Second)
	server.Close() // Refuse all connections.

	_, err := client.Fetch(context.Background(), model.EndpointPlayer, "test-key")

	var unavailable *model.UnavailableError
	require.ErrorAs(t, err, &unavailable)
	require.Error(t, errors.Unwrap(unavailable))
}
