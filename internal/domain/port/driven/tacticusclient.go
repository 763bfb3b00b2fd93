package driven

import (
	"context"
	"encoding/json"

	"github.com/ericfisherdev/tacticuspanel/internal/domain/model"
)

// TacticusClient defines the driven port for the upstream Tacticus API.
// Fetch issues a single authenticated GET against the given endpoint and
// returns the parsed JSON body on HTTP 200. Failures are classified into the
// domain taxonomy: model.ErrAuthInvalid for rejected keys, *model.ScopeError
// for keys missing the endpoint's scope, model.ErrNotFound for upstream 404s,
// and *model.UnavailableError for everything else (network errors, timeouts,
// unexpected statuses). Fetch never retries and never touches any cache.
type TacticusClient interface {
	Fetch(ctx context.Context, endpoint model.Endpoint, apiKey string) (json.RawMessage, error)
}
