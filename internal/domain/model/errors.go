package model

import (
	"errors"
	"fmt"
)

// ErrAuthInvalid indicates the upstream API rejected the key outright.
// Surfaced to the user as "invalid key, please re-enter".
var ErrAuthInvalid = errors.New("api key rejected by upstream")

// ErrNotFound indicates the upstream API returned 404 for an otherwise valid
// key, e.g. /guild for a player who is not in a guild.
var ErrNotFound = errors.New("resource not found upstream")

// ErrNoEntries indicates an aggregation was requested over zero damage
// entries. There is no meaningful min/max/mean of an empty sample, so callers
// render "no data" instead of a statistics row.
var ErrNoEntries = errors.New("no damage entries to summarize")

// ScopeError indicates the key is valid but lacks the scope required by the
// requested endpoint.
type ScopeError struct {
	Endpoint Endpoint
}

func (e *ScopeError) Error() string {
	return fmt.Sprintf("api key lacks the %s scope required by /%s", e.Endpoint.ScopeName(), e.Endpoint)
}

// UnavailableError covers every remaining fetch failure: network errors,
// timeouts, and unexpected upstream statuses. It is retryable, but only by an
// explicit user action; no automatic retries exist anywhere.
type UnavailableError struct {
	Detail string
	Err    error // underlying transport error, nil for status-code failures
}

func (e *UnavailableError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("upstream unavailable: %s: %v", e.Detail, e.Err)
	}
	return fmt.Sprintf("upstream unavailable: %s", e.Detail)
}

func (e *UnavailableError) Unwrap() error { return e.Err }
