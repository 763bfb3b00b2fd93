package driven

import (
	"context"
	"errors"
	"time"
)

// ErrEncryptionKeyNotSet is returned by SessionStore implementations when no
// AES key was configured, meaning API keys cannot be stored at rest.
var ErrEncryptionKeyNotSet = errors.New("session encryption key not set")

// Session associates a browser session with the API key the user entered.
// The key lives only as long as the session; disconnecting deletes it.
type Session struct {
	ID        string
	APIKey    string
	CreatedAt time.Time
}

// SessionStore defines the driven port for server-side sessions.
type SessionStore interface {
	// Create persists a new session holding the given API key.
	Create(ctx context.Context, id, apiKey string) error
	// Get returns the session for id, or nil if none exists.
	Get(ctx context.Context, id string) (*Session, error)
	// Delete removes the session. Deleting a missing session is not an error.
	Delete(ctx context.Context, id string) error
}
