package driven

import (
	"context"

	"github.com/ericfisherdev/tacticuspanel/internal/domain/model"
)

// SnapshotStore defines the driven port for cached upstream payloads.
// At most one snapshot exists per (endpoint, key fingerprint) pair.
type SnapshotStore interface {
	// Get returns the stored snapshot for the pair, or nil if none exists.
	Get(ctx context.Context, endpoint model.Endpoint, fingerprint string) (*model.Snapshot, error)
	// Put stores or replaces the snapshot for its (endpoint, fingerprint) pair.
	Put(ctx context.Context, snap model.Snapshot) error
	// DeleteByFingerprint evicts every endpoint's snapshot for one key.
	// Used when a session disconnects.
	DeleteByFingerprint(ctx context.Context, fingerprint string) error
}
