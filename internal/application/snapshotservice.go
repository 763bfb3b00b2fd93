// Package application contains the services orchestrating cache, upstream
// fetches, and derived statistics. Services depend only on port interfaces.
package application

import (
	"context"
	"log/slog"
	"time"

	"github.com/ericfisherdev/tacticuspanel/internal/domain/model"
	"github.com/ericfisherdev/tacticuspanel/internal/domain/port/driven"
)

// SnapshotService is the cache-or-fetch orchestrator. Reads hit the snapshot
// store first; the upstream client is only consulted on a cache miss or an
// explicit refresh. Fetch failures never disturb a stored snapshot, so the
// last-known-good payload stays available.
type SnapshotService struct {
	client driven.TacticusClient
	store  driven.SnapshotStore
	logger *slog.Logger
	now    func() time.Time
}

// NewSnapshotService creates a SnapshotService with the required dependencies.
func NewSnapshotService(client driven.TacticusClient, store driven.SnapshotStore, logger *slog.Logger) *SnapshotService {
	return &SnapshotService{
		client: client,
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// Get returns the snapshot for (endpoint, apiKey). With forceRefresh false a
// stored snapshot is returned without any network call. Otherwise the
// upstream is fetched once: success overwrites the stored snapshot, failure
// is returned to the caller with the stored snapshot left untouched.
func (s *SnapshotService) Get(ctx context.Context, endpoint model.Endpoint, apiKey string, forceRefresh bool) (*model.Snapshot, error) {
	fingerprint := model.KeyFingerprint(apiKey)

	if !forceRefresh {
		snap, err := s.store.Get(ctx, endpoint, fingerprint)
		if err != nil {
			return nil, err
		}
		if snap != nil {
			return snap, nil
		}
	}

	payload, err := s.client.Fetch(ctx, endpoint, apiKey)
	if err != nil {
		s.logger.Warn("upstream fetch failed", "endpoint", endpoint, "error", err)
		return nil, err
	}

	snap := model.Snapshot{
		Endpoint:       endpoint,
		KeyFingerprint: fingerprint,
		Payload:        payload,
		FetchedAt:      s.now(),
	}
	if err := s.store.Put(ctx, snap); err != nil {
		return nil, err
	}

	s.logger.Info("snapshot refreshed", "endpoint", endpoint, "bytes", len(payload))

	// Read back so the caller sees exactly what later cache hits will see.
	stored, err := s.store.Get(ctx, endpoint, fingerprint)
	if err != nil {
		return nil, err
	}
	if stored != nil {
		return stored, nil
	}
	return &snap, nil
}

// Evict drops every cached snapshot belonging to the given key. Called when
// a session disconnects.
func (s *SnapshotService) Evict(ctx context.Context, apiKey string) error {
	return s.store.DeleteByFingerprint(ctx, model.KeyFingerprint(apiKey))
}
