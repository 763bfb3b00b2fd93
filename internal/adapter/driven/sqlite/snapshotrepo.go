package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ericfisherdev/tacticuspanel/internal/domain/model"
	"github.com/ericfisherdev/tacticuspanel/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.SnapshotStore = (*SnapshotRepo)(nil)

// SnapshotRepo is the SQLite implementation of the SnapshotStore port
// interface. One row exists per (endpoint, key fingerprint) pair; Put
// replaces the prior row via the unique constraint.
type SnapshotRepo struct {
	db *DB
}

// NewSnapshotRepo creates a new SnapshotRepo backed by the given DB.
func NewSnapshotRepo(db *DB) *SnapshotRepo {
	return &SnapshotRepo{db: db}
}

// Get returns the stored snapshot for (endpoint, fingerprint), or nil if
// none exists.
func (r *SnapshotRepo) Get(ctx context.Context, endpoint model.Endpoint, fingerprint string) (*model.Snapshot, error) {
	const query = `SELECT id, endpoint, key_fingerprint, payload, fetched_at
		FROM snapshots WHERE endpoint = ? AND key_fingerprint = ?`

	var snap model.Snapshot
	var endpointStr, fetchedAt string
	err := r.db.Reader.QueryRowContext(ctx, query, string(endpoint), fingerprint).
		Scan(&snap.ID, &endpointStr, &snap.KeyFingerprint, &snap.Payload, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get snapshot %s: %w", endpoint, err)
	}

	snap.Endpoint = model.Endpoint(endpointStr)
	snap.FetchedAt, err = parseTime(fetchedAt)
	if err != nil {
		return nil, fmt.Errorf("parse fetched_at for snapshot %s: %w", endpoint, err)
	}

	return &snap, nil
}

// Put stores or replaces the snapshot for its (endpoint, fingerprint) pair.
func (r *SnapshotRepo) Put(ctx context.Context, snap model.Snapshot) error {
	const query = `INSERT INTO snapshots (endpoint, key_fingerprint, payload, fetched_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (endpoint, key_fingerprint) DO UPDATE SET
			payload = excluded.payload,
			fetched_at = excluded.fetched_at`

	fetchedAt := snap.FetchedAt
	if fetchedAt.IsZero() {
		fetchedAt = time.Now()
	}

	_, err := r.db.Writer.ExecContext(ctx, query,
		string(snap.Endpoint), snap.KeyFingerprint, []byte(snap.Payload),
		fetchedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("put snapshot %s: %w", snap.Endpoint, err)
	}

	return nil
}

// DeleteByFingerprint evicts every endpoint's snapshot for one key.
func (r *SnapshotRepo) DeleteByFingerprint(ctx context.Context, fingerprint string) error {
	const query = `DELETE FROM snapshots WHERE key_fingerprint = ?`

	_, err := r.db.Writer.ExecContext(ctx, query, fingerprint)
	if err != nil {
		return fmt.Errorf("delete snapshots: %w", err)
	}

	return nil
}

// parseTime tries multiple SQLite datetime formats.
func parseTime(s string) (time.Time, error) {
	formats := []string{
		"2006-01-02T15:04:05Z",
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05.000",
		time.RFC3339,
		time.RFC3339Nano,
	}

	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized time format: %s", s)
}
