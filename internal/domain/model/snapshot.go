package model

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"
)

// Snapshot is the most recently fetched successful payload for one endpoint
// under one API key. A new successful fetch replaces the prior snapshot;
// failed fetches never touch it, so the last-known-good payload survives
// upstream outages. Snapshots are keyed by a fingerprint of the key rather
// than the key itself so the credential is never written to cache storage.
type Snapshot struct {
	ID             int64
	Endpoint       Endpoint
	KeyFingerprint string
	Payload        json.RawMessage
	FetchedAt      time.Time
}

// KeyFingerprint derives the cache partition for an API key. Two different
// keys never share a fingerprint, which is what keeps one credential's cache
// invisible to another.
func KeyFingerprint(apiKey string) string {
	sum := sha256.Sum256([]byte(apiKey))
	return hex.EncodeToString(sum[:])
}
