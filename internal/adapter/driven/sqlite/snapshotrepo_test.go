package sqlite

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/tacticuspanel/internal/domain/model"
)

func TestSnapshotRepo_GetMissing(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSnapshotRepo(db)
	ctx := context.Background()

	snap, err := repo.Get(ctx, model.EndpointPlayer, model.KeyFingerprint("key-a"))

	require.NoError(t, err)
	assert.Nil(t, snap)
}

func TestSnapshotRepo_PutAndGet(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSnapshotRepo(db)
	ctx := context.Background()

	fp := model.KeyFingerprint("key-a")
	fetchedAt := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	err := repo.Put(ctx, model.Snapshot{
		Endpoint:       model.EndpointPlayer,
		KeyFingerprint: fp,
		Payload:        json.RawMessage(`{"player":{"details":{"name":"Marbas"}}}`),
		FetchedAt:      fetchedAt,
	})
	require.NoError(t, err)

	snap, err := repo.Get(ctx, model.EndpointPlayer, fp)
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Equal(t, model.EndpointPlayer, snap.Endpoint)
	assert.Equal(t, fp, snap.KeyFingerprint)
	assert.JSONEq(t, `{"player":{"details":{"name":"Marbas"}}}`, string(snap.Payload))
	assert.Equal(t, fetchedAt, snap.FetchedAt.UTC())
}

func TestSnapshotRepo_PutOverwrites(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSnapshotRepo(db)
	ctx := context.Background()

	fp := model.KeyFingerprint("key-a")
	err := repo.Put(ctx, model.Snapshot{
		Endpoint:       model.EndpointGuild,
		KeyFingerprint: fp,
		Payload:        json.RawMessage(`{"guild":{"level":1}}`),
		FetchedAt:      time.Now(),
	})
	require.NoError(t, err)

	err = repo.Put(ctx, model.Snapshot{
		Endpoint:       model.EndpointGuild,
		KeyFingerprint: fp,
		Payload:        json.RawMessage(`{"guild":{"level":2}}`),
		FetchedAt:      time.Now(),
	})
	require.NoError(t, err)

	snap, err := repo.Get(ctx, model.EndpointGuild, fp)
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.JSONEq(t, `{"guild":{"level":2}}`, string(snap.Payload))
}

func TestSnapshotRepo_ScopedPerFingerprint(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSnapshotRepo(db)
	ctx := context.Background()

	fpA := model.KeyFingerprint("key-a")
	fpB := model.KeyFingerprint("key-b")

	err := repo.Put(ctx, model.Snapshot{
		Endpoint:       model.EndpointPlayer,
		KeyFingerprint: fpA,
		Payload:        json.RawMessage(`{"owner":"a"}`),
		FetchedAt:      time.Now(),
	})
	require.NoError(t, err)

	snap, err := repo.Get(ctx, model.EndpointPlayer, fpB)
	require.NoError(t, err)
	assert.Nil(t, snap, "one key's snapshot must be invisible to another key")
}

func TestSnapshotRepo_DeleteByFingerprint(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSnapshotRepo(db)
	ctx := context.Background()

	fpA := model.KeyFingerprint("key-a")
	fpB := model.KeyFingerprint("key-b")

	for _, endpoint := range model.Endpoints {
		err := repo.Put(ctx, model.Snapshot{
			Endpoint:       endpoint,
			KeyFingerprint: fpA,
			Payload:        json.RawMessage(`{}`),
			FetchedAt:      time.Now(),
		})
		require.NoError(t, err)
	}
	err := repo.Put(ctx, model.Snapshot{
		Endpoint:       model.EndpointPlayer,
		KeyFingerprint: fpB,
		Payload:        json.RawMessage(`{}`),
		FetchedAt:      time.Now(),
	})
	require.NoError(t, err)

	require.NoError(t, repo.DeleteByFingerprint(ctx, fpA))

	for _, endpoint := range model.Endpoints {
		snap, err := repo.Get(ctx, endpoint, fpA)
		require.NoError(t, err)
		assert.Nil(t, snap)
	}

	snap, err := repo.Get(ctx, model.EndpointPlayer, fpB)
	require.NoError(t, err)
	assert.NotNil(t, snap, "other keys' snapshots must survive")
}
