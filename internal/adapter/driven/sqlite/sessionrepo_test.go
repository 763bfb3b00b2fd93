package sqlite

import (
	"context"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/tacticuspanel/internal/domain/port/driven"
)

func testEncryptionKey(t *testing.T) []byte {
	t.Helper()
	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)
	return key
}

func TestSessionRepo_CreateAndGet(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSessionRepo(db, testEncryptionKey(t))
	ctx := context.Background()

	err := repo.Create(ctx, "session-1", "my-api-key")
	require.NoError(t, err)

	sess, err := repo.Get(ctx, "session-1")
	require.NoError(t, err)
	require.NotNil(t, sess)
	assert.Equal(t, "session-1", sess.ID)
	assert.Equal(t, "my-api-key", sess.APIKey)
	assert.False(t, sess.CreatedAt.IsZero())
}

func TestSessionRepo_GetMissing(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSessionRepo(db, testEncryptionKey(t))

	sess, err := repo.Get(context.Background(), "nope")

	require.NoError(t, err)
	assert.Nil(t, sess)
}

func TestSessionRepo_KeyStoredEncrypted(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSessionRepo(db, testEncryptionKey(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, "session-1", "my-api-key"))

	var raw string
	err := db.Reader.QueryRowContext(ctx, `SELECT api_key FROM sessions WHERE id = ?`, "session-1").Scan(&raw)
	require.NoError(t, err)
	assert.NotContains(t, raw, "my-api-key")
}

func TestSessionRepo_Delete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSessionRepo(db, testEncryptionKey(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, "session-1", "my-api-key"))
	require.NoError(t, repo.Delete(ctx, "session-1"))

	sess, err := repo.Get(ctx, "session-1")
	require.NoError(t, err)
	assert.Nil(t, sess)

	// Deleting again is a no-op, not an error.
	require.NoError(t, repo.Delete(ctx, "session-1"))
}

func TestSessionRepo_NilKeyDisablesStorage(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSessionRepo(db, nil)
	ctx := context.Background()

	err := repo.Create(ctx, "session-1", "my-api-key")
	assert.ErrorIs(t, err, driven.ErrEncryptionKeyNotSet)

	_, err = repo.Get(ctx, "session-1")
	assert.ErrorIs(t, err, driven.ErrEncryptionKeyNotSet)
}
