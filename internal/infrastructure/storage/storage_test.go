package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"srdashboard/internal/application/servicerequest/attachment"
	"srdashboard/internal/shared/logger"
)

func newLocalStore(t *testing.T) *LocalStore {
	t.Helper()
	store, err := NewLocalStore(filepath.Join(t.TempDir(), "uploads"), logger.NewNopLogger())
	require.NoError(t, err)
	return store
}

func TestLocalStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newLocalStore(t)

	path, err := store.Store(ctx, []byte("root cause"), "1700000000000-abc.txt")
	require.NoError(t, err)
	assert.Equal(t, "/uploads/1700000000000-abc.txt", path)

	rc, err := store.Open(ctx, path)
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, rc.Close())
	require.NoError(t, err)
	assert.Equal(t, "root cause", string(data))

	removed, err := store.Delete(ctx, path)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = store.Delete(ctx, path)
	require.NoError(t, err)
	assert.False(t, removed, "deleting twice is not an error")

	_, err = store.Open(ctx, path)
	assert.ErrorIs(t, err, attachment.ErrNotFound)
}

func TestLocalStore_RejectsTraversal(t *testing.T) {
	ctx := context.Background()
	store := newLocalStore(t)

	outside := filepath.Join(filepath.Dir(store.Dir()), "secret.txt")
	require.NoError(t, os.WriteFile(outside, []byte("x"), 0640))

	for _, name := range []string{"", "..", "../secret.txt", "a/b.txt", `a\b.txt`} {
		_, err := store.Store(ctx, []byte("x"), name)
		assert.Error(t, err, name)
	}

	_, err := store.Open(ctx, "/uploads/../secret.txt")
	assert.ErrorIs(t, err, attachment.ErrNotFound)

	_, err = store.Delete(ctx, "/etc/passwd")
	assert.Error(t, err)

	_, err = os.Stat(outside)
	assert.NoError(t, err)
}

func TestObjectName(t *testing.T) {
	name, err := objectName("/uploads/x.pdf")
	require.NoError(t, err)
	assert.Equal(t, "x.pdf", name)

	_, err = objectName("uploads/x.pdf")
	assert.Error(t, err)
	_, err = objectName("/uploads/")
	assert.Error(t, err)
}
