package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"gestion-personas/internal/personas/adapter/persistence/sqlite"
	"gestion-personas/internal/personas/domain/repository"
	apperrors "gestion-personas/internal/shared/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ repository.KeyValueStorage = (*sqlite.KVStorage)(nil)

func openStorage(t *testing.T, path string) *sqlite.KVStorage {
	t.Helper()
	storage, err := sqlite.NewKVStorage(context.Background(), path)
	require.NoError(t, err)
	return storage
}

func TestKVStorage_GetSet(t *testing.T) {
	ctx := context.Background()
	storage := openStorage(t, filepath.Join(t.TempDir(), "nested", "personas.db"))
	defer storage.Close()

	require.NoError(t, storage.Ping(ctx))

	_, found, err := storage.Get(ctx, "PERSONS_LIST")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, storage.Set(ctx, "PERSONS_LIST", []byte(`[]`)))
	require.NoError(t, storage.Set(ctx, "PERSONS_LIST", []byte(`[{"id":"1"}]`)))
	require.NoError(t, storage.Set(ctx, "EMPTY", nil))

	value, found, err := storage.Get(ctx, "PERSONS_LIST")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `[{"id":"1"}]`, string(value))

	value, found, err = storage.Get(ctx, "EMPTY")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Empty(t, value)
}

func TestKVStorage_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "personas.db")

	first := openStorage(t, path)
	require.NoError(t, first.Set(ctx, "FILES_LIST", []byte(`{"1":[]}`)))
	require.NoError(t, first.Close())

	second := openStorage(t, path)
	defer second.Close()
	value, found, err := second.Get(ctx, "FILES_LIST")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `{"1":[]}`, string(value))
}

func TestKVStorage_Closed(t *testing.T) {
	ctx := context.Background()
	storage := openStorage(t, filepath.Join(t.TempDir(), "personas.db"))
	require.NoError(t, storage.Close())

	err := storage.Set(ctx, "k", []byte("v"))
	assert.ErrorIs(t, err, apperrors.ErrStorageClosed)
	_, _, err = storage.Get(ctx, "k")
	assert.ErrorIs(t, err, apperrors.ErrStorageClosed)
}
