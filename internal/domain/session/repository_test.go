package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/SessionKeeper/internal/infrastructure/storage"
	"github.com/GriffinCanCode/SessionKeeper/internal/testutil"
)

func TestRepositoryInsertOrReplace(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(storage.NewMemory())

	stored, evicted, err := repo.InsertOrReplace(ctx, testutil.Session("a", 100, testutil.Window("https://a.com")), 5)
	require.NoError(t, err)
	assert.Equal(t, 1, stored)
	assert.Equal(t, 0, evicted)

	_, _, err = repo.InsertOrReplace(ctx, testutil.Session("b", 200), 5)
	require.NoError(t, err)

	replacement := testutil.Session("a", 300, testutil.Window("https://new.com"))
	stored, _, err = repo.InsertOrReplace(ctx, replacement, 5)
	require.NoError(t, err)
	assert.Equal(t, 2, stored)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, testutil.IDs(list))
	assert.Equal(t, []string{"https://new.com"}, testutil.URLs(list[0]))
}

func TestRepositoryEvicts(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(storage.NewMemory())

	for i, id := range []string{"a", "b", "c"} {
		_, _, err := repo.InsertOrReplace(ctx, testutil.Session(id, int64(i+1)), 2)
		require.NoError(t, err)
	}

	_, evicted, err := repo.InsertOrReplace(ctx, testutil.Session("d", 10), 2)
	require.NoError(t, err)
	assert.Equal(t, 1, evicted)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"d", "c"}, testutil.IDs(list))
}

func TestRepositoryDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(storage.NewMemory())
	_, _, err := repo.InsertOrReplace(ctx, testutil.Session("a", 1), 5)
	require.NoError(t, err)

	n, err := repo.Delete(ctx, "missing")
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	n, err = repo.Delete(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, ok, err := repo.Get(ctx, "a")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRepositoryCorruptBlob(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory()
	require.NoError(t, kv.Set(ctx, StorageKey, []byte(`{"not":"a list"}`)))

	_, err := NewRepository(kv).List(ctx)
	assert.Error(t, err)
}

func TestRepositoryEmpty(t *testing.T) {
	list, err := NewRepository(storage.NewMemory()).List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}
