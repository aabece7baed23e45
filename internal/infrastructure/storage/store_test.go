package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openBackends(t *testing.T) map[string]Store {
	t.Helper()

	sqlite, err := OpenSQLite(filepath.Join(t.TempDir(), "nested", "state.db"))
	require.NoError(t, err)

	backends := map[string]Store{
		"memory": NewMemory(),
		"sqlite": sqlite,
	}
	t.Cleanup(func() {
		for _, s := range backends {
			s.Close()
		}
	})
	return backends
}

func TestStoreGetSet(t *testing.T) {
	ctx := context.Background()

	for name, s := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			_, found, err := s.Get(ctx, "settings")
			require.NoError(t, err)
			assert.False(t, found)

			require.NoError(t, s.Set(ctx, "settings", []byte(`{"maxSessions":5}`)))
			require.NoError(t, s.Set(ctx, "settings", []byte(`{"maxSessions":7}`)))

			value, found, err := s.Get(ctx, "settings")
			require.NoError(t, err)
			assert.True(t, found)
			assert.JSONEq(t, `{"maxSessions":7}`, string(value))
		})
	}
}

func TestJSONHelpers(t *testing.T) {
	ctx := context.Background()

	type record struct {
		ID   string `json:"id"`
		Tabs int    `json:"tabs"`
	}

	for name, s := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			var out []record
			found, err := GetJSON(ctx, s, "sessions", &out)
			require.NoError(t, err)
			assert.False(t, found)

			in := []record{{ID: "a", Tabs: 2}, {ID: "autosave", Tabs: 9}}
			require.NoError(t, SetJSON(ctx, s, "sessions", in))

			found, err = GetJSON(ctx, s, "sessions", &out)
			require.NoError(t, err)
			assert.True(t, found)
			assert.Equal(t, in, out)
		})
	}
}

func TestGetJSONCorruptBlob(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()
	require.NoError(t, s.Set(ctx, "sessions", []byte("{not json")))

	var out []map[string]any
	found, err := GetJSON(ctx, s, "sessions", &out)
	assert.True(t, found)
	assert.Error(t, err)
}

func TestMemoryCopiesValues(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()

	in := []byte("abc")
	require.NoError(t, s.Set(ctx, "k", in))
	in[0] = 'x'

	out, _, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(out))
}

func TestMemoryClosed(t *testing.T) {
	s := NewMemory()
	require.NoError(t, s.Close())

	_, _, err := s.Get(context.Background(), "k")
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, s.Set(context.Background(), "k", nil), ErrClosed)
}

func TestSQLitePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.db")

	s, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, "sessions", []byte(`[]`)))
	require.NoError(t, s.Close())

	reopened, err := OpenSQLite(path)
	require.NoError(t, err)
	defer reopened.Close()

	value, found, err := reopened.Get(ctx, "sessions")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "[]", string(value))
}

func TestOpenDrivers(t *testing.T) {
	s, err := Open(Config{Driver: "memory"})
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, s)

	_, err = Open(Config{Driver: "redis"})
	assert.Error(t, err)

	_, err = Open(Config{Driver: "sqlite"})
	assert.Error(t, err)
}
