package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// testBackendContract verifies the behavior every Backend must share.
func testBackendContract(t *testing.T, b Backend) {
	t.Helper()
	ctx := context.Background()

	_, err := b.Get(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, b.Put(ctx, "k", []byte(`"v1"`)))
	data, err := b.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, []byte(`"v1"`), data)

	// Put replaces.
	require.NoError(t, b.Put(ctx, "k", []byte(`"v2"`)))
	data, err = b.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, []byte(`"v2"`), data)

	// Delete is idempotent.
	require.NoError(t, b.Delete(ctx, "k"))
	require.NoError(t, b.Delete(ctx, "k"))
	_, err = b.Get(ctx, "k")
	require.ErrorIs(t, err, ErrNotFound)

	// Keys are independent.
	require.NoError(t, b.Put(ctx, "a", []byte("1")))
	require.NoError(t, b.Put(ctx, "b", []byte("2")))
	require.NoError(t, b.Delete(ctx, "a"))
	data, err = b.Get(ctx, "b")
	require.NoError(t, err)
	require.Equal(t, []byte("2"), data)

	require.NotEmpty(t, b.Name())
}

func TestMemoryBackend_Contract(t *testing.T) {
	b := NewMemoryBackend()
	defer b.Close()
	testBackendContract(t, b)
}

func TestMemoryBackend_ClosedReturnsErrClosed(t *testing.T) {
	b := NewMemoryBackend()
	require.NoError(t, b.Close())

	ctx := context.Background()
	_, err := b.Get(ctx, "k")
	require.ErrorIs(t, err, ErrClosed)
	require.ErrorIs(t, b.Put(ctx, "k", []byte("x")), ErrClosed)
	require.ErrorIs(t, b.Delete(ctx, "k"), ErrClosed)
}

func TestMemoryBackend_ReturnsCopies(t *testing.T) {
	b := NewMemoryBackend()
	defer b.Close()
	ctx := context.Background()

	original := []byte("abc")
	require.NoError(t, b.Put(ctx, "k", original))
	original[0] = 'z'

	data, err := b.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, []byte("abc"), data)

	data[0] = 'z'
	again, err := b.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, []byte("abc"), again)
}

func TestSQLiteBackend_Contract(t *testing.T) {
	b, err := NewSQLiteBackend(":memory:")
	require.NoError(t, err)
	defer b.Close()
	testBackendContract(t, b)
}

func TestSQLiteBackend_PersistsAcrossReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "kv.db")
	ctx := context.Background()

	b, err := NewSQLiteBackend(dbPath)
	require.NoError(t, err)
	require.NoError(t, b.Put(ctx, "theme", []byte(`"dark"`)))
	require.NoError(t, b.Close())

	b, err = NewSQLiteBackend(dbPath)
	require.NoError(t, err)
	defer b.Close()

	data, err := b.Get(ctx, "theme")
	require.NoError(t, err)
	require.Equal(t, []byte(`"dark"`), data)
}
