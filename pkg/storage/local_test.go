package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_PutGet(t *testing.T) {
	ctx := context.Background()
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	info, err := store.Put(ctx, "July-2025.xlsx", "application/octet-stream", strings.NewReader("first"))
	require.NoError(t, err)
	assert.Equal(t, "July-2025.xlsx", info.Name)
	assert.Equal(t, int64(5), info.Size)

	t.Run("replaces previous version", func(t *testing.T) {
		_, err := store.Put(ctx, "July-2025.xlsx", "application/octet-stream", strings.NewReader("second"))
		require.NoError(t, err)

		rc, got, err := store.Get(ctx, "July-2025.xlsx")
		require.NoError(t, err)
		defer rc.Close()

		body, err := io.ReadAll(rc)
		require.NoError(t, err)
		assert.Equal(t, "second", string(body))
		assert.Equal(t, int64(6), got.Size)
	})

	t.Run("list", func(t *testing.T) {
		_, err := store.Put(ctx, "August-2025.xlsx", "application/octet-stream", strings.NewReader("x"))
		require.NoError(t, err)

		files, err := store.List(ctx)
		require.NoError(t, err)
		require.Len(t, files, 2)
		assert.Equal(t, "August-2025.xlsx", files[0].Name)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, "August-2025.xlsx"))
		_, err := store.GetInfo(ctx, "August-2025.xlsx")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestLocalStorage_Missing(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	_, _, err = store.Get(context.Background(), "nope.xlsx")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, store.Delete(context.Background(), "nope.xlsx"), ErrNotFound)
}

func TestLocalStorage_NoTraversal(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStorage(filepath.Join(dir, "archive"))
	require.NoError(t, err)

	info, err := store.Put(context.Background(), "../escape.xlsx", "", strings.NewReader("x"))
	require.NoError(t, err)
	assert.NotContains(t, info.Path, "/")

	_, err = os.Stat(filepath.Join(dir, "escape.xlsx"))
	assert.True(t, os.IsNotExist(err))
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"July-2025.xlsx", "July-2025.xlsx"},
		{"a/b\\c", "a_b_c"},
		{"../x", "__x"},
		{"  .hidden ", "hidden"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeFilename(tt.input))
		})
	}
}
