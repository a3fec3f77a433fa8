package blobstore

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalBlobStore_Lifecycle(t *testing.T) {
	tmpDir := t.TempDir()
	store := NewLocalStore(tmpDir)

	ctx := context.Background()

	blobName := "dust/Qabs.stab"
	data := []byte("hello world, this is a test blob for stabgo")

	require.NoError(t, store.Put(ctx, blobName, data))

	// Verify file exists on disk
	expectedPath := filepath.Join(tmpDir, "dust", "Qabs.stab")
	_, err := os.Stat(expectedPath)
	require.NoError(t, err)

	p, ok := store.LocalPath(blobName)
	require.True(t, ok)
	assert.Equal(t, expectedPath, p)
	_, ok = store.LocalPath("dust")
	assert.False(t, ok)

	blob, err := store.Open(ctx, blobName)
	require.NoError(t, err)
	defer blob.Close()

	require.Equal(t, int64(len(data)), blob.Size())

	buf := make([]byte, 5)
	n, err := blob.ReadAt(ctx, buf, 6) // "world"
	require.NoError(t, err)
	require.Equal(t, 5, n)
	require.Equal(t, "world", string(buf))

	m, ok := blob.(Mappable)
	require.True(t, ok)
	b, err := m.Bytes()
	require.NoError(t, err)
	assert.Equal(t, data, b)

	require.NoError(t, store.Put(ctx, "sed.stab", []byte("x")))

	names, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"dust/Qabs.stab", "sed.stab"}, names)

	names, err = store.List(ctx, "dust/")
	require.NoError(t, err)
	assert.Equal(t, []string{"dust/Qabs.stab"}, names)

	_, err = store.Open(ctx, "missing.stab")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLocalBlobStore_ReadAt_Boundaries(t *testing.T) {
	store := NewLocalStore(t.TempDir())
	ctx := context.Background()

	data := []byte("0123456789")
	require.NoError(t, store.Put(ctx, "boundary.bin", data))

	blob, err := store.Open(ctx, "boundary.bin")
	require.NoError(t, err)
	defer blob.Close()

	// Read past end
	buf := make([]byte, 5)
	n, err := blob.ReadAt(ctx, buf, 8)
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, "89", string(buf[:n]))

	// Offset past EOF
	_, err = blob.ReadAt(ctx, buf, 20)
	assert.ErrorIs(t, err, io.EOF)

	// Sequential reader sees the whole blob
	content, err := io.ReadAll(NewReader(ctx, blob))
	require.NoError(t, err)
	assert.True(t, bytes.Equal(data, content))
}

func TestLocalBlobStore_ListMissingRoot(t *testing.T) {
	store := NewLocalStore(filepath.Join(t.TempDir(), "none"))
	names, err := store.List(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, names)
}

type writerAtBuffer struct {
	buf []byte
}

func (w *writerAtBuffer) WriteAt(p []byte, off int64) (int, error) {
	if end := int(off) + len(p); end > len(w.buf) {
		w.buf = append(w.buf, make([]byte, end-len(w.buf))...)
	}
	return copy(w.buf[off:], p), nil
}

func TestCopy(t *testing.T) {
	ctx := context.Background()
	data := bytes.Repeat([]byte("stab"), 1000)

	stores := map[string]BlobStore{
		"local":  NewLocalStore(t.TempDir()),
		"memory": NewMemoryStore(),
	}
	for name, store := range stores {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.Put(ctx, "t.stab", data))

			var w writerAtBuffer
			n, err := Copy(ctx, store, "t.stab", &w)
			require.NoError(t, err)
			assert.Equal(t, int64(len(data)), n)
			assert.Equal(t, data, w.buf)

			_, err = Copy(ctx, store, "none.stab", &w)
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}
