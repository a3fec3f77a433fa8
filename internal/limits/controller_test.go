package limits

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

func TestController_Mapped(t *testing.T) {
	c := NewController(Config{MappedBytesLimit: 100})

	require.NoError(t, c.ReserveMapped(50))
	require.NoError(t, c.ReserveMapped(40))
	assert.Equal(t, int64(90), c.MappedBytes())

	assert.ErrorIs(t, c.ReserveMapped(20), ErrMappedLimitExceeded)
	assert.Equal(t, int64(90), c.MappedBytes())

	c.ReleaseMapped(50)
	assert.Equal(t, int64(40), c.MappedBytes())
	require.NoError(t, c.ReserveMapped(20))
	assert.Equal(t, int64(60), c.MappedBytes())
	assert.Equal(t, int64(100), c.MappedBytesLimit())
}

func TestController_UnlimitedMapped(t *testing.T) {
	c := NewController(Config{})
	require.NoError(t, c.ReserveMapped(1<<40))
	c.ReleaseMapped(1 << 39)
	assert.Equal(t, int64(1<<39), c.MappedBytes())
}

func TestController_Nil(t *testing.T) {
	var c *Controller
	ctx := context.Background()
	assert.NoError(t, c.ReserveMapped(10))
	c.ReleaseMapped(10)
	assert.Zero(t, c.MappedBytes())
	assert.NoError(t, c.AcquireFetch(ctx))
	c.ReleaseFetch()
	assert.NoError(t, c.WaitIO(ctx, 1<<30))
}

func TestController_Fetch(t *testing.T) {
	c := NewController(Config{MaxConcurrentFetches: 1})
	require.NoError(t, c.AcquireFetch(t.Context()))

	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	assert.ErrorIs(t, c.AcquireFetch(ctx), context.Canceled)

	c.ReleaseFetch()
	require.NoError(t, c.AcquireFetch(t.Context()))
	c.ReleaseFetch()
}

func TestController_WaitIOSplitsLargeRequests(t *testing.T) {
	c := NewController(Config{FetchBytesPerSec: 1 << 20})
	// Larger than the burst; must not fail with "exceeds limiter's burst".
	require.NoError(t, c.WaitIO(t.Context(), 1<<20+10))
}

func TestRateLimitedIO(t *testing.T) {
	c := NewController(Config{FetchBytesPerSec: 1 << 30})
	data := bytes.Repeat([]byte("stab"), 1024)

	got, err := io.ReadAll(NewReader(t.Context(), bytes.NewReader(data), c))
	require.NoError(t, err)
	assert.Equal(t, data, got)

	f, err := os.Create(filepath.Join(t.TempDir(), "out"))
	require.NoError(t, err)
	defer f.Close()
	w := NewWriterAt(t.Context(), f, c)
	n, err := w.WriteAt(data, 4)
	require.NoError(t, err)
	assert.Equal(t, len(data), n)
}
