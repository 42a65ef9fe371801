package resource

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestController_Quota(t *testing.T) {
	c := NewController(Config{QuotaBytes: 100})

	assert.True(t, c.TryReserve(50))
	assert.Equal(t, int64(50), c.Used())

	assert.True(t, c.TryReserve(40))
	assert.Equal(t, int64(90), c.Used())

	// Over the limit.
	assert.False(t, c.TryReserve(20))
	assert.Equal(t, int64(90), c.Used())

	c.Release(50)
	assert.Equal(t, int64(40), c.Used())

	assert.True(t, c.TryReserve(20))
	assert.Equal(t, int64(60), c.Used())
}

func TestController_UnlimitedQuota(t *testing.T) {
	c := NewController(Config{})

	assert.True(t, c.TryReserve(1000))
	assert.Equal(t, int64(1000), c.Used())
	assert.Equal(t, int64(0), c.Quota())

	c.Release(500)
	assert.Equal(t, int64(500), c.Used())
}

func TestController_NilSafe(t *testing.T) {
	var c *Controller

	assert.True(t, c.TryReserve(100))
	c.Release(100)
	assert.Equal(t, int64(0), c.Used())
	require.NoError(t, c.WaitIO(context.Background(), 1024))
}

func TestController_WaitIOBeyondBurst(t *testing.T) {
	c := NewController(Config{IOLimitBytesPerSec: 1 << 30})

	// A single request above the limiter's burst is split into installments
	// instead of being rejected outright.
	require.NoError(t, c.WaitIO(context.Background(), (1<<30)+1))
}

func TestRateLimitedWriter(t *testing.T) {
	// Generous budget so the test never stalls; the point is plumbing.
	c := NewController(Config{IOLimitBytesPerSec: 1 << 20})

	var buf bytes.Buffer
	w := NewRateLimitedWriter(context.Background(), &buf, c)

	n, err := w.Write([]byte("weights"))
	require.NoError(t, err)
	assert.Equal(t, 7, n)
	assert.Equal(t, "weights", buf.String())
}

// chunkRecordingWriter captures the size of every Write it receives.
type chunkRecordingWriter struct {
	buf    bytes.Buffer
	chunks []int
}

func (w *chunkRecordingWriter) Write(p []byte) (int, error) {
	w.chunks = append(w.chunks, len(p))
	return w.buf.Write(p)
}

func TestRateLimitedWriter_ChunksLargeValues(t *testing.T) {
	c := NewController(Config{IOLimitBytesPerSec: 64 << 20})

	value := make([]byte, 80<<10)
	for i := range value {
		value[i] = byte(i)
	}

	var rec chunkRecordingWriter
	w := NewRateLimitedWriter(context.Background(), &rec, c)

	n, err := w.Write(value)
	require.NoError(t, err)
	assert.Equal(t, len(value), n)
	assert.Equal(t, value, rec.buf.Bytes())

	// 80 KiB lands in three installments of at most the chunk size.
	require.Len(t, rec.chunks, 3)
	for _, size := range rec.chunks {
		assert.LessOrEqual(t, size, ioChunkSize)
	}
}

func TestRateLimitedReader_CapsReadSize(t *testing.T) {
	c := NewController(Config{IOLimitBytesPerSec: 64 << 20})

	src := make([]byte, 80<<10)
	r := NewRateLimitedReader(context.Background(), bytes.NewReader(src), c)

	p := make([]byte, len(src))
	n, err := r.Read(p)
	require.NoError(t, err)
	assert.Equal(t, ioChunkSize, n)
}

func TestRateLimitedReader(t *testing.T) {
	c := NewController(Config{IOLimitBytesPerSec: 1 << 20})

	r := NewRateLimitedReader(context.Background(), bytes.NewReader([]byte("weights")), c)

	p := make([]byte, 4)
	n, err := r.Read(p)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, "weig", string(p))
}
