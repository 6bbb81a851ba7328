package pool

import (
	"bytes"
	"io"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type errorWriter struct {
	err error
}

func (w *errorWriter) Write([]byte) (int, error) {
	return 0, w.err
}

func TestNewByteBuffer(t *testing.T) {
	bb := NewByteBuffer(1024)

	require.NotNil(t, bb.B)
	assert.Equal(t, 0, bb.Len())
	assert.Equal(t, 1024, bb.Cap())
}

func TestByteBuffer_WriteAndReset(t *testing.T) {
	bb := NewByteBuffer(16)

	n, err := bb.Write([]byte("MTI1"))
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	_, _ = bb.Write([]byte{0x01, 0x01})
	assert.Equal(t, []byte{'M', 'T', 'I', '1', 0x01, 0x01}, bb.Bytes())

	originalCap := bb.Cap()
	bb.Reset()
	assert.Equal(t, 0, bb.Len())
	assert.Equal(t, originalCap, bb.Cap(), "Reset should preserve capacity")
}

func TestByteBuffer_WriteTo(t *testing.T) {
	t.Run("copies contents", func(t *testing.T) {
		bb := NewByteBuffer(16)
		_, _ = bb.Write([]byte("tile data"))

		var buf bytes.Buffer
		n, err := bb.WriteTo(&buf)
		require.NoError(t, err)
		assert.Equal(t, int64(9), n)
		assert.Equal(t, "tile data", buf.String())
	})

	t.Run("propagates writer errors", func(t *testing.T) {
		bb := NewByteBuffer(16)
		_, _ = bb.Write([]byte("x"))

		n, err := bb.WriteTo(&errorWriter{err: io.ErrShortWrite})
		require.ErrorIs(t, err, io.ErrShortWrite)
		assert.Equal(t, int64(0), n)
	})
}

func TestByteBuffer_Grow(t *testing.T) {
	t.Run("sufficient capacity", func(t *testing.T) {
		bb := NewByteBuffer(PayloadBufferDefaultSize)
		originalCap := bb.Cap()
		bb.Grow(100)
		assert.Equal(t, originalCap, bb.Cap())
	})

	t.Run("small buffer grows by default size", func(t *testing.T) {
		bb := NewByteBuffer(PayloadBufferDefaultSize)
		bb.B = append(bb.B, make([]byte, PayloadBufferDefaultSize)...)
		bb.Grow(1024)
		assert.Equal(t, 2*PayloadBufferDefaultSize, bb.Cap())
	})

	t.Run("large buffer grows by a quarter", func(t *testing.T) {
		size := 8 * PayloadBufferDefaultSize
		bb := NewByteBuffer(size)
		bb.B = bb.B[:size]
		bb.Grow(1)
		assert.Equal(t, size+size/4, bb.Cap())
	})

	t.Run("grows at least the required bytes", func(t *testing.T) {
		bb := NewByteBuffer(0)
		bb.Grow(10 * PayloadBufferDefaultSize)
		assert.GreaterOrEqual(t, bb.Cap(), 10*PayloadBufferDefaultSize)
	})

	t.Run("preserves data", func(t *testing.T) {
		bb := NewByteBuffer(4)
		_, _ = bb.Write([]byte{1, 2, 3, 4})
		bb.Grow(64)
		assert.Equal(t, []byte{1, 2, 3, 4}, bb.Bytes())
	})
}

func TestByteBufferPool_MaxThreshold(t *testing.T) {
	t.Run("drops oversized buffers", func(t *testing.T) {
		p := NewByteBufferPool(1024, 4096)
		bb := p.Get()
		bb.Grow(10000)
		_, _ = bb.Write([]byte("data"))
		p.Put(bb)

		// oversized buffer was not reset because it was never returned
		assert.Equal(t, 4, bb.Len())
	})

	t.Run("resets accepted buffers", func(t *testing.T) {
		p := NewByteBufferPool(1024, 4096)
		bb := p.Get()
		_, _ = bb.Write([]byte("data"))
		p.Put(bb)
		assert.Equal(t, 0, bb.Len())
	})

	t.Run("zero threshold keeps everything", func(t *testing.T) {
		p := NewByteBufferPool(16, 0)
		bb := p.Get()
		bb.Grow(1 << 20)
		_, _ = bb.Write([]byte("data"))
		p.Put(bb)
		assert.Equal(t, 0, bb.Len())
	})

	t.Run("nil put is ignored", func(t *testing.T) {
		assert.NotPanics(t, func() {
			PutPayloadBuffer(nil)
			PutFileBuffer(nil)
		})
	})
}

func TestDefaultPools(t *testing.T) {
	payload := GetPayloadBuffer()
	file := GetFileBuffer()

	assert.Equal(t, 0, payload.Len())
	assert.GreaterOrEqual(t, payload.Cap(), PayloadBufferDefaultSize)
	assert.Equal(t, 0, file.Len())
	assert.GreaterOrEqual(t, file.Cap(), FileBufferDefaultSize)

	PutPayloadBuffer(payload)
	PutFileBuffer(file)
}

func TestDefaultPools_ConcurrentAccess(t *testing.T) {
	const workers = 32
	const iterations = 200

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < iterations; j++ {
				bb := GetPayloadBuffer()
				_, _ = bb.Write([]byte{0x00, 0x00, 0x00, 0x80})
				assert.Equal(t, 4, bb.Len())
				PutPayloadBuffer(bb)
			}
		}()
	}
	wg.Wait()
}
