package compress

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"github.com/klauspost/compress/flate"
)

// DefaultDeflateLevel balances ratio and speed for sparse tile payloads.
const DefaultDeflateLevel = flate.DefaultCompression

// DeflateRawCompressor writes raw DEFLATE streams without zlib or gzip framing.
type DeflateRawCompressor struct {
	level int
}

var _ Codec = (*DeflateRawCompressor)(nil)

var deflateWriterPools sync.Map // level -> *sync.Pool of *flate.Writer

// NewDeflateRawCompressor creates a raw DEFLATE codec at the given level
// (flate.HuffmanOnly..flate.BestCompression). Out of range levels use the default.
func NewDeflateRawCompressor(level int) DeflateRawCompressor {
	if level < flate.HuffmanOnly || level > flate.BestCompression {
		level = DefaultDeflateLevel
	}

	return DeflateRawCompressor{level: level}
}

// Level returns the configured compression level.
func (c DeflateRawCompressor) Level() int {
	return c.level
}

func (c DeflateRawCompressor) writerPool() *sync.Pool {
	if p, ok := deflateWriterPools.Load(c.level); ok {
		return p.(*sync.Pool)
	}

	level := c.level
	p, _ := deflateWriterPools.LoadOrStore(level, &sync.Pool{
		New: func() any {
			w, err := flate.NewWriter(nil, level)
			if err != nil {
				// level is range-checked in the constructor
				panic(fmt.Sprintf("failed to create deflate writer: %v", err))
			}
			return w
		},
	})

	return p.(*sync.Pool)
}

// Compress compresses data into a raw DEFLATE stream.
func (c DeflateRawCompressor) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(len(data)/4 + 64)

	pool := c.writerPool()
	w, _ := pool.Get().(*flate.Writer)
	defer pool.Put(w)
	w.Reset(&buf)

	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("deflate compression failed: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("deflate compression failed: %w", err)
	}

	return buf.Bytes(), nil
}

// Decompress inflates a raw DEFLATE stream.
func (c DeflateRawCompressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	r := flate.NewReader(bytes.NewReader(data))
	defer r.Close()

	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("deflate decompression failed: %w", err)
	}

	return out, nil
}
