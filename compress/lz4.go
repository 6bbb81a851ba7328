package compress

import (
	"errors"
	"fmt"
	"sync"

	"github.com/pierrec/lz4/v4"
)

// lz4 block frames carry a one byte mode prefix because CompressBlock reports
// incompressible input (tiny 1x1 tiles, for example) by writing nothing.
const (
	lz4ModeStored byte = 0x0
	lz4ModeBlock  byte = 0x1
)

var lz4CompressorPool = sync.Pool{
	New: func() any {
		return &lz4.Compressor{}
	},
}

// LZ4Compressor provides LZ4 block compression.
type LZ4Compressor struct{}

var _ Codec = (*LZ4Compressor)(nil)

// NewLZ4Compressor creates a new LZ4 compressor.
func NewLZ4Compressor() LZ4Compressor {
	return LZ4Compressor{}
}

// Compress compresses the input data using LZ4 compression.
//
// Returns nil for empty input.
func (c LZ4Compressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	dst := make([]byte, 1+lz4.CompressBlockBound(len(data)))

	lc, _ := lz4CompressorPool.Get().(*lz4.Compressor)
	defer lz4CompressorPool.Put(lc)

	n, err := lc.CompressBlock(data, dst[1:])
	if err != nil {
		return nil, err
	}
	if n == 0 {
		dst = append(dst[:1], data...)
		dst[0] = lz4ModeStored

		return dst, nil
	}
	dst[0] = lz4ModeBlock

	return dst[:1+n], nil
}

// Decompress decompresses the input data using LZ4 decompression.
//
// The decompressed size is not stored in the block, so the buffer starts at 4x
// the compressed size and doubles on ErrInvalidSourceShortBuffer up to 128MB.
func (c LZ4Compressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	switch data[0] {
	case lz4ModeStored:
		out := make([]byte, len(data)-1)
		copy(out, data[1:])

		return out, nil
	case lz4ModeBlock:
	default:
		return nil, fmt.Errorf("lz4 decompression failed: unknown block mode 0x%02x", data[0])
	}

	src := data[1:]
	bufSize := len(src) * 4
	const maxSize = 128 * 1024 * 1024

	for bufSize <= maxSize {
		buf := make([]byte, bufSize)
		n, err := lz4.UncompressBlock(src, buf)
		if err != nil {
			if errors.Is(err, lz4.ErrInvalidSourceShortBuffer) && bufSize < maxSize {
				bufSize *= 2
				continue
			}

			return nil, fmt.Errorf("lz4 decompression failed: %w", err)
		}

		return buf[:n], nil
	}

	return nil, lz4.ErrInvalidSourceShortBuffer
}
