package compress

import (
	"fmt"

	"github.com/KotobaMedia/jp-estat-to-sql/errs"
	"github.com/KotobaMedia/jp-estat-to-sql/format"
)

// Compressor compresses one complete tile payload.
//
// The returned slice is owned by the caller. The input slice is not modified,
// except by NoOpCompressor which returns it unchanged.
type Compressor interface {
	Compress(data []byte) ([]byte, error)
}

// Decompressor reverses a Compressor of the same algorithm.
//
// It returns an error if the data is corrupted or was produced by another algorithm.
type Decompressor interface {
	Decompress(data []byte) ([]byte, error)
}

// Codec combines both compression and decompression capabilities.
type Codec interface {
	Compressor
	Decompressor
}

// Stats describes one compression call. It is used for logging and metrics.
type Stats struct {
	Algorithm      format.CompressionType
	OriginalSize   int64
	CompressedSize int64
}

// Ratio returns compressed size / original size, or 0 for an empty input.
func (s Stats) Ratio() float64 {
	if s.OriginalSize == 0 {
		return 0.0
	}

	return float64(s.CompressedSize) / float64(s.OriginalSize)
}

// SpaceSavings returns the space savings as a percentage (0-100%).
func (s Stats) SpaceSavings() float64 {
	return (1.0 - s.Ratio()) * 100.0
}

// CreateCodec creates a Codec for the specified compression type.
//
// Parameters:
//   - compressionType: one of the format.Compression* selectors
//   - target: description of the data being compressed (for error messages)
//
// Returns:
//   - Codec: codec instance for the specified type
//   - error: errs.ErrInvalidOption for an unknown type
func CreateCodec(compressionType format.CompressionType, target string) (Codec, error) {
	switch compressionType {
	case format.CompressionNone:
		return NewNoOpCompressor(), nil
	case format.CompressionZstd:
		return NewZstdCompressor(), nil
	case format.CompressionS2:
		return NewS2Compressor(), nil
	case format.CompressionLZ4:
		return NewLZ4Compressor(), nil
	case format.CompressionDeflateRaw:
		return NewDeflateRawCompressor(DefaultDeflateLevel), nil
	default:
		return nil, fmt.Errorf("%w: invalid %s compression: %s", errs.ErrInvalidOption, target, compressionType)
	}
}

var builtinCodecs = map[format.CompressionType]Codec{
	format.CompressionNone:       NewNoOpCompressor(),
	format.CompressionZstd:       NewZstdCompressor(),
	format.CompressionS2:         NewS2Compressor(),
	format.CompressionLZ4:        NewLZ4Compressor(),
	format.CompressionDeflateRaw: NewDeflateRawCompressor(DefaultDeflateLevel),
}

// GetCodec retrieves a built-in Codec for the specified compression type.
func GetCodec(compressionType format.CompressionType) (Codec, error) {
	if codec, ok := builtinCodecs[compressionType]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("%w: unsupported compression type: %s", errs.ErrInvalidOption, compressionType)
}

// CompressWithStats compresses data and reports the size change.
func CompressWithStats(codec Compressor, algorithm format.CompressionType, data []byte) ([]byte, Stats, error) {
	out, err := codec.Compress(data)
	if err != nil {
		return nil, Stats{}, err
	}

	return out, Stats{
		Algorithm:      algorithm,
		OriginalSize:   int64(len(data)),
		CompressedSize: int64(len(out)),
	}, nil
}
