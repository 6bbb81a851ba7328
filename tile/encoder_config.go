package tile

import (
	"fmt"

	"github.com/klauspost/compress/flate"

	"github.com/KotobaMedia/jp-estat-to-sql/compress"
	"github.com/KotobaMedia/jp-estat-to-sql/errs"
	"github.com/KotobaMedia/jp-estat-to-sql/format"
	"github.com/KotobaMedia/jp-estat-to-sql/internal/options"
)

// EncoderConfig holds the codec selection of an Encoder.
type EncoderConfig struct {
	deflateLevel int
	overrides    map[format.CompressionType]compress.Codec
}

func newEncoderConfig() *EncoderConfig {
	return &EncoderConfig{
		deflateLevel: compress.DefaultDeflateLevel,
	}
}

// codec returns the codec for the compression type, honoring overrides.
func (c *EncoderConfig) codec(ct format.CompressionType) (compress.Codec, error) {
	if codec, ok := c.overrides[ct]; ok {
		return codec, nil
	}
	if ct == format.CompressionDeflateRaw {
		return compress.NewDeflateRawCompressor(c.deflateLevel), nil
	}

	return compress.GetCodec(ct)
}

// EncoderOption represents a functional option for configuring the EncoderConfig.
type EncoderOption = options.Option[*EncoderConfig]

// WithCompressionLevel sets the DEFLATE level used for deflate-raw tiles.
//
// Valid levels are flate.HuffmanOnly (-2) through flate.BestCompression (9).
func WithCompressionLevel(level int) EncoderOption {
	return options.New(func(c *EncoderConfig) error {
		if level < flate.HuffmanOnly || level > flate.BestCompression {
			return fmt.Errorf("%w: deflate level %d", errs.ErrInvalidOption, level)
		}
		c.deflateLevel = level

		return nil
	})
}

// WithCodec replaces the built-in codec for one compression type.
func WithCodec(ct format.CompressionType, codec compress.Codec) EncoderOption {
	return options.New(func(c *EncoderConfig) error {
		if !ct.Valid() || codec == nil {
			return fmt.Errorf("%w: codec override for %s", errs.ErrInvalidOption, ct)
		}
		if c.overrides == nil {
			c.overrides = make(map[format.CompressionType]compress.Codec)
		}
		c.overrides[ct] = codec

		return nil
	})
}
