package tileset

import (
	"fmt"
	"log/slog"

	"github.com/KotobaMedia/jp-estat-to-sql/errs"
	"github.com/KotobaMedia/jp-estat-to-sql/format"
	"github.com/KotobaMedia/jp-estat-to-sql/internal/options"
)

// WriterConfig holds the options of a Writer.
type WriterConfig struct {
	compression format.CompressionType
	logger      *slog.Logger
}

func newWriterConfig() *WriterConfig {
	return &WriterConfig{compression: format.CompressionDeflateRaw}
}

// WriterOption represents a functional option for configuring the WriterConfig.
type WriterOption = options.Option[*WriterConfig]

// WithCompression selects the tile payload compression. Default deflate-raw.
func WithCompression(ct format.CompressionType) WriterOption {
	return options.New(func(c *WriterConfig) error {
		if !ct.Valid() {
			return fmt.Errorf("%w: compression 0x%02x", errs.ErrInvalidOption, uint8(ct))
		}
		c.compression = ct

		return nil
	})
}

// WithLogger sets the logger for per-tile debug output.
func WithLogger(l *slog.Logger) WriterOption {
	return options.NoError(func(c *WriterConfig) {
		c.logger = l
	})
}
