package pipeline

import (
	"fmt"
	"strings"

	"github.com/KotobaMedia/jp-estat-to-sql/errs"
	"github.com/KotobaMedia/jp-estat-to-sql/format"
	"github.com/KotobaMedia/jp-estat-to-sql/meshgrid"
)

// Data levels accepted by the mesh-tile command.
const (
	MinDataLevel meshgrid.Level = 3
	MaxDataLevel meshgrid.Level = 6
)

// Options describes one mesh-tile run.
type Options struct {
	Level meshgrid.Level
	// TileLevel defaults to Level when zero.
	TileLevel meshgrid.Level
	Year      uint16
	Survey    string
	// Bands selects columns by name; nil selects all.
	Bands     []string
	OutputDir string
	// InputFiles skips retrieval and reads these files instead.
	InputFiles []string
	// Compression defaults to deflate-raw when zero.
	Compression format.CompressionType
	// WriteIndex also writes tiles.geojson.
	WriteIndex bool
}

// withDefaults fills in the zero-value defaults.
func (o Options) withDefaults() Options {
	if o.TileLevel == 0 {
		o.TileLevel = o.Level
	}
	if o.Compression == 0 {
		o.Compression = format.CompressionDeflateRaw
	}

	return o
}

// Validate checks the options after defaults are applied.
func (o Options) Validate() error {
	o = o.withDefaults()

	if o.Level < MinDataLevel || o.Level > MaxDataLevel {
		return fmt.Errorf("%w: level %d, want %d-%d", errs.ErrUnsupportedLevel, o.Level, MinDataLevel, MaxDataLevel)
	}
	if err := o.TileLevel.Validate(); err != nil {
		return err
	}
	if o.TileLevel > o.Level {
		return fmt.Errorf("%w: tile level %d, data level %d", errs.ErrInvalidLevelOrdering, o.TileLevel, o.Level)
	}
	if strings.TrimSpace(o.OutputDir) == "" {
		return fmt.Errorf("%w: output directory is required", errs.ErrInvalidOption)
	}
	if !o.Compression.Valid() {
		return fmt.Errorf("%w: compression 0x%02x", errs.ErrInvalidOption, uint8(o.Compression))
	}
	if o.Bands != nil && len(o.Bands) == 0 {
		return fmt.Errorf("%w: no bands specified", errs.ErrEmptyBandList)
	}

	return nil
}
