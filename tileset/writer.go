package tileset

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/KotobaMedia/jp-estat-to-sql/accumulate"
	"github.com/KotobaMedia/jp-estat-to-sql/bands"
	"github.com/KotobaMedia/jp-estat-to-sql/endian"
	"github.com/KotobaMedia/jp-estat-to-sql/errs"
	"github.com/KotobaMedia/jp-estat-to-sql/format"
	"github.com/KotobaMedia/jp-estat-to-sql/internal/logging"
	"github.com/KotobaMedia/jp-estat-to-sql/internal/options"
	"github.com/KotobaMedia/jp-estat-to-sql/internal/pool"
	"github.com/KotobaMedia/jp-estat-to-sql/meshgrid"
	"github.com/KotobaMedia/jp-estat-to-sql/tile"
)

// Codec encodes one tile. *tile.Encoder implements it.
type Codec interface {
	Encode(in tile.EncodeInput) (tile.Encoded, error)
}

// Stats counts what a Writer has written.
type Stats struct {
	Tiles int
	// Bytes is the size of all tile files.
	Bytes int64
	// PayloadBytes is the uncompressed payload size of all tiles.
	PayloadBytes int64
}

// Writer writes metadata and tiles into one directory.
// It is not safe for concurrent use.
type Writer struct {
	dir             string
	codec           Codec
	compression     format.CompressionType
	logger          *slog.Logger
	metadataWritten bool
	stats           Stats
}

// NewWriter creates dir if needed and returns a Writer for it.
func NewWriter(dir string, codec Codec, opts ...WriterOption) (*Writer, error) {
	if codec == nil {
		return nil, fmt.Errorf("%w: nil tile codec", errs.ErrInvalidOption)
	}

	config := newWriterConfig()
	if err := options.Apply(config, opts...); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	return &Writer{
		dir:         dir,
		codec:       codec,
		compression: config.compression,
		logger:      logging.OrDiscard(config.logger),
	}, nil
}

// Dir returns the output directory.
func (w *Writer) Dir() string {
	return w.dir
}

// Stats returns the counters so far.
func (w *Writer) Stats() Stats {
	return w.stats
}

// TilePath returns the file path of a tile code.
func (w *Writer) TilePath(code uint64) string {
	return filepath.Join(w.dir, TileFileName(code))
}

// TileFileName returns "<code>.tile".
func TileFileName(code uint64) string {
	return strconv.FormatUint(code, 10) + TileExtension
}

// WriteMetadata writes metadata.json. It may be called once per Writer and
// md.Compression must match the writer's compression.
func (w *Writer) WriteMetadata(md Metadata) error {
	if w.metadataWritten {
		return errs.ErrMetadataAlreadyWritten
	}
	if md.Compression != w.compression.Tag() {
		return fmt.Errorf("%w: metadata compression %q, writer compression %q",
			errs.ErrInvalidOption, md.Compression, w.compression.Tag())
	}

	body, err := md.Marshal()
	if err != nil {
		return fmt.Errorf("encoding %s: %w", MetadataFileName, err)
	}

	path := filepath.Join(w.dir, MetadataFileName)
	if err := os.WriteFile(path, body, 0o644); err != nil { //nolint: gosec
		return fmt.Errorf("writing %s: %w", path, err)
	}
	w.metadataWritten = true

	w.logger.Info("wrote tile set metadata",
		slog.String("path", path),
		slog.Int("bands", int(md.Bands)),
		slog.Int("rows", int(md.Rows)),
	)

	return nil
}

// BuildPayload appends values to dst as little-endian int32s.
func BuildPayload(dst []byte, values []int32) []byte {
	return endian.AppendInt32s(endian.GetLittleEndianEngine(), dst, values)
}

// WriteTile encodes a tile buffer and writes it to <code>.tile.
//
// values must hold rowsPerAxis² × bandCount values laid out row-major with
// bands interleaved.
func (w *Writer) WriteTile(code uint64, rowsPerAxis, bandCount int, values []int32) error {
	if !w.metadataWritten {
		return errs.ErrMetadataNotWritten
	}
	if bandCount <= 0 {
		return errs.ErrEmptyBandList
	}
	if bandCount > bands.MaxBands {
		return fmt.Errorf("%w: %d", errs.ErrTooManyBands, bandCount)
	}
	want, err := meshgrid.CellCount(rowsPerAxis, bandCount)
	if err != nil {
		return err
	}
	if len(values) != want {
		return fmt.Errorf("%w: tile %d has %d values, want %d",
			errs.ErrTileBufferLengthMismatched, code, len(values), want)
	}

	buf := pool.GetPayloadBuffer()
	defer pool.PutPayloadBuffer(buf)
	buf.Grow(len(values) * 4)
	buf.B = BuildPayload(buf.B[:0], values)

	noData := float64(accumulate.NoData)
	encoded, err := w.codec.Encode(tile.EncodeInput{
		TileID:      code,
		MeshKind:    format.MeshKindJISX0410,
		DType:       format.DTypeInt32,
		Endianness:  format.LittleEndian,
		Compression: w.compression,
		Dimensions: tile.Dimensions{
			Rows:  uint32(rowsPerAxis), //nolint: gosec
			Cols:  uint32(rowsPerAxis), //nolint: gosec
			Bands: uint8(bandCount),    //nolint: gosec
		},
		NoData:  &noData,
		Payload: buf.Bytes(),
	})
	if err != nil {
		return fmt.Errorf("%w: tile %d: %w", errs.ErrTileEncodingFailed, code, err)
	}

	path := w.TilePath(code)
	if err := os.WriteFile(path, encoded.Bytes, 0o644); err != nil { //nolint: gosec
		return fmt.Errorf("writing %s: %w", path, err)
	}

	w.stats.Tiles++
	w.stats.Bytes += int64(len(encoded.Bytes))
	w.stats.PayloadBytes += int64(buf.Len())

	w.logger.Debug("wrote tile",
		slog.Uint64("tile", code),
		slog.Int("bytes", len(encoded.Bytes)),
		slog.Float64("ratio", encoded.Stats.Ratio()),
	)

	return nil
}
