package tile

import (
	"fmt"
	"os"

	"github.com/KotobaMedia/jp-estat-to-sql/compress"
	"github.com/KotobaMedia/jp-estat-to-sql/endian"
	"github.com/KotobaMedia/jp-estat-to-sql/errs"
	"github.com/KotobaMedia/jp-estat-to-sql/format"
	"github.com/KotobaMedia/jp-estat-to-sql/internal/hash"
	"github.com/KotobaMedia/jp-estat-to-sql/section"
)

// Tile is a decoded tile file.
type Tile struct {
	Header section.TileHeader
	// Payload is the uncompressed value array.
	Payload []byte
}

// Decode parses a tile file, decompresses the payload and verifies its checksum.
//
// Parameters:
//   - data: Complete tile file bytes
//
// Returns:
//   - *Tile: Decoded tile
//   - error: header errors, errs.ErrPayloadSizeMismatch, errs.ErrChecksumMismatch,
//     or a decompression error
func Decode(data []byte) (*Tile, error) {
	header, err := section.ParseTileHeader(data)
	if err != nil {
		return nil, err
	}

	body := data[section.HeaderSize:]
	if uint64(len(body)) != header.CompressedLen {
		return nil, fmt.Errorf("%w: compressed payload is %d bytes, header says %d",
			errs.ErrPayloadSizeMismatch, len(body), header.CompressedLen)
	}

	codec, err := compress.GetCodec(header.Compression)
	if err != nil {
		return nil, err
	}

	payload, err := codec.Decompress(body)
	if err != nil {
		return nil, fmt.Errorf("tile %d: %w", header.TileID, err)
	}

	if uint64(len(payload)) != header.UncompressedLen || header.UncompressedLen != header.ExpectedPayloadLen() {
		return nil, fmt.Errorf("%w: payload is %d bytes, expected %d",
			errs.ErrPayloadSizeMismatch, len(payload), header.ExpectedPayloadLen())
	}
	if hash.Checksum(payload) != header.Checksum {
		return nil, fmt.Errorf("%w: tile %d", errs.ErrChecksumMismatch, header.TileID)
	}

	return &Tile{Header: header, Payload: payload}, nil
}

// ReadFile reads and decodes a tile file from disk.
func ReadFile(path string) (*Tile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	t, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return t, nil
}

// Int32At returns the value of one cell band. Rows count from the top of the tile.
func (t *Tile) Int32At(row, col, band int) (int32, error) {
	if t.Header.DType != format.DTypeInt32 {
		return 0, fmt.Errorf("%w: tile dtype is %s", errs.ErrInvalidOption, t.Header.DType)
	}

	rows, cols, bands := int(t.Header.Rows), int(t.Header.Cols), int(t.Header.Bands)
	if row < 0 || row >= rows || col < 0 || col >= cols || band < 0 || band >= bands {
		return 0, fmt.Errorf("%w: (%d, %d, %d) in %dx%dx%d",
			errs.ErrCellOutOfRange, row, col, band, rows, cols, bands)
	}

	offset := (((row * cols) + col) * bands) + band
	engine := t.Header.Flag.PayloadEngine()

	return int32(engine.Uint32(t.Payload[offset*4:])), nil //nolint: gosec
}

// Int32s returns the whole payload as int32 values.
func (t *Tile) Int32s() []int32 {
	return endian.Int32s(t.Header.Flag.PayloadEngine(), t.Payload)
}

// IsNoData reports whether v equals the header's no-data value.
func (t *Tile) IsNoData(v int32) bool {
	noData, ok := t.Header.NoDataValue()
	return ok && float64(v) == noData
}
