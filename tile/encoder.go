package tile

import (
	"fmt"

	"github.com/KotobaMedia/jp-estat-to-sql/compress"
	"github.com/KotobaMedia/jp-estat-to-sql/errs"
	"github.com/KotobaMedia/jp-estat-to-sql/format"
	"github.com/KotobaMedia/jp-estat-to-sql/internal/hash"
	"github.com/KotobaMedia/jp-estat-to-sql/internal/options"
	"github.com/KotobaMedia/jp-estat-to-sql/internal/pool"
	"github.com/KotobaMedia/jp-estat-to-sql/section"
)

// Dimensions is the shape of a tile payload.
type Dimensions struct {
	Rows  uint32
	Cols  uint32
	Bands uint8
}

// CellCount returns rows × cols × bands.
func (d Dimensions) CellCount() uint64 {
	return uint64(d.Rows) * uint64(d.Cols) * uint64(d.Bands)
}

// EncodeInput is everything the encoder needs to produce one tile file.
type EncodeInput struct {
	TileID      uint64
	MeshKind    format.MeshKind
	DType       format.DType
	Endianness  format.Endianness
	Compression format.CompressionType
	Dimensions  Dimensions
	// NoData is optional; nil leaves the header's no-data flag cleared.
	NoData *float64
	// Payload holds the uncompressed values in Endianness byte order.
	Payload []byte
}

// Encoded is one complete tile file.
type Encoded struct {
	Header section.TileHeader
	Bytes  []byte
	Stats  compress.Stats
}

// Encoder turns payloads into tile files. It is safe for concurrent use.
type Encoder struct {
	config *EncoderConfig
}

// NewEncoder creates a new Encoder.
//
// Parameters:
//   - opts: Optional configuration (compression level, codec overrides)
//
// Returns:
//   - *Encoder: Encoder ready to use
//   - error: errs.ErrInvalidOption if an option is rejected
func NewEncoder(opts ...EncoderOption) (*Encoder, error) {
	config := newEncoderConfig()
	if err := options.Apply(config, opts...); err != nil {
		return nil, err
	}

	return &Encoder{config: config}, nil
}

// Encode validates the input, compresses the payload and returns the tile file bytes.
func (e *Encoder) Encode(in EncodeInput) (Encoded, error) {
	if err := validateInput(in); err != nil {
		return Encoded{}, err
	}

	codec, err := e.config.codec(in.Compression)
	if err != nil {
		return Encoded{}, err
	}

	compressed, stats, err := compress.CompressWithStats(codec, in.Compression, in.Payload)
	if err != nil {
		return Encoded{}, fmt.Errorf("tile %d: %w", in.TileID, err)
	}

	header := section.TileHeader{
		Version:         section.Version,
		MeshKind:        in.MeshKind,
		DType:           in.DType,
		Flag:            section.NewTileFlag(in.Endianness).WithNoData(in.NoData != nil),
		Compression:     in.Compression,
		TileID:          in.TileID,
		Rows:            in.Dimensions.Rows,
		Cols:            in.Dimensions.Cols,
		Bands:           in.Dimensions.Bands,
		UncompressedLen: uint64(len(in.Payload)),
		CompressedLen:   uint64(len(compressed)),
		Checksum:        hash.Checksum(in.Payload),
	}
	if in.NoData != nil {
		header.NoData = *in.NoData
	}

	buf := pool.GetFileBuffer()
	defer pool.PutFileBuffer(buf)

	buf.Grow(section.HeaderSize + len(compressed))
	buf.B = header.AppendTo(buf.B)
	_, _ = buf.Write(compressed)

	out := make([]byte, buf.Len())
	copy(out, buf.Bytes())

	return Encoded{Header: header, Bytes: out, Stats: stats}, nil
}

func validateInput(in EncodeInput) error {
	if !in.MeshKind.Valid() {
		return fmt.Errorf("%w: mesh kind 0x%02x", errs.ErrInvalidHeaderFlags, uint8(in.MeshKind))
	}
	if !in.DType.Valid() {
		return fmt.Errorf("%w: dtype 0x%02x", errs.ErrInvalidHeaderFlags, uint8(in.DType))
	}
	if !in.Endianness.Valid() {
		return fmt.Errorf("%w: endianness 0x%02x", errs.ErrInvalidHeaderFlags, uint8(in.Endianness))
	}
	if !in.Compression.Valid() {
		return fmt.Errorf("%w: compression 0x%02x", errs.ErrInvalidHeaderFlags, uint8(in.Compression))
	}

	want := in.Dimensions.CellCount() * uint64(in.DType.Size())
	if want == 0 || uint64(len(in.Payload)) != want {
		return fmt.Errorf("%w: tile %d has %d bytes, dimensions %dx%dx%d need %d",
			errs.ErrPayloadSizeMismatch, in.TileID, len(in.Payload),
			in.Dimensions.Rows, in.Dimensions.Cols, in.Dimensions.Bands, want)
	}

	return nil
}
