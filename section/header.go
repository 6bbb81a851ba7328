package section

import (
	"fmt"
	"math"

	"github.com/KotobaMedia/jp-estat-to-sql/endian"
	"github.com/KotobaMedia/jp-estat-to-sql/errs"
	"github.com/KotobaMedia/jp-estat-to-sql/format"
)

// TileHeader is the fixed-size header at the start of every tile file.
type TileHeader struct {
	Version     uint8
	MeshKind    format.MeshKind
	DType       format.DType
	Flag        TileFlag
	Compression format.CompressionType

	// TileID is the mesh code of the tile.
	TileID uint64
	Rows   uint32
	Cols   uint32
	Bands  uint8

	// NoData is only meaningful when Flag.HasNoData() is true.
	NoData float64

	UncompressedLen uint64
	CompressedLen   uint64
	// Checksum is the xxHash64 of the uncompressed payload.
	Checksum uint64
}

// CellCount returns rows × cols × bands.
func (h *TileHeader) CellCount() uint64 {
	return uint64(h.Rows) * uint64(h.Cols) * uint64(h.Bands)
}

// ExpectedPayloadLen returns the uncompressed payload size implied by the
// dimensions and data type.
func (h *TileHeader) ExpectedPayloadLen() uint64 {
	return h.CellCount() * uint64(h.DType.Size())
}

// NoDataValue returns the no-data value and whether one is set.
func (h *TileHeader) NoDataValue() (float64, bool) {
	return h.NoData, h.Flag.HasNoData()
}

// Validate checks version, enum fields and flag bits.
func (h *TileHeader) Validate() error {
	if h.Version != Version {
		return fmt.Errorf("%w: %d", errs.ErrUnsupportedVersion, h.Version)
	}
	if err := h.Flag.Validate(); err != nil {
		return err
	}
	if !h.MeshKind.Valid() {
		return fmt.Errorf("%w: mesh kind 0x%02x", errs.ErrInvalidHeaderFlags, uint8(h.MeshKind))
	}
	if !h.DType.Valid() {
		return fmt.Errorf("%w: dtype 0x%02x", errs.ErrInvalidHeaderFlags, uint8(h.DType))
	}
	if !h.Compression.Valid() {
		return fmt.Errorf("%w: compression 0x%02x", errs.ErrInvalidHeaderFlags, uint8(h.Compression))
	}

	return nil
}

// Parse parses the header from a byte slice.
//
// Parameters:
//   - data: Byte slice containing the header (must be exactly HeaderSize bytes)
//
// Returns:
//   - error: ErrInvalidHeaderSize, ErrInvalidMagicNumber, or a Validate error
func (h *TileHeader) Parse(data []byte) error {
	if len(data) != HeaderSize {
		return errs.ErrInvalidHeaderSize
	}
	if string(data[offsetMagic:offsetMagic+4]) != Magic {
		return errs.ErrInvalidMagicNumber
	}

	engine := endian.GetLittleEndianEngine()

	h.Version = data[offsetVersion]
	h.MeshKind = format.MeshKind(data[offsetMeshKind])
	h.DType = format.DType(data[offsetDType])
	h.Flag = TileFlag(data[offsetFlag])
	h.Compression = format.CompressionType(data[offsetCompression])
	h.TileID = engine.Uint64(data[offsetTileID:])
	h.Rows = engine.Uint32(data[offsetRows:])
	h.Cols = engine.Uint32(data[offsetCols:])
	h.Bands = data[offsetBands]
	h.NoData = math.Float64frombits(engine.Uint64(data[offsetNoData:]))
	h.UncompressedLen = engine.Uint64(data[offsetUncompressedLen:])
	h.CompressedLen = engine.Uint64(data[offsetCompressedLen:])
	h.Checksum = engine.Uint64(data[offsetChecksum:])

	return h.Validate()
}

// Bytes serializes the header into a new HeaderSize byte slice.
func (h *TileHeader) Bytes() []byte {
	return h.AppendTo(make([]byte, 0, HeaderSize))
}

// AppendTo appends the serialized header to dst.
func (h *TileHeader) AppendTo(dst []byte) []byte {
	start := len(dst)
	dst = append(dst, make([]byte, HeaderSize)...)
	b := dst[start:]

	engine := endian.GetLittleEndianEngine()

	copy(b[offsetMagic:], Magic)
	b[offsetVersion] = h.Version
	b[offsetMeshKind] = uint8(h.MeshKind)
	b[offsetDType] = uint8(h.DType)
	b[offsetFlag] = uint8(h.Flag)
	b[offsetCompression] = uint8(h.Compression)
	engine.PutUint64(b[offsetTileID:], h.TileID)
	engine.PutUint32(b[offsetRows:], h.Rows)
	engine.PutUint32(b[offsetCols:], h.Cols)
	b[offsetBands] = h.Bands
	engine.PutUint64(b[offsetNoData:], math.Float64bits(h.NoData))
	engine.PutUint64(b[offsetUncompressedLen:], h.UncompressedLen)
	engine.PutUint64(b[offsetCompressedLen:], h.CompressedLen)
	engine.PutUint64(b[offsetChecksum:], h.Checksum)

	return dst
}

// ParseTileHeader parses a TileHeader from the start of a tile file.
//
// Parameters:
//   - data: Byte slice starting with the header (must be at least HeaderSize bytes)
//
// Returns:
//   - TileHeader: Parsed header struct
//   - error: ErrInvalidHeaderSize or any Parse error
func ParseTileHeader(data []byte) (TileHeader, error) {
	if len(data) < HeaderSize {
		return TileHeader{}, errs.ErrInvalidHeaderSize
	}

	h := TileHeader{}
	if err := h.Parse(data[:HeaderSize]); err != nil {
		return TileHeader{}, err
	}

	return h, nil
}
