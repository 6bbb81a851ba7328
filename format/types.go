package format

import (
	"fmt"

	"github.com/KotobaMedia/jp-estat-to-sql/errs"
)

type (
	DType           uint8
	Endianness      uint8
	CompressionType uint8
	MeshKind        uint8
)

const (
	DTypeUint8   DType = 0x1 // DTypeUint8 stores one unsigned byte per value.
	DTypeInt16   DType = 0x2 // DTypeInt16 stores signed 16-bit values.
	DTypeInt32   DType = 0x3 // DTypeInt32 stores signed 32-bit values.
	DTypeFloat32 DType = 0x4 // DTypeFloat32 stores IEEE-754 single precision values.
	DTypeFloat64 DType = 0x5 // DTypeFloat64 stores IEEE-754 double precision values.

	LittleEndian Endianness = 0x0 // LittleEndian is the default byte order for tile payloads.
	BigEndian    Endianness = 0x1 // BigEndian is kept for readers on big-endian hosts.

	CompressionNone       CompressionType = 0x1 // CompressionNone represents no compression.
	CompressionZstd       CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2         CompressionType = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4        CompressionType = 0x4 // CompressionLZ4 represents LZ4 block compression.
	CompressionDeflateRaw CompressionType = 0x5 // CompressionDeflateRaw represents raw DEFLATE (RFC 1951, no zlib header).

	MeshKindJISX0410 MeshKind = 0x1 // MeshKindJISX0410 is the Japanese standard regional mesh.
)

// Size returns the byte width of one value, or 0 for an unknown type.
func (d DType) Size() int {
	switch d {
	case DTypeUint8:
		return 1
	case DTypeInt16:
		return 2
	case DTypeInt32, DTypeFloat32:
		return 4
	case DTypeFloat64:
		return 8
	default:
		return 0
	}
}

// Tag returns the metadata name of the type.
func (d DType) Tag() string {
	switch d {
	case DTypeUint8:
		return "uint8"
	case DTypeInt16:
		return "int16"
	case DTypeInt32:
		return "int32"
	case DTypeFloat32:
		return "float32"
	case DTypeFloat64:
		return "float64"
	default:
		return "unknown"
	}
}

func (d DType) String() string { return d.Tag() }

// Valid reports whether d is a known data type.
func (d DType) Valid() bool { return d.Size() != 0 }

// Tag returns the metadata name of the byte order.
func (e Endianness) Tag() string {
	switch e {
	case LittleEndian:
		return "little"
	case BigEndian:
		return "big"
	default:
		return "unknown"
	}
}

func (e Endianness) String() string { return e.Tag() }

// Valid reports whether e is a known byte order.
func (e Endianness) Valid() bool { return e == LittleEndian || e == BigEndian }

// Tag returns the metadata name of the compression, as written to metadata.json.
func (c CompressionType) Tag() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionZstd:
		return "zstd"
	case CompressionS2:
		return "s2"
	case CompressionLZ4:
		return "lz4"
	case CompressionDeflateRaw:
		return "deflate-raw"
	default:
		return "unknown"
	}
}

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	case CompressionDeflateRaw:
		return "DeflateRaw"
	default:
		return "Unknown"
	}
}

// Valid reports whether c is a known compression type.
func (c CompressionType) Valid() bool {
	return c >= CompressionNone && c <= CompressionDeflateRaw
}

// ParseCompression resolves a metadata tag such as "deflate-raw" to its CompressionType.
func ParseCompression(tag string) (CompressionType, error) {
	for c := CompressionNone; c <= CompressionDeflateRaw; c++ {
		if c.Tag() == tag {
			return c, nil
		}
	}

	return 0, fmt.Errorf("%w: unknown compression %q", errs.ErrInvalidOption, tag)
}

// Tag returns the metadata name of the mesh kind.
func (m MeshKind) Tag() string {
	switch m {
	case MeshKindJISX0410:
		return "jis-x0410"
	default:
		return "unknown"
	}
}

func (m MeshKind) String() string { return m.Tag() }

// Valid reports whether m is a known mesh kind.
func (m MeshKind) Valid() bool { return m == MeshKindJISX0410 }
