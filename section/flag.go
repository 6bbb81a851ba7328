package section

import (
	"github.com/KotobaMedia/jp-estat-to-sql/endian"
	"github.com/KotobaMedia/jp-estat-to-sql/errs"
	"github.com/KotobaMedia/jp-estat-to-sql/format"
)

// TileFlag is the packed option byte of the tile header.
type TileFlag uint8

// NewTileFlag returns the flag for a payload in the given byte order.
func NewTileFlag(e format.Endianness) TileFlag {
	var f TileFlag
	if e == format.BigEndian {
		f |= FlagBigEndian
	}

	return f
}

// IsBigEndian reports whether payload values are big-endian.
func (f TileFlag) IsBigEndian() bool {
	return f&FlagBigEndian != 0
}

// HasNoData reports whether the header's no-data value is set.
func (f TileFlag) HasNoData() bool {
	return f&FlagHasNoData != 0
}

// WithNoData returns f with the no-data bit set or cleared.
func (f TileFlag) WithNoData(enabled bool) TileFlag {
	if enabled {
		return f | FlagHasNoData
	}

	return f &^ FlagHasNoData
}

// Endianness returns the payload byte order.
func (f TileFlag) Endianness() format.Endianness {
	if f.IsBigEndian() {
		return format.BigEndian
	}

	return format.LittleEndian
}

// PayloadEngine returns the engine for reading and writing payload values.
func (f TileFlag) PayloadEngine() endian.EndianEngine {
	return endian.EngineFor(f.Endianness())
}

// Validate rejects reserved bits.
func (f TileFlag) Validate() error {
	if f&FlagReservedMask != 0 {
		return errs.ErrInvalidHeaderFlags
	}

	return nil
}
