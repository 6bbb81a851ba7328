package section

// Magic identifies an MTI1 tile file.
const Magic = "MTI1"

// Version is the only header version this package reads and writes.
const Version uint8 = 1

// HeaderSize is the fixed size of the tile header in bytes.
const HeaderSize = 64

// Byte offsets of the header fields.
const (
	offsetMagic           = 0
	offsetVersion         = 4
	offsetMeshKind        = 5
	offsetDType           = 6
	offsetFlag            = 7
	offsetCompression     = 8
	offsetTileID          = 12
	offsetRows            = 20
	offsetCols            = 24
	offsetBands           = 28
	offsetNoData          = 32
	offsetUncompressedLen = 40
	offsetCompressedLen   = 48
	offsetChecksum        = 56
)

// Flag bits.
const (
	FlagBigEndian    TileFlag = 0x01 // 0=little, 1=big payload byte order
	FlagHasNoData    TileFlag = 0x02 // 0=no sentinel, 1=no-data field is meaningful
	FlagReservedMask TileFlag = 0xFC // must be zero
)
