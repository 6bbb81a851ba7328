// Package section defines the fixed binary header of an MTI1 tile file.
//
// Every tile file starts with a 64-byte header followed by the compressed
// payload. Header fields are always little-endian; the flag byte records the
// byte order of the payload values.
//
// # Tile Structure
//
//	┌──────────────────────────────────────────────────────────┐
//	│ Header (64 bytes, fixed)                                 │
//	│  0-3   magic "MTI1"                                      │
//	│  4     format version                                    │
//	│  5     mesh kind         (format.MeshKind)               │
//	│  6     value data type   (format.DType)                  │
//	│  7     flags             (TileFlag)                      │
//	│  8     compression       (format.CompressionType)        │
//	│  9-11  reserved                                          │
//	│  12-19 tile id (mesh code of the tile)                   │
//	│  20-23 rows                                              │
//	│  24-27 cols                                              │
//	│  28    bands                                             │
//	│  29-31 reserved                                          │
//	│  32-39 no-data value (float64)                           │
//	│  40-47 uncompressed payload length                       │
//	│  48-55 compressed payload length                         │
//	│  56-63 xxHash64 of the uncompressed payload              │
//	├──────────────────────────────────────────────────────────┤
//	│ Payload (compressed_len bytes)                           │
//	│  rows × cols × bands values, row-major, band-interleaved │
//	└──────────────────────────────────────────────────────────┘
//
// Reserved bytes must be zero. Parse rejects unknown versions, unknown enum
// values and reserved flag bits so that readers fail loudly on files written
// by a newer encoder.
package section
