// Package tile encodes and decodes single MTI1 tile files.
//
// A tile file is a section.TileHeader followed by the compressed payload. The
// payload is a dense rows × cols × bands array, row-major with bands
// interleaved per cell, in the byte order recorded by the header flag.
//
// Encoding:
//
//	enc, err := tile.NewEncoder(tile.WithCompressionLevel(9))
//	out, err := enc.Encode(tile.EncodeInput{
//	    TileID:      53394611,
//	    MeshKind:    format.MeshKindJISX0410,
//	    DType:       format.DTypeInt32,
//	    Endianness:  format.LittleEndian,
//	    Compression: format.CompressionDeflateRaw,
//	    Dimensions:  tile.Dimensions{Rows: 8, Cols: 8, Bands: 2},
//	    NoData:      &noData,
//	    Payload:     payload,
//	})
//
// Decoding verifies lengths and the payload checksum:
//
//	t, err := tile.Decode(data)
//	v, err := t.Int32At(row, col, band)
package tile
