// Package compress provides the payload compression codecs used by the tile format.
//
// A tile payload is a dense little-endian int32 array where most cells hold the
// no-data sentinel, so general-purpose compressors shrink it very well. The
// codec is chosen per tile set and recorded in every tile header:
//   - DeflateRaw: raw DEFLATE stream (RFC 1951). Default; readable from browsers
//     through DecompressionStream("deflate-raw").
//   - Zstd: best ratio, pure Go encoder (or cgo gozstd with the gozstd build tag).
//   - S2: fast Snappy-compatible compression.
//   - LZ4: LZ4 block format, fastest to decode.
//   - None: payload stored as-is.
//
// # Architecture
//
//	type Compressor interface {
//	    Compress(data []byte) ([]byte, error)
//	}
//
//	type Decompressor interface {
//	    Decompress(data []byte) ([]byte, error)
//	}
//
//	type Codec interface {
//	    Compressor
//	    Decompressor
//	}
//
// Use CreateCodec to build a codec from a format.CompressionType:
//
//	codec, err := compress.CreateCodec(format.CompressionDeflateRaw, "tile payload")
//	if err != nil {
//	    return err
//	}
//	compressed, err := codec.Compress(payload)
//
// All codecs are safe for concurrent use; encoders and decoders that carry state
// are pooled internally.
package compress
