// Package endian provides the byte order engine used to serialize tile headers and payloads.
//
// EndianEngine combines encoding/binary's ByteOrder and AppendByteOrder so the
// same value can both write into fixed header slots and append to a growing
// payload buffer:
//
//	engine := endian.EngineFor(format.LittleEndian)
//	buf = endian.AppendInt32s(engine, buf, values)
//
// All functions are safe for concurrent use; engines are stateless.
package endian

import (
	"encoding/binary"
	"unsafe"

	"github.com/KotobaMedia/jp-estat-to-sql/format"
)

// EndianEngine combines ByteOrder and AppendByteOrder from encoding/binary.
//
// binary.LittleEndian and binary.BigEndian both satisfy it.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// CheckEndianness uses a fixed integer value to determine the host's byte order.
func CheckEndianness() binary.ByteOrder {
	// 0x0100 is 256. On a little-endian host the first byte is 0x00.
	var i uint16 = 0x0100
	b := (*[2]byte)(unsafe.Pointer(&i))
	if b[0] == 0x01 {
		return binary.BigEndian
	}

	return binary.LittleEndian
}

// IsNativeLittleEndian reports whether the host is little-endian.
func IsNativeLittleEndian() bool {
	return CheckEndianness() == binary.LittleEndian
}

// GetLittleEndianEngine returns the little-endian engine.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}

// GetBigEndianEngine returns the big-endian engine.
func GetBigEndianEngine() EndianEngine {
	return binary.BigEndian
}

// EngineFor returns the engine matching a tile byte order selector.
// Unknown selectors fall back to little-endian.
func EngineFor(e format.Endianness) EndianEngine {
	if e == format.BigEndian {
		return binary.BigEndian
	}

	return binary.LittleEndian
}

// AppendInt32s appends every value as 4 bytes in the engine's byte order.
func AppendInt32s(engine EndianEngine, dst []byte, values []int32) []byte {
	for _, v := range values {
		dst = engine.AppendUint32(dst, uint32(v)) //nolint: gosec
	}

	return dst
}

// Int32s decodes len(data)/4 values. Trailing bytes are ignored.
func Int32s(engine EndianEngine, data []byte) []int32 {
	out := make([]int32, len(data)/4)
	for i := range out {
		out[i] = int32(engine.Uint32(data[i*4:])) //nolint: gosec
	}

	return out
}
