package sfnt

import (
	"encoding/binary"
	"fmt"
)

// MaxMemory is the maximum memory that can be allocated when unwrapping a font container.
var MaxMemory uint32 = 30 * 1024 * 1024

// ErrExceedsMemory is returned if a font container decompresses to more than MaxMemory.
var ErrExceedsMemory = fmt.Errorf("memory limit exceded")

// ErrInvalidFontData is returned if the font is malformed.
var ErrInvalidFontData = fmt.Errorf("invalid font data")

func calcChecksum(b []byte) uint32 {
	if len(b)%4 != 0 {
		panic("data not multiple of four bytes")
	}
	var sum uint32
	for i := 0; i < len(b); i += 4 {
		sum += binary.BigEndian.Uint32(b[i : i+4])
	}
	return sum
}

func uint32ToString(v uint32) string {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, v)
	return string(b)
}

// fixedToFloat32 converts a 16.16 fixed-point number.
func fixedToFloat32(v uint32) float32 {
	return float32(int32(v)) / (1 << 16)
}
