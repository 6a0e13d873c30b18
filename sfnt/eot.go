package sfnt

import (
	"fmt"

	"github.com/tdewolff/parse/v2"
)

// ParseEOT parses the EOT font format and returns its contained SFNT font format (TTF or OTF). MicroType Express compressed fonts are not supported. See https://www.w3.org/Submission/EOT/
func ParseEOT(b []byte) ([]byte, error) {
	r := parse.NewBinaryReaderLE(b)
	_ = r.ReadUint32()             // EOTSize
	fontDataSize := r.ReadUint32() // FontDataSize
	version := r.ReadUint32()      // Version
	if version != 0x00010000 && version != 0x00020001 && version != 0x00020002 {
		return nil, fmt.Errorf("unsupported version")
	}
	flags := r.ReadUint32() // Flags
	_ = r.ReadBytes(10)     // FontPANOSE
	_ = r.ReadByte()        // Charset
	_ = r.ReadByte()        // Italic
	_ = r.ReadUint32()      // Weight
	_ = r.ReadUint16()      // fsType
	if r.ReadUint16() != 0x504C {
		return nil, fmt.Errorf("invalid magic number")
	}
	_ = r.ReadBytes(24) // Unicode and CodePage ranges
	_ = r.ReadUint32()  // CheckSumAdjustment
	_ = r.ReadBytes(16) // Reserved
	_ = r.ReadUint16()  // Padding1

	// FamilyName, StyleName, VersionName and FullName, separated by padding
	for i := 0; i < 4; i++ {
		if 0 < i {
			_ = r.ReadUint16() // Padding
		}
		size := r.ReadUint16()
		_ = r.ReadBytes(uint32(size))
	}

	if version == 0x00020001 || version == 0x00020002 {
		_ = r.ReadUint16()                      // Padding5
		rootStringSize := r.ReadUint16()        // RootStringSize
		_ = r.ReadBytes(uint32(rootStringSize)) // RootString
	}
	if version == 0x00020002 {
		_ = r.ReadUint32()                     // RootStringCheckSum
		_ = r.ReadUint32()                     // EUDCCodePage
		_ = r.ReadUint16()                     // Padding6
		signatureSize := r.ReadUint16()        // SignatureSize
		_ = r.ReadBytes(uint32(signatureSize)) // Signature
		_ = r.ReadUint32()                     // EUDCFlags
		eudcFontSize := r.ReadUint32()         // EUDCFontSize
		_ = r.ReadBytes(eudcFontSize)          // EUDCFontData
	}

	fontData := r.ReadBytes(fontDataSize)
	if r.EOF() {
		return nil, ErrInvalidFontData
	}

	isCompressed := (flags & 0x00000004) != 0
	isXORed := (flags & 0x10000000) != 0
	if isCompressed {
		return nil, fmt.Errorf("EOT compression not supported")
	}
	if isXORed {
		// don't modify the input
		fontData = append([]byte{}, fontData...)
		for i := 0; i < len(fontData); i++ {
			fontData[i] ^= 0x50
		}
	}
	return fontData, nil
}
