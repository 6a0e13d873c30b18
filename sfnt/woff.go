package sfnt

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"io"

	"github.com/tdewolff/parse/v2"
)

// ParseWOFF parses the WOFF font format and returns its contained SFNT font format (TTF or OTF). See https://www.w3.org/TR/WOFF/
func ParseWOFF(b []byte) ([]byte, error) {
	if len(b) < 44 {
		return nil, ErrInvalidFontData
	}

	r := parse.NewBinaryReader(b)
	signature := string(r.ReadBytes(4))
	if signature != "wOFF" {
		return nil, fmt.Errorf("bad signature")
	}
	flavor := r.ReadUint32()
	if uint32ToString(flavor) == "ttcf" {
		return nil, fmt.Errorf("collections are unsupported")
	}
	length := r.ReadUint32()        // length
	numTables := r.ReadUint16()     // numTables
	reserved := r.ReadUint16()      // reserved
	totalSfntSize := r.ReadUint32() // totalSfntSize
	_ = r.ReadUint16()              // majorVersion
	_ = r.ReadUint16()              // minorVersion
	_ = r.ReadUint32()              // metaOffset
	_ = r.ReadUint32()              // metaLength
	_ = r.ReadUint32()              // metaOrigLength
	_ = r.ReadUint32()              // privOffset
	_ = r.ReadUint32()              // privLength
	if length != uint32(len(b)) {
		return nil, fmt.Errorf("length in header must match file size")
	} else if numTables == 0 {
		return nil, fmt.Errorf("numTables in header must not be zero")
	} else if reserved != 0 {
		return nil, fmt.Errorf("reserved in header must be zero")
	} else if MaxMemory < totalSfntSize {
		return nil, ErrExceedsMemory
	} else if r.Len() < 20*uint32(numTables) {
		return nil, ErrInvalidFontData
	}

	var uncompressedSize uint32
	tables := make(map[string][]byte, numTables)
	for i := 0; i < int(numTables); i++ {
		tag := string(r.ReadBytes(4))
		offset := r.ReadUint32()
		compLength := r.ReadUint32()
		origLength := r.ReadUint32()
		_ = r.ReadUint32() // origChecksum
		if uint32(len(b)) < offset || uint32(len(b))-offset < compLength {
			return nil, fmt.Errorf("%s: bad table offset", tag)
		} else if origLength < compLength {
			return nil, fmt.Errorf("%s: compLength must not exceed origLength", tag)
		} else if MaxMemory-uncompressedSize < origLength {
			return nil, ErrExceedsMemory
		} else if _, ok := tables[tag]; ok {
			return nil, fmt.Errorf("%s: table defined more than once", tag)
		}
		uncompressedSize += origLength

		data := b[offset : offset+compLength : offset+compLength]
		if compLength < origLength {
			rZlib, err := zlib.NewReader(bytes.NewReader(data))
			if err != nil {
				return nil, fmt.Errorf("%s: %w", tag, err)
			}
			buf := bytes.NewBuffer(make([]byte, 0, origLength))
			_, err = io.Copy(buf, io.LimitReader(rZlib, int64(origLength)+1))
			if err != nil {
				return nil, fmt.Errorf("%s: %w", tag, err)
			} else if uint32(buf.Len()) != origLength {
				return nil, fmt.Errorf("%s: decompressed length must match origLength", tag)
			}
			data = buf.Bytes()
		}
		tables[tag] = data
	}
	return writeSFNT(flavor, tables)
}
