package sfnt

import (
	"bytes"
	"fmt"
	"io"
	"math"

	"github.com/andybalholm/brotli"
	"github.com/tdewolff/parse/v2"
)

// Specification:
// https://www.w3.org/TR/WOFF2/

type woff2Table struct {
	tag              string
	origLength       uint32
	transformVersion int
	transformLength  uint32
}

// isTransformed returns true for glyf, loca and hmtx tables whose data is stored in the WOFF2 transformed format.
func (table woff2Table) isTransformed() bool {
	if table.tag == "glyf" || table.tag == "loca" {
		return table.transformVersion == 0
	}
	return table.transformVersion != 0
}

var woff2TableTags = []string{
	"cmap", "head", "hhea", "hmtx",
	"maxp", "name", "OS/2", "post",
	"cvt ", "fpgm", "glyf", "loca",
	"prep", "CFF ", "VORG", "EBDT",
	"EBLC", "gasp", "hdmx", "kern",
	"LTSH", "PCLT", "VDMX", "vhea",
	"vmtx", "BASE", "GDEF", "GPOS",
	"GSUB", "EBSC", "JSTF", "MATH",
	"CBDT", "CBLC", "COLR", "CPAL",
	"SVG ", "sbix", "acnt", "avar",
	"bdat", "bloc", "bsln", "cvar",
	"fdsc", "feat", "fmtx", "fvar",
	"gvar", "hsty", "just", "lcar",
	"mort", "morx", "opbd", "prop",
	"trak", "Zapf", "Silf", "Glat",
	"Gloc", "Feat", "Sill",
}

// ParseWOFF2 parses the WOFF2 font format and returns its contained SFNT font format (TTF or OTF). Transformed glyf, loca and hmtx tables are left out since the outlines and metrics are not needed to describe the font, all other tables are kept. See https://www.w3.org/TR/WOFF2/
func ParseWOFF2(b []byte) ([]byte, error) {
	if len(b) < 48 {
		return nil, ErrInvalidFontData
	}

	r := parse.NewBinaryReader(b)
	signature := string(r.ReadBytes(4))
	if signature != "wOF2" {
		return nil, fmt.Errorf("bad signature")
	}
	flavor := r.ReadUint32()
	if uint32ToString(flavor) == "ttcf" {
		return nil, fmt.Errorf("collections are unsupported")
	}
	length := r.ReadUint32()              // length
	numTables := r.ReadUint16()           // numTables
	reserved := r.ReadUint16()            // reserved
	_ = r.ReadUint32()                    // totalSfntSize
	totalCompressedSize := r.ReadUint32() // totalCompressedSize
	_ = r.ReadUint16()                    // majorVersion
	_ = r.ReadUint16()                    // minorVersion
	_ = r.ReadUint32()                    // metaOffset
	_ = r.ReadUint32()                    // metaLength
	_ = r.ReadUint32()                    // metaOrigLength
	_ = r.ReadUint32()                    // privOffset
	_ = r.ReadUint32()                    // privLength
	if r.EOF() {
		return nil, ErrInvalidFontData
	} else if length != uint32(len(b)) {
		return nil, fmt.Errorf("length in header must match file size")
	} else if numTables == 0 {
		return nil, fmt.Errorf("numTables in header must not be zero")
	} else if reserved != 0 {
		return nil, fmt.Errorf("reserved in header must be zero")
	}

	tagSeen := map[string]bool{}
	tables := make([]woff2Table, 0, numTables)
	var uncompressedSize uint32
	for i := 0; i < int(numTables); i++ {
		flags := r.ReadByte()
		tagIndex := int(flags & 0x3F)
		transformVersion := int((flags & 0xC0) >> 6)

		var tag string
		if tagIndex == 63 {
			tag = uint32ToString(r.ReadUint32())
		} else {
			tag = woff2TableTags[tagIndex]
		}

		origLength, err := readUintBase128(r) // if EOF is encountered above
		if err != nil {
			return nil, err
		}

		table := woff2Table{
			tag:              tag,
			origLength:       origLength,
			transformVersion: transformVersion,
		}
		if table.isTransformed() {
			if tag != "glyf" && tag != "loca" && tag != "hmtx" || tag == "hmtx" && transformVersion != 1 {
				return nil, fmt.Errorf("%s: invalid transformation", tag)
			}
			table.transformLength, err = readUintBase128(r)
			if err != nil || tag != "loca" && table.transformLength == 0 {
				return nil, fmt.Errorf("%s: transformLength must be set", tag)
			} else if tag == "loca" && table.transformLength != 0 {
				return nil, fmt.Errorf("loca: transformLength must be zero")
			}
		}

		n := table.origLength
		if table.isTransformed() {
			n = table.transformLength
		}
		if math.MaxUint32-uncompressedSize < n {
			return nil, ErrInvalidFontData
		}
		uncompressedSize += n

		if tagSeen[tag] {
			return nil, fmt.Errorf("%s: table defined more than once", tag)
		}
		tagSeen[tag] = true
		tables = append(tables, table)
	}

	// decompress font data using Brotli
	compData := r.ReadBytes(totalCompressedSize)
	if r.EOF() {
		return nil, ErrInvalidFontData
	} else if MaxMemory < uncompressedSize {
		return nil, ErrExceedsMemory
	}
	rBrotli := brotli.NewReader(bytes.NewReader(compData)) // err is always nil
	dataBuf := bytes.NewBuffer(make([]byte, 0, uncompressedSize))
	if _, err := io.Copy(dataBuf, io.LimitReader(rBrotli, int64(uncompressedSize)+1)); err != nil {
		return nil, err
	}
	data := dataBuf.Bytes()
	if uint32(len(data)) != uncompressedSize {
		return nil, fmt.Errorf("sum of table lengths must match decompressed font data size")
	}

	// read font data, transformed tables occupy their transformLength in the stream
	var offset uint32
	sfntTables := make(map[string][]byte, len(tables))
	for _, table := range tables {
		n := table.origLength
		if table.isTransformed() {
			n = table.transformLength
		}
		if uint32(len(data))-offset < n {
			return nil, ErrInvalidFontData
		}
		if !table.isTransformed() {
			sfntTables[table.tag] = data[offset : offset+n : offset+n]
		}
		offset += n
	}
	if _, ok := sfntTables["head"]; !ok {
		return nil, fmt.Errorf("head: must be present")
	}
	return writeSFNT(flavor, sfntTables)
}

func readUintBase128(r *parse.BinaryReader) (uint32, error) {
	// see https://www.w3.org/TR/WOFF2/#DataTypes
	var accum uint32
	for i := 0; i < 5; i++ {
		dataByte := r.ReadByte()
		if r.EOF() {
			return 0, ErrInvalidFontData
		}
		if i == 0 && dataByte == 0x80 {
			return 0, fmt.Errorf("readUintBase128: must not start with leading zeros")
		}
		if (accum & 0xFE000000) != 0 {
			return 0, fmt.Errorf("readUintBase128: overflow")
		}
		accum = (accum << 7) | uint32(dataByte&0x7F)
		if (dataByte & 0x80) == 0 {
			return accum, nil
		}
	}
	return 0, fmt.Errorf("readUintBase128: exceeds 5 bytes")
}
