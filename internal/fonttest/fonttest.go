// Package fonttest writes small synthetic fonts for tests. The fonts contain only the tables that describe a font, without outlines.
package fonttest

import (
	"encoding/binary"
	"math"
	"sort"

	"github.com/tdewolff/parse/v2"
	"golang.org/x/text/encoding/unicode"
)

// Name is a name table record.
type Name struct {
	Platform uint16
	Encoding uint16
	Language uint16
	NameID   uint16
	Value    []byte
}

// WindowsName returns a Windows Unicode BMP record in English (US).
func WindowsName(nameID uint16, s string) Name {
	return Name{3, 1, 0x0409, nameID, UTF16(s)}
}

// UnicodeName returns a Unicode platform record.
func UnicodeName(nameID uint16, s string) Name {
	return Name{0, 3, 0, nameID, UTF16(s)}
}

// MacName returns a Macintosh Roman record in English.
func MacName(nameID uint16, s string) Name {
	return Name{1, 0, 0, nameID, []byte(s)}
}

// UTF16 encodes a string as UTF-16BE.
func UTF16(s string) []byte {
	b, err := unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewEncoder().String(s)
	if err != nil {
		panic(err)
	}
	return []byte(b)
}

// OS2 holds the style fields of the OS/2 table.
type OS2 struct {
	Weight      uint16
	Width       uint16
	FsSelection uint16
}

// Axis is a variation axis of the fvar table.
type Axis struct {
	Tag           string
	Min, Def, Max float64
}

// Font describes a synthetic font. Zero values leave out the optional tables, except for post which is always written.
type Font struct {
	CFF         bool
	NumGlyphs   uint16
	Names       []Name
	OS2         *OS2
	ItalicAngle float64
	NoPost      bool

	// Cmap maps code points to glyph IDs and is written as a Windows Unicode subtable of format 12, or format 4 if CmapFormat4 is set.
	Cmap        map[rune]uint16
	CmapFormat4 bool

	// Axes makes the font variable when not nil.
	Axes []Axis

	// Tables adds or replaces tables, a nil value removes the table.
	Tables map[string][]byte
}

// Runes maps the given inclusive code point ranges to consecutive glyph IDs starting at 1.
func Runes(ranges ...[2]rune) map[rune]uint16 {
	m := map[rune]uint16{}
	glyphID := uint16(1)
	for _, rng := range ranges {
		for r := rng[0]; r <= rng[1]; r++ {
			m[r] = glyphID
			glyphID++
		}
	}
	return m
}

// Bytes returns the font as an SFNT file.
func (f Font) Bytes() []byte {
	tables := map[string][]byte{
		"head": f.head(),
		"maxp": f.maxp(),
	}
	if f.Names != nil {
		tables["name"] = f.name()
	}
	if f.OS2 != nil {
		tables["OS/2"] = f.os2()
	}
	if !f.NoPost {
		tables["post"] = f.post()
	}
	if f.Cmap != nil {
		tables["cmap"] = f.cmap()
	}
	if f.Axes != nil {
		tables["fvar"] = f.fvar()
	}
	for tag, table := range f.Tables {
		if table == nil {
			delete(tables, tag)
		} else {
			tables[tag] = table
		}
	}

	flavor := uint32(0x00010000)
	if f.CFF {
		flavor = binary.BigEndian.Uint32([]byte("OTTO"))
	}
	return SFNT(flavor, tables)
}

func fixed(v float64) uint32 {
	return uint32(int32(math.Round(v * (1 << 16))))
}

func (f Font) head() []byte {
	w := parse.NewBinaryWriter([]byte{})
	w.WriteUint32(0x00010000) // version
	w.WriteUint32(0x00010000) // fontRevision
	w.WriteUint32(0)          // checksumAdjustment
	w.WriteUint32(0x5F0F3CF5) // magicNumber
	w.WriteUint16(0x0003)     // flags
	w.WriteUint16(1000)       // unitsPerEm
	w.WriteBytes(make([]byte, 16))
	w.WriteBytes(make([]byte, 8)) // bounding box
	w.WriteUint16(0)              // macStyle
	w.WriteUint16(8)              // lowestRecPPEM
	w.WriteInt16(2)               // fontDirectionHint
	w.WriteInt16(0)               // indexToLocFormat
	w.WriteInt16(0)               // glyphDataFormat
	return w.Bytes()
}

func (f Font) maxp() []byte {
	w := parse.NewBinaryWriter([]byte{})
	w.WriteUint32(0x00005000)
	w.WriteUint16(f.NumGlyphs)
	return w.Bytes()
}

func (f Font) name() []byte {
	return NameTable(f.Names...)
}

// NameTable writes a version 0 name table. The offset field of record i is at 6+12*i+10.
func NameTable(names ...Name) []byte {
	storage := []byte{}
	w := parse.NewBinaryWriter([]byte{})
	w.WriteUint16(0) // version
	w.WriteUint16(uint16(len(names)))
	w.WriteUint16(6 + 12*uint16(len(names)))
	for _, name := range names {
		w.WriteUint16(name.Platform)
		w.WriteUint16(name.Encoding)
		w.WriteUint16(name.Language)
		w.WriteUint16(name.NameID)
		w.WriteUint16(uint16(len(name.Value)))
		w.WriteUint16(uint16(len(storage)))
		storage = append(storage, name.Value...)
	}
	w.WriteBytes(storage)
	return w.Bytes()
}

func (f Font) os2() []byte {
	w := parse.NewBinaryWriter([]byte{})
	w.WriteUint16(0) // version
	w.WriteInt16(500)
	w.WriteUint16(f.OS2.Weight)
	w.WriteUint16(f.OS2.Width)
	w.WriteUint16(0)               // fsType
	w.WriteBytes(make([]byte, 20)) // subscript, superscript and strikeout metrics
	w.WriteInt16(0)                // sFamilyClass
	w.WriteBytes(make([]byte, 10)) // panose
	w.WriteBytes(make([]byte, 16)) // ulUnicodeRange
	w.WriteBytes([]byte("TEST"))
	w.WriteUint16(f.OS2.FsSelection)
	w.WriteUint16(0x0020) // usFirstCharIndex
	w.WriteUint16(0xFFFF) // usLastCharIndex
	w.WriteInt16(800)
	w.WriteInt16(-200)
	w.WriteInt16(0)
	w.WriteUint16(1000)
	w.WriteUint16(200)
	return w.Bytes()
}

func (f Font) post() []byte {
	w := parse.NewBinaryWriter([]byte{})
	w.WriteUint32(0x00030000)
	w.WriteUint32(fixed(f.ItalicAngle))
	w.WriteInt16(-100)
	w.WriteInt16(50)
	w.WriteUint32(0) // isFixedPitch
	w.WriteBytes(make([]byte, 16))
	return w.Bytes()
}

func (f Font) cmap() []byte {
	rs := make([]rune, 0, len(f.Cmap))
	for r := range f.Cmap {
		rs = append(rs, r)
	}
	sort.Slice(rs, func(i, j int) bool { return rs[i] < rs[j] })

	// runs of consecutive code points with consecutive glyph IDs
	type run struct {
		first, last rune
		glyphID     uint16
	}
	runs := []run{}
	for _, r := range rs {
		if 0 < len(runs) {
			last := &runs[len(runs)-1]
			if last.last+1 == r && last.glyphID+uint16(r-last.first) == f.Cmap[r] {
				last.last = r
				continue
			}
		}
		runs = append(runs, run{r, r, f.Cmap[r]})
	}

	w := parse.NewBinaryWriter([]byte{})
	w.WriteUint16(0) // version
	w.WriteUint16(1) // numTables
	w.WriteUint16(3) // platformID
	if f.CmapFormat4 {
		w.WriteUint16(1) // encodingID
		w.WriteUint32(12)

		segCount := uint16(len(runs) + 1)
		w.WriteUint16(4)                // format
		w.WriteUint16(16 + 8*segCount) // length
		w.WriteUint16(0)                // language
		w.WriteUint16(2 * segCount)
		entrySelector := uint16(math.Floor(math.Log2(float64(segCount))))
		searchRange := 2 * uint16(1<<entrySelector)
		w.WriteUint16(searchRange)
		w.WriteUint16(entrySelector)
		w.WriteUint16(2*segCount - searchRange)
		for _, run := range runs {
			w.WriteUint16(uint16(run.last))
		}
		w.WriteUint16(0xFFFF)
		w.WriteUint16(0) // reservedPad
		for _, run := range runs {
			w.WriteUint16(uint16(run.first))
		}
		w.WriteUint16(0xFFFF)
		for _, run := range runs {
			w.WriteUint16(run.glyphID - uint16(run.first)) // modulo 65536
		}
		w.WriteUint16(1)
		for i := uint16(0); i < segCount; i++ {
			w.WriteUint16(0) // idRangeOffset
		}
	} else {
		w.WriteUint16(10) // encodingID
		w.WriteUint32(12)

		w.WriteUint16(12) // format
		w.WriteUint16(0)  // reserved
		w.WriteUint32(16 + 12*uint32(len(runs)))
		w.WriteUint32(0) // language
		w.WriteUint32(uint32(len(runs)))
		for _, run := range runs {
			w.WriteUint32(uint32(run.first))
			w.WriteUint32(uint32(run.last))
			w.WriteUint32(uint32(run.glyphID))
		}
	}
	return w.Bytes()
}

// CmapSubtable is an encoding record of a cmap table with its encoded subtable.
type CmapSubtable struct {
	Platform uint16
	Encoding uint16
	Data     []byte
}

// CmapTable writes a cmap table with the subtables in the given order.
func CmapTable(subtables ...CmapSubtable) []byte {
	offset := 4 + 8*uint32(len(subtables))
	w := parse.NewBinaryWriter([]byte{})
	w.WriteUint16(0) // version
	w.WriteUint16(uint16(len(subtables)))
	for _, subtable := range subtables {
		w.WriteUint16(subtable.Platform)
		w.WriteUint16(subtable.Encoding)
		w.WriteUint32(offset)
		offset += uint32(len(subtable.Data))
	}
	for _, subtable := range subtables {
		w.WriteBytes(subtable.Data)
	}
	return w.Bytes()
}

func (f Font) fvar() []byte {
	w := parse.NewBinaryWriter([]byte{})
	w.WriteUint16(1)  // majorVersion
	w.WriteUint16(0)  // minorVersion
	w.WriteUint16(16) // axesArrayOffset
	w.WriteUint16(2)  // reserved
	w.WriteUint16(uint16(len(f.Axes)))
	w.WriteUint16(20) // axisSize
	w.WriteUint16(0)  // instanceCount
	w.WriteUint16(4 + 4*uint16(len(f.Axes)))
	for i, axis := range f.Axes {
		w.WriteBytes([]byte(axis.Tag))
		w.WriteUint32(fixed(axis.Min))
		w.WriteUint32(fixed(axis.Def))
		w.WriteUint32(fixed(axis.Max))
		w.WriteUint16(0)               // flags
		w.WriteUint16(256 + uint16(i)) // axisNameID
	}
	return w.Bytes()
}

// SFNT writes an SFNT file with the given tables in tag order.
func SFNT(flavor uint32, tables map[string][]byte) []byte {
	tags := make([]string, 0, len(tables))
	for tag := range tables {
		tags = append(tags, tag)
	}
	sort.Strings(tags)

	numTables := uint16(len(tags))
	entrySelector := uint16(0)
	for 1<<(entrySelector+1) <= numTables {
		entrySelector++
	}
	searchRange := 16 * uint16(1<<entrySelector)

	w := parse.NewBinaryWriter([]byte{})
	w.WriteUint32(flavor)
	w.WriteUint16(numTables)
	w.WriteUint16(searchRange)
	w.WriteUint16(entrySelector)
	w.WriteUint16(16*numTables - searchRange)

	offset := 12 + 16*uint32(numTables)
	for _, tag := range tags {
		table := pad(tables[tag])
		w.WriteBytes([]byte(tag))
		w.WriteUint32(checksum(table))
		w.WriteUint32(offset)
		w.WriteUint32(uint32(len(tables[tag])))
		offset += uint32(len(table))
	}
	for _, tag := range tags {
		w.WriteBytes(pad(tables[tag]))
	}
	return w.Bytes()
}

func pad(b []byte) []byte {
	if n := (4 - len(b)&3) & 3; n != 0 {
		return append(append([]byte{}, b...), make([]byte, n)...)
	}
	return b
}

func checksum(b []byte) uint32 {
	var sum uint32
	for i := 0; i+4 <= len(b); i += 4 {
		sum += binary.BigEndian.Uint32(b[i:])
	}
	return sum
}
