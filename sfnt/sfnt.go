// Package sfnt reads the descriptive tables of OpenType fonts (TTF, OTF, TTC and OTC): names, style classes, glyph count, variation axes and the character map. Use ToSFNT to unwrap WOFF, WOFF2 and EOT files first.
package sfnt

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/tdewolff/parse/v2"
)

// Font is a single parsed face of an SFNT file or collection. Only the tables needed to describe the font are parsed, all other tables are available as raw bytes.
type Font struct {
	Length            uint32
	Version           string
	IsCFF, IsTrueType bool // only one can be true
	Tables            map[string][]byte

	// required, head is only validated
	Maxp *maxpTable

	// optional, nil when missing or malformed
	Name *nameTable
	OS2  *os2Table
	Post *postTable
	Cmap *cmapTable
	Fvar *fvarTable

	// TableErrors lists the optional tables that were present but could not be parsed.
	TableErrors []error
}

// NumGlyphs returns the number of glyphs the font contains.
func (sfnt *Font) NumGlyphs() uint16 {
	return sfnt.Maxp.NumGlyphs
}

// Names returns all records of the name table in the order they are stored.
func (sfnt *Font) Names() []NameRecord {
	if sfnt.Name == nil {
		return nil
	}
	return sfnt.Name.Records
}

// IsItalic returns true if the ITALIC bit of OS/2.fsSelection is set, or if the post table specifies a non-zero italic angle.
func (sfnt *Font) IsItalic() bool {
	if sfnt.OS2 != nil && sfnt.OS2.FsSelection&0x0001 != 0 {
		return true
	}
	return sfnt.Post != nil && sfnt.Post.ItalicAngle != 0.0
}

// WidthClass returns the OS/2 width class between 1 (ultra-condensed) and 9 (ultra-expanded). It returns 5 (medium) if the OS/2 table is missing or specifies an invalid value.
func (sfnt *Font) WidthClass() uint16 {
	if sfnt.OS2 == nil || sfnt.OS2.UsWidthClass < 1 || 9 < sfnt.OS2.UsWidthClass {
		return WidthNormal
	}
	return sfnt.OS2.UsWidthClass
}

// WeightClass returns the OS/2 weight class, usually a multiple of 100 between 100 (thin) and 900 (black). It returns 400 (normal) if the OS/2 table is missing.
func (sfnt *Font) WeightClass() uint16 {
	if sfnt.OS2 == nil {
		return WeightNormal
	}
	return sfnt.OS2.UsWeightClass
}

// IsVariable returns true for variable fonts, i.e. fonts with an fvar table.
func (sfnt *Font) IsVariable() bool {
	return sfnt.Fvar != nil
}

// VariationAxes returns the design axes of a variable font in the order of the fvar table.
func (sfnt *Font) VariationAxes() []VariationAxis {
	if sfnt.Fvar == nil {
		return nil
	}
	return sfnt.Fvar.Axes
}

// GlyphIndex returns the glyphID for a given rune. When the rune is not defined it returns 0.
func (sfnt *Font) GlyphIndex(r rune) uint16 {
	if sfnt.Cmap == nil {
		return 0
	}
	return sfnt.Cmap.Get(r)
}

// HasGlyph returns true if the rune maps to a glyph other than .notdef.
func (sfnt *Font) HasGlyph(r rune) bool {
	return sfnt.GlyphIndex(r) != 0
}

// NumFonts returns the number of fonts in a font collection (TTC or OTC). It returns 1 and false when the data is not a collection. The count is limited to the number of offsets that fit in the data.
func NumFonts(b []byte) (int, bool) {
	if len(b) < 12 || string(b[:4]) != "ttcf" {
		return 1, false
	}

	r := parse.NewBinaryReader(b)
	_ = r.ReadBytes(4) // ttcTag
	majorVersion := r.ReadUint16()
	minorVersion := r.ReadUint16()
	if majorVersion != 1 && majorVersion != 2 || minorVersion != 0 {
		return 1, false
	}
	numFonts := r.ReadUint32()
	if n := r.Len() / 4; n < numFonts {
		numFonts = n
	}
	return int(numFonts), true
}

// Parse parses an OpenType file (TTF, OTF, TTC or OTC). The index selects a single font of a collection and must be zero otherwise. Only the head and maxp tables are required, other tables that fail to parse are left out and reported in TableErrors.
func Parse(b []byte, index int) (*Font, error) {
	if len(b) < 12 || uint(math.MaxUint32) < uint(len(b)) {
		return nil, ErrInvalidFontData
	}

	r := parse.NewBinaryReader(b)
	sfntVersion := string(r.ReadBytes(4))
	if sfntVersion == "ttcf" {
		majorVersion := r.ReadUint16()
		minorVersion := r.ReadUint16()
		if majorVersion != 1 && majorVersion != 2 || minorVersion != 0 {
			return nil, fmt.Errorf("bad TTC version")
		}

		numFonts := r.ReadUint32()
		if index < 0 || numFonts <= uint32(index) {
			return nil, fmt.Errorf("bad font index %d", index)
		} else if uint64(r.Len()) < 4*uint64(numFonts) {
			return nil, ErrInvalidFontData
		}

		_ = r.ReadBytes(4 * uint32(index))
		offset := r.ReadUint32()
		if uint32(len(b)) < offset || uint32(len(b))-offset < 12 {
			return nil, ErrInvalidFontData
		}
		r = parse.NewBinaryReader(b[offset:])
		sfntVersion = string(r.ReadBytes(4))
	} else if index != 0 {
		return nil, fmt.Errorf("bad font index %d", index)
	}

	isTrueType := sfntVersion == "true" || binary.BigEndian.Uint32([]byte(sfntVersion)) == 0x00010000
	isCFF := sfntVersion == "OTTO"
	if !isTrueType && !isCFF {
		return nil, fmt.Errorf("bad SFNT version")
	}
	numTables := r.ReadUint16()
	_ = r.ReadUint16()                  // searchRange
	_ = r.ReadUint16()                  // entrySelector
	_ = r.ReadUint16()                  // rangeShift
	if r.Len() < 16*uint32(numTables) { // can never exceed uint32 as numTables is uint16
		return nil, ErrInvalidFontData
	}

	tables := make(map[string][]byte, numTables)
	for i := 0; i < int(numTables); i++ {
		tag := string(r.ReadBytes(4))
		_ = r.ReadUint32() // checksum
		offset := r.ReadUint32()
		length := r.ReadUint32()
		if uint32(len(b)) < offset || uint32(len(b))-offset < length {
			return nil, fmt.Errorf("%s: bad table offset", tag)
		}
		tables[tag] = b[offset : offset+length : offset+length]
	}

	sfnt := &Font{}
	sfnt.Length = uint32(len(b))
	sfnt.Version = sfntVersion
	sfnt.IsTrueType = isTrueType
	sfnt.IsCFF = isCFF
	sfnt.Tables = tables

	if err := sfnt.parseHead(); err != nil {
		return nil, err
	} else if err := sfnt.parseMaxp(); err != nil {
		return nil, err
	}

	// optional tables, a malformed one does not invalidate the font
	optional := []struct {
		tag   string
		parse func() error
		reset func()
	}{
		{"OS/2", sfnt.parseOS2, func() { sfnt.OS2 = nil }},
		{"post", sfnt.parsePost, func() { sfnt.Post = nil }},
		{"name", sfnt.parseName, func() { sfnt.Name = nil }},
		{"cmap", sfnt.parseCmap, func() { sfnt.Cmap = nil }},
		{"fvar", sfnt.parseFvar, func() { sfnt.Fvar = nil }},
	}
	for _, table := range optional {
		if _, ok := tables[table.tag]; !ok {
			continue
		}
		if err := table.parse(); err != nil {
			table.reset()
			sfnt.TableErrors = append(sfnt.TableErrors, err)
		}
	}
	return sfnt, nil
}

////////////////////////////////////////////////////////////////

func (sfnt *Font) parseHead() error {
	b, ok := sfnt.Tables["head"]
	if !ok {
		return fmt.Errorf("head: missing table")
	} else if len(b) < 54 {
		return fmt.Errorf("head: bad table")
	}

	r := parse.NewBinaryReader(b)
	majorVersion := r.ReadUint16()
	_ = r.ReadUint16() // minorVersion
	if majorVersion != 1 {
		return fmt.Errorf("head: bad version")
	}
	_ = r.ReadUint32()                // fontRevision
	_ = r.ReadUint32()                // checksumAdjustment
	if r.ReadUint32() != 0x5F0F3CF5 { // magicNumber
		return fmt.Errorf("head: bad magic version")
	}
	return nil
}

////////////////////////////////////////////////////////////////

type maxpTable struct {
	Version   uint32
	NumGlyphs uint16
}

func (sfnt *Font) parseMaxp() error {
	b, ok := sfnt.Tables["maxp"]
	if !ok {
		return fmt.Errorf("maxp: missing table")
	} else if len(b) < 6 {
		return fmt.Errorf("maxp: bad table")
	}

	sfnt.Maxp = &maxpTable{}
	r := parse.NewBinaryReader(b)
	sfnt.Maxp.Version = r.ReadUint32()
	sfnt.Maxp.NumGlyphs = r.ReadUint16()
	if sfnt.Maxp.Version != 0x00005000 && sfnt.Maxp.Version != 0x00010000 {
		return fmt.Errorf("maxp: bad version")
	} else if sfnt.Maxp.Version == 0x00010000 && len(b) < 32 {
		return fmt.Errorf("maxp: bad table")
	}
	return nil
}

////////////////////////////////////////////////////////////////

type postTable struct {
	ItalicAngle float64
}

func (sfnt *Font) parsePost() error {
	b := sfnt.Tables["post"]
	if len(b) < 32 {
		return fmt.Errorf("post: bad table")
	}

	sfnt.Post = &postTable{}
	r := parse.NewBinaryReader(b)
	version := r.ReadUint32()
	if version != 0x00010000 && version != 0x00020000 && version != 0x00025000 && version != 0x00030000 {
		return fmt.Errorf("post: bad version")
	}
	sfnt.Post.ItalicAngle = float64(int32(r.ReadUint32())) / (1 << 16)
	return nil
}
