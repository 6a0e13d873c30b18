package fontmeta

import (
	"github.com/tdewolff/fontmeta/sfnt"
)

// NameRecord is a raw string of a font's name table.
type NameRecord = sfnt.NameRecord

// Face is a single parsed font.
type Face interface {
	// NameRecords returns all name records in table order, regardless of encoding.
	NameRecords() []NameRecord
	IsItalic() bool
	// WidthClass returns the width class between 1 and 9.
	WidthClass() uint16
	WeightClass() uint16
	NumGlyphs() uint16
	IsVariable() bool
	VariationAxes() []VariationAxis
	// HasGlyph returns true if the code point maps to a glyph other than .notdef.
	HasGlyph(r rune) bool
}

// Parser reads the fonts of a file.
type Parser interface {
	// NumFonts returns the number of fonts in a collection, or 1 if b is not a collection.
	NumFonts(b []byte) int
	ParseFace(b []byte, index int) (Face, error)
}

// Unwrapper is implemented by parsers that need to decode a file before counting and parsing its fonts.
type Unwrapper interface {
	Unwrap(b []byte) ([]byte, error)
}

// SFNTParser parses OpenType and TrueType fonts and collections, wrapped in WOFF, WOFF2 or EOT or not.
type SFNTParser struct{}

// Unwrap returns the SFNT data of a font container.
func (SFNTParser) Unwrap(b []byte) ([]byte, error) {
	return sfnt.ToSFNT(b)
}

// NumFonts implements Parser.
func (p SFNTParser) NumFonts(b []byte) int {
	b, err := p.Unwrap(b)
	if err != nil {
		return 1 // fails in ParseFace
	}
	n, _ := sfnt.NumFonts(b)
	return n
}

// ParseFace implements Parser.
func (p SFNTParser) ParseFace(b []byte, index int) (Face, error) {
	b, err := p.Unwrap(b)
	if err != nil {
		return nil, err
	}
	font, err := sfnt.Parse(b, index)
	if err != nil {
		return nil, err
	}
	return sfntFace{font}, nil
}

type sfntFace struct {
	*sfnt.Font
}

func (face sfntFace) NameRecords() []NameRecord {
	return face.Font.Names()
}

func (face sfntFace) VariationAxes() []VariationAxis {
	axes := make([]VariationAxis, 0, len(face.Font.VariationAxes()))
	for _, axis := range face.Font.VariationAxes() {
		axes = append(axes, VariationAxis{
			Tag:      axis.Tag,
			MinValue: axis.MinValue,
			MaxValue: axis.MaxValue,
			DefValue: axis.DefValue,
		})
	}
	return axes
}
