// Package fontmeta extracts descriptive metadata from font files: names, style, glyph count, variation axes and the Unicode ranges a font covers. Collections yield one record per usable font.
package fontmeta

import (
	"golang.org/x/sync/errgroup"
)

// VariationAxis is a design axis of a variable font.
type VariationAxis struct {
	Tag      string  `json:"tag"`
	MinValue float32 `json:"min_value"`
	MaxValue float32 `json:"max_value"`
	DefValue float32 `json:"def_value"`
}

// Font is the metadata record of a single font.
type Font struct {
	Names         map[uint16]string `json:"names"`
	Italic        bool              `json:"italic"`
	Stretch       uint16            `json:"stretch"`
	Weight        uint16            `json:"weight"`
	GlyphCount    uint16            `json:"glyph_count"`
	IsVariable    bool              `json:"is_variable"`
	VariationAxes []VariationAxis   `json:"variation_axes"`
	UnicodeRanges UnicodeRanges     `json:"unicode_ranges"`
}

// DisplayName returns the typographic family name, or the family name if the font has no typographic family.
func (font Font) DisplayName() string {
	if name, ok := font.Names[NameTypographicFamily]; ok {
		return name
	}
	return font.Names[NameFamily]
}

// Covers returns true if the font maps the code point to a glyph.
func (font Font) Covers(r rune) bool {
	return font.UnicodeRanges.Contains(r)
}

// FontDefinitions is the list of usable fonts of a file, in the order they appear.
type FontDefinitions []Font

// Assemble builds the metadata record of a face by scanning code points up to and including limit. It returns false if the face has no usable names.
func Assemble(face Face, limit rune) (Font, bool) {
	names := FilterNames(face.NameRecords())
	if !Usable(names) {
		return Font{}, false
	}

	axes := []VariationAxis{}
	isVariable := face.IsVariable()
	if isVariable {
		axes = append(axes, face.VariationAxes()...)
	}
	return Font{
		Names:         names,
		Italic:        face.IsItalic(),
		Stretch:       face.WidthClass(),
		Weight:        face.WeightClass(),
		GlyphCount:    face.NumGlyphs(),
		IsVariable:    isVariable,
		VariationAxes: axes,
		UnicodeRanges: CoverageUpTo(face, limit),
	}, true
}

////////////////////////////////////////////////////////////////

// Option configures an Extractor.
type Option func(*Extractor)

// WithParser sets the parser used to read fonts, by default SFNTParser.
func WithParser(parser Parser) Option {
	return func(e *Extractor) {
		e.parser = parser
	}
}

// WithScanLimit sets the highest code point that is checked for coverage, by default the end of the Basic Multilingual Plane (0xFFFF). It is clipped to the Unicode range.
func WithScanLimit(limit rune) Option {
	return func(e *Extractor) {
		if limit < 0 {
			limit = 0
		} else if MaxRune < limit {
			limit = MaxRune
		}
		e.limit = limit
	}
}

// WithConcurrency sets the number of fonts of a collection that are processed in parallel, by default one.
func WithConcurrency(n int) Option {
	return func(e *Extractor) {
		if n < 1 {
			n = 1
		}
		e.concurrency = n
	}
}

// Extractor extracts font metadata from font files.
type Extractor struct {
	parser      Parser
	limit       rune
	concurrency int
}

// NewExtractor returns an extractor for SFNT fonts that scans the Basic Multilingual Plane.
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{
		parser:      SFNTParser{},
		limit:       MaxBMPRune,
		concurrency: 1,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract returns the records of all usable fonts in b. Fonts that cannot be parsed or have no usable names are skipped, so that the result may be empty but is never nil.
func (e *Extractor) Extract(b []byte) FontDefinitions {
	if unwrapper, ok := e.parser.(Unwrapper); ok {
		var err error
		if b, err = unwrapper.Unwrap(b); err != nil {
			return FontDefinitions{}
		}
	}

	n := e.parser.NumFonts(b)
	if n <= 0 {
		return FontDefinitions{}
	}

	fonts := make([]Font, n)
	ok := make([]bool, n)
	if e.concurrency == 1 || n == 1 {
		for i := 0; i < n; i++ {
			fonts[i], ok[i] = e.extractFace(b, i)
		}
	} else {
		var g errgroup.Group
		g.SetLimit(e.concurrency)
		for i := 0; i < n; i++ {
			i := i
			g.Go(func() error {
				fonts[i], ok[i] = e.extractFace(b, i)
				return nil
			})
		}
		_ = g.Wait() // never fails
	}

	defs := make(FontDefinitions, 0, n)
	for i := range fonts {
		if ok[i] {
			defs = append(defs, fonts[i])
		}
	}
	return defs
}

func (e *Extractor) extractFace(b []byte, index int) (Font, bool) {
	face, err := e.parser.ParseFace(b, index)
	if err != nil {
		return Font{}, false
	}
	return Assemble(face, e.limit)
}

// Metadata returns the extracted fonts in their output shape: a single Font if exactly one usable font was found, and FontDefinitions otherwise (including when none were found).
func (e *Extractor) Metadata(b []byte) any {
	return Shape(e.Extract(b))
}

// Shape returns the only font if there is exactly one, or the list of fonts otherwise.
func Shape(defs FontDefinitions) any {
	if len(defs) == 1 {
		return defs[0]
	}
	return defs
}

// Extract returns the records of all usable fonts in b, see Extractor.Extract.
func Extract(b []byte, opts ...Option) FontDefinitions {
	return NewExtractor(opts...).Extract(b)
}

// Metadata returns the records of all usable fonts in b in their output shape, see Extractor.Metadata.
func Metadata(b []byte, opts ...Option) any {
	return NewExtractor(opts...).Metadata(b)
}
