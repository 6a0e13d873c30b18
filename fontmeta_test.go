package fontmeta

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/tdewolff/fontmeta/internal/fonttest"
	"github.com/tdewolff/fontmeta/sfnt"
	"github.com/tdewolff/test"
)

type mockFace struct {
	names    []NameRecord
	italic   bool
	width    uint16
	weight   uint16
	glyphs   uint16
	variable bool
	axes     []VariationAxis
	covered  func(rune) bool
}

func (f *mockFace) NameRecords() []NameRecord      { return f.names }
func (f *mockFace) IsItalic() bool                 { return f.italic }
func (f *mockFace) WidthClass() uint16             { return f.width }
func (f *mockFace) WeightClass() uint16            { return f.weight }
func (f *mockFace) NumGlyphs() uint16              { return f.glyphs }
func (f *mockFace) IsVariable() bool               { return f.variable }
func (f *mockFace) VariationAxes() []VariationAxis { return f.axes }
func (f *mockFace) HasGlyph(r rune) bool           { return f.covered != nil && f.covered(r) }

// mockParser returns its faces by index, a nil face fails to parse.
type mockParser []Face

func (p mockParser) NumFonts(b []byte) int {
	return len(p)
}

func (p mockParser) ParseFace(b []byte, index int) (Face, error) {
	if p[index] == nil {
		return nil, fmt.Errorf("bad font %d", index)
	}
	return p[index], nil
}

func windowsName(id uint16, s string) NameRecord {
	return NameRecord{
		Platform: sfnt.PlatformWindows,
		Encoding: sfnt.EncodingWindowsUnicodeBMP,
		Language: 0x409,
		Name:     sfnt.NameID(id),
		Value:    fonttest.UTF16(s),
	}
}

func namedFace(family string) *mockFace {
	return &mockFace{
		names:   []NameRecord{windowsName(NameFamily, family)},
		width:   5,
		weight:  400,
		glyphs:  10,
		covered: func(r rune) bool { return r == 'a' },
	}
}

func TestExtractSingleFont(t *testing.T) {
	b := fonttest.Font{
		NumGlyphs: 120,
		Names:     []fonttest.Name{fonttest.WindowsName(1, "Sample")},
		OS2:       &fonttest.OS2{Weight: 400, Width: 5},
		Cmap:      fonttest.Runes([2]rune{0x41, 0x5A}, [2]rune{0x61, 0x7A}),
	}.Bytes()

	font, ok := Metadata(b).(Font)
	test.That(t, ok, "single font must not be a list")

	expected := Font{
		Names:         map[uint16]string{1: "Sample"},
		Italic:        false,
		Stretch:       5,
		Weight:        400,
		GlyphCount:    120,
		IsVariable:    false,
		VariationAxes: []VariationAxis{},
		UnicodeRanges: UnicodeRanges{{65, 90}, {97, 122}},
	}
	if diff := cmp.Diff(expected, font); diff != "" {
		t.Errorf("font mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractCollection(t *testing.T) {
	fontA := fonttest.Font{
		NumGlyphs: 2,
		Names:     []fonttest.Name{fonttest.WindowsName(1, "A")},
		Cmap:      fonttest.Runes([2]rune{'a', 'a'}),
	}
	fontC := fonttest.Font{
		NumGlyphs: 2,
		Names:     []fonttest.Name{fonttest.WindowsName(1, "C")},
		Cmap:      fonttest.Runes([2]rune{'c', 'c'}),
	}
	ttc := fonttest.Collection(fontA.Bytes(), []byte("not a font at all"), fontC.Bytes())

	for _, concurrency := range []int{1, 3} {
		t.Run(fmt.Sprint(concurrency), func(t *testing.T) {
			defs, ok := Metadata(ttc, WithConcurrency(concurrency)).(FontDefinitions)
			test.That(t, ok, "collection must be a list")
			test.T(t, len(defs), 2)
			test.T(t, defs[0].Names[NameFamily], "A")
			test.T(t, defs[0].UnicodeRanges, UnicodeRanges{{'a', 'a'}})
			test.T(t, defs[1].Names[NameFamily], "C")
			test.T(t, defs[1].UnicodeRanges, UnicodeRanges{{'c', 'c'}})
		})
	}
}

func TestExtractShape(t *testing.T) {
	var tts = []struct {
		name  string
		faces mockParser
		n     int
	}{
		{"none", mockParser{}, 0},
		{"failed", mockParser{nil}, 0},
		{"unusable", mockParser{&mockFace{}}, 0},
		{"single", mockParser{namedFace("A")}, 1},
		{"single of collection", mockParser{nil, namedFace("A"), &mockFace{}}, 1},
		{"multiple", mockParser{namedFace("A"), namedFace("B")}, 2},
	}
	for _, tt := range tts {
		t.Run(tt.name, func(t *testing.T) {
			defs := Extract(nil, WithParser(tt.faces))
			test.That(t, defs != nil, "must not be nil")
			test.T(t, len(defs), tt.n)

			v := Metadata(nil, WithParser(tt.faces))
			if tt.n == 1 {
				_, ok := v.(Font)
				test.That(t, ok, "must be a single font")
			} else {
				list, ok := v.(FontDefinitions)
				test.That(t, ok, "must be a list")
				test.T(t, len(list), tt.n)
			}
		})
	}
}

func TestExtractOrder(t *testing.T) {
	parser := mockParser{}
	for i := 0; i < 20; i++ {
		if i%3 == 1 {
			parser = append(parser, nil)
		} else {
			parser = append(parser, namedFace(fmt.Sprint(i)))
		}
	}
	for _, concurrency := range []int{0, 1, 4, 32} {
		defs := Extract(nil, WithParser(parser), WithConcurrency(concurrency))
		families := []string{}
		for _, font := range defs {
			families = append(families, font.Names[NameFamily])
		}
		test.T(t, families, []string{"0", "2", "3", "5", "6", "8", "9", "11", "12", "14", "15", "17", "18"})
	}
}

func TestExtractInvalid(t *testing.T) {
	for _, b := range [][]byte{nil, []byte("wOF2 broken"), []byte("ttcf\x00\x01\x00\x00\x00\x00\x00\x02")} {
		defs, ok := Metadata(b).(FontDefinitions)
		test.That(t, ok)
		test.T(t, len(defs), 0)
	}
}

func TestAssemble(t *testing.T) {
	face := &mockFace{
		names:    []NameRecord{windowsName(NameFamily, "Var"), windowsName(NameSubfamily, "Regular")},
		italic:   true,
		width:    3,
		weight:   700,
		glyphs:   42,
		variable: true,
		axes:     []VariationAxis{{"wght", 100, 900, 400}, {"wdth", 50, 100, 100}},
		covered:  func(r rune) bool { return r == 0x41 },
	}
	font, ok := Assemble(face, MaxBMPRune)
	test.That(t, ok)

	expected := Font{
		Names:         map[uint16]string{1: "Var", 2: "Regular"},
		Italic:        true,
		Stretch:       3,
		Weight:        700,
		GlyphCount:    42,
		IsVariable:    true,
		VariationAxes: []VariationAxis{{"wght", 100, 900, 400}, {"wdth", 50, 100, 100}},
		UnicodeRanges: UnicodeRanges{{65, 65}},
	}
	if diff := cmp.Diff(expected, font); diff != "" {
		t.Errorf("font mismatch (-want +got):\n%s", diff)
	}

	// axes are ignored for static fonts
	face.variable = false
	font, ok = Assemble(face, MaxBMPRune)
	test.That(t, ok)
	test.T(t, font.IsVariable, false)
	test.T(t, font.VariationAxes, []VariationAxis{})
}

func TestAssembleUnusable(t *testing.T) {
	var tts = []struct {
		name  string
		names []NameRecord
		ok    bool
	}{
		{"no names", nil, false},
		{"only macintosh", []NameRecord{{Platform: sfnt.PlatformMacintosh, Name: 1, Value: []byte("Mac")}}, false},
		{"only invalid", []NameRecord{{Platform: sfnt.PlatformWindows, Encoding: 1, Name: 1, Value: []byte{0}}}, false},
		{"false family", []NameRecord{windowsName(NameFamily, "false"), windowsName(NameFull, "Other")}, false},
		{"false elsewhere", []NameRecord{windowsName(NameFamily, "Sample"), windowsName(NameFull, "false")}, true},
		{"False family", []NameRecord{windowsName(NameFamily, "False")}, true},
		{"no family", []NameRecord{windowsName(NameFull, "Full Name")}, true},
	}
	for _, tt := range tts {
		t.Run(tt.name, func(t *testing.T) {
			face := namedFace("")
			face.names = tt.names
			_, ok := Assemble(face, MaxBMPRune)
			test.T(t, ok, tt.ok)
		})
	}
}

func TestFilterNames(t *testing.T) {
	records := []NameRecord{
		windowsName(NameFamily, "First"),
		{Platform: sfnt.PlatformMacintosh, Name: sfnt.NameID(NameFamily), Value: []byte("Mac")},
		{Platform: sfnt.PlatformUnicode, Encoding: 3, Name: sfnt.NameID(NameSubfamily), Value: fonttest.UTF16("Italic")},
		windowsName(NameFamily, "Last"),
		{Platform: sfnt.PlatformWindows, Encoding: sfnt.EncodingWindowsUnicodeBMP, Name: sfnt.NameID(NameFull), Value: []byte{0xD8, 0x00}},
		{Platform: sfnt.PlatformWindows, Encoding: sfnt.EncodingWindowsSymbol, Name: 300, Value: fonttest.UTF16("Symbol")},
	}
	names := FilterNames(records)
	test.T(t, names, map[uint16]string{
		NameFamily:    "Last",
		NameSubfamily: "Italic",
		300:           "Symbol",
	})
	test.T(t, Usable(names), true)
	test.T(t, Usable(map[uint16]string{}), false)
	test.T(t, Usable(map[uint16]string{NameFamily: "false"}), false)
}

func TestFontDisplayName(t *testing.T) {
	test.T(t, Font{Names: map[uint16]string{1: "Family"}}.DisplayName(), "Family")
	test.T(t, Font{Names: map[uint16]string{1: "Family", 16: "Typographic"}}.DisplayName(), "Typographic")
	test.T(t, Font{Names: map[uint16]string{1: "Family", 16: ""}}.DisplayName(), "")
	test.T(t, Font{Names: map[uint16]string{16: "Typographic"}}.DisplayName(), "Typographic")
	test.T(t, Font{}.DisplayName(), "")
}

func TestFontJSON(t *testing.T) {
	font, ok := Assemble(namedFace("Sample"), MaxBMPRune)
	test.That(t, ok)
	b, err := json.Marshal(font)
	test.Error(t, err)
	test.String(t, string(b), `{"names":{"1":"Sample"},"italic":false,"stretch":5,"weight":400,"glyph_count":10,"is_variable":false,"variation_axes":[],"unicode_ranges":[{"start":97,"end":97}]}`)

	face := namedFace("Sample")
	face.covered = nil
	face.variable = true
	face.axes = []VariationAxis{{"wght", 100, 900, 400}}
	font, _ = Assemble(face, MaxBMPRune)
	b, err = json.Marshal(font)
	test.Error(t, err)
	test.String(t, string(b), `{"names":{"1":"Sample"},"italic":false,"stretch":5,"weight":400,"glyph_count":10,"is_variable":true,"variation_axes":[{"tag":"wght","min_value":100,"max_value":900,"def_value":400}],"unicode_ranges":[]}`)

	b, err = json.Marshal(Metadata(nil, WithParser(mockParser{})))
	test.Error(t, err)
	test.String(t, string(b), `[]`)
}

func TestExtractVariableFont(t *testing.T) {
	b := fonttest.Font{
		NumGlyphs: 3,
		Names:     []fonttest.Name{fonttest.WindowsName(1, "Variable")},
		Cmap:      fonttest.Runes([2]rune{'x', 'z'}),
		Axes: []fonttest.Axis{
			{Tag: "wght", Min: 100, Def: 400, Max: 900},
			{Tag: "opsz", Min: 8, Def: 14, Max: 144},
			{Tag: "GRAD", Min: 0, Def: -50, Max: 100},
		},
	}.Bytes()

	font, ok := Metadata(b).(Font)
	test.That(t, ok)
	test.T(t, font.IsVariable, true)
	test.T(t, len(font.VariationAxes), 3)
	test.T(t, font.VariationAxes[0], VariationAxis{"wght", 100, 900, 400})
	test.T(t, font.VariationAxes[1], VariationAxis{"opsz", 8, 144, 14})
	test.T(t, font.VariationAxes[2], VariationAxis{"GRAD", -50, 100, -50})
	for _, axis := range font.VariationAxes {
		test.That(t, axis.MinValue <= axis.DefValue && axis.DefValue <= axis.MaxValue, axis.Tag)
	}
}

func TestExtractContainers(t *testing.T) {
	ttf := fonttest.Font{
		NumGlyphs: 53,
		Names:     []fonttest.Name{fonttest.WindowsName(1, "Wrapped"), fonttest.UnicodeName(16, "Wrapped Family")},
		OS2:       &fonttest.OS2{Weight: 300, Width: 4, FsSelection: 0x0001},
		Cmap:      fonttest.Runes([2]rune{0x20, 0x7E}, [2]rune{0x4E00, 0x4E02}),
	}.Bytes()
	expected := Extract(ttf)
	test.T(t, len(expected), 1)
	test.T(t, expected[0].DisplayName(), "Wrapped Family")
	test.T(t, expected[0].Italic, true)

	for name, b := range map[string][]byte{
		"WOFF":  fonttest.WOFF(ttf),
		"WOFF2": fonttest.WOFF2(ttf, nil),
		"EOT":   fonttest.EOT(ttf, true),
	} {
		t.Run(name, func(t *testing.T) {
			if diff := cmp.Diff(expected, Extract(b)); diff != "" {
				t.Errorf("font mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestExtractDamagedTables(t *testing.T) {
	// a malformed cmap subtable leaves the other subtables in use
	format6 := []byte{0, 6, 0, 14, 0, 0, 0, 0x61, 0, 2, 0, 5, 0, 6}
	format12 := []byte{
		0, 12, 0, 0, 0, 0, 0, 40, 0, 0, 0, 0,
		0, 0, 0, 2,
		0, 0, 0x01, 0x00, 0, 0, 0x01, 0x10, 0, 0, 0, 1,
		0, 0, 0x00, 0x50, 0, 0, 0x00, 0x60, 0, 0, 0, 20,
	}
	b := fonttest.Font{
		NumGlyphs: 10,
		Names:     []fonttest.Name{fonttest.WindowsName(1, "Sample")},
		Tables: map[string][]byte{"cmap": fonttest.CmapTable(
			fonttest.CmapSubtable{Platform: 3, Encoding: 1, Data: format6},
			fonttest.CmapSubtable{Platform: 0, Encoding: 3, Data: format12},
		)},
	}.Bytes()
	defs := Extract(b)
	test.T(t, len(defs), 1)
	test.T(t, defs[0].UnicodeRanges, UnicodeRanges{{0x61, 0x62}})

	// a name record outside the storage area leaves the other records in use
	name := fonttest.NameTable(fonttest.WindowsName(1, "Sample"), fonttest.WindowsName(4, "Sample Regular"))
	name[6+12*1+10] = 0xFF
	b = fonttest.Font{
		NumGlyphs: 10,
		Tables:    map[string][]byte{"name": name},
	}.Bytes()
	defs = Extract(b)
	test.T(t, len(defs), 1)
	test.T(t, defs[0].Names, map[uint16]string{NameFamily: "Sample"})
}
