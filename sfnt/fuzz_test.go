package sfnt

import (
	"testing"

	"github.com/tdewolff/fontmeta/internal/fonttest"
	"golang.org/x/image/font/gofont/goregular"
)

func FuzzParse(f *testing.F) {
	ttf := sampleFont().Bytes()
	f.Add(ttf)
	f.Add(fonttest.Collection(ttf, []byte("garbage")))
	f.Add(goregular.TTF)
	f.Fuzz(func(t *testing.T, b []byte) {
		n, _ := NumFonts(b)
		for i := 0; i < n && i < 4; i++ {
			if font, err := Parse(b, i); err == nil {
				for r := rune(0); r < 0x300; r++ {
					_ = font.HasGlyph(r)
				}
				for _, record := range font.Names() {
					_, _ = record.Decode()
				}
			}
		}
	})
}

func FuzzParseWOFF(f *testing.F) {
	f.Add(fonttest.WOFF(sampleFont().Bytes()))
	f.Fuzz(func(t *testing.T, b []byte) {
		_, _ = ParseWOFF(b)
	})
}

func FuzzParseWOFF2(f *testing.F) {
	f.Add(fonttest.WOFF2(sampleFont().Bytes(), nil))
	f.Fuzz(func(t *testing.T, b []byte) {
		_, _ = ParseWOFF2(b)
	})
}

func FuzzParseEOT(f *testing.F) {
	f.Add(fonttest.EOT(sampleFont().Bytes(), true))
	f.Fuzz(func(t *testing.T, b []byte) {
		_, _ = ParseEOT(b)
	})
}
