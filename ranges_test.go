package fontmeta

import (
	"testing"

	"github.com/tdewolff/test"
)

func TestUnicodeRangeString(t *testing.T) {
	test.String(t, UnicodeRange{0x41, 0x5A}.String(), "0041-005A")
	test.String(t, UnicodeRange{0x41, 0x41}.String(), "0041")
	test.String(t, UnicodeRange{0x1F600, 0x1F64F}.String(), "1F600-1F64F")
	test.String(t, UnicodeRange{0x41, 0x5A}.CSS(), "U+41-5A")
	test.String(t, UnicodeRange{0x20AC, 0x20AC}.CSS(), "U+20AC")

	urs := UnicodeRanges{{0x41, 0x5A}, {0x61, 0x7A}, {0x20AC, 0x20AC}}
	test.String(t, urs.String(), "0041-005A, 0061-007A, 20AC")
	test.String(t, urs.CSS(), "U+41-5A, U+61-7A, U+20AC")
	test.String(t, UnicodeRanges{}.String(), "")
	test.T(t, urs.Len(), 53)
}

func TestParseUnicodeRanges(t *testing.T) {
	var tts = []struct {
		s      string
		ranges UnicodeRanges
	}{
		{"", UnicodeRanges{}},
		{"41", UnicodeRanges{{0x41, 0x41}}},
		{"U+41-5A", UnicodeRanges{{0x41, 0x5A}}},
		{"u+41-u+5a", UnicodeRanges{{0x41, 0x5A}}},
		{"0-0f, ff, 8ff-ffff", UnicodeRanges{{0, 0x0F}, {0xFF, 0xFF}, {0x8FF, 0xFFFF}}},
		{"61-7A, 41-5A", UnicodeRanges{{0x41, 0x5A}, {0x61, 0x7A}}},
		{"41-50, 51-5A", UnicodeRanges{{0x41, 0x5A}}},
		{"41-5A, 45-48, 50-60", UnicodeRanges{{0x41, 0x60}}},
		{" 20AC , , 10FFFF", UnicodeRanges{{0x20AC, 0x20AC}, {0x10FFFF, 0x10FFFF}}},
	}
	for _, tt := range tts {
		t.Run(tt.s, func(t *testing.T) {
			urs, err := ParseUnicodeRanges(tt.s)
			test.Error(t, err)
			test.T(t, urs, tt.ranges)
			checkCanonical(t, urs)

			// formatting and parsing are inverse
			urs2, err := ParseUnicodeRanges(urs.CSS())
			test.Error(t, err)
			test.T(t, urs2, urs)
		})
	}

	for _, s := range []string{"x", "41-", "5A-41", "110000", "41-110000", "U+", "41 42"} {
		t.Run(s, func(t *testing.T) {
			_, err := ParseUnicodeRanges(s)
			test.That(t, err != nil)
		})
	}
}

func TestUnicodeRangesNormalize(t *testing.T) {
	urs := UnicodeRanges{{10, 20}, {0, 5}, {21, 21}, {6, 8}, {30, 40}, {35, 36}}
	test.T(t, urs.Normalize(), UnicodeRanges{{0, 8}, {10, 21}, {30, 40}})
	test.T(t, urs[0], UnicodeRange{10, 20}) // unchanged
	test.T(t, UnicodeRanges(nil).Normalize(), UnicodeRanges{})
}

func TestUnicodeRangesContains(t *testing.T) {
	urs := UnicodeRanges{{0x41, 0x5A}, {0x61, 0x61}}
	test.T(t, urs.Contains(0x40), false)
	test.T(t, urs.Contains(0x41), true)
	test.T(t, urs.Contains(0x5A), true)
	test.T(t, urs.Contains(0x5B), false)
	test.T(t, urs.Contains(0x61), true)
	test.T(t, urs.Contains(0x62), false)
	test.T(t, urs.Contains(-1), false)
	test.T(t, UnicodeRanges{}.Contains(0), false)
}

func TestUnicodeRangesRunes(t *testing.T) {
	rs := []rune{}
	UnicodeRanges{{'a', 'c'}, {'x', 'z'}}.Runes(func(r rune) bool {
		rs = append(rs, r)
		return r != 'y'
	})
	test.T(t, string(rs), "abcxy")
}
