package fontmeta

const (
	// MaxBMPRune is the last code point of the Basic Multilingual Plane.
	MaxBMPRune rune = 0xFFFF
	// MaxRune is the last Unicode code point.
	MaxRune rune = 0x10FFFF
)

func isSurrogate(r rune) bool {
	return 0xD800 <= r && r <= 0xDFFF
}

// Coverage returns the ranges of code points in the Basic Multilingual Plane that the face maps to a glyph.
func Coverage(face Face) UnicodeRanges {
	return CoverageUpTo(face, MaxBMPRune)
}

// CoverageUpTo returns the ranges of code points between zero and limit inclusive that the face maps to a glyph. Ranges are ascending and neither overlap nor touch. Surrogate code points are never covered.
func CoverageUpTo(face Face, limit rune) UnicodeRanges {
	if MaxRune < limit {
		limit = MaxRune
	}

	ranges := UnicodeRanges{}
	var rangeStart rune
	prevCovered := false
	for r := rune(0); r <= limit; r++ {
		covered := !isSurrogate(r) && face.HasGlyph(r)
		if covered && !prevCovered {
			rangeStart = r
		} else if !covered && prevCovered {
			ranges = append(ranges, UnicodeRange{uint32(rangeStart), uint32(r - 1)})
		}
		prevCovered = covered
	}
	if prevCovered {
		ranges = append(ranges, UnicodeRange{uint32(rangeStart), uint32(limit)})
	}
	return ranges
}
