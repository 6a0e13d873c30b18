package fontmeta

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// UnicodeRange is an inclusive range of code points.
type UnicodeRange struct {
	Start uint32 `json:"start"`
	End   uint32 `json:"end"`
}

// Len returns the number of code points in the range.
func (ur UnicodeRange) Len() int {
	return int(ur.End-ur.Start) + 1
}

// String formats the range as 0041-005A, or as 0041 for a single code point.
func (ur UnicodeRange) String() string {
	if ur.Start == ur.End {
		return fmt.Sprintf("%04X", ur.Start)
	}
	return fmt.Sprintf("%04X-%04X", ur.Start, ur.End)
}

// CSS formats the range for the unicode-range descriptor of @font-face, such as U+41-5A.
func (ur UnicodeRange) CSS() string {
	if ur.Start == ur.End {
		return fmt.Sprintf("U+%X", ur.Start)
	}
	return fmt.Sprintf("U+%X-%X", ur.Start, ur.End)
}

// UnicodeRanges is a list of ascending, non-overlapping and non-adjacent ranges.
type UnicodeRanges []UnicodeRange

// Contains returns true if the code point lies in one of the ranges.
func (urs UnicodeRanges) Contains(r rune) bool {
	if r < 0 {
		return false
	}
	i := sort.Search(len(urs), func(i int) bool { return uint32(r) <= urs[i].End })
	return i < len(urs) && urs[i].Start <= uint32(r)
}

// Len returns the number of code points in all ranges.
func (urs UnicodeRanges) Len() int {
	n := 0
	for _, ur := range urs {
		n += ur.Len()
	}
	return n
}

// Runes calls yield for each code point in ascending order, until it returns false.
func (urs UnicodeRanges) Runes(yield func(rune) bool) {
	for _, ur := range urs {
		for r := ur.Start; r <= ur.End; r++ {
			if !yield(rune(r)) {
				return
			}
		}
	}
}

func (urs UnicodeRanges) String() string {
	sb := strings.Builder{}
	for i, ur := range urs {
		if i != 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(ur.String())
	}
	return sb.String()
}

// CSS formats the ranges for the unicode-range descriptor of @font-face.
func (urs UnicodeRanges) CSS() string {
	sb := strings.Builder{}
	for i, ur := range urs {
		if i != 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(ur.CSS())
	}
	return sb.String()
}

// Normalize sorts the ranges and merges those that overlap or touch.
func (urs UnicodeRanges) Normalize() UnicodeRanges {
	if len(urs) == 0 {
		return UnicodeRanges{}
	}
	sorted := make(UnicodeRanges, len(urs))
	copy(sorted, urs)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })

	merged := UnicodeRanges{sorted[0]}
	for _, ur := range sorted[1:] {
		last := &merged[len(merged)-1]
		if ur.Start <= last.End+1 {
			if last.End < ur.End {
				last.End = ur.End
			}
		} else {
			merged = append(merged, ur)
		}
	}
	return merged
}

// ParseUnicodeRanges parses a comma-separated list of hexadecimal code points and ranges, each optionally prefixed by U+, such as "U+0-7F, 20AC, ff00-ffef". The result is normalized.
func ParseUnicodeRanges(s string) (UnicodeRanges, error) {
	urs := UnicodeRanges{}
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		item = strings.TrimPrefix(strings.TrimPrefix(item, "U+"), "u+")

		first, last, isRange := strings.Cut(item, "-")
		start, err := parseCodePoint(first)
		if err != nil {
			return nil, err
		}
		end := start
		if isRange {
			if end, err = parseCodePoint(strings.TrimPrefix(strings.TrimPrefix(last, "U+"), "u+")); err != nil {
				return nil, err
			} else if end < start {
				return nil, fmt.Errorf("bad range %s: end before start", item)
			}
		}
		urs = append(urs, UnicodeRange{start, end})
	}
	return urs.Normalize(), nil
}

func parseCodePoint(s string) (uint32, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 16, 32)
	if err != nil {
		return 0, fmt.Errorf("bad code point %q", s)
	} else if uint64(MaxRune) < v {
		return 0, fmt.Errorf("bad code point %q: exceeds U+10FFFF", s)
	}
	return uint32(v), nil
}
