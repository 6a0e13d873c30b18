package sfnt

import (
	"fmt"
	"sort"

	"github.com/tdewolff/parse/v2"
)

// MaxCmapSegments is the maximum number of cmap segments that will be accepted.
const MaxCmapSegments = 20000

type cmapSubtable interface {
	Get(rune) (uint16, bool)
}

type cmapFormat0 struct {
	GlyphIdArray [256]uint8
}

func (subtable *cmapFormat0) Get(r rune) (uint16, bool) {
	if r < 0 || 256 <= r {
		return 0, false
	}
	return uint16(subtable.GlyphIdArray[r]), true
}

type cmapFormat4 struct {
	StartCode     []uint16
	EndCode       []uint16
	IdDelta       []int16
	IdRangeOffset []uint16
	GlyphIdArray  []uint16
}

func (subtable *cmapFormat4) Get(r rune) (uint16, bool) {
	if r < 0 || 65536 <= r {
		return 0, false
	}
	n := len(subtable.EndCode)
	i := sort.Search(n, func(i int) bool { return uint16(r) <= subtable.EndCode[i] })
	if i == n || uint16(r) < subtable.StartCode[i] {
		return 0, false
	}
	if subtable.IdRangeOffset[i] == 0 {
		// is modulo 65536 with the idDelta cast and addition overflow
		return uint16(subtable.IdDelta[i]) + uint16(r), true
	}
	// idRangeOffset/2  ->  offset value to index of words
	// r-startCode  ->  difference of rune with startCode
	// -(n-i)  ->  subtract offset from the current idRangeOffset item
	index := int(subtable.IdRangeOffset[i]/2) + int(uint16(r)-subtable.StartCode[i]) - (n - i)
	if index < 0 || len(subtable.GlyphIdArray) <= index {
		return 0, false
	}
	glyphID := subtable.GlyphIdArray[index]
	if glyphID == 0 {
		return 0, true
	}
	return glyphID + uint16(subtable.IdDelta[i]), true
}

type cmapFormat6 struct {
	FirstCode    uint32
	GlyphIdArray []uint16
}

func (subtable *cmapFormat6) Get(r rune) (uint16, bool) {
	if r < 0 || uint32(r) < subtable.FirstCode || uint32(len(subtable.GlyphIdArray)) <= uint32(r)-subtable.FirstCode {
		return 0, false
	}
	return subtable.GlyphIdArray[uint32(r)-subtable.FirstCode], true
}

type cmapGroup struct {
	StartCharCode uint32
	EndCharCode   uint32
	StartGlyphID  uint32
}

// cmapFormat12 holds the groups of both format 12 (segmented coverage) and format 13 (many-to-one range mappings).
type cmapFormat12 struct {
	Groups    []cmapGroup
	ManyToOne bool
}

func (subtable *cmapFormat12) Get(r rune) (uint16, bool) {
	if r < 0 {
		return 0, false
	}
	n := len(subtable.Groups)
	i := sort.Search(n, func(i int) bool { return uint32(r) <= subtable.Groups[i].EndCharCode })
	if i == n || uint32(r) < subtable.Groups[i].StartCharCode {
		return 0, false
	}
	group := subtable.Groups[i]
	if subtable.ManyToOne {
		return uint16(group.StartGlyphID), true
	}
	return uint16(uint32(r) - group.StartCharCode + group.StartGlyphID), true
}

type cmapEncodingRecord struct {
	PlatformID PlatformID
	EncodingID EncodingID
	Format     uint16
	Subtable   int // index into Subtables, -1 if not a Unicode subtable
}

// isUnicode returns true for the platform/encoding pairs that map Unicode code points, excluding Unicode Variation Sequences (0/5).
func (record cmapEncodingRecord) isUnicode() bool {
	switch record.PlatformID {
	case PlatformUnicode:
		return record.EncodingID != 5
	case PlatformWindows:
		return record.EncodingID == EncodingWindowsUnicodeBMP || record.EncodingID == EncodingWindowsUnicodeFull
	}
	return false
}

type cmapTable struct {
	EncodingRecords []cmapEncodingRecord
	Subtables       []cmapSubtable
}

// Get returns the glyph ID for the corresponding rune. It looks for each Unicode subtable in the order in which they appear and returns the first match, or 0 when no match is found.
func (cmap *cmapTable) Get(r rune) uint16 {
	for _, subtable := range cmap.Subtables {
		if glyphID, ok := subtable.Get(r); ok && glyphID != 0 {
			return glyphID
		}
	}
	return 0
}

func (sfnt *Font) parseCmap() error {
	b := sfnt.Tables["cmap"]
	if len(b) < 4 {
		return fmt.Errorf("cmap: bad table")
	}

	sfnt.Cmap = &cmapTable{}
	r := parse.NewBinaryReader(b)
	if r.ReadUint16() != 0 {
		return fmt.Errorf("cmap: bad version")
	}
	numTables := r.ReadUint16()
	if uint32(len(b)) < 4+8*uint32(numTables) {
		return fmt.Errorf("cmap: bad table")
	}

	subtableOffsets := map[uint32]int{}
	for j := 0; j < int(numTables); j++ {
		record := cmapEncodingRecord{
			PlatformID: PlatformID(r.ReadUint16()),
			EncodingID: EncodingID(r.ReadUint16()),
			Subtable:   -1,
		}
		offset := r.ReadUint32()
		if uint32(len(b))-4 < offset { // to extract the subtable format
			sfnt.TableErrors = append(sfnt.TableErrors, fmt.Errorf("cmap: bad subtable %d", j))
			sfnt.Cmap.EncodingRecords = append(sfnt.Cmap.EncodingRecords, record)
			continue
		}
		record.Format = uint16(b[offset])<<8 | uint16(b[offset+1])

		if record.isUnicode() {
			if i, ok := subtableOffsets[offset]; ok {
				record.Subtable = i
			} else {
				subtable, err := parseCmapSubtable(b[offset:], record.Format)
				if err != nil {
					// other subtables may still be valid
					sfnt.TableErrors = append(sfnt.TableErrors, fmt.Errorf("cmap: %v in subtable %d", err, j))
				} else if subtable != nil {
					record.Subtable = len(sfnt.Cmap.Subtables)
					subtableOffsets[offset] = record.Subtable
					sfnt.Cmap.Subtables = append(sfnt.Cmap.Subtables, subtable)
				}
			}
		}
		sfnt.Cmap.EncodingRecords = append(sfnt.Cmap.EncodingRecords, record)
	}
	return nil
}

// parseCmapSubtable returns nil for formats that do not map single code points (2, 8 and 14).
func parseCmapSubtable(b []byte, format uint16) (cmapSubtable, error) {
	r := parse.NewBinaryReader(b)
	_ = r.ReadUint16() // format
	var length uint32
	switch format {
	case 0, 4, 6:
		length = uint32(r.ReadUint16())
		_ = r.ReadUint16() // language
	case 10, 12, 13:
		_ = r.ReadUint16() // reserved
		length = r.ReadUint32()
		_ = r.ReadUint32() // language
	case 2, 8, 14:
		return nil, nil
	default:
		return nil, fmt.Errorf("unsupported format %d", format)
	}
	headerLength := r.Pos()
	if r.EOF() || length < headerLength || uint32(len(b)) < length {
		if format != 4 || r.EOF() {
			return nil, fmt.Errorf("bad length")
		}
		// some fonts have a format 4 length that overflows uint16, use the remaining data
		length = uint32(len(b))
	}
	r = parse.NewBinaryReader(b[headerLength:length])

	switch format {
	case 0:
		if r.Len() < 256 {
			return nil, fmt.Errorf("bad length")
		}
		subtable := &cmapFormat0{}
		copy(subtable.GlyphIdArray[:], r.ReadBytes(256))
		return subtable, nil
	case 4:
		if r.Len() < 8 {
			return nil, fmt.Errorf("bad length")
		}
		segCount := r.ReadUint16()
		if segCount%2 != 0 || segCount == 0 {
			return nil, fmt.Errorf("bad segCount")
		}
		segCount /= 2
		if MaxCmapSegments < segCount {
			return nil, fmt.Errorf("too many segments")
		}
		_ = r.ReadUint16() // searchRange
		_ = r.ReadUint16() // entrySelector
		_ = r.ReadUint16() // rangeShift
		if r.Len() < 2+8*uint32(segCount) {
			return nil, fmt.Errorf("bad length")
		}

		subtable := &cmapFormat4{}
		subtable.EndCode = make([]uint16, segCount)
		for i := range subtable.EndCode {
			subtable.EndCode[i] = r.ReadUint16()
			if 0 < i && subtable.EndCode[i] <= subtable.EndCode[i-1] {
				return nil, fmt.Errorf("bad endCode")
			}
		}
		_ = r.ReadUint16() // reservedPad
		subtable.StartCode = make([]uint16, segCount)
		for i := range subtable.StartCode {
			subtable.StartCode[i] = r.ReadUint16()
			if subtable.EndCode[i] < subtable.StartCode[i] {
				return nil, fmt.Errorf("bad startCode")
			}
		}
		subtable.IdDelta = make([]int16, segCount)
		for i := range subtable.IdDelta {
			subtable.IdDelta[i] = r.ReadInt16()
		}
		subtable.IdRangeOffset = make([]uint16, segCount)
		for i := range subtable.IdRangeOffset {
			subtable.IdRangeOffset[i] = r.ReadUint16()
		}
		subtable.GlyphIdArray = make([]uint16, r.Len()/2)
		for i := range subtable.GlyphIdArray {
			subtable.GlyphIdArray[i] = r.ReadUint16()
		}
		return subtable, nil
	case 6, 10:
		subtable := &cmapFormat6{}
		var entryCount uint32
		if format == 6 {
			subtable.FirstCode = uint32(r.ReadUint16())
			entryCount = uint32(r.ReadUint16())
		} else {
			subtable.FirstCode = r.ReadUint32()
			entryCount = r.ReadUint32()
		}
		if r.EOF() || r.Len()/2 < entryCount {
			return nil, fmt.Errorf("bad length")
		}
		subtable.GlyphIdArray = make([]uint16, entryCount)
		for i := range subtable.GlyphIdArray {
			subtable.GlyphIdArray[i] = r.ReadUint16()
		}
		return subtable, nil
	default: // 12 and 13
		numGroups := r.ReadUint32()
		if MaxCmapSegments < numGroups {
			return nil, fmt.Errorf("too many segments")
		} else if r.EOF() || r.Len() < 12*numGroups {
			return nil, fmt.Errorf("bad length")
		}
		subtable := &cmapFormat12{
			Groups:    make([]cmapGroup, numGroups),
			ManyToOne: format == 13,
		}
		for i := range subtable.Groups {
			group := &subtable.Groups[i]
			group.StartCharCode = r.ReadUint32()
			group.EndCharCode = r.ReadUint32()
			group.StartGlyphID = r.ReadUint32()
			if group.EndCharCode < group.StartCharCode || 0 < i && group.StartCharCode <= subtable.Groups[i-1].EndCharCode {
				return nil, fmt.Errorf("bad character code range")
			}
		}
		return subtable, nil
	}
}
