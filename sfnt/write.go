package sfnt

import (
	"encoding/binary"
	"math"
	"sort"

	"github.com/tdewolff/parse/v2"
)

// writeSFNT writes an OpenType file with the given tables, sorted by tag. Tables are padded to four bytes and head.checkSumAdjustment is recalculated.
func writeSFNT(flavor uint32, tables map[string][]byte) ([]byte, error) {
	tags := make([]string, 0, len(tables))
	for tag := range tables {
		if len(tag) != 4 {
			return nil, ErrInvalidFontData
		}
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	if math.MaxUint16 < len(tags) {
		return nil, ErrInvalidFontData
	}
	numTables := uint16(len(tags))

	// find values for offset table
	var searchRange uint16 = 1
	var entrySelector uint16
	for searchRange*2 <= numTables {
		searchRange *= 2
		entrySelector++
	}
	searchRange *= 16
	rangeShift := numTables*16 - searchRange

	size := 12 + 16*uint32(numTables)
	for _, tag := range tags {
		n := uint32(len(tables[tag]))
		n += (4 - n&3) & 3
		if MaxMemory < n || MaxMemory-n < size {
			return nil, ErrExceedsMemory
		}
		size += n
	}

	w := parse.NewBinaryWriter(make([]byte, 0, size))
	w.WriteUint32(flavor)
	w.WriteUint16(numTables)
	w.WriteUint16(searchRange)
	w.WriteUint16(entrySelector)
	w.WriteUint16(rangeShift)

	padded := make([][]byte, len(tags))
	offset := 12 + 16*uint32(numTables)
	for i, tag := range tags {
		table := tables[tag]
		padded[i] = table
		if nPadding := (4 - len(table)&3) & 3; nPadding != 0 {
			padded[i] = append(append([]byte{}, table...), make([]byte, nPadding)...)
		}
		if tag == "head" && 12 <= len(padded[i]) {
			if len(table) == len(padded[i]) {
				padded[i] = append([]byte{}, table...)
			}
			binary.BigEndian.PutUint32(padded[i][8:], 0) // clear checkSumAdjustment
		}

		w.WriteUint32(binary.BigEndian.Uint32([]byte(tag)))
		w.WriteUint32(calcChecksum(padded[i]))
		w.WriteUint32(offset)
		w.WriteUint32(uint32(len(table)))
		offset += uint32(len(padded[i]))
	}

	iCheckSumAdjustment := -1
	for i, tag := range tags {
		if tag == "head" && 12 <= len(padded[i]) {
			iCheckSumAdjustment = int(w.Len()) + 8
		}
		w.WriteBytes(padded[i])
	}

	b := w.Bytes()
	if iCheckSumAdjustment != -1 {
		binary.BigEndian.PutUint32(b[iCheckSumAdjustment:], 0xB1B0AFBA-calcChecksum(b))
	}
	return b, nil
}
