package fonttest

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"

	"github.com/andybalholm/brotli"
	"github.com/tdewolff/parse/v2"
)

type tableRecord struct {
	tag    string
	offset uint32
	length uint32
}

// tableDirectory returns the flavor and table records of an SFNT file, or false if b is not an SFNT file.
func tableDirectory(b []byte) (uint32, []tableRecord, bool) {
	if len(b) < 12 {
		return 0, nil, false
	}
	r := parse.NewBinaryReader(b)
	flavor := r.ReadUint32()
	if flavor != 0x00010000 && string(b[:4]) != "OTTO" && string(b[:4]) != "true" {
		return 0, nil, false
	}
	numTables := r.ReadUint16()
	_ = r.ReadBytes(6)
	if r.Len() < 16*uint32(numTables) {
		return 0, nil, false
	}
	records := make([]tableRecord, numTables)
	for i := range records {
		records[i].tag = string(r.ReadBytes(4))
		_ = r.ReadUint32() // checksum
		records[i].offset = r.ReadUint32()
		records[i].length = r.ReadUint32()
		if uint32(len(b)) < records[i].offset || uint32(len(b))-records[i].offset < records[i].length {
			return 0, nil, false
		}
	}
	return flavor, records, true
}

// Collection writes a TTC file of the given fonts. Table offsets of SFNT fonts are moved, other data is copied as-is so that it fails to parse.
func Collection(fonts ...[]byte) []byte {
	header := 12 + 4*len(fonts)
	offsets := make([]uint32, len(fonts))
	data := []byte{}
	for i, font := range fonts {
		base := uint32(header + len(data))
		offsets[i] = base

		font = append([]byte{}, font...)
		if _, records, ok := tableDirectory(font); ok {
			for j, record := range records {
				binary.BigEndian.PutUint32(font[12+16*j+8:], base+record.offset)
			}
		}
		data = append(data, pad(font)...)
	}

	w := parse.NewBinaryWriter([]byte{})
	w.WriteBytes([]byte("ttcf"))
	w.WriteUint16(1) // majorVersion
	w.WriteUint16(0) // minorVersion
	w.WriteUint32(uint32(len(fonts)))
	for _, offset := range offsets {
		w.WriteUint32(offset)
	}
	w.WriteBytes(data)
	return w.Bytes()
}

// WOFF wraps an SFNT file in the WOFF format, compressing tables with zlib when that makes them smaller.
func WOFF(sfnt []byte) []byte {
	flavor, records, ok := tableDirectory(sfnt)
	if !ok {
		panic("fonttest: not an SFNT file")
	}

	type table struct {
		data       []byte
		origLength uint32
	}
	tables := make([]table, len(records))
	for i, record := range records {
		orig := sfnt[record.offset : record.offset+record.length]
		var buf bytes.Buffer
		zw := zlib.NewWriter(&buf)
		if _, err := zw.Write(orig); err != nil {
			panic(err)
		} else if err := zw.Close(); err != nil {
			panic(err)
		}
		tables[i] = table{orig, record.length}
		if buf.Len() < len(orig) {
			tables[i].data = buf.Bytes()
		}
	}

	length := 44 + 20*uint32(len(records))
	offsets := make([]uint32, len(records))
	for i := range tables {
		offsets[i] = length
		length += uint32(len(pad(tables[i].data)))
	}

	w := parse.NewBinaryWriter([]byte{})
	w.WriteBytes([]byte("wOFF"))
	w.WriteUint32(flavor)
	w.WriteUint32(length)
	w.WriteUint16(uint16(len(records)))
	w.WriteUint16(0) // reserved
	w.WriteUint32(uint32(len(sfnt)))
	w.WriteUint16(1) // majorVersion
	w.WriteUint16(0) // minorVersion
	w.WriteBytes(make([]byte, 20))
	for i, record := range records {
		w.WriteBytes([]byte(record.tag))
		w.WriteUint32(offsets[i])
		w.WriteUint32(uint32(len(tables[i].data)))
		w.WriteUint32(tables[i].origLength)
		w.WriteUint32(checksum(pad(tables[i].data)))
	}
	for _, table := range tables {
		w.WriteBytes(pad(table.data))
	}
	return w.Bytes()
}

var woff2Tags = map[string]byte{
	"cmap": 0, "head": 1, "hhea": 2, "hmtx": 3, "maxp": 4, "name": 5, "OS/2": 6, "post": 7,
	"glyf": 10, "loca": 11, "CFF ": 13, "fvar": 47,
}

// WOFF2 wraps an SFNT file in the WOFF2 format without transforming its tables. Extra glyf, loca and hmtx tables are added with the transformed flag set, their data is stored as given.
func WOFF2(sfnt []byte, extra map[string][]byte) []byte {
	flavor, records, ok := tableDirectory(sfnt)
	if !ok {
		panic("fonttest: not an SFNT file")
	}

	directory := parse.NewBinaryWriter([]byte{})
	stream := []byte{}
	numTables := 0
	addTable := func(tag string, data []byte, transformed bool) {
		flags, known := woff2Tags[tag]
		if !known {
			flags = 63
		}
		if (tag == "glyf" || tag == "loca") && !transformed {
			flags |= 0xC0 // null transform
		} else if tag == "hmtx" && transformed {
			flags |= 0x40
		}
		directory.WriteUint8(flags)
		if flags&0x3F == 63 {
			directory.WriteBytes([]byte(tag))
		}
		directory.WriteBytes(base128(uint32(len(data))))
		if transformed && tag != "glyf" && tag != "loca" && tag != "hmtx" {
			panic("fonttest: table cannot be transformed")
		} else if transformed {
			if tag == "loca" {
				directory.WriteBytes(base128(0))
			} else {
				directory.WriteBytes(base128(uint32(len(data))))
			}
		}
		if !transformed || tag != "loca" {
			stream = append(stream, data...)
		}
		numTables++
	}
	for _, record := range records {
		addTable(record.tag, sfnt[record.offset:record.offset+record.length], false)
	}
	for _, tag := range []string{"glyf", "loca", "hmtx"} {
		if data, ok := extra[tag]; ok {
			addTable(tag, data, true)
		}
	}

	var comp bytes.Buffer
	bw := brotli.NewWriter(&comp)
	if _, err := bw.Write(stream); err != nil {
		panic(err)
	} else if err := bw.Close(); err != nil {
		panic(err)
	}

	w := parse.NewBinaryWriter([]byte{})
	w.WriteBytes([]byte("wOF2"))
	w.WriteUint32(flavor)
	w.WriteUint32(48 + uint32(len(directory.Bytes())) + uint32(comp.Len()))
	w.WriteUint16(uint16(numTables))
	w.WriteUint16(0) // reserved
	w.WriteUint32(uint32(len(sfnt)))
	w.WriteUint32(uint32(comp.Len()))
	w.WriteUint16(1) // majorVersion
	w.WriteUint16(0) // minorVersion
	w.WriteBytes(make([]byte, 20))
	w.WriteBytes(directory.Bytes())
	w.WriteBytes(comp.Bytes())
	return w.Bytes()
}

func base128(v uint32) []byte {
	b := []byte{byte(v & 0x7F)}
	for v >>= 7; v != 0; v >>= 7 {
		b = append([]byte{byte(v&0x7F) | 0x80}, b...)
	}
	return b
}

// EOT wraps an SFNT file in the uncompressed EOT format, optionally obfuscated with XOR.
func EOT(sfnt []byte, xor bool) []byte {
	fontData := append([]byte{}, sfnt...)
	var flags uint32
	if xor {
		flags |= 0x10000000
		for i := range fontData {
			fontData[i] ^= 0x50
		}
	}

	names := [][]byte{UTF16("Family"), UTF16("Regular"), UTF16("Version 1.0"), UTF16("Family Regular")}
	b := []byte{}
	b = binary.LittleEndian.AppendUint32(b, 0) // EOTSize, set below
	b = binary.LittleEndian.AppendUint32(b, uint32(len(fontData)))
	b = binary.LittleEndian.AppendUint32(b, 0x00010000)
	b = binary.LittleEndian.AppendUint32(b, flags)
	b = append(b, make([]byte, 10)...) // FontPANOSE
	b = append(b, 1, 0)                // Charset, Italic
	b = binary.LittleEndian.AppendUint32(b, 400)
	b = binary.LittleEndian.AppendUint16(b, 0)
	b = binary.LittleEndian.AppendUint16(b, 0x504C)
	b = append(b, make([]byte, 24+4+16+2)...) // ranges, CheckSumAdjustment, Reserved, Padding1
	for i, name := range names {
		if i != 0 {
			b = binary.LittleEndian.AppendUint16(b, 0)
		}
		b = binary.LittleEndian.AppendUint16(b, uint16(len(name)))
		b = append(b, name...)
	}
	b = append(b, fontData...)
	binary.LittleEndian.PutUint32(b, uint32(len(b)))
	return b
}
