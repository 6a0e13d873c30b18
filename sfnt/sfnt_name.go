package sfnt

import (
	"fmt"

	"github.com/tdewolff/parse/v2"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// PlatformID is the platform of a name record or cmap subtable.
type PlatformID uint16

// see PlatformID
const (
	PlatformUnicode   PlatformID = 0
	PlatformMacintosh PlatformID = 1
	PlatformWindows   PlatformID = 3
)

// EncodingID is the platform-specific encoding of a name record or cmap subtable.
type EncodingID uint16

// see EncodingID
const (
	EncodingMacintoshRoman     EncodingID = 0
	EncodingWindowsSymbol      EncodingID = 0
	EncodingWindowsUnicodeBMP  EncodingID = 1
	EncodingWindowsUnicodeFull EncodingID = 10
)

// NameID identifies the meaning of a name record.
type NameID uint16

// see NameID
const (
	NameCopyrightNotice NameID = iota
	NameFontFamily
	NameFontSubfamily
	NameUniqueIdentifier
	NameFull
	NameVersion
	NamePostScript
	NameTrademark
	NameManufacturer
	NameDesigner
	NameDescription
	NameVendorURL
	NameDesignerURL
	NameLicense
	NameLicenseURL
	_
	NamePreferredFamily
	NamePreferredSubfamily
	NameCompatibleFull
	NameSampleText
	NamePostScriptCID
	NameWWSFamily
	NameWWSSubfamily
	NameLightBackgroundPalette
	NameDarkBackgroundPalette
	NameVariationsPostScriptPrefix
)

var nameIDStrings = []string{
	"Copyright",
	"Family",
	"Subfamily",
	"UniqueID",
	"FullName",
	"Version",
	"PostScriptName",
	"Trademark",
	"Manufacturer",
	"Designer",
	"Description",
	"VendorURL",
	"DesignerURL",
	"License",
	"LicenseURL",
	"Reserved",
	"TypographicFamily",
	"TypographicSubfamily",
	"CompatibleFull",
	"SampleText",
	"PostScriptCIDFindfont",
	"WWSFamily",
	"WWSSubfamily",
	"LightBackgroundPalette",
	"DarkBackgroundPalette",
	"VariationsPostScriptPrefix",
}

func (id NameID) String() string {
	if int(id) < len(nameIDStrings) {
		return nameIDStrings[id]
	}
	return fmt.Sprintf("NameID(%d)", uint16(id))
}

// NameRecord is a single string of the name table. Value holds the raw encoded bytes.
type NameRecord struct {
	Platform PlatformID
	Encoding EncodingID
	Language uint16
	Name     NameID
	Value    []byte
}

// IsUnicode returns true if the record's platform and encoding specify UTF-16BE text, that is the Unicode platform with any encoding or the Windows platform with the Symbol or Unicode BMP encoding.
func (record NameRecord) IsUnicode() bool {
	switch record.Platform {
	case PlatformUnicode:
		return true
	case PlatformWindows:
		return record.Encoding == EncodingWindowsSymbol || record.Encoding == EncodingWindowsUnicodeBMP
	}
	return false
}

// Decode decodes a Unicode record as UTF-16BE. A trailing odd byte is ignored. It returns false for non-Unicode records and for unpaired surrogates.
func (record NameRecord) Decode() (string, bool) {
	value := record.Value[:len(record.Value)&^1]
	if !record.IsUnicode() || !validUTF16BE(value) {
		return "", false
	}
	decoder := unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewDecoder()
	s, _, err := transform.String(decoder, string(value))
	if err != nil {
		return "", false
	}
	return s, true
}

// String decodes the record for display. Unicode and Windows records are decoded as UTF-16BE and Macintosh Roman records as Mac OS Roman, other encodings are returned as-is.
func (record NameRecord) String() string {
	var decoder *encoding.Decoder
	if record.Platform == PlatformUnicode || record.Platform == PlatformWindows {
		decoder = unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewDecoder()
	} else if record.Platform == PlatformMacintosh && record.Encoding == EncodingMacintoshRoman {
		decoder = charmap.Macintosh.NewDecoder()
	}
	if decoder == nil {
		return string(record.Value)
	}
	s, _, err := transform.String(decoder, string(record.Value))
	if err == nil {
		return s
	}
	return string(record.Value)
}

func validUTF16BE(b []byte) bool {
	for i := 0; i+1 < len(b); i += 2 {
		c := uint16(b[i])<<8 | uint16(b[i+1])
		if 0xDC00 <= c && c <= 0xDFFF {
			return false // low surrogate without high surrogate
		} else if 0xD800 <= c && c <= 0xDBFF {
			i += 2
			if len(b) <= i+1 {
				return false
			}
			c2 := uint16(b[i])<<8 | uint16(b[i+1])
			if c2 < 0xDC00 || 0xDFFF < c2 {
				return false
			}
		}
	}
	return true
}

type nameTable struct {
	Records []NameRecord
	LangTag [][]byte
}

// Get returns all records with the given name ID.
func (t *nameTable) Get(name NameID) []NameRecord {
	records := []NameRecord{}
	for _, record := range t.Records {
		if record.Name == name {
			records = append(records, record)
		}
	}
	return records
}

func (sfnt *Font) parseName() error {
	b := sfnt.Tables["name"]
	if len(b) < 6 {
		return fmt.Errorf("name: bad table")
	}

	sfnt.Name = &nameTable{}
	r := parse.NewBinaryReader(b)
	version := r.ReadUint16()
	if version != 0 && version != 1 {
		return fmt.Errorf("name: bad version")
	}
	count := r.ReadUint16()
	storageOffset := uint32(r.ReadUint16())
	if uint32(len(b)) < 6+12*uint32(count) || uint32(len(b)) < storageOffset {
		return fmt.Errorf("name: bad table")
	}
	storage := b[storageOffset:]

	sfnt.Name.Records = make([]NameRecord, 0, count)
	for i := 0; i < int(count); i++ {
		record := NameRecord{}
		record.Platform = PlatformID(r.ReadUint16())
		record.Encoding = EncodingID(r.ReadUint16())
		record.Language = r.ReadUint16()
		record.Name = NameID(r.ReadUint16())

		length := uint32(r.ReadUint16())
		offset := uint32(r.ReadUint16())
		if uint32(len(storage)) < offset || uint32(len(storage))-offset < length {
			// skip the record, the others may still resolve
			sfnt.TableErrors = append(sfnt.TableErrors, fmt.Errorf("name: bad record %d", i))
			continue
		}
		record.Value = storage[offset : offset+length : offset+length]
		sfnt.Name.Records = append(sfnt.Name.Records, record)
	}
	if version == 1 {
		langTagCount := r.ReadUint16()
		if r.EOF() || r.Len() < 4*uint32(langTagCount) {
			return fmt.Errorf("name: bad table")
		}
		sfnt.Name.LangTag = make([][]byte, langTagCount)
		for i := 0; i < int(langTagCount); i++ {
			length := uint32(r.ReadUint16())
			offset := uint32(r.ReadUint16())
			if uint32(len(storage)) < offset || uint32(len(storage))-offset < length {
				return fmt.Errorf("name: bad language tag %d", i)
			}
			sfnt.Name.LangTag[i] = storage[offset : offset+length]
		}
	}
	return nil
}
