package fontmeta

// Name identifiers used in Font.Names.
const (
	NameCopyright         uint16 = 0
	NameFamily            uint16 = 1
	NameSubfamily         uint16 = 2
	NameUniqueID          uint16 = 3
	NameFull              uint16 = 4
	NameVersion           uint16 = 5
	NamePostScript        uint16 = 6
	NameTypographicFamily uint16 = 16
)

// unusableFamily marks a font that must be left out when it is its family name.
const unusableFamily = "false"

// FilterNames decodes the Unicode name records and maps them by name ID. Records in other encodings or that are not valid UTF-16BE are ignored. When a name ID occurs more than once, the last record wins.
func FilterNames(records []NameRecord) map[uint16]string {
	names := map[uint16]string{}
	for _, record := range records {
		if s, ok := record.Decode(); ok {
			names[uint16(record.Name)] = s
		}
	}
	return names
}

// Usable returns false if a font has no names or if its family name is "false".
func Usable(names map[uint16]string) bool {
	if len(names) == 0 {
		return false
	}
	family, ok := names[NameFamily]
	return !ok || family != unusableFamily
}
