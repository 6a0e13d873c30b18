package sfnt

import (
	"encoding/binary"
	"fmt"
)

// Media types of the supported font formats.
const (
	MediaTypeTTF        = "font/truetype"
	MediaTypeOTF        = "font/opentype"
	MediaTypeCollection = "font/collection"
	MediaTypeWOFF       = "font/woff"
	MediaTypeWOFF2      = "font/woff2"
	MediaTypeEOT        = "application/vnd.ms-fontobject"
)

// MediaType returns the media type (MIME) of the font data, detected from its signature.
func MediaType(b []byte) (string, error) {
	if len(b) < 4 {
		return "", fmt.Errorf("empty font file")
	}
	tag := string(b[:4])
	switch {
	case tag == "wOFF":
		return MediaTypeWOFF, nil
	case tag == "wOF2":
		return MediaTypeWOFF2, nil
	case tag == "true" || binary.BigEndian.Uint32(b) == 0x00010000:
		return MediaTypeTTF, nil
	case tag == "OTTO":
		return MediaTypeOTF, nil
	case tag == "ttcf":
		return MediaTypeCollection, nil
	case 36 <= len(b) && b[34] == 0x4C && b[35] == 0x50: // EOT magic number in little-endian
		if version := binary.LittleEndian.Uint32(b[8:]); version == 0x00010000 || version == 0x00020001 || version == 0x00020002 {
			return MediaTypeEOT, nil
		}
	}
	return "", fmt.Errorf("unrecognized font file format")
}

// ToSFNT unwraps WOFF, WOFF2 and EOT font containers and returns the SFNT data (TTF, OTF, TTC or OTC). SFNT data is returned as-is.
func ToSFNT(b []byte) ([]byte, error) {
	mediatype, err := MediaType(b)
	if err != nil {
		return nil, err
	}

	switch mediatype {
	case MediaTypeTTF, MediaTypeOTF, MediaTypeCollection:
		return b, nil
	case MediaTypeWOFF:
		sfnt, err := ParseWOFF(b)
		if err != nil {
			return nil, fmt.Errorf("WOFF: %w", err)
		}
		return sfnt, nil
	case MediaTypeWOFF2:
		sfnt, err := ParseWOFF2(b)
		if err != nil {
			return nil, fmt.Errorf("WOFF2: %w", err)
		}
		return sfnt, nil
	default: // MediaTypeEOT
		sfnt, err := ParseEOT(b)
		if err != nil {
			return nil, fmt.Errorf("EOT: %w", err)
		}
		return sfnt, nil
	}
}
