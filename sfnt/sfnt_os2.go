package sfnt

import (
	"fmt"

	"github.com/tdewolff/parse/v2"
)

// Weight classes of OS/2.usWeightClass.
const (
	WeightThin       uint16 = 100
	WeightExtraLight uint16 = 200
	WeightLight      uint16 = 300
	WeightNormal     uint16 = 400
	WeightMedium     uint16 = 500
	WeightSemiBold   uint16 = 600
	WeightBold       uint16 = 700
	WeightExtraBold  uint16 = 800
	WeightBlack      uint16 = 900
)

// Width classes of OS/2.usWidthClass.
const (
	WidthUltraCondensed uint16 = 1 + iota
	WidthExtraCondensed
	WidthCondensed
	WidthSemiCondensed
	WidthNormal
	WidthSemiExpanded
	WidthExpanded
	WidthExtraExpanded
	WidthUltraExpanded
)

type os2Table struct {
	Version       uint16
	UsWeightClass uint16
	UsWidthClass  uint16
	FsSelection   uint16
}

func (sfnt *Font) parseOS2() error {
	b := sfnt.Tables["OS/2"]
	if len(b) < 68 {
		return fmt.Errorf("OS/2: bad table")
	}

	r := parse.NewBinaryReader(b)
	sfnt.OS2 = &os2Table{}
	sfnt.OS2.Version = r.ReadUint16()
	if 5 < sfnt.OS2.Version {
		return fmt.Errorf("OS/2: bad version")
	}
	_ = r.ReadInt16() // xAvgCharWidth
	sfnt.OS2.UsWeightClass = r.ReadUint16()
	sfnt.OS2.UsWidthClass = r.ReadUint16()
	_ = r.ReadBytes(54) // fsType up to achVendID
	sfnt.OS2.FsSelection = r.ReadUint16()
	return nil
}
