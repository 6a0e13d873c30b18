package sfnt

import (
	"fmt"

	"github.com/tdewolff/parse/v2"
)

// VariationAxis is a design axis of a variable font, such as weight (wght) or width (wdth).
type VariationAxis struct {
	Tag      string
	MinValue float32
	DefValue float32
	MaxValue float32
}

type fvarTable struct {
	Axes []VariationAxis
}

func (sfnt *Font) parseFvar() error {
	b := sfnt.Tables["fvar"]
	if len(b) < 16 {
		return fmt.Errorf("fvar: bad table")
	}

	sfnt.Fvar = &fvarTable{}
	r := parse.NewBinaryReader(b)
	majorVersion := r.ReadUint16()
	_ = r.ReadUint16() // minorVersion
	if majorVersion != 1 {
		return fmt.Errorf("fvar: bad version")
	}
	axesArrayOffset := uint32(r.ReadUint16())
	_ = r.ReadUint16() // reserved
	axisCount := uint32(r.ReadUint16())
	axisSize := uint32(r.ReadUint16())
	_ = r.ReadUint16() // instanceCount
	_ = r.ReadUint16() // instanceSize
	if axisSize != 20 {
		return fmt.Errorf("fvar: bad axis size")
	} else if uint32(len(b)) < axesArrayOffset || (uint32(len(b))-axesArrayOffset)/axisSize < axisCount {
		return fmt.Errorf("fvar: bad table")
	}

	r = parse.NewBinaryReader(b[axesArrayOffset:])
	sfnt.Fvar.Axes = make([]VariationAxis, axisCount)
	for i := range sfnt.Fvar.Axes {
		axis := &sfnt.Fvar.Axes[i]
		axis.Tag = string(r.ReadBytes(4))
		axis.MinValue = fixedToFloat32(r.ReadUint32())
		axis.DefValue = fixedToFloat32(r.ReadUint32())
		axis.MaxValue = fixedToFloat32(r.ReadUint32())
		_ = r.ReadUint16() // flags
		_ = r.ReadUint16() // axisNameID

		// the default is always within range
		if axis.DefValue < axis.MinValue {
			axis.MinValue = axis.DefValue
		}
		if axis.MaxValue < axis.DefValue {
			axis.MaxValue = axis.DefValue
		}
	}
	return nil
}
