package record

import (
	"github.com/stelpack/stelpack/endian"
	"github.com/stelpack/stelpack/errs"
	"github.com/stelpack/stelpack/format"
)

// ParamSlot identifies the compression parameter pair a field is coded with.
// Imagette records use the dedicated imagette slot; non-imagette record
// fields share the six slots recorded in the non-imagette entity header.
type ParamSlot uint8

const (
	SlotImagette ParamSlot = iota // imagette pixels
	SlotFlags                     // exposure flags
	SlotFlux                      // flux and statistic means
	SlotCob                       // normal center of brightness X/Y
	SlotEFlux                     // extended flux
	SlotEcob                      // extended center of brightness X/Y
	SlotVariance                  // variance and outlier-count fields

	// NumSlots is the total number of parameter slots.
	NumSlots = 7

	// NumNonImagetteSlots is the number of slots recorded in a non-imagette
	// entity header (all slots except the imagette one).
	NumNonImagetteSlots = 6
)

// Field describes one sub-field of a record: its stored size, the parameter
// slot it is coded with, and the registry entry bounding its used bits.
type Field struct {
	Bytes int       // stored size in bytes, 1..4
	Slot  ParamSlot // compression parameter pair
	Width WidthKind // maximum-bits registry entry
}

// Layout is the fixed shape of one record type. Field order is the coding
// order and must match between encode and decode.
type Layout struct {
	Fields []Field
	Size   int // record size in bytes
}

func makeLayout(fields ...Field) Layout {
	size := 0
	for _, f := range fields {
		size += f.Bytes
	}

	return Layout{Fields: fields, Size: size}
}

var layouts = map[format.DataType]Layout{
	format.TypeImagette: makeLayout(
		Field{2, SlotImagette, WidthPixel},
	),
	format.TypeAdaptiveImagette: makeLayout(
		Field{2, SlotImagette, WidthPixel},
	),
	format.TypeOffset: makeLayout(
		Field{4, SlotFlux, WidthMean},
		Field{4, SlotVariance, WidthVariance},
	),
	format.TypeBackground: makeLayout(
		Field{4, SlotFlux, WidthMean},
		Field{4, SlotVariance, WidthVariance},
		Field{2, SlotVariance, WidthOutlierPixels},
	),
	format.TypeSmearing: makeLayout(
		Field{4, SlotFlux, WidthMean},
		Field{2, SlotVariance, WidthSmearingVariance},
		Field{2, SlotVariance, WidthOutlierPixels},
	),
	format.TypeSFx: makeLayout(
		Field{1, SlotFlags, WidthSExpFlags},
		Field{4, SlotFlux, WidthFx},
	),
	format.TypeSFxEfx: makeLayout(
		Field{1, SlotFlags, WidthSExpFlags},
		Field{4, SlotFlux, WidthFx},
		Field{4, SlotEFlux, WidthEfx},
	),
	format.TypeSFxNcob: makeLayout(
		Field{1, SlotFlags, WidthSExpFlags},
		Field{4, SlotFlux, WidthFx},
		Field{4, SlotCob, WidthNcob},
		Field{4, SlotCob, WidthNcob},
	),
	format.TypeSFxEfxNcob: makeLayout(
		Field{1, SlotFlags, WidthSExpFlags},
		Field{4, SlotFlux, WidthFx},
		Field{4, SlotCob, WidthNcob},
		Field{4, SlotCob, WidthNcob},
		Field{4, SlotEFlux, WidthEfx},
		Field{4, SlotEcob, WidthEcob},
		Field{4, SlotEcob, WidthEcob},
	),
	format.TypeFFx: makeLayout(
		Field{4, SlotFlux, WidthFx},
	),
	format.TypeFFxEfx: makeLayout(
		Field{4, SlotFlux, WidthFx},
		Field{4, SlotEFlux, WidthEfx},
	),
	format.TypeFFxNcob: makeLayout(
		Field{4, SlotFlux, WidthFx},
		Field{4, SlotCob, WidthNcob},
		Field{4, SlotCob, WidthNcob},
	),
	format.TypeFFxEfxNcob: makeLayout(
		Field{4, SlotFlux, WidthFx},
		Field{4, SlotCob, WidthNcob},
		Field{4, SlotCob, WidthNcob},
		Field{4, SlotEFlux, WidthEfx},
		Field{4, SlotEcob, WidthEcob},
		Field{4, SlotEcob, WidthEcob},
	),
	format.TypeLFx: makeLayout(
		Field{3, SlotFlags, WidthLExpFlags},
		Field{4, SlotFlux, WidthFx},
		Field{4, SlotVariance, WidthFxVariance},
	),
	format.TypeLFxEfx: makeLayout(
		Field{3, SlotFlags, WidthLExpFlags},
		Field{4, SlotFlux, WidthFx},
		Field{4, SlotEFlux, WidthEfx},
		Field{4, SlotVariance, WidthFxVariance},
	),
	format.TypeLFxNcob: makeLayout(
		Field{3, SlotFlags, WidthLExpFlags},
		Field{4, SlotFlux, WidthFx},
		Field{4, SlotCob, WidthNcob},
		Field{4, SlotCob, WidthNcob},
		Field{4, SlotVariance, WidthFxVariance},
		Field{4, SlotVariance, WidthCobVariance},
		Field{4, SlotVariance, WidthCobVariance},
	),
	format.TypeLFxEfxNcob: makeLayout(
		Field{3, SlotFlags, WidthLExpFlags},
		Field{4, SlotFlux, WidthFx},
		Field{4, SlotCob, WidthNcob},
		Field{4, SlotCob, WidthNcob},
		Field{4, SlotEFlux, WidthEfx},
		Field{4, SlotEcob, WidthEcob},
		Field{4, SlotEcob, WidthEcob},
		Field{4, SlotVariance, WidthFxVariance},
		Field{4, SlotVariance, WidthCobVariance},
		Field{4, SlotVariance, WidthCobVariance},
	),
}

// LayoutFor returns the record layout of a data type.
func LayoutFor(t format.DataType) (Layout, error) {
	l, ok := layouts[t]
	if !ok {
		return Layout{}, errs.ErrUnsupportedType
	}

	return l, nil
}

// GetField reads one big-endian field of 1..4 bytes starting at b[off].
func GetField(b []byte, off int, size int) uint32 {
	be := endian.GetBigEndianEngine()
	switch size {
	case 1:
		return uint32(b[off])
	case 2:
		return uint32(be.Uint16(b[off : off+2]))
	case 3:
		return uint32(b[off])<<16 | uint32(be.Uint16(b[off+1:off+3]))
	default:
		return be.Uint32(b[off : off+4])
	}
}

// PutField writes one big-endian field of 1..4 bytes starting at b[off].
func PutField(b []byte, off int, size int, v uint32) {
	be := endian.GetBigEndianEngine()
	switch size {
	case 1:
		b[off] = byte(v)
	case 2:
		be.PutUint16(b[off:off+2], uint16(v))
	case 3:
		b[off] = byte(v >> 16)
		be.PutUint16(b[off+1:off+3], uint16(v))
	default:
		be.PutUint32(b[off:off+4], v)
	}
}
