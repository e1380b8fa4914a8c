package record

import "github.com/stelpack/stelpack/errs"

// WidthKind names one entry of the maximum-bits registry.
type WidthKind uint8

const (
	WidthPixel WidthKind = iota
	WidthSExpFlags
	WidthLExpFlags
	WidthFx
	WidthEfx
	WidthNcob
	WidthEcob
	WidthMean
	WidthVariance
	WidthOutlierPixels
	WidthSmearingVariance
	WidthFxVariance
	WidthCobVariance

	numWidthKinds
)

// FieldWidths is one version of the maximum-bits registry: the number of bits
// actually used by each sub-field kind. The codec trusts these bounds without
// re-deriving them; data exceeding a declared width is a caller error.
type FieldWidths struct {
	Pixel            uint32
	SExpFlags        uint32
	LExpFlags        uint32
	Fx               uint32
	Efx              uint32
	Ncob             uint32
	Ecob             uint32
	Mean             uint32
	Variance         uint32
	OutlierPixels    uint32
	SmearingVariance uint32
	FxVariance       uint32
	CobVariance      uint32
}

// Bits returns the declared width of one field kind.
func (fw FieldWidths) Bits(k WidthKind) uint32 {
	switch k {
	case WidthPixel:
		return fw.Pixel
	case WidthSExpFlags:
		return fw.SExpFlags
	case WidthLExpFlags:
		return fw.LExpFlags
	case WidthFx:
		return fw.Fx
	case WidthEfx:
		return fw.Efx
	case WidthNcob:
		return fw.Ncob
	case WidthEcob:
		return fw.Ecob
	case WidthMean:
		return fw.Mean
	case WidthVariance:
		return fw.Variance
	case WidthOutlierPixels:
		return fw.OutlierPixels
	case WidthSmearingVariance:
		return fw.SmearingVariance
	case WidthFxVariance:
		return fw.FxVariance
	case WidthCobVariance:
		return fw.CobVariance
	default:
		return 0
	}
}

// MaxBitsFunc resolves a registry version to its width table. The registry is
// curated externally; the codec only reads it.
type MaxBitsFunc func(version uint8) (FieldWidths, error)

// widthsV1 uses the full stored field sizes. Later registry versions may
// narrow individual entries as instrument calibration settles.
var widthsV1 = FieldWidths{
	Pixel:            16,
	SExpFlags:        8,
	LExpFlags:        24,
	Fx:               32,
	Efx:              32,
	Ncob:             32,
	Ecob:             32,
	Mean:             32,
	Variance:         32,
	OutlierPixels:    16,
	SmearingVariance: 16,
	FxVariance:       32,
	CobVariance:      32,
}

// MaxBitsFor is the built-in registry lookup. Version 1 is the only version
// shipped with this module.
func MaxBitsFor(version uint8) (FieldWidths, error) {
	switch version {
	case 1:
		return widthsV1, nil
	default:
		return FieldWidths{}, errs.ErrParamInvalid
	}
}
