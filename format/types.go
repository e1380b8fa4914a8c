// Package format defines the public enumerations of the stelpack entity format.
package format

type (
	// CompressionMode selects how residuals are formed and how outliers escape
	// the Golomb code.
	CompressionMode uint8

	// DataType identifies the record shape carried by an entity or collection.
	DataType uint16
)

const (
	// ModeRaw stores records verbatim, byte order normalized to big-endian.
	ModeRaw CompressionMode = 0
	// ModeModelZero predicts from the caller model and uses the zero-escape mechanism.
	ModeModelZero CompressionMode = 1
	// ModeDiffZero predicts from the previous decoded sample and uses the zero-escape mechanism.
	ModeDiffZero CompressionMode = 2
	// ModeModelMulti predicts from the caller model and uses the multi-escape mechanism.
	ModeModelMulti CompressionMode = 3
	// ModeDiffMulti predicts from the previous decoded sample and uses the multi-escape mechanism.
	ModeDiffMulti CompressionMode = 4
)

const (
	TypeUnknown          DataType = 0
	TypeImagette         DataType = 1  // single 16-bit pixel per record
	TypeAdaptiveImagette DataType = 2  // imagette with adaptive parameter sets
	TypeOffset           DataType = 3  // offset mean/variance statistics
	TypeBackground       DataType = 4  // background mean/variance/outlier statistics
	TypeSmearing         DataType = 5  // smearing statistics
	TypeSFx              DataType = 6  // short cadence flux
	TypeSFxEfx           DataType = 7  // short cadence flux + extended flux
	TypeSFxNcob          DataType = 8  // short cadence flux + center of brightness
	TypeSFxEfxNcob       DataType = 9  // short cadence flux + extended flux + both centers
	TypeFFx              DataType = 10 // fast cadence flux
	TypeFFxEfx           DataType = 11
	TypeFFxNcob          DataType = 12
	TypeFFxEfxNcob       DataType = 13
	TypeLFx              DataType = 14 // long cadence flux (with variance fields)
	TypeLFxEfx           DataType = 15
	TypeLFxNcob          DataType = 16
	TypeLFxEfxNcob       DataType = 17
)

// RawFlag is the reserved top bit of the entity data-type field. When set, the
// entity payload is stored verbatim and only the generic header is present.
const RawFlag uint16 = 0x8000

// IsModel reports whether the mode predicts samples from a caller-supplied model.
func (m CompressionMode) IsModel() bool {
	return m == ModeModelZero || m == ModeModelMulti
}

// IsDiff reports whether the mode predicts samples from the previous decoded sample.
func (m CompressionMode) IsDiff() bool {
	return m == ModeDiffZero || m == ModeDiffMulti
}

// IsZeroEscape reports whether the mode uses the zero-escape outlier mechanism.
func (m CompressionMode) IsZeroEscape() bool {
	return m == ModeModelZero || m == ModeDiffZero
}

// IsMultiEscape reports whether the mode uses the multi-escape outlier mechanism.
func (m CompressionMode) IsMultiEscape() bool {
	return m == ModeModelMulti || m == ModeDiffMulti
}

// IsValid reports whether m is one of the defined compression modes.
func (m CompressionMode) IsValid() bool {
	return m <= ModeDiffMulti
}

func (m CompressionMode) String() string {
	switch m {
	case ModeRaw:
		return "Raw"
	case ModeModelZero:
		return "ModelZero"
	case ModeDiffZero:
		return "DiffZero"
	case ModeModelMulti:
		return "ModelMulti"
	case ModeDiffMulti:
		return "DiffMulti"
	default:
		return "Unknown"
	}
}

// IsValid reports whether t is one of the defined data types.
func (t DataType) IsValid() bool {
	return t >= TypeImagette && t <= TypeLFxEfxNcob
}

// IsImagette reports whether t carries 16-bit pixel records.
func (t DataType) IsImagette() bool {
	return t == TypeImagette || t == TypeAdaptiveImagette
}

func (t DataType) String() string {
	switch t {
	case TypeImagette:
		return "Imagette"
	case TypeAdaptiveImagette:
		return "AdaptiveImagette"
	case TypeOffset:
		return "Offset"
	case TypeBackground:
		return "Background"
	case TypeSmearing:
		return "Smearing"
	case TypeSFx:
		return "SFx"
	case TypeSFxEfx:
		return "SFxEfx"
	case TypeSFxNcob:
		return "SFxNcob"
	case TypeSFxEfxNcob:
		return "SFxEfxNcob"
	case TypeFFx:
		return "FFx"
	case TypeFFxEfx:
		return "FFxEfx"
	case TypeFFxNcob:
		return "FFxNcob"
	case TypeFFxEfxNcob:
		return "FFxEfxNcob"
	case TypeLFx:
		return "LFx"
	case TypeLFxEfx:
		return "LFxEfx"
	case TypeLFxNcob:
		return "LFxNcob"
	case TypeLFxEfxNcob:
		return "LFxEfxNcob"
	default:
		return "Unknown"
	}
}
