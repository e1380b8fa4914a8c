// Package transform maps signed prediction residuals into the unsigned code
// domain and back, and applies the lossy rounding used by the chunk codec.
//
// All operations work inside an explicit field width of 1..32 bits. Values
// are treated as width-bit twos-complement integers regardless of host
// representation; arithmetic wraps inside the width.
package transform

// Mask returns the bit mask covering a field width of 1..32 bits.
func Mask(width uint32) uint32 {
	if width >= 32 {
		return ^uint32(0)
	}

	return (1 << width) - 1
}

// MapToUnsigned maps a width-bit signed residual to the unsigned code domain:
// non-negative residuals map to 2*value, negative residuals to 2*|value|-1.
// The result always fits the same width.
func MapToUnsigned(residual, width uint32) uint32 {
	residual &= Mask(width)
	if residual>>(width-1) != 0 {
		// negative inside the width
		neg := (^residual + 1) & Mask(width)
		return neg<<1 - 1
	}

	return residual << 1
}

// UnmapToSigned inverts MapToUnsigned within the same field width.
func UnmapToSigned(mapped, width uint32) uint32 {
	if mapped&1 != 0 {
		return (^(mapped>>1 + 1) + 1) & Mask(width)
	}

	return mapped >> 1
}

// RoundFwd discards the low rounding bits of a value before prediction.
func RoundFwd(value, rounding uint32) uint32 {
	return value >> rounding
}

// RoundInv restores the magnitude of a rounded value. The discarded low bits
// come back as zeros; this is the lossy part of a lossy mode.
func RoundInv(value, rounding uint32) uint32 {
	return value << rounding
}

// ModelUpdateFunc computes the next model value from a decoded sample, the
// prior model, the chunk-wide model weight and the lossy rounding parameter.
//
// The function must be pure: the encoder and the decoder call it with
// identical inputs and require bit-identical outputs, once per field per
// sample whenever an updated-model buffer is requested. Its numeric formula
// is supplied by the caller, not by this package.
type ModelUpdateFunc func(decoded, model, weight, rounding uint32) uint32
