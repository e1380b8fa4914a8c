package golomb

import (
	"math/bits"

	"github.com/stelpack/stelpack/bitstream"
	"github.com/stelpack/stelpack/errs"
)

// Escape couples a Coder with a spillover threshold and one of the two
// outlier mechanisms, forming the complete per-field entropy codec.
//
// Zero escape reserves the code value 0: every in-range value is incremented
// by one before plain coding, and values at or above the spillover threshold
// are written as the code word for 0 followed by the incremented value in
// maxBits raw bits. The increment may wrap at the field width; the decoder
// reverses the wrap.
//
// Multi escape encodes in-range values directly. A value v at or above the
// spillover threshold spill is written as the escape symbol spill+k followed
// by v-spill in 2*(k+1) raw bits, with k chosen as the smallest index whose
// raw field holds v-spill. The escape length grows logarithmically with the
// outlier magnitude instead of using one giant fixed-width field.
type Escape struct {
	coder   Coder
	spill   uint32
	maxBits uint32 // field width in bits, 1..32
	multi   bool
}

// NewEscape builds the per-field codec for Golomb parameter m, spillover
// threshold spill, field width maxBits and the selected mechanism.
//
// The parameter pair must bound the legally encodable range: violating the
// bound is a configuration error reported here, not a runtime one.
func NewEscape(m, spill, maxBits uint32, multi bool) (Escape, error) {
	c, err := NewCoder(m)
	if err != nil {
		return Escape{}, err
	}
	if maxBits < 1 || maxBits > 32 {
		return Escape{}, errs.ErrParamSpecific
	}

	var maxSpill uint32
	if multi {
		maxSpill = MaxSpillMulti(m)
	} else {
		maxSpill = MaxSpillZero(m)
	}
	if spill < 1 || spill > maxSpill {
		return Escape{}, errs.ErrParamSpecific
	}

	return Escape{coder: c, spill: spill, maxBits: maxBits, multi: multi}, nil
}

// mask returns the bit mask of the field width.
func (e Escape) mask() uint32 {
	if e.maxBits >= 32 {
		return ^uint32(0)
	}

	return (1 << e.maxBits) - 1
}

// Encode writes the mapped (non-negative) value to w.
func (e Escape) Encode(w *bitstream.Writer, value uint32) error {
	if value > e.mask() {
		return errs.ErrValueTooLarge
	}
	if e.multi {
		return e.encodeMulti(w, value)
	}

	return e.encodeZero(w, value)
}

// Decode reads one mapped value from rd.
func (e Escape) Decode(rd *bitstream.Reader) (uint32, error) {
	if e.multi {
		return e.decodeMulti(rd)
	}

	return e.decodeZero(rd)
}

func (e Escape) encodeZero(w *bitstream.Writer, value uint32) error {
	if value < e.spill {
		return e.coder.Encode(w, value+1)
	}

	// escape marker, then the incremented value in raw form; the increment
	// wraps inside the field width
	if err := e.coder.Encode(w, 0); err != nil {
		return err
	}

	return w.Put32((value+1)&e.mask(), int(e.maxBits))
}

func (e Escape) decodeZero(rd *bitstream.Reader) (uint32, error) {
	g, err := e.coder.Decode(rd)
	if err != nil {
		return 0, err
	}
	if g != 0 {
		return g - 1, nil
	}

	raw, err := rd.Read32(int(e.maxBits))
	if err != nil {
		return 0, err
	}
	value := (raw - 1) & e.mask() // raw == 0 wraps to the field maximum

	// an escaped value below the threshold would have been coded in-range;
	// accepting it would make the encoding ambiguous
	if value < e.spill {
		return 0, errs.ErrDecoderCorruption
	}

	return value, nil
}

func (e Escape) encodeMulti(w *bitstream.Writer, value uint32) error {
	if value < e.spill {
		return e.coder.Encode(w, value)
	}

	delta := value - e.spill
	n := bits.Len32(delta)
	n += n & 1 // raw field lengths grow in steps of two bits
	if n < 2 {
		n = 2
	}
	k := uint32(n/2 - 1)

	if err := e.coder.Encode(w, e.spill+k); err != nil {
		return err
	}

	return w.Put32(delta, n)
}

func (e Escape) decodeMulti(rd *bitstream.Reader) (uint32, error) {
	g, err := e.coder.Decode(rd)
	if err != nil {
		return 0, err
	}
	if g < e.spill {
		return g, nil
	}

	k := g - e.spill
	n := int(2 * (k + 1))
	if n > 32 {
		return 0, errs.ErrDecoderCorruption
	}

	delta, err := rd.Read32(n)
	if err != nil {
		return 0, err
	}

	// a delta whose top two bits are zero fits a shorter escape index; the
	// encoder never produces that, so it marks corruption
	if k > 0 && delta>>(n-2) == 0 {
		return 0, errs.ErrDecoderCorruption
	}

	value := e.spill + delta
	if value < e.spill || value > e.mask() {
		return 0, errs.ErrDecoderCorruption
	}

	return value, nil
}
