// Package golomb implements Golomb and Rice entropy coding with the two
// outlier escape mechanisms used by the stelpack bitstream.
//
// A code word is a unary quotient prefix (a run of one bits terminated by a
// zero bit) followed by a binary remainder. When the Golomb parameter m is a
// power of two the remainder is simply the low log2(m) bits (the Rice form);
// otherwise the remainder uses the general two-group Golomb encoding with a
// cutoff of 2^(log2(m)+1) - m.
//
// Only code words up to 32 bits are ever written. A decoded code word whose
// length would exceed 32 bits therefore signals corruption, never a valid
// value.
package golomb

import (
	"math/bits"

	"github.com/stelpack/stelpack/bitstream"
	"github.com/stelpack/stelpack/errs"
)

// MaxCodeWordLen is the longest code word the stream format permits.
const MaxCodeWordLen = 32

// hwCodeWordLen is the code word limit of the fixed-function hardware
// compressor; its parameter range derives from this closed limitation.
const hwCodeWordLen = 16

// MaxParam is the largest legal Golomb parameter.
const MaxParam = 0xFFFF

// Coder holds the precomputed state for one Golomb parameter.
type Coder struct {
	m      uint32 // Golomb parameter, 1..MaxParam
	log2m  uint32 // floor(log2(m))
	cutoff uint32 // 2^(log2m+1) - m; equals m when m is a power of two
	rice   bool   // m is a power of two
}

// NewCoder creates a Coder for Golomb parameter m (1..65535).
func NewCoder(m uint32) (Coder, error) {
	if m < 1 || m > MaxParam {
		return Coder{}, errs.ErrParamSpecific
	}

	log2m := uint32(bits.Len32(m) - 1)

	return Coder{
		m:      m,
		log2m:  log2m,
		cutoff: (2 << log2m) - m,
		rice:   m&(m-1) == 0,
	}, nil
}

// CodeLen returns the length in bits of the code word for value, without
// encoding it. Lengths above MaxCodeWordLen are unencodable.
func (c Coder) CodeLen(value uint32) int {
	q := value / c.m
	n := int(q) + 1 + int(c.log2m)
	if !c.rice && value-q*c.m >= c.cutoff {
		n++
	}

	return n
}

// Encode writes the code word for value to w.
//
// Values whose code word would exceed 32 bits are a configuration error: the
// caller's spillover threshold must route them through an escape mechanism
// before they reach the plain coder.
func (c Coder) Encode(w *bitstream.Writer, value uint32) error {
	q := value / c.m
	r := value - q*c.m

	rbits := int(c.log2m)
	if !c.rice {
		if r < c.cutoff {
			// remainder group 1
		} else {
			r += c.cutoff
			rbits++
		}
	}

	n := int(q) + 1 + rbits
	if n > MaxCodeWordLen {
		return errs.ErrParamSpecific
	}

	// unary quotient: q ones then a zero, packed with the remainder into one
	// code word of n bits
	cw := ((uint32(1) << q) - 1) << 1
	if rbits > 0 {
		cw = cw<<rbits | r
	}

	return w.Put32(cw, n)
}

// Decode reads one code word from r and returns its value.
func (c Coder) Decode(rd *bitstream.Reader) (uint32, error) {
	// Count the unary prefix. The longest legal prefix leaves room for the
	// terminating zero and the remainder inside 32 bits.
	peek := rd.Peek32(MaxCodeWordLen)
	q := uint32(bits.LeadingZeros32(^peek))

	if int(q)+1+int(c.log2m) > MaxCodeWordLen {
		return 0, errs.ErrDecoderCorruption
	}
	if err := rd.Skip(int(q) + 1); err != nil {
		return 0, err
	}

	r := uint32(0)
	if c.log2m > 0 {
		v, err := rd.Read32(int(c.log2m))
		if err != nil {
			return 0, err
		}
		r = v
	}

	if !c.rice {
		if r >= c.cutoff {
			if int(q)+2+int(c.log2m) > MaxCodeWordLen {
				return 0, errs.ErrDecoderCorruption
			}
			bit, err := rd.Read32(1)
			if err != nil {
				return 0, err
			}
			r = r<<1 | bit
			r -= c.cutoff
		}
		if r >= c.m {
			return 0, errs.ErrDecoderCorruption
		}
	}

	return q*c.m + r, nil
}

// maxEncodableValue returns the largest value whose code word fits in
// maxLen bits for parameter m.
func maxEncodableValue(m uint32, maxLen uint32) uint32 {
	if m < 1 || m > MaxParam {
		return 0
	}

	log2m := uint32(bits.Len32(m) - 1)
	rbits := log2m
	if m&(m-1) != 0 {
		rbits++ // worst-case remainder group 2
	}
	if maxLen < rbits+1 {
		return 0
	}

	maxQ := maxLen - 1 - rbits

	return maxQ*m + m - 1
}

// MaxSpillZero returns the largest legal zero-escape spillover threshold for
// parameter m. The threshold itself must be encodable because the largest
// in-range residual spill-1 is encoded as spill after the increment.
func MaxSpillZero(m uint32) uint32 {
	return maxEncodableValue(m, MaxCodeWordLen)
}

// MaxSpillMulti returns the largest legal multi-escape spillover threshold
// for parameter m. The largest escape symbol spill+15 must remain encodable.
func MaxSpillMulti(m uint32) uint32 {
	v := maxEncodableValue(m, MaxCodeWordLen)
	if v < 15 {
		return 0
	}

	return v - 15
}

// MaxSpillHW returns the largest spillover threshold accepted by the
// fixed-function hardware compressor, whose code words are limited to 16
// bits. The registry treats this as a versioned constant; it is derived here
// only for the adaptive parameter sets recorded in adaptive imagette
// entities.
func MaxSpillHW(m uint32) uint32 {
	return maxEncodableValue(m, hwCodeWordLen)
}
