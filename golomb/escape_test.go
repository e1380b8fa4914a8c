package golomb

import (
	"testing"

	"github.com/stelpack/stelpack/bitstream"
	"github.com/stelpack/stelpack/errs"
	"github.com/stretchr/testify/require"
)

func TestNewEscape(t *testing.T) {
	t.Run("rejects invalid field width", func(t *testing.T) {
		_, err := NewEscape(4, 10, 0, false)
		require.ErrorIs(t, err, errs.ErrParamSpecific)

		_, err = NewEscape(4, 10, 33, false)
		require.ErrorIs(t, err, errs.ErrParamSpecific)
	})

	t.Run("rejects spillover outside the encodable range", func(t *testing.T) {
		_, err := NewEscape(4, 0, 16, false)
		require.ErrorIs(t, err, errs.ErrParamSpecific)

		_, err = NewEscape(4, MaxSpillZero(4)+1, 16, false)
		require.ErrorIs(t, err, errs.ErrParamSpecific)

		_, err = NewEscape(4, MaxSpillMulti(4)+1, 16, true)
		require.ErrorIs(t, err, errs.ErrParamSpecific)
	})

	t.Run("accepts spillover bounds", func(t *testing.T) {
		_, err := NewEscape(4, MaxSpillZero(4), 16, false)
		require.NoError(t, err)

		_, err = NewEscape(4, MaxSpillMulti(4), 16, true)
		require.NoError(t, err)
	})
}

func roundTripEscape(t *testing.T, e Escape, values []uint32) {
	t.Helper()

	dst := make([]byte, 4096)
	w := bitstream.NewWriter(dst)
	for _, v := range values {
		require.NoError(t, e.Encode(w, v))
	}
	size := w.Flush()

	r := bitstream.NewReader(dst[:size])
	for _, v := range values {
		got, err := e.Decode(r)
		require.NoError(t, err, "value %d", v)
		require.Equal(t, v, got)
	}
}

func TestEscape_ZeroRoundTrip(t *testing.T) {
	e, err := NewEscape(4, 20, 16, false)
	require.NoError(t, err)

	values := []uint32{0, 1, 5, 19, 20, 21, 100, 0xFFFE, 0xFFFF}
	roundTripEscape(t, e, values)
}

func TestEscape_ZeroFullWidthWraparound(t *testing.T) {
	// 32-bit field: the escaped increment of 0xFFFFFFFF wraps to raw 0 and
	// the decoder must wrap it back
	e, err := NewEscape(1, 8, 32, false)
	require.NoError(t, err)

	roundTripEscape(t, e, []uint32{0xFFFFFFFF, 0xFFFFFFFE, 8, 7})
}

func TestEscape_ZeroEscapedCodeForm(t *testing.T) {
	// m=1, spill=8, width 16: value 9 escapes as golomb(0)="0" then
	// (9+1)=10 in 16 raw bits
	e, err := NewEscape(1, 8, 16, false)
	require.NoError(t, err)

	dst := make([]byte, 8)
	w := bitstream.NewWriter(dst)
	require.NoError(t, e.Encode(w, 9))
	require.Equal(t, 17, w.BitsWritten())
	w.Flush()

	r := bitstream.NewReader(dst)
	g, err := r.Read32(1)
	require.NoError(t, err)
	require.Equal(t, uint32(0), g)
	raw, err := r.Read32(16)
	require.NoError(t, err)
	require.Equal(t, uint32(10), raw)
}

func TestEscape_ZeroRejectsAmbiguousEscape(t *testing.T) {
	// an escaped value below the spillover threshold marks corruption
	e, err := NewEscape(1, 8, 16, false)
	require.NoError(t, err)

	dst := make([]byte, 8)
	w := bitstream.NewWriter(dst)
	require.NoError(t, w.Put32(0, 1))  // escape marker
	require.NoError(t, w.Put32(4, 16)) // raw 4 -> value 3 < spill
	w.Flush()

	_, err = e.Decode(bitstream.NewReader(dst))
	require.ErrorIs(t, err, errs.ErrDecoderCorruption)
}

func TestEscape_MultiRoundTrip(t *testing.T) {
	e, err := NewEscape(4, 16, 32, true)
	require.NoError(t, err)

	values := []uint32{
		0, 1, 15, // in range
		16, 17, 19, // delta fits 2 bits
		16 + 4, 16 + 15, // 4-bit deltas
		16 + 0xFFFF, 16 + 0x10000, // 16- and 18-bit deltas
		0xFFFFFFFF, // maximum 32-bit delta field
	}
	roundTripEscape(t, e, values)
}

func TestEscape_MultiEscapedCodeForm(t *testing.T) {
	// spill=16, value 16+5: delta=5 needs 3 bits, rounded up to 4 -> k=1,
	// escape symbol 17, then delta in 4 raw bits
	e, err := NewEscape(4, 16, 32, true)
	require.NoError(t, err)

	c, err := NewCoder(4)
	require.NoError(t, err)

	dst := make([]byte, 8)
	w := bitstream.NewWriter(dst)
	require.NoError(t, e.Encode(w, 21))
	w.Flush()

	r := bitstream.NewReader(dst)
	sym, err := c.Decode(r)
	require.NoError(t, err)
	require.Equal(t, uint32(17), sym)
	delta, err := r.Read32(4)
	require.NoError(t, err)
	require.Equal(t, uint32(5), delta)
}

func TestEscape_MultiRejectsDoubleEncoding(t *testing.T) {
	// a delta whose top two bits are zero fits a shorter escape index
	e, err := NewEscape(4, 16, 32, true)
	require.NoError(t, err)

	c, err := NewCoder(4)
	require.NoError(t, err)

	dst := make([]byte, 8)
	w := bitstream.NewWriter(dst)
	require.NoError(t, c.Encode(w, 17))  // k=1: 4-bit delta field
	require.NoError(t, w.Put32(1, 4)) // delta 1 belongs to k=0
	w.Flush()

	_, err = e.Decode(bitstream.NewReader(dst))
	require.ErrorIs(t, err, errs.ErrDecoderCorruption)
}

func TestEscape_MultiRejectsOversizedRawField(t *testing.T) {
	// escape symbol spill+16 implies a 34-bit raw field, which the format
	// never produces
	e, err := NewEscape(4, 16, 32, true)
	require.NoError(t, err)

	c, err := NewCoder(4)
	require.NoError(t, err)

	dst := make([]byte, 16)
	w := bitstream.NewWriter(dst)
	require.NoError(t, c.Encode(w, 16+16))
	require.NoError(t, w.Put32(0xFFFFFFFF, 32))
	w.Flush()

	_, err = e.Decode(bitstream.NewReader(dst))
	require.ErrorIs(t, err, errs.ErrDecoderCorruption)
}

func TestEscape_MultiRejectsWidthOverflow(t *testing.T) {
	// 16-bit field: an escaped value above 0xFFFF marks corruption
	e, err := NewEscape(4, 16, 16, true)
	require.NoError(t, err)

	c, err := NewCoder(4)
	require.NoError(t, err)

	dst := make([]byte, 16)
	w := bitstream.NewWriter(dst)
	require.NoError(t, c.Encode(w, 16+8)) // k=8: 18-bit delta field
	require.NoError(t, w.Put32(0x30000, 18))
	w.Flush()

	_, err = e.Decode(bitstream.NewReader(dst))
	require.ErrorIs(t, err, errs.ErrDecoderCorruption)
}

func TestEscape_RejectsValueAboveWidth(t *testing.T) {
	e, err := NewEscape(4, 20, 16, false)
	require.NoError(t, err)

	w := bitstream.NewWriter(make([]byte, 8))
	require.ErrorIs(t, e.Encode(w, 0x10000), errs.ErrValueTooLarge)
}

func TestEscape_InvertibilitySweep(t *testing.T) {
	configs := []struct {
		m, spill, width uint32
		multi           bool
	}{
		{1, 8, 16, false},
		{2, 10, 12, false},
		{3, 30, 16, false},
		{8, 60, 16, false},
		{4, 16, 20, true},
		{7, 50, 24, true},
	}

	for _, cfg := range configs {
		e, err := NewEscape(cfg.m, cfg.spill, cfg.width, cfg.multi)
		require.NoError(t, err)

		mask := uint32(1)<<cfg.width - 1
		var values []uint32
		for v := uint32(0); v < 300 && v <= mask; v++ {
			values = append(values, v)
		}
		values = append(values, mask-1, mask)

		roundTripEscape(t, e, values)
	}
}
