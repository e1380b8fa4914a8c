package entity

import (
	"testing"

	"github.com/stelpack/stelpack/errs"
	"github.com/stelpack/stelpack/format"
	"github.com/stretchr/testify/require"
)

func TestHeaderSize(t *testing.T) {
	cases := []struct {
		t    format.DataType
		raw  bool
		want int
	}{
		{format.TypeImagette, false, ImagetteHeaderSize},
		{format.TypeAdaptiveImagette, false, AdaptiveImagetteHeaderSize},
		{format.TypeSFx, false, NonImagetteHeaderSize},
		{format.TypeLFxEfxNcob, false, NonImagetteHeaderSize},
		{format.TypeImagette, true, RawHeaderSize},
		{format.TypeLFx, true, RawHeaderSize},
	}

	for _, tc := range cases {
		got, err := HeaderSize(tc.t, tc.raw)
		require.NoError(t, err)
		require.Equal(t, tc.want, got, "type %v raw %v", tc.t, tc.raw)
	}

	_, err := HeaderSize(format.TypeUnknown, false)
	require.ErrorIs(t, err, errs.ErrUnsupportedType)
}

func TestEntity_GenericFieldRoundTrip(t *testing.T) {
	e := Entity(make([]byte, GenericHeaderSize))

	require.NoError(t, e.SetVersionID(0x0102))
	require.NoError(t, e.SetEntitySize(0xABCDEF))
	require.NoError(t, e.SetOriginalSize(0x123456))
	require.NoError(t, e.SetStartTimestamp(0x0000FEDCBA9876))
	require.NoError(t, e.SetEndTimestamp(0x0000FEDCBA9877))
	require.NoError(t, e.SetDataType(format.TypeSFxEfx, false))
	require.NoError(t, e.SetMode(format.ModeModelMulti))
	require.NoError(t, e.SetModelWeight(8))
	require.NoError(t, e.SetModelID(0xBEEF))
	require.NoError(t, e.SetModelCounter(3))
	require.NoError(t, e.SetMaxBitsVersion(1))
	require.NoError(t, e.SetLossyPar(2))

	require.Equal(t, uint16(0x0102), e.VersionID())
	require.Equal(t, uint32(0xABCDEF), e.EntitySize())
	require.Equal(t, uint32(0x123456), e.OriginalSize())
	require.Equal(t, uint64(0x0000FEDCBA9876), e.StartTimestamp())
	require.Equal(t, uint64(0x0000FEDCBA9877), e.EndTimestamp())

	dt, raw := e.DataType()
	require.Equal(t, format.TypeSFxEfx, dt)
	require.False(t, raw)

	require.Equal(t, format.ModeModelMulti, e.Mode())
	require.Equal(t, uint8(8), e.ModelWeight())
	require.Equal(t, uint16(0xBEEF), e.ModelID())
	require.Equal(t, uint8(3), e.ModelCounter())
	require.Equal(t, uint8(1), e.MaxBitsVersion())
	require.Equal(t, uint16(2), e.LossyPar())
}

func TestEntity_SizeFieldRange(t *testing.T) {
	e := Entity(make([]byte, GenericHeaderSize))

	// 0xFFFFFF is the last representable value, 0x1000000 must be rejected
	require.NoError(t, e.SetEntitySize(MaxSize))
	require.Equal(t, uint32(MaxSize), e.EntitySize())
	require.ErrorIs(t, e.SetEntitySize(MaxSize+1), errs.ErrParamInvalid)

	require.NoError(t, e.SetOriginalSize(MaxSize))
	require.ErrorIs(t, e.SetOriginalSize(MaxSize+1), errs.ErrParamInvalid)
}

func TestEntity_TimestampRange(t *testing.T) {
	e := Entity(make([]byte, GenericHeaderSize))

	require.NoError(t, e.SetStartTimestamp(MaxTimestamp))
	require.ErrorIs(t, e.SetStartTimestamp(MaxTimestamp+1), errs.ErrTimestampRange)
	require.ErrorIs(t, e.SetEndTimestamp(uint64(1)<<63), errs.ErrTimestampRange)
}

func TestEntity_RawFlag(t *testing.T) {
	e := Entity(make([]byte, GenericHeaderSize))

	require.NoError(t, e.SetDataType(format.TypeBackground, true))
	dt, raw := e.DataType()
	require.Equal(t, format.TypeBackground, dt)
	require.True(t, raw)

	// the flag lives in bit 15 of the 16-bit type field
	require.Equal(t, byte(0x80), e[offDataType])
	require.Equal(t, byte(format.TypeBackground), e[offDataType+1])
}

func TestEntity_NilAndShortBuffers(t *testing.T) {
	var nilEnt Entity
	require.ErrorIs(t, nilEnt.SetVersionID(1), errs.ErrEntityNil)

	short := Entity(make([]byte, 10))
	require.ErrorIs(t, short.SetLossyPar(1), errs.ErrEntityTooSmall)
	require.ErrorIs(t, short.SetEndTimestamp(1), errs.ErrEntityTooSmall)
}

func TestEntity_BigEndianLayout(t *testing.T) {
	e := Entity(make([]byte, GenericHeaderSize))

	require.NoError(t, e.SetEntitySize(0x010203))
	require.Equal(t, []byte{0x01, 0x02, 0x03}, []byte(e[offEntitySize:offEntitySize+3]))

	require.NoError(t, e.SetStartTimestamp(0x010203040506))
	require.Equal(t, []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06},
		[]byte(e[offStartTimestamp:offStartTimestamp+6]))
}

func TestSetModelIDAndCounter(t *testing.T) {
	buf := make([]byte, GenericHeaderSize)
	require.NoError(t, SetModelIDAndCounter(buf, 0xCAFE, 7))

	e := Entity(buf)
	require.Equal(t, uint16(0xCAFE), e.ModelID())
	require.Equal(t, uint8(7), e.ModelCounter())

	require.ErrorIs(t, SetModelIDAndCounter(nil, 1, 1), errs.ErrEntityNil)
	require.ErrorIs(t, SetModelIDAndCounter(make([]byte, 29), 1, 1), errs.ErrEntityTooSmall)
}
