package record

import (
	"testing"

	"github.com/stelpack/stelpack/errs"
	"github.com/stelpack/stelpack/format"
	"github.com/stretchr/testify/require"
)

func TestCollectionHeader_RoundTrip(t *testing.T) {
	h := CollectionHeader{
		Timestamp:    0x123456789ABC,
		ConfigID:     0xCAFE,
		CollectionID: 0x8D42,
		DataLength:   4096,
	}

	buf := make([]byte, HeaderSize)
	require.NoError(t, h.PutHeader(buf))

	got, err := ParseHeader(buf)
	require.NoError(t, err)
	require.Equal(t, h, got)
}

func TestCollectionHeader_WireLayout(t *testing.T) {
	h := CollectionHeader{
		Timestamp:    0x010203040506,
		ConfigID:     0x0708,
		CollectionID: 0x090A,
		DataLength:   0x0B0C,
	}

	buf := make([]byte, HeaderSize)
	require.NoError(t, h.PutHeader(buf))
	require.Equal(t, []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, 0x09, 0x0A, 0x0B, 0x0C}, buf)
}

func TestCollectionHeader_TimestampRange(t *testing.T) {
	h := CollectionHeader{Timestamp: MaxTimestamp}
	require.NoError(t, h.PutHeader(make([]byte, HeaderSize)))

	h.Timestamp = MaxTimestamp + 1
	require.ErrorIs(t, h.PutHeader(make([]byte, HeaderSize)), errs.ErrTimestampRange)
}

func TestCollectionHeader_ShortBuffers(t *testing.T) {
	_, err := ParseHeader(make([]byte, HeaderSize-1))
	require.ErrorIs(t, err, errs.ErrChunkTooSmall)

	h := CollectionHeader{}
	require.ErrorIs(t, h.PutHeader(make([]byte, HeaderSize-1)), errs.ErrBufferTooSmall)
}

func TestCollectionID_BitFields(t *testing.T) {
	// packet-type:1 | subservice:6 | ccd-id:2 | sequence:7
	h := CollectionHeader{CollectionID: 1<<15 | 17<<9 | 2<<7 | 0x55}

	require.Equal(t, uint8(1), h.PacketType())
	require.Equal(t, uint8(17), h.Subservice())
	require.Equal(t, uint8(2), h.CCDID())
	require.Equal(t, uint8(0x55), h.Sequence())

	dt, err := h.DataType()
	require.NoError(t, err)
	require.Equal(t, format.TypeLFxEfxNcob, dt)
}

func TestCollectionHeader_SetSubservice(t *testing.T) {
	h := CollectionHeader{CollectionID: 0xFFFF}
	h.SetSubservice(TypeSubservice(format.TypeSFx))

	require.Equal(t, uint8(6), h.Subservice())
	// other bit fields untouched
	require.Equal(t, uint8(1), h.PacketType())
	require.Equal(t, uint8(3), h.CCDID())
	require.Equal(t, uint8(0x7F), h.Sequence())
}

func TestSubserviceType(t *testing.T) {
	for sub := uint8(1); sub <= 17; sub++ {
		dt, err := SubserviceType(sub)
		require.NoError(t, err)
		require.Equal(t, sub, TypeSubservice(dt))
	}

	_, err := SubserviceType(0)
	require.ErrorIs(t, err, errs.ErrCollectionSubservice)
	_, err = SubserviceType(18)
	require.ErrorIs(t, err, errs.ErrCollectionSubservice)
}
