package entity

import (
	"testing"

	"github.com/stelpack/stelpack/errs"
	"github.com/stretchr/testify/require"
)

func TestEntity_ImagetteParams(t *testing.T) {
	e := Entity(make([]byte, ImagetteHeaderSize))

	require.NoError(t, e.SetImagetteParams(60, 4))
	spill, par, err := e.ImagetteParams()
	require.NoError(t, err)
	require.Equal(t, uint32(60), spill)
	require.Equal(t, uint32(4), par)

	// both fields are 16 bits wide
	require.ErrorIs(t, e.SetImagetteParams(0x10000, 4), errs.ErrParamSpecific)
	require.ErrorIs(t, e.SetImagetteParams(60, 0x10000), errs.ErrParamSpecific)
}

func TestEntity_AdaptiveParams(t *testing.T) {
	e := Entity(make([]byte, AdaptiveImagetteHeaderSize))

	require.NoError(t, e.SetImagetteParams(60, 4))
	require.NoError(t, e.SetAdaptiveParams(5, 11))

	ap1, ap2, err := e.AdaptiveParams()
	require.NoError(t, err)
	require.Equal(t, uint32(5), ap1)
	require.Equal(t, uint32(11), ap2)

	// adaptive parameters must not clobber the base pair
	spill, par, err := e.ImagetteParams()
	require.NoError(t, err)
	require.Equal(t, uint32(60), spill)
	require.Equal(t, uint32(4), par)
}

func TestEntity_SlotParams(t *testing.T) {
	e := Entity(make([]byte, NonImagetteHeaderSize))

	for slot := 0; slot < 6; slot++ {
		spill := uint32(1000 + slot*100)
		par := uint32(2 + slot)
		require.NoError(t, e.SetSlotParams(slot, spill, par))
	}

	for slot := 0; slot < 6; slot++ {
		spill, par, err := e.SlotParams(slot)
		require.NoError(t, err)
		require.Equal(t, uint32(1000+slot*100), spill)
		require.Equal(t, uint32(2+slot), par)
	}
}

func TestEntity_SlotParamsRange(t *testing.T) {
	e := Entity(make([]byte, NonImagetteHeaderSize))

	// 24-bit spillover, 16-bit parameter
	require.NoError(t, e.SetSlotParams(0, MaxSize, 0xFFFF))
	require.ErrorIs(t, e.SetSlotParams(0, MaxSize+1, 1), errs.ErrParamSpecific)
	require.ErrorIs(t, e.SetSlotParams(0, 1, 0x10000), errs.ErrParamSpecific)

	require.ErrorIs(t, e.SetSlotParams(-1, 1, 1), errs.ErrParamSpecific)
	require.ErrorIs(t, e.SetSlotParams(6, 1, 1), errs.ErrParamSpecific)
	_, _, err := e.SlotParams(6)
	require.ErrorIs(t, err, errs.ErrParamSpecific)
}

func TestEntity_SpecificParamsNeedRoom(t *testing.T) {
	// a generic-only buffer cannot hold any specific header
	e := Entity(make([]byte, GenericHeaderSize))

	require.ErrorIs(t, e.SetImagetteParams(1, 1), errs.ErrEntityTooSmall)
	require.ErrorIs(t, e.SetAdaptiveParams(1, 1), errs.ErrEntityTooSmall)
	require.ErrorIs(t, e.SetSlotParams(5, 1, 1), errs.ErrEntityTooSmall)
}
