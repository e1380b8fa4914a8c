package entity

import (
	"github.com/stelpack/stelpack/endian"
	"github.com/stelpack/stelpack/errs"
)

// Type-specific header layouts, all immediately after the generic header.
//
// Imagette (4 bytes):
//
//	offset 30 Spill     16 bits
//	offset 32 GolombPar 16 bits
//
// Adaptive imagette (10 bytes):
//
//	offset 30 Spill        16 bits
//	offset 32 GolombPar    16 bits
//	offset 34 Ap1GolombPar 16 bits
//	offset 36 Ap2GolombPar 16 bits
//	offset 38 reserved     16 bits, zero
//
// The adaptive spillover thresholds are not stored; they derive from the
// adaptive Golomb parameters through the hardware code-word limit.
//
// Non-imagette (30 bytes): six parameter slots in the fixed order flags,
// flux, cob, eflux, ecob, variance, each five bytes:
//
//	offset 30+5*i   Spill     24 bits
//	offset 30+5*i+3 GolombPar 16 bits
const (
	offSpecific = GenericHeaderSize

	offImagetteSpill = offSpecific
	offImagettePar   = offSpecific + 2
	offAp1Par        = offSpecific + 4
	offAp2Par        = offSpecific + 6

	nonImagetteSlotSize = 5
)

// ImagetteParams returns the imagette spillover threshold and Golomb parameter.
func (e Entity) ImagetteParams() (spill, par uint32, err error) {
	if err := e.check(offImagetteSpill, 4); err != nil {
		return 0, 0, err
	}
	be := endian.GetBigEndianEngine()

	return uint32(be.Uint16(e[offImagetteSpill:])), uint32(be.Uint16(e[offImagettePar:])), nil
}

// SetImagetteParams stores the imagette spillover threshold and Golomb parameter.
func (e Entity) SetImagetteParams(spill, par uint32) error {
	if err := e.check(offImagetteSpill, 4); err != nil {
		return err
	}
	if spill > 0xFFFF || par > 0xFFFF {
		return errs.ErrParamSpecific
	}
	be := endian.GetBigEndianEngine()
	be.PutUint16(e[offImagetteSpill:], uint16(spill))
	be.PutUint16(e[offImagettePar:], uint16(par))

	return nil
}

// AdaptiveParams returns the two alternate Golomb parameters of an adaptive
// imagette entity.
func (e Entity) AdaptiveParams() (ap1, ap2 uint32, err error) {
	if err := e.check(offAp1Par, 4); err != nil {
		return 0, 0, err
	}
	be := endian.GetBigEndianEngine()

	return uint32(be.Uint16(e[offAp1Par:])), uint32(be.Uint16(e[offAp2Par:])), nil
}

// SetAdaptiveParams stores the two alternate Golomb parameters of an adaptive
// imagette entity.
func (e Entity) SetAdaptiveParams(ap1, ap2 uint32) error {
	if err := e.check(offAp1Par, 4); err != nil {
		return err
	}
	if ap1 > 0xFFFF || ap2 > 0xFFFF {
		return errs.ErrParamSpecific
	}
	be := endian.GetBigEndianEngine()
	be.PutUint16(e[offAp1Par:], uint16(ap1))
	be.PutUint16(e[offAp2Par:], uint16(ap2))

	return nil
}

// SlotParams returns the spillover threshold and Golomb parameter of one
// non-imagette parameter slot (0..5).
func (e Entity) SlotParams(slot int) (spill, par uint32, err error) {
	if slot < 0 || slot >= 6 {
		return 0, 0, errs.ErrParamSpecific
	}
	off := offSpecific + slot*nonImagetteSlotSize
	if err := e.check(off, nonImagetteSlotSize); err != nil {
		return 0, 0, err
	}

	return e.get24(off), uint32(endian.GetBigEndianEngine().Uint16(e[off+3:])), nil
}

// SetSlotParams stores the spillover threshold and Golomb parameter of one
// non-imagette parameter slot (0..5).
func (e Entity) SetSlotParams(slot int, spill, par uint32) error {
	if slot < 0 || slot >= 6 {
		return errs.ErrParamSpecific
	}
	off := offSpecific + slot*nonImagetteSlotSize
	if err := e.check(off, nonImagetteSlotSize); err != nil {
		return err
	}
	if spill > MaxSize || par > 0xFFFF {
		return errs.ErrParamSpecific
	}
	e.put24(off, spill)
	endian.GetBigEndianEngine().PutUint16(e[off+3:], uint16(par))

	return nil
}
