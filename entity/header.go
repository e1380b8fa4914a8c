// Package entity implements the self-describing binary envelope wrapped
// around a compressed chunk.
//
// The generic header is exactly 30 bytes; a type-specific header of 0 to 30
// bytes follows, then the compressed (or raw) payload. All multi-byte fields
// are big-endian. The layout is fixed by explicit accessor functions over the
// byte array; nothing here depends on host byte order or on language-level
// struct layout.
//
// Generic header layout:
//
//	offset 0  VersionID       16 bits
//	offset 2  EntitySize      24 bits
//	offset 5  OriginalSize    24 bits
//	offset 8  StartTimestamp  48 bits
//	offset 14 EndTimestamp    48 bits
//	offset 20 DataType        16 bits (bit 15 = raw-mode flag)
//	offset 22 Mode             8 bits
//	offset 23 ModelWeight      8 bits
//	offset 24 ModelID         16 bits
//	offset 26 ModelCounter     8 bits
//	offset 27 MaxBitsVersion   8 bits
//	offset 28 LossyPar        16 bits
package entity

import (
	"github.com/stelpack/stelpack/endian"
	"github.com/stelpack/stelpack/errs"
	"github.com/stelpack/stelpack/format"
)

const (
	// GenericHeaderSize is the fixed size of the generic header in bytes.
	GenericHeaderSize = 30

	// ImagetteHeaderSize is the total header size of a non-raw imagette entity.
	ImagetteHeaderSize = 34

	// AdaptiveImagetteHeaderSize is the total header size of a non-raw
	// adaptive imagette entity.
	AdaptiveImagetteHeaderSize = 40

	// NonImagetteHeaderSize is the total header size of every other non-raw
	// entity type.
	NonImagetteHeaderSize = 60

	// RawHeaderSize is the total header size of a raw-mode entity, regardless
	// of data type.
	RawHeaderSize = GenericHeaderSize

	// MaxSize is the largest value of the 24-bit size fields.
	MaxSize = 0xFFFFFF

	// MaxTimestamp is the largest 48-bit timestamp; values with any of the
	// top 16 bits set are rejected.
	MaxTimestamp = uint64(1)<<48 - 1
)

// Generic header field offsets.
const (
	offVersionID      = 0
	offEntitySize     = 2
	offOriginalSize   = 5
	offStartTimestamp = 8
	offEndTimestamp   = 14
	offDataType       = 20
	offMode           = 22
	offModelWeight    = 23
	offModelID        = 24
	offModelCounter   = 26
	offMaxBitsVersion = 27
	offLossyPar       = 28
)

// Entity is a byte buffer holding an entity. All accessors operate in place;
// the buffer is caller-owned and must hold at least the generic header.
type Entity []byte

// HeaderSize derives the total header size from the data type and raw flag.
// No header-size field exists on the wire; decoders recompute this table
// instead of trusting stored state.
func HeaderSize(t format.DataType, raw bool) (int, error) {
	if !t.IsValid() {
		return 0, errs.ErrUnsupportedType
	}
	if raw {
		return RawHeaderSize, nil
	}

	switch t {
	case format.TypeImagette:
		return ImagetteHeaderSize, nil
	case format.TypeAdaptiveImagette:
		return AdaptiveImagetteHeaderSize, nil
	default:
		return NonImagetteHeaderSize, nil
	}
}

func (e Entity) check(off, n int) error {
	if e == nil {
		return errs.ErrEntityNil
	}
	if len(e) < off+n {
		return errs.ErrEntityTooSmall
	}

	return nil
}

func (e Entity) get24(off int) uint32 {
	return uint32(e[off])<<16 | uint32(e[off+1])<<8 | uint32(e[off+2])
}

func (e Entity) put24(off int, v uint32) {
	e[off] = byte(v >> 16)
	e[off+1] = byte(v >> 8)
	e[off+2] = byte(v)
}

func (e Entity) get48(off int) uint64 {
	be := endian.GetBigEndianEngine()
	return uint64(be.Uint32(e[off:off+4]))<<16 | uint64(be.Uint16(e[off+4:off+6]))
}

func (e Entity) put48(off int, v uint64) {
	be := endian.GetBigEndianEngine()
	be.PutUint32(e[off:off+4], uint32(v>>16))
	be.PutUint16(e[off+4:off+6], uint16(v))
}

// VersionID returns the version identifier of the compressor that built the entity.
func (e Entity) VersionID() uint16 {
	return endian.GetBigEndianEngine().Uint16(e[offVersionID:])
}

// SetVersionID stores the compressor version identifier.
func (e Entity) SetVersionID(v uint16) error {
	if err := e.check(offVersionID, 2); err != nil {
		return err
	}
	endian.GetBigEndianEngine().PutUint16(e[offVersionID:], v)

	return nil
}

// EntitySize returns the total entity size in bytes.
func (e Entity) EntitySize() uint32 {
	return e.get24(offEntitySize)
}

// SetEntitySize stores the total entity size. Values above 0xFFFFFF are a
// hard error; the 24-bit field cannot represent them.
func (e Entity) SetEntitySize(v uint32) error {
	if err := e.check(offEntitySize, 3); err != nil {
		return err
	}
	if v > MaxSize {
		return errs.ErrParamInvalid
	}
	e.put24(offEntitySize, v)

	return nil
}

// OriginalSize returns the uncompressed chunk size in bytes.
func (e Entity) OriginalSize() uint32 {
	return e.get24(offOriginalSize)
}

// SetOriginalSize stores the uncompressed chunk size.
func (e Entity) SetOriginalSize(v uint32) error {
	if err := e.check(offOriginalSize, 3); err != nil {
		return err
	}
	if v > MaxSize {
		return errs.ErrParamInvalid
	}
	e.put24(offOriginalSize, v)

	return nil
}

// StartTimestamp returns the compression start time.
func (e Entity) StartTimestamp() uint64 {
	return e.get48(offStartTimestamp)
}

// SetStartTimestamp stores the compression start time.
func (e Entity) SetStartTimestamp(v uint64) error {
	if err := e.check(offStartTimestamp, 6); err != nil {
		return err
	}
	if v > MaxTimestamp {
		return errs.ErrTimestampRange
	}
	e.put48(offStartTimestamp, v)

	return nil
}

// EndTimestamp returns the compression end time.
func (e Entity) EndTimestamp() uint64 {
	return e.get48(offEndTimestamp)
}

// SetEndTimestamp stores the compression end time.
func (e Entity) SetEndTimestamp(v uint64) error {
	if err := e.check(offEndTimestamp, 6); err != nil {
		return err
	}
	if v > MaxTimestamp {
		return errs.ErrTimestampRange
	}
	e.put48(offEndTimestamp, v)

	return nil
}

// DataType returns the record type of the payload with the raw flag cleared,
// and whether the raw flag was set.
func (e Entity) DataType() (format.DataType, bool) {
	raw := endian.GetBigEndianEngine().Uint16(e[offDataType:])

	return format.DataType(raw &^ format.RawFlag), raw&format.RawFlag != 0
}

// SetDataType stores the record type and the raw-mode flag.
func (e Entity) SetDataType(t format.DataType, raw bool) error {
	if err := e.check(offDataType, 2); err != nil {
		return err
	}
	if !t.IsValid() {
		return errs.ErrUnsupportedType
	}

	v := uint16(t)
	if raw {
		v |= format.RawFlag
	}
	endian.GetBigEndianEngine().PutUint16(e[offDataType:], v)

	return nil
}

// Mode returns the chunk-wide compression mode.
func (e Entity) Mode() format.CompressionMode {
	return format.CompressionMode(e[offMode])
}

// SetMode stores the chunk-wide compression mode.
func (e Entity) SetMode(m format.CompressionMode) error {
	if err := e.check(offMode, 1); err != nil {
		return err
	}
	if !m.IsValid() {
		return errs.ErrParamInvalid
	}
	e[offMode] = byte(m)

	return nil
}

// ModelWeight returns the model blend weight.
func (e Entity) ModelWeight() uint8 {
	return e[offModelWeight]
}

// SetModelWeight stores the model blend weight.
func (e Entity) SetModelWeight(w uint8) error {
	if err := e.check(offModelWeight, 1); err != nil {
		return err
	}
	e[offModelWeight] = w

	return nil
}

// ModelID returns the identifier linking the entity to its model buffer.
func (e Entity) ModelID() uint16 {
	return endian.GetBigEndianEngine().Uint16(e[offModelID:])
}

// SetModelID stores the model identifier.
func (e Entity) SetModelID(id uint16) error {
	if err := e.check(offModelID, 2); err != nil {
		return err
	}
	endian.GetBigEndianEngine().PutUint16(e[offModelID:], id)

	return nil
}

// ModelCounter returns the model update generation counter.
func (e Entity) ModelCounter() uint8 {
	return e[offModelCounter]
}

// SetModelCounter stores the model update generation counter.
func (e Entity) SetModelCounter(c uint8) error {
	if err := e.check(offModelCounter, 1); err != nil {
		return err
	}
	e[offModelCounter] = c

	return nil
}

// MaxBitsVersion returns the maximum-bits registry version the entity was
// compressed against.
func (e Entity) MaxBitsVersion() uint8 {
	return e[offMaxBitsVersion]
}

// SetMaxBitsVersion stores the maximum-bits registry version.
func (e Entity) SetMaxBitsVersion(v uint8) error {
	if err := e.check(offMaxBitsVersion, 1); err != nil {
		return err
	}
	e[offMaxBitsVersion] = v

	return nil
}

// LossyPar returns the lossy rounding parameter.
func (e Entity) LossyPar() uint16 {
	return endian.GetBigEndianEngine().Uint16(e[offLossyPar:])
}

// SetLossyPar stores the lossy rounding parameter.
func (e Entity) SetLossyPar(p uint16) error {
	if err := e.check(offLossyPar, 2); err != nil {
		return err
	}
	endian.GetBigEndianEngine().PutUint16(e[offLossyPar:], p)

	return nil
}

// SetModelIDAndCounter updates the model linkage of a finished entity in one
// call. This is the only header mutation a ground system performs after
// compression, when it assigns the entity to a model chain.
func SetModelIDAndCounter(ent []byte, id uint16, counter uint8) error {
	e := Entity(ent)
	if err := e.check(0, GenericHeaderSize); err != nil {
		return err
	}
	if err := e.SetModelID(id); err != nil {
		return err
	}

	return e.SetModelCounter(counter)
}
