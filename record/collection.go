// Package record defines the sample record shapes, the collection framing and
// the maximum-bits registry used by the chunk codec.
//
// A collection is one header-prefixed run of same-shaped science records. The
// header is exactly 12 bytes, all multi-byte fields big-endian:
//
//	offset 0  Timestamp     48 bits
//	offset 6  ConfigID      16 bits
//	offset 8  CollectionID  16 bits (packet-type:1 | subservice:6 | ccd-id:2 | sequence:7)
//	offset 10 DataLength    16 bits
//
// DataLength counts the payload bytes only and must be a multiple of the
// record size selected by the subservice field.
package record

import (
	"github.com/stelpack/stelpack/endian"
	"github.com/stelpack/stelpack/errs"
	"github.com/stelpack/stelpack/format"
)

const (
	// HeaderSize is the fixed collection header size in bytes.
	HeaderSize = 12

	// MaxTimestamp is the largest 48-bit collection timestamp.
	MaxTimestamp = uint64(1)<<48 - 1
)

// CollectionID bit layout.
const (
	packetTypeShift = 15
	subserviceShift = 9
	subserviceMask  = 0x3F
	ccdIDShift      = 7
	ccdIDMask       = 0x3
	sequenceMask    = 0x7F
)

// CollectionHeader is the parsed form of the 12-byte collection header.
type CollectionHeader struct {
	Timestamp    uint64 // 48-bit coarse/fine time
	ConfigID     uint16
	CollectionID uint16 // packed packet-type/subservice/ccd-id/sequence
	DataLength   uint16 // payload bytes, excludes the header
}

// ParseHeader parses a collection header from the first 12 bytes of b.
func ParseHeader(b []byte) (CollectionHeader, error) {
	if len(b) < HeaderSize {
		return CollectionHeader{}, errs.ErrChunkTooSmall
	}

	be := endian.GetBigEndianEngine()

	return CollectionHeader{
		Timestamp:    uint64(be.Uint32(b[0:4]))<<16 | uint64(be.Uint16(b[4:6])),
		ConfigID:     be.Uint16(b[6:8]),
		CollectionID: be.Uint16(b[8:10]),
		DataLength:   be.Uint16(b[10:12]),
	}, nil
}

// PutHeader serializes h into the first 12 bytes of b.
func (h CollectionHeader) PutHeader(b []byte) error {
	if len(b) < HeaderSize {
		return errs.ErrBufferTooSmall
	}
	if h.Timestamp > MaxTimestamp {
		return errs.ErrTimestampRange
	}

	be := endian.GetBigEndianEngine()
	be.PutUint32(b[0:4], uint32(h.Timestamp>>16))
	be.PutUint16(b[4:6], uint16(h.Timestamp))
	be.PutUint16(b[6:8], h.ConfigID)
	be.PutUint16(b[8:10], h.CollectionID)
	be.PutUint16(b[10:12], h.DataLength)

	return nil
}

// PacketType returns the packet-type bit of the collection ID.
func (h CollectionHeader) PacketType() uint8 {
	return uint8(h.CollectionID >> packetTypeShift)
}

// Subservice returns the 6-bit subservice field of the collection ID, which
// selects the record shape of the payload.
func (h CollectionHeader) Subservice() uint8 {
	return uint8(h.CollectionID>>subserviceShift) & subserviceMask
}

// CCDID returns the 2-bit CCD identifier of the collection ID.
func (h CollectionHeader) CCDID() uint8 {
	return uint8(h.CollectionID>>ccdIDShift) & ccdIDMask
}

// Sequence returns the 7-bit sequence counter of the collection ID.
func (h CollectionHeader) Sequence() uint8 {
	return uint8(h.CollectionID) & sequenceMask
}

// SetSubservice stores a subservice value into the collection ID.
func (h *CollectionHeader) SetSubservice(sub uint8) {
	h.CollectionID &^= subserviceMask << subserviceShift
	h.CollectionID |= uint16(sub&subserviceMask) << subserviceShift
}

// DataType resolves the record shape selected by the subservice field.
func (h CollectionHeader) DataType() (format.DataType, error) {
	return SubserviceType(h.Subservice())
}

// SubserviceType maps a subservice value to its data type.
func SubserviceType(sub uint8) (format.DataType, error) {
	t := format.DataType(sub)
	if !t.IsValid() {
		return format.TypeUnknown, errs.ErrCollectionSubservice
	}

	return t, nil
}

// TypeSubservice maps a data type back to its subservice value.
func TypeSubservice(t format.DataType) uint8 {
	return uint8(t)
}
