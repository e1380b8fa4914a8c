// Package chunk implements chunk compression and entity decompression.
//
// A chunk is a concatenation of collections compressed as one unit. The
// compressor walks the collections, dispatches each to the field-by-field
// codec for its record type, falls back to verbatim storage when compression
// would not pay for itself, and wraps the result in a self-describing entity
// that records every parameter needed to invert the process.
//
// All buffers (data, model, updated model, destination) are caller-owned; the
// codec never allocates or frees them. Passing a nil destination performs the
// entire algorithm for sizing purposes and returns the byte count a real run
// would produce.
package chunk

import (
	"unsafe"

	"github.com/stelpack/stelpack/errs"
	"github.com/stelpack/stelpack/format"
	"github.com/stelpack/stelpack/golomb"
	"github.com/stelpack/stelpack/record"
	"github.com/stelpack/stelpack/transform"
)

const (
	// MaxChunkSize is the largest chunk the compressor accepts.
	MaxChunkSize = 24 << 20 // 24 MiB

	// MaxLossyPar bounds the lossy rounding shift.
	MaxLossyPar = 16
)

// ParamPair is the per-slot compression parameter set: the Golomb parameter
// and the spillover threshold routing outliers through the escape mechanism.
type ParamPair struct {
	Golomb uint32 // 1..65535
	Spill  uint32 // outlier cutoff; legal range depends on Golomb and mode
}

// Params is the chunk-wide compression configuration.
type Params struct {
	// Mode selects prediction source and escape mechanism, or raw storage.
	Mode format.CompressionMode

	// ModelWeight is the blend weight passed to the model update function.
	ModelWeight uint8

	// Lossy is the rounding shift discarding low-order bits, 0 for lossless.
	Lossy uint16

	// MaxBitsVersion selects the maximum-bits registry version.
	MaxBitsVersion uint8

	// Slots holds one parameter pair per record.ParamSlot. Only the slots
	// used by the chunk's record type are validated.
	Slots [record.NumSlots]ParamPair

	// Ap1Golomb and Ap2Golomb are the alternate adaptive imagette parameters
	// recorded in the entity header. They do not affect this codec's output.
	Ap1Golomb uint32
	Ap2Golomb uint32

	// ModelUpdate computes updated-model values. Required whenever an
	// updated-model buffer is requested; the same function must be supplied
	// on decode to reproduce the buffer bit-identically.
	ModelUpdate transform.ModelUpdateFunc
}

// fieldCodec is the resolved per-field entropy codec.
type fieldCodec struct {
	esc   golomb.Escape
	width uint32
}

// buildCodecs resolves the parameter slots of a layout into per-field codecs,
// validating every parameter pair against its field width and the mode's
// escape mechanism.
func buildCodecs(lay record.Layout, p *Params, widths record.FieldWidths) ([]fieldCodec, error) {
	multi := p.Mode.IsMultiEscape()
	codecs := make([]fieldCodec, len(lay.Fields))
	for i, f := range lay.Fields {
		pair := p.Slots[f.Slot]
		width := widths.Bits(f.Width)
		esc, err := golomb.NewEscape(pair.Golomb, pair.Spill, width, multi)
		if err != nil {
			return nil, err
		}
		codecs[i] = fieldCodec{esc: esc, width: width}
	}

	return codecs, nil
}

// validate checks the chunk-wide parameters. Per-slot pairs are validated
// later by buildCodecs against the chunk's record type.
func (p *Params) validate() error {
	if p == nil {
		return errs.ErrNilPointer
	}
	if !p.Mode.IsValid() {
		return errs.ErrParamInvalid
	}
	if p.Lossy > MaxLossyPar {
		return errs.ErrParamInvalid
	}
	if p.Ap1Golomb > golomb.MaxParam || p.Ap2Golomb > golomb.MaxParam {
		return errs.ErrParamSpecific
	}

	return nil
}

// overlaps reports whether two byte slices share any memory.
func overlaps(a, b []byte) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	aStart := uintptr(unsafe.Pointer(unsafe.SliceData(a)))
	bStart := uintptr(unsafe.Pointer(unsafe.SliceData(b)))

	return aStart < bStart+uintptr(len(b)) && bStart < aStart+uintptr(len(a))
}

// sameBuffer reports whether two slices are the identical memory region,
// which is the only aliasing allowed between model and updated model.
func sameBuffer(a, b []byte) bool {
	return len(a) == len(b) && len(a) > 0 && unsafe.SliceData(a) == unsafe.SliceData(b)
}

// checkBufferOverlap rejects any aliasing among the caller buffers except an
// updated model fully aliasing the model for in-place update.
func checkBufferOverlap(data, model, updatedModel, dst []byte) error {
	pairs := [][2][]byte{
		{data, model},
		{data, updatedModel},
		{data, dst},
		{model, dst},
		{updatedModel, dst},
	}
	for _, pr := range pairs {
		if overlaps(pr[0], pr[1]) {
			return errs.ErrBufferOverlap
		}
	}
	if overlaps(model, updatedModel) && !sameBuffer(model, updatedModel) {
		return errs.ErrBufferOverlap
	}

	return nil
}
