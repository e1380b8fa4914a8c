package chunk

import (
	"errors"
	"fmt"
	"time"

	"github.com/stelpack/stelpack/bitstream"
	"github.com/stelpack/stelpack/endian"
	"github.com/stelpack/stelpack/entity"
	"github.com/stelpack/stelpack/errs"
	"github.com/stelpack/stelpack/format"
	"github.com/stelpack/stelpack/record"
)

// Compressor carries the injected configuration a compression run depends on:
// the version identifier stamped into entities, the timestamp source and the
// maximum-bits registry lookup. It replaces process-wide mutable state with a
// value constructed once and passed explicitly.
//
// A Compressor is immutable after construction and safe for concurrent use.
type Compressor struct {
	versionID uint16
	now       func() uint64
	maxBits   record.MaxBitsFunc
}

// NewCompressor creates a Compressor. Defaults: version identifier 0, the
// built-in registry lookup, and a CUC-style timestamp source derived from the
// wall clock.
func NewCompressor(opts ...Option) (*Compressor, error) {
	c := &Compressor{
		now:     DefaultTimestamp,
		maxBits: record.MaxBitsFor,
	}
	if err := applyOptions(c, opts...); err != nil {
		return nil, err
	}

	return c, nil
}

// DefaultTimestamp returns the current wall clock as a 48-bit CUC-style
// timestamp: 32 bits of seconds and a 16-bit binary fraction.
func DefaultTimestamp() uint64 {
	t := time.Now()
	coarse := uint64(t.Unix()) & 0xFFFFFFFF
	fine := uint64(t.Nanosecond()) << 16 / 1_000_000_000

	return coarse<<16 | (fine & 0xFFFF)
}

// colInfo locates one collection inside a chunk.
type colInfo struct {
	off int // byte offset of the collection header
	hdr record.CollectionHeader
	lay record.Layout
	n   int // record count
}

// scanChunk validates the chunk framing and returns the chunk-wide data type
// and the collection list. Walking collections by header size plus data
// length must exactly consume the chunk; any remainder or overrun is a
// corruption signal.
func scanChunk(data []byte) (format.DataType, []colInfo, error) {
	if data == nil {
		return 0, nil, errs.ErrChunkNil
	}
	if len(data) < record.HeaderSize {
		return 0, nil, errs.ErrChunkTooSmall
	}
	if len(data) > MaxChunkSize {
		return 0, nil, errs.ErrChunkTooLarge
	}

	var (
		chunkType format.DataType
		cols      []colInfo
	)
	pos := 0
	for pos < len(data) {
		if len(data)-pos < record.HeaderSize {
			return 0, nil, errs.ErrChunkSizeInconsistent
		}
		hdr, err := record.ParseHeader(data[pos:])
		if err != nil {
			return 0, nil, err
		}
		t, err := hdr.DataType()
		if err != nil {
			return 0, nil, err
		}
		if chunkType == format.TypeUnknown {
			chunkType = t
		} else if t != chunkType {
			return 0, nil, errs.ErrChunkSubserviceInconsistent
		}

		lay, err := record.LayoutFor(t)
		if err != nil {
			return 0, nil, err
		}
		if int(hdr.DataLength)%lay.Size != 0 {
			return 0, nil, errs.ErrCollectionSizeInconsistent
		}
		if pos+record.HeaderSize+int(hdr.DataLength) > len(data) {
			return 0, nil, errs.ErrChunkSizeInconsistent
		}

		cols = append(cols, colInfo{
			off: pos,
			hdr: hdr,
			lay: lay,
			n:   int(hdr.DataLength) / lay.Size,
		})
		pos += record.HeaderSize + int(hdr.DataLength)
	}

	return chunkType, cols, nil
}

// Compress compresses a chunk into dst and returns the entity size in bytes.
//
// A nil dst performs the full algorithm for sizing only and returns exactly
// the byte count a real run would need. model is required by model modes and
// must mirror the chunk's shape; a non-nil updatedModel receives the next
// model chunk and may alias model for in-place update.
func (c *Compressor) Compress(data, model, updatedModel, dst []byte, p *Params) (int, error) {
	chunkType, cols, err := scanChunk(data)
	if err != nil {
		return 0, err
	}
	if err := p.validate(); err != nil {
		return 0, err
	}
	if err := checkBufferOverlap(data, model, updatedModel, dst); err != nil {
		return 0, err
	}

	if p.Mode.IsModel() {
		if model == nil {
			return 0, errs.ErrNilPointer
		}
		if len(model) != len(data) {
			return 0, errs.ErrParamBuffer
		}
	} else if model != nil || updatedModel != nil {
		// model buffers have no meaning outside model modes
		return 0, errs.ErrParamInvalid
	}
	if updatedModel != nil {
		if len(updatedModel) != len(data) {
			return 0, errs.ErrParamBuffer
		}
		if p.ModelUpdate == nil {
			return 0, errs.ErrNilPointer
		}
	}

	widths, err := c.maxBits(p.MaxBitsVersion)
	if err != nil {
		return 0, fmt.Errorf("max-bits registry version %d: %w", p.MaxBitsVersion, err)
	}

	raw := p.Mode == format.ModeRaw
	hdrSize, err := entity.HeaderSize(chunkType, raw)
	if err != nil {
		return 0, err
	}

	var codecs []fieldCodec
	if !raw {
		lay, _ := record.LayoutFor(chunkType)
		codecs, err = buildCodecs(lay, p, widths)
		if err != nil {
			return 0, err
		}
	}

	startTs := c.now()
	if startTs > entity.MaxTimestamp {
		return 0, errs.ErrTimestampRange
	}

	if dst != nil && len(dst) < hdrSize {
		return 0, errs.ErrBufferTooSmall
	}
	if dst != nil {
		// the header region is reserved up front and patched after the loop
		clear(dst[:hdrSize])
	}

	pos := hdrSize
	for _, col := range cols {
		if raw {
			n, err := c.storeRaw(data, dst, pos, col, false)
			if err != nil {
				return 0, err
			}
			pos = n

			continue
		}

		n, err := c.storeCompressed(data, model, updatedModel, dst, pos, col, p, codecs)
		if err != nil {
			return 0, err
		}
		pos = n
	}

	if !raw {
		// zero-pad the entity to the next 4-byte boundary
		pad := (4 - pos%4) % 4
		if dst != nil {
			if pos+pad > len(dst) {
				return 0, errs.ErrBufferTooSmall
			}
			clear(dst[pos : pos+pad])
		}
		pos += pad
	}

	if err := c.writeHeader(dst, pos, len(data), chunkType, p, startTs); err != nil {
		return 0, err
	}

	return pos, nil
}

// storeRaw copies one collection verbatim (header and records). The chunk
// representation is already wire order, so normalization is a plain copy.
func (c *Compressor) storeRaw(data, dst []byte, pos int, col colInfo, prefix bool) (int, error) {
	total := record.HeaderSize + int(col.hdr.DataLength)
	need := total
	if prefix {
		need += 2
	}
	if dst != nil {
		if pos+need > len(dst) {
			return 0, errs.ErrBufferTooSmall
		}
		out := dst[pos:]
		if prefix {
			endian.GetBigEndianEngine().PutUint16(out, col.hdr.DataLength)
			out = out[2:]
		}
		copy(out[:total], data[col.off:col.off+total])
	}

	return pos + need, nil
}

// storeCompressed frames one collection as a 2-byte size prefix, the verbatim
// 12-byte collection header and the compressed payload. The compression
// attempt is capped one byte below the remaining destination capacity so an
// exact tie fails, and strictly below the raw payload size so the prefix
// value DataLength stays reserved for the per-collection raw fallback.
func (c *Compressor) storeCompressed(data, model, updatedModel, dst []byte, pos int, col colInfo, p *Params, codecs []fieldCodec) (int, error) {
	dataLen := int(col.hdr.DataLength)
	payloadOff := col.off + record.HeaderSize

	limitBits := (dataLen - 1) * 8
	var payloadDst []byte
	if dst != nil {
		avail := (len(dst)-(pos+2+record.HeaderSize))*8 - 8
		if avail < limitBits {
			limitBits = avail
		}
		if pos+2+record.HeaderSize <= len(dst) {
			payloadDst = dst[pos+2+record.HeaderSize:]
		}
	}

	var colModel, colUpdated []byte
	if model != nil {
		colModel = model[payloadOff : payloadOff+dataLen]
	}
	if updatedModel != nil {
		colUpdated = updatedModel[payloadOff : payloadOff+dataLen]
	}

	cmpBytes := -1
	if limitBits >= 0 {
		w := bitstream.NewWriterLimit(payloadDst, limitBits)
		err := encodeCollection(w, data[payloadOff:payloadOff+dataLen], colModel, colUpdated, col.lay, col.n, p, codecs)
		switch {
		case err == nil:
			cmpBytes = w.Flush()
		case errors.Is(err, errs.ErrBufferTooSmall):
			// fall back to verbatim storage for this collection
		default:
			return 0, err
		}
	}

	if cmpBytes < 0 {
		n, err := c.storeRaw(data, dst, pos, col, true)
		if err != nil {
			return 0, err
		}
		if updatedModel != nil {
			updateModelOnly(data[payloadOff:payloadOff+dataLen], colModel, colUpdated,
				col.lay, col.n, p.ModelWeight, uint32(p.Lossy), p.ModelUpdate)
		}

		return n, nil
	}

	if dst != nil {
		be := endian.GetBigEndianEngine()
		be.PutUint16(dst[pos:], uint16(cmpBytes))
		copy(dst[pos+2:], data[col.off:col.off+record.HeaderSize])
	}
	if updatedModel != nil {
		// updated model mirrors the chunk shape, headers included
		copy(updatedModel[col.off:col.off+record.HeaderSize], data[col.off:col.off+record.HeaderSize])
	}

	return pos + 2 + record.HeaderSize + cmpBytes, nil
}

// writeHeader patches the entity header once the payload layout is final.
// In sizing mode the same setters run against a scratch header so every range
// check still fires.
func (c *Compressor) writeHeader(dst []byte, entSize, origSize int, t format.DataType, p *Params, startTs uint64) error {
	var hdr entity.Entity
	if dst != nil {
		hdr = entity.Entity(dst)
	} else {
		var scratch [entity.NonImagetteHeaderSize]byte
		hdr = scratch[:]
	}

	endTs := c.now()
	raw := p.Mode == format.ModeRaw

	steps := []error{
		hdr.SetVersionID(c.versionID),
		hdr.SetEntitySize(uint32(entSize)),
		hdr.SetOriginalSize(uint32(origSize)),
		hdr.SetStartTimestamp(startTs),
		hdr.SetEndTimestamp(endTs),
		hdr.SetDataType(t, raw),
		hdr.SetMode(p.Mode),
		hdr.SetModelWeight(p.ModelWeight),
		hdr.SetMaxBitsVersion(p.MaxBitsVersion),
		hdr.SetLossyPar(p.Lossy),
	}
	for _, err := range steps {
		if err != nil {
			return fmt.Errorf("%w: %w", errs.ErrEntityHeader, err)
		}
	}

	if raw {
		return nil
	}

	var err error
	switch t {
	case format.TypeImagette:
		err = hdr.SetImagetteParams(p.Slots[record.SlotImagette].Spill, p.Slots[record.SlotImagette].Golomb)
	case format.TypeAdaptiveImagette:
		if err = hdr.SetImagetteParams(p.Slots[record.SlotImagette].Spill, p.Slots[record.SlotImagette].Golomb); err == nil {
			err = hdr.SetAdaptiveParams(p.Ap1Golomb, p.Ap2Golomb)
		}
	default:
		for i := 0; i < record.NumNonImagetteSlots && err == nil; i++ {
			slot := p.Slots[record.ParamSlot(i+1)]
			err = hdr.SetSlotParams(i, slot.Spill, slot.Golomb)
		}
	}
	if err != nil {
		return fmt.Errorf("%w: %w", errs.ErrEntityHeader, err)
	}

	return nil
}

// SizeBound returns a destination capacity that always suffices for
// compressing the chunk: the entity header plus per-collection framing with
// every collection stored verbatim, rounded up to the 4-byte padding.
func (c *Compressor) SizeBound(data []byte) (int, error) {
	chunkType, cols, err := scanChunk(data)
	if err != nil {
		return 0, err
	}
	hdrSize, err := entity.HeaderSize(chunkType, false)
	if err != nil {
		return 0, err
	}

	bound := hdrSize
	for _, col := range cols {
		bound += 2 + record.HeaderSize + int(col.hdr.DataLength)
	}
	bound = (bound + 3) &^ 3

	return bound, nil
}
