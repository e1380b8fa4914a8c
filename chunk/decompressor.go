package chunk

import (
	"fmt"

	"github.com/stelpack/stelpack/bitstream"
	"github.com/stelpack/stelpack/endian"
	"github.com/stelpack/stelpack/entity"
	"github.com/stelpack/stelpack/errs"
	"github.com/stelpack/stelpack/format"
	"github.com/stelpack/stelpack/internal/options"
	"github.com/stelpack/stelpack/record"
)

// Decompress reconstructs the original chunk from an entity and returns its
// size in bytes.
//
// A nil dst runs the full decode for validation and sizing only. model is
// required by model modes and must mirror the original chunk's shape; a
// non-nil updatedModel is rebuilt bit-identically to the compressor's,
// provided WithModelUpdate supplies the same update function, and may alias
// model for in-place update.
func Decompress(ent, model, updatedModel, dst []byte, opts ...DecodeOption) (int, error) {
	cfg := decodeConfig{maxBits: record.MaxBitsFor}
	if err := options.Apply(&cfg, opts...); err != nil {
		return 0, err
	}

	hdr, esize, err := parseEntity(ent)
	if err != nil {
		return 0, err
	}
	if err := checkBufferOverlap(ent, model, updatedModel, dst); err != nil {
		return 0, err
	}

	t, rawFlag := hdr.DataType()
	mode := hdr.Mode()
	origSize := int(hdr.OriginalSize())

	if mode.IsModel() {
		if model == nil {
			return 0, errs.ErrNilPointer
		}
		if len(model) != origSize {
			return 0, errs.ErrParamBuffer
		}
	} else if model != nil || updatedModel != nil {
		return 0, errs.ErrParamInvalid
	}
	if updatedModel != nil {
		if len(updatedModel) != origSize {
			return 0, errs.ErrParamBuffer
		}
		if cfg.modelUpdate == nil {
			return 0, errs.ErrNilPointer
		}
	}
	if dst != nil && len(dst) < origSize {
		return 0, errs.ErrBufferTooSmall
	}

	hdrSize, err := entity.HeaderSize(t, rawFlag)
	if err != nil {
		return 0, err
	}
	if esize < hdrSize {
		return 0, errs.ErrEntityTooSmall
	}

	if rawFlag {
		return decodeRaw(ent[hdrSize:esize], dst, t, origSize)
	}

	return decodeCompressed(ent[:esize], hdr, hdrSize, model, updatedModel, dst, t, mode, origSize, &cfg)
}

// parseEntity validates the generic header region and the entity framing
// shared by every mode.
func parseEntity(ent []byte) (entity.Entity, int, error) {
	if ent == nil {
		return nil, 0, errs.ErrEntityNil
	}
	if len(ent) < entity.GenericHeaderSize {
		return nil, 0, errs.ErrEntityTooSmall
	}

	hdr := entity.Entity(ent)
	esize := int(hdr.EntitySize())
	if esize < entity.GenericHeaderSize {
		return nil, 0, fmt.Errorf("%w: entity size %d below header", errs.ErrDecoderCorruption, esize)
	}
	// a buffer shorter than the recorded size means truncation in transit
	if esize > len(ent) {
		return nil, 0, errs.ErrEntityTooSmall
	}

	t, rawFlag := hdr.DataType()
	if !t.IsValid() {
		return nil, 0, errs.ErrUnsupportedType
	}
	mode := hdr.Mode()
	if !mode.IsValid() {
		return nil, 0, fmt.Errorf("%w: mode %d", errs.ErrDecoderCorruption, mode)
	}
	if rawFlag != (mode == format.ModeRaw) {
		return nil, 0, fmt.Errorf("%w: raw flag disagrees with mode %v", errs.ErrDecoderCorruption, mode)
	}

	return hdr, esize, nil
}

// decodeRaw handles raw entities: the payload is the chunk itself, stored
// verbatim in wire order.
func decodeRaw(payload, dst []byte, t format.DataType, origSize int) (int, error) {
	if len(payload) != origSize {
		return 0, fmt.Errorf("%w: raw payload %d bytes, original size %d",
			errs.ErrDecoderCorruption, len(payload), origSize)
	}

	// the payload must still parse as a chunk of the entity's data type
	pt, _, err := scanChunk(payload)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", errs.ErrDecoderCorruption, err)
	}
	if pt != t {
		return 0, fmt.Errorf("%w: chunk type %v inside %v entity", errs.ErrDecoderCorruption, pt, t)
	}

	if dst != nil {
		copy(dst, payload)
	}

	return origSize, nil
}

// headerParams rebuilds the per-slot parameter pairs from the type-specific
// entity header region.
func headerParams(hdr entity.Entity, t format.DataType, p *Params) error {
	switch t {
	case format.TypeImagette:
		spill, par, err := hdr.ImagetteParams()
		if err != nil {
			return err
		}
		p.Slots[record.SlotImagette] = ParamPair{Golomb: par, Spill: spill}
	case format.TypeAdaptiveImagette:
		spill, par, err := hdr.ImagetteParams()
		if err != nil {
			return err
		}
		p.Slots[record.SlotImagette] = ParamPair{Golomb: par, Spill: spill}
		if p.Ap1Golomb, p.Ap2Golomb, err = hdr.AdaptiveParams(); err != nil {
			return err
		}
	default:
		for i := 0; i < record.NumNonImagetteSlots; i++ {
			spill, par, err := hdr.SlotParams(i)
			if err != nil {
				return err
			}
			p.Slots[record.ParamSlot(i+1)] = ParamPair{Golomb: par, Spill: spill}
		}
	}

	return nil
}

// decodeCompressed walks the per-collection framing of a non-raw entity:
// 2-byte compressed-size prefix, verbatim 12-byte collection header, payload.
// A prefix equal to the collection's data length marks a verbatim payload.
func decodeCompressed(ent []byte, hdr entity.Entity, hdrSize int, model, updatedModel, dst []byte, t format.DataType, mode format.CompressionMode, origSize int, cfg *decodeConfig) (int, error) {
	p := &Params{
		Mode:           mode,
		ModelWeight:    hdr.ModelWeight(),
		Lossy:          hdr.LossyPar(),
		MaxBitsVersion: hdr.MaxBitsVersion(),
		ModelUpdate:    cfg.modelUpdate,
	}
	if err := headerParams(hdr, t, p); err != nil {
		return 0, fmt.Errorf("%w: %w", errs.ErrDecoderCorruption, err)
	}
	if p.Lossy > MaxLossyPar {
		return 0, fmt.Errorf("%w: lossy parameter %d", errs.ErrDecoderCorruption, p.Lossy)
	}

	widths, err := cfg.maxBits(p.MaxBitsVersion)
	if err != nil {
		return 0, fmt.Errorf("max-bits registry version %d: %w", p.MaxBitsVersion, err)
	}
	lay, err := record.LayoutFor(t)
	if err != nil {
		return 0, err
	}
	codecs, err := buildCodecs(lay, p, widths)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", errs.ErrDecoderCorruption, err)
	}

	if len(ent)%4 != 0 {
		return 0, fmt.Errorf("%w: entity size %d not word aligned", errs.ErrDecoderCorruption, len(ent))
	}

	be := endian.GetBigEndianEngine()
	lossy := uint32(p.Lossy)
	useModel := mode.IsModel()

	pos := hdrSize
	out := 0
	for out < origSize {
		if len(ent)-pos < 2+record.HeaderSize {
			return 0, fmt.Errorf("%w: truncated collection prefix at %d", errs.ErrDecoderCorruption, pos)
		}
		cmpSize := int(be.Uint16(ent[pos:]))
		colHdr, err := record.ParseHeader(ent[pos+2:])
		if err != nil {
			return 0, fmt.Errorf("%w: %w", errs.ErrDecoderCorruption, err)
		}
		ct, err := colHdr.DataType()
		if err != nil || ct != t {
			return 0, fmt.Errorf("%w: collection subservice disagrees with entity type %v", errs.ErrDecoderCorruption, t)
		}

		dataLen := int(colHdr.DataLength)
		if dataLen%lay.Size != 0 {
			return 0, fmt.Errorf("%w: %w", errs.ErrDecoderCorruption, errs.ErrCollectionSizeInconsistent)
		}
		if cmpSize > dataLen {
			return 0, fmt.Errorf("%w: compressed size %d exceeds data length %d",
				errs.ErrDecoderCorruption, cmpSize, dataLen)
		}
		if out+record.HeaderSize+dataLen > origSize {
			return 0, fmt.Errorf("%w: collections exceed original size %d", errs.ErrDecoderCorruption, origSize)
		}

		if dst != nil {
			copy(dst[out:], ent[pos+2:pos+2+record.HeaderSize])
		}
		if updatedModel != nil {
			copy(updatedModel[out:], ent[pos+2:pos+2+record.HeaderSize])
		}

		payloadOut := out + record.HeaderSize
		var colDst, colModel, colUpdated []byte
		if dst != nil {
			colDst = dst[payloadOut : payloadOut+dataLen]
		}
		if model != nil {
			colModel = model[payloadOut : payloadOut+dataLen]
		}
		if updatedModel != nil {
			colUpdated = updatedModel[payloadOut : payloadOut+dataLen]
		}

		if len(ent)-(pos+2+record.HeaderSize) < cmpSize {
			return 0, fmt.Errorf("%w: truncated collection payload at %d", errs.ErrDecoderCorruption, pos)
		}
		payload := ent[pos+2+record.HeaderSize : pos+2+record.HeaderSize+cmpSize]

		if cmpSize == dataLen {
			// verbatim fallback payload
			if dst != nil {
				copy(colDst, payload)
			}
			if updatedModel != nil {
				updateModelOnly(payload, colModel, colUpdated, lay, dataLen/lay.Size,
					p.ModelWeight, lossy, cfg.modelUpdate)
			}
		} else {
			rd := bitstream.NewReader(payload)
			err := decodeCollection(rd, colDst, colModel, colUpdated, lay, dataLen/lay.Size,
				p.ModelWeight, lossy, useModel, cfg.modelUpdate, codecs)
			if err != nil {
				return 0, err
			}
			// the encoder flushes to a byte boundary, so the stream must end
			// inside the final payload byte
			if cmpSize*8-rd.Consumed() >= 8 {
				return 0, fmt.Errorf("%w: %d trailing bits after collection",
					errs.ErrDecoderCorruption, cmpSize*8-rd.Consumed())
			}
		}

		out += record.HeaderSize + dataLen
		pos += 2 + record.HeaderSize + cmpSize
	}

	// only the zero padding to the 4-byte boundary may remain
	if len(ent)-pos >= 4 {
		return 0, fmt.Errorf("%w: %d bytes after final collection", errs.ErrDecoderCorruption, len(ent)-pos)
	}
	for _, b := range ent[pos:] {
		if b != 0 {
			return 0, fmt.Errorf("%w: nonzero entity padding", errs.ErrDecoderCorruption)
		}
	}

	return origSize, nil
}
