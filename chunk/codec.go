package chunk

import (
	"github.com/stelpack/stelpack/bitstream"
	"github.com/stelpack/stelpack/errs"
	"github.com/stelpack/stelpack/record"
	"github.com/stelpack/stelpack/transform"
)

// encodeCollection compresses n records of one collection payload into w.
//
// data, model and updatedModel address the collection payload only (the
// 12-byte header is framed by the caller). In model modes every sample is
// predicted from the model buffer element at the same offset; in diff modes
// sample 0 is predicted from zero and later samples from the previous decoded
// sample of the same field. The prediction chain restarts for every
// collection so each collection decodes independently.
func encodeCollection(w *bitstream.Writer, data, model, updatedModel []byte, lay record.Layout, n int, p *Params, codecs []fieldCodec) error {
	lossy := uint32(p.Lossy)
	useModel := p.Mode.IsModel()
	prev := make([]uint32, len(lay.Fields))

	for i := 0; i < n; i++ {
		fo := i * lay.Size
		for j, f := range lay.Fields {
			v := record.GetField(data, fo, f.Bytes)

			var mv uint32
			if useModel {
				mv = record.GetField(model, fo, f.Bytes)
			} else {
				mv = prev[j]
			}

			mask := transform.Mask(codecs[j].width)
			if v > mask || mv > mask {
				return errs.ErrValueTooLarge
			}

			d := transform.RoundFwd(v, lossy)
			m := transform.RoundFwd(mv, lossy)
			mapped := transform.MapToUnsigned(d-m, codecs[j].width)
			if err := codecs[j].esc.Encode(w, mapped); err != nil {
				return err
			}

			decoded := transform.RoundInv(d, lossy)
			prev[j] = decoded
			if updatedModel != nil {
				record.PutField(updatedModel, fo, f.Bytes,
					p.ModelUpdate(decoded, mv, uint32(p.ModelWeight), lossy))
			}

			fo += f.Bytes
		}
	}

	return nil
}

// decodeCollection reverses encodeCollection. A nil dst runs the full decode
// for validation and sizing without writing reconstructed records.
func decodeCollection(rd *bitstream.Reader, dst, model, updatedModel []byte, lay record.Layout, n int, weight uint8, lossy uint32, useModel bool, update transform.ModelUpdateFunc, codecs []fieldCodec) error {
	prev := make([]uint32, len(lay.Fields))

	for i := 0; i < n; i++ {
		fo := i * lay.Size
		for j, f := range lay.Fields {
			var mv uint32
			if useModel {
				mv = record.GetField(model, fo, f.Bytes)
			} else {
				mv = prev[j]
			}

			mask := transform.Mask(codecs[j].width)
			if mv > mask {
				return errs.ErrValueTooLarge
			}

			mapped, err := codecs[j].esc.Decode(rd)
			if err != nil {
				return err
			}

			residual := transform.UnmapToSigned(mapped, codecs[j].width)
			d := (residual + transform.RoundFwd(mv, lossy)) & mask
			decoded := transform.RoundInv(d, lossy)

			if dst != nil {
				record.PutField(dst, fo, f.Bytes, decoded)
			}
			prev[j] = decoded
			if updatedModel != nil {
				record.PutField(updatedModel, fo, f.Bytes,
					update(decoded, mv, uint32(weight), lossy))
			}

			fo += f.Bytes
		}
	}

	return nil
}

// updateModelOnly recomputes every updated-model entry of a collection stored
// verbatim. Verbatim records decode to themselves, so the model update runs
// on the unrounded sample values.
func updateModelOnly(data, model, updatedModel []byte, lay record.Layout, n int, weight uint8, lossy uint32, update transform.ModelUpdateFunc) {
	if updatedModel == nil {
		return
	}

	for i := 0; i < n; i++ {
		fo := i * lay.Size
		for _, f := range lay.Fields {
			v := record.GetField(data, fo, f.Bytes)
			mv := record.GetField(model, fo, f.Bytes)
			record.PutField(updatedModel, fo, f.Bytes, update(v, mv, uint32(weight), lossy))
			fo += f.Bytes
		}
	}
}
