// Package stelpack compresses science telemetry chunks into self-describing
// entities and decompresses them back, bit-exact.
//
// A chunk concatenates collections: 12-byte headers followed by fixed-shape
// records of one of 17 data types (imagettes, flux, center-of-brightness and
// statistics products). The compressor predicts each sample from a model
// buffer or from the previous sample, maps the residual with zig-zag coding
// and entropy codes it with adaptive Golomb/Rice codes. Outliers pass through
// an escape mechanism. Collections that do not compress fall back to verbatim
// storage, so output never grows beyond the worst-case bound.
//
// # Basic Usage
//
// Compressing a chunk losslessly in 1d-differencing mode:
//
//	import (
//	    "github.com/stelpack/stelpack"
//	    "github.com/stelpack/stelpack/chunk"
//	    "github.com/stelpack/stelpack/format"
//	    "github.com/stelpack/stelpack/record"
//	)
//
//	params := &chunk.Params{
//	    Mode: format.ModeDiffZero,
//	    MaxBitsVersion: 1,
//	}
//	params.Slots[record.SlotImagette] = chunk.ParamPair{Golomb: 4, Spill: 60}
//
//	bound, _ := stelpack.CompressChunkSizeBound(data)
//	dst := make([]byte, bound)
//	n, err := stelpack.CompressChunk(data, nil, nil, dst, params)
//	if err != nil {
//	    return err
//	}
//	entity := dst[:n]
//
// Decompressing:
//
//	size, _ := stelpack.DecompressEntity(entity, nil, nil, nil) // sizing
//	out := make([]byte, size)
//	_, err = stelpack.DecompressEntity(entity, nil, nil, out)
//
// Passing a nil destination to either operation runs the full algorithm for
// sizing only and returns the exact byte count a real run produces.
//
// # Package Structure
//
// This package provides top-level wrappers around the chunk package for the
// most common use cases. For fine-grained control use the chunk, entity and
// golomb packages directly; the archive package adds ground-side
// post-compression of finished entities.
package stelpack

import (
	"github.com/stelpack/stelpack/chunk"
	"github.com/stelpack/stelpack/entity"
	"github.com/stelpack/stelpack/internal/hash"
)

// CompressChunk compresses a chunk into dst and returns the entity size in
// bytes. A nil dst performs sizing only. See chunk.Compressor.Compress for
// buffer requirements.
func CompressChunk(data, model, updatedModel, dst []byte, params *chunk.Params, opts ...chunk.Option) (int, error) {
	c, err := chunk.NewCompressor(opts...)
	if err != nil {
		return 0, err
	}

	return c.Compress(data, model, updatedModel, dst, params)
}

// CompressChunkSizeBound returns a destination capacity that suffices for
// compressing the chunk regardless of parameters.
func CompressChunkSizeBound(data []byte) (int, error) {
	c, err := chunk.NewCompressor()
	if err != nil {
		return 0, err
	}

	return c.SizeBound(data)
}

// DecompressEntity reconstructs the original chunk from an entity and returns
// its size in bytes. A nil dst performs validation and sizing only.
func DecompressEntity(ent, model, updatedModel, dst []byte, opts ...chunk.DecodeOption) (int, error) {
	return chunk.Decompress(ent, model, updatedModel, dst, opts...)
}

// ModelID derives a 16-bit model identifier from a model buffer's content.
// Identical buffers always map to the same identifier, so ground and flight
// segments can agree on model identity without exchanging the buffer.
func ModelID(model []byte) uint16 {
	return hash.ID16(model)
}

// SetModelIDAndCounter patches the model identifier and counter of an
// existing entity in place, without touching the compressed payload.
func SetModelIDAndCounter(ent []byte, id uint16, counter uint8) error {
	return entity.SetModelIDAndCounter(ent, id, counter)
}
