// Package errs defines the sentinel errors returned by the stelpack codec.
//
// Every fallible operation in stelpack returns one of these errors (possibly
// wrapped with additional context via fmt.Errorf and %w). Callers should test
// with errors.Is rather than string comparison.
package errs

import "errors"

// Generic and buffer errors.
var (
	// ErrGeneric indicates an unspecified internal failure.
	ErrGeneric = errors.New("generic compression error")

	// ErrBufferTooSmall indicates the destination buffer cannot hold the result.
	ErrBufferTooSmall = errors.New("destination buffer too small")

	// ErrValueTooLarge indicates a value does not fit the bit width of its field.
	ErrValueTooLarge = errors.New("value too large for field bit width")

	// ErrNilPointer indicates a required buffer or function was nil.
	ErrNilPointer = errors.New("required buffer or function is nil")

	// ErrBufferOverlap indicates two caller-supplied buffers alias each other.
	ErrBufferOverlap = errors.New("caller buffers overlap")
)

// Parameter errors.
var (
	// ErrParamInvalid indicates a chunk-wide compression parameter is out of range.
	ErrParamInvalid = errors.New("compression parameter out of range")

	// ErrParamSpecific indicates a per-field Golomb parameter or spillover
	// threshold is out of range for the selected mode.
	ErrParamSpecific = errors.New("type-specific compression parameter out of range")

	// ErrParamBuffer indicates an invalid buffer-related parameter.
	ErrParamBuffer = errors.New("buffer parameter out of range")
)

// Chunk errors.
var (
	// ErrChunkNil indicates the chunk buffer is nil.
	ErrChunkNil = errors.New("chunk buffer is nil")

	// ErrChunkTooLarge indicates the chunk exceeds the 24 MiB limit.
	ErrChunkTooLarge = errors.New("chunk too large")

	// ErrChunkTooSmall indicates the chunk is smaller than one collection header.
	ErrChunkTooSmall = errors.New("chunk too small")

	// ErrChunkSizeInconsistent indicates walking the collections does not
	// exactly consume the chunk.
	ErrChunkSizeInconsistent = errors.New("chunk size inconsistent with collection headers")

	// ErrChunkSubserviceInconsistent indicates a collection type differs from
	// the chunk-wide type established by the first collection.
	ErrChunkSubserviceInconsistent = errors.New("chunk contains mixed collection subservices")
)

// Collection errors.
var (
	// ErrCollectionSubservice indicates an unsupported subservice value.
	ErrCollectionSubservice = errors.New("unsupported collection subservice")

	// ErrCollectionSizeInconsistent indicates the collection data length is not
	// a multiple of its record size.
	ErrCollectionSizeInconsistent = errors.New("collection size inconsistent with record size")
)

// Entity errors.
var (
	// ErrEntityNil indicates the entity buffer is nil.
	ErrEntityNil = errors.New("entity buffer is nil")

	// ErrEntityTooSmall indicates the entity buffer cannot hold its headers.
	ErrEntityTooSmall = errors.New("entity too small")

	// ErrEntityHeader indicates the entity header could not be built.
	ErrEntityHeader = errors.New("entity header build failed")

	// ErrTimestampRange indicates a timestamp does not fit in 48 bits.
	ErrTimestampRange = errors.New("timestamp out of 48-bit range")
)

// Internal decode errors.
var (
	// ErrDecoderCorruption indicates the compressed bitstream is corrupted or truncated.
	ErrDecoderCorruption = errors.New("compressed data corrupted")

	// ErrUnsupportedType indicates an entity data type the decoder cannot handle.
	ErrUnsupportedType = errors.New("unsupported entity data type")

	// ErrCollectionTooLarge indicates a compressed collection cannot be framed
	// with a 16-bit size prefix.
	ErrCollectionTooLarge = errors.New("compressed collection too large to frame")
)
