// Package archive provides ground-side post-compression for finished
// entities.
//
// The entity bitstream itself is entropy coded and rarely shrinks further,
// but raw-mode entities and large batches of them do: downlink archives and
// long-term storage wrap entities with one of the general-purpose codecs
// below. Archiving is always an explicit outer step, the chunk compressor
// never applies it implicitly.
package archive

import (
	"fmt"

	"github.com/stelpack/stelpack/errs"
)

// Type identifies an archive codec.
type Type uint8

const (
	// None stores the entity without further compression.
	None Type = 0
	// Zstd favors ratio over speed, for cold storage.
	Zstd Type = 1
	// S2 favors speed over ratio, for hot paths.
	S2 Type = 2
	// LZ4 sits between the two, for constrained ground segments.
	LZ4 Type = 3
)

// String returns the codec name.
func (t Type) String() string {
	switch t {
	case None:
		return "none"
	case Zstd:
		return "zstd"
	case S2:
		return "s2"
	case LZ4:
		return "lz4"
	default:
		return fmt.Sprintf("type(%d)", uint8(t))
	}
}

// Codec compresses and decompresses entity byte streams.
//
// Implementations are stateless values safe for concurrent use. Returned
// slices are newly allocated and owned by the caller except where an
// implementation documents pass-through behavior.
type Codec interface {
	// Compress compresses data and returns the result. The input is never
	// modified.
	Compress(data []byte) ([]byte, error)

	// Decompress reverses Compress. It validates the stream format and
	// returns an error on corrupted or foreign data.
	Decompress(data []byte) ([]byte, error)
}

var builtinCodecs = map[Type]Codec{
	None: NoOpCodec{},
	Zstd: ZstdCodec{},
	S2:   S2Codec{},
	LZ4:  LZ4Codec{},
}

// GetCodec returns the built-in Codec for the given type.
func GetCodec(t Type) (Codec, error) {
	if codec, ok := builtinCodecs[t]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("%w: archive codec %s", errs.ErrUnsupportedType, t)
}
