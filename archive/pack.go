package archive

import (
	"fmt"

	"github.com/stelpack/stelpack/endian"
	"github.com/stelpack/stelpack/errs"
	"github.com/stelpack/stelpack/internal/pool"
)

// Container layout, big-endian: magic, format version, codec type, one
// reserved byte, original size, packed size, then the packed bytes.
const (
	containerMagic   = 0x5350 // "SP"
	containerVersion = 1

	containerHeaderSize = 12

	offMagic      = 0
	offVersion    = 2
	offCodecType  = 3
	offOrigSize   = 4
	offPackedSize = 8
)

// Packer accumulates packed entities into one archive stream. It is not safe
// for concurrent use; create one Packer per stream.
type Packer struct {
	buf   *pool.ByteBuffer
	codec Codec
	t     Type
}

// NewPacker creates a Packer using the given archive codec.
func NewPacker(t Type) (*Packer, error) {
	codec, err := GetCodec(t)
	if err != nil {
		return nil, err
	}

	return &Packer{
		buf:   pool.GetArchiveBuffer(),
		codec: codec,
		t:     t,
	}, nil
}

// Add packs one entity and appends its container to the stream.
func (p *Packer) Add(ent []byte) error {
	if ent == nil {
		return errs.ErrEntityNil
	}

	packed, err := p.codec.Compress(ent)
	if err != nil {
		return fmt.Errorf("archive %s: %w", p.t, err)
	}

	hdr := p.buf.ExtendOrGrow(containerHeaderSize)
	be := endian.GetBigEndianEngine()
	be.PutUint16(hdr[offMagic:], containerMagic)
	hdr[offVersion] = containerVersion
	hdr[offCodecType] = byte(p.t)
	be.PutUint32(hdr[offOrigSize:], uint32(len(ent)))
	be.PutUint32(hdr[offPackedSize:], uint32(len(packed)))

	p.buf.Write(packed) //nolint:errcheck // ByteBuffer.Write never fails

	return nil
}

// Bytes returns the stream built so far. The slice is invalidated by Close.
func (p *Packer) Bytes() []byte {
	return p.buf.Bytes()
}

// Close returns the internal buffer to its pool. The Packer must not be used
// afterwards; callers needing the stream copy it before closing.
func (p *Packer) Close() {
	pool.PutArchiveBuffer(p.buf)
	p.buf = nil
}

// Pack wraps a single entity in an archive container.
func Pack(ent []byte, t Type) ([]byte, error) {
	p, err := NewPacker(t)
	if err != nil {
		return nil, err
	}
	defer p.Close()

	if err := p.Add(ent); err != nil {
		return nil, err
	}

	out := make([]byte, p.buf.Len())
	copy(out, p.buf.Bytes())

	return out, nil
}

// next parses one container at the head of data and returns the unpacked
// entity and the remainder of the stream.
func next(data []byte) (ent, rest []byte, err error) {
	if len(data) < containerHeaderSize {
		return nil, nil, fmt.Errorf("%w: truncated archive container", errs.ErrDecoderCorruption)
	}

	be := endian.GetBigEndianEngine()
	if be.Uint16(data[offMagic:]) != containerMagic {
		return nil, nil, fmt.Errorf("%w: bad archive magic", errs.ErrDecoderCorruption)
	}
	if data[offVersion] != containerVersion {
		return nil, nil, fmt.Errorf("%w: archive container version %d", errs.ErrUnsupportedType, data[offVersion])
	}

	codec, err := GetCodec(Type(data[offCodecType]))
	if err != nil {
		return nil, nil, err
	}

	origSize := int(be.Uint32(data[offOrigSize:]))
	packedSize := int(be.Uint32(data[offPackedSize:]))
	if len(data)-containerHeaderSize < packedSize {
		return nil, nil, fmt.Errorf("%w: truncated archive payload", errs.ErrDecoderCorruption)
	}

	ent, err = codec.Decompress(data[containerHeaderSize : containerHeaderSize+packedSize])
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", errs.ErrDecoderCorruption, err)
	}
	if len(ent) != origSize {
		return nil, nil, fmt.Errorf("%w: unpacked %d bytes, container says %d",
			errs.ErrDecoderCorruption, len(ent), origSize)
	}

	return ent, data[containerHeaderSize+packedSize:], nil
}

// Unpack reverses Pack for a stream holding exactly one container.
func Unpack(data []byte) ([]byte, error) {
	ent, rest, err := next(data)
	if err != nil {
		return nil, err
	}
	if len(rest) != 0 {
		return nil, fmt.Errorf("%w: %d bytes after container", errs.ErrDecoderCorruption, len(rest))
	}

	return ent, nil
}

// UnpackAll walks a Packer stream and returns every entity in order.
func UnpackAll(data []byte) ([][]byte, error) {
	var ents [][]byte
	for len(data) > 0 {
		ent, rest, err := next(data)
		if err != nil {
			return nil, err
		}
		ents = append(ents, ent)
		data = rest
	}

	return ents, nil
}
