package bitstream

import (
	"encoding/binary"

	"github.com/stelpack/stelpack/errs"
)

// State describes the end-of-stream condition of a Reader.
type State int

const (
	// Unfinished means at least 57 unconsumed bits are buffered, so any code
	// word up to 32 bits can be peeked without another refill.
	Unfinished State = iota
	// EndOfBuffer means fewer bits remain than a full refill provides; reads
	// are still valid up to the remaining count.
	EndOfBuffer
	// AllReadIn means every bit of the source has been consumed exactly.
	AllReadIn
	// Overflow means a caller consumed more bits than the source ever held.
	// This signals corrupted or truncated input.
	Overflow
)

func (s State) String() string {
	switch s {
	case Unfinished:
		return "Unfinished"
	case EndOfBuffer:
		return "EndOfBuffer"
	case AllReadIn:
		return "AllReadIn"
	case Overflow:
		return "Overflow"
	}

	return "Unknown"
}

// Reader consumes a byte buffer as a big-endian bit sequence.
//
// A 64-bit register is refilled so that at least 57 unconsumed bits are
// buffered after each refill while source bytes remain. This guarantees any
// single code word up to 32 bits can be peeked without a second refill.
//
// Peeks beyond the end of the source observe zero bits; only consuming beyond
// the end puts the reader into the Overflow state. This lets a decoder count
// a unary prefix near the end of the stream and detect truncation when it
// tries to consume what is not there.
type Reader struct {
	data     []byte
	bytePos  int    // next source byte to load
	bitBuf   uint64 // left-aligned: MSB is the next stream bit
	bitCount int    // valid bits in bitBuf
	consumed int    // total bits consumed
	overflow bool
}

// NewReader creates a Reader over data.
func NewReader(data []byte) *Reader {
	r := &Reader{data: data}
	r.refill()

	return r
}

// refill tops the register up to at least 57 valid bits while bytes remain.
func (r *Reader) refill() {
	if r.bitCount >= 57 {
		return
	}

	// Fast path: load 8 bytes at once when the register is empty.
	if r.bitCount == 0 && len(r.data)-r.bytePos >= 8 {
		r.bitBuf = binary.BigEndian.Uint64(r.data[r.bytePos:])
		r.bytePos += 8
		r.bitCount = 64

		return
	}

	for r.bitCount <= 56 && r.bytePos < len(r.data) {
		r.bitBuf |= uint64(r.data[r.bytePos]) << (56 - r.bitCount)
		r.bitCount += 8
		r.bytePos++
	}
}

// Peek32 returns the next n bits (1..32) without consuming them. Bits beyond
// the end of the source read as zero.
func (r *Reader) Peek32(n int) uint32 {
	if n < 1 || n > 32 {
		return 0
	}
	if r.bitCount < n {
		r.refill()
	}

	return uint32(r.bitBuf >> (64 - n))
}

// Skip consumes n bits. Consuming past the end of the source sets the
// Overflow state and returns errs.ErrDecoderCorruption.
func (r *Reader) Skip(n int) error {
	if n < 0 {
		return errs.ErrParamBuffer
	}
	if r.bitCount < n {
		r.refill()
	}
	if n > r.bitCount {
		r.overflow = true
		return errs.ErrDecoderCorruption
	}

	r.bitBuf <<= n
	r.bitCount -= n
	r.consumed += n

	return nil
}

// Read32 consumes and returns the next n bits (1..32).
func (r *Reader) Read32(n int) (uint32, error) {
	if n < 1 || n > 32 {
		return 0, errs.ErrParamBuffer
	}

	v := r.Peek32(n)
	if err := r.Skip(n); err != nil {
		return 0, err
	}

	return v, nil
}

// Consumed returns the number of bits consumed so far.
func (r *Reader) Consumed() int {
	return r.consumed
}

// Remaining returns the number of unconsumed bits left in the source.
func (r *Reader) Remaining() int {
	return len(r.data)*8 - r.consumed
}

// State reports the current end-of-stream condition.
func (r *Reader) State() State {
	switch {
	case r.overflow:
		return Overflow
	case r.consumed == len(r.data)*8:
		return AllReadIn
	case r.bitCount >= 57 || r.Remaining() >= 57:
		return Unfinished
	default:
		return EndOfBuffer
	}
}
