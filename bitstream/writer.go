// Package bitstream provides ordered bit-level access to byte buffers.
//
// The stream is big-endian at the bit level: bit 0 of byte 0 is the most
// significant bit of the stream. This order is mandated by the entity wire
// format and is independent of host byte order.
//
// Both Writer and Reader operate on caller-owned buffers and never allocate.
// A Writer constructed without a destination buffer performs a dry run: it
// accepts the same sequence of writes, enforces the same capacity limit, and
// reports the same resulting bit length, without storing anything. This is
// the sizing mechanism used throughout the chunk compressor.
package bitstream

import (
	"github.com/stelpack/stelpack/errs"
)

// Writer appends bits to a byte buffer, most significant bit first.
//
// Bits are accumulated in a 64-bit register and flushed to the destination in
// whole bytes. Call Flush once after the last write to emit the trailing
// partial byte (zero padded).
//
// Writer is not safe for concurrent use.
type Writer struct {
	dst      []byte
	bitBuf   uint64 // pending bits, right-aligned
	bitCount int    // valid bits in bitBuf, always < 64 between calls
	bytePos  int    // bytes already flushed into dst
	written  int    // total bits accepted
	maxBits  int    // capacity limit in bits, < 0 means unlimited
}

// NewWriter creates a Writer over dst. A nil dst creates a dry-run writer
// with unlimited capacity that only counts bits.
func NewWriter(dst []byte) *Writer {
	if dst == nil {
		return &Writer{maxBits: -1}
	}

	return &Writer{dst: dst, maxBits: len(dst) * 8}
}

// NewWriterLimit creates a Writer over dst with an explicit capacity limit in
// bits. The limit must not exceed the buffer size; it may be smaller, which
// the chunk compressor uses to reserve headroom. A nil dst combined with a
// negative limit gives an unlimited dry-run writer.
func NewWriterLimit(dst []byte, maxBits int) *Writer {
	if dst != nil && maxBits > len(dst)*8 {
		maxBits = len(dst) * 8
	}

	return &Writer{dst: dst, maxBits: maxBits}
}

// Put32 writes the low n bits of v to the stream, 1 to 32 bits at a time.
//
// Returns errs.ErrBufferTooSmall when the write would exceed the capacity
// limit, and errs.ErrParamBuffer when n is out of range. On error the stream
// is unchanged.
func (w *Writer) Put32(v uint32, n int) error {
	if n < 1 || n > 32 {
		return errs.ErrParamBuffer
	}
	if w.maxBits >= 0 && w.written+n > w.maxBits {
		return errs.ErrBufferTooSmall
	}
	w.written += n

	if n < 32 {
		v &= (1 << n) - 1
	}

	w.bitBuf = (w.bitBuf << n) | uint64(v)
	w.bitCount += n
	if w.bitCount >= 32 {
		w.flush32()
	}

	return nil
}

// PutBit writes a single bit.
func (w *Writer) PutBit(bit uint32) error {
	return w.Put32(bit&1, 1)
}

// flush32 moves whole bytes out of the bit register while at least 32 bits
// are pending, keeping room for the next Put32.
func (w *Writer) flush32() {
	for w.bitCount >= 8 {
		b := byte(w.bitBuf >> (w.bitCount - 8))
		if w.dst != nil {
			w.dst[w.bytePos] = b
		}
		w.bytePos++
		w.bitCount -= 8
	}
	w.bitBuf &= (1 << w.bitCount) - 1
}

// BitsWritten returns the total number of bits accepted so far, including
// bits still pending in the register.
func (w *Writer) BitsWritten() int {
	return w.written
}

// Flush emits any pending partial byte, padding with zero bits, and returns
// the total stream length in bytes.
func (w *Writer) Flush() int {
	w.flush32()
	if w.bitCount > 0 {
		b := byte(w.bitBuf << (8 - w.bitCount))
		if w.dst != nil {
			w.dst[w.bytePos] = b
		}
		w.bytePos++
		w.bitBuf = 0
		w.bitCount = 0
		// padding bits count toward the stream length
		w.written = w.bytePos * 8
	}

	return w.bytePos
}

// PadToWord pads the stream with zero bits up to the next 32-bit boundary and
// flushes. Returns the resulting byte length.
func (w *Writer) PadToWord() (int, error) {
	pad := (32 - w.written%32) % 32
	for pad > 0 {
		n := pad
		if n > 32 {
			n = 32
		}
		if err := w.Put32(0, n); err != nil {
			return 0, err
		}
		pad -= n
	}

	return w.Flush(), nil
}
