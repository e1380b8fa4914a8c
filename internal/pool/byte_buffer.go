// Package pool provides pooled byte buffers for assembling entities and
// archive streams without per-call allocations.
package pool

import (
	"io"
	"sync"
)

const (
	// EntityBufferDefaultSize fits typical single-entity output.
	EntityBufferDefaultSize = 64 * 1024
	// EntityBufferMaxThreshold caps buffers retained by the entity pool.
	EntityBufferMaxThreshold = 1024 * 1024
	// ArchiveBufferDefaultSize fits a small batch of packed entities.
	ArchiveBufferDefaultSize = 1024 * 1024
	// ArchiveBufferMaxThreshold caps buffers retained by the archive pool.
	ArchiveBufferMaxThreshold = 32 * 1024 * 1024
)

// ByteBuffer is a grow-only byte slice wrapper reused through a pool.
type ByteBuffer struct {
	// B is the underlying byte slice.
	B []byte
}

// NewByteBuffer creates a ByteBuffer with the given initial capacity.
func NewByteBuffer(defaultSize int) *ByteBuffer {
	return &ByteBuffer{
		B: make([]byte, 0, defaultSize),
	}
}

// Bytes returns the underlying byte slice.
func (bb *ByteBuffer) Bytes() []byte {
	return bb.B
}

// Reset empties the buffer while retaining its capacity.
func (bb *ByteBuffer) Reset() {
	bb.B = bb.B[:0]
}

// Len returns the length of the buffer.
func (bb *ByteBuffer) Len() int {
	return len(bb.B)
}

// Cap returns the capacity of the buffer.
func (bb *ByteBuffer) Cap() int {
	return cap(bb.B)
}

// ExtendOrGrow appends n uninitialized bytes and returns their slice.
func (bb *ByteBuffer) ExtendOrGrow(n int) []byte {
	start := len(bb.B)
	if cap(bb.B)-start < n {
		bb.grow(n)
	}
	bb.B = bb.B[:start+n]

	return bb.B[start:]
}

// grow reallocates so at least requiredBytes more fit. Small buffers grow by
// the default entity size, larger ones by a quarter of their capacity.
func (bb *ByteBuffer) grow(requiredBytes int) {
	growBy := EntityBufferDefaultSize
	if cap(bb.B) > 4*EntityBufferDefaultSize {
		growBy = cap(bb.B) / 4
	}
	if growBy < requiredBytes {
		growBy = requiredBytes
	}

	newBuf := make([]byte, len(bb.B), len(bb.B)+growBy)
	copy(newBuf, bb.B)
	bb.B = newBuf
}

// Write appends data to the buffer, growing it as needed. It never fails.
func (bb *ByteBuffer) Write(data []byte) (int, error) {
	bb.B = append(bb.B, data...)
	return len(data), nil
}

// WriteTo writes the contents of the buffer to w.
func (bb *ByteBuffer) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(bb.B)
	return int64(n), err
}

// ByteBufferPool is a sync.Pool of ByteBuffers with an upper retention bound
// so one oversized entity does not pin memory forever.
type ByteBufferPool struct {
	pool         sync.Pool
	maxThreshold int
}

// NewByteBufferPool creates a pool handing out buffers of defaultSize and
// discarding returned buffers larger than maxThreshold.
func NewByteBufferPool(defaultSize int, maxThreshold int) *ByteBufferPool {
	return &ByteBufferPool{
		pool: sync.Pool{
			New: func() any {
				return NewByteBuffer(defaultSize)
			},
		},
		maxThreshold: maxThreshold,
	}
}

// Get retrieves an empty ByteBuffer from the pool.
func (bbp *ByteBufferPool) Get() *ByteBuffer {
	bb, _ := bbp.pool.Get().(*ByteBuffer)
	return bb
}

// Put returns a ByteBuffer to the pool for reuse.
func (bbp *ByteBufferPool) Put(bb *ByteBuffer) {
	if bb == nil {
		return
	}
	if bbp.maxThreshold > 0 && cap(bb.B) > bbp.maxThreshold {
		return
	}

	bb.Reset()
	bbp.pool.Put(bb)
}

var (
	entityPool  = NewByteBufferPool(EntityBufferDefaultSize, EntityBufferMaxThreshold)
	archivePool = NewByteBufferPool(ArchiveBufferDefaultSize, ArchiveBufferMaxThreshold)
)

// GetEntityBuffer retrieves a ByteBuffer sized for single-entity output.
func GetEntityBuffer() *ByteBuffer {
	return entityPool.Get()
}

// PutEntityBuffer returns a ByteBuffer to the entity pool.
func PutEntityBuffer(bb *ByteBuffer) {
	entityPool.Put(bb)
}

// GetArchiveBuffer retrieves a ByteBuffer sized for packed entity batches.
func GetArchiveBuffer() *ByteBuffer {
	return archivePool.Get()
}

// PutArchiveBuffer returns a ByteBuffer to the archive pool.
func PutArchiveBuffer(bb *ByteBuffer) {
	archivePool.Put(bb)
}
