package archive

// NoOpCodec passes entity data through unchanged.
//
// Useful when an archive container format is required but the payload is
// already dense, and as a baseline in benchmarks.
type NoOpCodec struct{}

var _ Codec = NoOpCodec{}

// Compress returns the input slice as-is, without copying. The result shares
// memory with the input.
func (NoOpCodec) Compress(data []byte) ([]byte, error) {
	return data, nil
}

// Decompress returns the input slice as-is, without copying. The result
// shares memory with the input.
func (NoOpCodec) Decompress(data []byte) ([]byte, error) {
	return data, nil
}
