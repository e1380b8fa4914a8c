package archive

import "github.com/klauspost/compress/s2"

// S2Codec compresses entities with the S2 block format.
type S2Codec struct{}

var _ Codec = S2Codec{}

// Compress compresses the input data using S2.
func (S2Codec) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return s2.Encode(nil, data), nil
}

// Decompress decompresses the input data using S2.
func (S2Codec) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return s2.Decode(nil, data)
}
