//go:build gozstd

package archive

import (
	"github.com/valyala/gozstd"
)

// Compress compresses the input data using the cgo Zstandard bindings.
func (ZstdCodec) Compress(data []byte) ([]byte, error) {
	return gozstd.CompressLevel(nil, data, 3), nil
}

// Decompress decompresses Zstandard data using the cgo bindings.
func (ZstdCodec) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return gozstd.Decompress(nil, data)
}
