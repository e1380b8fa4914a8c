// Package hash derives stable identifiers from byte content.
package hash

import "github.com/cespare/xxhash/v2"

// ID64 computes the xxHash64 fingerprint of data. Model buffers hashed with
// the same content always produce the same identifier, on any platform.
func ID64(data []byte) uint64 {
	return xxhash.Sum64(data)
}

// ID16 folds the 64-bit fingerprint into the 16-bit identifier space used by
// entity headers. All four 16-bit lanes contribute so that buffers differing
// anywhere in the hash still tend to differ in the short identifier.
func ID16(data []byte) uint16 {
	h := xxhash.Sum64(data)
	return uint16(h) ^ uint16(h>>16) ^ uint16(h>>32) ^ uint16(h>>48)
}
