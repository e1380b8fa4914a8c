package archive

// ZstdCodec compresses entities with Zstandard, trading speed for ratio.
//
// The default build uses the pure-Go implementation. Building with the
// gozstd tag switches to the cgo bindings of the reference library, which
// compress faster on large raw-mode entities at the cost of a C toolchain
// dependency.
type ZstdCodec struct{}

var _ Codec = ZstdCodec{}
