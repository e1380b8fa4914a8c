package chunk

import (
	"github.com/stelpack/stelpack/errs"
	"github.com/stelpack/stelpack/internal/options"
	"github.com/stelpack/stelpack/record"
	"github.com/stelpack/stelpack/transform"
)

// Option configures a Compressor.
type Option = options.Option[*Compressor]

// WithVersionID sets the version identifier stamped into every entity header
// the compressor produces.
func WithVersionID(v uint16) Option {
	return options.NoError(func(c *Compressor) {
		c.versionID = v
	})
}

// WithTimestampSource replaces the wall-clock timestamp source. The function
// must return a 48-bit CUC-style timestamp; it is called once at the start
// and once at the end of every compression run.
func WithTimestampSource(now func() uint64) Option {
	return options.New(func(c *Compressor) error {
		if now == nil {
			return errs.ErrNilPointer
		}
		c.now = now

		return nil
	})
}

// WithMaxBitsLookup replaces the built-in maximum-bits registry lookup,
// allowing callers to serve registry versions the library does not ship.
func WithMaxBitsLookup(fn record.MaxBitsFunc) Option {
	return options.New(func(c *Compressor) error {
		if fn == nil {
			return errs.ErrNilPointer
		}
		c.maxBits = fn

		return nil
	})
}

func applyOptions(c *Compressor, opts ...Option) error {
	return options.Apply(c, opts...)
}

// decodeConfig carries the injected pieces a decompression run depends on.
type decodeConfig struct {
	maxBits     record.MaxBitsFunc
	modelUpdate transform.ModelUpdateFunc
}

// DecodeOption configures a call to Decompress.
type DecodeOption = options.Option[*decodeConfig]

// WithDecodeMaxBitsLookup replaces the built-in maximum-bits registry lookup
// for one decompression run.
func WithDecodeMaxBitsLookup(fn record.MaxBitsFunc) DecodeOption {
	return options.New(func(c *decodeConfig) error {
		if fn == nil {
			return errs.ErrNilPointer
		}
		c.maxBits = fn

		return nil
	})
}

// WithModelUpdate supplies the model update function for decompression runs
// that rebuild an updated-model buffer. It must be the same function the
// compressor used, otherwise the buffers diverge.
func WithModelUpdate(fn transform.ModelUpdateFunc) DecodeOption {
	return options.New(func(c *decodeConfig) error {
		if fn == nil {
			return errs.ErrNilPointer
		}
		c.modelUpdate = fn

		return nil
	})
}
