package options

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

var errBadLevel = errors.New("level out of range")

// packerConfig mimics the configurable types of the module: one fallible
// knob, two infallible ones.
type packerConfig struct {
	level   int
	label   string
	checked bool
}

func (c *packerConfig) setLevel(level int) error {
	if level < 0 || level > 19 {
		return errBadLevel
	}
	c.level = level

	return nil
}

func TestOption_New(t *testing.T) {
	t.Run("applies the wrapped function", func(t *testing.T) {
		cfg := &packerConfig{}
		opt := New(func(c *packerConfig) error {
			return c.setLevel(7)
		})

		require.NoError(t, opt.apply(cfg))
		require.Equal(t, 7, cfg.level)
	})

	t.Run("propagates the validation error", func(t *testing.T) {
		cfg := &packerConfig{}
		opt := New(func(c *packerConfig) error {
			return c.setLevel(-1)
		})

		require.ErrorIs(t, opt.apply(cfg), errBadLevel)
	})
}

func TestOption_NoError(t *testing.T) {
	cfg := &packerConfig{}
	opt := NoError(func(c *packerConfig) {
		c.label = "telemetry"
	})

	require.NoError(t, opt.apply(cfg))
	require.Equal(t, "telemetry", cfg.label)
}

func TestOption_Apply(t *testing.T) {
	t.Run("applies in order", func(t *testing.T) {
		cfg := &packerConfig{}
		err := Apply(cfg,
			New(func(c *packerConfig) error { return c.setLevel(3) }),
			NoError(func(c *packerConfig) { c.label = "a" }),
			NoError(func(c *packerConfig) { c.label = "b" }),
			NoError(func(c *packerConfig) { c.checked = true }),
		)

		require.NoError(t, err)
		require.Equal(t, 3, cfg.level)
		require.Equal(t, "b", cfg.label)
		require.True(t, cfg.checked)
	})

	t.Run("stops at the first error", func(t *testing.T) {
		cfg := &packerConfig{}
		err := Apply(cfg,
			NoError(func(c *packerConfig) { c.label = "set" }),
			New(func(c *packerConfig) error { return c.setLevel(99) }),
			NoError(func(c *packerConfig) { c.checked = true }),
		)

		require.ErrorIs(t, err, errBadLevel)
		require.Equal(t, "set", cfg.label)
		require.False(t, cfg.checked, "options after the failing one must not run")
	})

	t.Run("no options is a no-op", func(t *testing.T) {
		cfg := &packerConfig{level: 5}
		require.NoError(t, Apply(cfg))
		require.Equal(t, 5, cfg.level)
	})
}

func TestOption_OtherTargetTypes(t *testing.T) {
	var n int
	opt := NoError(func(p *int) { *p = 42 })
	require.NoError(t, opt.apply(&n))
	require.Equal(t, 42, n)
}
