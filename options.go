package rhi

import (
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// Option configures device creation.
//
// Example:
//
//	counts := tracker.NewCounting()
//	dev, err := rhi.Open(rhi.BackendVulkan,
//	    rhi.WithResourceTracker(counts),
//	    rhi.WithPowerPreference(gputypes.PowerPreferenceHighPerformance),
//	)
type Option func(*Config)

// Config is the resolved set of options. Backends read it in their open
// function.
type Config struct {
	Tracker         ResourceTracker
	StrictScope     bool
	PowerPreference gputypes.PowerPreference
	Features        gputypes.Features
	// Limits overrides the adapter limits when non-nil.
	Limits *gputypes.Limits
	Label  string
	// HALBackend overrides the hal registry lookup.
	HALBackend    hal.Backend
	InstanceFlags gputypes.InstanceFlags
	// Platform holds backend-specific option values.
	Platform []any
}

// NewConfig applies opts over the defaults.
func NewConfig(opts ...Option) Config {
	var c Config
	for _, opt := range opts {
		if opt != nil {
			opt(&c)
		}
	}
	return c
}

// WithResourceTracker attaches t to the device at creation.
func WithResourceTracker(t ResourceTracker) Option {
	return func(c *Config) {
		c.Tracker = t
	}
}

// WithStrictScope makes VerifyScope fail outside a DeviceScope and turns
// unscoped creation calls into contract violations.
func WithStrictScope() Option {
	return func(c *Config) {
		c.StrictScope = true
	}
}

// WithPowerPreference selects between integrated and discrete adapters.
func WithPowerPreference(p gputypes.PowerPreference) Option {
	return func(c *Config) {
		c.PowerPreference = p
	}
}

// WithFeatures requests optional features. Opening fails with
// ErrUnsupported when the adapter lacks one.
func WithFeatures(f gputypes.Features) Option {
	return func(c *Config) {
		c.Features = f
	}
}

// WithLimits requests specific limits instead of the adapter's.
func WithLimits(l gputypes.Limits) Option {
	return func(c *Config) {
		c.Limits = &l
	}
}

// WithLabel names the device in logs and debuggers.
func WithLabel(label string) Option {
	return func(c *Config) {
		c.Label = label
	}
}

// WithHALBackend opens the device on b instead of the backend registered
// with hal for the requested variant.
func WithHALBackend(b hal.Backend) Option {
	return func(c *Config) {
		c.HALBackend = b
	}
}

// WithInstanceFlags sets instance flags such as validation layers.
func WithInstanceFlags(f gputypes.InstanceFlags) Option {
	return func(c *Config) {
		c.InstanceFlags = f
	}
}

// WithPlatformOption passes a backend-specific value through. Backend
// packages wrap it in their own typed option constructors.
func WithPlatformOption(v any) Option {
	return func(c *Config) {
		c.Platform = append(c.Platform, v)
	}
}

// PlatformOption returns the last platform option of type T.
func PlatformOption[T any](c Config) (T, bool) {
	for i := len(c.Platform) - 1; i >= 0; i-- {
		if v, ok := c.Platform[i].(T); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}
