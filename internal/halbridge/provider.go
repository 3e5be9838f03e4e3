package halbridge

import (
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// Provider implements gpucontext.DeviceProvider over an opened device.
// Backend devices embed it so other gogpu libraries can share the device.
type Provider struct {
	opened *Opened
	format gputypes.TextureFormat
}

var _ gpucontext.DeviceProvider = Provider{}

// NewProvider returns a provider for o. format is the preferred surface
// format of the backend.
func NewProvider(o *Opened, format gputypes.TextureFormat) Provider {
	return Provider{opened: o, format: format}
}

// Device returns the hal.Device.
func (p Provider) Device() gpucontext.Device { return p.opened.Device }

// Queue returns the hal.Queue.
func (p Provider) Queue() gpucontext.Queue { return p.opened.Queue }

// SurfaceFormat returns the preferred surface format.
func (p Provider) SurfaceFormat() gputypes.TextureFormat { return p.format }

// Adapter returns the hal.Adapter, or nil for borrowed devices without one.
func (p Provider) Adapter() gpucontext.Adapter {
	if p.opened.Adapter == nil {
		return nil
	}
	return p.opened.Adapter
}

// AdapterInfo describes the adapter.
func (p Provider) AdapterInfo() gpucontext.AdapterInfo { return p.opened.AdapterInfo() }
