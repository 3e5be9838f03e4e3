package halbridge

import (
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/rhi"
	"github.com/gogpu/wgpu/hal"
)

// Opened is a hal device together with the objects it was opened from.
type Opened struct {
	Instance hal.Instance
	Adapter  hal.Adapter
	Info     gputypes.AdapterInfo
	Features gputypes.Features
	Limits   gputypes.Limits
	Device   hal.Device
	Queue    hal.Queue

	// borrowed devices belong to a gpucontext.DeviceProvider.
	borrowed bool
}

// Open creates an instance for backend, selects an adapter and opens a
// device on it.
func Open(backend rhi.BackendType, cfg rhi.Config) (*Opened, error) {
	hb := cfg.HALBackend
	if hb == nil {
		var ok bool
		hb, ok = hal.GetBackend(backend.Variant())
		if !ok {
			return nil, fmt.Errorf("%w: no hal backend for %s (import github.com/gogpu/wgpu/hal/allbackends)",
				rhi.ErrBackendNotAvailable, backend)
		}
	}

	inst, err := hb.CreateInstance(&hal.InstanceDescriptor{
		Backends: gputypes.Backends(1) << hb.Variant(),
		Flags:    cfg.InstanceFlags,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: create %s instance: %w", rhi.ErrBackend, backend, err)
	}

	exposed, ok := SelectAdapter(inst.EnumerateAdapters(nil), cfg.PowerPreference)
	if !ok {
		inst.Destroy()
		return nil, fmt.Errorf("%w: %s reports no adapters", rhi.ErrBackendNotAvailable, backend)
	}
	if !exposed.Features.ContainsAll(cfg.Features) {
		inst.Destroy()
		return nil, fmt.Errorf("%w: adapter %q lacks requested features %#x",
			rhi.ErrUnsupported, exposed.Info.Name, uint64(cfg.Features&^exposed.Features))
	}

	limits := exposed.Capabilities.Limits
	if cfg.Limits != nil {
		limits = *cfg.Limits
	}
	od, err := exposed.Adapter.Open(cfg.Features, limits)
	if err != nil {
		inst.Destroy()
		return nil, fmt.Errorf("%w: open adapter %q: %w", rhi.ErrBackend, exposed.Info.Name, err)
	}

	rhi.Logger().Info("rhi: adapter selected",
		"backend", backend.String(),
		"adapter", exposed.Info.Name,
		"type", exposed.Info.DeviceType.String())

	return &Opened{
		Instance: inst,
		Adapter:  exposed.Adapter,
		Info:     exposed.Info,
		Features: cfg.Features,
		Limits:   limits,
		Device:   od.Device,
		Queue:    od.Queue,
	}, nil
}

// FromProvider wraps the device of a gpucontext.DeviceProvider. The
// provider keeps ownership: Destroy leaves its device alone.
func FromProvider(p gpucontext.DeviceProvider) (*Opened, error) {
	if p == nil {
		return nil, fmt.Errorf("%w: nil device provider", rhi.ErrInvalidArgument)
	}
	dev, ok := p.Device().(hal.Device)
	if !ok {
		return nil, fmt.Errorf("%w: provider device %T is not a hal.Device", rhi.ErrInvalidArgument, p.Device())
	}
	queue, ok := p.Queue().(hal.Queue)
	if !ok {
		return nil, fmt.Errorf("%w: provider queue %T is not a hal.Queue", rhi.ErrInvalidArgument, p.Queue())
	}
	adapter, _ := p.Adapter().(hal.Adapter)
	info := p.AdapterInfo()
	return &Opened{
		Adapter:  adapter,
		Info:     gputypes.AdapterInfo{Name: info.Name, DeviceType: deviceType(info.Type)},
		Limits:   gputypes.DefaultLimits(),
		Device:   dev,
		Queue:    queue,
		borrowed: true,
	}, nil
}

// Destroy releases the device, then the instance.
func (o *Opened) Destroy() {
	if o == nil || o.borrowed {
		return
	}
	if o.Device != nil {
		o.Device.Destroy()
		o.Device = nil
	}
	if o.Adapter != nil {
		o.Adapter.Destroy()
		o.Adapter = nil
	}
	if o.Instance != nil {
		o.Instance.Destroy()
		o.Instance = nil
	}
}

// AdapterInfo converts the adapter metadata for gpucontext consumers.
func (o *Opened) AdapterInfo() gpucontext.AdapterInfo {
	return gpucontext.AdapterInfo{Name: o.Info.Name, Type: adapterType(o.Info.DeviceType)}
}

// SelectAdapter picks the adapter matching pref. Without a preference the
// first hardware adapter wins; CPU adapters are chosen only when nothing
// else exists.
func SelectAdapter(adapters []hal.ExposedAdapter, pref gputypes.PowerPreference) (hal.ExposedAdapter, bool) {
	if len(adapters) == 0 {
		return hal.ExposedAdapter{}, false
	}
	want := gputypes.DeviceTypeOther
	switch pref {
	case gputypes.PowerPreferenceHighPerformance:
		want = gputypes.DeviceTypeDiscreteGPU
	case gputypes.PowerPreferenceLowPower:
		want = gputypes.DeviceTypeIntegratedGPU
	}
	if want != gputypes.DeviceTypeOther {
		for _, a := range adapters {
			if a.Info.DeviceType == want {
				return a, true
			}
		}
	}
	for _, a := range adapters {
		if a.Info.DeviceType != gputypes.DeviceTypeCPU {
			return a, true
		}
	}
	return adapters[0], true
}

func adapterType(t gputypes.DeviceType) gpucontext.AdapterType {
	switch t {
	case gputypes.DeviceTypeDiscreteGPU:
		return gpucontext.AdapterTypeDiscrete
	case gputypes.DeviceTypeIntegratedGPU:
		return gpucontext.AdapterTypeIntegrated
	case gputypes.DeviceTypeCPU:
		return gpucontext.AdapterTypeSoftware
	default:
		return gpucontext.AdapterTypeUnknown
	}
}

func deviceType(t gpucontext.AdapterType) gputypes.DeviceType {
	switch t {
	case gpucontext.AdapterTypeDiscrete:
		return gputypes.DeviceTypeDiscreteGPU
	case gpucontext.AdapterTypeIntegrated:
		return gputypes.DeviceTypeIntegratedGPU
	case gpucontext.AdapterTypeSoftware:
		return gputypes.DeviceTypeCPU
	default:
		return gputypes.DeviceTypeOther
	}
}
