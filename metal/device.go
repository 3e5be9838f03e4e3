package metal

import (
	"sync"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/rhi"
	"github.com/gogpu/rhi/internal/halbridge"
	"github.com/gogpu/wgpu/hal"
)

func init() {
	rhi.Register(rhi.BackendMetal, func(cfg rhi.Config) (rhi.Device, error) {
		return NewDevice(cfg)
	})
}

// Device is a Metal rhi.Device.
type Device struct {
	rhi.DeviceBase
	*halbridge.Factory
	halbridge.Provider

	opened   *halbridge.Opened
	platform *PlatformDevice

	closeOnce sync.Once
}

var (
	_ rhi.Device                = (*Device)(nil)
	_ gpucontext.DeviceProvider = (*Device)(nil)
)

// PlatformDevice exposes the hal Metal objects behind the device.
type PlatformDevice struct {
	device  hal.Device
	queue   hal.Queue
	adapter gputypes.AdapterInfo
}

func (*PlatformDevice) PlatformType() rhi.PlatformDeviceType { return rhi.PlatformDeviceMetal }

// HAL returns the hal device and queue. They stay owned by the rhi device.
func (p *PlatformDevice) HAL() (hal.Device, hal.Queue) { return p.device, p.queue }

// AdapterInfo describes the GPU the device runs on.
func (p *PlatformDevice) AdapterInfo() gputypes.AdapterInfo { return p.adapter }

// NewDevice opens a Metal device as configured by cfg.
func NewDevice(cfg rhi.Config) (*Device, error) {
	opened, err := halbridge.Open(rhi.BackendMetal, cfg)
	if err != nil {
		return nil, err
	}
	return newDevice(opened, cfg), nil
}

// NewDeviceFromProvider wraps a Metal device owned by another gogpu library.
func NewDeviceFromProvider(p gpucontext.DeviceProvider, opts ...rhi.Option) (*Device, error) {
	opened, err := halbridge.FromProvider(p)
	if err != nil {
		return nil, err
	}
	return newDevice(opened, rhi.NewConfig(opts...)), nil
}

func newDevice(opened *halbridge.Opened, cfg rhi.Config) *Device {
	d := &Device{
		opened: opened,
		platform: &PlatformDevice{
			device:  opened.Device,
			queue:   opened.Queue,
			adapter: opened.Info,
		},
	}
	d.Init(rhi.BackendMetal, rhi.ZRangeZeroToOne, d.platform, cfg)
	d.Factory = halbridge.New(halbridge.Config{
		Base:     &d.DeviceBase,
		Device:   opened.Device,
		Queue:    opened.Queue,
		Adapter:  opened.Adapter,
		Limits:   opened.Limits,
		Features: opened.Features,
		Native: map[rhi.DeviceFeature]bool{
			rhi.FeatureCompute:              true,
			rhi.FeatureTexture3D:            true,
			rhi.FeatureTextureArray:         true,
			rhi.FeatureTextureCube:          true,
			rhi.FeatureMultiSample:          true,
			rhi.FeatureStorageBuffers:       true,
			rhi.FeatureDepthCompare:         true,
			rhi.FeatureDepth32FloatStencil8: true,
		},
		Sanitize: Sanitize,
	})
	d.Provider = halbridge.NewProvider(opened, gputypes.TextureFormatBGRA8Unorm)
	return d
}

func (d *Device) Sanitize(desc rhi.TextureDesc) rhi.TextureDesc { return Sanitize(desc) }

// Sanitize applies the shared normalization and promotes packed 24-bit
// depth-stencil to 32-bit float depth.
func Sanitize(desc rhi.TextureDesc) rhi.TextureDesc {
	desc = rhi.SanitizeTextureDesc(desc)
	if desc.Format == gputypes.TextureFormatDepth24PlusStencil8 {
		desc.Format = gputypes.TextureFormatDepth32FloatStencil8
	}
	return desc
}

// Platform returns the Metal platform device.
func (d *Device) Platform() *PlatformDevice { return d.platform }

// Close destroys leftover resources, then the device.
func (d *Device) Close() error {
	d.closeOnce.Do(func() {
		d.Shutdown()
		d.opened.Destroy()
		rhi.Logger().Info("rhi: device closed", "backend", "metal")
	})
	return nil
}
