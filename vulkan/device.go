package vulkan

import (
	"math/bits"
	"sync"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/rhi"
	"github.com/gogpu/rhi/internal/halbridge"
	"github.com/gogpu/wgpu/hal/vulkan/vk"
)

func init() {
	rhi.Register(rhi.BackendVulkan, func(cfg rhi.Config) (rhi.Device, error) {
		return NewDevice(cfg)
	})
}

// Device is a Vulkan rhi.Device.
//
// Device is not safe for concurrent creation calls; the PlatformDevice is.
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

// NewDevice opens a Vulkan device as configured by cfg.
func NewDevice(cfg rhi.Config) (*Device, error) {
	opened, err := halbridge.Open(rhi.BackendVulkan, cfg)
	if err != nil {
		return nil, err
	}
	return newDevice(opened, cfg), nil
}

// NewDeviceFromProvider wraps a device owned by another gogpu library.
// Close releases rhi resources but leaves the provider's device open.
func NewDeviceFromProvider(p gpucontext.DeviceProvider, opts ...rhi.Option) (*Device, error) {
	opened, err := halbridge.FromProvider(p)
	if err != nil {
		return nil, err
	}
	return newDevice(opened, rhi.NewConfig(opts...)), nil
}

func newDevice(opened *halbridge.Opened, cfg rhi.Config) *Device {
	d := &Device{opened: opened}
	var (
		vf     Dispatch
		handle vk.Device
	)
	if opt, ok := rhi.PlatformOption[dispatchOption](cfg); ok {
		vf, handle = opt.vf, opt.device
	}
	d.platform = newPlatformDevice(&d.DeviceBase, vf, handle)
	d.Init(rhi.BackendVulkan, rhi.ZRangeZeroToOne, d.platform, cfg)
	d.Factory = halbridge.New(halbridge.Config{
		Base:     &d.DeviceBase,
		Device:   opened.Device,
		Queue:    opened.Queue,
		Adapter:  opened.Adapter,
		Limits:   opened.Limits,
		Features: opened.Features,
		Native: map[rhi.DeviceFeature]bool{
			rhi.FeatureCompute:             true,
			rhi.FeatureTexture3D:           true,
			rhi.FeatureTextureArray:        true,
			rhi.FeatureTextureCube:         true,
			rhi.FeatureMultiSample:         true,
			rhi.FeatureStorageBuffers:      true,
			rhi.FeatureDepthCompare:        true,
			rhi.FeatureBindlessDescriptors: vf != nil,
		},
		Sanitize:    Sanitize,
		CompileWGSL: true,
	})
	d.Provider = halbridge.NewProvider(opened, gputypes.TextureFormatBGRA8Unorm)
	return d
}

// Sanitize applies the shared normalization and rounds sample counts down
// to a power of two.
func (d *Device) Sanitize(desc rhi.TextureDesc) rhi.TextureDesc { return Sanitize(desc) }

// Sanitize is the Vulkan texture normalization.
func Sanitize(desc rhi.TextureDesc) rhi.TextureDesc {
	desc = rhi.SanitizeTextureDesc(desc)
	if n := desc.NumSamples; n&(n-1) != 0 {
		desc.NumSamples = 1 << (bits.Len32(n) - 1)
	}
	return desc
}

// Platform returns the Vulkan platform device.
func (d *Device) Platform() *PlatformDevice { return d.platform }

// Close destroys leftover native layouts, then rhi resources, then the
// device. It is safe to call more than once.
func (d *Device) Close() error {
	d.closeOnce.Do(func() {
		d.platform.close()
		d.Shutdown()
		d.opened.Destroy()
		rhi.Logger().Info("rhi: device closed", "backend", "vulkan")
	})
	return nil
}
