// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package opengl

import (
	"sync"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/rhi"
	"github.com/gogpu/rhi/internal/halbridge"
	"github.com/gogpu/wgpu/hal"
)

func init() {
	rhi.Register(rhi.BackendOpenGL, func(cfg rhi.Config) (rhi.Device, error) {
		return NewDevice(cfg)
	})
}

// Device is an OpenGL rhi.Device.
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

// PlatformDevice exposes the hal GLES objects behind the device.
type PlatformDevice struct {
	device hal.Device
	queue  hal.Queue
}

func (*PlatformDevice) PlatformType() rhi.PlatformDeviceType { return rhi.PlatformDeviceOpenGL }

// HAL returns the hal device and queue. They stay owned by the rhi device.
func (p *PlatformDevice) HAL() (hal.Device, hal.Queue) { return p.device, p.queue }

// NewDevice opens an OpenGL device as configured by cfg.
func NewDevice(cfg rhi.Config) (*Device, error) {
	opened, err := halbridge.Open(rhi.BackendOpenGL, cfg)
	if err != nil {
		return nil, err
	}
	return newDevice(opened, cfg), nil
}

// NewDeviceFromProvider wraps a GLES device owned by another gogpu library.
func NewDeviceFromProvider(p gpucontext.DeviceProvider, opts ...rhi.Option) (*Device, error) {
	opened, err := halbridge.FromProvider(p)
	if err != nil {
		return nil, err
	}
	return newDevice(opened, rhi.NewConfig(opts...)), nil
}

func newDevice(opened *halbridge.Opened, cfg rhi.Config) *Device {
	d := &Device{
		opened:   opened,
		platform: &PlatformDevice{device: opened.Device, queue: opened.Queue},
	}
	d.Init(rhi.BackendOpenGL, rhi.ZRangeNegOneToOne, d.platform, cfg)
	d.Factory = halbridge.New(halbridge.Config{
		Base:     &d.DeviceBase,
		Device:   opened.Device,
		Queue:    opened.Queue,
		Adapter:  opened.Adapter,
		Limits:   opened.Limits,
		Features: opened.Features,
		// GLES 3.0 feature level; compute and storage buffers need 3.1.
		Native: map[rhi.DeviceFeature]bool{
			rhi.FeatureTexture3D:    true,
			rhi.FeatureTextureArray: true,
			rhi.FeatureTextureCube:  true,
			rhi.FeatureMultiSample:  true,
			rhi.FeatureDepthCompare: true,
		},
		Sanitize: Sanitize,
	})
	d.Provider = halbridge.NewProvider(opened, gputypes.TextureFormatRGBA8Unorm)
	return d
}

func (d *Device) Sanitize(desc rhi.TextureDesc) rhi.TextureDesc { return Sanitize(desc) }

// Sanitize applies the shared normalization, clamps sample counts to 1 or
// 4 and swaps BGRA8 formats for their RGBA8 equivalents.
func Sanitize(desc rhi.TextureDesc) rhi.TextureDesc {
	desc = rhi.SanitizeTextureDesc(desc)
	if desc.NumSamples > 1 {
		desc.NumSamples = 4
	}
	switch desc.Format {
	case gputypes.TextureFormatBGRA8Unorm:
		desc.Format = gputypes.TextureFormatRGBA8Unorm
	case gputypes.TextureFormatBGRA8UnormSrgb:
		desc.Format = gputypes.TextureFormatRGBA8UnormSrgb
	}
	return desc
}

// Platform returns the OpenGL platform device.
func (d *Device) Platform() *PlatformDevice { return d.platform }

// Close destroys leftover resources, then the device.
func (d *Device) Close() error {
	d.closeOnce.Do(func() {
		d.Shutdown()
		d.opened.Destroy()
		rhi.Logger().Info("rhi: device closed", "backend", "opengl")
	})
	return nil
}
