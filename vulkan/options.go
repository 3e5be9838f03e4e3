package vulkan

import (
	"github.com/gogpu/rhi"
	"github.com/gogpu/wgpu/hal/vulkan/vk"
)

type dispatchOption struct {
	vf     Dispatch
	device vk.Device
}

// WithDispatch gives the device the Vulkan function table and the native
// device handle used for descriptor-set and pipeline layouts. vf is
// borrowed and must outlive the device. Without it the platform device
// reports ErrNoDispatch.
func WithDispatch(vf Dispatch, device vk.Device) rhi.Option {
	return rhi.WithPlatformOption(dispatchOption{vf: vf, device: device})
}
