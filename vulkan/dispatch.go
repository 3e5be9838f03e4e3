package vulkan

import "github.com/gogpu/wgpu/hal/vulkan/vk"

// Dispatch is the subset of the Vulkan function table this package calls.
// *vk.Commands satisfies it. A Dispatch is borrowed, never owned: it must
// outlive every object created through it.
type Dispatch interface {
	CreateDescriptorSetLayout(device vk.Device, info *vk.DescriptorSetLayoutCreateInfo, alloc *vk.AllocationCallbacks, out *vk.DescriptorSetLayout) vk.Result
	DestroyDescriptorSetLayout(device vk.Device, layout vk.DescriptorSetLayout, alloc *vk.AllocationCallbacks)
	CreatePipelineLayout(device vk.Device, info *vk.PipelineLayoutCreateInfo, alloc *vk.AllocationCallbacks, out *vk.PipelineLayout) vk.Result
	DestroyPipelineLayout(device vk.Device, layout vk.PipelineLayout, alloc *vk.AllocationCallbacks)
	SetDebugUtilsObjectNameEXT(device vk.Device, info *vk.DebugUtilsObjectNameInfoEXT) vk.Result
	HasDebugUtils() bool
}

var _ Dispatch = (*vk.Commands)(nil)
