package vulkan

import "github.com/gogpu/wgpu/hal/vulkan/vk"

// BindlessFlags is the binding flag set for a bindless descriptor array:
// variable count, partially bound and update-after-bind.
const BindlessFlags = vk.DescriptorBindingFlags(vk.DescriptorBindingVariableDescriptorCountBit |
	vk.DescriptorBindingPartiallyBoundBit |
	vk.DescriptorBindingUpdateAfterBindBit)

// BindlessBindings appends a bindless array binding of maxCount
// descriptors to bindings and returns the bindings with their matching
// flags. Existing bindings get no flags. Vulkan requires the variable
// count binding to have the highest binding number, so binding must exceed
// every existing one.
func BindlessBindings(
	bindings []vk.DescriptorSetLayoutBinding,
	binding uint32,
	descriptorType vk.DescriptorType,
	maxCount uint32,
	stages vk.ShaderStageFlags,
) ([]vk.DescriptorSetLayoutBinding, []vk.DescriptorBindingFlags) {
	out := make([]vk.DescriptorSetLayoutBinding, 0, len(bindings)+1)
	out = append(out, bindings...)
	out = append(out, vk.DescriptorSetLayoutBinding{
		Binding:         binding,
		DescriptorType:  descriptorType,
		DescriptorCount: maxCount,
		StageFlags:      stages,
	})
	flags := make([]vk.DescriptorBindingFlags, len(out))
	flags[len(out)-1] = BindlessFlags
	return out, flags
}
