package vulkan

import (
	"fmt"
	"sync"

	"github.com/gogpu/rhi"
	"github.com/gogpu/wgpu/hal/vulkan/vk"
)

// PipelineLayout owns one native VkPipelineLayout. The set layouts it was
// built from are borrowed: they must outlive pipelines created with it,
// but not the PipelineLayout object itself.
type PipelineLayout struct {
	noCopy noCopy

	vf     Dispatch
	device vk.Device

	mu     sync.Mutex
	handle vk.PipelineLayout

	setLayouts    []vk.DescriptorSetLayout
	pushConstants []vk.PushConstantRange

	onDestroy func(*PipelineLayout)
}

// NewPipelineLayout creates a pipeline layout from live set layouts and
// push constant ranges. Every set layout must belong to device.
func NewPipelineLayout(vf Dispatch, device vk.Device, setLayouts []*DescriptorSetLayout,
	pushConstants []vk.PushConstantRange, debugName string,
) (*PipelineLayout, error) {
	if vf == nil {
		return nil, ErrNoDispatch
	}
	handles := make([]vk.DescriptorSetLayout, len(setLayouts))
	for i, sl := range setLayouts {
		if sl == nil {
			return nil, fmt.Errorf("%w: vulkan: set layout %d is nil", rhi.ErrInvalidArgument, i)
		}
		if sl.device != device {
			return nil, fmt.Errorf("%w: vulkan: set layout %d belongs to another device", rhi.ErrInvalidArgument, i)
		}
		if handles[i] = sl.Handle(); handles[i] == 0 {
			return nil, fmt.Errorf("%w: %w: set %d (%q)", rhi.ErrInvalidOperation, ErrLayoutDestroyed, i, sl.debugName)
		}
	}
	for i, pc := range pushConstants {
		if pc.Size == 0 || pc.Size%4 != 0 || pc.Offset%4 != 0 {
			return nil, fmt.Errorf("%w: vulkan: push constant range %d (offset %d, size %d) is not 4-byte aligned",
				rhi.ErrInvalidArgument, i, pc.Offset, pc.Size)
		}
	}

	p := &PipelineLayout{
		vf:            vf,
		device:        device,
		setLayouts:    handles,
		pushConstants: append([]vk.PushConstantRange(nil), pushConstants...),
	}
	info := vk.PipelineLayoutCreateInfo{
		SType:                  vk.StructureTypePipelineLayoutCreateInfo,
		SetLayoutCount:         uint32(len(p.setLayouts)),
		PushConstantRangeCount: uint32(len(p.pushConstants)),
	}
	if len(p.setLayouts) > 0 {
		info.PSetLayouts = &p.setLayouts[0]
	}
	if len(p.pushConstants) > 0 {
		info.PPushConstantRanges = &p.pushConstants[0]
	}

	var handle vk.PipelineLayout
	if r := vf.CreatePipelineLayout(device, &info, nil, &handle); r != vk.Success {
		return nil, resultErr("vkCreatePipelineLayout", r)
	}
	p.handle = handle
	setObjectName(vf, device, vk.ObjectTypePipelineLayout, uint64(handle), debugName)
	return p, nil
}

// Handle returns the native handle, or 0 after Destroy.
func (p *PipelineLayout) Handle() vk.PipelineLayout {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.handle
}

// SetLayouts returns the borrowed set layout handles in set order.
func (p *PipelineLayout) SetLayouts() []vk.DescriptorSetLayout {
	return append([]vk.DescriptorSetLayout(nil), p.setLayouts...)
}

// Destroy releases the native layout. Later calls do nothing.
func (p *PipelineLayout) Destroy() {
	p.mu.Lock()
	handle := p.handle
	p.handle = 0
	onDestroy := p.onDestroy
	p.onDestroy = nil
	p.mu.Unlock()
	if handle == 0 {
		return
	}
	p.vf.DestroyPipelineLayout(p.device, handle, nil)
	if onDestroy != nil {
		onDestroy(p)
	}
}
