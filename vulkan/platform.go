// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package vulkan

import (
	"fmt"
	"sync"

	"github.com/gogpu/rhi"
	"github.com/gogpu/wgpu/hal/vulkan/vk"
)

// DescriptorSetLayoutDesc describes a native descriptor-set layout.
type DescriptorSetLayoutDesc struct {
	Flags        vk.DescriptorSetLayoutCreateFlags
	Bindings     []vk.DescriptorSetLayoutBinding
	BindingFlags []vk.DescriptorBindingFlags
	DebugName    string
}

// PipelineLayoutDesc describes a native pipeline layout.
type PipelineLayoutDesc struct {
	SetLayouts    []*DescriptorSetLayout
	PushConstants []vk.PushConstantRange
	DebugName     string
}

// PlatformDevice exposes the native Vulkan operations of a Device.
// Obtain it with rhi.GetPlatformDevice[*vulkan.PlatformDevice].
//
// It is safe for concurrent use. Layouts still alive when the device
// closes are destroyed then.
type PlatformDevice struct {
	base   *rhi.DeviceBase
	vf     Dispatch
	device vk.Device

	mu        sync.Mutex
	closed    bool
	setLayout map[*DescriptorSetLayout]struct{}
	pipeline  map[*PipelineLayout]struct{}
}

var _ rhi.PlatformDevice = (*PlatformDevice)(nil)

func newPlatformDevice(base *rhi.DeviceBase, vf Dispatch, device vk.Device) *PlatformDevice {
	return &PlatformDevice{
		base:      base,
		vf:        vf,
		device:    device,
		setLayout: make(map[*DescriptorSetLayout]struct{}),
		pipeline:  make(map[*PipelineLayout]struct{}),
	}
}

// PlatformType implements rhi.PlatformDevice.
func (*PlatformDevice) PlatformType() rhi.PlatformDeviceType { return rhi.PlatformDeviceVulkan }

// Dispatch returns the borrowed function table, or nil.
func (p *PlatformDevice) Dispatch() Dispatch { return p.vf }

// VkDevice returns the native device handle, or 0.
func (p *PlatformDevice) VkDevice() vk.Device { return p.device }

// CreateDescriptorSetLayout creates a tracked native layout. Its Destroy
// may be called at any time before the device closes.
func (p *PlatformDevice) CreateDescriptorSetLayout(desc DescriptorSetLayoutDesc, out *rhi.Result) *DescriptorSetLayout {
	p.base.CheckScope("CreateDescriptorSetLayout")
	if p.vf == nil {
		rhi.SetError(out, ErrNoDispatch)
		return nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		rhi.SetError(out, rhi.ErrDeviceClosed)
		return nil
	}
	l, err := NewDescriptorSetLayout(p.vf, p.device, desc.Flags, desc.Bindings, desc.BindingFlags, desc.DebugName)
	if err != nil {
		rhi.SetError(out, err)
		rhi.Logger().Debug("rhi: create failed", "op", "CreateDescriptorSetLayout", "backend", "vulkan", "err", err)
		return nil
	}
	ticket := p.base.Track(rhi.ResourceDescriptorSetLayout, desc.DebugName, 0)
	l.onDestroy = func(l *DescriptorSetLayout) {
		p.mu.Lock()
		delete(p.setLayout, l)
		p.mu.Unlock()
		ticket.Release()
	}
	p.setLayout[l] = struct{}{}
	rhi.SetOk(out)
	return l
}

// CreatePipelineLayout creates a tracked native pipeline layout.
func (p *PlatformDevice) CreatePipelineLayout(desc PipelineLayoutDesc, out *rhi.Result) *PipelineLayout {
	p.base.CheckScope("CreatePipelineLayout")
	if p.vf == nil {
		rhi.SetError(out, ErrNoDispatch)
		return nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		rhi.SetError(out, rhi.ErrDeviceClosed)
		return nil
	}
	for i, sl := range desc.SetLayouts {
		if _, ok := p.setLayout[sl]; !ok && sl != nil {
			err := fmt.Errorf("%w: vulkan: set layout %d was not created by this device or is destroyed", rhi.ErrInvalidArgument, i)
			rhi.SetError(out, err)
			return nil
		}
	}
	pl, err := NewPipelineLayout(p.vf, p.device, desc.SetLayouts, desc.PushConstants, desc.DebugName)
	if err != nil {
		rhi.SetError(out, err)
		rhi.Logger().Debug("rhi: create failed", "op", "CreatePipelineLayout", "backend", "vulkan", "err", err)
		return nil
	}
	ticket := p.base.Track(rhi.ResourcePipelineLayout, desc.DebugName, 0)
	pl.onDestroy = func(pl *PipelineLayout) {
		p.mu.Lock()
		delete(p.pipeline, pl)
		p.mu.Unlock()
		ticket.Release()
	}
	p.pipeline[pl] = struct{}{}
	rhi.SetOk(out)
	return pl
}

// LiveLayouts returns the number of descriptor-set and pipeline layouts
// not yet destroyed.
func (p *PlatformDevice) LiveLayouts() (setLayouts, pipelineLayouts int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.setLayout), len(p.pipeline)
}

// close destroys every live layout, pipeline layouts first, and refuses
// further creation.
func (p *PlatformDevice) close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	pipelines := make([]*PipelineLayout, 0, len(p.pipeline))
	for pl := range p.pipeline {
		pipelines = append(pipelines, pl)
	}
	sets := make([]*DescriptorSetLayout, 0, len(p.setLayout))
	for l := range p.setLayout {
		sets = append(sets, l)
	}
	p.mu.Unlock()

	for _, pl := range pipelines {
		rhi.Logger().Warn("rhi: resource leaked at device close", "kind", "PipelineLayout", "backend", "vulkan")
		pl.Destroy()
	}
	for _, l := range sets {
		rhi.Logger().Warn("rhi: resource leaked at device close",
			"kind", "DescriptorSetLayout", "label", l.debugName, "backend", "vulkan")
		l.Destroy()
	}
}
