// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package vulkan

import (
	"fmt"
	"runtime"
	"slices"
	"sync"
	"unsafe"

	"github.com/gogpu/rhi"
	"github.com/gogpu/wgpu/hal/vulkan/vk"
)

// Values from VK_EXT_descriptor_indexing (core in Vulkan 1.2) that the
// generated bindings do not name.
const (
	structureTypeDescriptorSetLayoutBindingFlagsCreateInfo vk.StructureType = 1000161000

	// DescriptorSetLayoutCreateUpdateAfterBindPool is
	// VK_DESCRIPTOR_SET_LAYOUT_CREATE_UPDATE_AFTER_BIND_POOL_BIT.
	DescriptorSetLayoutCreateUpdateAfterBindPool vk.DescriptorSetLayoutCreateFlags = 1 << 1
)

// noCopy makes go vet's copylocks check flag copies of the embedding
// struct.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// DescriptorSetLayout owns one native VkDescriptorSetLayout.
//
// The layout is immutable after creation and is destroyed exactly once,
// either by Destroy or by the owning PlatformDevice at device close. It
// must not be copied.
type DescriptorSetLayout struct {
	noCopy noCopy

	vf     Dispatch
	device vk.Device

	mu     sync.Mutex
	handle vk.DescriptorSetLayout

	flags        vk.DescriptorSetLayoutCreateFlags
	bindings     []vk.DescriptorSetLayoutBinding
	bindingFlags []vk.DescriptorBindingFlags
	debugName    string

	onDestroy func(*DescriptorSetLayout)
}

// NewDescriptorSetLayout creates a descriptor-set layout on device.
//
// bindingFlags is empty or holds one entry per binding; the entries are
// chained as VkDescriptorSetLayoutBindingFlagsCreateInfo. When any binding
// is update-after-bind, the UpdateAfterBindPool create flag is added.
// debugName, when set, names the object through VK_EXT_debug_utils.
//
// vf is borrowed. On failure no native object exists and the error wraps
// rhi.ErrInvalidArgument or rhi.ErrBackend.
func NewDescriptorSetLayout(
	vf Dispatch,
	device vk.Device,
	flags vk.DescriptorSetLayoutCreateFlags,
	bindings []vk.DescriptorSetLayoutBinding,
	bindingFlags []vk.DescriptorBindingFlags,
	debugName string,
) (*DescriptorSetLayout, error) {
	if vf == nil {
		return nil, ErrNoDispatch
	}
	if device == 0 {
		return nil, fmt.Errorf("%w: vulkan: null device handle", rhi.ErrInvalidArgument)
	}
	if len(bindingFlags) != 0 && len(bindingFlags) != len(bindings) {
		return nil, fmt.Errorf("%w: vulkan: %d binding flags for %d bindings",
			rhi.ErrInvalidArgument, len(bindingFlags), len(bindings))
	}
	for _, f := range bindingFlags {
		if f&vk.DescriptorBindingFlags(vk.DescriptorBindingUpdateAfterBindBit) != 0 {
			flags |= DescriptorSetLayoutCreateUpdateAfterBindPool
			break
		}
	}

	l := &DescriptorSetLayout{
		vf:           vf,
		device:       device,
		flags:        flags,
		bindings:     slices.Clone(bindings),
		bindingFlags: slices.Clone(bindingFlags),
		debugName:    debugName,
	}

	info := vk.DescriptorSetLayoutCreateInfo{
		SType:        vk.StructureTypeDescriptorSetLayoutCreateInfo,
		Flags:        flags,
		BindingCount: uint32(len(l.bindings)),
	}
	if len(l.bindings) > 0 {
		info.PBindings = &l.bindings[0]
	}
	var flagsInfo vk.DescriptorSetLayoutBindingFlagsCreateInfo
	if len(l.bindingFlags) > 0 {
		flagsInfo = vk.DescriptorSetLayoutBindingFlagsCreateInfo{
			SType:         structureTypeDescriptorSetLayoutBindingFlagsCreateInfo,
			BindingCount:  uint32(len(l.bindingFlags)),
			PBindingFlags: &l.bindingFlags[0],
		}
		info.PNext = (*uintptr)(unsafe.Pointer(&flagsInfo))
	}

	var handle vk.DescriptorSetLayout
	r := vf.CreateDescriptorSetLayout(device, &info, nil, &handle)
	runtime.KeepAlive(&flagsInfo)
	if r != vk.Success {
		return nil, resultErr("vkCreateDescriptorSetLayout", r)
	}
	if handle == 0 {
		return nil, fmt.Errorf("%w: vulkan: vkCreateDescriptorSetLayout returned a null handle", rhi.ErrBackend)
	}
	l.handle = handle

	setObjectName(vf, device, vk.ObjectTypeDescriptorSetLayout, uint64(handle), debugName)
	return l, nil
}

// Handle returns the native handle, or 0 after Destroy.
func (l *DescriptorSetLayout) Handle() vk.DescriptorSetLayout {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.handle
}

// Device returns the device the layout was created on.
func (l *DescriptorSetLayout) Device() vk.Device { return l.device }

// Flags returns the create flags, including any flag added for
// update-after-bind bindings.
func (l *DescriptorSetLayout) Flags() vk.DescriptorSetLayoutCreateFlags { return l.flags }

// Bindings returns a copy of the bindings.
func (l *DescriptorSetLayout) Bindings() []vk.DescriptorSetLayoutBinding {
	return slices.Clone(l.bindings)
}

// BindingFlags returns a copy of the per-binding flags. It is empty when
// none were given.
func (l *DescriptorSetLayout) BindingFlags() []vk.DescriptorBindingFlags {
	return slices.Clone(l.bindingFlags)
}

// DebugName returns the name given at creation.
func (l *DescriptorSetLayout) DebugName() string { return l.debugName }

// Destroy releases the native layout. Later calls do nothing. The GPU
// must no longer use the layout.
func (l *DescriptorSetLayout) Destroy() {
	l.mu.Lock()
	handle := l.handle
	l.handle = 0
	onDestroy := l.onDestroy
	l.onDestroy = nil
	l.mu.Unlock()
	if handle == 0 {
		return
	}
	l.vf.DestroyDescriptorSetLayout(l.device, handle, nil)
	if onDestroy != nil {
		onDestroy(l)
	}
}
