package vulkan

import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/gogpu/wgpu/hal/vulkan/vk"
)

// call is one recorded Dispatch call.
type call struct {
	name     string
	flags    vk.DescriptorSetLayoutCreateFlags
	bindings []vk.DescriptorSetLayoutBinding
	bflags   []vk.DescriptorBindingFlags
	sets     []vk.DescriptorSetLayout
	handle   uint64
	label    string
}

// mockDispatch records every call and hands out increasing handles.
type mockDispatch struct {
	mu         sync.Mutex
	calls      []call
	next       uint64
	debugUtils bool
	createErr  vk.Result
}

var _ Dispatch = (*mockDispatch)(nil)

func newMock() *mockDispatch { return &mockDispatch{next: 0x1000, debugUtils: true} }

func (m *mockDispatch) record(c call) {
	m.mu.Lock()
	m.calls = append(m.calls, c)
	m.mu.Unlock()
}

func (m *mockDispatch) names() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.calls))
	for i, c := range m.calls {
		out[i] = c.name
	}
	return out
}

func (m *mockDispatch) count(name string) int {
	n := 0
	for _, got := range m.names() {
		if got == name {
			n++
		}
	}
	return n
}

func (m *mockDispatch) CreateDescriptorSetLayout(_ vk.Device, info *vk.DescriptorSetLayoutCreateInfo, _ *vk.AllocationCallbacks, out *vk.DescriptorSetLayout) vk.Result {
	c := call{name: "CreateDescriptorSetLayout", flags: info.Flags}
	if info.BindingCount > 0 {
		c.bindings = append(c.bindings, unsafe.Slice(info.PBindings, info.BindingCount)...)
	}
	if info.PNext != nil {
		chained := (*vk.DescriptorSetLayoutBindingFlagsCreateInfo)(unsafe.Pointer(info.PNext))
		if chained.SType != structureTypeDescriptorSetLayoutBindingFlagsCreateInfo {
			panic(fmt.Sprintf("unexpected pNext sType %d", chained.SType))
		}
		c.bflags = append(c.bflags, unsafe.Slice(chained.PBindingFlags, chained.BindingCount)...)
	}
	if m.createErr != vk.Success {
		m.record(c)
		return m.createErr
	}
	m.mu.Lock()
	m.next++
	*out = vk.DescriptorSetLayout(m.next)
	m.mu.Unlock()
	c.handle = uint64(*out)
	m.record(c)
	return vk.Success
}

func (m *mockDispatch) DestroyDescriptorSetLayout(_ vk.Device, layout vk.DescriptorSetLayout, _ *vk.AllocationCallbacks) {
	m.record(call{name: "DestroyDescriptorSetLayout", handle: uint64(layout)})
}

func (m *mockDispatch) CreatePipelineLayout(_ vk.Device, info *vk.PipelineLayoutCreateInfo, _ *vk.AllocationCallbacks, out *vk.PipelineLayout) vk.Result {
	c := call{name: "CreatePipelineLayout"}
	if info.SetLayoutCount > 0 {
		c.sets = append(c.sets, unsafe.Slice(info.PSetLayouts, info.SetLayoutCount)...)
	}
	m.mu.Lock()
	m.next++
	*out = vk.PipelineLayout(m.next)
	m.mu.Unlock()
	c.handle = uint64(*out)
	m.record(c)
	return vk.Success
}

func (m *mockDispatch) DestroyPipelineLayout(_ vk.Device, layout vk.PipelineLayout, _ *vk.AllocationCallbacks) {
	m.record(call{name: "DestroyPipelineLayout", handle: uint64(layout)})
}

func (m *mockDispatch) SetDebugUtilsObjectNameEXT(_ vk.Device, info *vk.DebugUtilsObjectNameInfoEXT) vk.Result {
	m.record(call{name: "SetDebugUtilsObjectNameEXT", handle: info.ObjectHandle, label: cString(&info.PObjectName)})
	return vk.Success
}

func (m *mockDispatch) HasDebugUtils() bool { return m.debugUtils }

// cString copies the null-terminated string whose address is stored in *addr.
func cString(addr *uintptr) string {
	p := *(*unsafe.Pointer)(unsafe.Pointer(addr))
	n := 0
	for *(*byte)(unsafe.Add(p, n)) != 0 {
		n++
	}
	return string(unsafe.Slice((*byte)(p), n))
}
