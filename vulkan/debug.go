package vulkan

import (
	"runtime"
	"unsafe"

	"github.com/gogpu/wgpu/hal/vulkan/vk"
)

// setObjectName labels a native object for validation layers and GPU
// debuggers. It is a no-op without VK_EXT_debug_utils. The result is
// ignored: names are cosmetic.
func setObjectName(vf Dispatch, device vk.Device, objectType vk.ObjectType, handle uint64, name string) {
	if name == "" || handle == 0 || !vf.HasDebugUtils() {
		return
	}
	buf := make([]byte, len(name)+1)
	copy(buf, name)
	info := vk.DebugUtilsObjectNameInfoEXT{
		SType:        vk.StructureTypeDebugUtilsObjectNameInfoExt,
		ObjectType:   objectType,
		ObjectHandle: handle,
		PObjectName:  uintptr(unsafe.Pointer(&buf[0])),
	}
	_ = vf.SetDebugUtilsObjectNameEXT(device, &info)
	runtime.KeepAlive(buf)
}
