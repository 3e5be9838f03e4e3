// Package vulkan is the explicit-API rhi backend.
//
// Resources are created through the hal Vulkan device; shader sources in
// WGSL are compiled to SPIR-V with naga first. The package also owns
// native Vulkan objects that have no hal equivalent: descriptor-set
// layouts with per-binding flags and pipeline layouts built from them.
//
// Importing the package registers the backend with rhi:
//
//	import (
//	    _ "github.com/gogpu/wgpu/hal/allbackends"
//	    _ "github.com/gogpu/rhi/vulkan"
//	)
//
//	dev, err := rhi.Open(rhi.BackendVulkan)
//
// Native layouts need the Vulkan function table and device handle, passed
// with WithDispatch:
//
//	dev, err := rhi.Open(rhi.BackendVulkan, vulkan.WithDispatch(cmds, vkDevice))
//	pd, ok := rhi.GetPlatformDevice[*vulkan.PlatformDevice](dev)
package vulkan
