// Package rhi is a render hardware interface: one resource-creation
// contract over several native graphics APIs.
//
// # Overview
//
// A [Device] is the factory for every GPU resource: command queues,
// buffers, textures, samplers, shader modules, libraries and stage sets,
// pipelines and framebuffers. Backends live in sub-packages:
//
//   - vulkan: the explicit API, including native descriptor-set layouts
//   - opengl: the legacy API
//   - metal: the proprietary API
//
// Importing a backend package registers it. Open and OpenBest pick a
// registered backend; the native drivers come from github.com/gogpu/wgpu/hal
// and are linked by importing github.com/gogpu/wgpu/hal/allbackends.
//
// # Creating resources
//
// Creation calls never panic and never return an error value. They return
// nil on failure and describe the failure in an optional [Result]:
//
//	var res rhi.Result
//	buf := dev.CreateBuffer(rhi.BufferDesc{
//	    Type:   gputypes.BufferUsageVertex | gputypes.BufferUsageCopyDst,
//	    Length: 1024,
//	}, &res)
//	if buf == nil {
//	    return res.Err()
//	}
//	defer buf.Release()
//
// Buffers, textures, pipelines and most other resources have shared
// ownership (Retain/Release). Shader libraries and shader stages are owned
// by one holder and destroyed with Destroy.
//
// # Scopes and tracking
//
// A [DeviceScope] marks a window in which device calls are valid. Devices
// opened with [WithStrictScope] report calls outside a scope as contract
// violations. A [ResourceTracker] observes every creation and destruction;
// see the tracker package for a counting implementation.
//
// # Logging
//
// rhi is silent by default. Call [SetLogger] to route diagnostics to a
// [log/slog] logger.
package rhi
