// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package rhi

import (
	"fmt"

	"github.com/gogpu/gputypes"
)

// Device is the resource factory of one logical GPU context.
//
// Every Create call takes an immutable description and an optional *Result.
// On success it returns the resource and sets out to Ok. On failure it
// returns nil and, when out is non-nil, stores the status and a message.
// Failures never panic. A malformed description is rejected before any
// native call is made. Each successful creation notifies the attached
// ResourceTracker, if any.
//
// A Device is not safe for concurrent creation calls unless its backend
// documents otherwise. Resources must be released before Close.
type Device interface {
	CreateCommandQueue(desc CommandQueueDesc, out *Result) CommandQueue
	CreateBuffer(desc BufferDesc, out *Result) Buffer
	CreateDepthStencilState(desc DepthStencilStateDesc, out *Result) DepthStencilState
	CreateSamplerState(desc SamplerStateDesc, out *Result) SamplerState
	CreateTexture(desc TextureDesc, out *Result) Texture
	CreateVertexInputState(desc VertexInputStateDesc, out *Result) VertexInputState
	CreateComputePipeline(desc ComputePipelineDesc, out *Result) ComputePipelineState
	CreateRenderPipeline(desc RenderPipelineDesc, out *Result) RenderPipelineState
	CreateShaderModule(desc ShaderModuleDesc, out *Result) ShaderModule
	CreateFramebuffer(desc FramebufferDesc, out *Result) Framebuffer
	CreateShaderLibrary(desc ShaderLibraryDesc, out *Result) ShaderLibrary
	CreateShaderStages(desc ShaderStagesDesc, out *Result) ShaderStages

	BackendType() BackendType
	NormalizedZRange() NormalizedZRange
	BackendDebugColor() Color
	HasFeature(f DeviceFeature) bool
	FeatureLimits(l DeviceFeatureLimit) (uint64, bool)
	TextureFormatCapabilities(format gputypes.TextureFormat) TextureFormatCapabilities

	// CurrentDrawCount returns the number of draw calls submitted so far.
	CurrentDrawCount() uint64

	// Sanitize normalizes a texture description. It is pure and idempotent.
	Sanitize(desc TextureDesc) TextureDesc

	// VerifyScope reports whether the caller is inside an open DeviceScope.
	// Devices are permissive unless opened with WithStrictScope.
	VerifyScope() bool
	// EnterScope opens a scope level and returns the new depth.
	EnterScope() int
	// ExitScope closes the scope level opened at depth. depth must be the
	// current depth.
	ExitScope(depth int) error
	ScopeDepth() int

	// PlatformDevice returns the backend extension; see GetPlatformDevice.
	PlatformDevice() PlatformDevice

	// SetResourceTracker attaches t, or detaches with nil. Resources keep
	// reporting to the tracker that saw their creation.
	SetResourceTracker(t ResourceTracker)
	ResourceTracker() ResourceTracker

	// UpdateSurface rebinds the device to a native window.
	UpdateSurface(nativeWindow uintptr) error

	// Close destroys resources still alive and releases the native device.
	Close() error
}

// DeviceFeature names an optional device capability.
type DeviceFeature uint8

const (
	FeatureCompute DeviceFeature = iota + 1
	FeatureTexture3D
	FeatureTextureArray
	FeatureTextureCube
	FeatureMultiSample
	FeatureStorageBuffers
	FeatureDepthCompare
	FeatureBindlessDescriptors
	FeaturePushConstants
	FeatureTextureCompressionBC
	FeatureTextureCompressionETC2
	FeatureTextureCompressionASTC
	FeatureTimestampQuery
	FeatureDepth32FloatStencil8
	FeatureShaderFloat16
)

var featureNames = map[DeviceFeature]string{
	FeatureCompute:                "Compute",
	FeatureTexture3D:              "Texture3D",
	FeatureTextureArray:           "TextureArray",
	FeatureTextureCube:            "TextureCube",
	FeatureMultiSample:            "MultiSample",
	FeatureStorageBuffers:         "StorageBuffers",
	FeatureDepthCompare:           "DepthCompare",
	FeatureBindlessDescriptors:    "BindlessDescriptors",
	FeaturePushConstants:          "PushConstants",
	FeatureTextureCompressionBC:   "TextureCompressionBC",
	FeatureTextureCompressionETC2: "TextureCompressionETC2",
	FeatureTextureCompressionASTC: "TextureCompressionASTC",
	FeatureTimestampQuery:         "TimestampQuery",
	FeatureDepth32FloatStencil8:   "Depth32FloatStencil8",
	FeatureShaderFloat16:          "ShaderFloat16",
}

func (f DeviceFeature) String() string {
	if s, ok := featureNames[f]; ok {
		return s
	}
	return fmt.Sprintf("DeviceFeature(%d)", uint8(f))
}

// AllFeatures lists every DeviceFeature in declaration order.
func AllFeatures() []DeviceFeature {
	out := make([]DeviceFeature, 0, len(featureNames))
	for f := FeatureCompute; f <= FeatureShaderFloat16; f++ {
		out = append(out, f)
	}
	return out
}

// WebGPUFeature returns the gputypes feature backing f, if any.
func (f DeviceFeature) WebGPUFeature() (gputypes.Feature, bool) {
	switch f {
	case FeaturePushConstants:
		return gputypes.FeaturePushConstants, true
	case FeatureTextureCompressionBC:
		return gputypes.FeatureTextureCompressionBC, true
	case FeatureTextureCompressionETC2:
		return gputypes.FeatureTextureCompressionETC2, true
	case FeatureTextureCompressionASTC:
		return gputypes.FeatureTextureCompressionASTC, true
	case FeatureTimestampQuery:
		return gputypes.FeatureTimestampQuery, true
	case FeatureDepth32FloatStencil8:
		return gputypes.FeatureDepth32FloatStencil8, true
	case FeatureShaderFloat16:
		return gputypes.FeatureShaderF16, true
	}
	return 0, false
}

// DeviceFeatureLimit names a numeric device limit.
type DeviceFeatureLimit uint8

const (
	LimitMaxTextureDimension2D DeviceFeatureLimit = iota + 1
	LimitMaxTextureDimension3D
	LimitMaxTextureArrayLayers
	LimitMaxBufferSize
	LimitMaxUniformBufferBindingSize
	LimitMaxStorageBufferBindingSize
	LimitMaxVertexAttributes
	LimitMaxVertexBuffers
	LimitMaxColorAttachments
	LimitMaxBindGroups
	LimitMaxPushConstantSize
	LimitMaxComputeInvocationsPerWorkgroup
	LimitMinUniformBufferOffsetAlignment
)

// LimitValue reads l from limits. ok is false for an unknown limit.
func LimitValue(limits gputypes.Limits, l DeviceFeatureLimit) (v uint64, ok bool) {
	switch l {
	case LimitMaxTextureDimension2D:
		return uint64(limits.MaxTextureDimension2D), true
	case LimitMaxTextureDimension3D:
		return uint64(limits.MaxTextureDimension3D), true
	case LimitMaxTextureArrayLayers:
		return uint64(limits.MaxTextureArrayLayers), true
	case LimitMaxBufferSize:
		return limits.MaxBufferSize, true
	case LimitMaxUniformBufferBindingSize:
		return limits.MaxUniformBufferBindingSize, true
	case LimitMaxStorageBufferBindingSize:
		return limits.MaxStorageBufferBindingSize, true
	case LimitMaxVertexAttributes:
		return uint64(min(limits.MaxVertexAttributes, MaxVertexAttributes)), true
	case LimitMaxVertexBuffers:
		return uint64(limits.MaxVertexBuffers), true
	case LimitMaxColorAttachments:
		return uint64(min(limits.MaxColorAttachments, MaxColorAttachments)), true
	case LimitMaxBindGroups:
		return uint64(limits.MaxBindGroups), true
	case LimitMaxPushConstantSize:
		return uint64(limits.MaxPushConstantSize), true
	case LimitMaxComputeInvocationsPerWorkgroup:
		return uint64(limits.MaxComputeInvocationsPerWorkgroup), true
	case LimitMinUniformBufferOffsetAlignment:
		return uint64(limits.MinUniformBufferOffsetAlignment), true
	}
	return 0, false
}

// TextureFormatCapabilities is the set of operations a format supports.
type TextureFormatCapabilities uint32

const (
	TextureFormatSampled TextureFormatCapabilities = 1 << iota
	TextureFormatStorage
	TextureFormatAttachment
	TextureFormatBlendable
	TextureFormatMultisample
	TextureFormatMultisampleResolve
)

// Has reports whether all of want are present.
func (c TextureFormatCapabilities) Has(want TextureFormatCapabilities) bool {
	return c&want == want
}
