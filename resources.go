package rhi

import (
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// Shared is implemented by resources with shared ownership.
//
// A creation call returns a resource holding one reference. Every consumer
// that keeps the resource calls Retain and later Release. The native object
// is destroyed when the last reference is released. Releasing more often
// than retaining is a contract violation.
type Shared interface {
	Retain()
	Release()
}

// Unique is implemented by single-owner resources.
// Destroy must be called exactly once.
type Unique interface {
	Destroy()
}

// Buffer is a linear GPU allocation.
type Buffer interface {
	Shared
	Label() string
	Length() uint64
	Usage() gputypes.BufferUsage
	// Upload copies data into the buffer at offset.
	Upload(data []byte, offset uint64) error
}

// Texture is a GPU image.
type Texture interface {
	Shared
	Label() string
	// Desc returns the sanitized description the texture was created with,
	// without initial data.
	Desc() TextureDesc
	Format() gputypes.TextureFormat
	// Upload replaces one mip level of every layer with tightly packed data.
	Upload(mipLevel uint32, data []byte) error
}

// SamplerState is an immutable sampler object.
type SamplerState interface {
	Shared
	Label() string
}

// DepthStencilState is an immutable depth/stencil configuration.
type DepthStencilState interface {
	Shared
	Desc() DepthStencilStateDesc
}

// VertexInputState is an immutable vertex fetch layout.
type VertexInputState interface {
	Shared
	Desc() VertexInputStateDesc
}

// ShaderModule is one compiled shader entry point.
type ShaderModule interface {
	Shared
	Label() string
	Info() ShaderModuleInfo
}

// ShaderLibrary owns the modules compiled from one source.
// It has unique ownership; the modules it returns are shared.
type ShaderLibrary interface {
	Unique
	// Module returns the module for entryPoint, or nil.
	// The library keeps its own reference; callers that keep the module
	// past Destroy must Retain it.
	Module(entryPoint string) ShaderModule
	Modules() []ShaderModule
}

// ShaderStages binds modules into a pipeline stage set. Unique ownership.
type ShaderStages interface {
	Unique
	Type() ShaderStagesType
	VertexModule() ShaderModule
	FragmentModule() ShaderModule
	ComputeModule() ShaderModule
}

// RenderPipelineState is a compiled graphics pipeline.
type RenderPipelineState interface {
	Shared
	Label() string
}

// ComputePipelineState is a compiled compute pipeline.
type ComputePipelineState interface {
	Shared
	Label() string
}

// Framebuffer groups render attachments.
type Framebuffer interface {
	Shared
	Label() string
	ColorAttachmentCount() int
	ColorAttachment(index int) Texture
	DepthAttachment() Texture
	StencilAttachment() Texture
}

// SubmitHandle identifies a queue submission.
type SubmitHandle uint64

// CommandQueue submits command buffers and accounts draw calls.
type CommandQueue interface {
	Shared
	Type() CommandQueueType
	CreateCommandBuffer(desc CommandBufferDesc, out *Result) CommandBuffer
	// Submit ends recording and submits cb. The draws recorded in cb are
	// added to the owning device's draw count.
	Submit(cb CommandBuffer) (SubmitHandle, error)
	// WaitIdle blocks until submitted work finishes and recycles it.
	WaitIdle() error
}

// CommandBuffer records commands for one submission.
type CommandBuffer interface {
	// Encoder exposes the native encoder for command recording.
	Encoder() hal.CommandEncoder
	IncrementDrawCount(n uint32)
	DrawCount() uint32
	// Discard abandons recording. Submitted buffers must not be discarded.
	Discard()
}
