package rhi

import (
	"fmt"

	"github.com/gogpu/gputypes"
)

// spirvMagic is the first word of every SPIR-V module.
const spirvMagic = 0x07230203

// ShaderModuleInfo names one entry point and the stage it runs in.
type ShaderModuleInfo struct {
	Stage      gputypes.ShaderStage
	EntryPoint string
}

func (i ShaderModuleInfo) validate() error {
	switch i.Stage {
	case gputypes.ShaderStageVertex, gputypes.ShaderStageFragment, gputypes.ShaderStageCompute:
	default:
		return fmt.Errorf("%w: shader stage %#x is not a single stage", ErrInvalidArgument, uint32(i.Stage))
	}
	if i.EntryPoint == "" {
		return fmt.Errorf("%w: shader entry point is empty", ErrInvalidArgument)
	}
	return nil
}

// ShaderSource holds either WGSL text or SPIR-V words. Exactly one is set.
type ShaderSource struct {
	WGSL  string
	SPIRV []uint32
}

func (s ShaderSource) validate() error {
	switch {
	case s.WGSL == "" && len(s.SPIRV) == 0:
		return fmt.Errorf("%w: shader source is empty", ErrInvalidArgument)
	case s.WGSL != "" && len(s.SPIRV) != 0:
		return fmt.Errorf("%w: shader source sets both WGSL and SPIR-V", ErrInvalidArgument)
	case len(s.SPIRV) != 0 && s.SPIRV[0] != spirvMagic:
		return fmt.Errorf("%w: SPIR-V magic %#08x", ErrInvalidArgument, s.SPIRV[0])
	}
	return nil
}

// ShaderModuleDesc describes one shader module.
type ShaderModuleDesc struct {
	Info      ShaderModuleInfo
	Source    ShaderSource
	DebugName string
}

// Validate reports a malformed description.
func (d ShaderModuleDesc) Validate() error {
	if err := d.Info.validate(); err != nil {
		return err
	}
	return d.Source.validate()
}

// ShaderLibraryDesc describes several entry points compiled from one source.
type ShaderLibraryDesc struct {
	Modules   []ShaderModuleInfo
	Source    ShaderSource
	DebugName string
}

// Validate reports a malformed description.
func (d ShaderLibraryDesc) Validate() error {
	if len(d.Modules) == 0 {
		return fmt.Errorf("%w: shader library has no modules", ErrInvalidArgument)
	}
	seen := make(map[string]bool, len(d.Modules))
	for _, m := range d.Modules {
		if err := m.validate(); err != nil {
			return err
		}
		if seen[m.EntryPoint] {
			return fmt.Errorf("%w: entry point %q listed twice", ErrInvalidArgument, m.EntryPoint)
		}
		seen[m.EntryPoint] = true
	}
	return d.Source.validate()
}

// ShaderStagesType selects the pipeline kind a stage set feeds.
type ShaderStagesType uint8

const (
	ShaderStagesRender ShaderStagesType = iota
	ShaderStagesCompute
)

func (t ShaderStagesType) String() string {
	if t == ShaderStagesCompute {
		return "compute"
	}
	return "render"
}

// ShaderStagesDesc groups modules into a stage set.
type ShaderStagesDesc struct {
	Type           ShaderStagesType
	VertexModule   ShaderModule
	FragmentModule ShaderModule
	ComputeModule  ShaderModule
	DebugName      string
}

// Validate reports a malformed description.
func (d ShaderStagesDesc) Validate() error {
	switch d.Type {
	case ShaderStagesRender:
		if d.VertexModule == nil || d.FragmentModule == nil {
			return fmt.Errorf("%w: render stages need vertex and fragment modules", ErrInvalidArgument)
		}
		if d.ComputeModule != nil {
			return fmt.Errorf("%w: render stages cannot hold a compute module", ErrInvalidArgument)
		}
		if err := expectStage(d.VertexModule, gputypes.ShaderStageVertex); err != nil {
			return err
		}
		return expectStage(d.FragmentModule, gputypes.ShaderStageFragment)
	case ShaderStagesCompute:
		if d.ComputeModule == nil || d.VertexModule != nil || d.FragmentModule != nil {
			return fmt.Errorf("%w: compute stages need exactly a compute module", ErrInvalidArgument)
		}
		return expectStage(d.ComputeModule, gputypes.ShaderStageCompute)
	}
	return fmt.Errorf("%w: unknown shader stages type %d", ErrInvalidArgument, d.Type)
}

func expectStage(m ShaderModule, stage gputypes.ShaderStage) error {
	if got := m.Info().Stage; got != stage {
		return fmt.Errorf("%w: module %q is a %v shader, want %v", ErrInvalidArgument, m.Info().EntryPoint, got, stage)
	}
	return nil
}

// MaxColorAttachments bounds render targets per pipeline and framebuffer.
const MaxColorAttachments = 8

// ColorAttachmentDesc describes one render target of a pipeline.
type ColorAttachmentDesc struct {
	Format    gputypes.TextureFormat
	Blend     *gputypes.BlendState
	WriteMask gputypes.ColorWriteMask
}

// BindGroupLayoutDesc lists the bindings of one bind group.
type BindGroupLayoutDesc []gputypes.BindGroupLayoutEntry

// RenderPipelineDesc describes a graphics pipeline.
type RenderPipelineDesc struct {
	VertexInputState  VertexInputState
	ShaderStages      ShaderStages
	ColorAttachments  []ColorAttachmentDesc
	DepthFormat       gputypes.TextureFormat
	DepthStencilState DepthStencilState

	Topology    gputypes.PrimitiveTopology
	CullMode    gputypes.CullMode
	FrontFace   gputypes.FrontFace
	SampleCount uint32

	BindGroupLayouts []BindGroupLayoutDesc
	DebugName        string
}

// Validate reports a malformed description.
func (d RenderPipelineDesc) Validate() error {
	if d.ShaderStages == nil || d.ShaderStages.Type() != ShaderStagesRender {
		return fmt.Errorf("%w: render pipeline needs render shader stages", ErrInvalidArgument)
	}
	if len(d.ColorAttachments) == 0 && d.DepthFormat == gputypes.TextureFormatUndefined {
		return fmt.Errorf("%w: render pipeline has no attachments", ErrInvalidArgument)
	}
	if len(d.ColorAttachments) > MaxColorAttachments {
		return fmt.Errorf("%w: %d color attachments exceed %d", ErrArgumentOutOfRange, len(d.ColorAttachments), MaxColorAttachments)
	}
	for i, c := range d.ColorAttachments {
		if c.Format == gputypes.TextureFormatUndefined || c.Format.IsDepthStencil() {
			return fmt.Errorf("%w: color attachment %d has format %v", ErrInvalidArgument, i, c.Format)
		}
	}
	if d.DepthFormat != gputypes.TextureFormatUndefined && !d.DepthFormat.IsDepthStencil() {
		return fmt.Errorf("%w: depth attachment format %v", ErrInvalidArgument, d.DepthFormat)
	}
	if d.DepthStencilState != nil && d.DepthFormat == gputypes.TextureFormatUndefined {
		return fmt.Errorf("%w: depth-stencil state without a depth format", ErrInvalidArgument)
	}
	if d.SampleCount&(d.SampleCount-1) != 0 {
		return fmt.Errorf("%w: sample count %d is not a power of two", ErrInvalidArgument, d.SampleCount)
	}
	return nil
}

// ComputePipelineDesc describes a compute pipeline.
type ComputePipelineDesc struct {
	ShaderStages     ShaderStages
	BindGroupLayouts []BindGroupLayoutDesc
	DebugName        string
}

// Validate reports a malformed description.
func (d ComputePipelineDesc) Validate() error {
	if d.ShaderStages == nil || d.ShaderStages.Type() != ShaderStagesCompute {
		return fmt.Errorf("%w: compute pipeline needs compute shader stages", ErrInvalidArgument)
	}
	return nil
}

// FramebufferDesc groups render attachments.
type FramebufferDesc struct {
	ColorAttachments  []Texture
	DepthAttachment   Texture
	StencilAttachment Texture
	DebugName         string
}

// Validate reports a malformed description.
func (d FramebufferDesc) Validate() error {
	if len(d.ColorAttachments) > MaxColorAttachments {
		return fmt.Errorf("%w: %d color attachments exceed %d", ErrArgumentOutOfRange, len(d.ColorAttachments), MaxColorAttachments)
	}
	var first *TextureDesc
	check := func(what string, t Texture, wantDepth, wantStencil bool) error {
		desc := t.Desc()
		if !desc.Usage.Contains(gputypes.TextureUsageRenderAttachment) {
			return fmt.Errorf("%w: %s %q lacks render attachment usage", ErrInvalidArgument, what, t.Label())
		}
		switch {
		case !wantDepth && !wantStencil && desc.Format.IsDepthStencil():
			return fmt.Errorf("%w: %s uses depth format %v", ErrInvalidArgument, what, desc.Format)
		case wantDepth && !desc.Format.HasDepth():
			return fmt.Errorf("%w: %s format %v has no depth", ErrInvalidArgument, what, desc.Format)
		case wantStencil && !desc.Format.HasStencil():
			return fmt.Errorf("%w: %s format %v has no stencil", ErrInvalidArgument, what, desc.Format)
		}
		if first == nil {
			first = &desc
		} else if desc.Width != first.Width || desc.Height != first.Height {
			return fmt.Errorf("%w: %s is %dx%d, want %dx%d", ErrInvalidArgument, what,
				desc.Width, desc.Height, first.Width, first.Height)
		}
		return nil
	}
	for i, t := range d.ColorAttachments {
		if t == nil {
			return fmt.Errorf("%w: color attachment %d is nil", ErrInvalidArgument, i)
		}
		if err := check(fmt.Sprintf("color attachment %d", i), t, false, false); err != nil {
			return err
		}
	}
	if d.DepthAttachment != nil {
		if err := check("depth attachment", d.DepthAttachment, true, false); err != nil {
			return err
		}
	}
	if d.StencilAttachment != nil {
		if err := check("stencil attachment", d.StencilAttachment, false, true); err != nil {
			return err
		}
	}
	if first == nil {
		return fmt.Errorf("%w: framebuffer has no attachments", ErrInvalidArgument)
	}
	return nil
}
