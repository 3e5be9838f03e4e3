package rhi

import (
	"fmt"

	"github.com/gogpu/gputypes"
)

// BufferDesc describes a buffer.
type BufferDesc struct {
	// Type is the set of usages the buffer supports.
	Type gputypes.BufferUsage
	// Length is the size in bytes. Must be > 0.
	Length uint64
	// Data, when set, is uploaded at creation. len(Data) <= Length.
	Data []byte
	// DebugName labels the native object for GPU debuggers.
	DebugName string
}

// Validate reports a malformed description. It never touches the device.
func (d BufferDesc) Validate() error {
	switch {
	case d.Length == 0:
		return fmt.Errorf("%w: buffer length is zero", ErrInvalidArgument)
	case d.Type == gputypes.BufferUsageNone:
		return fmt.Errorf("%w: buffer usage is empty", ErrInvalidArgument)
	case d.Type.ContainsUnknownBits():
		return fmt.Errorf("%w: buffer usage %#x has unknown bits", ErrInvalidArgument, uint64(d.Type))
	case uint64(len(d.Data)) > d.Length:
		return fmt.Errorf("%w: initial data (%d bytes) exceeds buffer length %d",
			ErrInvalidArgument, len(d.Data), d.Length)
	}
	return nil
}

// TextureType is the shape of a texture.
type TextureType uint8

const (
	TextureType2D TextureType = iota
	TextureType2DArray
	TextureType3D
	TextureTypeCube
)

func (t TextureType) String() string {
	switch t {
	case TextureType2D:
		return "2D"
	case TextureType2DArray:
		return "2DArray"
	case TextureType3D:
		return "3D"
	case TextureTypeCube:
		return "Cube"
	default:
		return fmt.Sprintf("TextureType(%d)", uint8(t))
	}
}

// TextureDesc describes a texture. Run it through Device.Sanitize before
// comparing against what the device actually creates.
type TextureDesc struct {
	Type   TextureType
	Format gputypes.TextureFormat

	Width, Height, Depth uint32
	// NumLayers counts array layers. For cube textures it counts faces
	// and is a multiple of 6.
	NumLayers    uint32
	NumSamples   uint32
	NumMipLevels uint32

	Usage gputypes.TextureUsage

	// Data, when set, is uploaded into mip level 0 of every layer.
	// It must be tightly packed.
	Data []byte

	DebugName string
}

// NewTextureDesc2D returns a single-sample, single-mip 2D texture description.
func NewTextureDesc2D(format gputypes.TextureFormat, width, height uint32, usage gputypes.TextureUsage, debugName string) TextureDesc {
	return TextureDesc{
		Type:         TextureType2D,
		Format:       format,
		Width:        width,
		Height:       height,
		Depth:        1,
		NumLayers:    1,
		NumSamples:   1,
		NumMipLevels: 1,
		Usage:        usage,
		DebugName:    debugName,
	}
}

// Validate reports a malformed description. It expects a sanitized
// description: zero dimensions are rejected, not defaulted.
func (d TextureDesc) Validate() error {
	switch {
	case d.Type > TextureTypeCube:
		return fmt.Errorf("%w: unknown texture type %d", ErrInvalidArgument, d.Type)
	case d.Format == gputypes.TextureFormatUndefined:
		return fmt.Errorf("%w: texture format is undefined", ErrInvalidArgument)
	case d.Usage == gputypes.TextureUsageNone:
		return fmt.Errorf("%w: texture usage is empty", ErrInvalidArgument)
	case d.Usage.ContainsUnknownBits():
		return fmt.Errorf("%w: texture usage %#x has unknown bits", ErrInvalidArgument, uint64(d.Usage))
	case d.Width == 0 || d.Height == 0 || d.Depth == 0:
		return fmt.Errorf("%w: texture size %dx%dx%d has a zero dimension", ErrInvalidArgument, d.Width, d.Height, d.Depth)
	case d.NumLayers == 0 || d.NumSamples == 0 || d.NumMipLevels == 0:
		return fmt.Errorf("%w: texture layers, samples and mip levels must be non-zero", ErrInvalidArgument)
	}

	switch d.Type {
	case TextureType2D, TextureType2DArray:
		if d.Depth != 1 {
			return fmt.Errorf("%w: %s texture must have depth 1", ErrInvalidArgument, d.Type)
		}
	case TextureType3D:
		if d.NumLayers != 1 || d.NumSamples != 1 {
			return fmt.Errorf("%w: 3D texture must have one layer and one sample", ErrInvalidArgument)
		}
		if d.Format.IsDepthStencil() {
			return fmt.Errorf("%w: 3D texture cannot use depth format %v", ErrInvalidArgument, d.Format)
		}
	case TextureTypeCube:
		if d.Width != d.Height {
			return fmt.Errorf("%w: cube texture must be square, got %dx%d", ErrInvalidArgument, d.Width, d.Height)
		}
		if d.NumLayers%6 != 0 || d.Depth != 1 {
			return fmt.Errorf("%w: cube texture needs a multiple of 6 layers", ErrInvalidArgument)
		}
	}

	if d.NumSamples&(d.NumSamples-1) != 0 {
		return fmt.Errorf("%w: sample count %d is not a power of two", ErrInvalidArgument, d.NumSamples)
	}
	if d.NumSamples > 1 && d.NumMipLevels != 1 {
		return fmt.Errorf("%w: multisampled texture must have one mip level", ErrInvalidArgument)
	}
	if full := MipChainLength(d.Width, d.Height, d.depthForMips()); d.NumMipLevels > full {
		return fmt.Errorf("%w: %d mip levels exceed the full chain of %d", ErrInvalidArgument, d.NumMipLevels, full)
	}

	if len(d.Data) > 0 {
		want, ok := d.LevelSize(0)
		if !ok {
			return fmt.Errorf("%w: initial data for format %v", ErrUnsupported, d.Format)
		}
		if uint64(len(d.Data)) != want {
			return fmt.Errorf("%w: initial data is %d bytes, want %d", ErrInvalidArgument, len(d.Data), want)
		}
	}
	return nil
}

// CheckLimits reports dimensions that exceed the device limits.
func (d TextureDesc) CheckLimits(l gputypes.Limits) error {
	maxDim := l.MaxTextureDimension2D
	if d.Type == TextureType3D {
		maxDim = l.MaxTextureDimension3D
		if d.Depth > maxDim {
			return fmt.Errorf("%w: texture depth %d exceeds %d", ErrArgumentOutOfRange, d.Depth, maxDim)
		}
	}
	if d.Width > maxDim || d.Height > maxDim {
		return fmt.Errorf("%w: texture size %dx%d exceeds %d", ErrArgumentOutOfRange, d.Width, d.Height, maxDim)
	}
	if d.NumLayers > l.MaxTextureArrayLayers {
		return fmt.Errorf("%w: %d layers exceed %d", ErrArgumentOutOfRange, d.NumLayers, l.MaxTextureArrayLayers)
	}
	return nil
}

// LevelSize returns the tightly packed byte size of one mip level across
// all layers. ok is false for formats without a fixed texel size.
func (d TextureDesc) LevelSize(level uint32) (size uint64, ok bool) {
	bpt, ok := BytesPerTexel(d.Format)
	if !ok {
		return 0, false
	}
	w, h, depth := d.LevelExtent(level)
	return uint64(w) * uint64(h) * uint64(depth) * uint64(d.NumLayers) * uint64(bpt), true
}

// LevelExtent returns the size of mip level level.
func (d TextureDesc) LevelExtent(level uint32) (w, h, depth uint32) {
	return max(d.Width>>level, 1), max(d.Height>>level, 1), max(d.depthForMips()>>level, 1)
}

func (d TextureDesc) depthForMips() uint32 {
	if d.Type == TextureType3D {
		return d.Depth
	}
	return 1
}

// BytesPerTexel returns the texel size of uncompressed color formats.
func BytesPerTexel(f gputypes.TextureFormat) (uint32, bool) {
	switch f {
	case gputypes.TextureFormatR8Unorm, gputypes.TextureFormatR8Snorm,
		gputypes.TextureFormatR8Uint, gputypes.TextureFormatR8Sint:
		return 1, true
	case gputypes.TextureFormatRG8Unorm, gputypes.TextureFormatRG8Snorm,
		gputypes.TextureFormatR16Float, gputypes.TextureFormatR16Uint, gputypes.TextureFormatR16Sint:
		return 2, true
	case gputypes.TextureFormatRGBA8Unorm, gputypes.TextureFormatRGBA8UnormSrgb,
		gputypes.TextureFormatBGRA8Unorm, gputypes.TextureFormatBGRA8UnormSrgb,
		gputypes.TextureFormatR32Float, gputypes.TextureFormatR32Uint, gputypes.TextureFormatR32Sint,
		gputypes.TextureFormatRG16Float, gputypes.TextureFormatRGB10A2Unorm:
		return 4, true
	case gputypes.TextureFormatRGBA16Float, gputypes.TextureFormatRG32Float:
		return 8, true
	case gputypes.TextureFormatRGBA32Float:
		return 16, true
	}
	return 0, false
}

// SamplerStateDesc describes a sampler.
type SamplerStateDesc struct {
	MinFilter, MagFilter gputypes.FilterMode
	MipFilter            gputypes.FilterMode
	// MipFilterDisabled samples mip level 0 only.
	MipFilterDisabled bool

	AddressModeU, AddressModeV, AddressModeW gputypes.AddressMode

	DepthCompareEnabled  bool
	DepthCompareFunction gputypes.CompareFunction

	MipLodMin, MipLodMax float32
	// MaxAnisotropic is 1..16; 0 is treated as 1.
	MaxAnisotropic uint16

	DebugName string
}

// DefaultSamplerStateDesc returns a linear, repeating sampler over the
// whole mip chain.
func DefaultSamplerStateDesc() SamplerStateDesc {
	return SamplerStateDesc{
		MinFilter:         gputypes.FilterModeLinear,
		MagFilter:         gputypes.FilterModeLinear,
		MipFilterDisabled: true,
		AddressModeU:      gputypes.AddressModeRepeat,
		AddressModeV:      gputypes.AddressModeRepeat,
		AddressModeW:      gputypes.AddressModeRepeat,
		MipLodMin:         0,
		MipLodMax:         15,
		MaxAnisotropic:    1,
	}
}

// Validate reports a malformed description.
func (d SamplerStateDesc) Validate() error {
	switch {
	case d.MaxAnisotropic > 16:
		return fmt.Errorf("%w: anisotropy %d exceeds 16", ErrInvalidArgument, d.MaxAnisotropic)
	case d.MipLodMin < 0 || d.MipLodMin > d.MipLodMax:
		return fmt.Errorf("%w: lod range [%g, %g]", ErrInvalidArgument, d.MipLodMin, d.MipLodMax)
	case d.DepthCompareEnabled && d.DepthCompareFunction == gputypes.CompareFunctionUndefined:
		return fmt.Errorf("%w: depth compare enabled without a function", ErrInvalidArgument)
	case d.DepthCompareFunction > gputypes.CompareFunctionAlways:
		return fmt.Errorf("%w: unknown compare function %d", ErrInvalidArgument, d.DepthCompareFunction)
	}
	if d.MaxAnisotropic > 1 {
		linear := d.MinFilter == gputypes.FilterModeLinear && d.MagFilter == gputypes.FilterModeLinear &&
			(d.MipFilterDisabled || d.MipFilter == gputypes.FilterModeLinear)
		if !linear {
			return fmt.Errorf("%w: anisotropic filtering requires linear filters", ErrInvalidArgument)
		}
	}
	return nil
}

// StencilStateDesc describes stencil behavior for one face.
type StencilStateDesc struct {
	StencilFailureOperation   gputypes.StencilOperation
	DepthFailureOperation     gputypes.StencilOperation
	DepthStencilPassOperation gputypes.StencilOperation
	StencilCompareFunction    gputypes.CompareFunction
	ReadMask, WriteMask       uint32
}

// DefaultStencilStateDesc keeps the stencil buffer untouched.
func DefaultStencilStateDesc() StencilStateDesc {
	return StencilStateDesc{
		StencilFailureOperation:   gputypes.StencilOperationKeep,
		DepthFailureOperation:     gputypes.StencilOperationKeep,
		DepthStencilPassOperation: gputypes.StencilOperationKeep,
		StencilCompareFunction:    gputypes.CompareFunctionAlways,
		ReadMask:                  0xFFFFFFFF,
		WriteMask:                 0xFFFFFFFF,
	}
}

// DepthStencilStateDesc describes depth and stencil testing.
type DepthStencilStateDesc struct {
	CompareFunction     gputypes.CompareFunction
	IsDepthWriteEnabled bool
	FrontFaceStencil    StencilStateDesc
	BackFaceStencil     StencilStateDesc
	DebugName           string
}

// Validate reports a malformed description.
func (d DepthStencilStateDesc) Validate() error {
	if d.CompareFunction > gputypes.CompareFunctionAlways {
		return fmt.Errorf("%w: unknown depth compare function %d", ErrInvalidArgument, d.CompareFunction)
	}
	for _, s := range [...]StencilStateDesc{d.FrontFaceStencil, d.BackFaceStencil} {
		if s.StencilCompareFunction > gputypes.CompareFunctionAlways {
			return fmt.Errorf("%w: unknown stencil compare function %d", ErrInvalidArgument, s.StencilCompareFunction)
		}
		for _, op := range [...]gputypes.StencilOperation{s.StencilFailureOperation, s.DepthFailureOperation, s.DepthStencilPassOperation} {
			if op > gputypes.StencilOperationDecrementWrap {
				return fmt.Errorf("%w: unknown stencil operation %d", ErrInvalidArgument, op)
			}
		}
	}
	return nil
}

// MaxVertexAttributes bounds VertexInputStateDesc.Attributes.
const MaxVertexAttributes = 16

// VertexAttribute describes one vertex shader input.
type VertexAttribute struct {
	// BufferIndex selects an entry of VertexInputStateDesc.InputBindings.
	BufferIndex uint32
	Format      gputypes.VertexFormat
	Offset      uint64
	Location    uint32
	Name        string
}

// VertexInputBinding describes one vertex buffer slot.
type VertexInputBinding struct {
	Stride   uint64
	StepMode gputypes.VertexStepMode
}

// VertexInputStateDesc describes the vertex fetch layout.
type VertexInputStateDesc struct {
	Attributes    []VertexAttribute
	InputBindings []VertexInputBinding
}

// Validate reports a malformed description.
func (d VertexInputStateDesc) Validate() error {
	if len(d.Attributes) > MaxVertexAttributes {
		return fmt.Errorf("%w: %d vertex attributes exceed %d", ErrArgumentOutOfRange, len(d.Attributes), MaxVertexAttributes)
	}
	seen := make(map[uint32]bool, len(d.Attributes))
	for i, a := range d.Attributes {
		if int(a.BufferIndex) >= len(d.InputBindings) {
			return fmt.Errorf("%w: attribute %d uses buffer %d of %d", ErrInvalidArgument, i, a.BufferIndex, len(d.InputBindings))
		}
		if a.Format == gputypes.VertexFormatUndefined {
			return fmt.Errorf("%w: attribute %d has no format", ErrInvalidArgument, i)
		}
		if seen[a.Location] {
			return fmt.Errorf("%w: location %d used twice", ErrInvalidArgument, a.Location)
		}
		seen[a.Location] = true
		if stride := d.InputBindings[a.BufferIndex].Stride; stride != 0 && a.Offset+a.Format.Size() > stride {
			return fmt.Errorf("%w: attribute %d overruns stride %d", ErrInvalidArgument, i, stride)
		}
	}
	return nil
}

// BufferLayouts groups the attributes per input binding.
func (d VertexInputStateDesc) BufferLayouts() []gputypes.VertexBufferLayout {
	layouts := make([]gputypes.VertexBufferLayout, len(d.InputBindings))
	for i, b := range d.InputBindings {
		step := b.StepMode
		if step == gputypes.VertexStepModeUndefined {
			step = gputypes.VertexStepModeVertex
		}
		layouts[i] = gputypes.VertexBufferLayout{ArrayStride: b.Stride, StepMode: step}
	}
	for _, a := range d.Attributes {
		if int(a.BufferIndex) >= len(layouts) {
			continue
		}
		l := &layouts[a.BufferIndex]
		l.Attributes = append(l.Attributes, gputypes.VertexAttribute{
			Format:         a.Format,
			Offset:         a.Offset,
			ShaderLocation: a.Location,
		})
	}
	return layouts
}

// CommandQueueType selects the hardware queue family.
type CommandQueueType uint8

const (
	CommandQueueGraphics CommandQueueType = iota
	CommandQueueCompute
	CommandQueueTransfer
)

func (t CommandQueueType) String() string {
	switch t {
	case CommandQueueGraphics:
		return "graphics"
	case CommandQueueCompute:
		return "compute"
	case CommandQueueTransfer:
		return "transfer"
	default:
		return fmt.Sprintf("CommandQueueType(%d)", uint8(t))
	}
}

// CommandQueueDesc describes a command queue.
type CommandQueueDesc struct {
	Type CommandQueueType
}

// Validate reports a malformed description.
func (d CommandQueueDesc) Validate() error {
	if d.Type > CommandQueueTransfer {
		return fmt.Errorf("%w: unknown command queue type %d", ErrInvalidArgument, d.Type)
	}
	return nil
}

// CommandBufferDesc describes a command buffer.
type CommandBufferDesc struct {
	DebugName string
}
