package halbridge

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/rhi"
	"github.com/gogpu/wgpu/hal"
)

type sampler struct {
	resource
	hal hal.Sampler
}

// HAL returns the native sampler.
func (s *sampler) HAL() hal.Sampler { return s.hal }

func samplerDescriptor(d rhi.SamplerStateDesc) *hal.SamplerDescriptor {
	mip := d.MipFilter
	lodMax := d.MipLodMax
	if d.MipFilterDisabled {
		mip = gputypes.FilterModeNearest
		lodMax = d.MipLodMin
	}
	sd := &hal.SamplerDescriptor{
		Label:        d.DebugName,
		AddressModeU: orAddress(d.AddressModeU),
		AddressModeV: orAddress(d.AddressModeV),
		AddressModeW: orAddress(d.AddressModeW),
		MagFilter:    orFilter(d.MagFilter),
		MinFilter:    orFilter(d.MinFilter),
		MipmapFilter: orFilter(mip),
		LodMinClamp:  d.MipLodMin,
		LodMaxClamp:  lodMax,
		Anisotropy:   max(d.MaxAnisotropic, 1),
	}
	if d.DepthCompareEnabled {
		sd.Compare = d.DepthCompareFunction
	}
	return sd
}

func orFilter(m gputypes.FilterMode) gputypes.FilterMode {
	if m == gputypes.FilterModeUndefined {
		return gputypes.FilterModeNearest
	}
	return m
}

func orAddress(m gputypes.AddressMode) gputypes.AddressMode {
	if m == gputypes.AddressModeUndefined {
		return gputypes.AddressModeClampToEdge
	}
	return m
}

// CreateSamplerState creates a native sampler.
func (f *Factory) CreateSamplerState(desc rhi.SamplerStateDesc, out *rhi.Result) rhi.SamplerState {
	const op = "CreateSamplerState"
	if err := desc.Validate(); err != nil {
		f.fail(out, op, err)
		return nil
	}
	done, err := f.begin(op)
	if err != nil {
		f.fail(out, op, err)
		return nil
	}
	defer done()

	hs, err := f.device.CreateSampler(samplerDescriptor(desc))
	if err != nil {
		f.fail(out, op, backendErr("create sampler", err))
		return nil
	}
	s := &sampler{hal: hs}
	f.adopt(&s.resource, rhi.ResourceSamplerState, desc.DebugName, 0, func() {
		f.device.DestroySampler(hs)
	})
	rhi.SetOk(out)
	return s
}

// depthStencilState has no native object: hal bakes depth and stencil
// into the pipeline.
type depthStencilState struct {
	resource
	desc rhi.DepthStencilStateDesc
}

func (s *depthStencilState) Desc() rhi.DepthStencilStateDesc { return s.desc }

// CreateDepthStencilState validates and stores desc.
func (f *Factory) CreateDepthStencilState(desc rhi.DepthStencilStateDesc, out *rhi.Result) rhi.DepthStencilState {
	const op = "CreateDepthStencilState"
	if err := desc.Validate(); err != nil {
		f.fail(out, op, err)
		return nil
	}
	done, err := f.begin(op)
	if err != nil {
		f.fail(out, op, err)
		return nil
	}
	defer done()

	s := &depthStencilState{desc: desc}
	f.adopt(&s.resource, rhi.ResourceDepthStencilState, desc.DebugName, 0, nil)
	rhi.SetOk(out)
	return s
}

func depthStencilDescriptor(d rhi.DepthStencilStateDesc, format gputypes.TextureFormat) *hal.DepthStencilState {
	return &hal.DepthStencilState{
		Format:            format,
		DepthWriteEnabled: d.IsDepthWriteEnabled,
		DepthCompare:      orCompare(d.CompareFunction),
		StencilFront:      stencilFace(d.FrontFaceStencil),
		StencilBack:       stencilFace(d.BackFaceStencil),
		StencilReadMask:   d.FrontFaceStencil.ReadMask,
		StencilWriteMask:  d.FrontFaceStencil.WriteMask,
	}
}

func stencilFace(s rhi.StencilStateDesc) hal.StencilFaceState {
	return hal.StencilFaceState{
		Compare:     orCompare(s.StencilCompareFunction),
		FailOp:      stencilOp(s.StencilFailureOperation),
		DepthFailOp: stencilOp(s.DepthFailureOperation),
		PassOp:      stencilOp(s.DepthStencilPassOperation),
	}
}

func orCompare(c gputypes.CompareFunction) gputypes.CompareFunction {
	if c == gputypes.CompareFunctionUndefined {
		return gputypes.CompareFunctionAlways
	}
	return c
}

// stencilOp maps the 1-based gputypes operations onto the 0-based hal ones.
func stencilOp(op gputypes.StencilOperation) hal.StencilOperation {
	if op == gputypes.StencilOperationUndefined {
		return hal.StencilOperationKeep
	}
	return hal.StencilOperation(op - 1)
}

type vertexInputState struct {
	resource
	desc rhi.VertexInputStateDesc
}

func (s *vertexInputState) Desc() rhi.VertexInputStateDesc { return s.desc }

// CreateVertexInputState validates and stores desc.
func (f *Factory) CreateVertexInputState(desc rhi.VertexInputStateDesc, out *rhi.Result) rhi.VertexInputState {
	const op = "CreateVertexInputState"
	if err := desc.Validate(); err != nil {
		f.fail(out, op, err)
		return nil
	}
	if n := uint32(len(desc.InputBindings)); n > f.limits.MaxVertexBuffers {
		f.fail(out, op, fmt.Errorf("%w: %d vertex buffers exceed limit %d", rhi.ErrArgumentOutOfRange, n, f.limits.MaxVertexBuffers))
		return nil
	}
	done, err := f.begin(op)
	if err != nil {
		f.fail(out, op, err)
		return nil
	}
	defer done()

	desc.Attributes = append([]rhi.VertexAttribute(nil), desc.Attributes...)
	desc.InputBindings = append([]rhi.VertexInputBinding(nil), desc.InputBindings...)
	s := &vertexInputState{desc: desc}
	f.adopt(&s.resource, rhi.ResourceVertexInputState, "", 0, nil)
	rhi.SetOk(out)
	return s
}
