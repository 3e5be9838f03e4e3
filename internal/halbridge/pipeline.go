package halbridge

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/rhi"
	"github.com/gogpu/wgpu/hal"
)

// pipelineLayout holds the native layout objects a pipeline was built
// with. Objects are destroyed in reverse creation order.
type pipelineLayout struct {
	dev    hal.Device
	groups []hal.BindGroupLayout
	layout hal.PipelineLayout
}

func (l *pipelineLayout) destroy() {
	if l.layout != nil {
		l.dev.DestroyPipelineLayout(l.layout)
		l.layout = nil
	}
	for i := len(l.groups) - 1; i >= 0; i-- {
		l.dev.DestroyBindGroupLayout(l.groups[i])
	}
	l.groups = nil
}

func (f *Factory) createPipelineLayout(label string, groups []rhi.BindGroupLayoutDesc) (*pipelineLayout, error) {
	if limit := f.limits.MaxBindGroups; limit != 0 && uint32(len(groups)) > limit {
		return nil, fmt.Errorf("%w: %d bind groups exceed limit %d", rhi.ErrArgumentOutOfRange, len(groups), limit)
	}
	l := &pipelineLayout{dev: f.device}
	for i, entries := range groups {
		bgl, err := f.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
			Label:   fmt.Sprintf("%s group %d", label, i),
			Entries: entries,
		})
		if err != nil {
			l.destroy()
			return nil, backendErr("create bind group layout", err)
		}
		l.groups = append(l.groups, bgl)
	}
	layout, err := f.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            label,
		BindGroupLayouts: l.groups,
	})
	if err != nil {
		l.destroy()
		return nil, backendErr("create pipeline layout", err)
	}
	l.layout = layout
	return l, nil
}

type renderPipeline struct {
	resource
	hal    hal.RenderPipeline
	layout *pipelineLayout
}

// HAL returns the native pipeline.
func (p *renderPipeline) HAL() hal.RenderPipeline { return p.hal }

func (f *Factory) ownStages(s rhi.ShaderStages) (*shaderStages, error) {
	st, ok := s.(*shaderStages)
	if !ok || st.factory() != f {
		return nil, fmt.Errorf("%w: shader stages belong to another device", rhi.ErrInvalidArgument)
	}
	if st.dead.Load() {
		return nil, fmt.Errorf("%w: shader stages %q were destroyed", rhi.ErrInvalidOperation, st.label)
	}
	return st, nil
}

// CreateRenderPipeline builds the bind group layouts, the pipeline layout
// and the pipeline. Partial work is undone on failure.
func (f *Factory) CreateRenderPipeline(desc rhi.RenderPipelineDesc, out *rhi.Result) rhi.RenderPipelineState {
	const op = "CreateRenderPipeline"
	if err := desc.Validate(); err != nil {
		f.fail(out, op, err)
		return nil
	}
	stages, err := f.ownStages(desc.ShaderStages)
	if err != nil {
		f.fail(out, op, err)
		return nil
	}
	if limit := f.limits.MaxColorAttachments; limit != 0 && uint32(len(desc.ColorAttachments)) > limit {
		f.fail(out, op, fmt.Errorf("%w: %d color attachments exceed limit %d", rhi.ErrArgumentOutOfRange, len(desc.ColorAttachments), limit))
		return nil
	}
	done, err := f.begin(op)
	if err != nil {
		f.fail(out, op, err)
		return nil
	}
	defer done()

	layout, err := f.createPipelineLayout(desc.DebugName, desc.BindGroupLayouts)
	if err != nil {
		f.fail(out, op, err)
		return nil
	}
	hp, err := f.device.CreateRenderPipeline(renderPipelineDescriptor(desc, stages, layout.layout))
	if err != nil {
		layout.destroy()
		f.fail(out, op, backendErr("create render pipeline", err))
		return nil
	}
	p := &renderPipeline{hal: hp, layout: layout}
	f.adopt(&p.resource, rhi.ResourceRenderPipeline, desc.DebugName, 0, func() {
		f.device.DestroyRenderPipeline(p.hal)
		p.layout.destroy()
	})
	rhi.SetOk(out)
	return p
}

func renderPipelineDescriptor(d rhi.RenderPipelineDesc, s *shaderStages, layout hal.PipelineLayout) *hal.RenderPipelineDescriptor {
	vm, ve := s.vertex.HAL()
	hd := &hal.RenderPipelineDescriptor{
		Label:  d.DebugName,
		Layout: layout,
		Vertex: hal.VertexState{Module: vm, EntryPoint: ve},
		Primitive: gputypes.PrimitiveState{
			Topology:  d.Topology,
			FrontFace: d.FrontFace,
			CullMode:  d.CullMode,
		},
		Multisample: gputypes.MultisampleState{Count: max(d.SampleCount, 1), Mask: ^uint64(0)},
	}
	if d.VertexInputState != nil {
		hd.Vertex.Buffers = d.VertexInputState.Desc().BufferLayouts()
	}
	if d.DepthFormat != gputypes.TextureFormatUndefined {
		ds := rhi.DepthStencilStateDesc{}
		if d.DepthStencilState != nil {
			ds = d.DepthStencilState.Desc()
		} else {
			ds.CompareFunction = gputypes.CompareFunctionAlways
			ds.FrontFaceStencil = rhi.DefaultStencilStateDesc()
			ds.BackFaceStencil = rhi.DefaultStencilStateDesc()
		}
		hd.DepthStencil = depthStencilDescriptor(ds, d.DepthFormat)
	}
	if s.fragment != nil {
		fm, fe := s.fragment.HAL()
		targets := make([]gputypes.ColorTargetState, len(d.ColorAttachments))
		for i, c := range d.ColorAttachments {
			mask := c.WriteMask
			if mask == 0 {
				mask = gputypes.ColorWriteMaskAll
			}
			targets[i] = gputypes.ColorTargetState{Format: c.Format, Blend: c.Blend, WriteMask: mask}
		}
		hd.Fragment = &hal.FragmentState{Module: fm, EntryPoint: fe, Targets: targets}
	}
	return hd
}

type computePipeline struct {
	resource
	hal    hal.ComputePipeline
	layout *pipelineLayout
}

// HAL returns the native pipeline.
func (p *computePipeline) HAL() hal.ComputePipeline { return p.hal }

// CreateComputePipeline builds a compute pipeline and its layout.
func (f *Factory) CreateComputePipeline(desc rhi.ComputePipelineDesc, out *rhi.Result) rhi.ComputePipelineState {
	const op = "CreateComputePipeline"
	if err := desc.Validate(); err != nil {
		f.fail(out, op, err)
		return nil
	}
	if !f.HasFeature(rhi.FeatureCompute) {
		f.fail(out, op, fmt.Errorf("%w: compute pipelines on %s", rhi.ErrUnsupported, f.base.BackendType()))
		return nil
	}
	stages, err := f.ownStages(desc.ShaderStages)
	if err != nil {
		f.fail(out, op, err)
		return nil
	}
	done, err := f.begin(op)
	if err != nil {
		f.fail(out, op, err)
		return nil
	}
	defer done()

	layout, err := f.createPipelineLayout(desc.DebugName, desc.BindGroupLayouts)
	if err != nil {
		f.fail(out, op, err)
		return nil
	}
	cm, ce := stages.compute.HAL()
	hp, err := f.device.CreateComputePipeline(&hal.ComputePipelineDescriptor{
		Label:   desc.DebugName,
		Layout:  layout.layout,
		Compute: hal.ComputeState{Module: cm, EntryPoint: ce},
	})
	if err != nil {
		layout.destroy()
		f.fail(out, op, backendErr("create compute pipeline", err))
		return nil
	}
	p := &computePipeline{hal: hp, layout: layout}
	f.adopt(&p.resource, rhi.ResourceComputePipeline, desc.DebugName, 0, func() {
		f.device.DestroyComputePipeline(p.hal)
		p.layout.destroy()
	})
	rhi.SetOk(out)
	return p
}
