package halbridge

import (
	"errors"
	"sync"
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/rhi"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"
)

// countingDevice wraps the noop device and counts native creations and
// destructions per object type. Entries in fail make the matching Create
// call return an error.
type countingDevice struct {
	hal.Device

	mu        sync.Mutex
	created   map[string]int
	destroyed map[string]int
	fail      map[string]error
}

func newCountingDevice() *countingDevice {
	return &countingDevice{
		Device:    &noop.Device{},
		created:   make(map[string]int),
		destroyed: make(map[string]int),
		fail:      make(map[string]error),
	}
}

func (d *countingDevice) create(kind string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.fail[kind]; err != nil {
		return err
	}
	d.created[kind]++
	return nil
}

func (d *countingDevice) destroy(kind string) {
	d.mu.Lock()
	d.destroyed[kind]++
	d.mu.Unlock()
}

func (d *countingDevice) counts(kind string) (created, destroyed int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.created[kind], d.destroyed[kind]
}

func (d *countingDevice) failOn(kind string) {
	d.mu.Lock()
	d.fail[kind] = errors.New("injected failure")
	d.mu.Unlock()
}

func (d *countingDevice) CreateBuffer(desc *hal.BufferDescriptor) (hal.Buffer, error) {
	if err := d.create("buffer"); err != nil {
		return nil, err
	}
	return d.Device.CreateBuffer(desc)
}

func (d *countingDevice) DestroyBuffer(b hal.Buffer) { d.destroy("buffer") }

func (d *countingDevice) CreateTexture(desc *hal.TextureDescriptor) (hal.Texture, error) {
	if err := d.create("texture"); err != nil {
		return nil, err
	}
	return d.Device.CreateTexture(desc)
}

func (d *countingDevice) DestroyTexture(t hal.Texture) { d.destroy("texture") }

func (d *countingDevice) CreateTextureView(t hal.Texture, desc *hal.TextureViewDescriptor) (hal.TextureView, error) {
	if err := d.create("view"); err != nil {
		return nil, err
	}
	return d.Device.CreateTextureView(t, desc)
}

func (d *countingDevice) DestroyTextureView(v hal.TextureView) { d.destroy("view") }

func (d *countingDevice) CreateSampler(desc *hal.SamplerDescriptor) (hal.Sampler, error) {
	if err := d.create("sampler"); err != nil {
		return nil, err
	}
	return d.Device.CreateSampler(desc)
}

func (d *countingDevice) DestroySampler(s hal.Sampler) { d.destroy("sampler") }

func (d *countingDevice) CreateBindGroupLayout(desc *hal.BindGroupLayoutDescriptor) (hal.BindGroupLayout, error) {
	if err := d.create("bgl"); err != nil {
		return nil, err
	}
	return d.Device.CreateBindGroupLayout(desc)
}

func (d *countingDevice) DestroyBindGroupLayout(l hal.BindGroupLayout) { d.destroy("bgl") }

func (d *countingDevice) CreatePipelineLayout(desc *hal.PipelineLayoutDescriptor) (hal.PipelineLayout, error) {
	if err := d.create("layout"); err != nil {
		return nil, err
	}
	return d.Device.CreatePipelineLayout(desc)
}

func (d *countingDevice) DestroyPipelineLayout(l hal.PipelineLayout) { d.destroy("layout") }

func (d *countingDevice) CreateShaderModule(desc *hal.ShaderModuleDescriptor) (hal.ShaderModule, error) {
	if err := d.create("shader"); err != nil {
		return nil, err
	}
	return d.Device.CreateShaderModule(desc)
}

func (d *countingDevice) DestroyShaderModule(m hal.ShaderModule) { d.destroy("shader") }

func (d *countingDevice) CreateRenderPipeline(desc *hal.RenderPipelineDescriptor) (hal.RenderPipeline, error) {
	if err := d.create("render"); err != nil {
		return nil, err
	}
	return d.Device.CreateRenderPipeline(desc)
}

func (d *countingDevice) DestroyRenderPipeline(p hal.RenderPipeline) { d.destroy("render") }

func (d *countingDevice) CreateComputePipeline(desc *hal.ComputePipelineDescriptor) (hal.ComputePipeline, error) {
	if err := d.create("compute"); err != nil {
		return nil, err
	}
	return d.Device.CreateComputePipeline(desc)
}

func (d *countingDevice) DestroyComputePipeline(p hal.ComputePipeline) { d.destroy("compute") }

// recorder is a ResourceTracker that keeps every event.
type recorder struct {
	mu        sync.Mutex
	created   []rhi.ResourceEvent
	destroyed []rhi.ResourceEvent
}

func (r *recorder) DidCreate(ev rhi.ResourceEvent) {
	r.mu.Lock()
	r.created = append(r.created, ev)
	r.mu.Unlock()
}

func (r *recorder) DidDestroy(ev rhi.ResourceEvent) {
	r.mu.Lock()
	r.destroyed = append(r.destroyed, ev)
	r.mu.Unlock()
}

type testRig struct {
	base    *rhi.DeviceBase
	dev     *countingDevice
	tracker *recorder
	f       *Factory
}

func newTestRig(t *testing.T, opts ...rhi.Option) *testRig {
	t.Helper()
	rig := &testRig{base: &rhi.DeviceBase{}, dev: newCountingDevice(), tracker: &recorder{}}
	cfg := rhi.NewConfig(append([]rhi.Option{rhi.WithResourceTracker(rig.tracker)}, opts...)...)
	rig.base.Init(rhi.BackendVulkan, rhi.ZRangeZeroToOne, nil, cfg)
	rig.f = New(Config{
		Base:     rig.base,
		Device:   rig.dev,
		Queue:    &noop.Queue{},
		Limits:   gputypes.DefaultLimits(),
		Features: 0,
		Native:   map[rhi.DeviceFeature]bool{rhi.FeatureCompute: true},
	})
	t.Cleanup(rig.f.Shutdown)
	return rig
}

var testWGSL = `@vertex fn vs() -> @builtin(position) vec4<f32> { return vec4<f32>(0.0); }
@fragment fn fs() -> @location(0) vec4<f32> { return vec4<f32>(1.0); }
@compute @workgroup_size(1) fn cs() {}`

func (rig *testRig) renderStages(t *testing.T) rhi.ShaderStages {
	t.Helper()
	var out rhi.Result
	lib := rig.f.CreateShaderLibrary(rhi.ShaderLibraryDesc{
		Modules: []rhi.ShaderModuleInfo{
			{Stage: gputypes.ShaderStageVertex, EntryPoint: "vs"},
			{Stage: gputypes.ShaderStageFragment, EntryPoint: "fs"},
		},
		Source:    rhi.ShaderSource{WGSL: testWGSL},
		DebugName: "lib",
	}, &out)
	if !out.IsOk() {
		t.Fatalf("CreateShaderLibrary: %v", out)
	}
	stages := rig.f.CreateShaderStages(rhi.ShaderStagesDesc{
		Type:           rhi.ShaderStagesRender,
		VertexModule:   lib.Module("vs"),
		FragmentModule: lib.Module("fs"),
		DebugName:      "stages",
	}, &out)
	if !out.IsOk() {
		t.Fatalf("CreateShaderStages: %v", out)
	}
	lib.Destroy()
	t.Cleanup(func() {
		if st, ok := stages.(*shaderStages); ok && st.refs.Load() > 0 {
			stages.Destroy()
		}
	})
	return stages
}
