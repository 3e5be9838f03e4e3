package vulkan

import (
	"errors"
	"reflect"
	"slices"
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/rhi"
	"github.com/gogpu/rhi/tracker"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"
	"github.com/gogpu/wgpu/hal/vulkan/vk"
)

func openTestDevice(t *testing.T, opts ...rhi.Option) *Device {
	t.Helper()
	dev, err := NewDevice(rhi.NewConfig(append([]rhi.Option{rhi.WithHALBackend(noop.API{})}, opts...)...))
	if err != nil {
		t.Fatalf("NewDevice: %v", err)
	}
	t.Cleanup(func() { _ = dev.Close() })
	return dev
}

func TestDeviceIdentity(t *testing.T) {
	dev := openTestDevice(t)
	if dev.BackendType() != rhi.BackendVulkan {
		t.Errorf("BackendType() = %v", dev.BackendType())
	}
	if dev.NormalizedZRange() != rhi.ZRangeZeroToOne {
		t.Errorf("NormalizedZRange() = %v", dev.NormalizedZRange())
	}
	if dev.BackendDebugColor() != rhi.Cyan {
		t.Errorf("BackendDebugColor() = %v", dev.BackendDebugColor())
	}
	if !dev.HasFeature(rhi.FeatureCompute) || dev.HasFeature(rhi.FeatureBindlessDescriptors) {
		t.Errorf("features: compute %v, bindless %v", dev.HasFeature(rhi.FeatureCompute), dev.HasFeature(rhi.FeatureBindlessDescriptors))
	}
	if err := dev.UpdateSurface(0); !errors.Is(err, rhi.ErrUnsupported) {
		t.Errorf("UpdateSurface err = %v", err)
	}
}

func TestOpenThroughRegistry(t *testing.T) {
	if !rhi.IsRegistered(rhi.BackendVulkan) {
		t.Fatal("vulkan backend not registered")
	}
	dev, err := rhi.Open(rhi.BackendVulkan, rhi.WithHALBackend(noop.API{}))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer dev.Close()
	if _, ok := dev.(*Device); !ok {
		t.Fatalf("Open returned %T", dev)
	}
}

func TestGetPlatformDevice(t *testing.T) {
	dev := openTestDevice(t)
	pd, ok := rhi.GetPlatformDevice[*PlatformDevice](dev)
	if !ok || pd == nil || pd != dev.Platform() {
		t.Fatalf("GetPlatformDevice = %v, %v", pd, ok)
	}
	if pd.PlatformType() != rhi.PlatformDeviceVulkan {
		t.Errorf("PlatformType() = %v", pd.PlatformType())
	}
	if !rhi.IsType(dev.PlatformDevice(), rhi.PlatformDeviceVulkan) || rhi.IsType(dev.PlatformDevice(), rhi.PlatformDeviceMetal) {
		t.Error("IsType mismatch")
	}
}

func TestPlatformDeviceWithoutDispatch(t *testing.T) {
	dev := openTestDevice(t)
	var out rhi.Result
	l := dev.Platform().CreateDescriptorSetLayout(DescriptorSetLayoutDesc{}, &out)
	if l != nil || out.Code != rhi.Unsupported || !errors.Is(out.Err(), rhi.ErrUnsupported) {
		t.Fatalf("got %v, %v", l, out)
	}
}

// A device and a layout with a uniform buffer at 0 and a variable-count
// sampled image array at 1: one create, one destroy, nothing between.
func TestPlatformDeviceTwoBindingLayout(t *testing.T) {
	m := newMock()
	dev := openTestDevice(t, WithDispatch(m, testDevice))
	pd, _ := rhi.GetPlatformDevice[*PlatformDevice](dev)

	var out rhi.Result
	l := pd.CreateDescriptorSetLayout(DescriptorSetLayoutDesc{
		Bindings: []vk.DescriptorSetLayoutBinding{
			uniformBinding(0),
			{Binding: 1, DescriptorType: vk.DescriptorTypeSampledImage, DescriptorCount: 16,
				StageFlags: vk.ShaderStageFlags(vk.ShaderStageFragmentBit)},
		},
		BindingFlags: []vk.DescriptorBindingFlags{0, vk.DescriptorBindingFlags(vk.DescriptorBindingVariableDescriptorCountBit)},
	}, &out)
	if !out.IsOk() {
		t.Fatalf("CreateDescriptorSetLayout: %v", out)
	}
	handle := l.Handle()
	l.Destroy()

	if got := m.names(); !slices.Equal(got, []string{"CreateDescriptorSetLayout", "DestroyDescriptorSetLayout"}) {
		t.Fatalf("calls = %v", got)
	}
	if c := m.calls[0]; c.flags != 0 || len(c.bindings) != 2 {
		t.Errorf("create flags %#x with %d bindings", c.flags, len(c.bindings))
	}
	if m.calls[1].handle != uint64(handle) {
		t.Errorf("destroy(%#x), want %#x", m.calls[1].handle, handle)
	}
	if sets, pipes := pd.LiveLayouts(); sets != 0 || pipes != 0 {
		t.Errorf("LiveLayouts() = %d, %d", sets, pipes)
	}
}

func TestPlatformDeviceCloseDestroysLayouts(t *testing.T) {
	m := newMock()
	counts := tracker.NewCounting()
	dev := openTestDevice(t, WithDispatch(m, testDevice), rhi.WithResourceTracker(counts))
	pd := dev.Platform()

	set := pd.CreateDescriptorSetLayout(DescriptorSetLayoutDesc{Bindings: []vk.DescriptorSetLayoutBinding{uniformBinding(0)}}, nil)
	pl := pd.CreatePipelineLayout(PipelineLayoutDesc{SetLayouts: []*DescriptorSetLayout{set}}, nil)
	if set == nil || pl == nil {
		t.Fatal("layout creation failed")
	}
	if s := counts.Stats(); s.Kinds[rhi.ResourceDescriptorSetLayout].Live != 1 || s.Kinds[rhi.ResourcePipelineLayout].Live != 1 {
		t.Fatalf("tracker = %+v", s.Kinds)
	}

	if err := dev.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	want := []string{"CreateDescriptorSetLayout", "CreatePipelineLayout", "DestroyPipelineLayout", "DestroyDescriptorSetLayout"}
	if got := m.names(); !slices.Equal(got, want) {
		t.Fatalf("calls = %v, want %v", got, want)
	}
	if counts.Stats().Live() != 0 {
		t.Errorf("tracker live after close: %v", counts.Stats())
	}

	// Destroy after close is a no-op; creation fails.
	set.Destroy()
	if m.count("DestroyDescriptorSetLayout") != 1 {
		t.Errorf("second native destroy: %v", m.names())
	}
	var out rhi.Result
	if l := pd.CreateDescriptorSetLayout(DescriptorSetLayoutDesc{}, &out); l != nil || out.Code != rhi.InvalidOperation {
		t.Errorf("create after close: %v, %v", l, out)
	}
}

func TestPlatformDeviceForeignSetLayout(t *testing.T) {
	m := newMock()
	dev := openTestDevice(t, WithDispatch(m, testDevice))
	foreign, err := NewDescriptorSetLayout(m, testDevice, 0, nil, nil, "")
	if err != nil {
		t.Fatal(err)
	}
	defer foreign.Destroy()

	var out rhi.Result
	if pl := dev.Platform().CreatePipelineLayout(PipelineLayoutDesc{SetLayouts: []*DescriptorSetLayout{foreign}}, &out); pl != nil || out.Code != rhi.InvalidArgument {
		t.Errorf("got %v, %v", pl, out)
	}
}

func TestSanitize(t *testing.T) {
	dev := openTestDevice(t)
	descs := []rhi.TextureDesc{
		{},
		{Type: rhi.TextureType2D, Width: 300, Height: 200, NumSamples: 3, NumMipLevels: 4},
		{Type: rhi.TextureTypeCube, Width: 64, Height: 64, Depth: 9},
		{Type: rhi.TextureType3D, Width: 16, Height: 16, Depth: 16, NumLayers: 4, NumMipLevels: 20},
		{Type: rhi.TextureType2DArray, Width: 8, Height: 8, NumLayers: 12, NumSamples: 6},
	}
	for i, d := range descs {
		once := dev.Sanitize(d)
		if twice := dev.Sanitize(once); !reflect.DeepEqual(once, twice) {
			t.Errorf("desc %d: Sanitize not idempotent: %+v -> %+v", i, once, twice)
		}
		if n := once.NumSamples; n == 0 || n&(n-1) != 0 {
			t.Errorf("desc %d: samples %d not a power of two", i, n)
		}
	}
	if got := dev.Sanitize(descs[1]).NumSamples; got != 2 {
		t.Errorf("samples 3 -> %d, want 2", got)
	}
	if got := dev.Sanitize(descs[4]).NumSamples; got != 4 {
		t.Errorf("samples 6 -> %d, want 4", got)
	}
}

func TestDeviceTracker(t *testing.T) {
	dev := openTestDevice(t)
	early := dev.CreateBuffer(rhi.BufferDesc{Type: gputypes.BufferUsageVertex, Length: 4}, nil)

	counts := tracker.NewCounting()
	dev.SetResourceTracker(counts)
	var bufs []rhi.Buffer
	for range 5 {
		bufs = append(bufs, dev.CreateBuffer(rhi.BufferDesc{Type: gputypes.BufferUsageVertex, Length: 16}, nil))
	}
	early.Release()
	if k := counts.Stats().Kinds[rhi.ResourceBuffer]; k.Created != 5 || k.Destroyed != 0 {
		t.Fatalf("after create: %+v", k)
	}
	for _, b := range bufs {
		b.Release()
	}
	s := counts.Stats()
	if k := s.Kinds[rhi.ResourceBuffer]; k.Destroyed != 5 || k.Live != 0 || s.Unmatched != 0 {
		t.Errorf("after release: %+v", s)
	}
}

func TestDeviceFromProvider(t *testing.T) {
	owner := openTestDevice(t)
	if _, ok := owner.Device().(hal.Device); !ok {
		t.Fatalf("Device() = %T", owner.Device())
	}
	if owner.SurfaceFormat() != gputypes.TextureFormatBGRA8Unorm {
		t.Errorf("SurfaceFormat() = %v", owner.SurfaceFormat())
	}

	shared, err := NewDeviceFromProvider(owner)
	if err != nil {
		t.Fatalf("NewDeviceFromProvider: %v", err)
	}
	if shared.HALDevice() != owner.HALDevice() {
		t.Error("provider device not shared")
	}
	if err := shared.Close(); err != nil {
		t.Fatal(err)
	}
	if owner.Device() == nil {
		t.Error("closing the borrowing device released the owner's device")
	}
	var out rhi.Result
	if b := owner.CreateBuffer(rhi.BufferDesc{Type: gputypes.BufferUsageVertex, Length: 4}, &out); b == nil {
		t.Fatalf("owner unusable after borrower closed: %v", out)
	} else {
		b.Release()
	}
}
