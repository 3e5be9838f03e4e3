package metal

import (
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/rhi"
	"github.com/gogpu/wgpu/hal/noop"
)

func TestDevice(t *testing.T) {
	dev, err := rhi.Open(rhi.BackendMetal, rhi.WithHALBackend(noop.API{}))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = dev.Close() })

	if dev.BackendType() != rhi.BackendMetal || dev.NormalizedZRange() != rhi.ZRangeZeroToOne {
		t.Errorf("identity = %v %v", dev.BackendType(), dev.NormalizedZRange())
	}
	if dev.BackendDebugColor() != rhi.Magenta {
		t.Errorf("BackendDebugColor() = %v", dev.BackendDebugColor())
	}
	if !dev.HasFeature(rhi.FeatureDepth32FloatStencil8) {
		t.Error("Depth32FloatStencil8 missing")
	}
	pd, ok := rhi.GetPlatformDevice[*PlatformDevice](dev)
	if !ok || pd.PlatformType() != rhi.PlatformDeviceMetal {
		t.Fatalf("GetPlatformDevice = %v, %v", pd, ok)
	}
	if pd.AdapterInfo().Name == "" {
		t.Error("adapter name is empty")
	}
}

func TestSanitizeDepthStencil(t *testing.T) {
	tests := []struct {
		in, want gputypes.TextureFormat
	}{
		{gputypes.TextureFormatDepth24PlusStencil8, gputypes.TextureFormatDepth32FloatStencil8},
		{gputypes.TextureFormatDepth32FloatStencil8, gputypes.TextureFormatDepth32FloatStencil8},
		{gputypes.TextureFormatDepth24Plus, gputypes.TextureFormatDepth24Plus},
		{gputypes.TextureFormatBGRA8Unorm, gputypes.TextureFormatBGRA8Unorm},
	}
	for _, tt := range tests {
		t.Run(tt.in.String(), func(t *testing.T) {
			d := rhi.NewTextureDesc2D(tt.in, 64, 64, gputypes.TextureUsageRenderAttachment, "")
			got := Sanitize(d)
			if got.Format != tt.want {
				t.Errorf("Sanitize(%v).Format = %v, want %v", tt.in, got.Format, tt.want)
			}
			if Sanitize(got).Format != got.Format {
				t.Error("Sanitize not idempotent")
			}
		})
	}
}

func TestDepthStencilTexture(t *testing.T) {
	dev, err := NewDevice(rhi.NewConfig(rhi.WithHALBackend(noop.API{})))
	if err != nil {
		t.Fatal(err)
	}
	defer dev.Close()

	desc := rhi.NewTextureDesc2D(gputypes.TextureFormatDepth24PlusStencil8, 128, 128, gputypes.TextureUsageRenderAttachment, "depth")
	var out rhi.Result
	tex := dev.CreateTexture(desc, &out)
	if tex == nil {
		t.Fatalf("CreateTexture: %v", out)
	}
	if tex.Format() != gputypes.TextureFormatDepth32FloatStencil8 {
		t.Errorf("Format() = %v", tex.Format())
	}
	tex.Release()
	if n := dev.LiveResources(); n != 0 {
		t.Errorf("LiveResources() = %d", n)
	}
}
