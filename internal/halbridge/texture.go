package halbridge

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/rhi"
	"github.com/gogpu/wgpu/hal"
)

type texture struct {
	resource
	hal  hal.Texture
	desc rhi.TextureDesc
}

func (t *texture) Desc() rhi.TextureDesc          { return t.desc }
func (t *texture) Format() gputypes.TextureFormat { return t.desc.Format }

// HAL returns the native texture.
func (t *texture) HAL() hal.Texture { return t.hal }

func (t *texture) Upload(level uint32, data []byte) error {
	if level >= t.desc.NumMipLevels {
		return fmt.Errorf("%w: mip level %d of %d", rhi.ErrInvalidArgument, level, t.desc.NumMipLevels)
	}
	want, ok := t.desc.LevelSize(level)
	if !ok {
		return fmt.Errorf("%w: upload to format %v", rhi.ErrUnsupported, t.desc.Format)
	}
	if uint64(len(data)) != want {
		return fmt.Errorf("%w: level %d needs %d bytes, got %d", rhi.ErrInvalidArgument, level, want, len(data))
	}
	if t.dead.Load() {
		return fmt.Errorf("%w: texture %q", rhi.ErrDeviceClosed, t.label)
	}
	return writeLevel(t.f.queue, t.hal, t.desc, level, data)
}

func writeLevel(q hal.Queue, ht hal.Texture, d rhi.TextureDesc, level uint32, data []byte) error {
	bpt, _ := rhi.BytesPerTexel(d.Format)
	w, h, depth := d.LevelExtent(level)
	layers := d.NumLayers
	if d.Type == rhi.TextureType3D {
		layers = depth
	}
	err := q.WriteTexture(
		&hal.ImageCopyTexture{Texture: ht, MipLevel: level, Aspect: gputypes.TextureAspectAll},
		data,
		&hal.ImageDataLayout{BytesPerRow: w * bpt, RowsPerImage: h},
		&hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: layers},
	)
	if err != nil {
		return backendErr("write texture", err)
	}
	return nil
}

func textureDescriptor(d rhi.TextureDesc, usage gputypes.TextureUsage) *hal.TextureDescriptor {
	dim := gputypes.TextureDimension2D
	layers := d.NumLayers
	if d.Type == rhi.TextureType3D {
		dim = gputypes.TextureDimension3D
		layers = d.Depth
	}
	return &hal.TextureDescriptor{
		Label:         d.DebugName,
		Size:          hal.Extent3D{Width: d.Width, Height: d.Height, DepthOrArrayLayers: layers},
		MipLevelCount: d.NumMipLevels,
		SampleCount:   d.NumSamples,
		Dimension:     dim,
		Format:        d.Format,
		Usage:         usage,
	}
}

// CreateTexture sanitizes desc with the backend hook, validates it against
// the device limits and creates the texture.
func (f *Factory) CreateTexture(desc rhi.TextureDesc, out *rhi.Result) rhi.Texture {
	const op = "CreateTexture"
	desc = f.sanitize(desc)
	if err := desc.Validate(); err != nil {
		f.fail(out, op, err)
		return nil
	}
	if err := desc.CheckLimits(f.limits); err != nil {
		f.fail(out, op, err)
		return nil
	}
	done, err := f.begin(op)
	if err != nil {
		f.fail(out, op, err)
		return nil
	}
	defer done()

	data := desc.Data
	desc.Data = nil
	usage := desc.Usage
	if len(data) > 0 {
		usage |= gputypes.TextureUsageCopyDst
	}
	ht, err := f.device.CreateTexture(textureDescriptor(desc, usage))
	if err != nil {
		f.fail(out, op, backendErr("create texture", err))
		return nil
	}
	if len(data) > 0 {
		if err := writeLevel(f.queue, ht, desc, 0, data); err != nil {
			f.device.DestroyTexture(ht)
			f.fail(out, op, err)
			return nil
		}
	}

	desc.Usage = usage
	size, _ := desc.LevelSize(0)
	t := &texture{hal: ht, desc: desc}
	f.adopt(&t.resource, rhi.ResourceTexture, desc.DebugName, size, func() {
		f.device.DestroyTexture(ht)
	})
	rhi.SetOk(out)
	return t
}
