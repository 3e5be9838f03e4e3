package halbridge

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/rhi"
	"github.com/gogpu/wgpu/hal"
)

type attachment struct {
	tex  *texture
	view hal.TextureView
}

type framebuffer struct {
	resource
	colors  []attachment
	depth   attachment
	stencil attachment
}

func (fb *framebuffer) ColorAttachmentCount() int { return len(fb.colors) }

func (fb *framebuffer) ColorAttachment(index int) rhi.Texture {
	if index < 0 || index >= len(fb.colors) {
		return nil
	}
	return fb.colors[index].tex
}

func (fb *framebuffer) DepthAttachment() rhi.Texture   { return textureOrNil(fb.depth.tex) }
func (fb *framebuffer) StencilAttachment() rhi.Texture { return textureOrNil(fb.stencil.tex) }

// ColorView returns the render view of color attachment index.
func (fb *framebuffer) ColorView(index int) hal.TextureView { return fb.colors[index].view }

func textureOrNil(t *texture) rhi.Texture {
	if t == nil {
		return nil
	}
	return t
}

func (f *Factory) ownTexture(t rhi.Texture) (*texture, error) {
	tex, ok := t.(*texture)
	if !ok || tex.factory() != f {
		return nil, fmt.Errorf("%w: texture %q belongs to another device", rhi.ErrInvalidArgument, t.Label())
	}
	if tex.dead.Load() {
		return nil, fmt.Errorf("%w: texture %q was destroyed", rhi.ErrInvalidOperation, tex.label)
	}
	return tex, nil
}

// CreateFramebuffer creates a render view per attachment. The framebuffer
// retains its textures until it is released.
func (f *Factory) CreateFramebuffer(desc rhi.FramebufferDesc, out *rhi.Result) rhi.Framebuffer {
	const op = "CreateFramebuffer"
	if err := desc.Validate(); err != nil {
		f.fail(out, op, err)
		return nil
	}
	fb := &framebuffer{colors: make([]attachment, len(desc.ColorAttachments))}
	slots := make([]*attachment, 0, len(desc.ColorAttachments)+2)
	sources := make([]rhi.Texture, 0, cap(slots))
	for i, t := range desc.ColorAttachments {
		slots = append(slots, &fb.colors[i])
		sources = append(sources, t)
	}
	if desc.DepthAttachment != nil {
		slots = append(slots, &fb.depth)
		sources = append(sources, desc.DepthAttachment)
	}
	if desc.StencilAttachment != nil {
		slots = append(slots, &fb.stencil)
		sources = append(sources, desc.StencilAttachment)
	}
	for i, t := range sources {
		tex, err := f.ownTexture(t)
		if err != nil {
			f.fail(out, op, err)
			return nil
		}
		slots[i].tex = tex
	}

	done, err := f.begin(op)
	if err != nil {
		f.fail(out, op, err)
		return nil
	}
	defer done()

	release := func(n int) {
		for i := n - 1; i >= 0; i-- {
			f.device.DestroyTextureView(slots[i].view)
			slots[i].tex.Release()
		}
	}
	for i, s := range slots {
		view, err := f.device.CreateTextureView(s.tex.hal, attachmentView(desc.DebugName, s.tex.desc.Format))
		if err != nil {
			release(i)
			f.fail(out, op, backendErr("create attachment view", err))
			return nil
		}
		s.tex.Retain()
		s.view = view
	}
	f.adopt(&fb.resource, rhi.ResourceFramebuffer, desc.DebugName, 0, func() { release(len(slots)) })
	rhi.SetOk(out)
	return fb
}

func attachmentView(label string, format gputypes.TextureFormat) *hal.TextureViewDescriptor {
	return &hal.TextureViewDescriptor{
		Label:           label,
		Format:          format,
		Dimension:       gputypes.TextureViewDimension2D,
		Aspect:          gputypes.TextureAspectAll,
		MipLevelCount:   1,
		ArrayLayerCount: 1,
	}
}
