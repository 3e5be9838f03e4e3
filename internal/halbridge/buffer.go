package halbridge

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/rhi"
	"github.com/gogpu/wgpu/hal"
)

type buffer struct {
	resource
	hal    hal.Buffer
	length uint64
	usage  gputypes.BufferUsage
}

func (b *buffer) Length() uint64              { return b.length }
func (b *buffer) Usage() gputypes.BufferUsage { return b.usage }

// HAL returns the native buffer.
func (b *buffer) HAL() hal.Buffer { return b.hal }

func (b *buffer) Upload(data []byte, offset uint64) error {
	if offset > b.length || uint64(len(data)) > b.length-offset {
		return fmt.Errorf("%w: upload of %d bytes at %d overruns buffer %q (%d bytes)",
			rhi.ErrInvalidArgument, len(data), offset, b.label, b.length)
	}
	if b.dead.Load() {
		return fmt.Errorf("%w: buffer %q", rhi.ErrDeviceClosed, b.label)
	}
	if err := b.f.queue.WriteBuffer(b.hal, offset, data); err != nil {
		return backendErr("write buffer", err)
	}
	return nil
}

// CreateBuffer creates a buffer and uploads desc.Data when set.
func (f *Factory) CreateBuffer(desc rhi.BufferDesc, out *rhi.Result) rhi.Buffer {
	const op = "CreateBuffer"
	if err := desc.Validate(); err != nil {
		f.fail(out, op, err)
		return nil
	}
	if desc.Length > f.limits.MaxBufferSize {
		f.fail(out, op, fmt.Errorf("%w: buffer length %d exceeds %d",
			rhi.ErrArgumentOutOfRange, desc.Length, f.limits.MaxBufferSize))
		return nil
	}
	done, err := f.begin(op)
	if err != nil {
		f.fail(out, op, err)
		return nil
	}
	defer done()

	usage := desc.Type
	if len(desc.Data) > 0 {
		usage |= gputypes.BufferUsageCopyDst
	}
	hb, err := f.device.CreateBuffer(&hal.BufferDescriptor{
		Label: desc.DebugName,
		Size:  desc.Length,
		Usage: usage,
	})
	if err != nil {
		f.fail(out, op, backendErr("create buffer", err))
		return nil
	}
	if len(desc.Data) > 0 {
		if err := f.queue.WriteBuffer(hb, 0, desc.Data); err != nil {
			f.device.DestroyBuffer(hb)
			f.fail(out, op, backendErr("upload buffer data", err))
			return nil
		}
	}

	b := &buffer{hal: hb, length: desc.Length, usage: usage}
	f.adopt(&b.resource, rhi.ResourceBuffer, desc.DebugName, desc.Length, func() {
		f.device.DestroyBuffer(hb)
	})
	rhi.SetOk(out)
	return b
}
