package halbridge

import (
	"fmt"
	"sync/atomic"

	"github.com/gogpu/rhi"
	"github.com/gogpu/wgpu/hal"
)

// submitted is a finished encoder awaiting GPU completion.
type submitted struct {
	enc hal.CommandEncoder
	buf hal.CommandBuffer
}

// commandQueue is a typed front for the device's single hal queue.
type commandQueue struct {
	resource
	typ rhi.CommandQueueType
}

func (q *commandQueue) Type() rhi.CommandQueueType { return q.typ }

// CreateCommandQueue returns a queue of the requested type. Every queue
// type shares the device's hal queue.
func (f *Factory) CreateCommandQueue(desc rhi.CommandQueueDesc, out *rhi.Result) rhi.CommandQueue {
	const op = "CreateCommandQueue"
	if err := desc.Validate(); err != nil {
		f.fail(out, op, err)
		return nil
	}
	if desc.Type == rhi.CommandQueueCompute && !f.HasFeature(rhi.FeatureCompute) {
		f.fail(out, op, fmt.Errorf("%w: compute queue on %s", rhi.ErrUnsupported, f.base.BackendType()))
		return nil
	}
	done, err := f.begin(op)
	if err != nil {
		f.fail(out, op, err)
		return nil
	}
	defer done()

	q := &commandQueue{typ: desc.Type}
	f.adopt(&q.resource, rhi.ResourceCommandQueue, desc.Type.String(), 0, nil)
	rhi.SetOk(out)
	return q
}

type commandBuffer struct {
	q      *commandQueue
	label  string
	enc    hal.CommandEncoder
	draws  atomic.Uint32
	closed atomic.Bool
}

func (cb *commandBuffer) Encoder() hal.CommandEncoder { return cb.enc }
func (cb *commandBuffer) IncrementDrawCount(n uint32) { cb.draws.Add(n) }
func (cb *commandBuffer) DrawCount() uint32           { return cb.draws.Load() }

func (cb *commandBuffer) Discard() {
	if !cb.closed.CompareAndSwap(false, true) {
		_ = rhi.ContractViolation("command buffer %q discarded after submit or discard", cb.label)
		return
	}
	cb.enc.DiscardEncoding()
	cb.enc.Destroy()
}

// CreateCommandBuffer opens an encoder that is already recording.
func (q *commandQueue) CreateCommandBuffer(desc rhi.CommandBufferDesc, out *rhi.Result) rhi.CommandBuffer {
	const op = "CreateCommandBuffer"
	f := q.f
	done, err := f.begin(op)
	if err != nil {
		f.fail(out, op, err)
		return nil
	}
	defer done()

	enc, err := f.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: desc.DebugName})
	if err != nil {
		f.fail(out, op, backendErr("create command encoder", err))
		return nil
	}
	if err := enc.BeginEncoding(desc.DebugName); err != nil {
		enc.Destroy()
		f.fail(out, op, backendErr("begin encoding", err))
		return nil
	}
	rhi.SetOk(out)
	return &commandBuffer{q: q, label: desc.DebugName, enc: enc}
}

// Submit ends recording and hands the buffer to the hal queue. The buffer
// is recycled by the next WaitIdle.
func (q *commandQueue) Submit(cmd rhi.CommandBuffer) (rhi.SubmitHandle, error) {
	cb, ok := cmd.(*commandBuffer)
	if !ok || cb.q.f != q.f {
		return 0, fmt.Errorf("%w: command buffer belongs to another device", rhi.ErrInvalidArgument)
	}
	f := q.f
	f.life.RLock()
	defer f.life.RUnlock()
	if f.closed {
		return 0, rhi.ErrDeviceClosed
	}
	if !cb.closed.CompareAndSwap(false, true) {
		return 0, rhi.ContractViolation("command buffer %q submitted twice", cb.label)
	}

	buf, err := cb.enc.EndEncoding()
	if err != nil {
		cb.enc.Destroy()
		return 0, backendErr("end encoding", err)
	}
	idx, err := f.queue.Submit([]hal.CommandBuffer{buf})
	if err != nil {
		f.device.FreeCommandBuffer(buf)
		cb.enc.Destroy()
		return 0, backendErr("submit", err)
	}
	f.base.AddDrawCount(uint64(cb.draws.Load()))

	f.pendingMu.Lock()
	f.pending = append(f.pending, submitted{enc: cb.enc, buf: buf})
	f.pendingMu.Unlock()
	return rhi.SubmitHandle(idx), nil
}

// WaitIdle waits for the device and recycles submitted buffers.
func (q *commandQueue) WaitIdle() error {
	f := q.f
	f.life.RLock()
	defer f.life.RUnlock()
	if f.closed {
		return rhi.ErrDeviceClosed
	}
	return f.waitIdle()
}

func (f *Factory) waitIdle() error {
	if err := f.device.WaitIdle(); err != nil {
		return backendErr("wait idle", err)
	}
	f.pendingMu.Lock()
	done := f.pending
	f.pending = nil
	f.pendingMu.Unlock()
	for _, s := range done {
		f.device.FreeCommandBuffer(s.buf)
		s.enc.Destroy()
	}
	return nil
}
