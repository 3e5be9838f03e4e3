//go:build !rhidebug

package halbridge

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/rhi"
)

// Misuse is reported, not fatal, outside rhidebug builds.

func TestOverRelease(t *testing.T) {
	rig := newTestRig(t)
	buf := rig.f.CreateBuffer(rhi.BufferDesc{Type: gputypes.BufferUsageVertex, Length: 4}, nil)
	buf.Release()
	buf.Release()
	if _, destroyed := rig.dev.counts("buffer"); destroyed != 1 {
		t.Errorf("destroyed = %d, want 1", destroyed)
	}
	if len(rig.tracker.destroyed) != 1 {
		t.Errorf("tracker destroys = %d, want 1", len(rig.tracker.destroyed))
	}
}

func TestShaderLibraryDoubleDestroy(t *testing.T) {
	rig := newTestRig(t)
	lib := rig.f.CreateShaderLibrary(rhi.ShaderLibraryDesc{
		Modules: []rhi.ShaderModuleInfo{{Stage: gputypes.ShaderStageCompute, EntryPoint: "cs"}},
		Source:  rhi.ShaderSource{WGSL: testWGSL},
	}, nil)
	lib.Destroy()
	lib.Destroy()
	if _, destroyed := rig.dev.counts("shader"); destroyed != 1 {
		t.Errorf("native module destroyed %d times, want 1", destroyed)
	}
}

func TestCommandBufferDiscard(t *testing.T) {
	rig := newTestRig(t)
	q := rig.f.CreateCommandQueue(rhi.CommandQueueDesc{Type: rhi.CommandQueueTransfer}, nil)
	defer q.Release()
	cb := q.CreateCommandBuffer(rhi.CommandBufferDesc{}, nil)
	cb.IncrementDrawCount(5)
	cb.Discard()
	if _, err := q.Submit(cb); !errors.Is(err, rhi.ErrContractViolation) {
		t.Errorf("submit after discard err = %v", err)
	}
	if rig.base.CurrentDrawCount() != 0 {
		t.Errorf("discarded draws counted")
	}
}

func TestCommandBufferSubmitOnce(t *testing.T) {
	rig := newTestRig(t)
	q := rig.f.CreateCommandQueue(rhi.CommandQueueDesc{Type: rhi.CommandQueueGraphics}, nil)
	defer q.Release()
	cb := q.CreateCommandBuffer(rhi.CommandBufferDesc{DebugName: "once"}, nil)
	cb.IncrementDrawCount(2)

	var (
		wg         sync.WaitGroup
		ok, misuse atomic.Int32
	)
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := q.Submit(cb)
			switch {
			case err == nil:
				ok.Add(1)
			case errors.Is(err, rhi.ErrContractViolation):
				misuse.Add(1)
			default:
				t.Errorf("Submit: %v", err)
			}
		}()
	}
	wg.Wait()

	if ok.Load() != 1 || misuse.Load() != 7 {
		t.Errorf("submits: %d ok, %d rejected", ok.Load(), misuse.Load())
	}
	if got := rig.base.CurrentDrawCount(); got != 2 {
		t.Errorf("CurrentDrawCount() = %d, want 2", got)
	}
}
