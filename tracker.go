package rhi

import (
	"fmt"
	"sync/atomic"
)

// ResourceKind classifies tracked resources.
type ResourceKind uint8

const (
	ResourceBuffer ResourceKind = iota
	ResourceTexture
	ResourceSamplerState
	ResourceDepthStencilState
	ResourceVertexInputState
	ResourceShaderModule
	ResourceShaderLibrary
	ResourceShaderStages
	ResourceRenderPipeline
	ResourceComputePipeline
	ResourceFramebuffer
	ResourceCommandQueue
	ResourceDescriptorSetLayout
	ResourcePipelineLayout

	// NumResourceKinds is the number of ResourceKind values.
	NumResourceKinds = int(ResourcePipelineLayout) + 1
)

var resourceKindNames = [NumResourceKinds]string{
	"Buffer", "Texture", "SamplerState", "DepthStencilState", "VertexInputState",
	"ShaderModule", "ShaderLibrary", "ShaderStages", "RenderPipeline", "ComputePipeline",
	"Framebuffer", "CommandQueue", "DescriptorSetLayout", "PipelineLayout",
}

func (k ResourceKind) String() string {
	if int(k) < NumResourceKinds {
		return resourceKindNames[k]
	}
	return fmt.Sprintf("ResourceKind(%d)", uint8(k))
}

// ResourceEvent describes one resource for tracker notifications.
// The create and destroy events of a resource carry the same ID.
type ResourceEvent struct {
	ID        uint64
	Kind      ResourceKind
	Backend   BackendType
	Label     string
	SizeBytes uint64
}

// ResourceTracker observes resource creation and destruction.
//
// Calls are observational: they happen synchronously on the creating or
// destroying goroutine, must not block, and a panicking tracker is
// recovered and logged. Implementations shared between devices must be
// safe for concurrent use.
type ResourceTracker interface {
	DidCreate(ev ResourceEvent)
	DidDestroy(ev ResourceEvent)
}

var nextResourceID atomic.Uint64

// Ticket pairs a resource with the tracker that saw its creation.
// Release sends the matching destroy notification at most once.
// A nil *Ticket is valid and does nothing.
type Ticket struct {
	tracker  ResourceTracker
	event    ResourceEvent
	released atomic.Bool
}

// Event returns the event sent at creation.
func (t *Ticket) Event() ResourceEvent {
	if t == nil {
		return ResourceEvent{}
	}
	return t.event
}

// Release notifies the tracker that the resource was destroyed.
func (t *Ticket) Release() {
	if t == nil || t.tracker == nil || !t.released.CompareAndSwap(false, true) {
		return
	}
	notify(t.tracker.DidDestroy, t.event)
}

// issueTicket notifies tr about a new resource. tr may be nil, in which
// case the ticket never notifies.
func issueTicket(tr ResourceTracker, ev ResourceEvent) *Ticket {
	ev.ID = nextResourceID.Add(1)
	t := &Ticket{tracker: tr, event: ev}
	if tr != nil {
		notify(tr.DidCreate, ev)
	}
	return t
}

func notify(fn func(ResourceEvent), ev ResourceEvent) {
	defer func() {
		if r := recover(); r != nil {
			Logger().Warn("rhi: resource tracker panicked",
				"kind", ev.Kind.String(), "id", ev.ID, "panic", r)
		}
	}()
	fn(ev)
}

// trackerBox lets an interface value, including nil, live in an atomic.Pointer.
type trackerBox struct{ t ResourceTracker }
