package tracker

import "github.com/gogpu/rhi"

type multi []rhi.ResourceTracker

// Multi returns a tracker that forwards every event to each of trackers
// in order. Nil trackers are skipped. A member that panics is logged and
// the event still reaches the members after it.
func Multi(trackers ...rhi.ResourceTracker) rhi.ResourceTracker {
	m := make(multi, 0, len(trackers))
	for _, t := range trackers {
		if t != nil {
			m = append(m, t)
		}
	}
	return m
}

func (m multi) DidCreate(ev rhi.ResourceEvent) {
	for _, t := range m {
		forward(t.DidCreate, ev)
	}
}

func (m multi) DidDestroy(ev rhi.ResourceEvent) {
	for _, t := range m {
		forward(t.DidDestroy, ev)
	}
}

func forward(fn func(rhi.ResourceEvent), ev rhi.ResourceEvent) {
	defer func() {
		if r := recover(); r != nil {
			rhi.Logger().Warn("rhi: resource tracker panicked",
				"id", ev.ID, "kind", ev.Kind.String(), "panic", r)
		}
	}()
	fn(ev)
}

// Logging returns a tracker that logs every event at debug level through
// the rhi logger.
func Logging() rhi.ResourceTracker { return logging{} }

type logging struct{}

func (logging) DidCreate(ev rhi.ResourceEvent) {
	rhi.Logger().Debug("rhi: resource created",
		"id", ev.ID, "kind", ev.Kind.String(), "backend", ev.Backend.String(),
		"label", ev.Label, "bytes", ev.SizeBytes)
}

func (logging) DidDestroy(ev rhi.ResourceEvent) {
	rhi.Logger().Debug("rhi: resource destroyed",
		"id", ev.ID, "kind", ev.Kind.String(), "backend", ev.Backend.String(), "label", ev.Label)
}
