// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package tracker

import (
	"cmp"
	"fmt"
	"slices"
	"sync"

	"github.com/gogpu/rhi"
)

// KindStats counts one resource kind.
type KindStats struct {
	Live      int
	Created   uint64
	Destroyed uint64
	LiveBytes uint64
}

// Stats is a snapshot of a Counting tracker.
type Stats struct {
	// LiveBytes is the size of every live resource.
	LiveBytes uint64

	// PeakBytes is the highest LiveBytes seen.
	PeakBytes uint64

	// BudgetBytes is the configured budget, 0 when unlimited.
	BudgetBytes uint64

	// Kinds holds the per-kind counters.
	Kinds [rhi.NumResourceKinds]KindStats

	// Unmatched counts destroy events without a matching create.
	Unmatched uint64
}

// Live returns the number of live resources of every kind.
func (s Stats) Live() int {
	n := 0
	for _, k := range s.Kinds {
		n += k.Live
	}
	return n
}

// String returns a human-readable summary.
func (s Stats) String() string {
	budget := "unlimited"
	if s.BudgetBytes > 0 {
		budget = fmt.Sprintf("%.1f%% of %d KB", float64(s.LiveBytes)*100/float64(s.BudgetBytes), s.BudgetBytes/1024)
	}
	return fmt.Sprintf("Resources[%d live, %d KB, peak %d KB, budget %s]",
		s.Live(), s.LiveBytes/1024, s.PeakBytes/1024, budget)
}

// Option configures a Counting tracker.
type Option func(*Counting)

// WithBudget sets a byte budget. Crossing it logs a warning once per
// crossing; creation is never refused.
func WithBudget(bytes uint64) Option {
	return func(c *Counting) {
		c.budget = bytes
	}
}

// WithOverBudget registers fn to run when live bytes cross the budget.
// fn runs on the creating goroutine and must not block.
func WithOverBudget(fn func(Stats)) Option {
	return func(c *Counting) {
		c.overBudget = fn
	}
}

// Counting is a ResourceTracker that keeps per-kind counters.
//
// Counting is safe for concurrent use and may be shared between devices.
type Counting struct {
	mu         sync.Mutex
	stats      Stats
	live       map[uint64]rhi.ResourceEvent
	budget     uint64
	over       bool
	overBudget func(Stats)
}

// NewCounting creates a Counting tracker.
func NewCounting(opts ...Option) *Counting {
	c := &Counting{live: make(map[uint64]rhi.ResourceEvent)}
	for _, opt := range opts {
		opt(c)
	}
	c.stats.BudgetBytes = c.budget
	return c
}

// DidCreate implements rhi.ResourceTracker.
func (c *Counting) DidCreate(ev rhi.ResourceEvent) {
	c.mu.Lock()
	c.live[ev.ID] = ev
	k := &c.stats.Kinds[ev.Kind]
	k.Live++
	k.Created++
	k.LiveBytes += ev.SizeBytes
	c.stats.LiveBytes += ev.SizeBytes
	c.stats.PeakBytes = max(c.stats.PeakBytes, c.stats.LiveBytes)

	var crossed bool
	if c.budget > 0 && c.stats.LiveBytes > c.budget && !c.over {
		c.over = true
		crossed = true
	}
	snapshot := c.stats
	fn := c.overBudget
	c.mu.Unlock()

	if crossed {
		rhi.Logger().Warn("rhi: resource budget exceeded",
			"live_bytes", snapshot.LiveBytes, "budget", snapshot.BudgetBytes,
			"kind", ev.Kind.String(), "label", ev.Label)
		if fn != nil {
			fn(snapshot)
		}
	}
}

// DidDestroy implements rhi.ResourceTracker.
func (c *Counting) DidDestroy(ev rhi.ResourceEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()
	created, ok := c.live[ev.ID]
	if !ok {
		c.stats.Unmatched++
		return
	}
	delete(c.live, ev.ID)
	k := &c.stats.Kinds[created.Kind]
	k.Live--
	k.Destroyed++
	k.LiveBytes -= created.SizeBytes
	c.stats.LiveBytes -= created.SizeBytes
	if c.over && c.stats.LiveBytes <= c.budget {
		c.over = false
	}
}

// Stats returns a snapshot of the counters.
func (c *Counting) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

// Live returns the creation events of every live resource, oldest first.
func (c *Counting) Live() []rhi.ResourceEvent {
	c.mu.Lock()
	out := make([]rhi.ResourceEvent, 0, len(c.live))
	for _, ev := range c.live {
		out = append(out, ev)
	}
	c.mu.Unlock()
	slices.SortFunc(out, func(a, b rhi.ResourceEvent) int { return cmp.Compare(a.ID, b.ID) })
	return out
}

// Reset clears every counter. Resources alive at the time of the reset
// report their destruction as unmatched.
func (c *Counting) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.live)
	c.over = false
	c.stats = Stats{BudgetBytes: c.budget}
}
