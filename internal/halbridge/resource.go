// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package halbridge

import (
	"sync/atomic"

	"github.com/gogpu/rhi"
)

// resource is the shared-ownership core embedded by every resource the
// factory creates.
type resource struct {
	f       *Factory
	kind    rhi.ResourceKind
	label   string
	refs    atomic.Int32
	ticket  *rhi.Ticket
	destroy func()
	dead    atomic.Bool
}

func (r *resource) Label() string { return r.label }

func (r *resource) Retain() {
	if r.refs.Add(1) <= 1 {
		_ = rhi.ContractViolation("%s %q retained after its last release", r.kind, r.label)
	}
}

func (r *resource) Release() {
	switch n := r.refs.Add(-1); {
	case n > 0:
		return
	case n < 0:
		_ = rhi.ContractViolation("%s %q released more often than retained", r.kind, r.label)
		return
	}
	r.f.retire(r)
}

// destroyNative runs the native destroy and the tracker notification
// exactly once.
func (r *resource) destroyNative() {
	if !r.dead.CompareAndSwap(false, true) {
		return
	}
	if r.destroy != nil {
		r.destroy()
	}
	r.ticket.Release()
}

// owner is implemented by every resource so the factory can reject
// resources that belong to another device.
type owner interface {
	factory() *Factory
}

func (r *resource) factory() *Factory { return r.f }

// unique is the single-owner counterpart of resource.
type unique struct {
	resource
}

// Destroy releases the single reference. A second call is a contract
// violation.
func (u *unique) Destroy() {
	if u.refs.Load() <= 0 {
		_ = rhi.ContractViolation("%s %q destroyed twice", u.kind, u.label)
		return
	}
	u.resource.Release()
}
