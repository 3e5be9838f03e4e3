// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package halbridge

import (
	"cmp"
	"fmt"
	"slices"
	"sync"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/rhi"
	"github.com/gogpu/wgpu/hal"
)

// Config wires a Factory to its device.
type Config struct {
	Base    *rhi.DeviceBase
	Device  hal.Device
	Queue   hal.Queue
	Adapter hal.Adapter // optional

	Limits   gputypes.Limits
	Features gputypes.Features
	// Native lists the backend-level features that are not WebGPU features.
	Native map[rhi.DeviceFeature]bool

	// Sanitize is the backend texture normalization. Defaults to
	// rhi.SanitizeTextureDesc.
	Sanitize func(rhi.TextureDesc) rhi.TextureDesc
	// CompileWGSL translates WGSL sources to SPIR-V before they reach the
	// device.
	CompileWGSL bool
}

// Factory creates rhi resources on a hal device and tracks every native
// object it hands out until it is released or the factory shuts down.
type Factory struct {
	base     *rhi.DeviceBase
	device   hal.Device
	queue    hal.Queue
	adapter  hal.Adapter
	limits   gputypes.Limits
	features gputypes.Features
	native   map[rhi.DeviceFeature]bool
	sanitize func(rhi.TextureDesc) rhi.TextureDesc
	compile  bool

	// life serializes creation against Shutdown.
	life   sync.RWMutex
	closed bool

	liveMu  sync.Mutex
	live    map[*resource]uint64
	liveSeq uint64

	pendingMu sync.Mutex
	pending   []submitted
}

// New returns a factory for cfg.Device.
func New(cfg Config) *Factory {
	sanitize := cfg.Sanitize
	if sanitize == nil {
		sanitize = rhi.SanitizeTextureDesc
	}
	return &Factory{
		base:     cfg.Base,
		device:   cfg.Device,
		queue:    cfg.Queue,
		adapter:  cfg.Adapter,
		limits:   cfg.Limits,
		features: cfg.Features,
		native:   cfg.Native,
		sanitize: sanitize,
		compile:  cfg.CompileWGSL,
		live:     make(map[*resource]uint64),
	}
}

// HALDevice returns the underlying device.
func (f *Factory) HALDevice() hal.Device { return f.device }

// HALQueue returns the underlying queue.
func (f *Factory) HALQueue() hal.Queue { return f.queue }

// Limits returns the limits the device was opened with.
func (f *Factory) Limits() gputypes.Limits { return f.limits }

// LiveResources returns the number of resources not yet released.
func (f *Factory) LiveResources() int {
	f.liveMu.Lock()
	defer f.liveMu.Unlock()
	return len(f.live)
}

// HasFeature reports backend-level features first, then WebGPU features
// the device was opened with.
func (f *Factory) HasFeature(feature rhi.DeviceFeature) bool {
	if on, ok := f.native[feature]; ok {
		return on
	}
	if wf, ok := feature.WebGPUFeature(); ok {
		return f.features.Contains(wf)
	}
	return false
}

// FeatureLimits reads a device limit.
func (f *Factory) FeatureLimits(l rhi.DeviceFeatureLimit) (uint64, bool) {
	return rhi.LimitValue(f.limits, l)
}

// TextureFormatCapabilities asks the adapter; without one every format is
// reported as sampleable only.
func (f *Factory) TextureFormatCapabilities(format gputypes.TextureFormat) rhi.TextureFormatCapabilities {
	if f.adapter == nil {
		return rhi.TextureFormatSampled
	}
	flags := f.adapter.TextureFormatCapabilities(format).Flags
	var caps rhi.TextureFormatCapabilities
	for _, m := range [...]struct {
		hal hal.TextureFormatCapabilityFlags
		rhi rhi.TextureFormatCapabilities
	}{
		{hal.TextureFormatCapabilitySampled, rhi.TextureFormatSampled},
		{hal.TextureFormatCapabilityStorage, rhi.TextureFormatStorage},
		{hal.TextureFormatCapabilityRenderAttachment, rhi.TextureFormatAttachment},
		{hal.TextureFormatCapabilityBlendable, rhi.TextureFormatBlendable},
		{hal.TextureFormatCapabilityMultisample, rhi.TextureFormatMultisample},
		{hal.TextureFormatCapabilityMultisampleResolve, rhi.TextureFormatMultisampleResolve},
	} {
		if flags&m.hal != 0 {
			caps |= m.rhi
		}
	}
	return caps
}

// begin checks scope and device state for a creation call. The returned
// function ends the call and must be deferred.
func (f *Factory) begin(op string) (func(), error) {
	f.base.CheckScope(op)
	f.life.RLock()
	if f.closed {
		f.life.RUnlock()
		return nil, fmt.Errorf("%w: %s", rhi.ErrDeviceClosed, op)
	}
	return f.life.RUnlock, nil
}

func (f *Factory) fail(out *rhi.Result, op string, err error) {
	rhi.SetError(out, err)
	rhi.Logger().Debug("rhi: create failed",
		"op", op, "backend", f.base.BackendType().String(), "err", err)
}

func backendErr(what string, err error) error {
	return fmt.Errorf("%w: %s: %w", rhi.ErrBackend, what, err)
}

// adopt registers r as live, reports it to the tracker and hands the
// caller its first reference. destroy releases the native objects and
// may be nil for value resources.
func (f *Factory) adopt(r *resource, kind rhi.ResourceKind, label string, size uint64, destroy func()) {
	r.f = f
	r.kind = kind
	r.label = label
	r.destroy = destroy
	r.refs.Store(1)
	r.ticket = f.base.Track(kind, label, size)

	f.liveMu.Lock()
	f.liveSeq++
	f.live[r] = f.liveSeq
	f.liveMu.Unlock()

	rhi.Logger().Debug("rhi: created",
		"kind", kind.String(), "label", label, "bytes", size, "id", r.ticket.Event().ID)
}

// retire destroys r unless Shutdown already did.
func (f *Factory) retire(r *resource) {
	f.liveMu.Lock()
	_, ok := f.live[r]
	delete(f.live, r)
	f.liveMu.Unlock()
	if !ok {
		return
	}
	r.destroyNative()
}

// Shutdown waits for the queue, then destroys every resource still alive
// in reverse creation order. Creation calls fail afterwards. The hal
// device itself is left to the caller.
func (f *Factory) Shutdown() {
	f.life.Lock()
	defer f.life.Unlock()
	if f.closed {
		return
	}
	f.closed = true

	if err := f.waitIdle(); err != nil {
		rhi.Logger().Warn("rhi: wait idle failed during shutdown", "err", err)
	}

	f.liveMu.Lock()
	leaked := make([]*resource, 0, len(f.live))
	for r := range f.live {
		leaked = append(leaked, r)
	}
	slices.SortFunc(leaked, func(a, b *resource) int {
		return cmp.Compare(f.live[b], f.live[a])
	})
	clear(f.live)
	f.liveMu.Unlock()

	for _, r := range leaked {
		rhi.Logger().Warn("rhi: resource leaked at device close",
			"kind", r.kind.String(), "label", r.label, "backend", f.base.BackendType().String())
		r.destroyNative()
	}
}
