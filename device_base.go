package rhi

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// DeviceBase carries the backend-independent state of a Device: backend
// identity, draw counter, scope depth, tracker and platform device.
// Backends embed it and call Init from their constructor. It must not be
// copied after Init.
type DeviceBase struct {
	backend  BackendType
	zRange   NormalizedZRange
	strict   bool
	platform PlatformDevice

	drawCount atomic.Uint64
	tracker   atomic.Pointer[trackerBox]

	scopeMu    sync.Mutex
	scopeDepth int
}

// Init configures the base. platform may be nil.
func (b *DeviceBase) Init(backend BackendType, zRange NormalizedZRange, platform PlatformDevice, cfg Config) {
	b.backend = backend
	b.zRange = zRange
	b.strict = cfg.StrictScope
	b.platform = platform
	b.tracker.Store(&trackerBox{t: cfg.Tracker})
}

func (b *DeviceBase) BackendType() BackendType              { return b.backend }
func (b *DeviceBase) NormalizedZRange() NormalizedZRange    { return b.zRange }
func (b *DeviceBase) BackendDebugColor() Color              { return BackendDebugColor(b.backend) }
func (b *DeviceBase) PlatformDevice() PlatformDevice        { return b.platform }
func (b *DeviceBase) Sanitize(desc TextureDesc) TextureDesc { return SanitizeTextureDesc(desc) }

// UpdateSurface reports that the device is headless.
func (b *DeviceBase) UpdateSurface(uintptr) error {
	return fmt.Errorf("%w: %s device has no surface", ErrUnsupported, b.backend)
}

// CurrentDrawCount returns the number of submitted draw calls.
func (b *DeviceBase) CurrentDrawCount() uint64 { return b.drawCount.Load() }

// AddDrawCount is called by backend submission paths.
func (b *DeviceBase) AddDrawCount(n uint64) { b.drawCount.Add(n) }

// SetResourceTracker attaches t. Detaching never notifies retroactively.
func (b *DeviceBase) SetResourceTracker(t ResourceTracker) {
	b.tracker.Store(&trackerBox{t: t})
}

// ResourceTracker returns the attached tracker or nil.
func (b *DeviceBase) ResourceTracker() ResourceTracker {
	if box := b.tracker.Load(); box != nil {
		return box.t
	}
	return nil
}

// Track reports a new resource to the attached tracker and returns the
// ticket that reports its destruction to the same tracker.
func (b *DeviceBase) Track(kind ResourceKind, label string, size uint64) *Ticket {
	return issueTicket(b.ResourceTracker(), ResourceEvent{
		Kind:      kind,
		Backend:   b.backend,
		Label:     label,
		SizeBytes: size,
	})
}

// VerifyScope reports whether a call is inside a DeviceScope. Without
// strict scoping every call is considered in scope.
func (b *DeviceBase) VerifyScope() bool {
	if !b.strict {
		return true
	}
	return b.ScopeDepth() > 0
}

// CheckScope reports a contract violation when VerifyScope fails.
// The caller proceeds regardless in release builds.
func (b *DeviceBase) CheckScope(op string) {
	if !b.VerifyScope() {
		_ = ContractViolation("%s called outside a DeviceScope on %s device", op, b.backend)
	}
}

// EnterScope opens a scope level and returns the new depth.
func (b *DeviceBase) EnterScope() int {
	b.scopeMu.Lock()
	defer b.scopeMu.Unlock()
	b.scopeDepth++
	return b.scopeDepth
}

// ExitScope closes the innermost scope level. depth is the value returned
// by the matching EnterScope; a mismatch leaves the depth unchanged.
func (b *DeviceBase) ExitScope(depth int) error {
	b.scopeMu.Lock()
	cur := b.scopeDepth
	if cur == 0 || depth != cur {
		b.scopeMu.Unlock()
		return ContractViolation("DeviceScope exit at depth %d while depth is %d", depth, cur)
	}
	b.scopeDepth--
	b.scopeMu.Unlock()
	return nil
}

// ScopeDepth returns the current nesting depth.
func (b *DeviceBase) ScopeDepth() int {
	b.scopeMu.Lock()
	defer b.scopeMu.Unlock()
	return b.scopeDepth
}
