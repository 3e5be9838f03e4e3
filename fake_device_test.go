package rhi

// fakeDevice implements the scope and platform parts of Device over a
// DeviceBase. Any other method panics through the nil embedded interface.
type fakeDevice struct {
	Device
	base DeviceBase
}

func newFakeDevice(backend BackendType, platform PlatformDevice, opts ...Option) *fakeDevice {
	d := &fakeDevice{}
	d.base.Init(backend, ZRangeZeroToOne, platform, NewConfig(opts...))
	return d
}

func (d *fakeDevice) EnterScope() int                { return d.base.EnterScope() }
func (d *fakeDevice) ExitScope(depth int) error      { return d.base.ExitScope(depth) }
func (d *fakeDevice) ScopeDepth() int                { return d.base.ScopeDepth() }
func (d *fakeDevice) VerifyScope() bool              { return d.base.VerifyScope() }
func (d *fakeDevice) PlatformDevice() PlatformDevice { return d.base.PlatformDevice() }
func (d *fakeDevice) Close() error                   { return nil }
