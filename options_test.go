package rhi

import (
	"testing"

	"github.com/gogpu/gputypes"
)

type fooOption struct{ n int }
type barOption struct{}

func TestNewConfig(t *testing.T) {
	limits := gputypes.DefaultLimits()
	tr := &eventLog{}
	c := NewConfig(
		WithResourceTracker(tr),
		WithStrictScope(),
		WithPowerPreference(gputypes.PowerPreferenceLowPower),
		WithLimits(limits),
		WithLabel("main"),
		nil,
	)
	if c.Tracker != tr || !c.StrictScope || c.PowerPreference != gputypes.PowerPreferenceLowPower || c.Label != "main" {
		t.Errorf("NewConfig() = %+v", c)
	}
	if c.Limits == nil || c.Limits.MaxBindGroups != limits.MaxBindGroups {
		t.Errorf("Limits = %v", c.Limits)
	}
}

func TestPlatformOption(t *testing.T) {
	c := NewConfig(
		WithPlatformOption(fooOption{n: 1}),
		WithPlatformOption(barOption{}),
		WithPlatformOption(fooOption{n: 2}),
	)
	if foo, ok := PlatformOption[fooOption](c); !ok || foo.n != 2 {
		t.Errorf("PlatformOption[fooOption] = %v, %v", foo, ok)
	}
	if _, ok := PlatformOption[barOption](c); !ok {
		t.Error("barOption missing")
	}
	if _, ok := PlatformOption[string](c); ok {
		t.Error("unexpected string option")
	}
}
