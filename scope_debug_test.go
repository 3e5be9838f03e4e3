//go:build rhidebug

package rhi

import (
	"errors"
	"testing"
)

func TestDeviceScopeOutOfOrderPanics(t *testing.T) {
	dev := newFakeDevice(BackendVulkan, nil)
	outer := NewDeviceScope(dev)
	_ = NewDeviceScope(dev)

	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok || !errors.Is(err, ErrContractViolation) {
			t.Fatalf("recovered %v", r)
		}
		if dev.ScopeDepth() != 2 {
			t.Errorf("depth = %d", dev.ScopeDepth())
		}
	}()
	_ = outer.Close()
}
