// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package rhi

// DeviceScope marks a window in which calls into a device are valid.
//
// A DeviceScope is a lexical guard: create it and defer Close in the same
// function, and never store it or hand it to another goroutine.
//
//	scope := rhi.NewDeviceScope(dev)
//	defer scope.Close()
//
// Guards nest strictly. Closing a guard that is not the innermost open one,
// or closing it twice, is a contract violation: it panics in builds with the
// rhidebug tag and is logged and returned as ErrContractViolation otherwise.
// Use Scoped when the window is a single function call.
type DeviceScope struct {
	dev    Device
	depth  int
	closed bool
}

// NewDeviceScope opens a scope on dev.
func NewDeviceScope(dev Device) DeviceScope {
	return DeviceScope{dev: dev, depth: dev.EnterScope()}
}

// Depth returns the nesting depth this guard opened.
func (s *DeviceScope) Depth() int { return s.depth }

// Close releases the scope.
func (s *DeviceScope) Close() error {
	if s.dev == nil {
		return ContractViolation("close of a zero DeviceScope")
	}
	if s.closed {
		return ContractViolation("DeviceScope at depth %d closed twice", s.depth)
	}
	if err := s.dev.ExitScope(s.depth); err != nil {
		return err
	}
	s.closed = true
	return nil
}

// Scoped runs fn inside a DeviceScope on dev. The scope is released on
// every exit path, including a panic in fn.
func Scoped(dev Device, fn func() error) (err error) {
	scope := NewDeviceScope(dev)
	defer func() {
		if cerr := scope.Close(); err == nil {
			err = cerr
		}
	}()
	return fn()
}
