// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package rhi

import (
	"errors"
	"fmt"
	"slices"

	"github.com/gogpu/gpucontext"
)

// OpenFunc opens a device for one backend.
type OpenFunc func(cfg Config) (Device, error)

// Priority order for OpenBest: explicit API first, legacy last.
var backendPriority = []BackendType{BackendVulkan, BackendMetal, BackendOpenGL}

var backends = gpucontext.NewRegistry[OpenFunc](gpucontext.WithPriority(
	BackendVulkan.String(), BackendMetal.String(), BackendOpenGL.String(),
))

// Register makes a backend available to Open. Backend packages call it
// from init. Registering twice replaces the previous function.
func Register(b BackendType, open OpenFunc) {
	backends.Register(b.String(), func() OpenFunc { return open })
}

// Unregister removes a backend. Used by tests.
func Unregister(b BackendType) {
	backends.Unregister(b.String())
}

// IsRegistered reports whether b can be opened.
func IsRegistered(b BackendType) bool {
	return backends.Has(b.String())
}

// Available returns the registered backends in priority order.
func Available() []BackendType {
	names := backends.Available()
	out := make([]BackendType, 0, len(names))
	for _, b := range backendPriority {
		if slices.Contains(names, b.String()) {
			out = append(out, b)
		}
	}
	return out
}

// Open opens a device on backend b.
func Open(b BackendType, opts ...Option) (Device, error) {
	open := backends.Get(b.String())
	if open == nil {
		return nil, fmt.Errorf("%w: %s is not registered", ErrBackendNotAvailable, b)
	}
	cfg := NewConfig(opts...)
	dev, err := open(cfg)
	if err != nil {
		return nil, fmt.Errorf("rhi: open %s: %w", b, err)
	}
	Logger().Info("rhi: device opened", "backend", b.String(), "label", cfg.Label)
	return dev, nil
}

// OpenBest tries every registered backend in priority order and returns
// the first device that opens.
func OpenBest(opts ...Option) (Device, error) {
	avail := Available()
	if len(avail) == 0 {
		return nil, fmt.Errorf("%w: no backends registered", ErrBackendNotAvailable)
	}
	var errs []error
	for _, b := range avail {
		dev, err := Open(b, opts...)
		if err == nil {
			return dev, nil
		}
		Logger().Debug("rhi: backend failed to open", "backend", b.String(), "err", err)
		errs = append(errs, err)
	}
	return nil, errors.Join(errs...)
}
