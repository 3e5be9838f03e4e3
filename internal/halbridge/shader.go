// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package halbridge

import (
	"fmt"
	"sync/atomic"

	"github.com/gogpu/naga"
	"github.com/gogpu/rhi"
	"github.com/gogpu/wgpu/hal"
)

// CompileWGSL compiles WGSL source to SPIR-V words.
func CompileWGSL(source string) ([]uint32, error) {
	spirvBytes, err := naga.Compile(source)
	if err != nil {
		return nil, fmt.Errorf("%w: compile WGSL: %w", rhi.ErrInvalidArgument, err)
	}
	if len(spirvBytes)%4 != 0 {
		return nil, fmt.Errorf("%w: SPIR-V output is %d bytes, not whole words", rhi.ErrBackend, len(spirvBytes))
	}
	// SPIR-V is a stream of little-endian 32-bit words.
	words := make([]uint32, len(spirvBytes)/4)
	for i := range words {
		words[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return words, nil
}

// nativeModule is one hal shader module shared by the entry points of a
// library. The module is destroyed with its last user.
type nativeModule struct {
	hal  hal.ShaderModule
	refs atomic.Int32
	dev  hal.Device
}

func (m *nativeModule) release() {
	if m.refs.Add(-1) == 0 {
		m.dev.DestroyShaderModule(m.hal)
	}
}

func (f *Factory) createNativeModule(label string, src rhi.ShaderSource) (*nativeModule, error) {
	source := hal.ShaderSource{WGSL: src.WGSL, SPIRV: src.SPIRV}
	if f.compile && src.WGSL != "" {
		words, err := CompileWGSL(src.WGSL)
		if err != nil {
			return nil, err
		}
		source = hal.ShaderSource{SPIRV: words}
	}
	hm, err := f.device.CreateShaderModule(&hal.ShaderModuleDescriptor{Label: label, Source: source})
	if err != nil {
		return nil, backendErr("create shader module", err)
	}
	return &nativeModule{hal: hm, dev: f.device}, nil
}

type shaderModule struct {
	resource
	info   rhi.ShaderModuleInfo
	native *nativeModule
}

func (m *shaderModule) Info() rhi.ShaderModuleInfo { return m.info }

// HAL returns the native module and its entry point.
func (m *shaderModule) HAL() (hal.ShaderModule, string) { return m.native.hal, m.info.EntryPoint }

func (f *Factory) adoptModule(native *nativeModule, info rhi.ShaderModuleInfo, label string) *shaderModule {
	native.refs.Add(1)
	m := &shaderModule{info: info, native: native}
	f.adopt(&m.resource, rhi.ResourceShaderModule, label, 0, native.release)
	return m
}

// CreateShaderModule creates a module for one entry point. WGSL sources
// are compiled to SPIR-V first on backends that need it.
func (f *Factory) CreateShaderModule(desc rhi.ShaderModuleDesc, out *rhi.Result) rhi.ShaderModule {
	const op = "CreateShaderModule"
	if err := desc.Validate(); err != nil {
		f.fail(out, op, err)
		return nil
	}
	done, err := f.begin(op)
	if err != nil {
		f.fail(out, op, err)
		return nil
	}
	defer done()

	native, err := f.createNativeModule(desc.DebugName, desc.Source)
	if err != nil {
		f.fail(out, op, err)
		return nil
	}
	m := f.adoptModule(native, desc.Info, desc.DebugName)
	rhi.SetOk(out)
	return m
}

type shaderLibrary struct {
	unique
	modules []*shaderModule
}

func (l *shaderLibrary) Module(entryPoint string) rhi.ShaderModule {
	for _, m := range l.modules {
		if m.info.EntryPoint == entryPoint {
			return m
		}
	}
	return nil
}

func (l *shaderLibrary) Modules() []rhi.ShaderModule {
	out := make([]rhi.ShaderModule, len(l.modules))
	for i, m := range l.modules {
		out[i] = m
	}
	return out
}

// CreateShaderLibrary compiles the source once and exposes one module per
// entry point.
func (f *Factory) CreateShaderLibrary(desc rhi.ShaderLibraryDesc, out *rhi.Result) rhi.ShaderLibrary {
	const op = "CreateShaderLibrary"
	if err := desc.Validate(); err != nil {
		f.fail(out, op, err)
		return nil
	}
	done, err := f.begin(op)
	if err != nil {
		f.fail(out, op, err)
		return nil
	}
	defer done()

	native, err := f.createNativeModule(desc.DebugName, desc.Source)
	if err != nil {
		f.fail(out, op, err)
		return nil
	}
	// The library holds a reference so the native module survives until
	// every entry point is gone.
	native.refs.Add(1)
	lib := &shaderLibrary{modules: make([]*shaderModule, len(desc.Modules))}
	for i, info := range desc.Modules {
		lib.modules[i] = f.adoptModule(native, info, desc.DebugName+":"+info.EntryPoint)
	}
	f.adopt(&lib.resource, rhi.ResourceShaderLibrary, desc.DebugName, 0, func() {
		for _, m := range lib.modules {
			m.Release()
		}
		native.release()
	})
	rhi.SetOk(out)
	return lib
}

type shaderStages struct {
	unique
	typ                       rhi.ShaderStagesType
	vertex, fragment, compute *shaderModule
}

func (s *shaderStages) Type() rhi.ShaderStagesType { return s.typ }

func (s *shaderStages) VertexModule() rhi.ShaderModule   { return moduleOrNil(s.vertex) }
func (s *shaderStages) FragmentModule() rhi.ShaderModule { return moduleOrNil(s.fragment) }
func (s *shaderStages) ComputeModule() rhi.ShaderModule  { return moduleOrNil(s.compute) }

func moduleOrNil(m *shaderModule) rhi.ShaderModule {
	if m == nil {
		return nil
	}
	return m
}

// ownModule converts m to this factory's module type, rejecting modules of
// other devices.
func (f *Factory) ownModule(m rhi.ShaderModule) (*shaderModule, error) {
	if m == nil {
		return nil, nil
	}
	sm, ok := m.(*shaderModule)
	if !ok || sm.factory() != f {
		return nil, fmt.Errorf("%w: shader module %q belongs to another device", rhi.ErrInvalidArgument, m.Label())
	}
	return sm, nil
}

// CreateShaderStages groups modules into a stage set. The set retains its
// modules until Destroy.
func (f *Factory) CreateShaderStages(desc rhi.ShaderStagesDesc, out *rhi.Result) rhi.ShaderStages {
	const op = "CreateShaderStages"
	if err := desc.Validate(); err != nil {
		f.fail(out, op, err)
		return nil
	}
	s := &shaderStages{typ: desc.Type}
	var err error
	for _, p := range []struct {
		dst **shaderModule
		src rhi.ShaderModule
	}{{&s.vertex, desc.VertexModule}, {&s.fragment, desc.FragmentModule}, {&s.compute, desc.ComputeModule}} {
		if *p.dst, err = f.ownModule(p.src); err != nil {
			f.fail(out, op, err)
			return nil
		}
	}
	done, err := f.begin(op)
	if err != nil {
		f.fail(out, op, err)
		return nil
	}
	defer done()

	held := make([]*shaderModule, 0, 3)
	for _, m := range []*shaderModule{s.vertex, s.fragment, s.compute} {
		if m != nil {
			m.Retain()
			held = append(held, m)
		}
	}
	f.adopt(&s.resource, rhi.ResourceShaderStages, desc.DebugName, 0, func() {
		for _, m := range held {
			m.Release()
		}
	})
	rhi.SetOk(out)
	return s
}
