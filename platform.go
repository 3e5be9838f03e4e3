package rhi

import "fmt"

// PlatformDeviceType tags the backend-specific extension of a Device.
type PlatformDeviceType uint8

const (
	PlatformDeviceUnknown PlatformDeviceType = iota
	PlatformDeviceVulkan
	PlatformDeviceOpenGL
	PlatformDeviceMetal
)

func (t PlatformDeviceType) String() string {
	switch t {
	case PlatformDeviceVulkan:
		return "vulkan"
	case PlatformDeviceOpenGL:
		return "opengl"
	case PlatformDeviceMetal:
		return "metal"
	case PlatformDeviceUnknown:
		return "unknown"
	default:
		return fmt.Sprintf("PlatformDeviceType(%d)", uint8(t))
	}
}

// PlatformDevice exposes backend operations outside the uniform contract.
//
// PlatformType should not depend on receiver state: GetPlatformDevice calls
// it on the zero value of the requested type to learn its tag. When that
// call panics, only the type assertion decides.
type PlatformDevice interface {
	PlatformType() PlatformDeviceType
}

// IsType reports whether p carries tag t. A nil p carries no tag.
func IsType(p PlatformDevice, t PlatformDeviceType) bool {
	return p != nil && p.PlatformType() == t
}

// GetPlatformDevice returns the platform device of d as T.
//
// The live platform device's tag is compared with T's tag first, and the
// conversion is a checked type assertion; a mismatch yields the zero T and
// false. It never panics. The result is valid only while d is open.
func GetPlatformDevice[T PlatformDevice](d Device) (T, bool) {
	var zero T
	if d == nil {
		return zero, false
	}
	p := d.PlatformDevice()
	if p == nil {
		return zero, false
	}
	// An interface T has no tag of its own; only the assertion applies.
	if want, ok := tagOf(zero); ok && p.PlatformType() != want {
		return zero, false
	}
	t, ok := p.(T)
	if !ok {
		return zero, false
	}
	return t, true
}

// tagOf returns the tag of p, or false when p is nil or its PlatformType
// panics.
func tagOf(p PlatformDevice) (t PlatformDeviceType, ok bool) {
	if any(p) == nil {
		return PlatformDeviceUnknown, false
	}
	defer func() {
		if recover() != nil {
			t, ok = PlatformDeviceUnknown, false
		}
	}()
	return p.PlatformType(), true
}
