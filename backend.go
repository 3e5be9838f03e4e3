package rhi

import (
	"fmt"
	"strings"

	"github.com/gogpu/gputypes"
)

// BackendType identifies the native graphics API behind a Device.
// The set is closed: every Device reports exactly one of these.
type BackendType uint8

const (
	// BackendInvalid is the zero value and never names a live device.
	BackendInvalid BackendType = iota
	// BackendVulkan is the explicit-API backend.
	BackendVulkan
	// BackendOpenGL is the legacy-API backend (OpenGL and OpenGL ES).
	BackendOpenGL
	// BackendMetal is the proprietary-API backend.
	BackendMetal
)

// String returns the registry name of the backend.
func (b BackendType) String() string {
	switch b {
	case BackendVulkan:
		return "vulkan"
	case BackendOpenGL:
		return "opengl"
	case BackendMetal:
		return "metal"
	default:
		return "invalid"
	}
}

// Variant returns the hal backend variant implementing b.
func (b BackendType) Variant() gputypes.Backend {
	switch b {
	case BackendVulkan:
		return gputypes.BackendVulkan
	case BackendOpenGL:
		return gputypes.BackendGL
	case BackendMetal:
		return gputypes.BackendMetal
	default:
		return gputypes.BackendEmpty
	}
}

// ParseBackendType parses a registry name such as "vulkan" or "gl".
func ParseBackendType(s string) (BackendType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "vulkan", "vk":
		return BackendVulkan, nil
	case "opengl", "gl", "gles":
		return BackendOpenGL, nil
	case "metal", "mtl":
		return BackendMetal, nil
	}
	return BackendInvalid, fmt.Errorf("%w: unknown backend %q", ErrInvalidArgument, s)
}

// NormalizedZRange is the clip-space depth range of a backend.
type NormalizedZRange uint8

const (
	// ZRangeNegOneToOne maps depth to [-1, 1] (OpenGL convention).
	ZRangeNegOneToOne NormalizedZRange = iota
	// ZRangeZeroToOne maps depth to [0, 1] (Vulkan and Metal convention).
	ZRangeZeroToOne
)

func (z NormalizedZRange) String() string {
	if z == ZRangeZeroToOne {
		return "[0,1]"
	}
	return "[-1,1]"
}

// BackendDebugColor returns the color used to tint debug overlays and
// GPU capture markers for a backend.
func BackendDebugColor(b BackendType) Color {
	switch b {
	case BackendOpenGL:
		return Yellow
	case BackendMetal:
		return Magenta
	case BackendVulkan:
		return Cyan
	default:
		return Black
	}
}
