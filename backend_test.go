package rhi

import (
	"errors"
	"testing"

	"github.com/gogpu/gputypes"
)

func TestParseBackendType(t *testing.T) {
	tests := []struct {
		in   string
		want BackendType
	}{
		{"vulkan", BackendVulkan},
		{" VK ", BackendVulkan},
		{"gles", BackendOpenGL},
		{"OpenGL", BackendOpenGL},
		{"mtl", BackendMetal},
	}
	for _, tt := range tests {
		got, err := ParseBackendType(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseBackendType(%q) = %v, %v", tt.in, got, err)
		}
		if got.String() == "invalid" {
			t.Errorf("%v has no name", got)
		}
	}
	if _, err := ParseBackendType("dx12"); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("dx12 err = %v", err)
	}
}

func TestBackendVariant(t *testing.T) {
	if BackendVulkan.Variant() != gputypes.BackendVulkan || BackendOpenGL.Variant() != gputypes.BackendGL ||
		BackendMetal.Variant() != gputypes.BackendMetal || BackendInvalid.Variant() != gputypes.BackendEmpty {
		t.Error("Variant mismatch")
	}
}

func TestBackendDebugColor(t *testing.T) {
	tests := []struct {
		b    BackendType
		want string
	}{
		{BackendOpenGL, "#FFFF00FF"},
		{BackendMetal, "#FF00FFFF"},
		{BackendVulkan, "#00FFFFFF"},
		{BackendInvalid, "#000000FF"},
	}
	for _, tt := range tests {
		if got := BackendDebugColor(tt.b).Hex(); got != tt.want {
			t.Errorf("BackendDebugColor(%v) = %s, want %s", tt.b, got, tt.want)
		}
	}
}
