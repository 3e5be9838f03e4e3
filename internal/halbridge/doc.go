// Package halbridge implements the rhi resource factory on top of a
// github.com/gogpu/wgpu/hal device. Every backend package composes a
// Factory with its own rhi.DeviceBase and platform device.
package halbridge
