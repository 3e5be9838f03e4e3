package rhi

import (
	"math"
	"math/bits"
)

// MipChainLength returns the number of levels in a full mip chain for the
// given size.
func MipChainLength(width, height, depth uint32) uint32 {
	m := max(width, height, depth, 1)
	return uint32(bits.Len32(m))
}

// SanitizeTextureDesc is the default texture normalization shared by all
// backends:
//   - zero sizes, layer, sample and mip counts become 1
//   - 2D and cube textures have depth 1; 3D textures have one layer
//   - cube textures have whole cubes: layers round up to a multiple of 6
//   - multisampled textures have one mip level
//   - the mip count never exceeds the full chain
//
// It is pure and idempotent.
func SanitizeTextureDesc(d TextureDesc) TextureDesc {
	d.Width = max(d.Width, 1)
	d.Height = max(d.Height, 1)
	d.Depth = max(d.Depth, 1)
	d.NumLayers = max(d.NumLayers, 1)
	d.NumSamples = max(d.NumSamples, 1)
	d.NumMipLevels = max(d.NumMipLevels, 1)

	switch d.Type {
	case TextureType2D, TextureType2DArray:
		d.Depth = 1
	case TextureTypeCube:
		d.Depth = 1
		d.NumLayers = wholeCubes(d.NumLayers)
	case TextureType3D:
		d.NumLayers = 1
	}
	if d.NumSamples > 1 {
		d.NumMipLevels = 1
	}
	d.NumMipLevels = min(d.NumMipLevels, MipChainLength(d.Width, d.Height, d.depthForMips()))
	return d
}

// wholeCubes rounds n up to a multiple of 6, or down when rounding up
// would overflow.
func wholeCubes(n uint32) uint32 {
	if n > math.MaxUint32-5 {
		return n / 6 * 6
	}
	return (n + 5) / 6 * 6
}
