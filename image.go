// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package rhi

import (
	"fmt"
	"image"

	"github.com/gogpu/gputypes"
	"golang.org/x/image/draw"
)

// TextureDataFromImage converts img into tightly packed RGBA8 rows of
// width x height texels, scaling with bilinear filtering when the sizes
// differ. A zero width or height keeps the image size.
func TextureDataFromImage(img image.Image, width, height uint32) ([]byte, error) {
	if img == nil {
		return nil, fmt.Errorf("%w: nil image", ErrInvalidArgument)
	}
	src := img.Bounds()
	if src.Empty() {
		return nil, fmt.Errorf("%w: empty image", ErrInvalidArgument)
	}
	if width == 0 || height == 0 {
		width, height = uint32(src.Dx()), uint32(src.Dy())
	}

	dst := image.NewRGBA(image.Rect(0, 0, int(width), int(height)))
	if src.Dx() == int(width) && src.Dy() == int(height) {
		draw.Draw(dst, dst.Bounds(), img, src.Min, draw.Src)
	} else {
		draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, src, draw.Src, nil)
	}
	return dst.Pix, nil
}

// NewTextureDescFromImage describes a sampled RGBA8 2D texture holding img.
func NewTextureDescFromImage(img image.Image, debugName string) (TextureDesc, error) {
	data, err := TextureDataFromImage(img, 0, 0)
	if err != nil {
		return TextureDesc{}, err
	}
	b := img.Bounds()
	d := NewTextureDesc2D(gputypes.TextureFormatRGBA8Unorm, uint32(b.Dx()), uint32(b.Dy()),
		gputypes.TextureUsageTextureBinding|gputypes.TextureUsageCopyDst, debugName)
	d.Data = data
	return d, nil
}
