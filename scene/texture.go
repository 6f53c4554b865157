// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package scene

import (
	"image"
	"image/color"
)

// TextureSize is the edge length of the UV debug texture in texels.
const TextureSize = 8

// debugPalette is one row of the UV debug texture, left to right.
var debugPalette = [TextureSize]color.RGBA{
	{255, 102, 159, 255},
	{255, 159, 102, 255},
	{236, 255, 102, 255},
	{121, 255, 102, 255},
	{102, 255, 198, 255},
	{102, 198, 255, 255},
	{121, 102, 255, 255},
	{236, 102, 255, 255},
}

// UVDebugTexture returns the 8x8 debug texture. Each row is the previous
// row rotated one texel to the right, so orientation and UV seams are
// visible on every face.
func UVDebugTexture() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, TextureSize, TextureSize))
	for y := 0; y < TextureSize; y++ {
		for x := 0; x < TextureSize; x++ {
			img.SetRGBA(x, y, debugPalette[(x-y+TextureSize)%TextureSize])
		}
	}
	return img
}
