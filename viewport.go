// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package xr

import "image"

// Eye identifies which view a viewport renders.
type Eye int

const (
	EyeNone Eye = iota
	EyeLeft
	EyeRight
)

// String returns the eye name.
func (e Eye) String() string {
	switch e {
	case EyeLeft:
		return "left"
	case EyeRight:
		return "right"
	default:
		return "none"
	}
}

// Viewport is a region of the layer framebuffer in physical pixels.
type Viewport struct {
	Eye    Eye
	X, Y   int
	Width  int
	Height int
}

// Rect returns the viewport as an image rectangle.
func (v Viewport) Rect() image.Rectangle {
	return image.Rect(v.X, v.Y, v.X+v.Width, v.Y+v.Height)
}

// Aspect returns width over height, or 0 for an empty viewport.
func (v Viewport) Aspect() float64 {
	if v.Height == 0 {
		return 0
	}
	return float64(v.Width) / float64(v.Height)
}

// StereoViewports splits a side-by-side framebuffer into left and right
// eye viewports. For an odd width the right eye gets the extra column.
func StereoViewports(width, height int) [2]Viewport {
	half := width / 2
	return [2]Viewport{
		{Eye: EyeLeft, X: 0, Y: 0, Width: half, Height: height},
		{Eye: EyeRight, X: half, Y: 0, Width: width - half, Height: height},
	}
}

// MonoViewport covers the whole framebuffer with a single view.
func MonoViewport(width, height int) Viewport {
	return Viewport{Eye: EyeNone, Width: width, Height: height}
}

// ViewportsFor returns the viewports a frame in mode renders.
// Immersive modes render side-by-side stereo.
func ViewportsFor(mode SessionMode, width, height int) []Viewport {
	if mode.Immersive() {
		vp := StereoViewports(width, height)
		return vp[:]
	}
	return []Viewport{MonoViewport(width, height)}
}
