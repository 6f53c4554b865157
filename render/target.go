// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/gogpu/gputypes"
	xdraw "golang.org/x/image/draw"
)

// Target is the image a base layer exposes for one frame. Each eye viewport
// addresses a sub-rectangle of it.
//
// Backends type-assert to their concrete target: CPU targets expose pixels,
// GPU targets expose a texture view.
type Target interface {
	Width() int
	Height() int
	Format() gputypes.TextureFormat
}

// PixmapTarget is a base layer framebuffer held in main memory.
//
// Viewport rectangles are in framebuffer pixels with the origin at the top
// left. Rectangles that overhang the framebuffer are clipped.
type PixmapTarget struct {
	img *image.RGBA
}

// NewPixmapTarget allocates a transparent width x height framebuffer.
func NewPixmapTarget(width, height int) *PixmapTarget {
	return &PixmapTarget{img: image.NewRGBA(image.Rect(0, 0, width, height))}
}

func (t *PixmapTarget) Width() int  { return t.img.Rect.Dx() }
func (t *PixmapTarget) Height() int { return t.img.Rect.Dy() }

// Format is always RGBA8Unorm.
func (t *PixmapTarget) Format() gputypes.TextureFormat {
	return gputypes.TextureFormatRGBA8Unorm
}

// Pixels returns the framebuffer bytes, row major with no padding.
func (t *PixmapTarget) Pixels() []byte { return t.img.Pix }

// Image returns the framebuffer as an image. Writes through it land in the
// framebuffer.
func (t *PixmapTarget) Image() *image.RGBA { return t.img }

// GetPixel returns the framebuffer color at x, y.
func (t *PixmapTarget) GetPixel(x, y int) color.Color { return t.img.RGBAAt(x, y) }

// Clear fills the whole framebuffer, both eyes included.
func (t *PixmapTarget) Clear(c color.Color) {
	t.ClearRect(t.img.Rect, c)
}

// ClearRect fills one viewport with c, replacing what was there.
func (t *PixmapTarget) ClearRect(r image.Rectangle, c color.Color) {
	r = r.Intersect(t.img.Rect)
	if r.Empty() {
		return
	}
	fill := image.NewUniform(color.RGBAModel.Convert(c))
	draw.Draw(t.img, r, fill, image.Point{}, draw.Src)
}

// Composite scales src into viewport r and blends it over the current
// contents. Eye images rendered at reduced resolution are stretched to fit.
func (t *PixmapTarget) Composite(r image.Rectangle, src image.Image) {
	if r.Intersect(t.img.Rect).Empty() {
		return
	}
	xdraw.NearestNeighbor.Scale(t.img, r, src, src.Bounds(), xdraw.Over, nil)
}

// CopyTo copies the framebuffer into dst and returns it. dst is replaced
// when nil or a different size.
func (t *PixmapTarget) CopyTo(dst *image.RGBA) *image.RGBA {
	if dst == nil || dst.Rect.Size() != t.img.Rect.Size() {
		dst = image.NewRGBA(image.Rectangle{Max: t.img.Rect.Size()})
	}
	copy(dst.Pix, t.img.Pix)
	return dst
}

var _ Target = (*PixmapTarget)(nil)
