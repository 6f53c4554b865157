// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package scene

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"sync"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/gogpu/gg"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/xr"
	"github.com/gogpu/xr/backend/wgpu"
	"github.com/gogpu/xr/render"
)

// ErrUnsupportedTarget is returned for a frame whose draw target the
// renderer cannot paint.
var ErrUnsupportedTarget = errors.New("scene: unsupported draw target")

// DefaultClearColor is the mid grey behind the cube.
var DefaultClearColor = color.RGBA{R: 102, G: 102, B: 102, A: 255}

// RendererOption configures a Renderer.
type RendererOption func(*Renderer)

// WithClearColor sets the background color.
func WithClearColor(c color.Color) RendererOption {
	return func(r *Renderer) {
		r.clear = c
	}
}

// WithCamera replaces the default camera. Both eyes share it unless an eye
// separation is set.
func WithCamera(c Camera) RendererOption {
	return func(r *Renderer) {
		r.camera = c
	}
}

// WithCube replaces the default cube.
func WithCube(c *Cube) RendererOption {
	return func(r *Renderer) {
		if c != nil {
			r.cube = c
		}
	}
}

// WithEyeSeparation offsets the left and right eye cameras by ∓d/2.
// Default 0: both eyes see the same image.
func WithEyeSeparation(d float64) RendererOption {
	return func(r *Renderer) {
		r.eyeSeparation = d
	}
}

// WithRenderScale renders CPU viewports at scale times their size and
// scales them to the framebuffer with nearest-neighbor sampling.
// Values outside (0, 1] are ignored.
func WithRenderScale(scale float64) RendererOption {
	return func(r *Renderer) {
		if scale > 0 && scale <= 1 {
			r.scale = scale
		}
	}
}

// Renderer draws the spinning cube into every viewport of a frame.
// It implements xr.FrameHandler for both the software and WebGPU backends.
type Renderer struct {
	mu            sync.Mutex
	cube          *Cube
	camera        Camera
	texture       *image.RGBA
	clear         color.Color
	eyeSeparation float64
	scale         float64

	canvases []*gg.Context
}

// NewRenderer creates a renderer for the default scene.
func NewRenderer(opts ...RendererOption) *Renderer {
	r := &Renderer{
		cube:    NewCube(),
		camera:  DefaultCamera(),
		texture: UVDebugTexture(),
		clear:   DefaultClearColor,
		scale:   1,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Cube returns the animated cube.
func (r *Renderer) Cube() *Cube {
	return r.cube
}

// DrawFrame advances the cube by the frame delta and paints each viewport.
func (r *Renderer) DrawFrame(fc *xr.FrameContext) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.cube.Advance(fc.Delta)

	if gc, ok := fc.Graphics.(*wgpu.Context); ok {
		return r.drawMesh(gc, fc.Viewports)
	}
	switch t := fc.Target.(type) {
	case *render.PixmapTarget:
		return r.drawPixmap(t, fc.Viewports)
	default:
		return fmt.Errorf("%w: %T", ErrUnsupportedTarget, fc.Target)
	}
}

// Close releases the cached CPU canvases.
func (r *Renderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	var errs []error
	for _, dc := range r.canvases {
		if dc != nil {
			errs = append(errs, dc.Close())
		}
	}
	r.canvases = nil
	return errors.Join(errs...)
}

func (r *Renderer) eyeCamera(e xr.Eye) Camera {
	switch e {
	case xr.EyeLeft:
		return r.camera.Shifted(-r.eyeSeparation / 2)
	case xr.EyeRight:
		return r.camera.Shifted(r.eyeSeparation / 2)
	default:
		return r.camera
	}
}

// drawPixmap rasterizes each viewport with gg on a transparent canvas and
// composites it over the cleared framebuffer.
func (r *Renderer) drawPixmap(t *render.PixmapTarget, viewports []xr.Viewport) error {
	t.Clear(r.clear)

	for i, vp := range viewports {
		if vp.Width <= 0 || vp.Height <= 0 {
			continue
		}
		w := max(1, int(float64(vp.Width)*r.scale))
		h := max(1, int(float64(vp.Height)*r.scale))
		dc := r.canvas(i, w, h)
		dc.Clear()

		for _, q := range r.cube.Quads(r.texture, r.eyeCamera(vp.Eye), vp.Aspect()) {
			dc.SetColor(q.Color)
			for k, p := range q.Points {
				x, y := ToViewport(p, float64(w), float64(h))
				if k == 0 {
					dc.MoveTo(x, y)
				} else {
					dc.LineTo(x, y)
				}
			}
			dc.ClosePath()
			if err := dc.Fill(); err != nil {
				return fmt.Errorf("scene: fill %s viewport: %w", vp.Eye, err)
			}
		}

		t.Composite(vp.Rect(), dc.Image())
	}
	return nil
}

// canvas returns the cached gg context for viewport i, recreating it when
// the size changes.
func (r *Renderer) canvas(i, w, h int) *gg.Context {
	for len(r.canvases) <= i {
		r.canvases = append(r.canvases, nil)
	}
	dc := r.canvases[i]
	if dc != nil && dc.Width() == w && dc.Height() == h {
		return dc
	}
	if dc != nil {
		_ = dc.Close()
	}
	dc = gg.NewContext(w, h)
	r.canvases[i] = dc
	return dc
}

// drawMesh submits the cube quads as triangles, one list per viewport.
func (r *Renderer) drawMesh(gc *wgpu.Context, viewports []xr.Viewport) error {
	draws := make([]wgpu.ViewportDraw, 0, len(viewports))
	for _, vp := range viewports {
		quads := r.cube.Quads(r.texture, r.eyeCamera(vp.Eye), vp.Aspect())
		draws = append(draws, wgpu.ViewportDraw{Viewport: vp, Vertices: quadVertices(quads)})
	}
	return gc.DrawViewports(gpuColor(r.clear), draws)
}

// quadVertices splits each quad into two triangles.
func quadVertices(quads []Quad) []wgpu.Vertex {
	verts := make([]wgpu.Vertex, 0, len(quads)*6)
	for _, q := range quads {
		c := q.Color
		col := [4]float32{float32(c.R) / 255, float32(c.G) / 255, float32(c.B) / 255, float32(c.A) / 255}
		v := func(p mgl64.Vec4) wgpu.Vertex {
			return wgpu.Vertex{
				Position: [4]float32{float32(p[0]), float32(p[1]), float32(p[2]), float32(p[3])},
				Color:    col,
			}
		}
		p := q.Points
		verts = append(verts, v(p[0]), v(p[1]), v(p[2]), v(p[0]), v(p[2]), v(p[3]))
	}
	return verts
}

func gpuColor(c color.Color) gputypes.Color {
	r, g, b, a := c.RGBA()
	return gputypes.Color{
		R: float64(r) / 0xffff,
		G: float64(g) / 0xffff,
		B: float64(b) / 0xffff,
		A: float64(a) / 0xffff,
	}
}

var _ xr.FrameHandler = (*Renderer)(nil)
