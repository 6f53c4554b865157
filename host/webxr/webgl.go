// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build js && wasm

package webxr

import (
	"context"
	"fmt"
	"image/color"
	"sync"
	"syscall/js"

	"github.com/gogpu/xr"
	"github.com/gogpu/xr/render"
)

// Graphics creates WebGL2 canvas contexts. It implements xr.GraphicsSystem.
type Graphics struct{}

// NewGraphics returns the WebGL2 graphics system.
func NewGraphics() *Graphics { return &Graphics{} }

// CreateContext gets a WebGL2 context for the surface's canvas. The canvas
// is surface.Handle when it is a js.Value, otherwise the element with ID
// surface.Name, created and appended to the body when missing.
func (g *Graphics) CreateContext(surface xr.Surface, cfg xr.ContextConfig) (gc xr.GraphicsContext, err error) {
	defer catch(&err)
	if cfg.API != xr.APIWebGL2 {
		return nil, fmt.Errorf("webxr: unsupported API %s", cfg.API)
	}
	canvas := canvasFor(surface)
	if surface.Width > 0 && surface.Height > 0 {
		canvas.Set("width", surface.Width)
		canvas.Set("height", surface.Height)
	}
	gl := canvas.Call("getContext", "webgl2", map[string]any{
		"xrCompatible": cfg.XRCompatible,
		"antialias":    cfg.Antialias,
		"depth":        cfg.Depth,
	})
	if gl.IsNull() || gl.IsUndefined() {
		return nil, ErrNoWebGL2
	}
	return &Context{canvas: canvas, gl: gl}, nil
}

func canvasFor(surface xr.Surface) js.Value {
	if v, ok := surface.Handle.(js.Value); ok && v.Truthy() {
		return v
	}
	doc := js.Global().Get("document")
	name := surface.Name
	if name == "" {
		name = xr.DefaultSurfaceName
	}
	if el := doc.Call("getElementById", name); el.Truthy() {
		return el
	}
	el := doc.Call("createElement", "canvas")
	el.Set("id", name)
	doc.Get("body").Call("appendChild", el)
	return el
}

// Context is a WebGL2 rendering context. It implements xr.GraphicsContext.
type Context struct {
	canvas js.Value
	gl     js.Value

	mu         sync.Mutex
	compatible bool
	destroyed  bool
	bound      *Framebuffer
}

// API implements xr.GraphicsContext.
func (c *Context) API() xr.API { return xr.APIWebGL2 }

// GL returns the WebGL2RenderingContext.
func (c *Context) GL() js.Value { return c.gl }

// MakeXRCompatible awaits gl.makeXRCompatible().
func (c *Context) MakeXRCompatible(ctx context.Context) (err error) {
	defer catch(&err)
	if _, err := await(ctx, c.gl.Call("makeXRCompatible"), nil); err != nil {
		return err
	}
	c.mu.Lock()
	c.compatible = true
	c.mu.Unlock()
	return nil
}

// XRCompatible implements xr.GraphicsContext.
func (c *Context) XRCompatible() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.compatible
}

// BindDrawTarget binds a layer framebuffer as the draw framebuffer.
func (c *Context) BindDrawTarget(t render.Target) error {
	fb, ok := t.(*Framebuffer)
	if !ok {
		return fmt.Errorf("%w: %T", ErrForeignTarget, t)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gl.Call("bindFramebuffer", c.gl.Get("FRAMEBUFFER"), fb.js)
	c.bound = fb
	return nil
}

// ClearViewports clears each viewport of the bound framebuffer to col.
// Viewports use a top-left origin and are flipped for GL.
func (c *Context) ClearViewports(viewports []xr.Viewport, col color.Color) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.bound == nil {
		return
	}
	r, g, b, a := col.RGBA()
	gl := c.gl
	gl.Call("enable", gl.Get("SCISSOR_TEST"))
	gl.Call("clearColor", float64(r)/0xffff, float64(g)/0xffff, float64(b)/0xffff, float64(a)/0xffff)
	mask := gl.Get("COLOR_BUFFER_BIT").Int() | gl.Get("DEPTH_BUFFER_BIT").Int()
	for _, vp := range viewports {
		y := c.bound.height - vp.Y - vp.Height
		gl.Call("viewport", vp.X, y, vp.Width, vp.Height)
		gl.Call("scissor", vp.X, y, vp.Width, vp.Height)
		gl.Call("clear", mask)
	}
	gl.Call("disable", gl.Get("SCISSOR_TEST"))
}

// Destroy loses the WebGL context when the browser allows it.
func (c *Context) Destroy() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.destroyed {
		return
	}
	c.destroyed = true
	c.bound = nil
	if ext := c.gl.Call("getExtension", "WEBGL_lose_context"); ext.Truthy() {
		ext.Call("loseContext")
	}
}

var (
	_ xr.GraphicsSystem  = (*Graphics)(nil)
	_ xr.GraphicsContext = (*Context)(nil)
)
