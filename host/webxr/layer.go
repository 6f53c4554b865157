// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build js && wasm

package webxr

import (
	"syscall/js"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/xr"
	"github.com/gogpu/xr/render"
)

// Layer wraps an XRWebGLLayer. It implements xr.Layer.
type Layer struct {
	session *Session
	js      js.Value
}

// FramebufferSize implements xr.Layer.
func (l *Layer) FramebufferSize() (width, height int) {
	return l.js.Get("framebufferWidth").Int(), l.js.Get("framebufferHeight").Int()
}

// DrawTarget implements xr.Layer. The layer's framebuffer is opaque and
// only valid while the frame's callback runs.
func (l *Layer) DrawTarget(f xr.Frame) (render.Target, error) {
	if wf, ok := f.(*Frame); ok && (wf.expired.Load() || wf.session != l.session) {
		return nil, xr.ErrFrameExpired
	}
	w, h := l.FramebufferSize()
	return &Framebuffer{js: l.js.Get("framebuffer"), width: w, height: h}, nil
}

// Framebuffer is the WebGLFramebuffer of a layer for one frame.
type Framebuffer struct {
	js     js.Value
	width  int
	height int
}

// Width implements render.Target.
func (t *Framebuffer) Width() int { return t.width }

// Height implements render.Target.
func (t *Framebuffer) Height() int { return t.height }

// Format implements render.Target.
func (t *Framebuffer) Format() gputypes.TextureFormat { return gputypes.TextureFormatRGBA8Unorm }

// Value returns the WebGLFramebuffer.
func (t *Framebuffer) Value() js.Value { return t.js }

var (
	_ xr.Layer      = (*Layer)(nil)
	_ render.Target = (*Framebuffer)(nil)
)
