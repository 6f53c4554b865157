// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogui

package preview

import (
	"context"
	"errors"
	"image"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/gogpu/xr"
	"github.com/gogpu/xr/host/sim"
)

// Option configures a Window.
type Option func(*Window)

// WithTitle sets the window title.
func WithTitle(title string) Option {
	return func(w *Window) {
		w.title = title
	}
}

// WithScale sets the window size as a multiple of the framebuffer.
func WithScale(scale float64) Option {
	return func(w *Window) {
		if scale > 0 {
			w.scale = scale
		}
	}
}

// WithRefreshRate sets the presentation rate in frames per second.
func WithRefreshRate(hz int) Option {
	return func(w *Window) {
		if hz > 0 {
			w.hz = hz
		}
	}
}

// Window is an ebiten game presenting one simulated session.
// Escape ends the session and closes the window.
type Window struct {
	title string
	scale float64
	hz    int

	ctx     context.Context
	p       *Presenter
	snap    *image.RGBA
	img     *ebiten.Image
	stepErr error
}

// NewWindow creates a window for s.
func NewWindow(s *sim.Session, opts ...Option) *Window {
	w := &Window{
		title: "xr preview",
		scale: 0.5,
		hz:    sim.DefaultRefreshRate,
	}
	for _, opt := range opts {
		opt(w)
	}
	w.p = NewPresenter(s, w.hz)
	return w
}

// Run opens the window and blocks until it is closed, the session ends or
// ctx is done. It must be called from the main goroutine.
func (w *Window) Run(ctx context.Context) error {
	w.ctx = ctx
	fw, fh := w.p.FramebufferSize(1600, 800)
	ebiten.SetWindowTitle(w.title)
	ebiten.SetWindowSize(int(float64(fw)*w.scale), int(float64(fh)*w.scale))
	ebiten.SetTPS(w.hz)
	xr.Logger().Info("preview: window opened", "size", image.Pt(fw, fh), "hz", w.hz)

	if err := ebiten.RunGame(w); err != nil {
		return err
	}
	if errors.Is(w.stepErr, ErrSessionClosed) {
		return nil
	}
	return w.stepErr
}

// Update implements ebiten.Game.
func (w *Window) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		_ = w.p.Session().End()
	}
	if err := w.p.Step(w.ctx); err != nil {
		w.stepErr = err
		return ebiten.Termination
	}
	return nil
}

// Draw implements ebiten.Game.
func (w *Window) Draw(screen *ebiten.Image) {
	snap, ok := w.p.Snapshot(w.snap)
	if !ok {
		return
	}
	w.snap = snap
	b := snap.Bounds()
	if w.img == nil || w.img.Bounds() != b {
		if w.img != nil {
			w.img.Deallocate()
		}
		w.img = ebiten.NewImage(b.Dx(), b.Dy())
	}
	w.img.WritePixels(snap.Pix)
	screen.DrawImage(w.img, nil)
}

// Layout implements ebiten.Game.
func (w *Window) Layout(outsideWidth, outsideHeight int) (int, int) {
	return w.p.FramebufferSize(outsideWidth, outsideHeight)
}
