// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build js && wasm

package main

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"log/slog"
	"os"

	"github.com/gogpu/xr"
	"github.com/gogpu/xr/host/webxr"
)

// background matches the grey behind the desktop cube.
var background = color.RGBA{R: 102, G: 102, B: 102, A: 255}

func main() {
	cfg, err := parseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, "xrdemo:", err)
		os.Exit(2)
	}
	level, _ := cfg.level()
	xr.SetLogger(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

	if err := execute(context.Background(), cfg); err != nil {
		fmt.Fprintln(os.Stderr, "xrdemo:", err)
		os.Exit(1)
	}
}

// execute runs a browser session that clears each eye, falling back to an
// inline session when the headset mode is unavailable.
func execute(ctx context.Context, cfg *Config) error {
	sys, err := webxr.NewSystem()
	if err != nil {
		return err
	}
	handler := xr.FrameHandlerFunc(func(fc *xr.FrameContext) error {
		gc, ok := fc.Graphics.(*webxr.Context)
		if !ok {
			return fmt.Errorf("unexpected graphics context %T", fc.Graphics)
		}
		gc.ClearViewports(fc.Viewports, background)
		return nil
	})
	setup := func(mode xr.SessionMode) (*xr.Runtime, error) {
		return xr.Setup(ctx, sys, webxr.NewGraphics(),
			xr.WithMode(mode),
			xr.WithSurface(xr.Surface{
				Name:   xr.DefaultSurfaceName,
				Width:  cfg.Framebuffer.Width,
				Height: cfg.Framebuffer.Height,
			}),
			xr.WithDepthRange(cfg.Depth.Near, cfg.Depth.Far),
			xr.WithFrameHandler(handler))
	}

	rt, err := setup(cfg.Mode)
	if errors.Is(err, xr.ErrUnsupportedMode) && cfg.Mode != xr.Inline {
		xr.Logger().Info("xrdemo: falling back to inline", "mode", cfg.Mode)
		rt, err = setup(xr.Inline)
	}
	if err != nil {
		return err
	}
	defer func() { _ = rt.Close() }()

	if err := rt.Loop.Wait(ctx); err != nil && !errors.Is(err, xr.ErrSessionEnded) {
		return err
	}
	return nil
}
