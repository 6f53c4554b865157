// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !js

// Command xrdemo runs the debug cube on a simulated headset.
//
// Usage:
//
//	xrdemo [-config xrdemo.yaml] [-backend software] [-frames 360] [-window]
//
// Headless runs present -frames frames on a ticker at the refresh rate.
// With -window the framebuffer is shown in a desktop window until it is
// closed or Escape ends the session.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gogpu/xr"
)

func main() {
	cfg, err := parseArgs(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "xrdemo:", err)
		os.Exit(2)
	}
	level, _ := cfg.level()
	xr.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := execute(ctx, cfg); err != nil {
		fmt.Fprintln(os.Stderr, "xrdemo:", err)
		os.Exit(1)
	}
}

func execute(ctx context.Context, cfg *Config) error {
	a, err := newApp(cfg, os.Stdout)
	if err != nil {
		return err
	}
	if cfg.Window {
		return a.run(ctx, a.window)
	}
	return a.run(ctx, a.headless)
}
