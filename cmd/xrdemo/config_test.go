// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gogpu/xr"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "xrdemo.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultConfigIsValid(t *testing.T) {
	cfg, err := parseArgs(nil)
	if err != nil {
		t.Fatalf("parseArgs(nil) = %v", err)
	}
	if cfg.Mode != xr.ImmersiveVR {
		t.Errorf("Mode = %v, want immersive-vr", cfg.Mode)
	}
	if cfg.Backend != "software" {
		t.Errorf("Backend = %q, want software", cfg.Backend)
	}
	if cfg.Framebuffer.Width != xr.DefaultSurfaceWidth || cfg.Framebuffer.Height != xr.DefaultSurfaceHeight {
		t.Errorf("Framebuffer = %dx%d", cfg.Framebuffer.Width, cfg.Framebuffer.Height)
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := writeConfig(t, `
mode: inline
backend: wgpu
framebuffer:
  width: 320
  height: 160
refresh_rate: 90
frames: 12
depth:
  near: 0.01
  far: 50
scene:
  eye_separation: 0.064
metrics:
  enabled: true
  addr: ":0"
prompt:
  delay: 250ms
  deny: 2
  max_attempts: 5
log_level: debug
`)
	cfg, err := parseArgs([]string{"-config", path})
	if err != nil {
		t.Fatalf("parseArgs() = %v", err)
	}
	if cfg.Mode != xr.Inline || cfg.Backend != "wgpu" {
		t.Errorf("mode/backend = %v/%q", cfg.Mode, cfg.Backend)
	}
	if cfg.Framebuffer.Width != 320 || cfg.RefreshRate != 90 || cfg.Frames != 12 {
		t.Errorf("size/rate/frames = %d/%d/%d", cfg.Framebuffer.Width, cfg.RefreshRate, cfg.Frames)
	}
	if cfg.Depth.Near != 0.01 || cfg.Depth.Far != 50 {
		t.Errorf("depth = %g..%g", cfg.Depth.Near, cfg.Depth.Far)
	}
	if cfg.Prompt.Delay != 250*time.Millisecond || cfg.Prompt.Deny != 2 || cfg.Prompt.MaxAttempts != 5 {
		t.Errorf("prompt = %+v", cfg.Prompt)
	}
	if !cfg.Metrics.Enabled || cfg.Metrics.Addr != ":0" {
		t.Errorf("metrics = %+v", cfg.Metrics)
	}
	// Untouched keys keep their defaults.
	if cfg.Scene.RenderScale != 1 || cfg.Prompt.InitialInterval != 100*time.Millisecond {
		t.Errorf("defaults lost: scale=%g interval=%v", cfg.Scene.RenderScale, cfg.Prompt.InitialInterval)
	}
}

func TestFlagsOverrideFile(t *testing.T) {
	path := writeConfig(t, "mode: inline\nframes: 12\nbackend: wgpu\n")
	cfg, err := parseArgs([]string{"-config", path, "-frames", "3", "-mode", "immersive-ar", "-deny", "1"})
	if err != nil {
		t.Fatalf("parseArgs() = %v", err)
	}
	if cfg.Frames != 3 || cfg.Mode != xr.ImmersiveAR || cfg.Prompt.Deny != 1 {
		t.Errorf("frames/mode/deny = %d/%v/%d", cfg.Frames, cfg.Mode, cfg.Prompt.Deny)
	}
	if cfg.Backend != "wgpu" {
		t.Errorf("Backend = %q, file value lost", cfg.Backend)
	}
}

func TestParseArgsErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		file string
		want string
	}{
		{name: "unknown mode", args: []string{"-mode", "holodeck"}, want: "unknown session mode"},
		{name: "bad depth", file: "depth:\n  near: 10\n  far: 1\n", want: "invalid depth range"},
		{name: "NaN depth", file: "depth:\n  near: .nan\n", want: "invalid depth range"},
		{name: "infinite depth", file: "depth:\n  far: .inf\n", want: "invalid depth range"},
		{name: "bad size", args: []string{"-width", "0"}, want: "framebuffer size"},
		{name: "bad level", args: []string{"-log-level", "loud"}, want: "log_level"},
		{name: "bad yaml", file: "frames: [1\n", want: "parse config"},
		{name: "missing file", args: []string{"-config", "does-not-exist.yaml"}, want: "read config"},
		{name: "no attempts", file: "prompt:\n  max_attempts: 0\n", want: "max_attempts"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := tt.args
			if tt.file != "" {
				args = append([]string{"-config", writeConfig(t, tt.file)}, args...)
			}
			_, err := parseArgs(args)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("parseArgs(%v) = %v, want error containing %q", args, err, tt.want)
			}
		})
	}
}

func TestValidateJoinsErrors(t *testing.T) {
	cfg := defaultConfig()
	cfg.RefreshRate = 0
	cfg.Depth.Near = 0
	err := cfg.validate()
	if !errors.Is(err, xr.ErrInvalidDepthRange) {
		t.Errorf("validate() = %v, want ErrInvalidDepthRange", err)
	}
	if err == nil || !strings.Contains(err.Error(), "refresh_rate") {
		t.Errorf("validate() = %v, want refresh_rate error too", err)
	}
}
