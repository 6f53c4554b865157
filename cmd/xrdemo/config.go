// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/gogpu/xr"
)

// Config is the demo configuration. It is read from a YAML file and then
// overridden by command line flags.
type Config struct {
	Mode    xr.SessionMode `yaml:"mode"`
	Backend string         `yaml:"backend"` // "auto" selects the best available

	Framebuffer struct {
		Width  int `yaml:"width"`
		Height int `yaml:"height"`
	} `yaml:"framebuffer"`

	RefreshRate int    `yaml:"refresh_rate"`
	Frames      uint64 `yaml:"frames"` // headless only, 0 runs until interrupted

	Depth struct {
		Near float64 `yaml:"near"`
		Far  float64 `yaml:"far"`
	} `yaml:"depth"`

	Scene struct {
		EyeSeparation float64 `yaml:"eye_separation"`
		RenderScale   float64 `yaml:"render_scale"`
	} `yaml:"scene"`

	Window bool    `yaml:"window"`
	Scale  float64 `yaml:"window_scale"`

	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Addr    string `yaml:"addr"`
	} `yaml:"metrics"`

	// Prompt simulates the permission prompt and sets the re-prompt policy.
	Prompt struct {
		Delay           time.Duration `yaml:"delay"`
		Deny            int           `yaml:"deny"`
		MaxAttempts     uint64        `yaml:"max_attempts"`
		InitialInterval time.Duration `yaml:"initial_interval"`
	} `yaml:"prompt"`

	Snapshot string `yaml:"snapshot"`
	LogLevel string `yaml:"log_level"`
}

func defaultConfig() *Config {
	cfg := &Config{
		Mode:        xr.ImmersiveVR,
		Backend:     "software",
		RefreshRate: 72,
		Frames:      360,
		Scale:       0.5,
		LogLevel:    "info",
	}
	cfg.Framebuffer.Width = xr.DefaultSurfaceWidth
	cfg.Framebuffer.Height = xr.DefaultSurfaceHeight
	cfg.Depth.Near = 0.1
	cfg.Depth.Far = 1000
	cfg.Scene.RenderScale = 1
	cfg.Metrics.Addr = "127.0.0.1:9464"
	cfg.Prompt.MaxAttempts = 3
	cfg.Prompt.InitialInterval = 100 * time.Millisecond
	return cfg
}

// loadConfig reads path over the defaults. An empty path returns the
// defaults.
func loadConfig(path string) (*Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	var errs []error
	if c.Framebuffer.Width <= 0 || c.Framebuffer.Height <= 0 {
		errs = append(errs, fmt.Errorf("framebuffer size %dx%d must be positive",
			c.Framebuffer.Width, c.Framebuffer.Height))
	}
	if c.RefreshRate <= 0 {
		errs = append(errs, fmt.Errorf("refresh_rate %d must be positive", c.RefreshRate))
	}
	if !xr.ValidDepthRange(c.Depth.Near, c.Depth.Far) {
		errs = append(errs, fmt.Errorf("%w: near=%g far=%g", xr.ErrInvalidDepthRange, c.Depth.Near, c.Depth.Far))
	}
	if c.Scene.RenderScale <= 0 || c.Scene.RenderScale > 1 {
		errs = append(errs, fmt.Errorf("render_scale %g must be in (0, 1]", c.Scene.RenderScale))
	}
	if c.Prompt.Deny < 0 {
		errs = append(errs, fmt.Errorf("prompt.deny %d must not be negative", c.Prompt.Deny))
	}
	if c.Prompt.MaxAttempts == 0 {
		errs = append(errs, errors.New("prompt.max_attempts must be at least 1"))
	}
	if _, err := c.level(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (c *Config) level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("log_level: %w", err)
	}
	return l, nil
}

// parseArgs loads the file named by -config and applies the flags that
// were set explicitly.
func parseArgs(args []string) (*Config, error) {
	fs := flag.NewFlagSet("xrdemo", flag.ContinueOnError)
	path := fs.String("config", "", "YAML config file")
	fs.String("mode", "", "session mode: inline, immersive-vr or immersive-ar")
	fs.String("backend", "", "graphics backend: software, wgpu or auto")
	fs.Int("width", 0, "framebuffer width")
	fs.Int("height", 0, "framebuffer height")
	fs.Int("hz", 0, "refresh rate")
	fs.Uint64("frames", 0, "frames to present headless, 0 runs until interrupted")
	fs.Bool("window", false, "show the framebuffer in a window")
	fs.Bool("metrics", false, "serve Prometheus metrics")
	fs.String("metrics-addr", "", "metrics listen address")
	fs.Int("deny", 0, "simulate this many dismissed permission prompts")
	fs.Float64("eye-separation", 0, "distance between the eye cameras")
	fs.String("snapshot", "", "write the last frame to this PNG file")
	fs.String("log-level", "", "debug, info, warn or error")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg, err := loadConfig(*path)
	if err != nil {
		return nil, err
	}
	var errs []error
	fs.Visit(func(f *flag.Flag) {
		if err := cfg.set(f.Name, f.Value.String()); err != nil {
			errs = append(errs, fmt.Errorf("-%s: %w", f.Name, err))
		}
	})
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) set(name, v string) error {
	var err error
	switch name {
	case "mode":
		err = c.Mode.UnmarshalText([]byte(v))
	case "backend":
		c.Backend = v
	case "width":
		c.Framebuffer.Width, err = strconv.Atoi(v)
	case "height":
		c.Framebuffer.Height, err = strconv.Atoi(v)
	case "hz":
		c.RefreshRate, err = strconv.Atoi(v)
	case "frames":
		c.Frames, err = strconv.ParseUint(v, 10, 64)
	case "window":
		c.Window, err = strconv.ParseBool(v)
	case "metrics":
		c.Metrics.Enabled, err = strconv.ParseBool(v)
	case "metrics-addr":
		c.Metrics.Addr = v
	case "deny":
		c.Prompt.Deny, err = strconv.Atoi(v)
	case "eye-separation":
		c.Scene.EyeSeparation, err = strconv.ParseFloat(v, 64)
	case "snapshot":
		c.Snapshot = v
	case "log-level":
		c.LogLevel = v
	}
	return err
}
