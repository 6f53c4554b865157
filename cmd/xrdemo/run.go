// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !js

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/fatih/color"
	"github.com/gogpu/gg"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/gogpu/xr"
	"github.com/gogpu/xr/backend"
	_ "github.com/gogpu/xr/backend/software"
	"github.com/gogpu/xr/host/sim"
	"github.com/gogpu/xr/metrics"
	"github.com/gogpu/xr/preview"
	"github.com/gogpu/xr/scene"
)

// errDenied is what the simulated user answers to a dismissed prompt.
var errDenied = errors.New("permission prompt dismissed")

var (
	okColor   = color.New(color.FgHiGreen, color.Bold)
	warnColor = color.New(color.FgHiYellow, color.Bold)
	dimColor  = color.New(color.FgHiBlack)
)

// app holds one demo run.
type app struct {
	cfg *Config
	out io.Writer

	system   *sim.System
	graphics xr.GraphicsSystem
	backend  string
	registry *prometheus.Registry
	metrics  *metrics.LoopMetrics
	renderer *scene.Renderer

	rt        *xr.Runtime
	presenter *preview.Presenter
	attempts  int
	started   time.Time
}

func newApp(cfg *Config, out io.Writer) (*app, error) {
	name, gs, err := selectBackend(cfg.Backend)
	if err != nil {
		return nil, err
	}
	sysOpts := []sim.Option{
		sim.WithFramebufferSize(cfg.Framebuffer.Width, cfg.Framebuffer.Height),
		sim.WithPromptDelay(cfg.Prompt.Delay),
	}
	if cfg.Prompt.Deny > 0 {
		sysOpts = append(sysOpts, sim.WithDeniedRequests(cfg.Prompt.Deny, errDenied))
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	return &app{
		cfg:      cfg,
		out:      out,
		system:   sim.NewSystem(sysOpts...),
		graphics: gs,
		backend:  name,
		registry: reg,
		metrics:  metrics.NewLoopMetrics(reg),
		renderer: scene.NewRenderer(
			scene.WithEyeSeparation(cfg.Scene.EyeSeparation),
			scene.WithRenderScale(cfg.Scene.RenderScale),
		),
	}, nil
}

func selectBackend(name string) (string, xr.GraphicsSystem, error) {
	if name == "" || name == "auto" {
		return backend.Default()
	}
	gs, err := backend.Get(name)
	return name, gs, err
}

func apiFor(name string) xr.API {
	switch name {
	case backend.NameSoftware:
		return xr.APISoftware
	default:
		return xr.APIWebGPU
	}
}

// setup establishes the session, asking again with exponential backoff
// while the user dismisses the prompt. Any other failure is final.
func (a *app) setup(ctx context.Context) error {
	cfg := a.cfg
	opts := []xr.Option{
		xr.WithMode(cfg.Mode),
		xr.WithSurface(xr.Surface{
			Name:   xr.DefaultSurfaceName,
			Width:  cfg.Framebuffer.Width,
			Height: cfg.Framebuffer.Height,
		}),
		xr.WithContextConfig(xr.ContextConfig{
			API:          apiFor(a.backend),
			XRCompatible: true,
			Antialias:    true,
			Depth:        true,
		}),
		xr.WithDepthRange(cfg.Depth.Near, cfg.Depth.Far),
		xr.WithFrameHandler(a.renderer),
		xr.WithObserver(a.metrics),
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = cfg.Prompt.InitialInterval
	policy := backoff.WithContext(backoff.WithMaxRetries(bo, cfg.Prompt.MaxAttempts-1), ctx)

	op := func() error {
		a.attempts++
		rt, err := xr.Setup(ctx, a.system, a.graphics, opts...)
		if err != nil {
			if errors.Is(err, xr.ErrSessionDenied) {
				return err
			}
			return backoff.Permanent(err)
		}
		a.rt = rt
		return nil
	}
	notify := func(err error, wait time.Duration) {
		warnColor.Fprintf(a.out, "session denied (%v), asking again in %v\n", err, wait.Round(time.Millisecond))
	}
	if err := backoff.RetryNotify(op, policy, notify); err != nil {
		return err
	}

	a.presenter = preview.NewPresenter(a.system.Active(), cfg.RefreshRate)
	a.started = time.Now()
	okColor.Fprintf(a.out, "%s session %s on %s\n", cfg.Mode, a.rt.Session.ID(), a.backend)
	return nil
}

// run sets up the session, presents frames and tears everything down.
// present runs on the calling goroutine and blocks until presentation is
// over.
func (a *app) run(ctx context.Context, present func(context.Context) error) error {
	if err := a.setup(ctx); err != nil {
		return err
	}
	defer a.close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)
	if a.cfg.Metrics.Enabled {
		if _, err := a.serveMetrics(gctx, g); err != nil {
			return err
		}
	}
	err := present(gctx)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		err = nil
	}
	cancel()
	err = errors.Join(err, g.Wait())

	if a.cfg.Snapshot != "" {
		err = errors.Join(err, a.snapshot(a.cfg.Snapshot))
	}
	a.summary()
	return err
}

// headless presents frames on a ticker.
func (a *app) headless(ctx context.Context) error {
	return a.presenter.Clock().Run(ctx, a.cfg.Frames)
}

// serveMetrics serves the registry on the configured address until ctx
// is done and returns the bound address.
func (a *app) serveMetrics(ctx context.Context, g *errgroup.Group) (net.Addr, error) {
	ln, err := net.Listen("tcp", a.cfg.Metrics.Addr)
	if err != nil {
		return nil, fmt.Errorf("metrics listener: %w", err)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{}))
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	dimColor.Fprintf(a.out, "metrics on http://%s/metrics\n", ln.Addr())

	g.Go(func() error {
		if err := srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(sctx)
	})
	return ln.Addr(), nil
}

// snapshot writes the base layer to a PNG file.
func (a *app) snapshot(path string) error {
	img, ok := a.presenter.Snapshot(nil)
	if !ok {
		warnColor.Fprintf(a.out, "no CPU framebuffer to snapshot on %s\n", a.backend)
		return nil
	}
	dc := gg.NewContextForImage(img)
	defer dc.Close()
	if err := dc.SavePNG(path); err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	if a.presenter.Session().Ended() {
		dimColor.Fprintf(a.out, "snapshot written to %s (last frame before the session ended)\n", path)
		return nil
	}
	dimColor.Fprintf(a.out, "snapshot written to %s\n", path)
	return nil
}

func (a *app) summary() {
	loop := a.rt.Loop
	elapsed := time.Since(a.started)
	p := message.NewPrinter(language.English)

	frames := loop.Frames()
	fps := 0.0
	if s := elapsed.Seconds(); s > 0 {
		fps = float64(frames) / s
	}
	line := p.Sprintf("%d frames in %v (%.1f fps), %d prompt(s), angle %.3f rad",
		frames, elapsed.Round(time.Millisecond), fps, a.attempts, a.renderer.Cube().Angle())

	if err := loop.Err(); err != nil && !errors.Is(err, xr.ErrLoopStopped) {
		warnColor.Fprintf(a.out, "%s, loop %s: %v\n", line, loop.State(), err)
		return
	}
	okColor.Fprintln(a.out, line)
}

func (a *app) close() {
	if err := a.rt.Close(); err != nil {
		xr.Logger().Warn("xrdemo: close", "err", err)
	}
	if err := a.renderer.Close(); err != nil {
		xr.Logger().Warn("xrdemo: renderer close", "err", err)
	}
}
