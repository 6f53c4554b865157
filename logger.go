// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package xr

import (
	"log/slog"
	"sync/atomic"
)

var (
	discard   = slog.New(slog.DiscardHandler)
	loggerPtr atomic.Pointer[slog.Logger]
)

// SetLogger sets the logger shared by xr, its hosts and its backends.
// xr is silent until SetLogger is called; nil silences it again.
//
// It may be called while a host goroutine is inside a frame callback.
//
// Levels:
//   - [slog.LevelDebug]: per-frame detail (bound target, armed request IDs)
//   - [slog.LevelInfo]: session granted or ended, loop ended
//   - [slog.LevelWarn]: stale callbacks, failed frames, cleanup errors
//
// Example:
//
//	xr.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = discard
	}
	loggerPtr.Store(l)
}

// Logger returns the logger set by SetLogger.
func Logger() *slog.Logger {
	if l := loggerPtr.Load(); l != nil {
		return l
	}
	return discard
}

// log tags records with the session they belong to.
func (s *Session) log() *slog.Logger {
	return Logger().With("session", s.id, "mode", s.mode.String())
}
