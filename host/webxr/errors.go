// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build js && wasm

package webxr

import (
	"errors"
	"fmt"
	"syscall/js"
)

var (
	// ErrNoWebXR is returned when navigator.xr is missing.
	ErrNoWebXR = errors.New("webxr: navigator.xr is not available")

	// ErrNoWebGL2 is returned when a canvas cannot provide a WebGL2 context.
	ErrNoWebGL2 = errors.New("webxr: WebGL2 is not available")

	// ErrForeignContext is returned when a layer is requested for a
	// context this package did not create.
	ErrForeignContext = errors.New("webxr: context is not a WebGL2 context from this package")

	// ErrForeignLayer is returned when the render state is given a layer
	// from another host.
	ErrForeignLayer = errors.New("webxr: layer does not belong to this session")

	// ErrForeignTarget is returned when binding a target that is not an
	// XRWebGLLayer framebuffer.
	ErrForeignTarget = errors.New("webxr: target is not a layer framebuffer")

	// ErrIncompatible is returned by CreateLayer before makeXRCompatible
	// resolved.
	ErrIncompatible = errors.New("webxr: context is not XR-compatible")

	// ErrEndedByHost is the end reason when the browser or user ends the
	// session.
	ErrEndedByHost = errors.New("webxr: session ended by the user agent")
)

// JSError is a rejected promise or thrown exception.
type JSError struct {
	Name    string
	Message string
}

func (e *JSError) Error() string {
	return fmt.Sprintf("webxr: %s: %s", e.Name, e.Message)
}

func jsError(v js.Value) error {
	if v.Type() != js.TypeObject {
		return &JSError{Name: "Error", Message: v.String()}
	}
	return &JSError{Name: v.Get("name").String(), Message: v.Get("message").String()}
}

// catch converts a panic raised by a throwing JS call into an error.
func catch(err *error) {
	r := recover()
	if r == nil {
		return
	}
	if jerr, ok := r.(js.Error); ok {
		*err = jsError(jerr.Value)
		return
	}
	panic(r)
}
