// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build js && wasm

package webxr

import (
	"context"
	"syscall/js"
)

// await blocks until p settles or ctx is done. When ctx ends first the
// handlers stay registered, and a value p resolves with later is passed
// to orphan if it is not nil.
func await(ctx context.Context, p js.Value, orphan func(js.Value)) (js.Value, error) {
	h := newHandoff(orphan)
	resolve := js.FuncOf(func(_ js.Value, args []js.Value) any {
		h.settle(arg0(args), nil)
		return nil
	})
	reject := js.FuncOf(func(_ js.Value, args []js.Value) any {
		h.settle(js.Undefined(), jsError(arg0(args)))
		return nil
	})

	p.Call("then", resolve, reject)
	v, err := h.wait(ctx)
	if h.abandoned() {
		return js.Undefined(), err
	}
	resolve.Release()
	reject.Release()
	return v, err
}

func arg0(args []js.Value) js.Value {
	if len(args) == 0 {
		return js.Undefined()
	}
	return args[0]
}
