// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package scene is the demo content rendered each frame: a cube wearing
// an 8x8 UV debug texture, spinning slowly in front of a stereo camera.
//
// Renderer implements xr.FrameHandler. On the software backend each
// viewport is rasterized with gg and scaled into the layer framebuffer;
// on the WebGPU backend the same texel quads are submitted as a triangle
// list per viewport in a single render pass.
//
//	r := scene.NewRenderer(scene.WithEyeSeparation(0.064))
//	rt, err := xr.Setup(ctx, system, gs, xr.WithFrameHandler(r))
package scene
