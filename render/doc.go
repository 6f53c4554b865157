// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package render defines the draw targets a compositor hands to the frame loop.
//
// A [Target] is the swapchain-equivalent image a base layer exposes for one
// frame. Graphics backends bind it, then clear and draw into it once per eye
// viewport.
//
// # Target Implementations
//
//   - PixmapTarget: CPU-backed *image.RGBA (backend/software)
//   - TextureTarget: GPU texture view (backend/wgpu)
//
// # Thread Safety
//
// Targets are NOT thread-safe. A target is only touched from inside the frame
// callback that received it.
package render
