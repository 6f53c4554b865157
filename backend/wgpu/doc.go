// Package wgpu provides a WebGPU graphics system for XR sessions over the
// gogpu/wgpu hardware abstraction layer.
//
// A Context owns one HAL device and queue. Compositor framebuffers are HAL
// textures wrapped as TextureTarget. DrawViewports records one render pass
// that clears the bound target, then sets each eye's viewport and scissor
// and draws its vertex-colored triangles; ClearViewports is the same pass
// with nothing to draw.
//
// Context implements gpucontext.DeviceProvider and exposes HalDevice and
// HalQueue, so gogpu renderers can draw into the same device:
//
//	gs := wgpu.New(wgpu.WithBackend(software.API{})) // noop HAL by default
//	rt, err := xr.Setup(ctx, system, gs, xr.WithContextConfig(xr.ContextConfig{
//	    API: xr.APIWebGPU, XRCompatible: true,
//	}))
//
// The package registers itself with the backend registry on import.
package wgpu
