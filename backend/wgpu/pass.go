package wgpu

import (
	"fmt"
	"image"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/xr"
)

// ClearViewports records and submits a render pass that clears the bound
// target to col and sets viewport and scissor for each eye in turn.
func (c *Context) ClearViewports(viewports []xr.Viewport, col gputypes.Color) error {
	draws := make([]ViewportDraw, len(viewports))
	for i, vp := range viewports {
		draws[i].Viewport = vp
	}
	return c.DrawViewports(col, draws)
}

// DrawViewports clears the bound target to col, then draws each triangle
// list clipped to its viewport, in one pass. It waits for the GPU before
// returning so the compositor sees a finished frame.
func (c *Context) DrawViewports(col gputypes.Color, draws []ViewportDraw) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.destroyed {
		return ErrDestroyed
	}
	if c.bound == nil {
		return ErrNoTarget
	}

	data, first, count := encodeVertices(draws)
	var (
		mesh   *meshPipeline
		vertex hal.Buffer
	)
	if len(data) > 0 {
		var err error
		if mesh, err = c.ensureMeshPipeline(); err != nil {
			return err
		}
		vertex, err = c.device.CreateBuffer(&hal.BufferDescriptor{
			Label: "xr_mesh_vertices",
			Size:  uint64(len(data)),
			Usage: gputypes.BufferUsageVertex | gputypes.BufferUsageCopyDst,
		})
		if err != nil {
			return fmt.Errorf("create vertex buffer: %w", err)
		}
		defer c.device.DestroyBuffer(vertex)
		if err := c.queue.WriteBuffer(vertex, 0, data); err != nil {
			return fmt.Errorf("upload vertices: %w", err)
		}
	}

	encoder, err := c.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "xr_frame_encoder",
	})
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("xr_frame"); err != nil {
		return fmt.Errorf("begin encoding: %w", err)
	}

	rp := encoder.BeginRenderPass(clearPassDescriptor(c.bound, col))
	if mesh != nil {
		rp.SetPipeline(mesh.pipeline)
		rp.SetVertexBuffer(0, vertex, 0)
	}
	for i, d := range draws {
		r := d.Viewport.Rect().Intersect(boundsOf(c.bound))
		if r.Empty() {
			continue
		}
		rp.SetViewport(float32(r.Min.X), float32(r.Min.Y), float32(r.Dx()), float32(r.Dy()), 0, 1)
		//nolint:gosec // G115: rectangle is clipped to the target
		rp.SetScissorRect(uint32(r.Min.X), uint32(r.Min.Y), uint32(r.Dx()), uint32(r.Dy()))
		if mesh != nil && count[i] > 0 {
			rp.Draw(count[i], 1, first[i], 0)
		}
	}
	rp.End()

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("end encoding: %w", err)
	}
	defer c.device.FreeCommandBuffer(cmdBuf)

	idx, err := c.queue.Submit([]hal.CommandBuffer{cmdBuf})
	if err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	return c.waitSubmission(idx)
}

// waitSubmission blocks until the queue reports idx complete.
// Caller holds c.mu.
func (c *Context) waitSubmission(idx uint64) error {
	if c.queue.PollCompleted() >= idx {
		return nil
	}
	if err := c.device.WaitIdle(); err != nil {
		return fmt.Errorf("wait for GPU: %w", err)
	}
	if done := c.queue.PollCompleted(); done < idx {
		return fmt.Errorf("%w: submission %d, completed %d", ErrFrameIncomplete, idx, done)
	}
	return nil
}

// clearPassDescriptor describes a pass that clears t and stores the result
// for the compositor.
func clearPassDescriptor(t *TextureTarget, col gputypes.Color) *hal.RenderPassDescriptor {
	return &hal.RenderPassDescriptor{
		Label: "xr_frame_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:       t.view,
			LoadOp:     gputypes.LoadOpClear,
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: col,
		}},
	}
}

func boundsOf(t *TextureTarget) image.Rectangle {
	return image.Rect(0, 0, t.width, t.height)
}
