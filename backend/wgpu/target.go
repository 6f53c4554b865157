package wgpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/xr/render"
)

// TextureTarget is a compositor framebuffer backed by a HAL texture.
type TextureTarget struct {
	width, height int
	format        gputypes.TextureFormat
	texture       hal.Texture
	view          hal.TextureView
}

func newTextureTarget(device hal.Device, width, height int, format gputypes.TextureFormat) (*TextureTarget, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("wgpu: invalid target size %dx%d", width, height)
	}
	//nolint:gosec // G115: sizes are positive
	tex, err := device.CreateTexture(&hal.TextureDescriptor{
		Label: "xr_framebuffer",
		Size: hal.Extent3D{
			Width:              uint32(width),
			Height:             uint32(height),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        format,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc,
	})
	if err != nil {
		return nil, fmt.Errorf("create framebuffer texture: %w", err)
	}
	view, err := device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label: "xr_framebuffer_view",
	})
	if err != nil {
		device.DestroyTexture(tex)
		return nil, fmt.Errorf("create framebuffer view: %w", err)
	}
	return &TextureTarget{
		width:   width,
		height:  height,
		format:  format,
		texture: tex,
		view:    view,
	}, nil
}

// Width returns the target width in pixels.
func (t *TextureTarget) Width() int { return t.width }

// Height returns the target height in pixels.
func (t *TextureTarget) Height() int { return t.height }

// Format returns the texture format.
func (t *TextureTarget) Format() gputypes.TextureFormat { return t.format }

// Texture returns the HAL texture.
func (t *TextureTarget) Texture() hal.Texture { return t.texture }

// View returns the HAL texture view used as color attachment.
func (t *TextureTarget) View() hal.TextureView { return t.view }

func (t *TextureTarget) destroy(device hal.Device) {
	if t.view != nil {
		device.DestroyTextureView(t.view)
		t.view = nil
	}
	if t.texture != nil {
		device.DestroyTexture(t.texture)
		t.texture = nil
	}
}

var _ render.Target = (*TextureTarget)(nil)
