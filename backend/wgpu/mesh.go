package wgpu

import (
	_ "embed"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/xr"
)

//go:embed shaders/mesh.wgsl
var meshShaderSource string

const (
	meshShaderLabel = "xr_mesh_shader"

	// vertexStride is the byte size of one Vertex: vec4 position + vec4 color.
	vertexStride = 32
)

// Vertex is a clip-space position with a premultiplied color.
type Vertex struct {
	Position [4]float32
	Color    [4]float32
}

// ViewportDraw is a triangle list rendered into one viewport.
type ViewportDraw struct {
	Viewport xr.Viewport
	// Vertices holds whole triangles; a trailing partial triangle is dropped.
	Vertices []Vertex
}

// meshPipeline draws ViewportDraw triangle lists with no bindings.
type meshPipeline struct {
	format   gputypes.TextureFormat
	layout   hal.PipelineLayout
	pipeline hal.RenderPipeline
}

// ensureMeshPipeline creates the mesh pipeline for the context format.
// Caller holds c.mu.
func (c *Context) ensureMeshPipeline() (*meshPipeline, error) {
	if c.mesh != nil {
		return c.mesh, nil
	}
	shader, err := c.shaderModuleLocked(meshShaderLabel, meshShaderSource)
	if err != nil {
		return nil, err
	}

	layout, err := c.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label: "xr_mesh_layout",
	})
	if err != nil {
		return nil, fmt.Errorf("create mesh pipeline layout: %w", err)
	}

	blend := gputypes.BlendStatePremultiplied()
	pipeline, err := c.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  "xr_mesh_pipeline",
		Layout: layout,
		Vertex: hal.VertexState{
			Module:     shader,
			EntryPoint: "vs_main",
			Buffers:    meshVertexLayout(),
		},
		Fragment: &hal.FragmentState{
			Module:     shader,
			EntryPoint: "fs_main",
			Targets: []gputypes.ColorTargetState{
				{
					Format:    c.format,
					Blend:     &blend,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		c.device.DestroyPipelineLayout(layout)
		return nil, fmt.Errorf("create mesh pipeline: %w", err)
	}
	c.mesh = &meshPipeline{format: c.format, layout: layout, pipeline: pipeline}
	return c.mesh, nil
}

func (p *meshPipeline) destroy(device hal.Device) {
	if p.pipeline != nil {
		device.DestroyRenderPipeline(p.pipeline)
	}
	if p.layout != nil {
		device.DestroyPipelineLayout(p.layout)
	}
}

func meshVertexLayout() []gputypes.VertexBufferLayout {
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: vertexStride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x4, Offset: 0, ShaderLocation: 0},  // position
				{Format: gputypes.VertexFormatFloat32x4, Offset: 16, ShaderLocation: 1}, // color
			},
		},
	}
}

// encodeVertices packs whole triangles from every draw into one buffer.
// It returns the packed bytes and each draw's first vertex and count.
func encodeVertices(draws []ViewportDraw) (data []byte, first, count []uint32) {
	total := 0
	for _, d := range draws {
		total += len(d.Vertices) / 3 * 3
	}
	data = make([]byte, total*vertexStride)
	first = make([]uint32, len(draws))
	count = make([]uint32, len(draws))

	off := 0
	for i, d := range draws {
		n := len(d.Vertices) / 3 * 3
		//nolint:gosec // G115: vertex counts are bounded by the buffer size
		first[i], count[i] = uint32(off/vertexStride), uint32(n)
		for _, v := range d.Vertices[:n] {
			for j, f := range v.Position {
				binary.LittleEndian.PutUint32(data[off+j*4:], math.Float32bits(f))
			}
			for j, f := range v.Color {
				binary.LittleEndian.PutUint32(data[off+16+j*4:], math.Float32bits(f))
			}
			off += vertexStride
		}
	}
	return data, first, count
}
