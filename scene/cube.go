// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package scene

import (
	"image"
	"image/color"
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

// Cube defaults.
const (
	DefaultCubeSize = 4.0
	DefaultTilt     = -math.Pi / 5
	DefaultSpin     = 0.5 // radians per second about Y
)

// DefaultCubePosition is where the cube sits in front of the cameras.
var DefaultCubePosition = mgl64.Vec3{0, 0, 1.5}

// Cube is a textured box spinning about the world Y axis.
type Cube struct {
	Size     float64
	Position mgl64.Vec3
	Tilt     float64 // fixed rotation about X, radians
	Spin     float64 // radians per second about Y

	angle float64
}

// NewCube returns a cube with the default size, pose and spin.
func NewCube() *Cube {
	return &Cube{
		Size:     DefaultCubeSize,
		Position: DefaultCubePosition,
		Tilt:     DefaultTilt,
		Spin:     DefaultSpin,
	}
}

// Advance rotates the cube by Spin*dt.
func (c *Cube) Advance(dt time.Duration) {
	c.angle = math.Mod(c.angle+c.Spin*dt.Seconds(), 2*math.Pi)
}

// Angle returns the current rotation about Y in [0, 2π).
func (c *Cube) Angle() float64 {
	if c.angle < 0 {
		return c.angle + 2*math.Pi
	}
	return c.angle
}

// Model returns the cube's model matrix. The spin is applied after the
// tilt, in world space.
func (c *Cube) Model() mgl64.Mat4 {
	p := c.Position
	return mgl64.Translate3D(p.X(), p.Y(), p.Z()).
		Mul4(mgl64.HomogRotate3DY(c.angle)).
		Mul4(mgl64.HomogRotate3DX(c.Tilt))
}

// Camera is a perspective camera.
type Camera struct {
	Eye    mgl64.Vec3
	Target mgl64.Vec3
	Up     mgl64.Vec3
	FovY   float64 // radians
	Near   float64
	Far    float64
}

// DefaultCamera looks at the origin from 15 units down +Z.
func DefaultCamera() Camera {
	return Camera{
		Eye:  mgl64.Vec3{0, 0, 15},
		Up:   mgl64.Vec3{0, 1, 0},
		FovY: math.Pi / 4,
		Near: 0.1,
		Far:  1000,
	}
}

// Shifted returns the camera moved sideways by dx along its right vector,
// keeping the view direction.
func (c Camera) Shifted(dx float64) Camera {
	if dx == 0 {
		return c
	}
	right := c.Target.Sub(c.Eye).Cross(c.Up).Normalize().Mul(dx)
	c.Eye = c.Eye.Add(right)
	c.Target = c.Target.Add(right)
	return c
}

// ViewProjection returns projection*view for the given aspect ratio.
func (c Camera) ViewProjection(aspect float64) mgl64.Mat4 {
	if aspect <= 0 {
		aspect = 1
	}
	return mgl64.Perspective(c.FovY, aspect, c.Near, c.Far).Mul4(mgl64.LookAtV(c.Eye, c.Target, c.Up))
}

// Quad is a filled texel region in clip space.
type Quad struct {
	Points [4]mgl64.Vec4
	Color  color.RGBA
}

// face spans n*h ± u*h ± v*h, with u×v = n.
type face struct {
	n, u, v mgl64.Vec3
}

var cubeFaces = [6]face{
	{n: mgl64.Vec3{0, 0, 1}, u: mgl64.Vec3{1, 0, 0}, v: mgl64.Vec3{0, 1, 0}},
	{n: mgl64.Vec3{0, 0, -1}, u: mgl64.Vec3{-1, 0, 0}, v: mgl64.Vec3{0, 1, 0}},
	{n: mgl64.Vec3{1, 0, 0}, u: mgl64.Vec3{0, 0, -1}, v: mgl64.Vec3{0, 1, 0}},
	{n: mgl64.Vec3{-1, 0, 0}, u: mgl64.Vec3{0, 0, 1}, v: mgl64.Vec3{0, 1, 0}},
	{n: mgl64.Vec3{0, 1, 0}, u: mgl64.Vec3{1, 0, 0}, v: mgl64.Vec3{0, 0, -1}},
	{n: mgl64.Vec3{0, -1, 0}, u: mgl64.Vec3{1, 0, 0}, v: mgl64.Vec3{0, 0, 1}},
}

// Quads returns the texel quads of every face visible from cam, textured
// with tex. Within a face each quad extends to the face's far corner and
// quads are ordered so that later ones overdraw earlier ones: the visible
// remainder of each quad is exactly its texel, and interior edges never
// blend with the background. Faces behind the near plane are dropped.
func (c *Cube) Quads(tex *image.RGBA, cam Camera, aspect float64) []Quad {
	model := c.Model()
	vp := cam.ViewProjection(aspect)
	mvp := vp.Mul4(model)
	h := c.Size / 2

	b := tex.Bounds()
	tw, th := b.Dx(), b.Dy()
	if tw == 0 || th == 0 {
		return nil
	}

	var quads []Quad
	for _, f := range cubeFaces {
		center := transformPoint(model, f.n.Mul(h))
		if transformDir(model, f.n).Dot(cam.Eye.Sub(center)) <= 0 {
			continue
		}

		corner := func(s, t float64) mgl64.Vec4 {
			p := f.n.Mul(h).Add(f.u.Mul(h * (2*s - 1))).Add(f.v.Mul(h * (2*t - 1)))
			return project(mvp, p)
		}

		faceQuads := make([]Quad, 0, tw*th)
		clipped := false
		for j := 0; j < th; j++ {
			t1 := 1 - float64(j)/float64(th)
			for i := 0; i < tw; i++ {
				s0 := float64(i) / float64(tw)
				q := Quad{
					Points: [4]mgl64.Vec4{corner(s0, t1), corner(1, t1), corner(1, 0), corner(s0, 0)},
					Color:  tex.RGBAAt(b.Min.X+i, b.Min.Y+j),
				}
				for _, p := range q.Points {
					if p.W() <= cam.Near {
						clipped = true
					}
				}
				faceQuads = append(faceQuads, q)
			}
		}
		if !clipped {
			quads = append(quads, faceQuads...)
		}
	}
	return quads
}

// ToViewport maps a clip-space point to pixel coordinates in a w×h
// viewport with the origin at the top left.
func ToViewport(p mgl64.Vec4, w, h float64) (x, y float64) {
	nx, ny := p.X()/p.W(), p.Y()/p.W()
	return (nx + 1) / 2 * w, (1 - ny) / 2 * h
}
