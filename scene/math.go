// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package scene

import "github.com/go-gl/mathgl/mgl64"

// project transforms the point v (w=1) to homogeneous coordinates.
func project(m mgl64.Mat4, v mgl64.Vec3) mgl64.Vec4 {
	return m.Mul4x1(v.Vec4(1))
}

// transformPoint applies the affine matrix m to the point v.
func transformPoint(m mgl64.Mat4, v mgl64.Vec3) mgl64.Vec3 {
	return m.Mul4x1(v.Vec4(1)).Vec3()
}

// transformDir applies m to the direction v, ignoring translation.
func transformDir(m mgl64.Mat4, v mgl64.Vec3) mgl64.Vec3 {
	return m.Mul4x1(v.Vec4(0)).Vec3()
}
