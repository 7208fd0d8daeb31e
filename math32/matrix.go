// Copyright 2019 Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package math32

import "github.com/go-gl/mathgl/mgl32"

// QuatGuardThreshold is the component magnitude above which
// [GuardQuat] rescales a quaternion.
var QuatGuardThreshold = Sqrt(MaxFloat32) / 2

// QuatGuardFactor is the uniform factor applied by [GuardQuat].
var QuatGuardFactor = 0.5 / Sqrt(MaxFloat32)

// GuardQuat keeps the components of q in a range where products of two
// components cannot overflow. When the magnitude of any component exceeds
// [QuatGuardThreshold], all four components are multiplied by
// [QuatGuardFactor], and true is returned. The result is not renormalized:
// consumers that need a unit quaternion use [UnitQuat].
func GuardQuat(q mgl32.Quat) (mgl32.Quat, bool) {
	if Abs(q.W) <= QuatGuardThreshold && Abs(q.V[0]) <= QuatGuardThreshold &&
		Abs(q.V[1]) <= QuatGuardThreshold && Abs(q.V[2]) <= QuatGuardThreshold {
		return q, false
	}
	return q.Scale(QuatGuardFactor), true
}

// UnitQuat returns q normalized to unit length. It first divides by the
// largest component magnitude so that the length computation cannot
// overflow. A zero quaternion yields the identity.
func UnitQuat(q mgl32.Quat) mgl32.Quat {
	mx := Max(Max(Abs(q.W), Abs(q.V[0])), Max(Abs(q.V[1]), Abs(q.V[2])))
	if mx == 0 || !IsFinite(mx) {
		return mgl32.QuatIdent()
	}
	return q.Scale(1 / mx).Normalize()
}

// Compose returns the transform matrix T(pos) · R(quat) · S(scale).
// The rotation is taken from the unit version of quat.
func Compose(pos mgl32.Vec3, quat mgl32.Quat, scale mgl32.Vec3) mgl32.Mat4 {
	m := UnitQuat(quat).Mat4()
	for c := range 3 {
		for r := range 3 {
			m[c*4+r] *= scale[c]
		}
	}
	m[12] = pos[0]
	m[13] = pos[1]
	m[14] = pos[2]
	return m
}

// Decompose decomposes the given affine transform matrix into position,
// rotation, and signed scale, such that [Compose] of the results reproduces
// the linear and translational action of m.
//
// The scale magnitudes are the lengths of the first three columns. When the
// upper 3x3 determinant is negative, exactly one axis is reflected: the axis
// whose normalized column deviates most from its own unit axis gets the
// negative sign, which keeps the recovered rotation closest to identity.
// A zero-length column contributes a zero scale and its unit axis
// to the rotation.
func Decompose(m mgl32.Mat4) (pos mgl32.Vec3, quat mgl32.Quat, scale mgl32.Vec3) {
	pos = mgl32.Vec3{m[12], m[13], m[14]}

	var cols [3]mgl32.Vec3
	for c := range 3 {
		cols[c] = mgl32.Vec3{m[c*4], m[c*4+1], m[c*4+2]}
		scale[c] = cols[c].Len()
	}

	det := m.Mat3().Det()
	if det < 0 {
		flip := 0
		best := Infinity
		for c := range 3 {
			if scale[c] == 0 {
				continue
			}
			cos := cols[c][c] / scale[c]
			if cos < best {
				best = cos
				flip = c
			}
		}
		scale[flip] = -scale[flip]
	}

	rot := mgl32.Ident4()
	for c := range 3 {
		axis := mgl32.Vec3{}
		if scale[c] == 0 {
			axis[c] = 1
		} else {
			axis = cols[c].Mul(1 / scale[c])
		}
		rot[c*4] = axis[0]
		rot[c*4+1] = axis[1]
		rot[c*4+2] = axis[2]
	}
	quat = mgl32.Mat4ToQuat(rot).Normalize()
	return
}

// PerspectiveFov returns a symmetric perspective projection matrix
// (OpenGL clip space) from the given horizontal and vertical fields of
// view in degrees, and near and far clipping distances.
func PerspectiveFov(fovX, fovY, near, far float32) mgl32.Mat4 {
	sx := 1 / Tan(DegToRad(fovX)/2)
	sy := 1 / Tan(DegToRad(fovY)/2)
	nmf := near - far
	return mgl32.Mat4{
		sx, 0, 0, 0,
		0, sy, 0, 0,
		0, 0, (near + far) / nmf, -1,
		0, 0, (2 * far * near) / nmf, 0,
	}
}

// Translation returns the translation component of the given matrix.
func Translation(m mgl32.Mat4) mgl32.Vec3 {
	return mgl32.Vec3{m[12], m[13], m[14]}
}
