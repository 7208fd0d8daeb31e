// Copyright 2019 Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package math32

import "github.com/go-gl/mathgl/mgl32"

// Plane represents a plane in 3D space in the form
// Normal · p + Constant = 0. Points with a positive distance
// are on the side the normal points to.
type Plane struct {
	Normal   mgl32.Vec3
	Constant float32
}

// NewPlane returns a plane from the a, b, c, d coefficients of
// the equation ax + by + cz + d = 0.
func NewPlane(a, b, c, d float32) Plane {
	return Plane{Normal: mgl32.Vec3{a, b, c}, Constant: d}
}

// Normalized returns the plane scaled so that its normal has unit length.
// A plane with a zero normal is returned unchanged.
func (p Plane) Normalized() Plane {
	ln := p.Normal.Len()
	if ln == 0 {
		return p
	}
	inv := 1 / ln
	return Plane{Normal: p.Normal.Mul(inv), Constant: p.Constant * inv}
}

// DistanceToPoint returns the signed distance from this plane to the point.
func (p Plane) DistanceToPoint(point mgl32.Vec3) float32 {
	return p.Normal.Dot(point) + p.Constant
}

// IsFinite returns true if all of the plane coefficients are finite.
func (p Plane) IsFinite() bool {
	return IsFinite(p.Normal[0]) && IsFinite(p.Normal[1]) && IsFinite(p.Normal[2]) && IsFinite(p.Constant)
}

// Frustum planes, in the order they are stored in a [Frustum].
const (
	FrustumLeft = iota
	FrustumRight
	FrustumBottom
	FrustumTop
	FrustumNear
	FrustumFar
	FrustumPlanes
)

// Frustum represents a view frustum as 6 planes whose normals point inward.
type Frustum struct {
	Planes [FrustumPlanes]Plane

	// Degenerate is set when the source matrix does not enclose any volume
	// (singular or non-finite), in which case the frustum contains nothing.
	Degenerate bool
}

// NewFrustumFromMatrix returns a frustum extracted from the given
// view-projection matrix (column vector convention, OpenGL clip space).
func NewFrustumFromMatrix(m *mgl32.Mat4) *Frustum {
	f := &Frustum{}
	f.SetFromMatrix(m)
	return f
}

// SetFromMatrix extracts the planes from the given view-projection matrix
// using the Gribb / Hartmann method: each plane is the sum or difference of
// the fourth row and one of the other rows.
func (f *Frustum) SetFromMatrix(m *mgl32.Mat4) {
	r0 := m.Row(0)
	r1 := m.Row(1)
	r2 := m.Row(2)
	r3 := m.Row(3)

	planes := [FrustumPlanes]mgl32.Vec4{
		r3.Add(r0),
		r3.Sub(r0),
		r3.Add(r1),
		r3.Sub(r1),
		r3.Add(r2),
		r3.Sub(r2),
	}
	f.Degenerate = false
	det := m.Det()
	if det == 0 || !IsFinite(det) {
		f.Degenerate = true
	}
	for i, pv := range planes {
		p := NewPlane(pv[0], pv[1], pv[2], pv[3])
		if !p.IsFinite() || p.Normal.Len() == 0 {
			f.Degenerate = true
		}
		f.Planes[i] = p.Normalized()
	}
}

// IntersectsBox returns false if the box is strictly outside of any of
// the frustum planes, and true otherwise. The test is conservative:
// a box straddling a plane is retained. An empty box or a degenerate
// frustum never intersect.
func (f *Frustum) IntersectsBox(box Box3) bool {
	if f.Degenerate || box.IsEmpty() {
		return false
	}
	for _, p := range f.Planes {
		// the corner furthest along the plane normal
		var pv mgl32.Vec3
		for i := range 3 {
			if p.Normal[i] >= 0 {
				pv[i] = box.Max[i]
			} else {
				pv[i] = box.Min[i]
			}
		}
		if p.DistanceToPoint(pv) < 0 {
			return false
		}
	}
	return true
}

// ContainsPoint returns true if the point is inside or on every plane.
func (f *Frustum) ContainsPoint(point mgl32.Vec3) bool {
	if f.Degenerate {
		return false
	}
	for _, p := range f.Planes {
		if p.DistanceToPoint(point) < 0 {
			return false
		}
	}
	return true
}
