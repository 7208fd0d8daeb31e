// Copyright 2021 Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package math32

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func testFrustum() *Frustum {
	prjn := PerspectiveFov(90, 90, 1, 10)
	view := mgl32.Ident4()
	vp := prjn.Mul4(view)
	return NewFrustumFromMatrix(&vp)
}

func TestFrustumPlanes(t *testing.T) {
	f := testFrustum()
	assert.False(t, f.Degenerate)
	for _, p := range f.Planes {
		assert.InDelta(t, 1, p.Normal.Len(), StandardTol)
	}
	assert.InDelta(t, 1, f.Planes[FrustumNear].DistanceToPoint(mgl32.Vec3{0, 0, -2}), StandardTol)
	assert.InDelta(t, 2, f.Planes[FrustumFar].DistanceToPoint(mgl32.Vec3{0, 0, -8}), StandardTol)
	assert.True(t, f.ContainsPoint(mgl32.Vec3{0, 0, -5}))
	assert.False(t, f.ContainsPoint(mgl32.Vec3{0, 0, 5}))
}

func TestFrustumIntersectsBox(t *testing.T) {
	f := testFrustum()

	assert.True(t, f.IntersectsBox(B3(-1, -1, -6, 1, 1, -4)))
	// entirely beyond the far plane
	assert.False(t, f.IntersectsBox(B3(-1, -1, -20, 1, 1, -15)))
	// entirely behind the camera
	assert.False(t, f.IntersectsBox(B3(-1, -1, 1, 1, 1, 3)))
	// entirely outside the right plane
	assert.False(t, f.IntersectsBox(B3(100, -1, -6, 101, 1, -4)))
	// straddling the far plane is retained
	assert.True(t, f.IntersectsBox(B3(-1, -1, -15, 1, 1, -5)))
	// straddling the left plane is retained
	assert.True(t, f.IntersectsBox(B3(-10, -1, -6, -4, 1, -4)))
	assert.False(t, f.IntersectsBox(B3Empty()))
}

func TestFrustumDegenerate(t *testing.T) {
	zero := mgl32.Mat4{}
	f := NewFrustumFromMatrix(&zero)
	assert.True(t, f.Degenerate)
	assert.False(t, f.IntersectsBox(B3(-1, -1, -1, 1, 1, 1)))
	assert.False(t, f.ContainsPoint(mgl32.Vec3{}))

	inf := mgl32.Ident4()
	inf[0] = Infinity
	f.SetFromMatrix(&inf)
	assert.True(t, f.Degenerate)
}
