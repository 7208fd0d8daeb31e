// Copyright 2021 Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package math32

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

const StandardTol = 1.0e-4

func TolAssertEqualMatrix(t *testing.T, tol float64, mt, ma mgl32.Mat4) {
	t.Helper()
	for i := range mt {
		assert.InDelta(t, mt[i], ma[i], tol, "matrix element %d", i)
	}
}

func TolAssertEqualVector(t *testing.T, tol float64, vt, va mgl32.Vec3) {
	t.Helper()
	for i := range vt {
		assert.InDelta(t, vt[i], va[i], tol, "vector element %d", i)
	}
}

func TestCompose(t *testing.T) {
	m := Compose(mgl32.Vec3{1, 2, 3}, mgl32.QuatIdent(), mgl32.Vec3{1, 1, 1})
	TolAssertEqualMatrix(t, StandardTol, mgl32.Translate3D(1, 2, 3), m)

	q := mgl32.QuatRotate(DegToRad(90), mgl32.Vec3{0, 0, 1})
	m = Compose(mgl32.Vec3{}, q, mgl32.Vec3{2, 2, 2})
	p := mgl32.TransformCoordinate(mgl32.Vec3{1, 0, 0}, m)
	TolAssertEqualVector(t, StandardTol, mgl32.Vec3{0, 2, 0}, p)

	// scaled quaternions compose to the same rotation
	m2 := Compose(mgl32.Vec3{}, q.Scale(1e-3), mgl32.Vec3{2, 2, 2})
	TolAssertEqualMatrix(t, StandardTol, m, m2)
}

func TestDecomposeRoundTrip(t *testing.T) {
	rots := []mgl32.Quat{
		mgl32.QuatIdent(),
		mgl32.QuatRotate(DegToRad(30), mgl32.Vec3{0, 1, 0}),
		mgl32.QuatRotate(DegToRad(-120), mgl32.Vec3{1, 1, 0}.Normalize()),
		mgl32.AnglesToQuat(DegToRad(10), DegToRad(170), DegToRad(45), mgl32.XYZ),
	}
	scales := []mgl32.Vec3{
		{1, 1, 1},
		{2, 3, 0.5},
		{-2, 3, 0.5},
		{2, -3, 0.5},
		{2, 3, -0.5},
	}
	pos := mgl32.Vec3{-4, 0.25, 9}
	for _, q := range rots {
		for _, s := range scales {
			m := Compose(pos, q, s)
			dp, dq, ds := Decompose(m)
			TolAssertEqualVector(t, StandardTol, pos, dp)
			TolAssertEqualMatrix(t, StandardTol, m, Compose(dp, dq, ds))
			assert.InDelta(t, 1, dq.Len(), StandardTol)
			if s[0]*s[1]*s[2] < 0 {
				assert.Less(t, ds[0]*ds[1]*ds[2], float32(0))
			}
		}
	}
}

func TestDecomposeZeroScale(t *testing.T) {
	m := Compose(mgl32.Vec3{1, 1, 1}, mgl32.QuatIdent(), mgl32.Vec3{0, 2, 2})
	_, q, s := Decompose(m)
	assert.Equal(t, float32(0), s[0])
	TolAssertEqualMatrix(t, StandardTol, m, Compose(mgl32.Vec3{1, 1, 1}, q, s))
}

func TestGuardQuat(t *testing.T) {
	q := mgl32.Quat{W: 0.5, V: mgl32.Vec3{0.5, 0.5, 0.5}}
	g, scaled := GuardQuat(q)
	assert.False(t, scaled)
	assert.Equal(t, q, g)

	big := mgl32.Quat{W: 2e19, V: mgl32.Vec3{1, -3e19, 0}}
	g, scaled = GuardQuat(big)
	assert.True(t, scaled)
	assert.InDelta(t, 2e19*QuatGuardFactor, g.W, 1e-3)
	assert.InDelta(t, -3e19*QuatGuardFactor, g.V[1], 1e-3)
	assert.Less(t, Abs(g.V[1]), QuatGuardThreshold)

	// the represented rotation is unchanged
	assert.True(t, UnitQuat(big).ApproxEqualThreshold(UnitQuat(g), 1e-5))
}

func TestUnitQuat(t *testing.T) {
	assert.Equal(t, mgl32.QuatIdent(), UnitQuat(mgl32.Quat{}))
	u := UnitQuat(mgl32.Quat{W: 3e38, V: mgl32.Vec3{3e38, 0, 0}})
	assert.InDelta(t, 1, u.Len(), StandardTol)
}

func TestPerspectiveFov(t *testing.T) {
	m := PerspectiveFov(90, 90, 1, 10)
	assert.InDelta(t, 1, m[0], StandardTol)
	assert.InDelta(t, 1, m[5], StandardTol)
	assert.Equal(t, float32(-1), m[11])

	// the near plane maps to -1 and the far plane to +1 in NDC
	near := mgl32.TransformCoordinate(mgl32.Vec3{0, 0, -1}, m)
	far := mgl32.TransformCoordinate(mgl32.Vec3{0, 0, -10}, m)
	assert.InDelta(t, -1, near[2], StandardTol)
	assert.InDelta(t, 1, far[2], StandardTol)
}
