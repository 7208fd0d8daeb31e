// Copyright (c) 2019, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xyz

import (
	"errors"
	"math/rand"
	"testing"

	"cogentcore.org/xr/gpu"
	"cogentcore.org/xr/gpu/nullgpu"
	"cogentcore.org/xr/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tol = 1e-4

func assertMatrix(t *testing.T, expected, actual mgl32.Mat4) {
	t.Helper()
	for i := range expected {
		assert.InDelta(t, expected[i], actual[i], tol, "matrix element %d", i)
	}
}

func assertVector(t *testing.T, expected, actual mgl32.Vec3) {
	t.Helper()
	for i := range expected {
		assert.InDelta(t, expected[i], actual[i], tol, "vector element %d", i)
	}
}

// chain returns a scene with root R, child A, and grandchild B.
func chain(t *testing.T) (sc *Scene, r, a, b *Node) {
	sc = NewScene("test")
	r = sc.NewNode("R")
	a = sc.NewNode("A")
	b = sc.NewNode("B")
	require.NoError(t, sc.Root().AddChild(r))
	require.NoError(t, r.AddChild(a))
	require.NoError(t, a.AddChild(b))
	b.SetPosition(mgl32.Vec3{1, 0, 0})
	return
}

func TestWorldMatrixEndToEnd(t *testing.T) {
	_, r, a, b := chain(t)
	assertVector(t, mgl32.Vec3{1, 0, 0}, b.WorldPosition())

	ru, au, bu := r.worldUpdates, a.worldUpdates, b.worldUpdates
	r.SetPosition(mgl32.Vec3{5, 0, 0})
	assertVector(t, mgl32.Vec3{6, 0, 0}, b.WorldPosition())
	assert.Equal(t, ru+1, r.worldUpdates)
	assert.Equal(t, au+1, a.worldUpdates)
	assert.Equal(t, bu+1, b.worldUpdates)

	// cached until the next change
	b.WorldMatrix()
	a.WorldMatrix()
	assert.Equal(t, au+1, a.worldUpdates)
	assert.Equal(t, bu+1, b.worldUpdates)
}

func TestInvalidationShortCircuit(t *testing.T) {
	_, r, a, b := chain(t)
	b.WorldMatrix()
	assert.False(t, a.worldNeedsUpdate)

	r.SetPosition(mgl32.Vec3{1, 0, 0})
	assert.True(t, r.worldNeedsUpdate)
	assert.True(t, a.worldNeedsUpdate)
	assert.True(t, b.worldNeedsUpdate)

	// repeated changes in a frame still recompute each node once
	bu := b.worldUpdates
	r.SetPosition(mgl32.Vec3{2, 0, 0})
	r.SetScale(mgl32.Vec3{2, 2, 2})
	a.SetRotation(mgl32.QuatRotate(math32.DegToRad(90), mgl32.Vec3{0, 0, 1}))
	assertVector(t, mgl32.Vec3{2, 2, 0}, b.WorldPosition())
	assert.Equal(t, bu+1, b.worldUpdates)
}

func TestWorldMatrixRandomEdits(t *testing.T) {
	sc := NewScene("random")
	rnd := rand.New(rand.NewSource(42))
	nodes := []*Node{sc.Root()}
	for range 20 {
		n := sc.NewNode("n")
		require.NoError(t, nodes[rnd.Intn(len(nodes))].AddChild(n))
		nodes = append(nodes, n)
	}
	rv := func() mgl32.Vec3 {
		return mgl32.Vec3{rnd.Float32()*2 - 1, rnd.Float32()*2 - 1, rnd.Float32()*2 - 1}
	}
	for range 200 {
		n := nodes[rnd.Intn(len(nodes))]
		switch rnd.Intn(3) {
		case 0:
			n.SetPosition(rv())
		case 1:
			n.SetScale(rv().Mul(0.2).Add(mgl32.Vec3{1, 1, 1}))
		case 2:
			n.SetRotation(mgl32.QuatRotate(rnd.Float32()*6, rv().Add(mgl32.Vec3{0, 0, 2}).Normalize()))
		}
		// read a random node, so that caches are in mixed states
		nodes[rnd.Intn(len(nodes))].WorldMatrix()
	}
	for _, n := range nodes {
		expected := mgl32.Ident4()
		n.WalkUp(func(an *Node) bool {
			expected = math32.Compose(an.pos, an.quat, an.scale).Mul4(expected)
			return Continue
		})
		assertMatrix(t, expected, n.WorldMatrix())
	}
}

func TestAddChildCycle(t *testing.T) {
	_, r, a, b := chain(t)
	for _, an := range []*Node{b, a, r} {
		err := b.AddChild(an)
		assert.ErrorIs(t, err, ErrStructural)
		var ne *NodeError
		require.True(t, errors.As(err, &ne))
		assert.Equal(t, "AddChild", ne.Op)
	}
	assert.Equal(t, 0, b.NumChildren())
	assert.Equal(t, a, b.Parent())
	assert.Equal(t, r, a.Parent())
	assert.Equal(t, 1, a.NumChildren())
	assert.Equal(t, 1, r.NumChildren())
}

func TestAddChildOtherScene(t *testing.T) {
	sc1 := NewScene("one")
	sc2 := NewScene("two")
	err := sc1.Root().AddChild(sc2.NewNode("x"))
	assert.ErrorIs(t, err, ErrStructural)
	assert.Equal(t, 0, sc1.Root().NumChildren())
}

func TestReparent(t *testing.T) {
	sc, r, a, b := chain(t)
	c := sc.NewNode("C")
	require.NoError(t, r.AddChild(c))
	c.SetPosition(mgl32.Vec3{0, 10, 0})
	assertVector(t, mgl32.Vec3{1, 0, 0}, b.WorldPosition())

	require.NoError(t, c.AddChild(b))
	assert.Equal(t, 0, a.NumChildren())
	assert.Equal(t, c, b.Parent())
	assertVector(t, mgl32.Vec3{1, 10, 0}, b.WorldPosition())
	assert.Equal(t, 0, b.IndexInParent())
	assert.Equal(t, 1, c.IndexInParent())
}

func TestRemoveChild(t *testing.T) {
	sc, r, a, b := chain(t)
	r.SetPosition(mgl32.Vec3{5, 0, 0})
	assertVector(t, mgl32.Vec3{6, 0, 0}, b.WorldPosition())

	// not the parent
	r.RemoveChild(b)
	assert.Equal(t, a, b.Parent())
	sc.Root().RemoveChild(b)
	assert.Equal(t, 1, a.NumChildren())

	a.RemoveChild(b)
	assert.Nil(t, b.Parent())
	assert.Equal(t, 0, a.NumChildren())
	assertVector(t, mgl32.Vec3{1, 0, 0}, b.WorldPosition())
	assert.Equal(t, -1, b.IndexInParent())

	a.RemoveChild(b)
	assert.Equal(t, 0, a.NumChildren())
}

func TestChildIndex(t *testing.T) {
	_, r, a, _ := chain(t)
	c, err := r.Child(0)
	require.NoError(t, err)
	assert.Equal(t, a, c)

	_, err = r.Child(1)
	assert.ErrorIs(t, err, ErrIndex)
	_, err = r.Child(-1)
	assert.ErrorIs(t, err, ErrIndex)
	assert.Equal(t, []*Node{a}, r.Children())
}

func TestSetLocalMatrix(t *testing.T) {
	sc := NewScene("test")
	n := sc.NewNode("n")
	for _, scale := range []mgl32.Vec3{{1, 2, 3}, {-1, 2, 3}, {1, 2, -3}} {
		q := mgl32.QuatRotate(math32.DegToRad(40), mgl32.Vec3{1, 2, 3}.Normalize())
		m := math32.Compose(mgl32.Vec3{3, -2, 1}, q, scale)
		n.SetLocalMatrix(m)
		assertMatrix(t, m, math32.Compose(n.Position(), n.Rotation(), n.Scale()))
		assertMatrix(t, m, n.LocalMatrix())
		assertMatrix(t, m, n.WorldMatrix())
	}
}

func TestSetWorldMatrix(t *testing.T) {
	_, r, a, b := chain(t)
	r.SetPosition(mgl32.Vec3{5, 0, 0})
	a.SetScale(mgl32.Vec3{2, 2, 2})
	w := mgl32.Translate3D(0, 3, 0)
	b.SetWorldMatrix(w)
	assert.Equal(t, a, b.Parent())
	assertMatrix(t, w, b.WorldMatrix())
	assertVector(t, mgl32.Vec3{-2.5, 1.5, 0}, b.Position())
}

func TestRotationGuard(t *testing.T) {
	sc := NewScene("test")
	n := sc.NewNode("n")
	q := mgl32.QuatRotate(math32.DegToRad(90), mgl32.Vec3{0, 1, 0})
	n.SetRotation(q.Scale(1e20))
	assert.Less(t, math32.Abs(n.Rotation().W), math32.QuatGuardThreshold)
	p := mgl32.TransformCoordinate(mgl32.Vec3{1, 0, 0}, n.WorldMatrix())
	assertVector(t, mgl32.Vec3{0, 0, -1}, p)

	// position and scale do not rescale the rotation
	big := mgl32.Quat{W: 1e19}
	n.quat = big
	n.SetPosition(mgl32.Vec3{1, 1, 1})
	assert.Equal(t, big, n.Rotation())
}

func TestSetVisibleDebounce(t *testing.T) {
	sc := NewScene("test")
	sc.VisibilityThreshold = 3
	n := sc.NewNode("n")
	assert.True(t, n.IsVisible())

	for range 4 {
		n.SetVisible(false)
	}
	assert.False(t, n.IsVisible())

	flips := 0
	last := n.IsVisible()
	for i := range 4 {
		n.SetVisible(true)
		if n.IsVisible() != last {
			flips++
			last = n.IsVisible()
			assert.Equal(t, 3, i)
		}
	}
	assert.Equal(t, 1, flips)
	assert.True(t, n.IsVisible())

	// interleaved samples that net to zero never flip
	for range 100 {
		n.SetVisible(false)
		n.SetVisible(true)
	}
	assert.True(t, n.IsVisible())
	for range 3 {
		n.SetVisible(false)
	}
	assert.True(t, n.IsVisible())
	n.SetVisible(false)
	assert.False(t, n.IsVisible())
}

func TestIsColliding(t *testing.T) {
	sc := NewScene("test")
	dev := nullgpu.NewDevice(0)
	mat := nullgpu.NewMaterial(dev, "m", 0)
	box := nullgpu.NewBox("unit", mgl32.Vec3{1, 1, 1})
	newBox := func(name string, pos mgl32.Vec3, scale float32) *Node {
		n := sc.NewNode(name)
		n.AttachDrawable(NewDrawable(name, box, mat))
		n.SetPosition(pos)
		n.SetScale(mgl32.Vec3{scale, scale, scale})
		return n
	}
	// [0,1]^3 and [1,2]^3 only share a face
	a := newBox("a", mgl32.Vec3{0.5, 0.5, 0.5}, 1)
	b := newBox("b", mgl32.Vec3{1.5, 1.5, 1.5}, 1)
	col, err := a.IsColliding(b)
	require.NoError(t, err)
	assert.False(t, col)

	// [0,2]^3 and [1,3]^3 overlap
	c := newBox("c", mgl32.Vec3{1, 1, 1}, 2)
	d := newBox("d", mgl32.Vec3{2, 2, 2}, 2)
	col, err = c.IsColliding(d)
	require.NoError(t, err)
	assert.True(t, col)

	e := sc.NewNode("empty")
	_, err = a.IsColliding(e)
	assert.ErrorIs(t, err, ErrMissingDrawable)
	_, err = e.IsColliding(a)
	assert.ErrorIs(t, err, ErrMissingDrawable)
	_, err = e.WorldBBox()
	assert.ErrorIs(t, err, ErrMissingDrawable)
}

func TestDrawableAttach(t *testing.T) {
	sc := NewScene("test")
	a := sc.NewNode("a")
	b := sc.NewNode("b")
	d1 := NewDrawable("d1", nil, nil)
	d2 := NewDrawable("d2", nil, nil)

	a.AttachDrawable(d1)
	assert.Equal(t, a, d1.Owner())
	a.AttachDrawable(d1)
	assert.Equal(t, a, d1.Owner())
	assert.Equal(t, d1, a.Drawable())

	// transfer to b
	b.AttachDrawable(d1)
	assert.Equal(t, b, d1.Owner())
	assert.Nil(t, a.Drawable())

	// replacing b's drawable detaches d1
	b.AttachDrawable(d2)
	assert.Nil(t, d1.Owner())
	assert.Equal(t, b, d2.Owner())

	b.DetachDrawable()
	assert.Nil(t, b.Drawable())
	assert.Nil(t, d2.Owner())
	b.DetachDrawable()
	assert.Nil(t, b.Drawable())
	assert.Nil(t, d2.Owner())
}

func TestDestroyNode(t *testing.T) {
	sc, r, a, b := chain(t)
	var released []uint32
	sc.QueryReleaser = func(q gpu.Query) { released = append(released, uint32(q)) }
	a.query = 7
	a.queryState = QueryInFlight
	d := NewDrawable("d", nil, nil)
	a.AttachDrawable(d)
	id := a.ID()
	count := sc.NumNodes()

	r.SetPosition(mgl32.Vec3{5, 0, 0})
	require.NoError(t, sc.DestroyNode(a))
	assert.Equal(t, []uint32{7}, released)
	assert.Nil(t, sc.Node(id))
	assert.False(t, a.IsLive())
	assert.Equal(t, count-1, sc.NumNodes())
	assert.Equal(t, 0, r.NumChildren())
	assert.Nil(t, d.Owner())

	// children are orphaned, not destroyed
	assert.True(t, b.IsLive())
	assert.Nil(t, b.Parent())
	assertVector(t, mgl32.Vec3{1, 0, 0}, b.WorldPosition())

	assert.ErrorIs(t, sc.DestroyNode(a), ErrStaleNode)
	assert.ErrorIs(t, r.AddChild(a), ErrStaleNode)
	assert.ErrorIs(t, sc.DestroyNode(sc.Root()), ErrStructural)

	// the slot is reused with a new generation
	n := sc.NewNode("new")
	assert.NotEqual(t, id, n.ID())
	assert.Nil(t, sc.Node(id))
	assert.Equal(t, n, sc.Node(n.ID()))
}

func TestClone(t *testing.T) {
	sc, r, a, b := chain(t)
	d := NewDrawable("d", nullgpu.NewBox("box", mgl32.Vec3{1, 1, 1}), nil)
	b.AttachDrawable(d)
	a.SetLODRange(1, 5)
	r.SetPosition(mgl32.Vec3{5, 0, 0})

	ca, err := sc.Clone(a)
	require.NoError(t, err)
	assert.Nil(t, ca.Parent())
	assert.True(t, ca.LODActive())
	assert.Equal(t, LODRange{1, 5}, ca.LODRange())
	require.Equal(t, 1, ca.NumChildren())
	cb, _ := ca.Child(0)
	assert.Equal(t, "B", cb.Name)
	assertVector(t, mgl32.Vec3{1, 0, 0}, cb.WorldPosition())
	require.NotNil(t, cb.Drawable())
	assert.NotSame(t, d, cb.Drawable())
	assert.Equal(t, d.Geometry, cb.Drawable().Geometry)
	assert.Equal(t, b, d.Owner())
}

func TestWalkPath(t *testing.T) {
	sc, _, _, b := chain(t)
	assert.Equal(t, "/root/R/A/B", b.Path())
	assert.Equal(t, b, sc.NodeByPath("/root/R/A/B"))
	assert.Nil(t, sc.NodeByPath("/root/X"))

	var names []string
	sc.Root().WalkDown(func(n *Node) bool {
		names = append(names, n.Name)
		return n.Name != "A"
	})
	assert.Equal(t, []string{"root", "R", "A"}, names)
}
