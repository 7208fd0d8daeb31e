// Copyright (c) 2019, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vr

import (
	"context"
	"errors"
	"io"
	"testing"

	"cogentcore.org/xr/config"
	"cogentcore.org/xr/gpu/nullgpu"
	"cogentcore.org/xr/math32"
	"cogentcore.org/xr/xyz"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordApp records the lifecycle callbacks it receives, and adds
// one box in front of the camera at init.
type recordApp struct {
	AppBase
	dev     *nullgpu.Device
	events  []string
	frames  int
	keys    []KeyEvent
	consume bool
	initErr error
	box     *xyz.Node
}

func (ra *recordApp) OneTimeInit(dr *Driver) error {
	ra.events = append(ra.events, "init")
	if ra.initErr != nil {
		return ra.initErr
	}
	sc := dr.Scene
	ra.box = sc.NewNode("box")
	ra.box.SetPosition(mgl32.Vec3{0, 0, -5})
	ra.box.AttachDrawable(xyz.NewDrawable("box", nullgpu.NewBox("box", mgl32.Vec3{1, 1, 1}), nullgpu.NewMaterial(ra.dev, "flat", 0)))
	return sc.Root().AddChild(ra.box)
}

func (ra *recordApp) OneTimeShutdown()    { ra.events = append(ra.events, "shutdown") }
func (ra *recordApp) Frame(fi *FrameInfo) { ra.frames++ }
func (ra *recordApp) EnteredVRMode()      { ra.events = append(ra.events, "entered") }
func (ra *recordApp) LeavingVRMode()      { ra.events = append(ra.events, "leaving") }
func (ra *recordApp) HMDMounted()         { ra.events = append(ra.events, "mounted") }
func (ra *recordApp) HMDUnmounted()       { ra.events = append(ra.events, "unmounted") }

func (ra *recordApp) OnKeyEvent(ev KeyEvent) bool {
	ra.keys = append(ra.keys, ev)
	return ra.consume
}

func newTestDriver(t *testing.T) (*Driver, *recordApp, *nullgpu.Device) {
	t.Helper()
	dev := nullgpu.NewDevice(1)
	app := &recordApp{dev: dev}
	return NewDriver(app, dev, nil), app, dev
}

func TestDriverRun(t *testing.T) {
	dr, app, dev := newTestDriver(t)
	require.NoError(t, dr.Run(context.Background(), NewSimSource(10, 0)))

	assert.Equal(t, []string{"init", "entered", "leaving", "shutdown"}, app.events)
	assert.Equal(t, 10, app.frames)
	assert.Equal(t, int64(10), dr.Frames)
	// shutdown ends one more frame to run pending releases
	assert.Equal(t, 11, dr.Renderer.Frame)
	for eye := range xyz.Eyes {
		assert.Equal(t, 10, dr.Totals[eye].Drawn, "eye %d", eye)
	}
	assert.Len(t, dev.Draws, 20)
}

func TestDriverRunTurning(t *testing.T) {
	dr, _, _ := newTestDriver(t)
	// a full turn per second at 60 fps: the box is behind the head
	// for part of the time
	require.NoError(t, dr.Run(context.Background(), NewSimSource(60, 360)))
	st := dr.Totals[0]
	assert.Greater(t, st.Drawn, 0)
	assert.Greater(t, st.FrustumCulled, 0)
	assert.Equal(t, 60, st.Drawn+st.FrustumCulled+st.Occluded)
}

func TestDriverRunErrors(t *testing.T) {
	dr, app, _ := newTestDriver(t)
	app.initErr = errors.New("no assets")
	err := dr.Run(context.Background(), NewSimSource(1, 0))
	assert.ErrorIs(t, err, app.initErr)
	assert.Equal(t, []string{"init"}, app.events)

	dr, app, dev := newTestDriver(t)
	dev.MaxQueries = 1
	_, err = dev.NewQuery()
	require.NoError(t, err)
	err = dr.Run(context.Background(), NewSimSource(3, 0))
	assert.ErrorContains(t, err, "frame 0")
	var ne *xyz.NodeError
	require.ErrorAs(t, err, &ne)
	assert.Equal(t, "box", ne.Node)
	assert.Equal(t, []string{"init", "entered", "leaving", "shutdown"}, app.events)

	dr, _, _ = newTestDriver(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, dr.Run(ctx, NewSimSource(1, 0)), context.Canceled)
}

func TestDriverFrameDocked(t *testing.T) {
	dr, _, _ := newTestDriver(t)
	cam := dr.Scene.Camera()
	cam.SetPosition(mgl32.Vec3{1, 2, 3})
	head := mgl32.QuatRotate(math32.DegToRad(90), mgl32.Vec3{0, 1, 0})

	cv := dr.Frame(&FrameInfo{Docked: true, HeadOrientation: head})
	assert.True(t, cam.Rotation().ApproxEqual(head))
	assert.Equal(t, cv, dr.CenterView())

	eye := cv.Inv()
	assert.InDeltaSlice(t, []float32{1, 2, 3}, eye[12:15], 1e-4)
	// looking down -Z in head space is looking down -X in the world
	fwd := mgl32.TransformNormal(mgl32.Vec3{0, 0, -1}, eye)
	assert.InDeltaSlice(t, []float32{-1, 0, 0}, fwd[:], 1e-4)
}

func TestDriverFrameUndocked(t *testing.T) {
	dr, _, _ := newTestDriver(t)
	cam := dr.Scene.Camera()
	cam.SetPosition(mgl32.Vec3{0, 0, 10})
	cam.SetEulerRotation(0, 90, 0)
	head := mgl32.QuatRotate(math32.DegToRad(90), mgl32.Vec3{0, 1, 0})

	fi := &FrameInfo{HeadOrientation: head, HeadPosition: mgl32.Vec3{0, 0.1, 0}}
	cv := dr.Frame(fi)
	// the camera keeps its own rotation, and the head pose adds to it
	assert.True(t, cam.Rotation().ApproxEqual(mgl32.AnglesToQuat(0, math32.DegToRad(90), 0, mgl32.XYZ)))
	want := cam.WorldMatrix().Mul4(fi.HeadPose()).Inv()
	assert.InDeltaSlice(t, want[:], cv[:], 1e-4)
	fwd := mgl32.TransformNormal(mgl32.Vec3{0, 0, -1}, cv.Inv())
	assert.InDeltaSlice(t, []float32{0, 0, 1}, fwd[:], 1e-4)
}

func TestDriverKeyEvent(t *testing.T) {
	dr, app, _ := newTestDriver(t)
	assert.False(t, dr.KeyEvent(KeyEvent{Code: 4, Type: KeyNone}))
	assert.False(t, dr.KeyEvent(KeyEvent{Code: 4, Type: KeyMax + 1}))
	assert.False(t, dr.KeyEvent(KeyEvent{Code: 4, Type: -1}))
	assert.Empty(t, app.keys)

	assert.False(t, dr.KeyEvent(KeyEvent{Code: 4, Type: KeyShortPress}))
	app.consume = true
	assert.True(t, dr.KeyEvent(KeyEvent{Code: 4, Repeat: 2, Type: KeyLongPress}))
	assert.True(t, dr.KeyEvent(KeyEvent{Code: 4, Type: KeyMax}))
	require.Len(t, app.keys, 3)
	assert.Equal(t, KeyLongPress, app.keys[1].Type)
	assert.Equal(t, "LongPress", app.keys[1].Type.String())
	assert.Equal(t, KeyMax, app.keys[2].Type)
	assert.Equal(t, "Max", app.keys[2].Type.String())
	assert.Equal(t, "KeyEventType(42)", KeyEventType(42).String())
}

func TestDriverMountedVRMode(t *testing.T) {
	dr, app, _ := newTestDriver(t)
	dr.SetMounted(false)
	dr.SetMounted(true)
	dr.SetMounted(true)
	dr.SetMounted(false)
	dr.SetVRMode(true)
	dr.SetVRMode(true)
	dr.SetVRMode(false)
	assert.Equal(t, []string{"mounted", "unmounted", "entered", "leaving"}, app.events)
}

func TestDriverReloads(t *testing.T) {
	dr, _, _ := newTestDriver(t)
	ch := make(chan *config.Settings, 2)
	dr.Reloads = ch

	first := config.Default()
	first.Render.IPD = 0.05
	last := config.Default()
	last.Render.IPD = 0
	last.Render.VisibilityThreshold = 2
	ch <- first
	ch <- last

	dr.Frame(&FrameInfo{})
	assert.Same(t, last, dr.Settings)
	assert.Equal(t, float32(0), dr.Renderer.Options().IPD)
	assert.Equal(t, 2, dr.Scene.VisibilityThreshold)

	close(ch)
	dr.Frame(&FrameInfo{})
	assert.Nil(t, dr.Reloads)
	assert.Same(t, last, dr.Settings)
}

func TestSimSource(t *testing.T) {
	ss := NewSimSource(2, 90)
	ss.FPS = 2
	ctx := context.Background()
	fi, err := ss.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), fi.FrameNumber)
	assert.InDelta(t, 0.5, fi.DeltaSeconds, 1e-6)
	assert.True(t, fi.Docked)
	assert.True(t, fi.HeadOrientation.ApproxEqualThreshold(mgl32.QuatRotate(math32.DegToRad(45), mgl32.Vec3{0, 1, 0}), 1e-5))

	_, err = ss.Next(ctx)
	require.NoError(t, err)
	_, err = ss.Next(ctx)
	assert.ErrorIs(t, err, io.EOF)
}

func TestDriverDrawEyeViewIndex(t *testing.T) {
	dr, _, _ := newTestDriver(t)
	dr.Frame(&FrameInfo{HeadOrientation: mgl32.QuatIdent()})
	_, err := dr.DrawEyeView(-1, 90, 90)
	assert.ErrorIs(t, err, xyz.ErrEye)
	_, err = dr.DrawEyeView(xyz.Eyes, 90, 90)
	assert.ErrorIs(t, err, xyz.ErrEye)
	assert.Equal(t, [xyz.Eyes]xyz.Stats{}, dr.Totals)

	_, err = dr.DrawEyeView(1, 90, 90)
	require.NoError(t, err)
	assert.Positive(t, dr.Totals[1].Visited)
	assert.Equal(t, xyz.Stats{}, dr.Totals[0])
}
