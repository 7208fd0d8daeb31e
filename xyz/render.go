// Copyright (c) 2019, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xyz

import (
	"fmt"
	"log/slog"

	"cogentcore.org/xr/gpu"
	"cogentcore.org/xr/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Eyes is the number of eyes rendered per frame.
const Eyes = 2

// Renderer renders the eye views of a scene: it culls the scene for
// each eye, submits the surviving drawables, and owns the queue of
// GPU resources released at the end of each frame.
type Renderer struct {

	// Device receives the queries and draws.
	Device gpu.Device

	// Culler computes the drawables for each eye.
	Culler Culler

	// Stats are the stats of the last pass of each eye.
	Stats [Eyes]Stats

	// Frame is the number of frames ended.
	Frame int

	release gpu.ReleaseQueue
}

// NewRenderer returns a new renderer on the given device.
func NewRenderer(dev gpu.Device, opts Options) *Renderer {
	rn := &Renderer{Device: dev}
	rn.Culler.Device = dev
	rn.Culler.Options = opts
	return rn
}

// Options returns the current render options.
func (rn *Renderer) Options() Options {
	return rn.Culler.Options
}

// SetOptions sets the render options, taking effect for the next eye.
func (rn *Renderer) SetOptions(opts Options) {
	rn.Culler.Options = opts
}

// Attach sets up the given scene so that the occlusion queries of
// destroyed nodes are deleted by this renderer at the end of the frame.
func (rn *Renderer) Attach(sc *Scene) {
	sc.QueryReleaser = func(q gpu.Query) {
		rn.Defer(func() { rn.Device.DeleteQuery(q) })
	}
}

// Defer schedules the given GPU resource release to run at the end of
// the current frame, after all eyes have been submitted.
func (rn *Renderer) Defer(fun func()) {
	rn.release.Push(fun)
}

// EndFrame runs all deferred releases, and returns how many ran.
// It must be called once per frame, after both eyes.
func (rn *Renderer) EndFrame() int {
	nr := rn.release.Drain()
	rn.Frame++
	return nr
}

// EyeView returns the view matrix of the given eye (0 = left, 1 = right),
// offset by half the interpupillary distance from the center view.
func (rn *Renderer) EyeView(eye int, centerView mgl32.Mat4) mgl32.Mat4 {
	off := rn.Culler.Options.IPD / 2
	if eye != 0 {
		off = -off
	}
	return mgl32.Translate3D(off, 0, 0).Mul4(centerView)
}

// EyeProjection returns the symmetric perspective projection for the
// given horizontal and vertical fields of view, in degrees.
func (rn *Renderer) EyeProjection(fovX, fovY float32) mgl32.Mat4 {
	opts := &rn.Culler.Options
	return math32.PerspectiveFov(fovX, fovY, opts.Near, opts.Far)
}

// RenderEye renders the given eye of the scene: it sets the eye view
// and projection on the scene, culls, and submits the result.
// It returns the view projection matrix of the eye. An error means
// an occlusion query could not be created, which is not recoverable,
// or that eye is not a valid eye index ([ErrEye]).
func (rn *Renderer) RenderEye(sc *Scene, eye int, fovX, fovY float32, centerView mgl32.Mat4) (mgl32.Mat4, error) {
	if eye < 0 || eye >= Eyes {
		return mgl32.Ident4(), fmt.Errorf("xyz: render eye %d of %q: %w", eye, sc.Name, ErrEye)
	}
	sc.CenterView = centerView
	sc.SetEyeMatrices(eye, rn.EyeView(eye, centerView), rn.EyeProjection(fovX, fovY))
	vp := sc.ViewProjection()

	st := &rn.Stats[eye]
	*st = Stats{}
	items, err := rn.Culler.Cull(sc, st)
	if err != nil {
		return vp, fmt.Errorf("xyz: render eye %d of %q: %w", eye, sc.Name, err)
	}
	rn.Submit(sc, items, st)
	return vp, nil
}

// Submit draws the given items with the current eye matrices of the
// scene. A drawable whose material fails to bind is logged and skipped.
// No node state is changed.
func (rn *Renderer) Submit(sc *Scene, items []DrawItem, st *Stats) {
	if st == nil {
		st = &Stats{}
	}
	xf := gpu.Transforms{View: sc.View, Projection: sc.Projection, Eye: sc.Eye}
	for i := range items {
		it := &items[i]
		d := it.Drawable
		if d.Material == nil || d.Geometry == nil {
			slog.Error("xyz: drawable is missing material or geometry", "drawable", d.Name)
			st.BindErrors++
			continue
		}
		xf.Model = it.World
		xf.SetMVP()
		if err := d.Material.Bind(&xf); err != nil {
			slog.Error("xyz: material bind failed", "drawable", d.Name, "err", err)
			st.BindErrors++
			continue
		}
		rn.Device.DrawIndexed(d.Geometry)
		st.Drawn++
	}
}
