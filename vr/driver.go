// Copyright (c) 2019, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vr

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"cogentcore.org/xr/base/errors"
	"cogentcore.org/xr/config"
	"cogentcore.org/xr/gpu"
	"cogentcore.org/xr/xyz"
	"github.com/go-gl/mathgl/mgl32"
)

// Driver runs an [App] on a scene: for each frame from the host it
// updates the camera from the head pose, lets the app update the
// scene, derives the center view, renders both eyes, and releases
// the GPU resources freed during the frame.
type Driver struct {

	// App is the application being run.
	App App

	// Scene is the scene being rendered.
	Scene *xyz.Scene

	// Renderer renders the eyes of the scene.
	Renderer *xyz.Renderer

	// Settings are the current settings.
	Settings *config.Settings

	// Reloads, if set, receives new settings, which are applied at
	// the start of the next frame.
	Reloads <-chan *config.Settings

	// Totals are the stats of each eye, summed over all frames.
	Totals [xyz.Eyes]xyz.Stats

	// Frames is the number of frames run.
	Frames int64

	centerView  mgl32.Mat4
	mounted     bool
	inVR        bool
	initialized bool
}

// NewDriver returns a new driver running the given app on a new
// scene rendered on the given device, with the given settings.
// Nil settings use [config.Default].
func NewDriver(app App, dev gpu.Device, s *config.Settings) *Driver {
	if s == nil {
		s = config.Default()
	}
	dr := &Driver{App: app, Settings: s, centerView: mgl32.Ident4()}
	dr.Scene = xyz.NewScene("scene")
	dr.Renderer = xyz.NewRenderer(dev, s.RenderOptions())
	dr.Renderer.Attach(dr.Scene)
	s.Apply(dr.Renderer, dr.Scene)
	return dr
}

// Init calls the one time initialization of the app.
func (dr *Driver) Init() error {
	if dr.initialized {
		return nil
	}
	if err := dr.App.OneTimeInit(dr); err != nil {
		return fmt.Errorf("vr: app init: %w", err)
	}
	dr.initialized = true
	return nil
}

// Shutdown leaves VR mode if needed, and calls the one time shutdown
// of the app. Pending releases are run.
func (dr *Driver) Shutdown() {
	if !dr.initialized {
		return
	}
	dr.SetVRMode(false)
	dr.App.OneTimeShutdown()
	dr.Renderer.EndFrame()
	dr.initialized = false
}

// CenterView returns the center view matrix of the current frame.
func (dr *Driver) CenterView() mgl32.Mat4 {
	return dr.centerView
}

// Frame starts a new frame and returns its center view matrix.
// When the device is docked, the camera rotation follows the head
// orientation and only the camera position moves the view; otherwise
// the head pose is applied on top of the full camera transform.
func (dr *Driver) Frame(fi *FrameInfo) mgl32.Mat4 {
	dr.applyReloads()
	cam := dr.Scene.Camera()
	if fi.Docked {
		cam.SetRotation(fi.HeadOrientation)
	}
	dr.App.Frame(fi)

	var input mgl32.Mat4
	if fi.Docked {
		input = mgl32.Translate3D(cam.Position().Elem())
	} else {
		input = cam.WorldMatrix()
	}
	dr.centerView = input.Mul4(fi.HeadPose()).Inv()
	dr.Frames++
	return dr.centerView
}

// applyReloads applies the latest settings received on Reloads, if any.
func (dr *Driver) applyReloads() {
	if dr.Reloads == nil {
		return
	}
	var s *config.Settings
loop:
	for {
		select {
		case ns, ok := <-dr.Reloads:
			if !ok {
				dr.Reloads = nil
				break loop
			}
			s = ns
		default:
			break loop
		}
	}
	if s == nil {
		return
	}
	dr.Settings = s
	s.Apply(dr.Renderer, dr.Scene)
	slog.Info("vr: applied new settings", "ipd", s.Render.IPD, "occlusion", s.Render.Occlusion)
}

// DrawEyeView renders the given eye of the current frame, and returns
// its view projection matrix.
func (dr *Driver) DrawEyeView(eye int, fovX, fovY float32) (mgl32.Mat4, error) {
	vp, err := dr.Renderer.RenderEye(dr.Scene, eye, fovX, fovY, dr.centerView)
	if errors.Is(err, xyz.ErrEye) {
		return vp, err
	}
	dr.Totals[eye].Add(&dr.Renderer.Stats[eye])
	return vp, err
}

// EndFrame ends the current frame after both eyes have been drawn,
// running the deferred GPU resource releases.
func (dr *Driver) EndFrame() int {
	return dr.Renderer.EndFrame()
}

// KeyEvent dispatches the given key event to the app, and returns
// whether it was consumed. [KeyNone] and unknown event types
// are not dispatched.
func (dr *Driver) KeyEvent(ev KeyEvent) bool {
	if ev.Type <= KeyNone || ev.Type > KeyMax {
		return false
	}
	return dr.App.OnKeyEvent(ev)
}

// SetMounted records whether the headset is being worn, calling the
// app when it changes.
func (dr *Driver) SetMounted(mounted bool) {
	if mounted == dr.mounted {
		return
	}
	dr.mounted = mounted
	if mounted {
		dr.App.HMDMounted()
	} else {
		dr.App.HMDUnmounted()
	}
}

// SetVRMode records whether the app is in VR mode, calling the app
// when it changes.
func (dr *Driver) SetVRMode(inVR bool) {
	if inVR == dr.inVR {
		return
	}
	if inVR {
		dr.inVR = true
		dr.App.EnteredVRMode()
	} else {
		dr.App.LeavingVRMode()
		dr.inVR = false
	}
}

// RunFrame runs one full frame: [Driver.Frame], both eyes, and
// [Driver.EndFrame].
func (dr *Driver) RunFrame(fi *FrameInfo) error {
	dr.Frame(fi)
	for eye := range xyz.Eyes {
		if _, err := dr.DrawEyeView(eye, fi.FovX, fi.FovY); err != nil {
			return err
		}
	}
	dr.EndFrame()
	return nil
}

// Run initializes the app, enters VR mode, and runs the frames from
// the given source until it is done, the context is done, or a frame
// fails. The app is shut down before returning.
func (dr *Driver) Run(ctx context.Context, src FrameSource) error {
	if err := dr.Init(); err != nil {
		return err
	}
	defer dr.Shutdown()
	dr.SetVRMode(true)
	for {
		fi, err := src.Next(ctx)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := dr.RunFrame(fi); err != nil {
			var ne *xyz.NodeError
			if errors.As(err, &ne) {
				slog.Error("vr: frame failed", "frame", fi.FrameNumber, "op", ne.Op, "node", ne.Node)
			}
			return fmt.Errorf("vr: frame %d: %w", fi.FrameNumber, err)
		}
	}
}
