// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package glgpu

import (
	"cogentcore.org/xr/math32"
	"github.com/go-gl/gl/v4.3-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/pkg/errors"
)

// Window is a glfw window with an OpenGL 4.3 core context, and the
// [Device] on that context. The eyes are drawn side by side.
// IMPORTANT: all of its methods, and NewWindow, must be called on the
// main thread, which must be locked with runtime.LockOSThread.
type Window struct {

	// Device draws into the window.
	Device *Device

	// Glfw is the underlying window.
	Glfw *glfw.Window
}

// NewWindow initializes glfw and opens a window of the given size
// with a current GL context. A window that is not visible can be
// used to render offscreen.
func NewWindow(title string, width, height int, visible bool) (*Window, error) {
	if err := glfw.Init(); err != nil {
		return nil, errors.Wrap(err, "glgpu: glfw init")
	}
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 3)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.Visible, glfwBool(visible))
	gw, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, errors.Wrap(err, "glgpu: create window")
	}
	gw.MakeContextCurrent()
	glfw.SwapInterval(1)
	dv, err := NewDevice()
	if err != nil {
		gw.Destroy()
		glfw.Terminate()
		return nil, err
	}
	return &Window{Device: dv, Glfw: gw}, nil
}

func glfwBool(b bool) int {
	if b {
		return glfw.True
	}
	return glfw.False
}

// ShouldClose returns whether the user asked to close the window.
func (w *Window) ShouldClose() bool {
	return w.Glfw.ShouldClose()
}

// Clear clears the color and depth of the whole window.
func (w *Window) Clear() {
	fw, fh := w.Glfw.GetFramebufferSize()
	gl.Viewport(0, 0, int32(fw), int32(fh))
	gl.ClearColor(0.05, 0.05, 0.08, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// SetEyeViewport restricts drawing to the half of the window of the
// given eye: the left half for eye 0, and the right half otherwise.
func (w *Window) SetEyeViewport(eye int) {
	x, y, ew, eh := eyeViewport(w.Glfw.GetFramebufferSize())
	if eye != 0 {
		x = ew
	}
	gl.Viewport(int32(x), int32(y), int32(ew), int32(eh))
}

// eyeViewport returns the viewport of the left eye in a framebuffer
// of the given size.
func eyeViewport(fw, fh int) (x, y, w, h int) {
	return 0, 0, fw / 2, fh
}

// FieldsOfView returns the horizontal and vertical fields of view of
// each eye, in degrees, for the given vertical field of view and the
// aspect ratio of an eye viewport.
func (w *Window) FieldsOfView(fovY float32) (float32, float32) {
	_, _, ew, eh := eyeViewport(w.Glfw.GetFramebufferSize())
	return eyeFovX(fovY, ew, eh), fovY
}

// Present shows the drawn frame and processes the pending window events.
func (w *Window) Present() {
	w.Glfw.SwapBuffers()
	glfw.PollEvents()
}

// Close releases the device, destroys the window, and terminates glfw.
// Releases deferred on the renderer must be run first, while the
// context is still current.
func (w *Window) Close() {
	w.Device.Release()
	w.Glfw.Destroy()
	glfw.Terminate()
}

// eyeFovX returns the horizontal field of view in degrees that
// matches the vertical one for a viewport of the given size.
func eyeFovX(fovY float32, w, h int) float32 {
	if w <= 0 || h <= 0 {
		return fovY
	}
	aspect := float32(w) / float32(h)
	return math32.RadToDeg(2 * math32.Atan(math32.Tan(math32.DegToRad(fovY)/2)*aspect))
}
