// Copyright (c) 2019, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package vr drives the rendering of a scene on a stereo head mounted
// display: it defines the lifecycle callbacks of an application, the
// per-frame information from the host, and the [Driver] that turns
// host frames into a center view and two rendered eyes.
package vr

import "fmt"

// KeyEventType is the type of a key event from the headset.
type KeyEventType int32

const (
	// KeyNone is not a key event, and is never dispatched.
	KeyNone KeyEventType = iota

	// KeyShortPress is a key pressed and released quickly.
	KeyShortPress

	// KeyDoubleTap is two short presses in quick succession.
	KeyDoubleTap

	// KeyLongPress is a key held down past the long press time.
	KeyLongPress

	// KeyDown is a key going down.
	KeyDown

	// KeyUp is a key going up.
	KeyUp

	// KeyMax is the upper bound of the key event types.
	KeyMax
)

var keyEventTypeNames = [...]string{"None", "ShortPress", "DoubleTap", "LongPress", "Down", "Up", "Max"}

func (i KeyEventType) String() string {
	if i < 0 || int(i) >= len(keyEventTypeNames) {
		return fmt.Sprintf("KeyEventType(%d)", int32(i))
	}
	return keyEventTypeNames[i]
}

// KeyEvent is a key event from the headset.
type KeyEvent struct {

	// Code is the key code.
	Code int

	// Repeat is the repeat count of the key.
	Repeat int

	// Type is the type of the event.
	Type KeyEventType
}

// App is the application run by a [Driver]. All of the methods are
// called on the render thread.
type App interface {

	// OneTimeInit is called once, before the first frame, with the
	// driver whose scene the app should populate.
	OneTimeInit(dr *Driver) error

	// OneTimeShutdown is called once, after the last frame.
	OneTimeShutdown()

	// Frame is called at the start of each frame, after the head
	// orientation has been applied to the camera.
	Frame(fi *FrameInfo)

	// OnKeyEvent is called for each key event, and returns whether
	// the event was consumed.
	OnKeyEvent(ev KeyEvent) bool

	// EnteredVRMode is called when the app enters VR mode.
	EnteredVRMode()

	// LeavingVRMode is called when the app is about to leave VR mode.
	LeavingVRMode()

	// HMDMounted is called when the headset is put on.
	HMDMounted()

	// HMDUnmounted is called when the headset is taken off.
	HMDUnmounted()
}

// AppBase is a no-op implementation of [App], to be embedded
// in apps that only need some of the callbacks.
type AppBase struct{}

func (ab *AppBase) OneTimeInit(dr *Driver) error { return nil }
func (ab *AppBase) OneTimeShutdown()             {}
func (ab *AppBase) Frame(fi *FrameInfo)          {}
func (ab *AppBase) OnKeyEvent(ev KeyEvent) bool  { return false }
func (ab *AppBase) EnteredVRMode()               {}
func (ab *AppBase) LeavingVRMode()               {}
func (ab *AppBase) HMDMounted()                  {}
func (ab *AppBase) HMDUnmounted()                {}
