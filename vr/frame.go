// Copyright (c) 2019, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vr

import (
	"context"
	"io"

	"cogentcore.org/xr/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Input is the state of the headset input for a frame.
type Input struct {

	// SwipeFraction is the progress of the current touchpad swipe, in [0, 1].
	SwipeFraction float32

	// ButtonState is the bit set of buttons that are down.
	ButtonState uint32

	// Pressed is the bit set of buttons that went down this frame.
	Pressed uint32

	// Released is the bit set of buttons that went up this frame.
	Released uint32
}

// FrameInfo is the information about a frame from the host.
type FrameInfo struct {

	// PredictedDisplayTime is the time at which the frame is
	// expected to be displayed, in seconds.
	PredictedDisplayTime float64

	// DeltaSeconds is the time since the previous frame.
	DeltaSeconds float32

	// FrameNumber is the number of the frame.
	FrameNumber int64

	// Docked is whether the device is docked in the headset, in which
	// case the head orientation drives the camera rotation.
	Docked bool

	// HeadOrientation is the predicted orientation of the head.
	HeadOrientation mgl32.Quat

	// HeadPosition is the predicted position of the head relative to
	// the tracking origin, from the head model.
	HeadPosition mgl32.Vec3

	// FovX is the horizontal field of view of each eye, in degrees.
	FovX float32

	// FovY is the vertical field of view of each eye, in degrees.
	FovY float32

	// Input is the input state.
	Input Input
}

// HeadPose returns the head pose matrix of the frame.
func (fi *FrameInfo) HeadPose() mgl32.Mat4 {
	return math32.Compose(fi.HeadPosition, fi.HeadOrientation, mgl32.Vec3{1, 1, 1})
}

// FrameSource is a source of frames, such as the host frame pump.
type FrameSource interface {

	// Next returns the next frame, blocking until it is due.
	// It returns [io.EOF] when there are no more frames.
	Next(ctx context.Context) (*FrameInfo, error)
}

// SimSource is a [FrameSource] that simulates a docked headset
// turning around the vertical axis at a constant rate, without
// waiting between frames.
type SimSource struct {

	// Frames is the number of frames to produce.
	Frames int64

	// FPS is the simulated frame rate.
	FPS float64

	// YawRate is the rate of turn of the head, in degrees per second.
	YawRate float32

	// FovX and FovY are the fields of view of each eye, in degrees.
	FovX, FovY float32

	n int64
}

// NewSimSource returns a new simulated source of the given number
// of frames at 60 frames per second and a 90 degree field of view.
func NewSimSource(frames int64, yawRate float32) *SimSource {
	return &SimSource{Frames: frames, FPS: 60, YawRate: yawRate, FovX: 90, FovY: 90}
}

func (ss *SimSource) Next(ctx context.Context) (*FrameInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if ss.n >= ss.Frames {
		return nil, io.EOF
	}
	fps := ss.FPS
	if fps <= 0 {
		fps = 60
	}
	tm := float64(ss.n+1) / fps
	yaw := math32.DegToRad(ss.YawRate * float32(tm))
	fi := &FrameInfo{
		PredictedDisplayTime: tm,
		DeltaSeconds:         float32(1 / fps),
		FrameNumber:          ss.n,
		Docked:               true,
		HeadOrientation:      mgl32.QuatRotate(yaw, mgl32.Vec3{0, 1, 0}),
		FovX:                 ss.FovX,
		FovY:                 ss.FovY,
	}
	ss.n++
	return fi, nil
}
