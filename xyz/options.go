// Copyright (c) 2019, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xyz

// Options are the render options of a [Renderer].
type Options struct {

	// Near is the distance to the near clipping plane.
	Near float32

	// Far is the distance to the far clipping plane.
	Far float32

	// IPD is the interpupillary distance, in meters.
	IPD float32

	// Frustum enables frustum culling.
	Frustum bool

	// Occlusion enables occlusion query culling.
	Occlusion bool

	// QueryInterval is the minimum number of passes between the
	// result of one occlusion query of a node and the next query.
	QueryInterval int
}

// DefaultOptions returns the default render options.
func DefaultOptions() Options {
	return Options{
		Near:          0.1,
		Far:           1000,
		IPD:           0.064,
		Frustum:       true,
		Occlusion:     true,
		QueryInterval: 1,
	}
}
