// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package nullgpu provides a headless [gpu.Device] that records draw calls
// and simulates occlusion query latency. It is used for tests and for
// running scenes without a graphics context.
package nullgpu

import (
	"fmt"

	"cogentcore.org/xr/gpu"
	"cogentcore.org/xr/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Draw is one recorded indexed draw.
type Draw struct {
	Geometry   gpu.Geometry
	Material   *Material
	Transforms gpu.Transforms
}

type query struct {
	samples uint32
	polls   int
	ended   bool
}

// Device is a headless [gpu.Device].
type Device struct {

	// Latency is the number of polls of an ended query that report
	// not ready before its result becomes available.
	Latency int

	// Samples returns the number of samples that pass the depth test
	// for a proxy box drawn with the given mvp. If nil, every proxy
	// box that has any corner in front of the eye passes 1 sample.
	Samples func(mvp mgl32.Mat4, box math32.Box3) uint32

	// MaxQueries limits the number of live queries; NewQuery
	// fails beyond it. Zero means no limit.
	MaxQueries int

	// Draws records all indexed draws since the last Reset.
	Draws []Draw

	// ProxyDraws counts proxy box draws since the last Reset.
	ProxyDraws int

	// Deleted records all deleted queries, in order.
	Deleted []gpu.Query

	// Polls counts calls to QueryResult.
	Polls int

	queries map[gpu.Query]*query
	current gpu.Query
	next    gpu.Query
	bound   *Material
}

// NewDevice returns a new headless device with the given query latency.
func NewDevice(latency int) *Device {
	return &Device{Latency: latency, queries: map[gpu.Query]*query{}}
}

// Reset clears the recorded draws.
func (dv *Device) Reset() {
	dv.Draws = nil
	dv.ProxyDraws = 0
}

// LiveQueries returns the number of allocated, not deleted queries.
func (dv *Device) LiveQueries() int {
	return len(dv.queries)
}

func (dv *Device) NewQuery() (gpu.Query, error) {
	if dv.queries == nil {
		dv.queries = map[gpu.Query]*query{}
	}
	if dv.MaxQueries > 0 && len(dv.queries) >= dv.MaxQueries {
		return 0, fmt.Errorf("nullgpu: query limit of %d reached", dv.MaxQueries)
	}
	dv.next++
	dv.queries[dv.next] = &query{}
	return dv.next, nil
}

func (dv *Device) DeleteQuery(q gpu.Query) {
	delete(dv.queries, q)
	dv.Deleted = append(dv.Deleted, q)
}

func (dv *Device) BeginQuery(q gpu.Query) {
	qs, ok := dv.queries[q]
	if !ok {
		return
	}
	*qs = query{}
	dv.current = q
}

func (dv *Device) EndQuery(q gpu.Query) {
	if qs, ok := dv.queries[q]; ok {
		qs.ended = true
	}
	dv.current = 0
}

func (dv *Device) QueryResult(q gpu.Query) (uint32, bool) {
	dv.Polls++
	qs, ok := dv.queries[q]
	if !ok || !qs.ended {
		return 0, false
	}
	if qs.polls < dv.Latency {
		qs.polls++
		return 0, false
	}
	return qs.samples, true
}

func (dv *Device) DrawProxyBox(mvp mgl32.Mat4, box math32.Box3) {
	dv.ProxyDraws++
	qs, ok := dv.queries[dv.current]
	if !ok {
		return
	}
	if dv.Samples != nil {
		qs.samples += dv.Samples(mvp, box)
		return
	}
	for _, c := range box.Corners() {
		if mvp.Mul4x1(c.Vec4(1))[3] > 0 {
			qs.samples++
			return
		}
	}
}

func (dv *Device) DrawIndexed(g gpu.Geometry) {
	d := Draw{Geometry: g, Material: dv.bound}
	if dv.bound != nil {
		d.Transforms = dv.bound.Last
	}
	dv.Draws = append(dv.Draws, d)
}
