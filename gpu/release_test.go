// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReleaseQueue(t *testing.T) {
	rq := &ReleaseQueue{}
	var order []int
	rq.Push(func() { order = append(order, 1) })
	rq.Push(nil)
	rq.Push(func() {
		order = append(order, 2)
		rq.Push(func() { order = append(order, 3) })
	})
	assert.Equal(t, 2, rq.Len())
	assert.Empty(t, order)

	assert.Equal(t, 2, rq.Drain())
	assert.Equal(t, []int{1, 2}, order)
	assert.Equal(t, 1, rq.Len())

	assert.Equal(t, 1, rq.Drain())
	assert.Equal(t, []int{1, 2, 3}, order)
	assert.Equal(t, 0, rq.Drain())
}

func TestTransformsMVP(t *testing.T) {
	xf := &Transforms{}
	xf.Model[12] = 1
	xf.Model[0], xf.Model[5], xf.Model[10], xf.Model[15] = 1, 1, 1, 1
	xf.View = xf.Model
	xf.Projection = xf.Model
	xf.SetMVP()
	assert.Equal(t, float32(3), xf.MVP[12])
}
