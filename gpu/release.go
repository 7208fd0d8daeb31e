// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

// ReleaseQueue holds GPU resource release actions that must not run
// while the resources may still be referenced by an in-flight draw.
// Actions are pushed at any time during a frame and run by [ReleaseQueue.Drain]
// once per frame, after all eyes have been submitted.
// It is only used from the render thread.
type ReleaseQueue struct {
	pending []func()
}

// Push adds the given release action to the queue.
func (rq *ReleaseQueue) Push(fun func()) {
	if fun == nil {
		return
	}
	rq.pending = append(rq.pending, fun)
}

// Len returns the number of pending actions.
func (rq *ReleaseQueue) Len() int {
	return len(rq.pending)
}

// Drain runs all pending actions in the order they were pushed and
// returns how many ran. Actions pushed while draining run in the
// next call.
func (rq *ReleaseQueue) Drain() int {
	cur := rq.pending
	rq.pending = nil
	for _, fun := range cur {
		fun()
	}
	return len(cur)
}
