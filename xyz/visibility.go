// Copyright (c) 2019, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xyz

import (
	"cogentcore.org/xr/gpu"
)

// QueryState is the occlusion query state of a node.
type QueryState int32

const (
	// NotQueried means no occlusion query is pending for the node.
	NotQueried QueryState = iota

	// QueryInFlight means a query was issued and its result
	// has not been read yet.
	QueryInFlight

	// QueryResultAvailable means the result of the last query was
	// read in the current pass.
	QueryResultAvailable
)

var queryStateNames = [...]string{"NotQueried", "QueryInFlight", "QueryResultAvailable"}

func (qs QueryState) String() string {
	if qs < 0 || int(qs) >= len(queryStateNames) {
		return "QueryState(?)"
	}
	return queryStateNames[qs]
}

// IsVisible returns the debounced visibility of this node.
func (n *Node) IsVisible() bool {
	return n.visible
}

// SetVisible records one visibility sample for this node. It does not
// set the visibility directly: samples are accumulated in a signed
// counter, and the visibility only flips to true when the counter
// exceeds the scene visibility threshold, or to false when it falls
// below minus the threshold. The counter restarts after a flip.
func (n *Node) SetVisible(visible bool) {
	if visible {
		n.visCount++
	} else {
		n.visCount--
	}
	th := DefaultVisibilityThreshold
	if n.scene != nil {
		th = n.scene.VisibilityThreshold
	}
	switch {
	case n.visCount > th:
		n.visible = true
		n.visCount = 0
	case n.visCount < -th:
		n.visible = false
		n.visCount = 0
	}
}

// QueryState returns the occlusion query state of this node.
func (n *Node) QueryState() QueryState {
	return n.queryState
}

// Query returns the occlusion query of this node, which is
// zero until the culler first needs one.
func (n *Node) Query() gpu.Query {
	return n.query
}
