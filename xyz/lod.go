// Copyright (c) 2019, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xyz

import (
	"cogentcore.org/xr/math32"
)

// LODRange is a range of distances from the eye, [Min, Max),
// within which a node is drawn.
type LODRange struct {
	Min float32
	Max float32
}

// DefaultLODRange returns the range that includes every distance.
func DefaultLODRange() LODRange {
	return LODRange{Min: 0, Max: math32.MaxFloat32}
}

// Contains returns true if the given distance is within the range.
func (lr LODRange) Contains(dist float32) bool {
	return dist >= lr.Min && dist < lr.Max
}

// SetLODRange sets the range of eye distances within which the drawable
// of this node is drawn, and activates the range check for this node.
// The children of the node are checked independently.
func (n *Node) SetLODRange(minDist, maxDist float32) *Node {
	n.lod = LODRange{Min: minDist, Max: maxDist}
	n.lodActive = true
	return n
}

// ClearLODRange resets the range and deactivates the range check.
func (n *Node) ClearLODRange() *Node {
	n.lod = DefaultLODRange()
	n.lodActive = false
	return n
}

// LODRange returns the LOD range of this node.
func (n *Node) LODRange() LODRange {
	return n.lod
}

// LODActive returns true if the LOD range is checked for this node.
func (n *Node) LODActive() bool {
	return n.lodActive
}
