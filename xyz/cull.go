// Copyright (c) 2019, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xyz

import (
	"cmp"
	"fmt"
	"log/slog"
	"slices"

	"cogentcore.org/xr/gpu"
	"cogentcore.org/xr/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// DrawItem is one drawable that survived culling.
type DrawItem struct {

	// Node owning the drawable.
	Node *Node

	// Drawable to draw.
	Drawable *Drawable

	// World is the world matrix of the node at culling time.
	World mgl32.Mat4

	// Distance is the distance from the eye to the node.
	Distance float32
}

// Culler computes the set of drawables to draw for one eye: those
// inside the view frustum, within their LOD range, and not occluded
// according to the debounced results of occlusion queries.
type Culler struct {

	// Device issues the occlusion queries.
	Device gpu.Device

	// Options control which culling steps run.
	Options Options

	frustum math32.Frustum
	eyePos  mgl32.Vec3
	vp      mgl32.Mat4
	items   []DrawItem
	stats   *Stats
}

// Cull returns the drawables to draw for the current eye of the scene,
// ordered by material sort key and then from front to back.
// Only a failure to allocate an occlusion query is an error.
// A degenerate view projection yields no items.
// The returned slice is reused by the next call.
func (cl *Culler) Cull(sc *Scene, st *Stats) ([]DrawItem, error) {
	if st == nil {
		st = &Stats{}
	}
	cl.stats = st
	cl.items = cl.items[:0]
	cl.vp = sc.ViewProjection()
	cl.frustum.SetFromMatrix(&cl.vp)
	if cl.frustum.Degenerate {
		slog.Debug("xyz: degenerate view frustum", "scene", sc.Name, "eye", sc.Eye)
		return cl.items, nil
	}
	cl.eyePos = math32.Translation(sc.View.Inv())
	var err error
	sc.Root().WalkDown(func(n *Node) bool {
		if err != nil {
			return Break
		}
		var visit bool
		visit, err = cl.cullNode(n)
		return visit
	})
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(cl.items, func(a, b DrawItem) int {
		if c := cmp.Compare(sortKey(a.Drawable), sortKey(b.Drawable)); c != 0 {
			return c
		}
		return cmp.Compare(a.Distance, b.Distance)
	})
	return cl.items, nil
}

func sortKey(d *Drawable) uint64 {
	if d.Material == nil {
		return 0
	}
	return d.Material.SortKey()
}

// cullNode culls the given node, emitting its drawable if it survives.
// It returns whether the children of the node should be visited.
func (cl *Culler) cullNode(n *Node) (bool, error) {
	cl.stats.Visited++
	if cl.Options.Frustum {
		sb := n.SubtreeBBox()
		if sb.IsEmpty() {
			return Break, nil
		}
		if !cl.frustum.IntersectsBox(sb) {
			cl.stats.FrustumCulled += countDrawables(n)
			return Break, nil
		}
	}
	d := n.drawable
	if d == nil || d.Geometry == nil {
		return Continue, nil
	}
	wb, err := n.WorldBBox()
	if err != nil {
		return Continue, nil
	}
	if cl.Options.Frustum && !cl.frustum.IntersectsBox(wb) {
		cl.stats.FrustumCulled++
		return Continue, nil
	}
	world := n.WorldMatrix()
	dist := math32.Translation(world).Sub(cl.eyePos).Len()
	if n.lodActive && !n.lod.Contains(dist) {
		cl.stats.LODCulled++
		return Continue, nil
	}
	if cl.Options.Occlusion {
		if err := cl.occlusion(n, wb); err != nil {
			return Break, err
		}
		if !n.visible {
			cl.stats.Occluded++
			return Continue, nil
		}
	}
	cl.items = append(cl.items, DrawItem{Node: n, Drawable: d, World: world, Distance: dist})
	return Continue, nil
}

// occlusion advances the occlusion query state of the given node,
// whose world bounding box is wb. It never waits for a result.
func (cl *Culler) occlusion(n *Node, wb math32.Box3) error {
	dev := cl.Device
	if n.queryState == QueryInFlight {
		samples, ready := dev.QueryResult(n.query)
		if !ready {
			cl.stats.QueriesPending++
			return nil
		}
		n.queryState = QueryResultAvailable
		n.SetVisible(samples > 0)
		cl.stats.QueriesRead++
		slog.Debug("xyz: occlusion query result", "node", n.Name, "samples", samples, "visible", n.visible)
		n.queryState = NotQueried
		n.framesSinceQuery = 0
		return nil
	}
	interval := max(cl.Options.QueryInterval, 1)
	if n.query != 0 {
		n.framesSinceQuery++
		if n.framesSinceQuery < interval {
			return nil
		}
	}
	if n.query == 0 {
		q, err := dev.NewQuery()
		if err != nil {
			return nodeError("occlusion query", n, fmt.Errorf("creating query: %w", err))
		}
		n.query = q
	}
	dev.BeginQuery(n.query)
	dev.DrawProxyBox(cl.vp, wb)
	dev.EndQuery(n.query)
	n.queryState = QueryInFlight
	cl.stats.QueriesIssued++
	slog.Debug("xyz: occlusion query issued", "node", n.Name, "query", n.query)
	return nil
}

// countDrawables returns the number of drawables in the subtree of n.
func countDrawables(n *Node) int {
	count := 0
	n.WalkDown(func(cn *Node) bool {
		if cn.drawable != nil {
			count++
		}
		return Continue
	})
	return count
}
