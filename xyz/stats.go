// Copyright (c) 2019, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xyz

// Stats are the counters of one eye pass.
type Stats struct {

	// Visited is the number of nodes visited.
	Visited int

	// FrustumCulled is the number of drawables outside the frustum,
	// including those in skipped subtrees.
	FrustumCulled int

	// LODCulled is the number of drawables outside their LOD range.
	LODCulled int

	// Occluded is the number of drawables whose debounced
	// visibility is false.
	Occluded int

	// QueriesIssued is the number of occlusion queries issued.
	QueriesIssued int

	// QueriesRead is the number of occlusion query results read.
	QueriesRead int

	// QueriesPending is the number of polls that found no result yet.
	QueriesPending int

	// Drawn is the number of drawables submitted.
	Drawn int

	// BindErrors is the number of drawables skipped because their
	// material failed to bind.
	BindErrors int
}

// Add adds the other stats to these.
func (st *Stats) Add(o *Stats) {
	st.Visited += o.Visited
	st.FrustumCulled += o.FrustumCulled
	st.LODCulled += o.LODCulled
	st.Occluded += o.Occluded
	st.QueriesIssued += o.QueriesIssued
	st.QueriesRead += o.QueriesRead
	st.QueriesPending += o.QueriesPending
	st.Drawn += o.Drawn
	st.BindErrors += o.BindErrors
}
