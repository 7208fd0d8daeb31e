// Copyright (c) 2019, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xyz

import (
	"fmt"

	"cogentcore.org/xr/base/errors"
)

var (
	// ErrStructural is returned when an operation would make the
	// node graph cyclic, or would link nodes of different scenes.
	ErrStructural = errors.New("xyz: structural error")

	// ErrIndex is returned for an out of range child index.
	ErrIndex = errors.New("xyz: child index out of range")

	// ErrMissingDrawable is returned for an operation that needs
	// a drawable on a node that has none.
	ErrMissingDrawable = errors.New("xyz: node has no drawable")

	// ErrStaleNode is returned when a destroyed node is used.
	ErrStaleNode = errors.New("xyz: node has been destroyed")

	// ErrEye is returned for an eye index other than 0 or 1.
	ErrEye = errors.New("xyz: eye index out of range")
)

// NodeError records a failed node operation.
type NodeError struct {
	Op   string
	Node string
	Err  error
}

func (e *NodeError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Op, e.Node, e.Err)
}

func (e *NodeError) Unwrap() error { return e.Err }

func nodeError(op string, n *Node, err error) error {
	name := ""
	if n != nil {
		name = n.Name
	}
	return &NodeError{Op: op, Node: name, Err: err}
}
