// Package structure implements the in-memory structure sandbox: multi-root
// general and binary tree forests with identity-or-label lookup, constrained
// insertion placement, detachment with child promotion, and an ordered
// binary-search tree over integer keys.
//
// All mutating operations are guarded by a per-structure mutex, so a Forest
// or BST may be shared across concurrent requests. Detached fragments are
// handed to a registry by the coordinating session layer; this package only
// produces and consumes them.
package structure

import (
	"github.com/google/uuid"
)

// Kind identifies the structural family a forest or fragment belongs to.
type Kind string

const (
	// KindGeneral is a multi-root forest of n-ary trees.
	KindGeneral Kind = "general"
	// KindBinary is a multi-root forest of strict binary trees.
	KindBinary Kind = "binary"
	// KindBST is the single ordered binary-search tree.
	KindBST Kind = "bst"
)

// Valid reports whether k names a known structural kind.
func (k Kind) Valid() bool {
	switch k {
	case KindGeneral, KindBinary, KindBST:
		return true
	}
	return false
}

// Side is a placement hint for binary insertion: which child slot of the
// resolved parent to try first. General trees ignore it.
type Side int

const (
	// SideAny tries the left slot first, then the right.
	SideAny Side = iota
	// SideLeft prefers the left slot.
	SideLeft
	// SideRight prefers the right slot.
	SideRight
)

// ParseSide maps the wire form ("left", "right", or empty) to a Side.
// Unknown values degrade to SideAny.
func ParseSide(s string) Side {
	switch s {
	case "left":
		return SideLeft
	case "right":
		return SideRight
	}
	return SideAny
}

// Node is a labeled tree node. The ID is an opaque unique token, stable for
// the node's lifetime. Label is arbitrary text used for display and as a
// fallback lookup key. General trees use Children; binary trees use the
// Left and Right slots. A node is exclusively owned by its parent (or by
// the forest's root list), never both.
type Node struct {
	ID       string  `json:"id"`
	Label    string  `json:"label"`
	Left     *Node   `json:"left,omitempty"`
	Right    *Node   `json:"right,omitempty"`
	Children []*Node `json:"children,omitempty"`
}

// NewNode creates a node with a fresh identity and the given label.
func NewNode(label string) *Node {
	return &Node{ID: uuid.NewString(), Label: label}
}

// kids returns the node's immediate children in display order.
// General nodes report Children; binary nodes report the occupied slots.
func (n *Node) kids() []*Node {
	if len(n.Children) > 0 {
		out := make([]*Node, 0, len(n.Children))
		for _, c := range n.Children {
			if c != nil {
				out = append(out, c)
			}
		}
		return out
	}
	var out []*Node
	if n.Left != nil {
		out = append(out, n.Left)
	}
	if n.Right != nil {
		out = append(out, n.Right)
	}
	return out
}

// Walk visits the subtree rooted at n in preorder.
func (n *Node) Walk(fn func(*Node)) {
	if n == nil {
		return
	}
	fn(n)
	for _, c := range n.kids() {
		c.Walk(fn)
	}
}

// Size returns the number of nodes in the subtree rooted at n.
func (n *Node) Size() int {
	count := 0
	n.Walk(func(*Node) { count++ })
	return count
}

// Edges returns the (parent ID, child ID) pairs internal to the subtree
// rooted at n, in preorder. Used to rematerialize weight-overlay entries
// when a fragment is attached.
func (n *Node) Edges() [][2]string {
	var out [][2]string
	n.Walk(func(p *Node) {
		for _, c := range p.kids() {
			out = append(out, [2]string{p.ID, c.ID})
		}
	})
	return out
}
