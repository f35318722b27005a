package structure

import (
	"sync"

	"github.com/structlab/structlab/pkg/errors"
	"github.com/structlab/structlab/pkg/snapshot"
)

// Forest owns zero or more independent tree roots of one kind (general
// n-ary or strict binary). Forests are explicitly multi-rooted: insertions
// with no (or an unresolvable) parent reference grow the root list rather
// than erroring or merging into one tree.
//
// All operations are safe for concurrent use; each read-modify-write
// sequence holds the forest mutex for its full duration.
type Forest struct {
	mu      sync.RWMutex
	kind    Kind
	roots   []*Node
	weights *Weights
}

// NewForest creates an empty forest of the given kind. The weight overlay
// may be shared with other structures of the same session; a nil overlay
// gets a private one.
func NewForest(kind Kind, weights *Weights) *Forest {
	if weights == nil {
		weights = NewWeights()
	}
	return &Forest{kind: kind, weights: weights}
}

// Kind returns the structural kind of the forest.
func (f *Forest) Kind() Kind { return f.kind }

// Weights returns the forest's edge-weight overlay.
func (f *Forest) Weights() *Weights { return f.weights }

// Lookup resolves key to a node by breadth-first search across all roots
// in insertion order. A node matches on identity first, then on its label's
// string form. When two nodes share a label the BFS-first one wins; the
// fallback is lossy and callers must not rely on it for disambiguation.
func (f *Forest) Lookup(key string) (*Node, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.lookupLocked(key)
}

func (f *Forest) lookupLocked(key string) (*Node, bool) {
	// Identity matches win over label matches anywhere in the forest, so
	// a label that happens to collide with another node's ID cannot
	// shadow it.
	if n, ok := f.scanLocked(func(n *Node) bool { return n.ID == key }); ok {
		return n, true
	}
	return f.scanLocked(func(n *Node) bool { return n.Label == key })
}

func (f *Forest) scanLocked(match func(*Node) bool) (*Node, bool) {
	for _, root := range f.roots {
		queue := []*Node{root}
		for len(queue) > 0 {
			n := queue[0]
			queue = queue[1:]
			if match(n) {
				return n, true
			}
			queue = append(queue, n.kids()...)
		}
	}
	return nil, false
}

// Insert creates a new node holding value and places it:
//
//   - empty forest, or no parent key: the node becomes a (new) root;
//   - parent resolves: the node goes into the parent's first unoccupied
//     child slot, or (binary trees only) into the first descendant with
//     a free slot found by breadth-first search from the parent;
//   - parent does not resolve: the node becomes a new root. Malformed
//     references degrade to root insertion rather than failing.
//
// The side hint selects which slot of the resolved parent to try first and
// is ignored by general forests. The created node is returned.
func (f *Forest) Insert(value, parentKey string, side Side) *Node {
	n := NewNode(value)

	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.roots) == 0 || parentKey == "" {
		f.roots = append(f.roots, n)
		return n
	}
	parent, ok := f.lookupLocked(parentKey)
	if !ok {
		f.roots = append(f.roots, n)
		return n
	}
	f.placeLocked(parent, n, side)
	return n
}

// placeLocked attaches child under parent following the kind's placement
// policy. Binary subtrees always have a reachable free slot, so the BFS
// descent terminates.
func (f *Forest) placeLocked(parent, child *Node, side Side) {
	if f.kind == KindGeneral {
		parent.Children = append(parent.Children, child)
		return
	}

	first, second := &parent.Left, &parent.Right
	if side == SideRight {
		first, second = second, first
	}
	if *first == nil {
		*first = child
		return
	}
	if *second == nil {
		*second = child
		return
	}

	queue := []*Node{parent.Left, parent.Right}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		if n.Left == nil {
			n.Left = child
			return
		}
		if n.Right == nil {
			n.Right = child
			return
		}
		queue = append(queue, n.Left, n.Right)
	}
}

// Detach removes the node with the given identity from the forest. Every
// immediate child of the detached node is promoted to a new forest root,
// so the remaining structure stays valid and no node is silently lost.
// The detached node (stripped of its promoted children) is returned for
// registration; ownership passes to the caller. Returns false if the
// identity is absent.
//
// Exactly one node is detached per call.
func (f *Forest) Detach(id string) (*Node, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var detached *Node
	for i, root := range f.roots {
		if root.ID == id {
			detached = root
			f.roots = append(f.roots[:i], f.roots[i+1:]...)
			break
		}
		if d := f.detachBelowLocked(root, id); d != nil {
			detached = d
			break
		}
	}
	if detached == nil {
		return nil, false
	}

	// Promote children, then strip them from the fragment so every node
	// keeps exactly one owner. Orphaned weight entries stay behind as
	// advisory data.
	promoted := detached.kids()
	detached.Left, detached.Right, detached.Children = nil, nil, nil
	f.roots = append(f.roots, promoted...)
	return detached, true
}

// detachBelowLocked searches the subtree under root for a child link whose
// node has the given identity, nulls the link out, and returns the node.
func (f *Forest) detachBelowLocked(root *Node, id string) *Node {
	queue := []*Node{root}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		if n.Left != nil && n.Left.ID == id {
			d := n.Left
			n.Left = nil
			return d
		}
		if n.Right != nil && n.Right.ID == id {
			d := n.Right
			n.Right = nil
			return d
		}
		for i, c := range n.Children {
			if c != nil && c.ID == id {
				n.Children = append(n.Children[:i], n.Children[i+1:]...)
				return c
			}
		}
		queue = append(queue, n.kids()...)
	}
	return nil
}

// Attach inserts a previously detached fragment. With no parent key the
// fragment's root becomes a new forest root. With a parent key the parent
// must resolve. Unlike Insert, reattachment never degrades to root
// insertion: ErrCodeParentNotFound is returned and the caller
// keeps ownership of the fragment.
//
// On success, weight-overlay entries for the fragment's internal edges are
// materialized with the default weight where absent.
func (f *Forest) Attach(frag *Node, parentKey string) error {
	if frag == nil {
		return errors.New(errors.ErrCodeInvalidInput, "nil fragment")
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if parentKey == "" {
		f.roots = append(f.roots, frag)
		f.weights.Materialize(frag)
		return nil
	}
	parent, ok := f.lookupLocked(parentKey)
	if !ok {
		return errors.New(errors.ErrCodeParentNotFound, "parent %q not found", parentKey)
	}
	f.placeLocked(parent, frag, SideAny)
	f.weights.Materialize(frag)
	return nil
}

// Reset removes every tree from the forest. The weight overlay keeps its
// entries; they become advisory orphans.
func (f *Forest) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.roots = nil
}

// RootCount returns the number of independent trees in the forest.
func (f *Forest) RootCount() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.roots)
}

// NodeCount returns the total number of nodes across all trees.
func (f *Forest) NodeCount() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	total := 0
	for _, root := range f.roots {
		total += root.Size()
	}
	return total
}

// Snapshot dumps the forest structure: every node with its label, every
// parent→child relation with its overlay weight, roots flagged. Nodes
// appear in preorder per root, roots in insertion order.
func (f *Forest) Snapshot() snapshot.Snapshot {
	f.mu.RLock()
	defer f.mu.RUnlock()

	var s snapshot.Snapshot
	for _, root := range f.roots {
		rootID := root.ID
		root.Walk(func(n *Node) {
			s.Nodes = append(s.Nodes, snapshot.Node{
				ID:    n.ID,
				Label: n.Label,
				Root:  n.ID == rootID,
			})
			for _, c := range n.kids() {
				s.Edges = append(s.Edges, snapshot.Edge{
					From:   n.ID,
					To:     c.ID,
					Weight: f.weights.Get(n.ID, c.ID),
				})
			}
		})
	}
	return s
}

// SubtreeSnapshot dumps a single fragment in the same format as Snapshot.
// Used to report a detached fragment before it enters the registry.
func SubtreeSnapshot(n *Node, weights *Weights) snapshot.Snapshot {
	var s snapshot.Snapshot
	if n == nil {
		return s
	}
	rootID := n.ID
	n.Walk(func(p *Node) {
		s.Nodes = append(s.Nodes, snapshot.Node{
			ID:    p.ID,
			Label: p.Label,
			Root:  p.ID == rootID,
		})
		for _, c := range p.kids() {
			e := snapshot.Edge{From: p.ID, To: c.ID, Weight: DefaultWeight}
			if weights != nil {
				e.Weight = weights.Get(p.ID, c.ID)
			}
			s.Edges = append(s.Edges, e)
		}
	})
	return s
}
