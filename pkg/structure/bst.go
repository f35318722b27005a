package structure

import (
	"strconv"
	"sync"

	"github.com/google/uuid"
	"github.com/structlab/structlab/pkg/snapshot"
)

// BSTNode is a node of the ordered binary-search tree: an identity plus an
// integer key and two optional child slots. For every node, all keys in
// the left subtree are strictly less and all keys in the right subtree
// strictly greater.
type BSTNode struct {
	ID    string   `json:"id"`
	Key   int      `json:"key"`
	Left  *BSTNode `json:"left,omitempty"`
	Right *BSTNode `json:"right,omitempty"`
}

// BST is the single ordered binary-search tree of a sandbox session.
// There is no balancing; the shape depends on insertion order. All
// operations are safe for concurrent use.
type BST struct {
	mu   sync.RWMutex
	root *BSTNode
}

// NewBST creates an empty tree.
func NewBST() *BST {
	return &BST{}
}

// Insert adds key to the tree. Duplicate insertion is a no-op; the return
// value reports whether the tree changed.
func (b *BST) Insert(key int) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.insertLocked(key)
}

func (b *BST) insertLocked(key int) bool {
	node := &BSTNode{ID: uuid.NewString(), Key: key}
	if b.root == nil {
		b.root = node
		return true
	}
	cur := b.root
	for {
		switch {
		case key == cur.Key:
			return false
		case key < cur.Key:
			if cur.Left == nil {
				cur.Left = node
				return true
			}
			cur = cur.Left
		default:
			if cur.Right == nil {
				cur.Right = node
				return true
			}
			cur = cur.Right
		}
	}
}

// InsertAll inserts every key in order, skipping duplicates. Used by
// fragment reattachment, which moves values back in individually rather
// than grafting the fragment's original shape.
func (b *BST) InsertAll(keys ...int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, k := range keys {
		b.insertLocked(k)
	}
}

// Search reports whether key is present.
func (b *BST) Search(key int) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	cur := b.root
	for cur != nil {
		switch {
		case key == cur.Key:
			return true
		case key < cur.Key:
			cur = cur.Left
		default:
			cur = cur.Right
		}
	}
	return false
}

// FindMax returns the largest key (the rightmost node).
// The second result is false for an empty tree.
func (b *BST) FindMax() (int, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.root == nil {
		return 0, false
	}
	cur := b.root
	for cur.Right != nil {
		cur = cur.Right
	}
	return cur.Key, true
}

// Height returns 1 plus the maximum child height; the empty tree has
// height 0.
func (b *BST) Height() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return height(b.root)
}

func height(n *BSTNode) int {
	if n == nil {
		return 0
	}
	return 1 + max(height(n.Left), height(n.Right))
}

// Delete removes key from the tree in place: leaves are dropped,
// single-child nodes are replaced by the child, two-child nodes take the
// maximum of the left subtree followed by recursive deletion of that
// maximum. Returns false if the key is absent.
func (b *BST) Delete(key int) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !searchNode(b.root, key) {
		return false
	}
	b.root = deleteNode(b.root, key)
	return true
}

func searchNode(n *BSTNode, key int) bool {
	for n != nil {
		switch {
		case key == n.Key:
			return true
		case key < n.Key:
			n = n.Left
		default:
			n = n.Right
		}
	}
	return false
}

func deleteNode(n *BSTNode, key int) *BSTNode {
	if n == nil {
		return nil
	}
	switch {
	case key < n.Key:
		n.Left = deleteNode(n.Left, key)
	case key > n.Key:
		n.Right = deleteNode(n.Right, key)
	default:
		if n.Left == nil && n.Right == nil {
			return nil
		}
		if n.Left == nil {
			return n.Right
		}
		if n.Right == nil {
			return n.Left
		}
		maxLeft := n.Left
		for maxLeft.Right != nil {
			maxLeft = maxLeft.Right
		}
		n.Key = maxLeft.Key
		n.Left = deleteNode(n.Left, maxLeft.Key)
	}
	return n
}

// DetachSubtree removes the subtree rooted at the node holding key and
// returns it. Unlike forest detachment there is no child promotion: the
// whole subtree leaves the tree together, because reattachment reinserts
// its values individually and never grafts the original shape back.
// Returns false if the key is absent.
func (b *BST) DetachSubtree(key int) (*BSTNode, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.root == nil {
		return nil, false
	}
	if b.root.Key == key {
		d := b.root
		b.root = nil
		return d, true
	}

	parent := b.root
	for {
		var link **BSTNode
		if key < parent.Key {
			link = &parent.Left
		} else {
			link = &parent.Right
		}
		if *link == nil {
			return nil, false
		}
		if (*link).Key == key {
			d := *link
			*link = nil
			return d, true
		}
		parent = *link
	}
}

// Keys returns every key in the subtree rooted at n, in preorder.
func Keys(n *BSTNode) []int {
	if n == nil {
		return nil
	}
	out := []int{n.Key}
	out = append(out, Keys(n.Left)...)
	out = append(out, Keys(n.Right)...)
	return out
}

// Reset discards every key.
func (b *BST) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.root = nil
}

// InOrder returns the tree's keys in ascending order.
func (b *BST) InOrder() []int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	var out []int
	var walk func(*BSTNode)
	walk = func(n *BSTNode) {
		if n == nil {
			return
		}
		walk(n.Left)
		out = append(out, n.Key)
		walk(n.Right)
	}
	walk(b.root)
	return out
}

// Snapshot dumps the tree structure with keys as labels.
func (b *BST) Snapshot() snapshot.Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return BSTSnapshot(b.root)
}

// BSTSnapshot dumps the subtree rooted at n in the shared snapshot format.
func BSTSnapshot(n *BSTNode) snapshot.Snapshot {
	var s snapshot.Snapshot
	if n == nil {
		return s
	}
	rootID := n.ID
	var walk func(*BSTNode)
	walk = func(p *BSTNode) {
		if p == nil {
			return
		}
		s.Nodes = append(s.Nodes, snapshot.Node{
			ID:    p.ID,
			Label: strconv.Itoa(p.Key),
			Root:  p.ID == rootID,
		})
		for _, c := range []*BSTNode{p.Left, p.Right} {
			if c != nil {
				s.Edges = append(s.Edges, snapshot.Edge{From: p.ID, To: c.ID, Weight: DefaultWeight})
			}
		}
		walk(p.Left)
		walk(p.Right)
	}
	walk(n)
	return s
}
