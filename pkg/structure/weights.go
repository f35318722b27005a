package structure

import "sync"

// DefaultWeight is assumed for any (parent, child) pair without an overlay
// entry.
const DefaultWeight = 1

// Weights is the edge-weight overlay: a mapping from an ordered pair of
// node identities to a positive integer weight. It is independent of the
// tree structure: entries whose underlying edge has been deleted are
// orphaned and treated as advisory, never authoritative.
//
// A single Weights instance is shared by the general and binary forests of
// one sandbox session, matching the overlay's session-wide scope.
type Weights struct {
	mu      sync.RWMutex
	entries map[[2]string]int
}

// NewWeights creates an empty overlay.
func NewWeights() *Weights {
	return &Weights{entries: make(map[[2]string]int)}
}

// Get returns the weight for the (parent, child) pair, or DefaultWeight
// when no entry exists.
func (w *Weights) Get(parentID, childID string) int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if v, ok := w.entries[[2]string{parentID, childID}]; ok {
		return v
	}
	return DefaultWeight
}

// Set records a weight for the (parent, child) pair.
// Non-positive weights are clamped to DefaultWeight.
func (w *Weights) Set(parentID, childID string, weight int) {
	if weight < 1 {
		weight = DefaultWeight
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.entries[[2]string{parentID, childID}] = weight
}

// Materialize ensures an overlay entry exists for every internal edge of
// the fragment rooted at n, defaulting to DefaultWeight. Weight entries do
// not travel with detached subtrees, so reattachment calls this to restore
// a consistent overlay.
func (w *Weights) Materialize(n *Node) {
	if n == nil {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, e := range n.Edges() {
		if _, ok := w.entries[e]; !ok {
			w.entries[e] = DefaultWeight
		}
	}
}

// Len returns the number of overlay entries, orphaned ones included.
func (w *Weights) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.entries)
}
