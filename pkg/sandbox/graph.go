// Package sandbox implements the user-editable ad-hoc graph: named
// vertices with single integer edge weights, structural editing only.
// Shortest-path queries are the transit planner's job (pkg/route); this
// graph exists for interactive construction plus layout display.
package sandbox

import (
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/structlab/structlab/pkg/errors"
	"github.com/structlab/structlab/pkg/snapshot"
)

// Vertex is a displayable graph vertex.
type Vertex struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// edgeKey is the normalized unordered vertex pair.
type edgeKey [2]string

func keyOf(u, v string) edgeKey {
	if u > v {
		u, v = v, u
	}
	return edgeKey{u, v}
}

// Graph is a weighted undirected graph under interactive construction.
// Parallel edge insertion collapses into the existing edge by weight
// increment. All operations are safe for concurrent use.
type Graph struct {
	mu       sync.RWMutex
	vertices []Vertex // insertion order, for stable snapshots
	index    map[string]int
	edges    map[edgeKey]int
}

// NewGraph creates an empty ad-hoc graph.
func NewGraph() *Graph {
	return &Graph{
		index: make(map[string]int),
		edges: make(map[edgeKey]int),
	}
}

// AddVertex creates a vertex with a fresh identity and returns it.
func (g *Graph) AddVertex(label string) Vertex {
	v := Vertex{ID: uuid.NewString(), Label: label}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.index[v.ID] = len(g.vertices)
	g.vertices = append(g.vertices, v)
	return v
}

// DeleteVertex removes the vertex and every incident edge.
// Returns ErrCodeNotFound if the identity is unknown.
func (g *Graph) DeleteVertex(id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	i, ok := g.index[id]
	if !ok {
		return errors.New(errors.ErrCodeNotFound, "vertex %q not found", id)
	}
	g.vertices = append(g.vertices[:i], g.vertices[i+1:]...)
	delete(g.index, id)
	for j := i; j < len(g.vertices); j++ {
		g.index[g.vertices[j].ID] = j
	}
	for k := range g.edges {
		if k[0] == id || k[1] == id {
			delete(g.edges, k)
		}
	}
	return nil
}

// AddEdge connects u and v. A repeated insertion collapses into the
// existing edge by incrementing its weight instead of creating a second
// edge. Returns ErrCodeNotFound if either endpoint is unknown.
func (g *Graph) AddEdge(u, v string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.checkEndpointsLocked(u, v); err != nil {
		return err
	}
	g.edges[keyOf(u, v)]++
	return nil
}

// SetWeight assigns an explicit weight to the u–v edge, creating it when
// absent. Non-positive weights are clamped to 1.
func (g *Graph) SetWeight(u, v string, weight int) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.checkEndpointsLocked(u, v); err != nil {
		return err
	}
	if weight < 1 {
		weight = 1
	}
	g.edges[keyOf(u, v)] = weight
	return nil
}

func (g *Graph) checkEndpointsLocked(u, v string) error {
	if _, ok := g.index[u]; !ok {
		return errors.New(errors.ErrCodeNotFound, "vertex %q not found", u)
	}
	if _, ok := g.index[v]; !ok {
		return errors.New(errors.ErrCodeNotFound, "vertex %q not found", v)
	}
	return nil
}

// Reset removes every vertex and edge.
func (g *Graph) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.vertices = nil
	g.index = make(map[string]int)
	g.edges = make(map[edgeKey]int)
}

// VertexCount returns the number of vertices.
func (g *Graph) VertexCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.vertices)
}

// EdgeCount returns the number of distinct undirected edges.
func (g *Graph) EdgeCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.edges)
}

// Weight returns the weight of the u–v edge and whether it exists.
func (g *Graph) Weight(u, v string) (int, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	w, ok := g.edges[keyOf(u, v)]
	return w, ok
}

// Snapshot dumps vertices in insertion order and each undirected edge
// once with its weight. The dump is sorted edge-wise for determinism.
func (g *Graph) Snapshot() snapshot.Snapshot {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var s snapshot.Snapshot
	for _, v := range g.vertices {
		s.Nodes = append(s.Nodes, snapshot.Node{ID: v.ID, Label: v.Label})
	}
	for k, w := range g.edges {
		s.Edges = append(s.Edges, snapshot.Edge{From: k[0], To: k[1], Weight: w})
	}
	// Only edges come from map iteration; vertex order is meaningful.
	sort.Slice(s.Edges, func(i, j int) bool {
		if s.Edges[i].From != s.Edges[j].From {
			return s.Edges[i].From < s.Edges[j].From
		}
		return s.Edges[i].To < s.Edges[j].To
	})
	return s
}
