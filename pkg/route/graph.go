// Package route implements the transit route planner: a weighted
// undirected multigraph over named stations with a shortest-path query
// ordered by a two-component (minutes, meters) cost, minutes primary.
//
// The planner graph is built once (see Manila for the preloaded network)
// and is a read-only routing target afterwards; it is distinct from the
// user-editable ad-hoc graph in pkg/sandbox.
package route

import (
	"container/heap"
	"slices"

	"github.com/structlab/structlab/pkg/snapshot"
)

// Edge is one traversal option from a station: the neighbor plus the
// (minutes, meters) cost pair. Parallel edges between the same pair of
// stations are kept as distinct entries.
type Edge struct {
	To      string
	Minutes int
	Meters  int
}

// Graph is an undirected multigraph keyed by station name.
// It is not safe for concurrent mutation; build it fully before sharing.
type Graph struct {
	adj map[string][]Edge
}

// NewGraph creates an empty planner graph.
func NewGraph() *Graph {
	return &Graph{adj: make(map[string][]Edge)}
}

// AddEdge connects u and v symmetrically with the given cost pair.
// Stations are created implicitly on first mention.
func (g *Graph) AddEdge(u, v string, minutes, meters int) {
	g.adj[u] = append(g.adj[u], Edge{To: v, Minutes: minutes, Meters: meters})
	g.adj[v] = append(g.adj[v], Edge{To: u, Minutes: minutes, Meters: meters})
}

// Has reports whether the station exists.
func (g *Graph) Has(station string) bool {
	_, ok := g.adj[station]
	return ok
}

// Stations returns every station name in sorted order.
func (g *Graph) Stations() []string {
	out := make([]string, 0, len(g.adj))
	for s := range g.adj {
		out = append(out, s)
	}
	slices.Sort(out)
	return out
}

// EdgeList returns each undirected edge exactly once, endpoints ordered
// lexicographically. Used by the layout and rendering layers.
func (g *Graph) EdgeList() [][2]string {
	var out [][2]string
	for u, edges := range g.adj {
		for _, e := range edges {
			if u < e.To {
				out = append(out, [2]string{u, e.To})
			}
		}
	}
	slices.SortFunc(out, func(a, b [2]string) int {
		if a[0] != b[0] {
			if a[0] < b[0] {
				return -1
			}
			return 1
		}
		if a[1] < b[1] {
			return -1
		}
		if a[1] > b[1] {
			return 1
		}
		return 0
	})
	return out
}

// Snapshot dumps the network in the shared display format: stations as
// nodes keyed by name, each undirected edge once with travel minutes as
// its weight. The dump is deterministic.
func (g *Graph) Snapshot() snapshot.Snapshot {
	var s snapshot.Snapshot
	for _, station := range g.Stations() {
		s.Nodes = append(s.Nodes, snapshot.Node{ID: station, Label: station})
	}
	for _, pair := range g.EdgeList() {
		s.Edges = append(s.Edges, snapshot.Edge{
			From:   pair[0],
			To:     pair[1],
			Weight: g.minutesBetween(pair[0], pair[1]),
		})
	}
	return s
}

// minutesBetween returns the cheapest minutes among parallel edges.
func (g *Graph) minutesBetween(u, v string) int {
	best := 0
	for _, e := range g.adj[u] {
		if e.To == v && (best == 0 || e.Minutes < best) {
			best = e.Minutes
		}
	}
	return best
}

// Path is a shortest-path result: the ordered station sequence and the
// accumulated cost pair. A nil Stations slice means src and dst are
// disconnected or unknown; both totals are zero in that case.
type Path struct {
	Stations []string `json:"stations"`
	Minutes  int      `json:"minutes"`
	Meters   int      `json:"meters"`
}

// frontierItem is one tentative route on the priority frontier.
// parent links reconstruct the station sequence once dst is finalized.
type frontierItem struct {
	station string
	minutes int
	meters  int
	seq     int // insertion order, the final tie-breaker
	parent  *frontierItem
}

type frontier []*frontierItem

func (f frontier) Len() int { return len(f) }

func (f frontier) Less(i, j int) bool {
	if f[i].minutes != f[j].minutes {
		return f[i].minutes < f[j].minutes
	}
	if f[i].meters != f[j].meters {
		return f[i].meters < f[j].meters
	}
	return f[i].seq < f[j].seq
}

func (f frontier) Swap(i, j int) { f[i], f[j] = f[j], f[i] }

func (f *frontier) Push(x any) { *f = append(*f, x.(*frontierItem)) }

func (f *frontier) Pop() any {
	old := *f
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*f = old[:n-1]
	return item
}

// ShortestPath runs a priority-first search from src to dst over the
// cumulative (minutes, meters) cost, minutes primary. A station is
// finalized when first popped and never re-expanded. Unknown or
// disconnected endpoints yield an empty path with zero totals.
func (g *Graph) ShortestPath(src, dst string) Path {
	if !g.Has(src) || !g.Has(dst) {
		return Path{}
	}

	seen := make(map[string]bool, len(g.adj))
	seq := 0
	pq := &frontier{{station: src}}
	heap.Init(pq)

	for pq.Len() > 0 {
		cur := heap.Pop(pq).(*frontierItem)
		if seen[cur.station] {
			continue
		}
		if cur.station == dst {
			return Path{
				Stations: routeOf(cur),
				Minutes:  cur.minutes,
				Meters:   cur.meters,
			}
		}
		seen[cur.station] = true

		for _, e := range g.adj[cur.station] {
			if seen[e.To] {
				continue
			}
			seq++
			heap.Push(pq, &frontierItem{
				station: e.To,
				minutes: cur.minutes + e.Minutes,
				meters:  cur.meters + e.Meters,
				seq:     seq,
				parent:  cur,
			})
		}
	}
	return Path{}
}

func routeOf(item *frontierItem) []string {
	var rev []string
	for cur := item; cur != nil; cur = cur.parent {
		rev = append(rev, cur.station)
	}
	slices.Reverse(rev)
	return rev
}
