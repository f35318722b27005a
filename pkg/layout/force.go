// Package layout computes 2D positions for graph snapshots with a
// Fruchterman-Reingold style force simulation. Positions are advisory
// display coordinates; the structures themselves never store geometry.
package layout

import (
	"math"
	"math/rand/v2"

	"github.com/structlab/structlab/pkg/snapshot"
)

type Options struct {
	Width      float64
	Height     float64
	Margin     float64
	Iterations int
	Step       float64
	Damping    float64
	Seed       uint64
}

var defaultOpts = Options{
	Width:      1200,
	Height:     800,
	Margin:     50,
	Iterations: 100,
	Step:       0.1,
	Damping:    0.9,
	Seed:       1,
}

// Compute runs the simulation over the snapshot and returns one position
// per node, in the snapshot's node order. Identical input and seed yield
// identical output. A nil opts selects the default canvas and schedule.
func Compute(s snapshot.Snapshot, opts *Options) []snapshot.Placed {
	if opts == nil {
		opts = &defaultOpts
	}
	n := len(s.Nodes)
	if n == 0 {
		return nil
	}

	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed^0xdeadbeef))
	xs := make([]float64, n)
	ys := make([]float64, n)
	for i := range s.Nodes {
		xs[i] = opts.Margin + rng.Float64()*(opts.Width-2*opts.Margin)
		ys[i] = opts.Margin + rng.Float64()*(opts.Height-2*opts.Margin)
	}

	if n > 1 {
		simulate(s, xs, ys, opts)
	}

	placed := make([]snapshot.Placed, n)
	for i, node := range s.Nodes {
		placed[i] = snapshot.Placed{ID: node.ID, X: xs[i], Y: ys[i]}
	}
	return placed
}

func simulate(s snapshot.Snapshot, xs, ys []float64, opts *Options) {
	n := len(s.Nodes)
	k := math.Sqrt(opts.Width * opts.Height / float64(n))

	index := make(map[string]int, n)
	for i, node := range s.Nodes {
		index[node.ID] = i
	}
	type pair struct{ a, b int }
	var edges []pair
	for _, e := range s.Edges {
		a, okA := index[e.From]
		b, okB := index[e.To]
		if !okA || !okB || a == b {
			continue
		}
		edges = append(edges, pair{a, b})
	}

	vx := make([]float64, n)
	vy := make([]float64, n)

	for range opts.Iterations {
		// Every vertex pair repels with k^2/d^2. Forces accumulate into a
		// velocity that persists across iterations.
		for i := range n {
			for j := i + 1; j < n; j++ {
				ux, uy, d := delta(xs[i], ys[i], xs[j], ys[j])
				f := k * k / (d * d)
				vx[i] += ux / d * f
				vy[i] += uy / d * f
				vx[j] -= ux / d * f
				vy[j] -= uy / d * f
			}
		}

		// Edge endpoints attract with d^2/k.
		for _, e := range edges {
			ux, uy, d := delta(xs[e.a], ys[e.a], xs[e.b], ys[e.b])
			f := d * d / k
			vx[e.a] -= ux / d * f
			vy[e.a] -= uy / d * f
			vx[e.b] += ux / d * f
			vy[e.b] += uy / d * f
		}

		for i := range n {
			xs[i] = clamp(xs[i]+vx[i]*opts.Step, opts.Margin, opts.Width-opts.Margin)
			ys[i] = clamp(ys[i]+vy[i]*opts.Step, opts.Margin, opts.Height-opts.Margin)
			vx[i] *= opts.Damping
			vy[i] *= opts.Damping
		}
	}
}

// delta returns the displacement from b to a and its length, with a tiny
// floor so coincident vertices still separate.
func delta(ax, ay, bx, by float64) (float64, float64, float64) {
	vx := ax - bx
	vy := ay - by
	d := math.Hypot(vx, vy)
	if d < 0.01 {
		d = 0.01
	}
	return vx, vy, d
}

func clamp(v, lo, hi float64) float64 {
	return max(lo, min(v, hi))
}
