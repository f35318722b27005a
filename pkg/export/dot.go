// Package export renders structure snapshots to Graphviz DOT and SVG.
// Rendering consumes snapshots only; it never touches live structures.
package export

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"

	"github.com/structlab/structlab/pkg/errors"
	"github.com/structlab/structlab/pkg/snapshot"
)

// Options configures DOT generation.
type Options struct {
	// Directed draws parent-to-child arrows. Leave false for the ad-hoc
	// graph, whose edges have no direction.
	Directed bool

	// ShowWeights puts edge weights on the drawn edges.
	ShowWeights bool
}

// ToDOT converts a snapshot to Graphviz DOT. Root nodes get a doubled
// outline so detached forests read at a glance.
func ToDOT(s snapshot.Snapshot, opts Options) string {
	var buf bytes.Buffer
	graph, arrow := "graph", "--"
	if opts.Directed {
		graph, arrow = "digraph", "->"
	}
	fmt.Fprintf(&buf, "%s G {\n", graph)
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=24, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, n := range s.Nodes {
		attrs := fmt.Sprintf("label=%q", n.Label)
		if n.Root {
			attrs += ", peripheries=2"
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, attrs)
	}

	buf.WriteString("\n")
	for _, e := range s.Edges {
		if opts.ShowWeights {
			fmt.Fprintf(&buf, "  %q %s %q [label=%q];\n", e.From, arrow, e.To, fmt.Sprint(e.Weight))
			continue
		}
		fmt.Fprintf(&buf, "  %q %s %q;\n", e.From, arrow, e.To)
	}

	buf.WriteString("}\n")
	return buf.String()
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render SVG")
	}
	return buf.Bytes(), nil
}
