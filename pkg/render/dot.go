package render

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/atlas/pkg/kgraph"
)

// dot shapes per kind. Graphviz has no dot/diamond parity with
// vis-network, so the mapping approximates the HTML view.
var dotShapes = map[kgraph.Kind]string{
	kgraph.KindTopic:   "ellipse",
	kgraph.KindPaper:   "diamond",
	kgraph.KindConcept: "triangle",
	kgraph.KindMethod:  "star",
	kgraph.KindTool:    "box",
	kgraph.KindDataset: "hexagon",
	kgraph.KindOther:   "ellipse",
}

// ToDOT converts the graph to Graphviz DOT format for static rendering.
// The same visibility and highlight options apply as for [HTML].
func ToDOT(g *kgraph.Graph, opts Options) string {
	visible := visibleNodes(g, opts)

	var buf bytes.Buffer
	buf.WriteString("digraph knowledge {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  node [style=filled, fontsize=12];\n")
	buf.WriteString("\n")

	for _, n := range g.Nodes() {
		if !visible[n.ID] {
			continue
		}
		color := nodeColor(n.Kind)
		if opts.nodeHighlighted(n.ID) {
			color = highlightNodeColor
		}
		shape := dotShapes[n.Kind]
		if shape == "" {
			shape = "ellipse"
		}
		fmt.Fprintf(&buf, "  %q [shape=%s, fillcolor=%q];\n", n.ID, shape, color)
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		if !opts.relationshipShown(e.Relationship) {
			continue
		}
		if !visible[e.Source] || !visible[e.Target] {
			continue
		}
		color := edgeColor(e.Relationship)
		width := 1
		if opts.edgeHighlighted(e.Source, e.Target) {
			color = highlightEdgeColor
			width = 3
		}
		fmt.Fprintf(&buf, "  %q -> %q [label=%q, color=%q, penwidth=%d];\n",
			e.Source, e.Target, e.Relationship, color, width)
	}

	buf.WriteString("}\n")
	return buf.String()
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
