package render

import (
	"slices"

	"github.com/matzehuels/atlas/pkg/kgraph"
)

// EdgeRef identifies an edge by endpoints for highlighting.
// All parallel edges between the pair are highlighted together.
type EdgeRef struct {
	Source string
	Target string
}

// Options configures graph rendering.
// The zero value renders everything with no highlights.
type Options struct {
	// ShowLevels restricts the view to nodes at these levels.
	// Nil shows all levels. Neighbors of a visible node are pulled in
	// when their own level is also shown.
	ShowLevels []int

	// ShowRelationships restricts edges to these labels. Nil shows all.
	ShowRelationships []string

	// HighlightNodes are drawn larger in gold, and are always visible
	// regardless of level filtering.
	HighlightNodes []string

	// HighlightEdges are drawn thicker in orange.
	HighlightEdges []EdgeRef
}

func (o Options) levelShown(level int) bool {
	return o.ShowLevels == nil || slices.Contains(o.ShowLevels, level)
}

func (o Options) relationshipShown(rel string) bool {
	return o.ShowRelationships == nil || slices.Contains(o.ShowRelationships, rel)
}

func (o Options) nodeHighlighted(id string) bool {
	return slices.Contains(o.HighlightNodes, id)
}

func (o Options) edgeHighlighted(source, target string) bool {
	return slices.Contains(o.HighlightEdges, EdgeRef{Source: source, Target: target})
}

// visibleNodes computes the set of node IDs to draw.
//
// A node is visible when its level is shown, when it is explicitly
// highlighted, or when it neighbors a visible node and its own level is
// shown. The neighbor expansion keeps highlighted nodes from floating
// disconnected from their context.
func visibleNodes(g *kgraph.Graph, opts Options) map[string]bool {
	visible := make(map[string]bool)
	for _, n := range g.Nodes() {
		if opts.levelShown(n.Level) {
			visible[n.ID] = true
		}
	}
	for _, id := range opts.HighlightNodes {
		if _, ok := g.Node(id); ok {
			visible[id] = true
		}
	}

	connected := make(map[string]bool)
	for id := range visible {
		for _, nb := range g.Neighbors(id) {
			connected[nb] = true
		}
	}
	for id := range connected {
		if n, ok := g.Node(id); ok && opts.levelShown(n.Level) {
			visible[id] = true
		}
	}
	return visible
}

// Kind styling, matching the established palette.
var kindColors = map[kgraph.Kind]string{
	kgraph.KindTopic:   "#ff7f7f",
	kgraph.KindPaper:   "#7fff7f",
	kgraph.KindConcept: "#ff7fff",
	kgraph.KindMethod:  "#ffff7f",
	kgraph.KindTool:    "#7fffff",
	kgraph.KindDataset: "#ffa07a",
	kgraph.KindOther:   "#d3d3d3",
}

var kindShapes = map[kgraph.Kind]string{
	kgraph.KindTopic:   "dot",
	kgraph.KindPaper:   "diamond",
	kgraph.KindConcept: "triangle",
	kgraph.KindMethod:  "star",
	kgraph.KindTool:    "square",
	kgraph.KindDataset: "hexagon",
	kgraph.KindOther:   "dot",
}

var relationshipColors = map[string]string{
	"belongs_to": "#808080",
	"related_to": "#0000ff",
	"depends_on": "#ff0000",
}

const (
	highlightNodeColor = "#ffd700" // gold
	highlightEdgeColor = "#ffa500" // orange
	defaultEdgeColor   = "#000000"
)

func nodeColor(kind kgraph.Kind) string {
	if c, ok := kindColors[kind]; ok {
		return c
	}
	return kindColors[kgraph.KindOther]
}

func nodeShape(kind kgraph.Kind) string {
	if s, ok := kindShapes[kind]; ok {
		return s
	}
	return "dot"
}

func edgeColor(rel string) string {
	if c, ok := relationshipColors[rel]; ok {
		return c
	}
	return defaultEdgeColor
}
