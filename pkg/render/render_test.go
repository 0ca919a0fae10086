package render

import (
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/atlas/pkg/kgraph"
)

func buildGraph(t *testing.T) *kgraph.Graph {
	t.Helper()
	g := kgraph.New()
	nodes := []kgraph.Node{
		{ID: "ml", Kind: kgraph.KindTopic, Level: 0},
		{ID: "transformers", Kind: kgraph.KindTopic, Level: 1},
		{ID: "bert", Kind: kgraph.KindPaper, Level: 2, Meta: kgraph.Meta{URL: "https://arxiv.org/abs/1810.04805"}},
	}
	for _, n := range nodes {
		if err := g.AddNode(n); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := g.AddEdge("transformers", "ml", "belongs_to"); err != nil {
		t.Fatal(err)
	}
	if _, err := g.AddEdge("transformers", "bert", "contains"); err != nil {
		t.Fatal(err)
	}
	return g
}

func TestHTML_Basic(t *testing.T) {
	g := buildGraph(t)

	data, err := HTML(g, Options{})
	if err != nil {
		t.Fatalf("HTML() error: %v", err)
	}
	page := string(data)

	for _, id := range []string{"ml", "transformers", "bert"} {
		if !strings.Contains(page, `"id":"`+id+`"`) {
			t.Errorf("HTML() output missing node %s", id)
		}
	}
	if !strings.Contains(page, "belongs_to") {
		t.Error("HTML() output missing edge label")
	}
	if !strings.Contains(page, "vis-network") {
		t.Error("HTML() output missing vis-network script")
	}
	if !strings.Contains(page, "arxiv.org") {
		t.Error("HTML() output missing node URL in title")
	}
}

func TestHTML_LevelFilter(t *testing.T) {
	g := buildGraph(t)

	data, err := HTML(g, Options{ShowLevels: []int{0, 1}})
	if err != nil {
		t.Fatalf("HTML() error: %v", err)
	}
	page := string(data)

	if !strings.Contains(page, `"id":"ml"`) {
		t.Error("level filter dropped level-0 node")
	}
	if strings.Contains(page, `"id":"bert"`) {
		t.Error("level filter kept level-2 node")
	}
	// Edges to hidden nodes go too.
	if strings.Contains(page, "contains") {
		t.Error("level filter kept edge to hidden node")
	}
}

func TestHTML_RelationshipFilter(t *testing.T) {
	g := buildGraph(t)

	data, err := HTML(g, Options{ShowRelationships: []string{"belongs_to"}})
	if err != nil {
		t.Fatalf("HTML() error: %v", err)
	}
	page := string(data)

	if !strings.Contains(page, "belongs_to") {
		t.Error("relationship filter dropped shown edge")
	}
	if strings.Contains(page, "contains") {
		t.Error("relationship filter kept hidden edge")
	}
}

func TestHTML_Highlight(t *testing.T) {
	g := buildGraph(t)

	data, err := HTML(g, Options{
		// bert sits at level 2, outside the shown levels, but the
		// highlight keeps it visible.
		ShowLevels:     []int{0, 1},
		HighlightNodes: []string{"bert"},
		HighlightEdges: []EdgeRef{{Source: "transformers", Target: "ml"}},
	})
	if err != nil {
		t.Fatalf("HTML() error: %v", err)
	}
	page := string(data)

	if !strings.Contains(page, `"id":"bert"`) {
		t.Error("highlighted node hidden by level filter")
	}
	if !strings.Contains(page, highlightNodeColor) {
		t.Error("output missing node highlight color")
	}
	if !strings.Contains(page, highlightEdgeColor) {
		t.Error("output missing edge highlight color")
	}
}

func TestVisibleNodes_NeighborExpansion(t *testing.T) {
	g := buildGraph(t)

	// Highlighting bert pulls in transformers (level 1, shown) but
	// not nodes whose level is filtered out.
	visible := visibleNodes(g, Options{
		ShowLevels:     []int{1},
		HighlightNodes: []string{"bert"},
	})

	if !visible["bert"] {
		t.Error("highlighted node not visible")
	}
	if !visible["transformers"] {
		t.Error("neighbor at shown level not visible")
	}
	if visible["ml"] {
		t.Error("node at hidden level visible")
	}
}

func TestToDOT_Basic(t *testing.T) {
	g := buildGraph(t)

	dot := ToDOT(g, Options{})

	if !strings.Contains(dot, "digraph knowledge") {
		t.Error("ToDOT() output missing digraph declaration")
	}
	if !strings.Contains(dot, `"ml"`) {
		t.Error("ToDOT() output missing node ml")
	}
	if !strings.Contains(dot, `"transformers" -> "bert"`) {
		t.Error("ToDOT() output missing edge")
	}
	if !strings.Contains(dot, `label="belongs_to"`) {
		t.Error("ToDOT() output missing edge label")
	}
}

func TestToDOT_Filters(t *testing.T) {
	g := buildGraph(t)

	dot := ToDOT(g, Options{ShowRelationships: []string{"contains"}})

	if strings.Contains(dot, "belongs_to") {
		t.Error("ToDOT() kept filtered edge")
	}
	if !strings.Contains(dot, "contains") {
		t.Error("ToDOT() dropped shown edge")
	}
}

func TestNodeStyling(t *testing.T) {
	if nodeColor(kgraph.KindPaper) != "#7fff7f" {
		t.Errorf("nodeColor(paper) = %s", nodeColor(kgraph.KindPaper))
	}
	if nodeColor("unknown") != kindColors[kgraph.KindOther] {
		t.Error("nodeColor() unknown kind should fall back to other")
	}
	if nodeShape(kgraph.KindPaper) != "diamond" {
		t.Errorf("nodeShape(paper) = %s", nodeShape(kgraph.KindPaper))
	}
	if edgeColor("made_up") != defaultEdgeColor {
		t.Error("edgeColor() unknown relationship should fall back to default")
	}
}

func TestRenderSVG(t *testing.T) {
	dot := `digraph knowledge { "a" -> "b"; }`
	svg, err := RenderSVG(context.Background(), dot)
	if err != nil {
		t.Fatalf("RenderSVG() error: %v", err)
	}
	if !strings.Contains(string(svg), "<svg") {
		t.Error("RenderSVG() output missing <svg> tag")
	}
}

func TestRenderSVG_InvalidDOT(t *testing.T) {
	if _, err := RenderSVG(context.Background(), "not valid DOT {{{"); err == nil {
		t.Error("RenderSVG() should return error for invalid DOT")
	}
}

func TestWriteHTMLFile(t *testing.T) {
	g := buildGraph(t)
	path := t.TempDir() + "/graph.html"
	if err := WriteHTMLFile(g, Options{}, path); err != nil {
		t.Fatalf("WriteHTMLFile() error: %v", err)
	}
}
