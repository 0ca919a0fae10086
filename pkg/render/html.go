package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"os"

	"github.com/matzehuels/atlas/pkg/kgraph"
)

// visNode is the vis-network node object emitted into the page.
type visNode struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Title string `json:"title"`
	Color string `json:"color"`
	Shape string `json:"shape"`
	Size  int    `json:"size"`
	Level int    `json:"level"`
}

// visEdge is the vis-network edge object emitted into the page.
type visEdge struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Label  string `json:"label"`
	Title  string `json:"title"`
	Color  string `json:"color"`
	Width  int    `json:"width"`
	Arrows string `json:"arrows"`
}

// HTML renders the graph as a self-contained interactive page built on
// vis-network. Node color and shape derive from kind; hover titles carry
// URL, description, and level.
func HTML(g *kgraph.Graph, opts Options) ([]byte, error) {
	visible := visibleNodes(g, opts)

	nodes := make([]visNode, 0, len(visible))
	for _, n := range g.Nodes() {
		if !visible[n.ID] {
			continue
		}
		vn := visNode{
			ID:    n.ID,
			Label: n.ID,
			Title: nodeTitle(n),
			Color: nodeColor(n.Kind),
			Shape: nodeShape(n.Kind),
			Size:  20,
			Level: n.Level,
		}
		if opts.nodeHighlighted(n.ID) {
			vn.Color = highlightNodeColor
			vn.Size = 30
		}
		nodes = append(nodes, vn)
	}

	edges := make([]visEdge, 0, g.EdgeCount())
	for _, e := range g.Edges() {
		if !opts.relationshipShown(e.Relationship) {
			continue
		}
		if !visible[e.Source] || !visible[e.Target] {
			continue
		}
		ve := visEdge{
			From:   e.Source,
			To:     e.Target,
			Label:  e.Relationship,
			Title:  e.Relationship,
			Color:  edgeColor(e.Relationship),
			Width:  1,
			Arrows: "to",
		}
		if opts.edgeHighlighted(e.Source, e.Target) {
			ve.Color = highlightEdgeColor
			ve.Width = 3
		}
		edges = append(edges, ve)
	}

	nodeJSON, err := json.Marshal(nodes)
	if err != nil {
		return nil, fmt.Errorf("marshal nodes: %w", err)
	}
	edgeJSON, err := json.Marshal(edges)
	if err != nil {
		return nil, fmt.Errorf("marshal edges: %w", err)
	}

	var buf bytes.Buffer
	err = pageTemplate.Execute(&buf, map[string]any{
		"Nodes": template.JS(nodeJSON),
		"Edges": template.JS(edgeJSON),
	})
	if err != nil {
		return nil, fmt.Errorf("execute template: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteHTMLFile renders the graph and writes the page to path.
func WriteHTMLFile(g *kgraph.Graph, opts Options, path string) error {
	data, err := HTML(g, opts)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func nodeTitle(n *kgraph.Node) string {
	title := n.ID + "\n"
	if n.Meta.URL != "" {
		title += "URL: " + n.Meta.URL + "\n"
	}
	if n.Meta.Description != "" {
		title += n.Meta.Description + "\n"
	}
	title += fmt.Sprintf("Type: %s\nLevel: %d", n.Kind, n.Level)
	return title
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Knowledge Atlas</title>
<script src="https://unpkg.com/vis-network/standalone/umd/vis-network.min.js"></script>
<style>
  html, body { margin: 0; height: 100%; font-family: sans-serif; }
  #graph { width: 100%; height: 100%; background: #ffffff; }
</style>
</head>
<body>
<div id="graph"></div>
<script>
  const nodes = new vis.DataSet({{.Nodes}});
  const edges = new vis.DataSet({{.Edges}});
  const container = document.getElementById("graph");
  const network = new vis.Network(container, {nodes, edges}, {
    physics: {
      enabled: false,
      stabilization: {enabled: true, iterations: 1000, updateInterval: 50, fit: true}
    },
    interaction: {
      dragNodes: true,
      dragView: true,
      hover: true,
      navigationButtons: true,
      selectable: false,
      multiselect: false,
      zoomView: true
    },
    layout: {hierarchical: {enabled: false}},
    manipulation: {enabled: false}
  });
</script>
</body>
</html>
`))
