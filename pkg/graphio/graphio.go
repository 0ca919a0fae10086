package graphio

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/matzehuels/atlas/pkg/kgraph"
)

// Graph is the canonical interchange format for knowledge graphs.
// This is the compatibility contract: any tool that produces or consumes
// Atlas graphs speaks this format. The bson tags let the same document
// shape back the Mongo store.
type Graph struct {
	Nodes []Node `json:"nodes" bson:"nodes"`
	Edges []Edge `json:"edges" bson:"edges"`
}

// Node is the serialized form of a knowledge node.
type Node struct {
	ID       string    `json:"id" bson:"id"`
	Type     string    `json:"type" bson:"type"`
	Level    int       `json:"level" bson:"level"`
	Metadata *Metadata `json:"metadata,omitempty" bson:"metadata,omitempty"`
}

// Metadata carries the optional node fields. Timestamps are deliberately
// excluded - they are local bookkeeping, not part of the portable format.
type Metadata struct {
	URL         string `json:"url,omitempty" bson:"url,omitempty"`
	Description string `json:"description,omitempty" bson:"description,omitempty"`
}

// Edge is the serialized form of a labeled directed edge.
// Parallel edges appear as repeated entries; keys are reassigned on import.
type Edge struct {
	Source       string `json:"source" bson:"source"`
	Target       string `json:"target" bson:"target"`
	Relationship string `json:"relationship" bson:"relationship"`
}

// FromGraph converts a knowledge graph to its interchange form.
// Nodes are sorted by ID and edges by source/target/key for
// deterministic output.
func FromGraph(g *kgraph.Graph) Graph {
	nodes := g.Nodes()
	out := Graph{
		Nodes: make([]Node, len(nodes)),
		Edges: make([]Edge, 0, g.EdgeCount()),
	}

	for i, n := range nodes {
		nd := Node{ID: n.ID, Type: string(n.Kind), Level: n.Level}
		if !n.Meta.IsZero() {
			nd.Metadata = &Metadata{URL: n.Meta.URL, Description: n.Meta.Description}
		}
		out.Nodes[i] = nd
	}

	edges := g.Edges()
	slices.SortFunc(edges, func(a, b kgraph.Edge) int {
		if c := cmpString(a.Source, b.Source); c != 0 {
			return c
		}
		if c := cmpString(a.Target, b.Target); c != 0 {
			return c
		}
		return a.Key - b.Key
	})
	for _, e := range edges {
		out.Edges = append(out.Edges, Edge{Source: e.Source, Target: e.Target, Relationship: e.Relationship})
	}

	return out
}

// ToGraph reconstructs a fresh multigraph from the interchange form.
//
// Returns an error if a node has an invalid or duplicate ID, an unknown
// type, or if an edge references a node that is not declared in the nodes
// array. Errors are wrapped with the offending node or edge for context.
func ToGraph(doc Graph) (*kgraph.Graph, error) {
	g := kgraph.New()
	for _, n := range doc.Nodes {
		kind, err := kgraph.ParseKind(n.Type)
		if err != nil {
			return nil, fmt.Errorf("node %s: type %q: %w", n.ID, n.Type, err)
		}
		node := kgraph.Node{ID: n.ID, Kind: kind, Level: n.Level}
		if n.Metadata != nil {
			node.Meta = kgraph.Meta{URL: n.Metadata.URL, Description: n.Metadata.Description}
		}
		if err := g.AddNode(node); err != nil {
			return nil, fmt.Errorf("node %s: %w", n.ID, err)
		}
	}
	for _, e := range doc.Edges {
		if _, err := g.AddEdge(e.Source, e.Target, e.Relationship); err != nil {
			return nil, fmt.Errorf("edge %s->%s: %w", e.Source, e.Target, err)
		}
	}
	return g, nil
}

// Export serializes a knowledge graph to indented JSON bytes.
func Export(g *kgraph.Graph) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(g, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write encodes a knowledge graph as JSON to w.
// The output can be re-imported with [Read] for round-trip processing.
func Write(g *kgraph.Graph, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(FromGraph(g)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// Read decodes a JSON graph from r into a fresh multigraph.
//
// The input must be a JSON object with "nodes" and "edges" arrays as
// produced by [Write]. An object with empty arrays decodes to an empty
// graph. Read returns an error if the JSON is malformed, a node is
// invalid or duplicated, or an edge references an undeclared node -
// edges are never auto-created against missing endpoints.
func Read(r io.Reader) (*kgraph.Graph, error) {
	var doc Graph
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return ToGraph(doc)
}

// Import decodes JSON bytes into a fresh multigraph.
// See [Read] for validation behavior.
func Import(data []byte) (*kgraph.Graph, error) {
	return Read(bytes.NewReader(data))
}

// ExportFile writes a knowledge graph to a JSON file at path.
func ExportFile(g *kgraph.Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return Write(g, f)
}

// ImportFile reads a JSON file at path and returns the decoded graph.
// The error wraps the underlying cause with the file path for context.
func ImportFile(path string) (*kgraph.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f)
}

func cmpString(a, b string) int {
	if a < b {
		return -1
	}
	if a > b {
		return 1
	}
	return 0
}
