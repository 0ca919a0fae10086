package kgraph

import (
	"errors"
	"slices"
	"testing"
)

func TestAddNode(t *testing.T) {
	tests := []struct {
		name    string
		node    Node
		setup   func(g *Graph)
		wantErr error
	}{
		{
			name: "Valid",
			node: Node{ID: "transformers", Kind: KindTopic},
		},
		{
			name:    "EmptyID",
			node:    Node{Kind: KindTopic},
			wantErr: ErrInvalidNodeID,
		},
		{
			name:    "EmptyKind",
			node:    Node{ID: "x"},
			wantErr: ErrInvalidKind,
		},
		{
			name:    "UnknownKind",
			node:    Node{ID: "x", Kind: Kind("banana")},
			wantErr: ErrInvalidKind,
		},
		{
			name: "Duplicate",
			node: Node{ID: "transformers", Kind: KindPaper},
			setup: func(g *Graph) {
				g.AddNode(Node{ID: "transformers", Kind: KindTopic})
			},
			wantErr: ErrDuplicateNodeID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New()
			if tt.setup != nil {
				tt.setup(g)
			}
			err := g.AddNode(tt.node)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("AddNode = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestAddNodeStampsTimestamps(t *testing.T) {
	g := New()
	if err := g.AddNode(Node{ID: "a", Kind: KindTopic}); err != nil {
		t.Fatal(err)
	}
	n, _ := g.Node("a")
	if n.Meta.CreatedAt.IsZero() || n.Meta.UpdatedAt.IsZero() {
		t.Error("timestamps not stamped on insert")
	}
}

func TestAddEdge(t *testing.T) {
	g := New()
	g.AddNode(Node{ID: "a", Kind: KindTopic})
	g.AddNode(Node{ID: "b", Kind: KindPaper})

	e, err := g.AddEdge("a", "b", "contains")
	if err != nil {
		t.Fatalf("AddEdge: %v", err)
	}
	if e.Key != 0 || e.Relationship != "contains" {
		t.Errorf("edge = %+v, want key 0, relationship contains", e)
	}

	// Parallel edge gets the next key.
	e2, err := g.AddEdge("a", "b", "cites")
	if err != nil {
		t.Fatalf("AddEdge parallel: %v", err)
	}
	if e2.Key != 1 {
		t.Errorf("parallel edge key = %d, want 1", e2.Key)
	}

	// Empty relationship defaults.
	e3, _ := g.AddEdge("b", "a", "")
	if e3.Relationship != DefaultRelationship {
		t.Errorf("relationship = %q, want %q", e3.Relationship, DefaultRelationship)
	}

	if _, err := g.AddEdge("missing", "b", ""); !errors.Is(err, ErrUnknownSourceNode) {
		t.Errorf("unknown source = %v, want ErrUnknownSourceNode", err)
	}
	if _, err := g.AddEdge("a", "missing", ""); !errors.Is(err, ErrUnknownTargetNode) {
		t.Errorf("unknown target = %v, want ErrUnknownTargetNode", err)
	}
}

func TestAddEdgeWithKey(t *testing.T) {
	g := New()
	g.AddNode(Node{ID: "a", Kind: KindTopic})
	g.AddNode(Node{ID: "b", Kind: KindPaper})

	e, err := g.AddEdgeWithKey("a", "b", 4, "cites")
	if err != nil {
		t.Fatalf("AddEdgeWithKey: %v", err)
	}
	if e.Key != 4 || e.Relationship != "cites" {
		t.Errorf("edge = %+v, want key 4, relationship cites", e)
	}

	// Reusing the key between the same pair fails.
	if _, err := g.AddEdgeWithKey("a", "b", 4, "contains"); !errors.Is(err, ErrDuplicateEdgeKey) {
		t.Errorf("duplicate key = %v, want ErrDuplicateEdgeKey", err)
	}

	// Automatic keys continue past the explicit one.
	e2, err := g.AddEdge("a", "b", "contains")
	if err != nil {
		t.Fatalf("AddEdge after explicit key: %v", err)
	}
	if e2.Key != 5 {
		t.Errorf("next key = %d, want 5", e2.Key)
	}

	if _, err := g.AddEdgeWithKey("missing", "b", 0, ""); !errors.Is(err, ErrUnknownSourceNode) {
		t.Errorf("unknown source = %v, want ErrUnknownSourceNode", err)
	}
}

func TestRemoveNode(t *testing.T) {
	g := New()
	g.AddNode(Node{ID: "a", Kind: KindTopic})
	g.AddNode(Node{ID: "b", Kind: KindPaper})
	g.AddNode(Node{ID: "c", Kind: KindPaper})
	g.AddEdge("a", "b", "contains")
	g.AddEdge("c", "a", "belongs_to")
	g.AddEdge("b", "c", "cites")

	if err := g.RemoveNode("a"); err != nil {
		t.Fatalf("RemoveNode: %v", err)
	}
	if g.NodeCount() != 2 {
		t.Errorf("nodes = %d, want 2", g.NodeCount())
	}
	if g.EdgeCount() != 1 {
		t.Errorf("edges = %d, want 1 (only b->c survives)", g.EdgeCount())
	}
	if got := g.Successors("b"); !slices.Equal(got, []string{"c"}) {
		t.Errorf("successors(b) = %v, want [c]", got)
	}

	if err := g.RemoveNode("a"); !errors.Is(err, ErrUnknownNode) {
		t.Errorf("double remove = %v, want ErrUnknownNode", err)
	}
}

func TestRemoveEdge(t *testing.T) {
	g := New()
	g.AddNode(Node{ID: "a", Kind: KindTopic})
	g.AddNode(Node{ID: "b", Kind: KindPaper})
	g.AddEdge("a", "b", "contains")
	g.AddEdge("a", "b", "cites")

	// RemoveEdge drops the most recently added parallel edge.
	if err := g.RemoveEdge("a", "b"); err != nil {
		t.Fatalf("RemoveEdge: %v", err)
	}
	between := g.EdgesBetween("a", "b")
	if len(between) != 1 || between[0].Relationship != "contains" {
		t.Errorf("remaining edges = %+v, want single contains edge", between)
	}

	if err := g.RemoveEdgeKey("a", "b", 0); err != nil {
		t.Fatalf("RemoveEdgeKey: %v", err)
	}
	if g.EdgeCount() != 0 {
		t.Errorf("edges = %d, want 0", g.EdgeCount())
	}
	if err := g.RemoveEdge("a", "b"); !errors.Is(err, ErrUnknownEdge) {
		t.Errorf("remove missing = %v, want ErrUnknownEdge", err)
	}
}

func TestRenameNode(t *testing.T) {
	g := New()
	g.AddNode(Node{ID: "old", Kind: KindTopic})
	g.AddNode(Node{ID: "b", Kind: KindPaper})
	g.AddEdge("old", "b", "contains")
	g.AddEdge("b", "old", "belongs_to")

	if err := g.RenameNode("old", "new"); err != nil {
		t.Fatalf("RenameNode: %v", err)
	}
	if _, ok := g.Node("old"); ok {
		t.Error("old ID still present")
	}
	if got := g.Successors("new"); !slices.Equal(got, []string{"b"}) {
		t.Errorf("successors(new) = %v, want [b]", got)
	}
	if got := g.Predecessors("new"); !slices.Equal(got, []string{"b"}) {
		t.Errorf("predecessors(new) = %v, want [b]", got)
	}
	for _, e := range g.Edges() {
		if e.Source == "old" || e.Target == "old" {
			t.Errorf("edge still references old ID: %+v", e)
		}
	}

	if err := g.RenameNode("missing", "x"); !errors.Is(err, ErrUnknownNode) {
		t.Errorf("rename missing = %v, want ErrUnknownNode", err)
	}
	if err := g.RenameNode("new", "b"); !errors.Is(err, ErrDuplicateNodeID) {
		t.Errorf("rename onto existing = %v, want ErrDuplicateNodeID", err)
	}
}

func TestSetters(t *testing.T) {
	g := New()
	g.AddNode(Node{ID: "a", Kind: KindTopic})

	if err := g.SetMeta("a", Meta{URL: "http://x", Description: "d"}); err != nil {
		t.Fatalf("SetMeta: %v", err)
	}
	n, _ := g.Node("a")
	if n.Meta.URL != "http://x" || n.Meta.Description != "d" {
		t.Errorf("meta = %+v", n.Meta)
	}
	if n.Meta.CreatedAt.IsZero() {
		t.Error("SetMeta must preserve CreatedAt")
	}

	if err := g.SetLevel("a", 3); err != nil {
		t.Fatal(err)
	}
	if err := g.SetKind("a", KindConcept); err != nil {
		t.Fatal(err)
	}
	if n.Level != 3 || n.Kind != KindConcept {
		t.Errorf("node = %+v after setters", n)
	}

	if err := g.SetKind("a", Kind("nope")); !errors.Is(err, ErrInvalidKind) {
		t.Errorf("SetKind invalid = %v, want ErrInvalidKind", err)
	}
	if err := g.SetMeta("missing", Meta{}); !errors.Is(err, ErrUnknownNode) {
		t.Errorf("SetMeta missing = %v, want ErrUnknownNode", err)
	}
}

func TestQueries(t *testing.T) {
	g := New()
	g.AddNode(Node{ID: "ml", Kind: KindTopic, Level: 0})
	g.AddNode(Node{ID: "nlp", Kind: KindTopic, Level: 1})
	g.AddNode(Node{ID: "bert", Kind: KindPaper, Level: 2})
	g.AddNode(Node{ID: "gpt", Kind: KindPaper, Level: 2})
	g.AddEdge("nlp", "ml", "belongs_to")
	g.AddEdge("nlp", "bert", "contains")
	g.AddEdge("nlp", "gpt", "contains")
	g.AddEdge("bert", "gpt", "related_to")

	if got := g.NodesByKind(KindPaper); !slices.Equal(got, []string{"bert", "gpt"}) {
		t.Errorf("NodesByKind(paper) = %v", got)
	}
	if got := g.NodesByLevel(2); !slices.Equal(got, []string{"bert", "gpt"}) {
		t.Errorf("NodesByLevel(2) = %v", got)
	}
	if got := g.Neighbors("nlp"); !slices.Equal(got, []string{"bert", "gpt", "ml"}) {
		t.Errorf("Neighbors(nlp) = %v", got)
	}
	if got := g.Connected("nlp", "contains"); !slices.Equal(got, []string{"bert", "gpt"}) {
		t.Errorf("Connected(nlp, contains) = %v", got)
	}
	if got := g.Connected("nlp", ""); !slices.Equal(got, []string{"bert", "gpt", "ml"}) {
		t.Errorf("Connected(nlp, any) = %v", got)
	}
	if got := g.Relationships(); !slices.Equal(got, []string{"belongs_to", "contains", "related_to"}) {
		t.Errorf("Relationships = %v", got)
	}
}

func TestNodesSorted(t *testing.T) {
	g := New()
	for _, id := range []string{"c", "a", "b"} {
		g.AddNode(Node{ID: id, Kind: KindOther})
	}
	nodes := g.Nodes()
	ids := make([]string, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
	}
	if !slices.Equal(ids, []string{"a", "b", "c"}) {
		t.Errorf("Nodes order = %v", ids)
	}
}

func TestValidate(t *testing.T) {
	g := New()
	g.AddNode(Node{ID: "a", Kind: KindTopic})
	g.AddNode(Node{ID: "b", Kind: KindPaper})
	g.AddEdge("a", "b", "")
	if err := g.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	// Force corruption the way a broken snapshot would.
	g.edges = append(g.edges, Edge{Source: "a", Target: "ghost"})
	if err := g.Validate(); !errors.Is(err, ErrInvalidEdgeEndpoint) {
		t.Errorf("Validate corrupted = %v, want ErrInvalidEdgeEndpoint", err)
	}
}

func TestParseKind(t *testing.T) {
	if k, err := ParseKind("paper"); err != nil || k != KindPaper {
		t.Errorf("ParseKind(paper) = %v, %v", k, err)
	}
	if _, err := ParseKind("nope"); !errors.Is(err, ErrInvalidKind) {
		t.Errorf("ParseKind(nope) = %v, want ErrInvalidKind", err)
	}
}
