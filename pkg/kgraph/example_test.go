package kgraph_test

import (
	"fmt"

	"github.com/matzehuels/atlas/pkg/kgraph"
)

func ExampleGraph_basic() {
	// Build a small reading graph: a topic containing one paper
	g := kgraph.New()
	_ = g.AddNode(kgraph.Node{ID: "transformers", Kind: kgraph.KindTopic})
	_ = g.AddNode(kgraph.Node{
		ID:    "attention-is-all-you-need",
		Kind:  kgraph.KindPaper,
		Level: 1,
		Meta:  kgraph.Meta{URL: "https://arxiv.org/abs/1706.03762"},
	})
	_, _ = g.AddEdge("transformers", "attention-is-all-you-need", "contains")

	fmt.Println("Nodes:", g.NodeCount())
	fmt.Println("Edges:", g.EdgeCount())
	// Output:
	// Nodes: 2
	// Edges: 1
}

func ExampleGraph_parallelEdges() {
	// Parallel edges between the same pair are keyed in insertion order
	g := kgraph.New()
	_ = g.AddNode(kgraph.Node{ID: "bert", Kind: kgraph.KindPaper})
	_ = g.AddNode(kgraph.Node{ID: "gpt", Kind: kgraph.KindPaper})
	e1, _ := g.AddEdge("bert", "gpt", "cites")
	e2, _ := g.AddEdge("bert", "gpt", "related_to")

	fmt.Println("First key:", e1.Key)
	fmt.Println("Second key:", e2.Key)
	fmt.Println("Between:", len(g.EdgesBetween("bert", "gpt")))
	// Output:
	// First key: 0
	// Second key: 1
	// Between: 2
}

func ExampleGraph_Connected() {
	// Filter neighbors by relationship label
	g := kgraph.New()
	_ = g.AddNode(kgraph.Node{ID: "nlp", Kind: kgraph.KindTopic})
	_ = g.AddNode(kgraph.Node{ID: "bert", Kind: kgraph.KindPaper})
	_ = g.AddNode(kgraph.Node{ID: "spacy", Kind: kgraph.KindTool})
	_, _ = g.AddEdge("nlp", "bert", "contains")
	_, _ = g.AddEdge("nlp", "spacy", "uses")

	fmt.Println("Contains:", g.Connected("nlp", "contains"))
	fmt.Println("Any:", g.Connected("nlp", ""))
	// Output:
	// Contains: [bert]
	// Any: [bert spacy]
}
