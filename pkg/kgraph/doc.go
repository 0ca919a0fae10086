// Package kgraph implements the in-memory knowledge graph.
//
// A knowledge graph is a directed multigraph: nodes carry a kind (topic,
// paper, concept, ...), a hierarchy level, and optional metadata; edges
// carry a relationship label and may be duplicated between the same pair
// of nodes, distinguished by an integer key.
//
// # Core Types
//
//   - [Graph]: the multigraph with add/remove/query operations
//   - [Node], [Edge]: graph elements
//   - [Kind]: node classification enum
//   - [Meta]: optional URL/description plus timestamps
//
// # Usage
//
//	g := kgraph.New()
//	_ = g.AddNode(kgraph.Node{ID: "transformers", Kind: kgraph.KindTopic})
//	_ = g.AddNode(kgraph.Node{ID: "attention-paper", Kind: kgraph.KindPaper, Level: 1})
//	_, _ = g.AddEdge("transformers", "attention-paper", "contains")
//
// Edges may only connect existing nodes; AddEdge fails with
// [ErrUnknownSourceNode] or [ErrUnknownTargetNode] otherwise. Use
// [Graph.Validate] to check graphs reconstructed from external data.
//
// # Concurrency
//
// Graph is not safe for concurrent use. The HTTP server serializes access
// with a single mutex; CLI commands operate on a private instance.
package kgraph
