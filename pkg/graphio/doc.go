// Package graphio provides JSON import and export for knowledge graphs.
//
// # Overview
//
// This package defines the portable boundary format for Atlas graphs.
// The binary snapshot (pkg/store) is implementation-specific; this JSON
// format is the contract for moving graphs between tools, versions, and
// reimplementations.
//
// # JSON Format
//
// The format has two required top-level arrays:
//
//	{
//	  "nodes": [
//	    {"id": "transformers", "type": "topic", "level": 0},
//	    {"id": "attention", "type": "paper", "level": 1,
//	     "metadata": {"url": "https://arxiv.org/abs/1706.03762"}}
//	  ],
//	  "edges": [
//	    {"source": "transformers", "target": "attention", "relationship": "contains"}
//	  ]
//	}
//
// Node fields:
//   - id: unique string identifier (required)
//   - type: one of topic, paper, concept, method, tool, dataset, other
//   - level: hierarchy depth (0 = top)
//   - metadata: optional object with url and description
//
// Edge fields: source, target (must reference declared node IDs), and
// relationship (the edge label).
//
// # Validation
//
// Import rejects malformed JSON, duplicate or empty node IDs, unknown
// node types, and edges whose endpoints are not declared in the nodes
// array. An empty document ({"nodes":[],"edges":[]}) imports as an
// empty graph.
//
// # Round Trips
//
// Export is deterministic (nodes sorted by ID, edges by endpoint) and
// Export(Import(s)) preserves node/edge sets and attributes exactly, up
// to ordering. Parallel edge keys are internal and reassigned on import.
package graphio
