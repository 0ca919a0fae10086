package kgraph

import (
	"errors"
	"slices"
	"time"
)

var (
	// ErrInvalidNodeID is returned by [Graph.AddNode] and [Graph.RenameNode]
	// when the node ID is empty. All nodes must have non-empty identifiers.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrInvalidKind is returned when a node kind is empty or not one of
	// the recognized kinds. Every node carries a kind.
	ErrInvalidKind = errors.New("invalid node kind")

	// ErrDuplicateNodeID is returned by [Graph.AddNode] and [Graph.RenameNode]
	// when a node with the same ID already exists. Node IDs must be unique.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownNode is returned by lookups and mutations that reference a
	// node ID not present in the graph.
	ErrUnknownNode = errors.New("unknown node")

	// ErrUnknownSourceNode is returned by [Graph.AddEdge] when the source
	// node does not exist. Edges may only connect existing nodes.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [Graph.AddEdge] when the target
	// node does not exist in the graph.
	ErrUnknownTargetNode = errors.New("unknown target node")

	// ErrUnknownEdge is returned by [Graph.RemoveEdge] and
	// [Graph.RemoveEdgeKey] when no matching edge exists.
	ErrUnknownEdge = errors.New("unknown edge")

	// ErrDuplicateEdgeKey is returned by [Graph.AddEdgeWithKey] when the
	// key is already in use between the pair.
	ErrDuplicateEdgeKey = errors.New("duplicate edge key")

	// ErrInvalidEdgeEndpoint is returned by [Graph.Validate] when an edge
	// references a node that doesn't exist. This indicates graph corruption.
	ErrInvalidEdgeEndpoint = errors.New("invalid edge endpoint")
)

// pair identifies a source/target node combination for edge keying.
type pair struct{ source, target string }

// Graph is a directed multigraph of knowledge nodes and labeled edges.
// Nodes are unique by ID; parallel edges between the same pair are
// distinguished by an integer key assigned in insertion order.
//
// The zero value is not usable - use New to create a Graph.
// Graph is not safe for concurrent use without external synchronization;
// callers that share one instance (e.g. the HTTP server) must serialize
// mutations themselves.
type Graph struct {
	nodes    map[string]*Node
	edges    []Edge
	outgoing map[string][]string // nodeID -> target IDs (one entry per edge)
	incoming map[string][]string // nodeID -> source IDs (one entry per edge)
	nextKey  map[pair]int        // next edge key per source/target pair
	now      func() time.Time
}

// New creates an empty knowledge graph.
func New() *Graph {
	return &Graph{
		nodes:    make(map[string]*Node),
		outgoing: make(map[string][]string),
		incoming: make(map[string][]string),
		nextKey:  make(map[pair]int),
		now:      time.Now,
	}
}

// AddNode adds a node to the graph.
// Returns ErrInvalidNodeID if the ID is empty, ErrInvalidKind if the kind
// is not recognized, or ErrDuplicateNodeID if a node with the same ID
// already exists. CreatedAt/UpdatedAt are stamped with the current time
// when zero, so restored snapshots keep their original timestamps.
func (g *Graph) AddNode(n Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if !n.Kind.Valid() {
		return ErrInvalidKind
	}
	if _, exists := g.nodes[n.ID]; exists {
		return ErrDuplicateNodeID
	}
	now := g.now()
	if n.Meta.CreatedAt.IsZero() {
		n.Meta.CreatedAt = now
	}
	if n.Meta.UpdatedAt.IsZero() {
		n.Meta.UpdatedAt = now
	}
	node := &n
	g.nodes[node.ID] = node
	return nil
}

// AddEdge adds a directed edge between two existing nodes and returns the
// stored edge, including its assigned key. An empty relationship defaults
// to [DefaultRelationship]. Returns ErrUnknownSourceNode or
// ErrUnknownTargetNode if an endpoint is missing.
//
// Parallel edges between the same pair are allowed; each receives the next
// key for that pair (0, 1, 2, ...).
func (g *Graph) AddEdge(source, target, relationship string) (Edge, error) {
	if _, ok := g.nodes[source]; !ok {
		return Edge{}, ErrUnknownSourceNode
	}
	if _, ok := g.nodes[target]; !ok {
		return Edge{}, ErrUnknownTargetNode
	}
	if relationship == "" {
		relationship = DefaultRelationship
	}
	p := pair{source, target}
	e := Edge{Source: source, Target: target, Key: g.nextKey[p], Relationship: relationship}
	g.nextKey[p]++
	g.edges = append(g.edges, e)
	g.outgoing[source] = append(g.outgoing[source], target)
	g.incoming[target] = append(g.incoming[target], source)
	return e, nil
}

// AddEdgeWithKey adds a directed edge carrying an explicit key. Used
// when rebuilding a graph from a snapshot, where keys must come back
// exactly as stored: removing a parallel edge leaves gaps, and callers
// may hold references to the surviving keys. Returns ErrDuplicateEdgeKey
// if the key is already taken between the pair. The pair's next key
// advances past the inserted key, so later AddEdge calls never collide.
func (g *Graph) AddEdgeWithKey(source, target string, key int, relationship string) (Edge, error) {
	if _, ok := g.nodes[source]; !ok {
		return Edge{}, ErrUnknownSourceNode
	}
	if _, ok := g.nodes[target]; !ok {
		return Edge{}, ErrUnknownTargetNode
	}
	for _, e := range g.edges {
		if e.Source == source && e.Target == target && e.Key == key {
			return Edge{}, ErrDuplicateEdgeKey
		}
	}
	if relationship == "" {
		relationship = DefaultRelationship
	}
	p := pair{source, target}
	e := Edge{Source: source, Target: target, Key: key, Relationship: relationship}
	if key >= g.nextKey[p] {
		g.nextKey[p] = key + 1
	}
	g.edges = append(g.edges, e)
	g.outgoing[source] = append(g.outgoing[source], target)
	g.incoming[target] = append(g.incoming[target], source)
	return e, nil
}

// RemoveNode removes a node and all edges incident to it.
// Returns ErrUnknownNode if the node does not exist.
func (g *Graph) RemoveNode(id string) error {
	if _, ok := g.nodes[id]; !ok {
		return ErrUnknownNode
	}
	g.edges = slices.DeleteFunc(g.edges, func(e Edge) bool {
		return e.Source == id || e.Target == id
	})
	for _, t := range g.outgoing[id] {
		g.incoming[t] = slices.DeleteFunc(g.incoming[t], func(s string) bool { return s == id })
	}
	for _, s := range g.incoming[id] {
		g.outgoing[s] = slices.DeleteFunc(g.outgoing[s], func(t string) bool { return t == id })
	}
	delete(g.outgoing, id)
	delete(g.incoming, id)
	delete(g.nodes, id)
	for p := range g.nextKey {
		if p.source == id || p.target == id {
			delete(g.nextKey, p)
		}
	}
	return nil
}

// RemoveEdge removes the most recently added edge between source and target.
// Returns ErrUnknownEdge if no edge connects the pair. Use RemoveEdgeKey to
// remove a specific parallel edge.
func (g *Graph) RemoveEdge(source, target string) error {
	for i := len(g.edges) - 1; i >= 0; i-- {
		if g.edges[i].Source == source && g.edges[i].Target == target {
			return g.removeEdgeAt(i)
		}
	}
	return ErrUnknownEdge
}

// RemoveEdgeKey removes the edge between source and target with the given key.
// Returns ErrUnknownEdge if no such edge exists.
func (g *Graph) RemoveEdgeKey(source, target string, key int) error {
	for i, e := range g.edges {
		if e.Source == source && e.Target == target && e.Key == key {
			return g.removeEdgeAt(i)
		}
	}
	return ErrUnknownEdge
}

func (g *Graph) removeEdgeAt(i int) error {
	e := g.edges[i]
	g.edges = slices.Delete(g.edges, i, i+1)
	if j := slices.Index(g.outgoing[e.Source], e.Target); j >= 0 {
		g.outgoing[e.Source] = slices.Delete(g.outgoing[e.Source], j, j+1)
	}
	if j := slices.Index(g.incoming[e.Target], e.Source); j >= 0 {
		g.incoming[e.Target] = slices.Delete(g.incoming[e.Target], j, j+1)
	}
	return nil
}

// RenameNode changes a node's ID, rewiring all edges and indices.
// Returns ErrInvalidNodeID if newID is empty, ErrUnknownNode if oldID
// doesn't exist, or ErrDuplicateNodeID if newID is already in use.
// UpdatedAt is bumped on success.
func (g *Graph) RenameNode(oldID, newID string) error {
	if newID == "" {
		return ErrInvalidNodeID
	}
	node, ok := g.nodes[oldID]
	if !ok {
		return ErrUnknownNode
	}
	if _, exists := g.nodes[newID]; exists {
		return ErrDuplicateNodeID
	}

	node.ID = newID
	node.Meta.UpdatedAt = g.now()
	delete(g.nodes, oldID)
	g.nodes[newID] = node

	for i := range g.edges {
		if g.edges[i].Source == oldID {
			g.edges[i].Source = newID
		}
		if g.edges[i].Target == oldID {
			g.edges[i].Target = newID
		}
	}

	g.outgoing[newID] = g.outgoing[oldID]
	delete(g.outgoing, oldID)
	for id, targets := range g.outgoing {
		for i, t := range targets {
			if t == oldID {
				g.outgoing[id][i] = newID
			}
		}
	}

	g.incoming[newID] = g.incoming[oldID]
	delete(g.incoming, oldID)
	for id, sources := range g.incoming {
		for i, s := range sources {
			if s == oldID {
				g.incoming[id][i] = newID
			}
		}
	}

	for p, k := range g.nextKey {
		if p.source == oldID || p.target == oldID {
			np := p
			if np.source == oldID {
				np.source = newID
			}
			if np.target == oldID {
				np.target = newID
			}
			delete(g.nextKey, p)
			g.nextKey[np] = k
		}
	}

	return nil
}

// SetMeta replaces a node's URL and description, bumping UpdatedAt.
// CreatedAt is preserved. Returns ErrUnknownNode if the node doesn't exist.
func (g *Graph) SetMeta(id string, meta Meta) error {
	n, ok := g.nodes[id]
	if !ok {
		return ErrUnknownNode
	}
	n.Meta.URL = meta.URL
	n.Meta.Description = meta.Description
	n.Meta.UpdatedAt = g.now()
	return nil
}

// SetLevel updates a node's hierarchy level, bumping UpdatedAt.
func (g *Graph) SetLevel(id string, level int) error {
	n, ok := g.nodes[id]
	if !ok {
		return ErrUnknownNode
	}
	n.Level = level
	n.Meta.UpdatedAt = g.now()
	return nil
}

// SetKind updates a node's kind, bumping UpdatedAt.
// Returns ErrInvalidKind for unrecognized kinds.
func (g *Graph) SetKind(id string, kind Kind) error {
	if !kind.Valid() {
		return ErrInvalidKind
	}
	n, ok := g.nodes[id]
	if !ok {
		return ErrUnknownNode
	}
	n.Kind = kind
	n.Meta.UpdatedAt = g.now()
	return nil
}

// Node returns the node with the given ID and true, or nil and false if
// not found. The returned pointer refers to the actual node in the graph -
// use the Set* methods for mutations so UpdatedAt stays correct.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Nodes returns all nodes sorted by ID.
// The returned slice contains pointers to the actual node structs.
func (g *Graph) Nodes() []*Node {
	nodes := make([]*Node, 0, len(g.nodes))
	for _, n := range g.nodes {
		nodes = append(nodes, n)
	}
	slices.SortFunc(nodes, func(a, b *Node) int {
		if a.ID < b.ID {
			return -1
		}
		if a.ID > b.ID {
			return 1
		}
		return 0
	})
	return nodes
}

// Edges returns a copy of all edges in insertion order.
func (g *Graph) Edges() []Edge { return slices.Clone(g.edges) }

// EdgesBetween returns all edges from source to target in key order.
// Returns nil if no edges connect the pair.
func (g *Graph) EdgesBetween(source, target string) []Edge {
	var out []Edge
	for _, e := range g.edges {
		if e.Source == source && e.Target == target {
			out = append(out, e)
		}
	}
	slices.SortFunc(out, func(a, b Edge) int { return a.Key - b.Key })
	return out
}

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges in the graph.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Successors returns the IDs of nodes this node has edges to.
// Parallel edges produce one entry each; the slice is a read-only view.
func (g *Graph) Successors(id string) []string { return g.outgoing[id] }

// Predecessors returns the IDs of nodes that have edges to this node.
// Parallel edges produce one entry each; the slice is a read-only view.
func (g *Graph) Predecessors(id string) []string { return g.incoming[id] }

// Neighbors returns the distinct IDs connected to the node in either
// direction, sorted. Returns nil if the node doesn't exist or is isolated.
func (g *Graph) Neighbors(id string) []string {
	seen := make(map[string]bool)
	for _, t := range g.outgoing[id] {
		seen[t] = true
	}
	for _, s := range g.incoming[id] {
		seen[s] = true
	}
	if len(seen) == 0 {
		return nil
	}
	out := make([]string, 0, len(seen))
	for n := range seen {
		out = append(out, n)
	}
	slices.Sort(out)
	return out
}

// Connected returns the distinct successor IDs of the node, optionally
// filtered to neighbors reached by an edge with the given relationship.
// An empty relationship matches any edge.
func (g *Graph) Connected(id, relationship string) []string {
	seen := make(map[string]bool)
	for _, e := range g.edges {
		if e.Source != id {
			continue
		}
		if relationship != "" && e.Relationship != relationship {
			continue
		}
		seen[e.Target] = true
	}
	if len(seen) == 0 {
		return nil
	}
	out := make([]string, 0, len(seen))
	for n := range seen {
		out = append(out, n)
	}
	slices.Sort(out)
	return out
}

// NodesByKind returns the IDs of all nodes with the given kind, sorted.
func (g *Graph) NodesByKind(kind Kind) []string {
	var out []string
	for id, n := range g.nodes {
		if n.Kind == kind {
			out = append(out, id)
		}
	}
	slices.Sort(out)
	return out
}

// NodesByLevel returns the IDs of all nodes at the given level, sorted.
func (g *Graph) NodesByLevel(level int) []string {
	var out []string
	for id, n := range g.nodes {
		if n.Level == level {
			out = append(out, id)
		}
	}
	slices.Sort(out)
	return out
}

// Relationships returns the distinct edge labels present in the graph,
// sorted. Returns nil for a graph with no edges.
func (g *Graph) Relationships() []string {
	seen := make(map[string]bool)
	for _, e := range g.edges {
		seen[e.Relationship] = true
	}
	if len(seen) == 0 {
		return nil
	}
	out := make([]string, 0, len(seen))
	for r := range seen {
		out = append(out, r)
	}
	slices.Sort(out)
	return out
}

// Validate checks graph integrity: every edge must reference existing
// nodes. Returns ErrInvalidEdgeEndpoint on the first violation, nil if
// the graph is consistent. AddEdge maintains this invariant, so Validate
// only fails on graphs corrupted through external deserialization.
func (g *Graph) Validate() error {
	for _, e := range g.edges {
		if _, ok := g.nodes[e.Source]; !ok {
			return ErrInvalidEdgeEndpoint
		}
		if _, ok := g.nodes[e.Target]; !ok {
			return ErrInvalidEdgeEndpoint
		}
	}
	return nil
}
