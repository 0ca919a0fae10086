package kgraph

import "time"

// Kind classifies a node in the knowledge graph.
type Kind string

// Node kinds. Topics form the hierarchy backbone; papers are tracked
// reading material; the remaining kinds annotate the research landscape.
const (
	KindTopic   Kind = "topic"
	KindPaper   Kind = "paper"
	KindConcept Kind = "concept"
	KindMethod  Kind = "method"
	KindTool    Kind = "tool"
	KindDataset Kind = "dataset"
	KindOther   Kind = "other"
)

// Kinds returns all valid node kinds in display order.
func Kinds() []Kind {
	return []Kind{KindTopic, KindPaper, KindConcept, KindMethod, KindTool, KindDataset, KindOther}
}

// Valid reports whether k is a recognized node kind.
func (k Kind) Valid() bool {
	switch k {
	case KindTopic, KindPaper, KindConcept, KindMethod, KindTool, KindDataset, KindOther:
		return true
	}
	return false
}

// ParseKind converts a string to a Kind.
// Returns ErrInvalidKind if the string is not a recognized kind.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if !k.Valid() {
		return "", ErrInvalidKind
	}
	return k, nil
}

// DefaultRelationship is the edge label used when none is given.
const DefaultRelationship = "related_to"

// Meta holds optional node metadata.
// CreatedAt and UpdatedAt are maintained by the graph on insertion and
// mutation; URL and Description are user-supplied.
type Meta struct {
	URL         string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsZero reports whether the user-facing metadata fields are empty.
// Timestamps are ignored - they are bookkeeping, not content.
func (m Meta) IsZero() bool {
	return m.URL == "" && m.Description == ""
}

// Node represents a vertex in the knowledge graph.
//
// The zero value is not usable - ID and Kind must be set before adding
// to a Graph. Level encodes hierarchy depth (0 = top-level topic,
// increasing downward).
type Node struct {
	ID    string // Unique identifier (also used as display label)
	Kind  Kind   // Node classification (always set after AddNode)
	Level int    // Hierarchy depth (0 = root, increasing downward)
	Meta  Meta   // Optional URL/description plus timestamps
}

// Edge represents a directed, labeled connection between two nodes.
// Multiple edges between the same source/target pair are allowed and
// distinguished by Key, assigned per pair in insertion order.
type Edge struct {
	Source       string // Source node ID
	Target       string // Target node ID
	Key          int    // Distinguishes parallel edges between the same pair
	Relationship string // Edge label (never empty after AddEdge)
}
