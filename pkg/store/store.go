package store

import (
	"bytes"
	"context"
	"encoding/gob"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/matzehuels/atlas/pkg/kgraph"
)

// Sentinel errors for snapshot operations.
var (
	// ErrNoSnapshot is returned by Load when no snapshot has been saved
	// yet, and by Backup when there is nothing to back up.
	ErrNoSnapshot = errors.New("no snapshot")

	// ErrCorruptSnapshot is returned by Load when the snapshot exists but
	// cannot be decoded. The in-memory graph is left untouched; restore
	// from a backup or re-import from JSON.
	ErrCorruptSnapshot = errors.New("corrupt snapshot")
)

// DefaultBackupName is used when Backup is called with an empty name.
const DefaultBackupName = "latest"

// Store persists knowledge graph snapshots.
//
// The snapshot encoding is implementation-specific and not a compatibility
// contract - use pkg/graphio for the portable JSON format. All methods
// take a context so network-backed stores (Redis, Mongo) honor
// cancellation; the file store ignores it.
type Store interface {
	// Save persists the graph, replacing any previous snapshot.
	Save(ctx context.Context, g *kgraph.Graph) error

	// Load reconstructs the graph from the current snapshot.
	// Returns ErrNoSnapshot if nothing has been saved yet, or an error
	// wrapping ErrCorruptSnapshot if the snapshot cannot be decoded.
	Load(ctx context.Context) (*kgraph.Graph, error)

	// Backup copies the current snapshot under the given name
	// (DefaultBackupName if empty). Returns ErrNoSnapshot - and creates
	// nothing - when no snapshot exists.
	Backup(ctx context.Context, name string) error

	// Close releases any backend resources.
	Close() error
}

// TimestampName returns a backup name derived from the current time,
// e.g. "20260824-153012". Use with Store.Backup for dated backups.
func TimestampName() string {
	return time.Now().Format("20060102-150405")
}

// =============================================================================
// Snapshot codec
// =============================================================================

// Snapshot is the serialized form of a graph used by the storage backends.
// Unlike the graphio interchange format it preserves local bookkeeping:
// timestamps and parallel edge keys survive a save/load cycle exactly.
type Snapshot struct {
	Nodes   []SnapshotNode `bson:"nodes"`
	Edges   []SnapshotEdge `bson:"edges"`
	SavedAt time.Time      `bson:"saved_at"`
}

// SnapshotNode mirrors kgraph.Node for serialization.
type SnapshotNode struct {
	ID          string    `bson:"id"`
	Kind        string    `bson:"kind"`
	Level       int       `bson:"level"`
	URL         string    `bson:"url,omitempty"`
	Description string    `bson:"description,omitempty"`
	CreatedAt   time.Time `bson:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at"`
}

// SnapshotEdge mirrors kgraph.Edge for serialization.
type SnapshotEdge struct {
	Source       string `bson:"source"`
	Target       string `bson:"target"`
	Key          int    `bson:"key"`
	Relationship string `bson:"relationship"`
}

// TakeSnapshot converts a graph to its snapshot form.
// Edges are ordered by source/target/key for deterministic output;
// keys are stored explicitly and restored as-is.
func TakeSnapshot(g *kgraph.Graph) Snapshot {
	nodes := g.Nodes()
	snap := Snapshot{
		Nodes:   make([]SnapshotNode, len(nodes)),
		Edges:   make([]SnapshotEdge, 0, g.EdgeCount()),
		SavedAt: time.Now(),
	}
	for i, n := range nodes {
		snap.Nodes[i] = SnapshotNode{
			ID:          n.ID,
			Kind:        string(n.Kind),
			Level:       n.Level,
			URL:         n.Meta.URL,
			Description: n.Meta.Description,
			CreatedAt:   n.Meta.CreatedAt,
			UpdatedAt:   n.Meta.UpdatedAt,
		}
	}

	edges := g.Edges()
	slices.SortFunc(edges, func(a, b kgraph.Edge) int {
		if a.Source != b.Source {
			if a.Source < b.Source {
				return -1
			}
			return 1
		}
		if a.Target != b.Target {
			if a.Target < b.Target {
				return -1
			}
			return 1
		}
		return a.Key - b.Key
	})
	for _, e := range edges {
		snap.Edges = append(snap.Edges, SnapshotEdge{
			Source:       e.Source,
			Target:       e.Target,
			Key:          e.Key,
			Relationship: e.Relationship,
		})
	}
	return snap
}

// RestoreSnapshot rebuilds a graph from its snapshot form.
// Node timestamps and edge keys are preserved as stored, including key
// gaps left by removed parallel edges. Returns an error if the snapshot
// violates graph invariants (duplicate IDs, dangling edges, reused keys).
func RestoreSnapshot(snap Snapshot) (*kgraph.Graph, error) {
	g := kgraph.New()
	for _, n := range snap.Nodes {
		node := kgraph.Node{
			ID:    n.ID,
			Kind:  kgraph.Kind(n.Kind),
			Level: n.Level,
			Meta: kgraph.Meta{
				URL:         n.URL,
				Description: n.Description,
				CreatedAt:   n.CreatedAt,
				UpdatedAt:   n.UpdatedAt,
			},
		}
		if err := g.AddNode(node); err != nil {
			return nil, fmt.Errorf("node %s: %w", n.ID, err)
		}
	}
	for _, e := range snap.Edges {
		if _, err := g.AddEdgeWithKey(e.Source, e.Target, e.Key, e.Relationship); err != nil {
			return nil, fmt.Errorf("edge %s->%s: %w", e.Source, e.Target, err)
		}
	}
	return g, nil
}

// encodeSnapshot gob-encodes a graph for the byte-oriented backends.
func encodeSnapshot(g *kgraph.Graph) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(TakeSnapshot(g)); err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return buf.Bytes(), nil
}

// decodeSnapshot rebuilds a graph from gob bytes.
// Decode failures wrap ErrCorruptSnapshot.
func decodeSnapshot(data []byte) (*kgraph.Graph, error) {
	var snap Snapshot
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&snap); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}
	g, err := RestoreSnapshot(snap)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}
	return g, nil
}
