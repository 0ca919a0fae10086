package store

import (
	"context"
	"sync"

	"github.com/matzehuels/atlas/pkg/kgraph"
)

// MemStore keeps snapshots in memory. Used by tests and the demo server;
// nothing survives process exit.
type MemStore struct {
	mu       sync.Mutex
	snapshot []byte
	backups  map[string][]byte
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{backups: make(map[string][]byte)}
}

func (s *MemStore) Save(ctx context.Context, g *kgraph.Graph) error {
	data, err := encodeSnapshot(g)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = data
	return nil
}

func (s *MemStore) Load(ctx context.Context) (*kgraph.Graph, error) {
	s.mu.Lock()
	data := s.snapshot
	s.mu.Unlock()
	if data == nil {
		return nil, ErrNoSnapshot
	}
	return decodeSnapshot(data)
}

func (s *MemStore) Backup(ctx context.Context, name string) error {
	if name == "" {
		name = DefaultBackupName
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snapshot == nil {
		return ErrNoSnapshot
	}
	cp := make([]byte, len(s.snapshot))
	copy(cp, s.snapshot)
	s.backups[name] = cp
	return nil
}

func (s *MemStore) Close() error { return nil }

var _ Store = (*MemStore)(nil)
