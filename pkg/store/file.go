package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/matzehuels/atlas/pkg/kgraph"
)

const (
	// SnapshotName is the snapshot filename inside the data directory.
	// The .pkl name is kept for drop-in compatibility with data
	// directories produced by the original Knowledge Atlas prototype.
	SnapshotName = "knowledge_graph.pkl"

	// backupPattern formats backup filenames: knowledge_graph_backup_<name>.pkl
	backupPattern = "knowledge_graph_backup_%s.pkl"
)

// FileStore persists snapshots as gob-encoded files in a data directory.
// This is the default backend for single-user CLI usage.
type FileStore struct {
	dir string
}

// NewFileStore creates a file-backed store rooted at dir, creating the
// directory if needed. If dir is empty, "data" in the working directory
// is used, matching the original layout.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		dir = "data"
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Path returns the snapshot file path.
func (s *FileStore) Path() string {
	return filepath.Join(s.dir, SnapshotName)
}

// BackupPath returns the backup file path for the given name
// (DefaultBackupName if empty).
func (s *FileStore) BackupPath(name string) string {
	if name == "" {
		name = DefaultBackupName
	}
	return filepath.Join(s.dir, fmt.Sprintf(backupPattern, name))
}

// Save writes the graph snapshot atomically: the encoding goes to a temp
// file which is renamed over the snapshot, so a crash mid-write never
// leaves a truncated snapshot behind.
func (s *FileStore) Save(ctx context.Context, g *kgraph.Graph) error {
	data, err := encodeSnapshot(g)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(s.dir, SnapshotName+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close snapshot: %w", err)
	}
	if err := os.Rename(tmpName, s.Path()); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}

// Load reads and decodes the current snapshot.
// Returns ErrNoSnapshot if the file does not exist.
func (s *FileStore) Load(ctx context.Context) (*kgraph.Graph, error) {
	data, err := os.ReadFile(s.Path())
	if os.IsNotExist(err) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	return decodeSnapshot(data)
}

// Backup byte-copies the current snapshot to
// knowledge_graph_backup_<name>.pkl in the same directory.
// Returns ErrNoSnapshot - without creating a file - when no snapshot exists.
func (s *FileStore) Backup(ctx context.Context, name string) error {
	data, err := os.ReadFile(s.Path())
	if os.IsNotExist(err) {
		return ErrNoSnapshot
	}
	if err != nil {
		return fmt.Errorf("read snapshot: %w", err)
	}
	if err := os.WriteFile(s.BackupPath(name), data, 0644); err != nil {
		return fmt.Errorf("write backup: %w", err)
	}
	return nil
}

// Close does nothing for the file store.
func (s *FileStore) Close() error { return nil }

var _ Store = (*FileStore)(nil)
