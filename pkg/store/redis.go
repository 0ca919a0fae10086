package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/matzehuels/atlas/pkg/kgraph"
)

// RedisConfig configures the Redis-backed store.
type RedisConfig struct {
	Addr     string // host:port (default "localhost:6379")
	Password string // optional
	DB       int    // database number
	Prefix   string // key prefix (default "atlas")
}

// RedisStore keeps the snapshot under a single Redis key, with backups
// under suffixed keys. Useful when the graph is shared across machines.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore connects to Redis and verifies the connection with a ping.
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	if cfg.Addr == "" {
		cfg.Addr = "localhost:6379"
	}
	if cfg.Prefix == "" {
		cfg.Prefix = "atlas"
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect redis %s: %w", cfg.Addr, err)
	}
	return &RedisStore{client: client, prefix: cfg.Prefix}, nil
}

func (s *RedisStore) snapshotKey() string { return s.prefix + ":snapshot" }

func (s *RedisStore) backupKey(name string) string {
	if name == "" {
		name = DefaultBackupName
	}
	return s.prefix + ":backup:" + name
}

// Save stores the gob-encoded snapshot. Snapshots have no TTL - the
// graph is durable until explicitly replaced.
func (s *RedisStore) Save(ctx context.Context, g *kgraph.Graph) error {
	data, err := encodeSnapshot(g)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.snapshotKey(), data, 0).Err(); err != nil {
		return fmt.Errorf("set snapshot: %w", err)
	}
	return nil
}

// Load fetches and decodes the snapshot.
func (s *RedisStore) Load(ctx context.Context) (*kgraph.Graph, error) {
	data, err := s.client.Get(ctx, s.snapshotKey()).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("get snapshot: %w", err)
	}
	return decodeSnapshot(data)
}

// Backup copies the snapshot bytes to a backup key.
func (s *RedisStore) Backup(ctx context.Context, name string) error {
	data, err := s.client.Get(ctx, s.snapshotKey()).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrNoSnapshot
	}
	if err != nil {
		return fmt.Errorf("get snapshot: %w", err)
	}
	if err := s.client.Set(ctx, s.backupKey(name), data, 0).Err(); err != nil {
		return fmt.Errorf("set backup: %w", err)
	}
	return nil
}

// Close closes the Redis client.
func (s *RedisStore) Close() error { return s.client.Close() }

var _ Store = (*RedisStore)(nil)
