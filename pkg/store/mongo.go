package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/atlas/pkg/kgraph"
)

// MongoConfig configures the MongoDB-backed store.
type MongoConfig struct {
	URI        string // connection string (default "mongodb://localhost:27017")
	Database   string // database name (default "atlas")
	Collection string // collection name (default "snapshots")
}

// MongoStore persists the snapshot as a bson document, upserted by a
// fixed document ID. Backups are separate documents in the same
// collection keyed by backup name.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// snapshotDocID is the _id of the live snapshot document.
const snapshotDocID = "snapshot"

// mongoDoc wraps a Snapshot with its document ID.
type mongoDoc struct {
	ID       string   `bson:"_id"`
	Snapshot Snapshot `bson:"snapshot"`
}

// NewMongoStore connects to MongoDB and verifies the connection with a ping.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if cfg.URI == "" {
		cfg.URI = "mongodb://localhost:27017"
	}
	if cfg.Database == "" {
		cfg.Database = "atlas"
	}
	if cfg.Collection == "" {
		cfg.Collection = "snapshots"
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return &MongoStore{
		client: client,
		coll:   client.Database(cfg.Database).Collection(cfg.Collection),
	}, nil
}

// Save upserts the snapshot document.
func (s *MongoStore) Save(ctx context.Context, g *kgraph.Graph) error {
	doc := mongoDoc{ID: snapshotDocID, Snapshot: TakeSnapshot(g)}
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": snapshotDocID}, doc,
		options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("upsert snapshot: %w", err)
	}
	return nil
}

// Load fetches the snapshot document and rebuilds the graph.
func (s *MongoStore) Load(ctx context.Context) (*kgraph.Graph, error) {
	var doc mongoDoc
	err := s.coll.FindOne(ctx, bson.M{"_id": snapshotDocID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("find snapshot: %w", err)
	}
	g, err := RestoreSnapshot(doc.Snapshot)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}
	return g, nil
}

// Backup copies the snapshot document under a backup ID.
func (s *MongoStore) Backup(ctx context.Context, name string) error {
	if name == "" {
		name = DefaultBackupName
	}
	var doc mongoDoc
	err := s.coll.FindOne(ctx, bson.M{"_id": snapshotDocID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNoSnapshot
	}
	if err != nil {
		return fmt.Errorf("find snapshot: %w", err)
	}
	doc.ID = "backup:" + name
	_, err = s.coll.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc,
		options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("upsert backup: %w", err)
	}
	return nil
}

// Close disconnects from MongoDB.
func (s *MongoStore) Close() error {
	return s.client.Disconnect(context.Background())
}

var _ Store = (*MongoStore)(nil)
