package cache

import (
	"context"
	"time"
)

// Cache stores rendered artifacts keyed by graph content and render options.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A ttl of zero means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the cache.
	Close() error
}

// ArtifactKeyOpts captures the render parameters that affect artifact output.
// Two renders with the same graph hash and the same opts produce the same bytes.
type ArtifactKeyOpts struct {
	Format         string   `json:"format"`
	Levels         []int    `json:"levels,omitempty"`
	Relationships  []string `json:"relationships,omitempty"`
	HighlightNodes []string `json:"highlight_nodes,omitempty"`
}

// Keyer generates cache keys for rendered artifacts.
type Keyer interface {
	// ArtifactKey generates a key for a rendered artifact from the graph
	// content hash and the render options.
	ArtifactKey(graphHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer is the standard key generation scheme.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// ArtifactKey generates a key of the form artifact:hash(graphHash, opts).
func (k *DefaultKeyer) ArtifactKey(graphHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", graphHash, opts)
}
