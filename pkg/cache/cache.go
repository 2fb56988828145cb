// Package cache provides caching for pipeline stages.
//
// The Cache interface abstracts over storage backends:
//   - FileCache: filesystem storage for CLI usage
//   - RedisCache: shared storage for multi-instance server deployments
//   - NullCache: no-op cache for testing or when caching is disabled
//
// Cache keys are generated by a Keyer so that the CLI and the HTTP API
// produce identical keys for identical inputs. Keys embed content hashes of
// their inputs; two layout runs over the same document with the same
// collapsed set and options share a cache entry.
package cache

import (
	"context"
	"time"
)

// TTLs for the different pipeline stages.
const (
	// TTLDocument is how long a normalized document is kept.
	TTLDocument = 24 * time.Hour

	// TTLLayout is how long a computed layout is kept. Layouts are pure
	// functions of the document and options, so they can live long.
	TTLLayout = 7 * 24 * time.Hour

	// TTLArtifact is how long rendered artifacts (SVG, PNG, JSON) are kept.
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is the interface for cache backends.
type Cache interface {
	// Get retrieves a value by key.
	// Returns the data and true on a hit, nil and false on a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value under key with the given TTL.
	// A TTL of 0 means the entry never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value from the cache.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the backend.
	Close() error
}

// LayoutKeyOpts are the options that affect layout computation and therefore
// participate in the layout cache key.
type LayoutKeyOpts struct {
	Collapsed []string `json:"collapsed,omitempty"`
}

// ArtifactKeyOpts are the options that affect rendering and therefore
// participate in the artifact cache key.
type ArtifactKeyOpts struct {
	Format   string  `json:"format"`
	Width    float64 `json:"width,omitempty"`
	Height   float64 `json:"height,omitempty"`
	Culled   bool    `json:"culled,omitempty"`
	Detailed bool    `json:"detailed,omitempty"`
}

// Keyer generates cache keys for the pipeline stages.
type Keyer interface {
	// DocKey generates a key for normalized document caching.
	DocKey(sourceHash string) string

	// LayoutKey generates a key for layout caching.
	LayoutKey(docHash string, opts LayoutKeyOpts) string

	// ArtifactKey generates a key for rendered artifact caching.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer is the standard key generator.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard key generator.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// DocKey generates a key for normalized document caching.
func (k *DefaultKeyer) DocKey(sourceHash string) string {
	return hashKey("doc", sourceHash)
}

// LayoutKey generates a key for layout caching.
func (k *DefaultKeyer) LayoutKey(docHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", docHash, opts)
}

// ArtifactKey generates a key for rendered artifact caching.
func (k *DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}
