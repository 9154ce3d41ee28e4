// Package cache stores intermediate pipeline results.
//
// Every stage of the scynet pipeline is a pure function of its input, so a
// collapsed network, an annotated graph or a layout can be reused whenever
// the same input comes back. Keys are derived from content hashes by a
// [Keyer]; values are opaque JSON blobs.
//
// Four backends ship with the package:
//
//   - [FileCache] for the CLI, one JSON file per entry under the user cache dir
//   - [MemoryCache] for a single server process, a bounded LRU
//   - [RedisCache] for servers that share results across instances
//   - [NullCache] when caching is disabled
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with per-entry expiry.
type Cache interface {
	// Get returns the value for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl <= 0 never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}

// Cache lifetimes per stage.
const (
	TTLCollapse = 7 * 24 * time.Hour
	TTLAnnotate = 24 * time.Hour
	TTLLayout   = 24 * time.Hour
	TTLRun      = time.Hour
)

// Keyer builds cache keys for each pipeline stage.
type Keyer interface {
	// CollapseKey identifies a community network built from a reaction network.
	CollapseKey(networkHash string, opts CollapseKeyOpts) string
	// AnnotateKey identifies a community graph annotated with a flux table.
	AnnotateKey(graphHash, fluxHash string) string
	// LayoutKey identifies node positions computed for a community graph.
	LayoutKey(graphHash string, opts LayoutKeyOpts) string
	// RunKey identifies a stored server run.
	RunKey(id string) string
}

// CollapseKeyOpts holds the options that change a collapse result.
type CollapseKeyOpts struct {
	Delimiter         string `json:"delimiter,omitempty"`
	SharedCompartment string `json:"shared,omitempty"`
}

// LayoutKeyOpts holds the options that change a layout result.
type LayoutKeyOpts struct {
	OrganismSize   float64 `json:"org_size"`
	MetaboliteSize float64 `json:"met_size"`
}

// DefaultKeyer hashes key components with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) CollapseKey(networkHash string, opts CollapseKeyOpts) string {
	return hashKey("collapse", networkHash, opts)
}

func (DefaultKeyer) AnnotateKey(graphHash, fluxHash string) string {
	return hashKey("annotate", graphHash, fluxHash)
}

func (DefaultKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", graphHash, opts)
}

// RunKey is not hashed so runs can be listed by prefix in Redis.
func (DefaultKeyer) RunKey(id string) string { return "run:" + id }

// NullCache never stores anything.
type NullCache struct{}

// NewNullCache returns a cache that always misses.
func NewNullCache() Cache { return NullCache{} }

func (NullCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }

func (NullCache) Delete(context.Context, string) error { return nil }

func (NullCache) Close() error { return nil }

var _ Cache = NullCache{}
