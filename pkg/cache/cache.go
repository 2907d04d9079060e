// Package cache stores computed layouts and rendered artifacts.
//
// A [Cache] is a byte store keyed by strings. [Keyer] derives the keys
// from a content hash of the input tree and the options of each stage,
// so a cache hit is always the result the stage would have produced.
//
// Three backends are provided: [FileCache] for the CLI, [RedisCache] for
// the HTTP server, and [NullCache] to disable caching.
package cache

import (
	"context"
	"time"
)

// Cache is a key/value byte store with optional expiry.
type Cache interface {
	// Get returns the value stored under key. A miss is reported with
	// ok false and a nil error.
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	// Set stores data under key. A ttl of zero keeps the entry forever.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases the backend.
	Close() error
}

// LayoutKeyOpts are the layout options that change the layout output.
type LayoutKeyOpts struct {
	Mode         string `json:"mode"`
	RowsPerTip   int    `json:"rows_per_tip,omitempty"`
	Width        int    `json:"width,omitempty"`
	Height       int    `json:"height,omitempty"`
	LabelReserve int    `json:"label_reserve,omitempty"`
}

// ArtifactKeyOpts are the render options that change a rendered artifact.
type ArtifactKeyOpts struct {
	Format    string `json:"format"`
	Style     string `json:"style,omitempty"`
	Title     string `json:"title,omitempty"`
	Labels    bool   `json:"labels"`
	Precision int    `json:"precision,omitempty"`

	Margin       float64 `json:"margin,omitempty"`
	LabelPadding float64 `json:"label_padding,omitempty"`
}

// Keyer builds cache keys for each pipeline stage.
type Keyer interface {
	// LayoutKey returns the key of the layout of a tree with the given hash.
	LayoutKey(treeHash string, opts LayoutKeyOpts) string
	// ArtifactKey returns the key of an artifact rendered from a layout.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes the stage options together with the input hash.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// LayoutKey returns "layout:<sha256>".
func (DefaultKeyer) LayoutKey(treeHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", treeHash, opts)
}

// ArtifactKey returns "artifact:<sha256>".
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}

// Entry lifetimes. Layouts and artifacts are pure functions of their keys,
// so they only expire to bound the size of the store.
const (
	TTLLayout   = 30 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)
