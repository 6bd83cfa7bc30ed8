// Package cache stores computed layouts and rendered artifacts.
//
// Backends implement [Cache]: [FileCache] for the CLI, [RedisCache] and
// [MongoCache] for shared deployments, and [NullCache] to disable caching.
// Keys come from a [Keyer] so that every backend agrees on naming.
package cache

import (
	"context"
	"time"
)

// Default time-to-live per entry kind.
const (
	TTLLayout   = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is a byte-oriented key/value store with expiry.
type Cache interface {
	// Get returns the value for key. A missing or expired key reports
	// hit=false with a nil error.
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)

	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	Delete(ctx context.Context, key string) error
	Close() error
}

// =============================================================================
// Keys
// =============================================================================

// LayoutKeyOpts are the inputs that change a computed layout besides the
// graph itself.
type LayoutKeyOpts struct {
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	Seed      int64   `json:"seed"`
	Focus     string  `json:"focus,omitempty"`
	Fit       bool    `json:"fit,omitempty"`
	MaxFrames int     `json:"max_frames"`
	// Settings is a hash of the simulation, clustering and style settings.
	Settings string `json:"settings"`
}

// ArtifactKeyOpts are the inputs that change a rendered artifact besides
// the layout.
type ArtifactKeyOpts struct {
	Format      string `json:"format"`
	Labels      bool   `json:"labels"`
	Interactive bool   `json:"interactive,omitempty"`
	Detailed    bool   `json:"detailed,omitempty"`
}

// Keyer names cache entries.
type Keyer interface {
	LayoutKey(graphHash string, opts LayoutKeyOpts) string
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes options into fixed-length keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default Keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// LayoutKey returns "layout:<sha256>".
func (DefaultKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", graphHash, opts)
}

// ArtifactKey returns "artifact:<format>:<sha256>".
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact:"+opts.Format, layoutHash, opts)
}
