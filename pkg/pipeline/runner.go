package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/dimgraph/pkg/cache"
	"github.com/matzehuels/dimgraph/pkg/graph"
	"github.com/matzehuels/dimgraph/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger; it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete load → layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, path string, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLayout(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	if err := opts.ValidateForRender(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{}

	// Stage 1: Load
	loadStart := time.Now()
	data, err := Load(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Graph = data
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.NodeCount = len(data.Nodes)
	result.Stats.EdgeCount = len(data.Edges)

	r.Logger.Info("loaded graph",
		"nodes", result.Stats.NodeCount,
		"edges", result.Stats.EdgeCount,
		"duration", result.Stats.LoadTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	lr, err := r.LayoutWithCacheInfo(ctx, data, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.GraphHash = lr.GraphHash
	result.Snapshot = lr.Snapshot
	result.Stats.Frames = lr.Frames
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.LayoutHit = lr.Hit

	r.Logger.Info("computed layout",
		"iterations", lr.Snapshot.Iterations,
		"converged", lr.Snapshot.Converged,
		"cached", lr.Hit,
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, lr.Snapshot, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// LayoutResult is the outcome of LayoutWithCacheInfo.
type LayoutResult struct {
	Snapshot  graph.Snapshot
	GraphHash string
	Frames    int  // Zero on a cache hit
	Hit       bool // Whether the snapshot came from cache
}

// LayoutWithCacheInfo computes a layout with caching and returns cache hit info.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, data graph.GraphData, opts Options) (LayoutResult, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLayout(); err != nil {
		return LayoutResult{}, err
	}

	// Compute cache key
	graphData, err := graph.MarshalGraph(data)
	if err != nil {
		return LayoutResult{}, fmt.Errorf("serialize graph for cache key: %w", err)
	}
	graphHash := cache.Hash(graphData)
	keyOpts, err := opts.LayoutKeyOpts()
	if err != nil {
		return LayoutResult{}, fmt.Errorf("hash layout settings: %w", err)
	}
	cacheKey := r.Keyer.LayoutKey(graphHash, keyOpts)

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if raw, hit := r.get(ctx, "layout", cacheKey); hit {
			snap, err := graph.ReadSnapshot(bytes.NewReader(raw))
			if err == nil {
				return LayoutResult{Snapshot: snap, GraphHash: graphHash, Hit: true}, nil
			}
			r.Logger.Debug("discarding undecodable cached layout", "key", cacheKey, "error", err)
		}
	}

	snap, frames, err := Layout(ctx, data, opts)
	if err != nil {
		return LayoutResult{}, err
	}

	var buf bytes.Buffer
	if err := graph.WriteSnapshot(snap, &buf); err == nil {
		r.set(ctx, "layout", cacheKey, buf.Bytes(), opts.layoutTTL())
	}
	return LayoutResult{Snapshot: snap, GraphHash: graphHash, Frames: frames}, nil
}

// Layout is a convenience wrapper that calls LayoutWithCacheInfo and
// returns only the snapshot.
func (r *Runner) Layout(ctx context.Context, data graph.GraphData, opts Options) (graph.Snapshot, error) {
	lr, err := r.LayoutWithCacheInfo(ctx, data, opts)
	return lr.Snapshot, err
}

// RenderWithCacheInfo generates artifacts with caching and returns whether
// every format came from cache. Only missing formats are rendered.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, snap graph.Snapshot, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	// Compute cache key from snapshot data
	var buf bytes.Buffer
	if err := graph.WriteSnapshot(snap, &buf); err != nil {
		return nil, false, fmt.Errorf("serialize snapshot for cache key: %w", err)
	}
	snapHash := cache.Hash(buf.Bytes())

	artifacts := make(map[string][]byte, len(opts.Formats))
	var missing []string
	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(snapHash, opts.ArtifactKeyOpts(format))
		if !opts.Refresh {
			if data, hit := r.get(ctx, "artifact", key); hit {
				artifacts[format] = data
				continue
			}
		}
		missing = append(missing, format)
	}
	if len(missing) == 0 {
		return artifacts, true, nil
	}

	renderOpts := opts
	renderOpts.Formats = missing
	rendered, err := Render(ctx, snap, renderOpts)
	if err != nil {
		return nil, false, err
	}
	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(snapHash, opts.ArtifactKeyOpts(format))
		r.set(ctx, "artifact", key, data, opts.artifactTTL())
		artifacts[format] = data
	}
	return artifacts, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and
// discards the cache hit info.
func (r *Runner) Render(ctx context.Context, snap graph.Snapshot, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, snap, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// get reads key and reports cache hooks. Backend errors count as misses.
func (r *Runner) get(ctx context.Context, kind, key string) ([]byte, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "key", key, "error", err)
	}
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, kind)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, kind)
	return data, true
}

// set writes key. Failures are logged and otherwise ignored.
func (r *Runner) set(ctx context.Context, kind, key string, data []byte, ttl time.Duration) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "key", key, "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, kind, len(data))
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
