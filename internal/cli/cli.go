// Package cli implements the dimgraph command-line interface.
//
// The CLI drives the layout engine headless through [pipeline.Runner] and,
// for the watch command, live in the terminal through bubbletea.
//
// # Commands
//
//   - layout: Simulate a graph and write the settled snapshot as JSON
//   - render: Simulate a graph and write SVG, DOT, PNG, PDF or JSON
//   - watch: Run the simulation live with keyboard pan, zoom and focus
//   - cache: Inspect or clear the layout cache
//
// # Configuration
//
// Every command reads an optional TOML file given by --config (see
// [config.Load]); flags override the file.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. The logger
// is passed through context.Context. --metrics-file dumps Prometheus
// metrics for the run when the command succeeds.
//
// [pipeline.Runner]: github.com/matzehuels/dimgraph/pkg/pipeline.Runner
// [config.Load]: github.com/matzehuels/dimgraph/pkg/config.Load
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/dimgraph/pkg/cache"
	"github.com/matzehuels/dimgraph/pkg/config"
	"github.com/matzehuels/dimgraph/pkg/observability/metrics"
	"github.com/matzehuels/dimgraph/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "dimgraph"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Set by persistent flags.
	configPath  string
	noCache     bool
	verbose     bool
	metricsFile string

	metrics *metrics.Metrics
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// loadConfig reads --config, or returns the defaults when it is unset.
func (c *CLI) loadConfig() (config.Config, error) {
	if c.configPath == "" {
		return config.Default(), nil
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return config.Config{}, err
	}
	c.Logger.Debug("loaded config", "path", c.configPath)
	return cfg, nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner backed by the configured cache.
func (c *CLI) newRunner(ctx context.Context, cfg config.Cache) (*pipeline.Runner, error) {
	store, err := c.openCache(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(store, nil, c.Logger), nil
}

func (c *CLI) openCache(ctx context.Context, cfg config.Cache) (cache.Cache, error) {
	if c.noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		c.Logger.Warn("no cache directory, caching disabled", "error", err)
		return cache.NewNullCache(), nil
	}
	return cache.Open(ctx, cfg, dir, c.Logger)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/dimgraph/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// layoutFlags are the flags shared by layout, render and watch. Zero values
// leave the config file's setting alone.
type layoutFlags struct {
	width, height float64
	seed          int64
	focus         string
	fit           bool
	maxFrames     int
	cluster       string // dimension to cluster by
	refresh       bool
}

// options merges flags over cfg.
func (f *layoutFlags) options(cfg config.Config) pipeline.Options {
	opts := pipeline.OptionsFromConfig(cfg)
	if f.width > 0 {
		opts.Width = f.width
	}
	if f.height > 0 {
		opts.Height = f.height
	}
	if f.seed != 0 {
		opts.Seed = f.seed
	}
	if f.cluster != "" {
		opts.Clustering.Enabled = true
		opts.Clustering.Dimension = f.cluster
	}
	opts.Focus = f.focus
	opts.Fit = f.fit
	opts.MaxFrames = f.maxFrames
	opts.Refresh = f.refresh
	return opts
}
