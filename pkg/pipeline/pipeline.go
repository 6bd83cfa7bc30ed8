// Package pipeline runs the layout engine headless.
//
// This package implements the load → layout → render pipeline used by the
// CLI. The engine is driven by an [anim.ManualScheduler] whose clock only
// advances per frame, so a layout is a deterministic function of the graph
// and the options and can be cached.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: Read and decode a GraphData JSON file
//  2. Layout: Simulate until idle (or MaxFrames), optionally focusing a
//     node and fitting the view, and capture a snapshot
//  3. Render: Produce artifacts in the requested formats concurrently
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.OptionsFromConfig(cfg)
//	opts.Formats = []string{"svg", "dot"}
//	result, err := runner.Execute(ctx, "graph.json", opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// [anim.ManualScheduler]: github.com/matzehuels/dimgraph/pkg/core/anim.ManualScheduler
package pipeline

import (
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/dimgraph/pkg/cache"
	"github.com/matzehuels/dimgraph/pkg/config"
	"github.com/matzehuels/dimgraph/pkg/core/physics"
	"github.com/matzehuels/dimgraph/pkg/core/style"
	"github.com/matzehuels/dimgraph/pkg/errors"
	"github.com/matzehuels/dimgraph/pkg/graph"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultWidth is the default viewport width.
	DefaultWidth = 800.0

	// DefaultHeight is the default viewport height.
	DefaultHeight = 600.0

	// DefaultSeed is the default seed for initial velocity noise.
	DefaultSeed = int64(1)

	// DefaultMaxFrames bounds a headless run. At the default iteration cap
	// a simulation settles well within it, animations included.
	DefaultMaxFrames = 10000

	// DefaultPNGScale is the rsvg-convert zoom used for PNG output.
	DefaultPNGScale = 2.0
)

// Format constants for output formats.
const (
	FormatSVG   = "svg"    // native SVG sink
	FormatDOT   = "dot"    // Graphviz DOT source with pinned positions
	FormatGVSVG = "gv-svg" // SVG rendered by Graphviz neato
	FormatPNG   = "png"    // PNG rendered by Graphviz neato
	FormatPDF   = "pdf"    // native SVG converted with rsvg-convert
	FormatJSON  = "json"   // the snapshot itself
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:   true,
	FormatDOT:   true,
	FormatGVSVG: true,
	FormatPNG:   true,
	FormatPDF:   true,
	FormatJSON:  true,
}

// Extension returns the file extension for a format.
func Extension(format string) string {
	switch format {
	case FormatGVSVG:
		return "gv.svg"
	default:
		return format
	}
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for a pipeline run.
type Options struct {
	// Layout options
	Width      float64                  `json:"width,omitempty"`
	Height     float64                  `json:"height,omitempty"`
	Seed       int64                    `json:"seed,omitempty"`
	Focus      string                   `json:"focus,omitempty"` // Node to focus after settling
	Fit        bool                     `json:"fit,omitempty"`   // Fit the view once settled
	MaxFrames  int                      `json:"max_frames,omitempty"`
	Parameters physics.Parameters       `json:"parameters"`
	Clustering physics.ClusteringConfig `json:"clustering"`
	Mapping    style.Mapping            `json:"mapping"`

	NodeDuration      time.Duration `json:"-"`
	TransformDuration time.Duration `json:"-"`

	// Render options
	Formats     []string `json:"formats,omitempty"`
	NoLabels    bool     `json:"no_labels,omitempty"`
	Interactive bool     `json:"interactive,omitempty"` // Hover highlighting in native SVG
	Detailed    bool     `json:"detailed,omitempty"`    // Dimension values in DOT labels

	// Refresh bypasses cache reads; results are still written.
	Refresh bool `json:"refresh,omitempty"`

	// TTL overrides the cache entry lifetime. Zero uses the cache defaults.
	TTL time.Duration `json:"-"`

	Logger *log.Logger `json:"-"`
}

// OptionsFromConfig maps a loaded configuration onto pipeline options.
func OptionsFromConfig(c config.Config) Options {
	return Options{
		Width:             c.Viewport.Width,
		Height:            c.Viewport.Height,
		Seed:              c.Viewport.Seed,
		Parameters:        c.Simulation,
		Clustering:        c.Clustering,
		Mapping:           c.Style,
		NodeDuration:      c.Animation.NodeDuration.Duration,
		TransformDuration: c.Animation.TransformDuration.Duration,
		TTL:               c.Cache.TTL.Duration,
	}
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Graph is the loaded input.
	Graph graph.GraphData

	// GraphHash is the content hash of the input.
	GraphHash string

	// Snapshot is the settled layout.
	Snapshot graph.Snapshot

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	EdgeCount  int
	Frames     int
	LoadTime   time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether the snapshot came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidInput, "invalid format: %q (must be one of: %s)",
			format, strings.Join(FormatNames(), ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// FormatNames returns the supported formats, sorted.
func FormatNames() []string {
	names := make([]string, 0, len(ValidFormats))
	for f := range ValidFormats {
		names = append(names, f)
	}
	slices.Sort(names)
	return names
}

// ParseFormats splits a comma-separated format list, dropping blanks and
// duplicates.
func ParseFormats(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		f = strings.ToLower(strings.TrimSpace(f))
		if f != "" && !slices.Contains(out, f) {
			out = append(out, f)
		}
	}
	return out
}

// =============================================================================
// Options Methods
// =============================================================================

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.Width <= 0 {
		o.Width = DefaultWidth
	}
	if o.Height <= 0 {
		o.Height = DefaultHeight
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if o.MaxFrames <= 0 {
		o.MaxFrames = DefaultMaxFrames
	}
	if o.Parameters == (physics.Parameters{}) {
		o.Parameters = physics.DefaultParameters()
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
}

// ValidateForLayout applies layout defaults and validates the simulation
// settings. An invalid clustering config is not an error; the engine
// disables clustering and logs a warning.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	if err := o.Parameters.Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "simulation parameters")
	}
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
}

// ValidateForRender applies render defaults and validates formats.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	return ValidateFormats(o.Formats)
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() (cache.LayoutKeyOpts, error) {
	settings, err := cache.HashJSON(struct {
		Parameters physics.Parameters       `json:"parameters"`
		Clustering physics.ClusteringConfig `json:"clustering"`
		Mapping    style.Mapping            `json:"mapping"`
		NodeMS     int64                    `json:"node_ms"`
		ViewMS     int64                    `json:"view_ms"`
	}{
		Parameters: o.Parameters,
		Clustering: o.Clustering.WithDefaults(),
		Mapping:    o.Mapping,
		NodeMS:     o.NodeDuration.Milliseconds(),
		ViewMS:     o.TransformDuration.Milliseconds(),
	})
	if err != nil {
		return cache.LayoutKeyOpts{}, err
	}
	return cache.LayoutKeyOpts{
		Width:     o.Width,
		Height:    o.Height,
		Seed:      o.Seed,
		Focus:     o.Focus,
		Fit:       o.Fit,
		MaxFrames: o.MaxFrames,
		Settings:  settings,
	}, nil
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:      format,
		Labels:      !o.NoLabels,
		Interactive: o.Interactive,
		Detailed:    o.Detailed,
	}
}

func (o *Options) layoutTTL() time.Duration {
	if o.TTL > 0 {
		return o.TTL
	}
	return cache.TTLLayout
}

func (o *Options) artifactTTL() time.Duration {
	if o.TTL > 0 {
		return o.TTL
	}
	return cache.TTLArtifact
}
