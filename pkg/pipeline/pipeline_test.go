package pipeline

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/dimgraph/pkg/config"
	"github.com/matzehuels/dimgraph/pkg/core/physics"
	"github.com/matzehuels/dimgraph/pkg/errors"
	"github.com/matzehuels/dimgraph/pkg/graph"
	"github.com/matzehuels/dimgraph/pkg/observability"
)

// memCache is an in-memory cache.Cache that counts writes.
type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
	sets int
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.data[key]
	return d, ok, nil
}

func (c *memCache) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
	c.sets++
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *memCache) Close() error { return nil }

func pinned() graph.GraphData {
	return graph.GraphData{
		Nodes: []graph.Node{
			{ID: "a", Label: "alpha", IsFixed: true, X: graph.Float(100), Y: graph.Float(100)},
			{ID: "b", Label: "beta", IsFixed: true, X: graph.Float(300), Y: graph.Float(100),
				Dimensions: map[string]float64{"influence": 0.8}},
		},
		Edges: []graph.Edge{{ID: "ab", FromNodeID: "a", ToNodeID: "b"}},
	}
}

func triangle() graph.GraphData {
	return graph.GraphData{
		Nodes: []graph.Node{{ID: "a"}, {ID: "b"}, {ID: "c"}},
		Edges: []graph.Edge{
			{FromNodeID: "a", ToNodeID: "b"},
			{FromNodeID: "b", ToNodeID: "c"},
		},
	}
}

func quiet() Options {
	return Options{Logger: log.New(io.Discard)}
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"dot", false},
		{"gv-svg", false},
		{"png", false},
		{"pdf", false},
		{"json", false},
		{"invalid", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("ValidateFormat(%q) code = %s, want INVALID_INPUT", tt.format, errors.GetCode(err))
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "dot"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}
	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}
	// Empty slice is valid
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"svg", []string{"svg"}},
		{"svg, PNG ,dot", []string{"svg", "png", "dot"}},
		{"svg,,svg", []string{"svg"}},
		{"", nil},
	}
	for _, tt := range tests {
		if got := ParseFormats(tt.in); !slices.Equal(got, tt.want) {
			t.Errorf("ParseFormats(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestExtension(t *testing.T) {
	if got := Extension(FormatGVSVG); got != "gv.svg" {
		t.Errorf("Extension(gv-svg) = %q", got)
	}
	if got := Extension(FormatPNG); got != "png" {
		t.Errorf("Extension(png) = %q", got)
	}
}

func TestSetLayoutDefaults(t *testing.T) {
	var opts Options
	opts.SetLayoutDefaults()

	if opts.Width != DefaultWidth || opts.Height != DefaultHeight {
		t.Errorf("size = %vx%v, want %vx%v", opts.Width, opts.Height, DefaultWidth, DefaultHeight)
	}
	if opts.Seed != DefaultSeed {
		t.Errorf("Seed = %d, want %d", opts.Seed, DefaultSeed)
	}
	if opts.MaxFrames != DefaultMaxFrames {
		t.Errorf("MaxFrames = %d, want %d", opts.MaxFrames, DefaultMaxFrames)
	}
	if opts.Parameters != physics.DefaultParameters() {
		t.Error("Parameters should default to physics.DefaultParameters")
	}
	if opts.Logger == nil {
		t.Error("Logger should be set")
	}
}

func TestSetRenderDefaults(t *testing.T) {
	var opts Options
	opts.SetRenderDefaults()
	if !slices.Equal(opts.Formats, []string{FormatSVG}) {
		t.Errorf("Formats = %v, want [svg]", opts.Formats)
	}
}

func TestValidateForLayoutRejectsBadParameters(t *testing.T) {
	opts := quiet()
	opts.Parameters = physics.DefaultParameters()
	opts.Parameters.Damping = 2
	err := opts.ValidateForLayout()
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("ValidateForLayout() = %v, want INVALID_CONFIG", err)
	}
}

func TestOptionsFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Viewport.Width = 1024
	cfg.Clustering.Enabled = true
	cfg.Clustering.Dimension = "era"
	cfg.Animation.NodeDuration = config.Duration{Duration: time.Second}

	opts := OptionsFromConfig(cfg)
	if opts.Width != 1024 || opts.Height != cfg.Viewport.Height {
		t.Errorf("size = %vx%v", opts.Width, opts.Height)
	}
	if !opts.Clustering.Enabled || opts.Clustering.Dimension != "era" {
		t.Errorf("Clustering = %+v", opts.Clustering)
	}
	if opts.NodeDuration != time.Second {
		t.Errorf("NodeDuration = %v, want 1s", opts.NodeDuration)
	}
	if opts.Parameters != cfg.Simulation {
		t.Error("Parameters should come from [simulation]")
	}
}

func TestLayoutKeyOpts(t *testing.T) {
	opts := quiet()
	opts.SetLayoutDefaults()
	base, err := opts.LayoutKeyOpts()
	if err != nil {
		t.Fatal(err)
	}

	changed := opts
	changed.Parameters.RepulsionStrength++
	other, err := changed.LayoutKeyOpts()
	if err != nil {
		t.Fatal(err)
	}
	if base.Settings == other.Settings {
		t.Error("settings hash should change with parameters")
	}

	same := opts
	same.Formats = []string{"png"}
	again, _ := same.LayoutKeyOpts()
	if again != base {
		t.Error("render options should not change the layout key")
	}
}

func TestLayoutPinned(t *testing.T) {
	snap, frames, err := Layout(context.Background(), pinned(), quiet())
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}
	if frames == 0 {
		t.Error("expected frames to run")
	}
	if snap.ID != "" {
		t.Errorf("snapshot id = %q, want empty", snap.ID)
	}
	if !snap.Converged {
		t.Error("pinned layout should converge")
	}
	a, ok := snap.Node("a")
	if !ok || a.X != 100 || a.Y != 100 {
		t.Errorf("a = %+v, want pinned at (100,100)", a)
	}
	if len(snap.Edges) != 1 {
		t.Errorf("edges = %d, want 1", len(snap.Edges))
	}
}

func TestLayoutFocusAndFit(t *testing.T) {
	opts := quiet()
	opts.Focus = "b"
	opts.Fit = true
	snap, _, err := Layout(context.Background(), triangle(), opts)
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}
	if snap.FocusID != "" {
		t.Errorf("FocusID = %q, fit should clear focus", snap.FocusID)
	}
	if snap.Transform.Scale == 1 && snap.Transform.TranslateX == 0 && snap.Transform.TranslateY == 0 {
		t.Error("fit should change the transform")
	}
}

func TestLayoutUnknownFocus(t *testing.T) {
	opts := quiet()
	opts.Focus = "missing"
	_, _, err := Layout(context.Background(), triangle(), opts)
	if !errors.Is(err, errors.ErrCodeNodeNotFound) {
		t.Errorf("Layout() = %v, want NODE_NOT_FOUND", err)
	}
}

func TestLayoutCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := Layout(ctx, triangle(), quiet())
	if err != context.Canceled {
		t.Errorf("Layout() = %v, want context.Canceled", err)
	}
}

func TestLayoutFrameBudget(t *testing.T) {
	opts := quiet()
	opts.MaxFrames = 3
	_, frames, err := Layout(context.Background(), triangle(), opts)
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}
	if frames > 3 {
		t.Errorf("frames = %d, want at most 3", frames)
	}
}

func TestRender(t *testing.T) {
	snap, _, err := Layout(context.Background(), pinned(), quiet())
	if err != nil {
		t.Fatal(err)
	}

	opts := quiet()
	opts.Formats = []string{FormatSVG, FormatDOT, FormatJSON}
	artifacts, err := Render(context.Background(), snap, opts)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if len(artifacts) != 3 {
		t.Fatalf("got %d artifacts, want 3", len(artifacts))
	}
	if !strings.Contains(string(artifacts[FormatSVG]), "<svg") {
		t.Error("svg artifact missing root element")
	}
	if !strings.Contains(string(artifacts[FormatDOT]), `"a" -- "b"`) {
		t.Error("dot artifact missing edge")
	}
	if !strings.Contains(string(artifacts[FormatJSON]), `"converged": true`) {
		t.Error("json artifact missing snapshot fields")
	}

	opts.Formats = []string{"bogus"}
	if _, err := Render(context.Background(), snap, opts); err == nil {
		t.Error("Render() should reject unknown formats")
	}
}

func TestRunnerCachesLayout(t *testing.T) {
	c := newMemCache()
	r := NewRunner(c, nil, log.New(io.Discard))
	ctx := context.Background()

	first, err := r.LayoutWithCacheInfo(ctx, triangle(), quiet())
	if err != nil {
		t.Fatal(err)
	}
	if first.Hit || first.Frames == 0 {
		t.Errorf("first run: hit=%v frames=%d", first.Hit, first.Frames)
	}
	if c.sets != 1 {
		t.Errorf("cache sets = %d, want 1", c.sets)
	}

	second, err := r.LayoutWithCacheInfo(ctx, triangle(), quiet())
	if err != nil {
		t.Fatal(err)
	}
	if !second.Hit {
		t.Error("second run should hit the cache")
	}
	if second.GraphHash != first.GraphHash {
		t.Error("graph hash changed between runs")
	}
	for _, n := range first.Snapshot.Nodes {
		m, ok := second.Snapshot.Node(n.ID)
		if !ok || m.X != n.X || m.Y != n.Y {
			t.Errorf("node %s: cached %+v, computed %+v", n.ID, m, n)
		}
	}

	refresh := quiet()
	refresh.Refresh = true
	third, err := r.LayoutWithCacheInfo(ctx, triangle(), refresh)
	if err != nil {
		t.Fatal(err)
	}
	if third.Hit {
		t.Error("refresh should bypass the cache")
	}
}

func TestRunnerCachesArtifacts(t *testing.T) {
	c := newMemCache()
	r := NewRunner(c, nil, log.New(io.Discard))
	ctx := context.Background()
	snap, err := r.Layout(ctx, pinned(), quiet())
	if err != nil {
		t.Fatal(err)
	}
	base := c.sets

	opts := quiet()
	opts.Formats = []string{FormatSVG}
	if _, hit, err := r.RenderWithCacheInfo(ctx, snap, opts); err != nil || hit {
		t.Fatalf("first render: hit=%v err=%v", hit, err)
	}
	if _, hit, err := r.RenderWithCacheInfo(ctx, snap, opts); err != nil || !hit {
		t.Fatalf("second render: hit=%v err=%v", hit, err)
	}

	opts.Formats = []string{FormatSVG, FormatDOT}
	artifacts, hit, err := r.RenderWithCacheInfo(ctx, snap, opts)
	if err != nil || hit {
		t.Fatalf("mixed render: hit=%v err=%v", hit, err)
	}
	if len(artifacts) != 2 {
		t.Errorf("got %d artifacts, want 2", len(artifacts))
	}
	if got := c.sets - base; got != 2 {
		t.Errorf("artifact writes = %d, want 2 (svg once, dot once)", got)
	}

	opts.Formats = []string{FormatSVG}
	opts.NoLabels = true
	if _, hit, _ := r.RenderWithCacheInfo(ctx, snap, opts); hit {
		t.Error("label setting should change the artifact key")
	}
}

type recordingPipelineHooks struct {
	observability.NoopPipelineHooks
	events []string
}

func (h *recordingPipelineHooks) OnLoadStart(context.Context, string) {
	h.events = append(h.events, "load")
}

func (h *recordingPipelineHooks) OnLayoutStart(context.Context, int, int) {
	h.events = append(h.events, "layout")
}

func (h *recordingPipelineHooks) OnRenderStart(context.Context, []string) {
	h.events = append(h.events, "render")
}

func TestExecute(t *testing.T) {
	hooks := &recordingPipelineHooks{}
	observability.SetPipelineHooks(hooks)
	t.Cleanup(observability.Reset)

	path := filepath.Join(t.TempDir(), "graph.json")
	if err := graph.WriteGraphFile(pinned(), path); err != nil {
		t.Fatal(err)
	}

	r := NewRunner(newMemCache(), nil, log.New(io.Discard))
	opts := quiet()
	opts.Formats = []string{FormatSVG, FormatJSON}
	res, err := r.Execute(context.Background(), path, opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.Stats.NodeCount != 2 || res.Stats.EdgeCount != 1 {
		t.Errorf("stats = %+v", res.Stats)
	}
	if res.GraphHash == "" {
		t.Error("GraphHash should be set")
	}
	if len(res.Artifacts) != 2 {
		t.Errorf("got %d artifacts, want 2", len(res.Artifacts))
	}
	if res.CacheInfo.LayoutHit || res.CacheInfo.RenderHit {
		t.Errorf("first run should miss: %+v", res.CacheInfo)
	}
	if want := []string{"load", "layout", "render"}; !slices.Equal(hooks.events, want) {
		t.Errorf("hook events = %v, want %v", hooks.events, want)
	}

	res, err = r.Execute(context.Background(), path, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !res.CacheInfo.LayoutHit || !res.CacheInfo.RenderHit {
		t.Errorf("second run should hit: %+v", res.CacheInfo)
	}
}

func TestExecuteMissingFile(t *testing.T) {
	r := NewRunner(nil, nil, log.New(io.Discard))
	_, err := r.Execute(context.Background(), filepath.Join(t.TempDir(), "nope.json"), quiet())
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Execute() = %v, want FILE_NOT_FOUND", err)
	}
}

func TestLoadURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"nodes":[{"id":"a"},{"id":"b"}],"edges":[{"fromNodeId":"a","toNodeId":"b"}]}`))
	}))
	defer srv.Close()

	data, err := Load(context.Background(), srv.URL+"/graph.json")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(data.Nodes) != 2 || len(data.Edges) != 1 {
		t.Errorf("Load() = %d nodes, %d edges; want 2, 1", len(data.Nodes), len(data.Edges))
	}
}

func TestLoadURLNotFound(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	_, err := Load(context.Background(), srv.URL)
	if !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("Load() = %v, want NOT_FOUND", err)
	}
}

func TestExampleGraphs(t *testing.T) {
	paths, err := filepath.Glob("../../examples/graphs/*.json")
	if err != nil || len(paths) == 0 {
		t.Fatalf("no example graphs: %v", err)
	}
	for _, path := range paths {
		t.Run(filepath.Base(path), func(t *testing.T) {
			data, err := Load(context.Background(), path)
			if err != nil {
				t.Fatalf("Load() error: %v", err)
			}
			opts := quiet()
			opts.Fit = true
			snap, _, err := Layout(context.Background(), data, opts)
			if err != nil {
				t.Fatalf("Layout() error: %v", err)
			}
			if len(snap.Nodes) != len(data.Nodes) {
				t.Errorf("snapshot has %d nodes, want %d", len(snap.Nodes), len(data.Nodes))
			}
		})
	}
}
