package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/dimgraph/pkg/config"
	"github.com/matzehuels/dimgraph/pkg/errors"
	"github.com/matzehuels/dimgraph/pkg/observability"
)

const testGraph = `{
  "nodes": [
    {"id": "api", "label": "API", "dimensions": {"influence": 0.9}},
    {"id": "db", "label": "Database", "dimensions": {"era": 0.2}},
    {"id": "cache", "isFixed": true, "x": 400, "y": 300}
  ],
  "edges": [
    {"fromNodeId": "api", "toNodeId": "db"},
    {"fromNodeId": "api", "toNodeId": "cache", "strength": 0.5}
  ]
}`

func writeGraph(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "graph.json")
	if err := os.WriteFile(path, []byte(testGraph), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// execute runs the root command with args and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	c := New(io.Discard, log.InfoLevel)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestRootCommandTree(t *testing.T) {
	root := New(io.Discard, log.InfoLevel).RootCommand()
	for _, name := range []string{"layout", "render", "watch", "cache", "completion"} {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("missing subcommand %q", name)
		}
	}
	for _, flag := range []string{"verbose", "config", "no-cache"} {
		if root.PersistentFlags().Lookup(flag) == nil {
			t.Errorf("missing persistent flag --%s", flag)
		}
	}
}

func TestLayoutCommand(t *testing.T) {
	input := writeGraph(t)
	out := filepath.Join(t.TempDir(), "layout.json")
	if _, err := execute(t, "--no-cache", "layout", input, "-o", out, "--fit"); err != nil {
		t.Fatalf("layout: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{`"nodes"`, `"api"`, `"transform"`} {
		if !strings.Contains(string(data), want) {
			t.Errorf("layout output missing %s", want)
		}
	}
}

func TestLayoutCommandStdout(t *testing.T) {
	stdout, err := execute(t, "--no-cache", "layout", writeGraph(t))
	if err != nil {
		t.Fatalf("layout: %v", err)
	}
	if !strings.HasPrefix(strings.TrimSpace(stdout), "{") {
		t.Errorf("stdout should hold the snapshot JSON, got %q", stdout)
	}
}

func TestRenderCommand(t *testing.T) {
	input := writeGraph(t)
	base := filepath.Join(t.TempDir(), "out")
	if _, err := execute(t, "--no-cache", "render", input, "-f", "svg,dot,json", "-o", base, "--interactive"); err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, ext := range []string{".svg", ".dot", ".json"} {
		info, err := os.Stat(base + ext)
		if err != nil {
			t.Errorf("missing %s: %v", ext, err)
			continue
		}
		if info.Size() == 0 {
			t.Errorf("%s is empty", ext)
		}
	}
}

func TestRenderCommandBadFormat(t *testing.T) {
	_, err := execute(t, "--no-cache", "render", writeGraph(t), "-f", "bmp")
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("err = %v, want INVALID_INPUT", err)
	}
}

func TestLayoutCommandMissingFile(t *testing.T) {
	_, err := execute(t, "--no-cache", "layout", filepath.Join(t.TempDir(), "nope.json"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("err = %v, want FILE_NOT_FOUND", err)
	}
}

func TestConfigFlag(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dimgraph.toml")
	cfg := config.Default()
	cfg.Cache.Dir = filepath.Join(dir, "cache")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := cfg.Write(f); err != nil {
		t.Fatal(err)
	}
	f.Close()

	stdout, err := execute(t, "--config", path, "cache", "path")
	if err != nil {
		t.Fatalf("cache path: %v", err)
	}
	if got := strings.TrimSpace(stdout); got != cfg.Cache.Dir {
		t.Errorf("cache path = %q, want %q", got, cfg.Cache.Dir)
	}

	if _, err := execute(t, "--config", filepath.Join(dir, "missing.toml"), "cache", "path"); err == nil {
		t.Error("a missing config file should fail")
	}
}

func TestCacheClear(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", dir)

	input := writeGraph(t)
	out := filepath.Join(t.TempDir(), "layout.json")
	if _, err := execute(t, "layout", input, "-o", out); err != nil {
		t.Fatalf("layout: %v", err)
	}

	stdout, err := execute(t, "cache", "clear")
	if err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	if !strings.Contains(stdout, "Cleared 1") {
		t.Errorf("cache clear output = %q, want one cleared entry", stdout)
	}
}

func TestCacheInfoNoCache(t *testing.T) {
	stdout, err := execute(t, "--no-cache", "cache", "info")
	if err != nil {
		t.Fatalf("cache info: %v", err)
	}
	if !strings.Contains(stdout, config.BackendNone) {
		t.Errorf("cache info = %q, want backend none", stdout)
	}
}

func TestLayoutFlagsOptions(t *testing.T) {
	cfg := config.Default()
	f := layoutFlags{width: 1024, seed: 7, cluster: "era", focus: "api", maxFrames: 50}
	opts := f.options(cfg)

	if opts.Width != 1024 {
		t.Errorf("Width = %v, want 1024", opts.Width)
	}
	if opts.Height != cfg.Viewport.Height {
		t.Errorf("Height = %v, want config value %v", opts.Height, cfg.Viewport.Height)
	}
	if opts.Seed != 7 || opts.Focus != "api" || opts.MaxFrames != 50 {
		t.Errorf("options = %+v, flags not applied", opts)
	}
	if !opts.Clustering.Enabled || opts.Clustering.Dimension != "era" {
		t.Errorf("Clustering = %+v, want enabled on era", opts.Clustering)
	}
}

func TestCompletionCommand(t *testing.T) {
	stdout, err := execute(t, "completion", "bash")
	if err != nil {
		t.Fatalf("completion: %v", err)
	}
	if !strings.Contains(stdout, appName) {
		t.Error("bash completion should mention the program name")
	}
	if _, err := execute(t, "completion", "tcsh"); err == nil {
		t.Error("unknown shell should fail")
	}
}

func TestMetricsFile(t *testing.T) {
	t.Cleanup(observability.Reset)
	path := filepath.Join(t.TempDir(), "dimgraph.prom")
	out := filepath.Join(t.TempDir(), "layout.json")
	if _, err := execute(t, "--no-cache", "--metrics-file", path, "layout", writeGraph(t), "-o", out); err != nil {
		t.Fatalf("layout: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("metrics file: %v", err)
	}
	for _, want := range []string{"dimgraph_engine_runs_total", "dimgraph_pipeline_stage_seconds"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("metrics file missing %s", want)
		}
	}
}
