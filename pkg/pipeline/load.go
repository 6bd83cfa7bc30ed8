package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/dimgraph/pkg/graph"
	"github.com/matzehuels/dimgraph/pkg/httputil"
	"github.com/matzehuels/dimgraph/pkg/observability"
)

// Load reads a GraphData JSON document from a file, or from an http(s)
// URL.
func Load(ctx context.Context, path string) (graph.GraphData, error) {
	hooks := observability.Pipeline()
	hooks.OnLoadStart(ctx, path)
	start := time.Now()

	data, err := load(ctx, path)
	hooks.OnLoadComplete(ctx, path, len(data.Nodes), time.Since(start), err)
	return data, err
}

func load(ctx context.Context, path string) (graph.GraphData, error) {
	if !httputil.IsURL(path) {
		return graph.ReadGraphFile(path)
	}
	body, err := httputil.Fetch(ctx, nil, path)
	if err != nil {
		return graph.GraphData{}, err
	}
	data, err := graph.ReadGraph(bytes.NewReader(body))
	if err != nil {
		return graph.GraphData{}, fmt.Errorf("%s: %w", path, err)
	}
	return data, nil
}
