package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/dimgraph/pkg/graph"
	"github.com/matzehuels/dimgraph/pkg/observability"
	"github.com/matzehuels/dimgraph/pkg/render"
	"github.com/matzehuels/dimgraph/pkg/render/nodelink"
	"github.com/matzehuels/dimgraph/pkg/render/sink"
)

// Render generates output artifacts in the requested formats. Formats are
// rendered concurrently; the first failure cancels the rest.
func Render(ctx context.Context, snap graph.Snapshot, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	artifacts, err := renderAll(ctx, snap, opts)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	return artifacts, err
}

func renderAll(ctx context.Context, snap graph.Snapshot, opts Options) (map[string][]byte, error) {
	out := make([][]byte, len(opts.Formats))
	g, ctx := errgroup.WithContext(ctx)
	for i, format := range opts.Formats {
		g.Go(func() error {
			data, err := RenderFormat(ctx, snap, format, opts)
			if err != nil {
				return fmt.Errorf("render %s: %w", format, err)
			}
			out[i] = data
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	artifacts := make(map[string][]byte, len(out))
	for i, format := range opts.Formats {
		artifacts[format] = out[i]
	}
	return artifacts, nil
}

// RenderFormat renders a single format.
func RenderFormat(ctx context.Context, snap graph.Snapshot, format string, opts Options) ([]byte, error) {
	switch format {
	case FormatSVG:
		return sink.RenderSVG(snap, svgOptions(opts)...), nil
	case FormatPDF:
		return render.ToPDF(ctx, sink.RenderSVG(snap, svgOptions(opts)...))
	case FormatDOT:
		return []byte(nodelink.ToDOT(snap, dotOptions(opts))), nil
	case FormatGVSVG:
		return nodelink.RenderSVG(ctx, nodelink.ToDOT(snap, dotOptions(opts)))
	case FormatPNG:
		return nodelink.RenderPNG(ctx, nodelink.ToDOT(snap, dotOptions(opts)))
	case FormatJSON:
		var buf bytes.Buffer
		if err := graph.WriteSnapshot(snap, &buf); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return nil, ValidateFormat(format)
	}
}

func svgOptions(opts Options) []sink.SVGOption {
	svgOpts := []sink.SVGOption{sink.WithFit()}
	if opts.NoLabels {
		svgOpts = append(svgOpts, sink.WithoutLabels())
	}
	if opts.Interactive {
		svgOpts = append(svgOpts, sink.WithInteraction())
	}
	return svgOpts
}

func dotOptions(opts Options) nodelink.Options {
	return nodelink.Options{Detailed: opts.Detailed}
}
