package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/dimgraph/pkg/pipeline"
)

// renderFlags are the render command's own flags.
type renderFlags struct {
	output      string
	formats     string
	noLabels    bool
	interactive bool
	detailed    bool
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		flags layoutFlags
		rf    renderFlags
	)

	cmd := &cobra.Command{
		Use:   "render <graph.json>",
		Short: "Simulate a graph and render it",
		Long: `Simulate a graph until it settles and render the result.

Formats:
  svg     native SVG with shapes, glow and labels
  pdf     native SVG converted with rsvg-convert
  dot     Graphviz source with every node pinned at its position
  gv-svg  SVG drawn by Graphviz neato from the pinned DOT
  png     PNG drawn by Graphviz neato from the pinned DOT
  json    the layout snapshot`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formats := pipeline.ParseFormats(rf.formats)
			if len(formats) == 0 {
				formats = []string{pipeline.FormatSVG}
			}
			if err := pipeline.ValidateFormats(formats); err != nil {
				return err
			}
			return c.runRender(cmd, args[0], formats, &flags, &rf)
		},
	}

	addHeadlessFlags(cmd, &flags)
	cmd.Flags().StringVarP(&rf.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&rf.formats, "format", "f", "", "output format(s), comma-separated: "+strings.Join(pipeline.FormatNames(), ", ")+" (default svg)")
	cmd.Flags().BoolVar(&rf.noLabels, "no-labels", false, "omit node labels (svg, pdf)")
	cmd.Flags().BoolVar(&rf.interactive, "interactive", false, "add hover highlighting (svg)")
	cmd.Flags().BoolVar(&rf.detailed, "detailed", false, "show dimension values in labels (dot, gv-svg, png)")
	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, input string, formats []string, flags *layoutFlags, rf *renderFlags) error {
	ctx := cmd.Context()
	stderr := cmd.ErrOrStderr()

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	runner, err := c.newRunner(ctx, cfg.Cache)
	if err != nil {
		return err
	}
	defer runner.Close()

	opts := flags.options(cfg)
	opts.Formats = formats
	opts.NoLabels = rf.noLabels
	opts.Interactive = rf.interactive
	opts.Detailed = rf.detailed

	spinner := newSpinner(ctx, stderr, "Rendering...")
	spinner.Start()
	res, err := runner.Execute(ctx, input, opts)
	spinner.Stop()
	if err != nil {
		return err
	}

	paths := outputPaths(rf.output, input, formats)
	for _, format := range formats {
		if err := os.WriteFile(paths[format], res.Artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", paths[format], err)
		}
	}

	printSuccess(stderr, "Rendered %s", strings.Join(formats, ", "))
	printStats(stderr, layoutStats{
		nodes:      res.Stats.NodeCount,
		edges:      res.Stats.EdgeCount,
		iterations: res.Snapshot.Iterations,
		converged:  res.Snapshot.Converged,
		cached:     res.CacheInfo.LayoutHit,
	})
	for _, format := range formats {
		printFile(stderr, paths[format])
	}
	return nil
}

// outputPaths maps each format to its output file. A single format with
// an explicit output is written there verbatim; otherwise files share a
// base path derived from output or input.
func outputPaths(output, input string, formats []string) map[string]string {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" && filepath.Ext(output) != "" {
		paths[formats[0]] = output
		return paths
	}
	base := basePath(output, input)
	for _, f := range formats {
		paths[f] = base + "." + pipeline.Extension(f)
	}
	return paths
}

// basePath derives the base output path. If output is empty, it strips the
// extension from input. Known format extensions are stripped from output.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}
