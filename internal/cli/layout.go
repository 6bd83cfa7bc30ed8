package cli

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/dimgraph/pkg/graph"
	"github.com/matzehuels/dimgraph/pkg/pipeline"
)

// layoutCommand creates the layout command, which writes the settled
// snapshot of a graph as JSON.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		flags  layoutFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "layout <graph.json>",
		Short: "Simulate a graph and write the settled layout as JSON",
		Long: `Simulate a graph until it settles and write the resulting snapshot:
positions, styles, viewport transform and convergence statistics.

Without -o the snapshot is written to stdout.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd, args[0], output, &flags)
		},
	}

	addHeadlessFlags(cmd, &flags)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}

func (c *CLI) runLayout(cmd *cobra.Command, input, output string, flags *layoutFlags) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
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

	data, err := pipeline.Load(ctx, input)
	if err != nil {
		return err
	}

	prog := newProgress(logger)
	spinner := newSpinner(ctx, stderr, "Simulating...")
	spinner.Start()
	res, err := runner.LayoutWithCacheInfo(ctx, data, flags.options(cfg))
	spinner.Stop()
	if err != nil {
		return err
	}
	prog.done("layout ready", "frames", res.Frames)

	var buf bytes.Buffer
	if err := graph.WriteSnapshot(res.Snapshot, &buf); err != nil {
		return err
	}
	if output == "" || output == "-" {
		_, err := cmd.OutOrStdout().Write(buf.Bytes())
		return err
	}
	if err := os.WriteFile(output, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}

	printSuccess(stderr, "Layout computed")
	printStats(stderr, layoutStats{
		nodes:      len(res.Snapshot.Nodes),
		edges:      len(res.Snapshot.Edges),
		iterations: res.Snapshot.Iterations,
		converged:  res.Snapshot.Converged,
		cached:     res.Hit,
	})
	printFile(stderr, output)
	printNextStep(stderr, "Watch it live", fmt.Sprintf("%s watch %s", appName, input))
	return nil
}
