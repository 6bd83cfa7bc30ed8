package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/dimgraph/pkg/buildinfo"
	"github.com/matzehuels/dimgraph/pkg/observability/metrics"
)

// RootCommand creates the root cobra command with all subcommands registered.
//
// Logging:
//   - Default: info level (logs to stderr)
//   - With --verbose (-v): debug level
//
// The logger is attached to the command context and accessible to all
// commands via loggerFromContext.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "dimgraph lays out graphs by their dimensions",
		Long: `dimgraph is a force-directed graph layout engine in which node and edge
dimensions (influence, era, fame, ...) shape both the physics and the style.
It simulates graphs headless to SVG, DOT, PNG or JSON, or live in the terminal.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := LogInfo
			if c.verbose {
				level = LogDebug
			}
			c.SetLogLevel(level)
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			if c.metricsFile != "" {
				c.metrics = metrics.New()
				c.metrics.Install()
			}
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if c.metrics == nil {
				return nil
			}
			if err := c.metrics.WriteFile(c.metricsFile); err != nil {
				return fmt.Errorf("write metrics: %w", err)
			}
			c.Logger.Debug("wrote metrics", "path", c.metricsFile)
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	flags := root.PersistentFlags()
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	flags.StringVarP(&c.configPath, "config", "c", "", "TOML config file")
	flags.BoolVar(&c.noCache, "no-cache", false, "disable the layout cache")
	flags.StringVar(&c.metricsFile, "metrics-file", "", "write Prometheus metrics to this file on exit")

	// Register all subcommands
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.watchCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// addLayoutFlags registers the simulation flags shared by layout, render
// and watch.
func addLayoutFlags(cmd *cobra.Command, f *layoutFlags) {
	cmd.Flags().Float64Var(&f.width, "width", 0, "viewport width (default from config, 800)")
	cmd.Flags().Float64Var(&f.height, "height", 0, "viewport height (default from config, 600)")
	cmd.Flags().Int64Var(&f.seed, "seed", 0, "seed for initial velocity noise")
	cmd.Flags().StringVar(&f.cluster, "cluster", "", "cluster nodes by this dimension")
}

// addHeadlessFlags registers the flags of commands that run the pipeline.
func addHeadlessFlags(cmd *cobra.Command, f *layoutFlags) {
	addLayoutFlags(cmd, f)
	cmd.Flags().StringVar(&f.focus, "focus", "", "focus this node after the layout settles")
	cmd.Flags().BoolVar(&f.fit, "fit", false, "fit the view to the graph after settling")
	cmd.Flags().IntVar(&f.maxFrames, "max-frames", 0, "frame budget (default 10000)")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "recompute even when cached")
}
