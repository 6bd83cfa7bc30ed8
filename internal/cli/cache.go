package cli

import (
	"cmp"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/dimgraph/pkg/cache"
	"github.com/matzehuels/dimgraph/pkg/config"
	"github.com/matzehuels/dimgraph/pkg/errors"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the layout and render cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())
	cmd.AddCommand(c.cacheInfoCommand())

	return cmd
}

// fileCacheDir returns the directory of the file backend, or an
// UNSUPPORTED error when the config selects another backend.
func (c *CLI) fileCacheDir() (string, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return "", err
	}
	backend := cmp.Or(cfg.Cache.Backend, config.BackendFile)
	if backend != config.BackendFile {
		return "", errors.New(errors.ErrCodeUnsupported, "cache backend %q has no local directory", backend)
	}
	if cfg.Cache.Dir != "" {
		return cfg.Cache.Dir, nil
	}
	dir, err := cacheDir()
	if err != nil {
		return "", fmt.Errorf("get cache dir: %w", err)
	}
	return dir, nil
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached layout and artifact",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			dir, err := c.fileCacheDir()
			if err != nil {
				return err
			}

			if _, err := os.Stat(dir); os.IsNotExist(err) {
				printInfo(out, "Cache is empty")
				return nil
			}

			fc, err := cache.NewFileCache(dir)
			if err != nil {
				return err
			}
			count, err := fc.Clear()
			if err != nil {
				return err
			}

			printSuccess(out, "Cleared %d cached entries", count)
			printDetail(out, "Directory: %s", dir)
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := c.fileCacheDir()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}
}

// cacheInfoCommand creates the "cache info" subcommand.
func (c *CLI) cacheInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show the configured cache backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			backend := cmp.Or(cfg.Cache.Backend, config.BackendFile)
			if c.noCache {
				backend = config.BackendNone
			}
			printKeyValue(out, "Backend", backend)
			switch backend {
			case config.BackendFile:
				dir, err := c.fileCacheDir()
				if err != nil {
					return err
				}
				printKeyValue(out, "Directory", dir)
			case config.BackendRedis:
				printKeyValue(out, "URL", cfg.Cache.RedisURL)
			case config.BackendMongo:
				printKeyValue(out, "Database", cfg.Cache.MongoDatabase)
				printKeyValue(out, "Collection", cfg.Cache.MongoCollection)
			}
			if cfg.Cache.TTL.Duration > 0 {
				printKeyValue(out, "TTL", cfg.Cache.TTL.String())
			}
			return nil
		},
	}
}
