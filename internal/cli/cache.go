package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/dendro/pkg/cache"
	derrors "github.com/matzehuels/dendro/pkg/errors"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the local layout and render cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached layouts and renderings",
		Long: `Remove all cached layouts and renderings from the file cache.

Entries in a Redis cache are not touched; they expire on their own.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.Config.Cache == cacheRedis {
				c.report().warn("Redis entries expire on their own; nothing to clear locally")
				return nil
			}
			dir, err := cacheDir()
			if err != nil {
				return derrors.Wrap(derrors.ErrCodeInternal, err, "locate cache directory")
			}
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				c.report().info("Cache is empty")
				return nil
			}

			fc, err := cache.NewFileCache(dir)
			if err != nil {
				return derrors.Wrap(derrors.ErrCodeInternal, err, "open cache")
			}
			count, err := fc.Clear(cmd.Context())
			if err != nil {
				return derrors.Wrap(derrors.ErrCodeInternal, err, "clear cache")
			}

			out := c.report()
			out.success("Cleared %d cached entries", count)
			out.detail("Directory: %s", fc.Dir())
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
			dir, err := cacheDir()
			if err != nil {
				return derrors.Wrap(derrors.ErrCodeInternal, err, "locate cache directory")
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}
}
