package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/hsbacot/jmsctl/cache"
)

func newCacheCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the local resource and snapshot cache",
	}

	cmd.AddCommand(
		newCacheStatsCmd(a),
		newCacheListCmd(a),
		newCacheClearCmd(a),
		newCacheRemoveCmd(a),
		newCachePruneCmd(a),
	)
	return cmd
}

// openCache returns the cache even when lookups were disabled for this run
func (a *app) openCache() (*cache.Cache, error) {
	if a.cache != nil {
		return a.cache, nil
	}
	c, err := cache.NewCache(a.cfg.Cache.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache: %w", err)
	}
	c.SetLogger(a.logger)
	return c, nil
}

func newCacheStatsCmd(a *app) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show cache statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.openCache()
			if err != nil {
				return err
			}

			stats, err := c.GetStats()
			if err != nil {
				return fmt.Errorf("failed to get cache stats: %w", err)
			}

			out := cmd.OutOrStdout()
			if jsonOutput {
				return printJSON(out, stats)
			}

			printHeader(out, "Cache Statistics")

			fmt.Fprintf(out, "Location:   %s\n", stats.CacheDir)
			fmt.Fprintf(out, "Catalogs:   %d\n", stats.Catalogs)
			fmt.Fprintf(out, "Snapshots:  %d\n", stats.Snapshots)
			fmt.Fprintf(out, "Total Size: %s\n", formatSize(stats.TotalSize))

			if !stats.OldestEntry.IsZero() {
				fmt.Fprintf(out, "Oldest:     %s (%s)\n", formatDate(stats.OldestEntry), formatAge(stats.OldestEntry))
			}
			if !stats.NewestEntry.IsZero() {
				fmt.Fprintf(out, "Newest:     %s (%s)\n", formatDate(stats.NewestEntry), formatAge(stats.NewestEntry))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output in JSON format")
	return cmd
}

func newCacheListCmd(a *app) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List cached browse snapshots",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.openCache()
			if err != nil {
				return err
			}

			snapshots, err := c.ListSnapshots()
			if err != nil {
				return fmt.Errorf("failed to list cache: %w", err)
			}

			out := cmd.OutOrStdout()
			if jsonOutput {
				return printJSON(out, map[string]interface{}{
					"snapshots":       snapshots,
					"total_snapshots": len(snapshots),
				})
			}

			if len(snapshots) == 0 {
				fmt.Fprintln(out, "Cache is empty")
				return nil
			}

			printHeader(out, "Cached Snapshots")

			var totalSize int64
			for _, s := range snapshots {
				totalSize += s.Size
				fmt.Fprintf(out, "%-20s %4d msgs %10s  %-14s  %s\n",
					s.Resource, s.Messages, formatSize(s.Size), formatAge(s.TakenAt), s.Server)
			}

			fmt.Fprintf(out, "\nTotal: %d snapshots, %s\n", len(snapshots), formatSize(totalSize))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output in JSON format")
	return cmd
}

func newCacheClearCmd(a *app) *cobra.Command {
	var force, dryRun bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Clear the entire cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.openCache()
			if err != nil {
				return err
			}

			stats, err := c.GetStats()
			if err != nil {
				return fmt.Errorf("failed to get cache stats: %w", err)
			}

			out := cmd.OutOrStdout()
			entries := stats.Catalogs + stats.Snapshots
			if entries == 0 {
				fmt.Fprintln(out, "Cache is already empty")
				return nil
			}

			fmt.Fprintf(out, "Warning: this will delete %d cache entries (%s)\n\n", entries, formatSize(stats.TotalSize))

			if dryRun {
				fmt.Fprintln(out, "[DRY RUN] Would remove all cache entries")
				return nil
			}

			if !force && !confirmAction(cmd.InOrStdin(), out, "Are you sure?") {
				fmt.Fprintln(out, "Cancelled")
				return nil
			}

			if err := c.Clear(); err != nil {
				return fmt.Errorf("failed to clear cache: %w", err)
			}

			fmt.Fprintf(out, "✓ Removed %d entries\n", entries)
			fmt.Fprintf(out, "✓ Freed %s of disk space\n", formatSize(stats.TotalSize))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "skip confirmation")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "preview without deleting")
	return cmd
}

func newCacheRemoveCmd(a *app) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "remove <resource>",
		Short: "Remove the cached snapshots of a resource",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.openCache()
			if err != nil {
				return err
			}

			resource := args[0]
			out := cmd.OutOrStdout()

			if !force && !confirmAction(cmd.InOrStdin(), out, fmt.Sprintf("Remove snapshots of %s?", resource)) {
				fmt.Fprintln(out, "Cancelled")
				return nil
			}

			removed, err := c.RemoveSnapshots(resource)
			if err != nil {
				return err
			}
			if removed == 0 {
				return fmt.Errorf("resource not found in cache: %s", resource)
			}

			fmt.Fprintf(out, "✓ Removed %d snapshots of %s\n", removed, resource)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "skip confirmation")
	return cmd
}

func newCachePruneCmd(a *app) *cobra.Command {
	var (
		days          int
		force, dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Remove cache entries older than --days",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if days <= 0 {
				return errors.New("--days is required and must be positive")
			}

			c, err := a.openCache()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			opts := cache.PruneOptions{MaxAge: time.Duration(days) * 24 * time.Hour, DryRun: true}

			fmt.Fprintf(out, "Analyzing cache entries older than %d days...\n\n", days)

			// Always dry-run first to show what would be deleted
			result, err := c.Prune(opts)
			if err != nil {
				return fmt.Errorf("failed to analyze cache: %w", err)
			}

			if result.RemovedCount == 0 {
				fmt.Fprintln(out, "No entries to prune")
				return nil
			}

			fmt.Fprintf(out, "Found %d entries to remove (%s):\n", result.RemovedCount, formatSize(result.FreedSpace))
			for _, item := range result.RemovedItems {
				fmt.Fprintf(out, "  - %s\n", item)
			}
			fmt.Fprintln(out)

			if dryRun {
				fmt.Fprintln(out, "[DRY RUN] No changes made")
				return nil
			}

			if !force && !confirmAction(cmd.InOrStdin(), out, "Proceed with pruning?") {
				fmt.Fprintln(out, "Cancelled")
				return nil
			}

			opts.DryRun = false
			result, err = c.Prune(opts)
			if err != nil {
				return fmt.Errorf("failed to prune cache: %w", err)
			}

			fmt.Fprintf(out, "✓ Removed %d entries\n", result.RemovedCount)
			fmt.Fprintf(out, "✓ Freed %s of disk space\n", formatSize(result.FreedSpace))
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", 0, "age threshold in days")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "skip confirmation")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "preview without deleting")
	return cmd
}
