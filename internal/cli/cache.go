package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Go0ners/Orphan-Sweeper/pkg/cache"
)

// NewCacheCommand creates the cache command
func NewCacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the fingerprint cache",
		Long:  `Inspect or clear the persistent fingerprint cache.`,
	}

	var cachePath string
	cmd.PersistentFlags().StringVar(&cachePath, "cache", "media_cache.db", "fingerprint cache file")

	cmd.AddCommand(newCacheStatsCommand(&cachePath))
	cmd.AddCommand(newCacheClearCommand(&cachePath))

	return cmd
}

func newCacheStatsCommand(cachePath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show cache statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := cache.Open(*cachePath, cache.DefaultFlushThreshold)
			if err != nil {
				return fmt.Errorf("failed to open cache: %w", err)
			}
			defer store.Close()

			stats, err := store.ReadStats(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Printf("Cache file:    %s\n", *cachePath)
			fmt.Printf("Entries:       %d\n", stats.Entries)
			fmt.Printf("Tracked size:  %.2f GiB\n", float64(stats.TotalBytes)/(1024*1024*1024))

			if len(stats.Latest) > 0 {
				fmt.Printf("\nLatest entries:\n")
				for _, entry := range stats.Latest {
					fmt.Printf("  %s\n", entry.Path)
					fmt.Printf("    %s | %.2f MiB | %s\n",
						time.Unix(0, entry.ModTimeNano).Format("2006-01-02 15:04:05"),
						float64(entry.Size)/(1024*1024),
						shortFingerprint(entry.Fingerprint))
				}
			}

			return nil
		},
	}
}

func newCacheClearCommand(cachePath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached fingerprints",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := cache.Open(*cachePath, cache.DefaultFlushThreshold)
			if err != nil {
				return fmt.Errorf("failed to open cache: %w", err)
			}
			defer store.Close()

			if err := store.Clear(cmd.Context()); err != nil {
				return err
			}

			fmt.Printf("Cache cleared: %s\n", *cachePath)
			return nil
		},
	}
}

// shortFingerprint truncates a digest for display
func shortFingerprint(fp string) string {
	if len(fp) > 16 {
		return fp[:16] + "..."
	}
	return fp
}
