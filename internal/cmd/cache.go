package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hargabyte/pyr/internal/cache"
	"github.com/hargabyte/pyr/internal/config"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the extraction cache",
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache entry count and size",
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := newRunContext()
		if err != nil {
			return err
		}

		store, err := openCache()
		if err != nil {
			return err
		}
		defer store.Close()

		stats, err := store.Stats()
		if err != nil {
			return err
		}
		return r.write(stats)
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cache entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openCache()
		if err != nil {
			return err
		}
		defer store.Close()

		return store.Clear()
	},
}

// openCache opens the cache for the project containing the target.
func openCache() (*cache.Cache, error) {
	dir, err := config.FindConfigDir(primaryTarget())
	if err != nil {
		return nil, fmt.Errorf("no %s directory found; the cache is created on first scan inside a project with one", config.DirName)
	}
	return cache.Open(dir)
}

func init() {
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}
