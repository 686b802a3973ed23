package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ingo-eichhorst/testselect/internal/output"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect the on-disk discovery cache",
}

var cacheStatsCmd = &cobra.Command{
	Use:          "stats <directory>",
	Short:        "Show the cache's hit, miss, eviction, invalidation, and compressed-byte counters",
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := filepath.Abs(args[0])
		if err != nil {
			return fmt.Errorf("cannot resolve path: %w", err)
		}
		if err := validateProject(dir); err != nil {
			return err
		}

		projectCfg, err := loadProjectConfig(dir)
		if err != nil {
			return err
		}
		session, err := newSession(dir, projectCfg)
		if err != nil {
			return err
		}

		stats := session.Cache.Stats()
		if jsonOutput {
			return output.RenderJSON(cmd.OutOrStdout(), stats)
		}
		output.NewWriter(os.Stdout).RenderCacheStats(cmd.OutOrStdout(), stats)
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheStatsCmd)
	rootCmd.AddCommand(cacheCmd)
}
