package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/ingo-eichhorst/testselect/internal/output"
	"github.com/ingo-eichhorst/testselect/pkg/types"
)

var (
	planConfidence   string
	planMaxTests     int
	planMaxDuration  time.Duration
	planMinScore     float64
	planCategories   []string
	planExcludeCats  []string
	planTags         []string
	planExcludeTags  []string
	planIncludeFlaky bool
	planParallelism  int
	planChangesPath  string
)

var planCmd = &cobra.Command{
	Use:          "plan <directory>",
	Short:        "Build a bounded test execution plan",
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

		candidates, err := discoverCandidates(dir)
		if err != nil {
			return err
		}

		opts := types.TestSelectionOptions{
			MaxTestCount:       planMaxTests,
			MaxExecutionTime:   planMaxDuration,
			MinSelectionScore:  planMinScore,
			IncludedCategories: toCategories(planCategories),
			ExcludedCategories: toCategories(planExcludeCats),
			RequiredTags:       planTags,
			ExcludedTags:       planExcludeTags,
			IncludeFlakyTests:  planIncludeFlaky,
			MaxParallelism:     planParallelism,
		}
		opts = applyConfidenceOverrides(projectCfg, types.ConfidenceLevel(planConfidence), opts)

		changes, err := loadChangeSet(planChangesPath)
		if err != nil {
			return err
		}

		plan, err := session.CreatePlan(cmd.Context(), candidates, types.ConfidenceLevel(planConfidence), opts, changes)
		if err != nil {
			return err
		}

		if jsonOutput {
			return output.RenderJSON(cmd.OutOrStdout(), output.BuildPlanReport(plan))
		}
		output.NewWriter(os.Stdout).RenderPlan(cmd.OutOrStdout(), plan)
		return nil
	},
}

func toCategories(names []string) []types.TestCategory {
	if len(names) == 0 {
		return nil
	}
	cats := make([]types.TestCategory, len(names))
	for i, n := range names {
		cats[i] = types.TestCategory(n)
	}
	return cats
}

func init() {
	planCmd.Flags().StringVar(&planConfidence, "confidence", string(types.ConfidenceMedium), "confidence level: Fast, Medium, High, Full")
	planCmd.Flags().IntVar(&planMaxTests, "max-tests", 0, "override the confidence level's max test count")
	planCmd.Flags().DurationVar(&planMaxDuration, "max-duration", 0, "override the confidence level's duration budget (e.g. 90s, 2m)")
	planCmd.Flags().Float64Var(&planMinScore, "min-score", 0, "override the confidence level's minimum selection score")
	planCmd.Flags().StringSliceVar(&planCategories, "category", nil, "restrict the plan to these test categories")
	planCmd.Flags().StringSliceVar(&planExcludeCats, "exclude-category", nil, "exclude these test categories from the plan")
	planCmd.Flags().StringSliceVar(&planTags, "tag", nil, "require these tags")
	planCmd.Flags().StringSliceVar(&planExcludeTags, "exclude-tag", nil, "exclude tests carrying these tags")
	planCmd.Flags().BoolVar(&planIncludeFlaky, "include-flaky", false, "include tests flagged as historically flaky")
	planCmd.Flags().IntVar(&planParallelism, "parallelism", 0, "maximum parallel execution lanes in the plan (0 = default)")
	planCmd.Flags().StringVar(&planChangesPath, "changes", "", "path to a JSON CodeChangeSet used to weight impact scoring")
	rootCmd.AddCommand(planCmd)
}
