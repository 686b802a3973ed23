package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ingo-eichhorst/testselect/internal/output"
	"github.com/ingo-eichhorst/testselect/pkg/types"
)

var (
	scoreConfidence string
	scoreChangesPath string
)

var scoreCmd = &cobra.Command{
	Use:          "score <directory>",
	Short:        "Score every discovered test by relevance",
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

		changes, err := loadChangeSet(scoreChangesPath)
		if err != nil {
			return err
		}

		scored, err := session.ScoreTests(cmd.Context(), candidates, types.ConfidenceLevel(scoreConfidence), changes)
		if err != nil {
			return err
		}

		if jsonOutput {
			return output.RenderJSON(cmd.OutOrStdout(), output.BuildScoreReport(scored))
		}
		output.NewWriter(os.Stdout).RenderScore(cmd.OutOrStdout(), scored)
		return nil
	},
}

// loadChangeSet reads a JSON-encoded types.CodeChangeSet from path, returning
// nil (no changes known) when path is empty.
func loadChangeSet(path string) (*types.CodeChangeSet, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading change set: %w", err)
	}
	var set types.CodeChangeSet
	if err := json.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("parsing change set: %w", err)
	}
	return &set, nil
}

func init() {
	scoreCmd.Flags().StringVar(&scoreConfidence, "confidence", string(types.ConfidenceMedium), "confidence level: Fast, Medium, High, Full")
	scoreCmd.Flags().StringVar(&scoreChangesPath, "changes", "", "path to a JSON CodeChangeSet used to weight impact scoring")
	rootCmd.AddCommand(scoreCmd)
}
