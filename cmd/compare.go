package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ingo-eichhorst/testselect/internal/covbuild"
	"github.com/ingo-eichhorst/testselect/internal/engine"
	"github.com/ingo-eichhorst/testselect/internal/output"
	"github.com/ingo-eichhorst/testselect/pkg/types"
)

var (
	compareDepth           string
	compareCoverageProfile string
	compareCoverageSidecar string
)

var compareCmd = &cobra.Command{
	Use:          "compare <testA> <testB> <directory>",
	Short:        "Compare two tests' coverage overlap and similarity",
	Args:         cobra.ExactArgs(3),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := filepath.Abs(args[2])
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

		testA, err := findTestByID(candidates, args[0])
		if err != nil {
			return err
		}
		testB, err := findTestByID(candidates, args[1])
		if err != nil {
			return err
		}

		coverageMap, err := loadCoverageMap(compareCoverageProfile, compareCoverageSidecar)
		if err != nil {
			return err
		}

		opts := engine.CompareOptions{Depth: types.AnalysisDepth(compareDepth), CoverageMap: coverageMap}
		result, err := session.CompareTests(cmd.Context(), testA, testB, opts)
		if err != nil {
			return err
		}

		if jsonOutput {
			return output.RenderJSON(cmd.OutOrStdout(), output.BuildCompareReport(result))
		}
		output.NewWriter(os.Stdout).RenderCompare(cmd.OutOrStdout(), result)
		return nil
	},
}

// findTestByID locates a test by its UniqueID among the discovered
// candidates, the same identifier surfaced by `tsel score`/`tsel plan`.
func findTestByID(candidates []*types.TestInfo, id string) (*types.TestInfo, error) {
	for _, t := range candidates {
		if t.UniqueID == id {
			return t, nil
		}
	}
	return nil, fmt.Errorf("test not found: %s", id)
}

func init() {
	compareCmd.Flags().StringVar(&compareDepth, "depth", string(types.DepthMedium), "analysis depth: Shallow, Medium, Deep")
	compareCmd.Flags().StringVar(&compareCoverageProfile, "coverage-profile", "", "path to a `go test -coverprofile` file; enables coverage-overlap analysis")
	compareCmd.Flags().StringVar(&compareCoverageSidecar, "coverage-sidecar", "", "path to the JSON call-path sidecar accompanying --coverage-profile")
	rootCmd.AddCommand(compareCmd)
}

// loadCoverageMap builds a TestCoverageMap from a coverage profile and its
// sidecar when both are supplied, via internal/covbuild's reference
// CoverageMapBuilder. With neither flag set it returns nil, and callers fall
// back to metadata-only overlap scoring.
func loadCoverageMap(profilePath, sidecarPath string) (*types.TestCoverageMap, error) {
	if profilePath == "" && sidecarPath == "" {
		return nil, nil
	}
	if profilePath == "" || sidecarPath == "" {
		return nil, fmt.Errorf("--coverage-profile and --coverage-sidecar must be supplied together")
	}
	cm, err := covbuild.NewBuilder().Build(profilePath, sidecarPath)
	if err != nil {
		return nil, fmt.Errorf("building coverage map: %w", err)
	}
	return cm, nil
}
