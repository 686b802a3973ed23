package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ingo-eichhorst/testselect/internal/cluster"
	"github.com/ingo-eichhorst/testselect/internal/config"
	"github.com/ingo-eichhorst/testselect/internal/engine"
	"github.com/ingo-eichhorst/testselect/internal/output"
	"github.com/ingo-eichhorst/testselect/pkg/types"
)

var (
	clusterLinkage             string
	clusterSimilarityThreshold float64
	clusterMaxClusters         int
	clusterMinSize             int
	clusterMinIntraSimilarity  float64
	clusterAll                 bool
	clusterCoverageProfile     string
	clusterCoverageSidecar     string
)

var clusterCmd = &cobra.Command{
	Use:          "cluster <directory> [id...]",
	Short:        "Group tests into clusters by behavioral similarity",
	Args:         cobra.MinimumNArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := filepath.Abs(args[0])
		if err != nil {
			return fmt.Errorf("cannot resolve path: %w", err)
		}
		if err := validateProject(dir); err != nil {
			return err
		}
		ids := args[1:]
		if !clusterAll && len(ids) == 0 {
			return fmt.Errorf("specify test ids to cluster, or pass --all")
		}

		projectCfg, err := loadProjectConfig(dir)
		if err != nil {
			return err
		}
		session, err := newSession(dir, projectCfg)
		if err != nil {
			return err
		}

		discovered, err := discoverCandidates(dir)
		if err != nil {
			return err
		}
		candidates := discovered
		if !clusterAll {
			candidates = make([]*types.TestInfo, 0, len(ids))
			for _, id := range ids {
				t, err := findTestByID(discovered, id)
				if err != nil {
					return err
				}
				candidates = append(candidates, t)
			}
		}

		base := config.ClusterOptions{
			Linkage:                   types.LinkageRule(clusterLinkage),
			SimilarityThreshold:       clusterSimilarityThreshold,
			MaxClusters:               clusterMaxClusters,
			MinClusterSize:            clusterMinSize,
			MinIntraClusterSimilarity: clusterMinIntraSimilarity,
		}
		resolved := projectCfg.ClusterOptions(base)

		coverageMap, err := loadCoverageMap(clusterCoverageProfile, clusterCoverageSidecar)
		if err != nil {
			return err
		}

		opts := engine.ClusterOptions{
			Cluster: cluster.Options{
				Linkage:                   resolved.Linkage,
				SimilarityThreshold:       resolved.SimilarityThreshold,
				MaxClusters:               resolved.MaxClusters,
				MinClusterSize:            resolved.MinClusterSize,
				MinIntraClusterSimilarity: resolved.MinIntraClusterSimilarity,
			},
			CoverageMap: coverageMap,
		}

		analysis, err := session.AnalyzeClusters(cmd.Context(), candidates, opts)
		if err != nil {
			return err
		}

		if jsonOutput {
			return output.RenderJSON(cmd.OutOrStdout(), output.BuildClusterReport(analysis))
		}
		output.NewWriter(os.Stdout).RenderClusters(cmd.OutOrStdout(), analysis)
		return nil
	},
}

func init() {
	clusterCmd.Flags().StringVar(&clusterLinkage, "linkage", string(types.LinkageAverage), "linkage rule: single, complete, average, ward")
	clusterCmd.Flags().Float64Var(&clusterSimilarityThreshold, "similarity-threshold", 0.6, "minimum similarity to merge clusters")
	clusterCmd.Flags().IntVar(&clusterMaxClusters, "max-clusters", 0, "maximum number of clusters to form (0 = unbounded)")
	clusterCmd.Flags().IntVar(&clusterMinSize, "min-cluster-size", 2, "minimum cluster size to report")
	clusterCmd.Flags().Float64Var(&clusterMinIntraSimilarity, "min-intra-similarity", 0.5, "minimum intra-cluster similarity to report")
	clusterCmd.Flags().BoolVar(&clusterAll, "all", false, "cluster every discovered test instead of an explicit id list")
	clusterCmd.Flags().StringVar(&clusterCoverageProfile, "coverage-profile", "", "path to a `go test -coverprofile` file; enables coverage-overlap analysis")
	clusterCmd.Flags().StringVar(&clusterCoverageSidecar, "coverage-sidecar", "", "path to the JSON call-path sidecar accompanying --coverage-profile")
	rootCmd.AddCommand(clusterCmd)
}
