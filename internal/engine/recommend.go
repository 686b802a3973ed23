package engine

import (
	"fmt"

	"github.com/ingo-eichhorst/testselect/pkg/types"
)

// duplicateCoverageThreshold and clusterOrganizationThreshold are the spec
// §6 recommendation-engine thresholds: "TestOrganization suggestion when
// cluster size >= 5 and intra-similarity >= 0.8; DuplicateCoverage when
// two-test overlap >= 0.9".
const (
	duplicateCoverageThreshold  = 0.9
	clusterMinSize              = 5
	clusterMinIntraSimilarity   = 0.8
)

// compareRecommendations emits a DuplicateCoverage recommendation when two
// tests' coverage overlaps at or above the spec threshold.
func compareRecommendations(testA, testB *types.TestInfo, overlap types.OverlapReport) []types.Recommendation {
	overlapFraction := overlap.OverlapPercent / 100
	if overlapFraction < duplicateCoverageThreshold {
		return nil
	}

	return []types.Recommendation{{
		Type: types.RecommendationDuplicateCoverage,
		Description: fmt.Sprintf("%s and %s cover %.0f%% of the same production code",
			testA.UniqueID, testB.UniqueID, overlap.OverlapPercent),
		ConfidenceScore: overlapFraction,
		EstimatedEffort: effortForOverlap(overlapFraction),
		Rationale:       "high coverage overlap usually means one test is redundant or the two should be merged",
	}}
}

// attachClusterRecommendations emits a TestOrganization recommendation for
// every cluster meeting the spec's size/cohesion thresholds.
func attachClusterRecommendations(analysis *types.ClusterAnalysis) {
	for _, c := range analysis.Clusters {
		if len(c.Members) < clusterMinSize || c.IntraSimilarity < clusterMinIntraSimilarity {
			continue
		}
		analysis.Recommendations = append(analysis.Recommendations, types.Recommendation{
			Type: types.RecommendationTestOrganization,
			Description: fmt.Sprintf("cluster %s groups %d similar tests (intra-similarity %.2f)",
				c.ID, len(c.Members), c.IntraSimilarity),
			ConfidenceScore: c.IntraSimilarity,
			EstimatedEffort: types.EffortMedium,
			Rationale:       "a tightly-cohesive, large cluster is a candidate for consolidation into a shared fixture or suite",
		})
	}
}

func effortForOverlap(fraction float64) types.EffortLevel {
	switch {
	case fraction >= 0.97:
		return types.EffortLow
	case fraction >= 0.93:
		return types.EffortMedium
	default:
		return types.EffortHigh
	}
}
