package similarity

import (
	"github.com/ingo-eichhorst/testselect/pkg/types"
)

// MetadataScore combines category alignment, name-token Jaccard, tag
// Jaccard, and execution-time similarity by equal mean (spec §4.5/§4.6). Use
// NameOnlyMetadataScore when full metadata is unavailable.
func MetadataScore(a, b *types.TestInfo) float64 {
	categoryScore := 0.0
	if a.Category == b.Category {
		categoryScore = 1.0
	}
	nameScore := NameTokenSimilarity(a.MethodName, b.MethodName)
	tagScore := WeightedJaccard(StringSet(a.Tags), StringSet(b.Tags), UnitWeight)
	timeScore := ExecutionTimeSimilarity(a.AverageExecTime, b.AverageExecTime)

	return (categoryScore + nameScore + tagScore + timeScore) / 4
}

// NameOnlyMetadataScore is the spec §4.5 fallback when full metadata is
// unavailable: category 0.5, tag 0.0, and time 0.5, combined with the
// name-token score by the same equal-mean formula.
func NameOnlyMetadataScore(nameA, nameB string) float64 {
	const (
		categoryScore = 0.5
		tagScore      = 0.0
		timeScore     = 0.5
	)
	nameScore := NameTokenSimilarity(nameA, nameB)
	return (categoryScore + nameScore + tagScore + timeScore) / 4
}

// OverallSimilarity composes coverage overlap and metadata similarity by
// analysis-depth weights (spec §4.6): overall = wCov·coveragePercent/100 +
// wMeta·metadataScore.
func OverallSimilarity(coveragePercent, metadataScore float64, depth types.AnalysisDepth) float64 {
	wCov, wMeta := types.DepthWeights(depth)
	return wCov*(coveragePercent/100) + wMeta*metadataScore
}
