package types

import "time"

// TestBatch is an advisory grouping of independent tests for parallel
// execution; batching never affects correctness, only scheduling hints.
type TestBatch struct {
	Tests []*TestInfo
}

// TestExecutionPlan is the output of createPlan.
type TestExecutionPlan struct {
	Tests             []*TestInfo
	ConfidenceLevel   ConfidenceLevel
	EstimatedDuration time.Duration
	Batches           []TestBatch
}

// EffortLevel categorizes the estimated effort of a recommendation.
type EffortLevel string

const (
	EffortLow    EffortLevel = "Low"
	EffortMedium EffortLevel = "Medium"
	EffortHigh   EffortLevel = "High"
)

// RecommendationType names the kind of comparison recommendation emitted.
type RecommendationType string

const (
	RecommendationTestOrganization RecommendationType = "TestOrganization"
	RecommendationDuplicateCoverage RecommendationType = "DuplicateCoverage"
)

// Recommendation is one actionable suggestion attached to a ComparisonResult
// or ClusterAnalysis.
type Recommendation struct {
	Type             RecommendationType
	Description      string
	ConfidenceScore  float64
	EstimatedEffort  EffortLevel
	Rationale        string
}

// ComparisonResult is the output of compareTests.
type ComparisonResult struct {
	Overall            float64
	CoverageOverlap    OverlapReport
	MetadataSimilarity float64
	Recommendations    []Recommendation
	Warnings           []string
	AnalysisDuration   time.Duration
}

// ValidationResult is the output of validateTest.
type ValidationResult struct {
	Valid       bool
	Metadata    *TestInfo
	Suggestions []string
}
