// Package engine wires the independent C1-C9 subsystems into the five
// operations a caller actually invokes (spec §6): scoreTests, createPlan,
// compareTests, analyzeClusters, validateTest. Session owns every piece of
// long-lived state (the byte cache, execution history, per-solution
// discovery cache) so a single instance is meant to live for a whole CLI
// invocation or long-running service process.
package engine

import (
	"context"
	"time"

	"github.com/ingo-eichhorst/testselect/internal/cache"
	"github.com/ingo-eichhorst/testselect/internal/cluster"
	"github.com/ingo-eichhorst/testselect/internal/coverage"
	"github.com/ingo-eichhorst/testselect/internal/history"
	"github.com/ingo-eichhorst/testselect/internal/plan"
	"github.com/ingo-eichhorst/testselect/internal/scorealgo"
	"github.com/ingo-eichhorst/testselect/internal/scoring"
	"github.com/ingo-eichhorst/testselect/internal/similarity"
	"github.com/ingo-eichhorst/testselect/internal/validate"
	"github.com/ingo-eichhorst/testselect/pkg/types"
)

// Session owns every subsystem handle needed to serve the five operations
// and exposes them as methods, mirroring the teacher's single-entry-point
// pipeline shape generalized to five entry points instead of one.
type Session struct {
	Cache    *cache.Store
	History  *history.Store
	Coverage *coverage.Analyzer
	scoring  *scoring.Service
	validate *validate.Validator
}

// Config bundles the construction-time dependencies a Session needs. Cache
// is optional: a nil Cache disables caching of discovery results without
// affecting correctness.
type Config struct {
	Cache          *cache.Store
	Discover       validate.DiscoveryFunc
	Algorithms     []scorealgo.Algorithm
	DiscoveryCacheSize int
	MaxSuggestions     int
}

// NewSession constructs a Session from cfg, defaulting the scoring algorithm
// set and validator tuning when unset.
func NewSession(cfg Config) *Session {
	discover := cfg.Discover
	if cfg.Cache != nil {
		discover = CachedDiscover(cfg.Cache, discover)
	}
	return &Session{
		Cache:    cfg.Cache,
		History:  history.NewStore(),
		Coverage: coverage.NewAnalyzer(),
		scoring:  scoring.NewService(cfg.Algorithms...),
		validate: validate.NewValidator(discover, cfg.DiscoveryCacheSize, cfg.MaxSuggestions),
	}
}

// ScoreTests implements spec §6's scoreTests(candidates, changes?): applies
// the execution-history snapshot to every candidate, then runs the
// combined-score computation, returning results ordered per spec §4.3.
func (s *Session) ScoreTests(ctx context.Context, candidates []*types.TestInfo, confidence types.ConfidenceLevel, changes *types.CodeChangeSet) ([]scoring.ScoredTest, error) {
	for _, t := range candidates {
		s.History.Apply(t)
	}
	sctx := scorealgo.Context{Confidence: confidence, Changes: changes, Now: time.Now()}
	return s.scoring.ScoreTests(ctx, candidates, sctx)
}

// CreatePlan implements spec §6's createPlan(changes?, confidence, options?):
// scores every candidate, then builds a TestExecutionPlan against the
// resolved confidence-level policy.
func (s *Session) CreatePlan(ctx context.Context, candidates []*types.TestInfo, confidence types.ConfidenceLevel, opts types.TestSelectionOptions, changes *types.CodeChangeSet) (*types.TestExecutionPlan, error) {
	opts = opts.Normalized()
	scored, err := s.ScoreTests(ctx, candidates, confidence, changes)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	return plan.Build(scored, confidence, opts, now), nil
}

// ValidateTest implements spec §6's validateTest(id, solutionPath).
func (s *Session) ValidateTest(ctx context.Context, solutionPath, testID string) (types.ValidationResult, error) {
	return s.validate.Validate(ctx, solutionPath, testID)
}

// ValidateTests validates a batch of identifiers concurrently (spec §4.7).
func (s *Session) ValidateTests(ctx context.Context, solutionPath string, testIDs []string) ([]types.ValidationResult, error) {
	return s.validate.ValidateBatch(ctx, solutionPath, testIDs)
}

// CompareOptions configures compareTests (spec §6's "options" parameter):
// the coverage map used for overlap analysis and the analysis depth used to
// weight coverage against metadata similarity.
type CompareOptions struct {
	CoverageMap *types.TestCoverageMap
	Depth       types.AnalysisDepth
}

// CompareTests implements spec §6's compareTests(id1, id2, options).
func (s *Session) CompareTests(ctx context.Context, testA, testB *types.TestInfo, opts CompareOptions) (types.ComparisonResult, error) {
	if err := ctx.Err(); err != nil {
		return types.ComparisonResult{}, types.NewError(types.ErrCancelled, "compareTests cancelled", err)
	}
	start := time.Now()

	var overlap types.OverlapReport
	var warnings []string
	if opts.CoverageMap != nil {
		overlap = s.Coverage.Overlap(opts.CoverageMap, testA.UniqueID, testB.UniqueID)
	} else {
		warnings = append(warnings, "no coverage map supplied; overlap computed from metadata only")
	}

	metadataScore := metadataSimilarity(testA, testB)
	overall := overallScore(overlap, metadataScore, opts.Depth, opts.CoverageMap != nil)

	result := types.ComparisonResult{
		Overall:            overall,
		CoverageOverlap:    overlap,
		MetadataSimilarity: metadataScore,
		Recommendations:    compareRecommendations(testA, testB, overlap),
		Warnings:           warnings,
		AnalysisDuration:   time.Since(start),
	}
	return result, nil
}

// ClusterOptions configures analyzeClusters (spec §6's "options" parameter).
type ClusterOptions struct {
	CoverageMap *types.TestCoverageMap
	Depth       types.AnalysisDepth
	Cluster     cluster.Options
}

// AnalyzeClusters implements spec §6's analyzeClusters(ids, options).
func (s *Session) AnalyzeClusters(ctx context.Context, tests []*types.TestInfo, opts ClusterOptions) (types.ClusterAnalysis, error) {
	byID := make(map[string]*types.TestInfo, len(tests))
	ids := make([]string, len(tests))
	for i, t := range tests {
		byID[t.UniqueID] = t
		ids[i] = t.UniqueID
	}

	matrix, warnings := cluster.BuildMatrix(ctx, ids, func(ctx context.Context, idA, idB string) (float64, error) {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		a, b := byID[idA], byID[idB]
		var overlapPercent float64
		haveCoverage := opts.CoverageMap != nil
		if haveCoverage {
			overlapPercent = s.Coverage.Overlap(opts.CoverageMap, idA, idB).OverlapPercent
		}
		return overallScore(types.OverlapReport{OverlapPercent: overlapPercent}, metadataSimilarity(a, b), opts.Depth, haveCoverage), nil
	})

	analysis := cluster.Analyze(matrix, opts.Cluster)
	analysis.Warnings = append(analysis.Warnings, warnings...)
	attachClusterRecommendations(&analysis)
	return analysis, nil
}

// metadataSimilarity composes the category/name/tag/execution-time
// composite score shared with clustering (spec §4.6).
func metadataSimilarity(a, b *types.TestInfo) float64 {
	if a == nil || b == nil {
		return 0
	}
	return similarity.MetadataScore(a, b)
}

// overallScore composes coverage overlap and metadata similarity using
// spec §4.6's depth weighting. Without a coverage map, the comparison
// collapses onto metadata similarity alone (coverage weight effectively
// redirected) rather than silently scoring a [0,1] quantity against zero
// coverage.
func overallScore(overlap types.OverlapReport, metadataScore float64, depth types.AnalysisDepth, haveCoverage bool) float64 {
	if !haveCoverage {
		return metadataScore
	}
	return similarity.OverallSimilarity(overlap.OverlapPercent, metadataScore, depth)
}
