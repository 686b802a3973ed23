// Package scoring combines the independent C2 algorithms into a single
// ranked sequence of scored tests (spec §4.3).
package scoring

import (
	"context"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/ingo-eichhorst/testselect/internal/scorealgo"
	"github.com/ingo-eichhorst/testselect/pkg/types"
)

// Service owns the resolved algorithm list and combines their per-test
// scores. Resolving the list once at construction avoids re-dispatching on
// every call, per spec §9's "pre-resolving the scorer list once per
// session" guidance.
type Service struct {
	algorithms []scorealgo.Algorithm
}

// NewService builds a Service over the default algorithm set. A nil or empty
// override falls back to scorealgo.DefaultAlgorithms.
func NewService(algorithms ...scorealgo.Algorithm) *Service {
	if len(algorithms) == 0 {
		algorithms = scorealgo.DefaultAlgorithms()
	}
	return &Service{algorithms: algorithms}
}

// ScoredTest pairs a test with its combined score, preserving the per-
// algorithm breakdown for diagnostics/output rendering.
type ScoredTest struct {
	Test       *types.TestInfo
	Score      float64
	PerAlgo    map[string]float64
}

// ScoreTests computes combinedScore = Σ(score_i·w_i) / Σw_i over the
// resolved algorithms for every test, running the per-test algorithm fan-out
// concurrently (bounded by the number of tests), records each combined score
// on the test's SelectionScore, and returns the results
// ordered by descending score, then ascending duration, then lexicographic
// uniqueId (spec §4.3).
func (s *Service) ScoreTests(ctx context.Context, tests []*types.TestInfo, sctx scorealgo.Context) ([]ScoredTest, error) {
	results := make([]ScoredTest, len(tests))

	g, gctx := errgroup.WithContext(ctx)
	for i, test := range tests {
		i, test := i, test
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			combined, perAlgo := s.combineForTest(test, sctx)
			test.SelectionScore = combined
			results[i] = ScoredTest{Test: test, Score: combined, PerAlgo: perAlgo}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, types.NewError(types.ErrCancelled, "scoring cancelled", err)
	}

	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Test.AverageExecTime != b.Test.AverageExecTime {
			return a.Test.AverageExecTime < b.Test.AverageExecTime
		}
		return strings.ToLower(a.Test.UniqueID) < strings.ToLower(b.Test.UniqueID)
	})

	return results, nil
}

// combineForTest runs every algorithm against one test. An algorithm that
// errors contributes zero weight and zero score to the combination (spec
// §4.3), rather than failing the whole test's score.
func (s *Service) combineForTest(test *types.TestInfo, sctx scorealgo.Context) (float64, map[string]float64) {
	perAlgo := make(map[string]float64, len(s.algorithms))
	var weightedSum, weightTotal float64

	for _, algo := range s.algorithms {
		score, err := algo.Score(test, sctx)
		if err != nil {
			perAlgo[algo.Name()] = 0
			continue
		}
		perAlgo[algo.Name()] = score
		weightedSum += score * algo.Weight()
		weightTotal += algo.Weight()
	}

	if weightTotal == 0 {
		return 0, perAlgo
	}
	return weightedSum / weightTotal, perAlgo
}
