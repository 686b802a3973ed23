// Package scorealgo implements the three independent scoring algorithms
// consulted by the scoring service (spec §4.2): impact, execution-time, and
// historical. Each produces a score in [0,1] and is pure given its inputs.
package scorealgo

import (
	"time"

	"github.com/ingo-eichhorst/testselect/pkg/types"
)

// Context bundles the inputs every scorer needs beyond the test itself:
// the active confidence policy and an optional set of code changes driving
// the impact scorer.
type Context struct {
	Confidence types.ConfidenceLevel
	Changes    *types.CodeChangeSet
	Now        time.Time
}

// Algorithm is the shared capability of the three scorers (spec §9
// "Polymorphic algorithms"): a stable name, a fixed combination weight, and a
// pure scoring function. Resolving the algorithm list once per session and
// iterating it avoids runtime dispatch inside the scoring hot loop.
type Algorithm interface {
	Name() string
	Weight() float64
	Score(test *types.TestInfo, ctx Context) (float64, error)
}

// clamp01 restricts a score to the [0,1] range required of every algorithm.
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// DefaultAlgorithms returns the three scorers at their spec-fixed weights,
// in the order combinedScore iterates them.
func DefaultAlgorithms() []Algorithm {
	return []Algorithm{
		&ImpactScorer{},
		&ExecutionTimeScorer{},
		&HistoricalScorer{},
	}
}
