package scorealgo

import (
	"math"
	"time"

	"github.com/ingo-eichhorst/testselect/pkg/types"
)

// ExecutionTimeScorer rewards fast tests, adjusted by confidence policy and
// penalized for erratic duration (spec §4.2).
type ExecutionTimeScorer struct{}

func (s *ExecutionTimeScorer) Name() string    { return "executionTime" }
func (s *ExecutionTimeScorer) Weight() float64 { return 0.3 }

// durationBreakpoint pairs an inclusive upper bound (milliseconds) with the
// base score for durations at or below it.
type durationBreakpoint struct {
	maxMs float64
	score float64
}

// durationCurve is walked in ascending order; the first breakpoint whose
// maxMs is >= the duration wins. A duration past the last breakpoint falls
// to the table's final "else" score.
var durationCurve = []durationBreakpoint{
	{50, 1.0},
	{100, 0.9},
	{250, 0.8},
	{500, 0.7},
	{1000, 0.5},
	{5000, 0.3},
	{15000, 0.2},
}

const durationCurveElseScore = 0.1

func baseExecutionScore(ms float64) float64 {
	for _, bp := range durationCurve {
		if ms <= bp.maxMs {
			return bp.score
		}
	}
	return durationCurveElseScore
}

func (s *ExecutionTimeScorer) Score(test *types.TestInfo, ctx Context) (float64, error) {
	ms := float64(test.AverageExecTime) / float64(time.Millisecond)
	score := baseExecutionScore(ms)

	switch ctx.Confidence {
	case types.ConfidenceFast:
		if test.AverageExecTime < 500*time.Millisecond {
			score *= 1.2
		} else {
			score *= 0.3
		}
	case types.ConfidenceMedium:
		if test.AverageExecTime > 5*time.Second {
			score *= 0.6
		}
	case types.ConfidenceHigh:
		if test.AverageExecTime > 30*time.Second {
			score *= 0.8
		}
	case types.ConfidenceFull:
		score *= 0.9
	}

	if cv, ok := coefficientOfVariation(test.ExecutionHistory); ok && cv > 0.5 {
		score *= 0.8
	}

	return clamp01(score), nil
}

// coefficientOfVariation computes stddev/mean over recorded durations; the
// second return is false when there are fewer than 3 samples (spec §4.2).
func coefficientOfVariation(history []types.TestExecutionResult) (float64, bool) {
	if len(history) < 3 {
		return 0, false
	}
	durations := make([]float64, len(history))
	var sum float64
	for i, r := range history {
		d := float64(r.Duration)
		durations[i] = d
		sum += d
	}
	mean := sum / float64(len(durations))
	if mean == 0 {
		return 0, false
	}
	var variance float64
	for _, d := range durations {
		diff := d - mean
		variance += diff * diff
	}
	variance /= float64(len(durations))
	stddev := math.Sqrt(variance)
	return stddev / mean, true
}
