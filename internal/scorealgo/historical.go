package scorealgo

import (
	"time"

	"github.com/ingo-eichhorst/testselect/pkg/types"
)

// HistoricalScorer rewards tests sitting in the "sweet spot" of moderate
// failure history, bonuses recent activity, and penalizes flaky tests by
// confidence level (spec §4.2).
type HistoricalScorer struct{}

func (s *HistoricalScorer) Name() string    { return "historical" }
func (s *HistoricalScorer) Weight() float64 { return 0.3 }

const emptyHistoryScore = 0.5

func baseHistoricalScore(rate float64) float64 {
	switch {
	case rate >= 0.95:
		return 0.6
	case rate >= 0.70:
		return 0.8
	case rate >= 0.50:
		return 0.5
	case rate >= 0.20:
		return 0.3
	default:
		return 0.1
	}
}

func (s *HistoricalScorer) Score(test *types.TestInfo, ctx Context) (float64, error) {
	rate, ok := SuccessRate(test.ExecutionHistory)
	if !ok {
		return emptyHistoryScore, nil
	}

	score := baseHistoricalScore(rate)

	now := ctx.Now
	if now.IsZero() {
		now = time.Now()
	}

	recentFailures := 0
	recentExecutions := 0
	for _, r := range test.ExecutionHistory {
		age := now.Sub(r.ExecutedAt)
		if age < 0 {
			continue
		}
		if age <= 14*24*time.Hour {
			recentExecutions++
		}
		if !r.Passed && age <= 7*24*time.Hour {
			recentFailures++
		}
	}

	if recentFailures > 0 {
		bonus := 0.05 * float64(recentFailures)
		if bonus > 0.2 {
			bonus = 0.2
		}
		score += bonus
	}
	if recentExecutions >= 5 {
		score += 0.1
	}

	if IsFlaky(test.ExecutionHistory) {
		switch ctx.Confidence {
		case types.ConfidenceFast:
			score *= 0.3
		case types.ConfidenceMedium:
			score *= 0.6
		case types.ConfidenceHigh:
			score *= 0.8
		case types.ConfidenceFull:
			score *= 0.9
		}
	}

	return clamp01(score), nil
}
