package scorealgo

import "github.com/ingo-eichhorst/testselect/pkg/types"

// SuccessRate returns the fraction of passed runs in a chronologically
// ordered execution history; an empty history has no defined rate.
func SuccessRate(history []types.TestExecutionResult) (float64, bool) {
	if len(history) == 0 {
		return 0, false
	}
	var passed int
	for _, r := range history {
		if r.Passed {
			passed++
		}
	}
	return float64(passed) / float64(len(history)), true
}

// alternationCount counts adjacent pass/fail transitions in a chronologically
// ordered history.
func alternationCount(history []types.TestExecutionResult) int {
	count := 0
	for i := 1; i < len(history); i++ {
		if history[i].Passed != history[i-1].Passed {
			count++
		}
	}
	return count
}

// IsFlaky implements spec §4.2/GLOSSARY: success rate in [0.3, 0.9] AND the
// alternation count exceeds floor(n/3).
func IsFlaky(history []types.TestExecutionResult) bool {
	rate, ok := SuccessRate(history)
	if !ok {
		return false
	}
	if rate < 0.3 || rate > 0.9 {
		return false
	}
	return alternationCount(history) > len(history)/3
}
