// Package coverage implements the reverse-lookup coverage-overlap analyzer
// (spec §4.5): turning a method→tests map into per-test covered-method sets
// and a weighted overlap report between any two tests.
package coverage

import (
	"strings"
	"sync"

	"github.com/ingo-eichhorst/testselect/internal/similarity"
	"github.com/ingo-eichhorst/testselect/pkg/types"
)

// Analyzer caches the reverse (test → covered methods) map per coverage-map
// identity, so repeated overlap queries against the same map avoid re-
// scanning it (spec §4.5: "Cache the reverse map per coverage-map
// identity").
type Analyzer struct {
	mu    sync.Mutex
	cache map[*types.TestCoverageMap]*reverseIndex
}

// NewAnalyzer returns a ready-to-use Analyzer.
func NewAnalyzer() *Analyzer {
	return &Analyzer{cache: make(map[*types.TestCoverageMap]*reverseIndex)}
}

// reverseIndex is test uniqueId (lower-cased) -> covered production method
// weights, built once per distinct *TestCoverageMap.
type reverseIndex struct {
	weights map[string]map[string]types.MethodWeight
}

// buildReverseIndex implements the O(N·k) reverse-lookup scan described in
// spec §4.5: for each production method's covering tests, record the
// production method against every covering test's set.
func buildReverseIndex(cm *types.TestCoverageMap) *reverseIndex {
	idx := &reverseIndex{weights: make(map[string]map[string]types.MethodWeight)}
	if cm == nil {
		return idx
	}
	for methodID, coverers := range cm.Methods {
		for _, cov := range coverers {
			key := strings.ToLower(cov.TestMethodID)
			set, ok := idx.weights[key]
			if !ok {
				set = make(map[string]types.MethodWeight)
				idx.weights[key] = set
			}
			set[methodID] = types.MethodWeight{
				MethodID:      methodID,
				Weight:        similarity.MethodWeight(methodID, 1.0, cov.CallDepth, 0),
				Confidence:    cov.Confidence,
				CallDepth:     cov.CallDepth,
				IsProduction:  true,
				ContainerName: containerOf(methodID),
			}
		}
	}
	return idx
}

func containerOf(methodID string) string {
	if idx := strings.LastIndex(methodID, "."); idx >= 0 {
		return methodID[:idx]
	}
	return methodID
}

func (a *Analyzer) indexFor(cm *types.TestCoverageMap) *reverseIndex {
	a.mu.Lock()
	defer a.mu.Unlock()
	if idx, ok := a.cache[cm]; ok {
		return idx
	}
	idx := buildReverseIndex(cm)
	a.cache[cm] = idx
	return idx
}

// CoveredMethods returns the set of production methods covered by a single
// test, matched case-insensitively against testMethodID.
func (a *Analyzer) CoveredMethods(cm *types.TestCoverageMap, testMethodID string) map[string]types.MethodWeight {
	idx := a.indexFor(cm)
	return idx.weights[strings.ToLower(testMethodID)]
}

// Overlap computes the weighted-Jaccard overlap report between two tests'
// covered-method sets (spec §4.5).
func (a *Analyzer) Overlap(cm *types.TestCoverageMap, testA, testB string) types.OverlapReport {
	idx := a.indexFor(cm)
	a_ := idx.weights[strings.ToLower(testA)]
	b_ := idx.weights[strings.ToLower(testB)]

	setA := make(map[string]bool, len(a_))
	setB := make(map[string]bool, len(b_))
	weights := make(map[string]float64, len(a_)+len(b_))
	for m, w := range a_ {
		setA[m] = true
		weights[m] = w.Weight
	}
	for m, w := range b_ {
		setB[m] = true
		if _, ok := weights[m]; !ok {
			weights[m] = w.Weight
		}
	}

	report := types.OverlapReport{}
	var shared []types.MethodWeight
	for m := range setA {
		if setB[m] {
			report.Shared = append(report.Shared, m)
			if w, ok := a_[m]; ok {
				shared = append(shared, w)
			}
		} else {
			report.UniqueToA = append(report.UniqueToA, m)
		}
	}
	for m := range setB {
		if !setA[m] {
			report.UniqueToB = append(report.UniqueToB, m)
		}
	}
	report.SharedMethods = shared

	jaccard := similarity.WeightedJaccard(setA, setB, func(m string) float64 { return weights[m] })
	report.OverlapPercent = jaccard * 100

	return report
}
