package plan

import (
	"time"

	"github.com/ingo-eichhorst/testselect/internal/scoring"
	"github.com/ingo-eichhorst/testselect/pkg/types"
)

// resolvedPolicy merges a confidence level's defaults with caller overrides;
// a zero-valued option field keeps the policy default (spec §4.4: "default
// caps, overridable by options").
type resolvedPolicy struct {
	maxCount    int
	maxDuration time.Duration
	minScore    float64
}

func resolvePolicy(level types.ConfidenceLevel, opts types.TestSelectionOptions) resolvedPolicy {
	d := types.DefaultsFor(level)
	p := resolvedPolicy{maxCount: d.MaxTestCount, maxDuration: d.MaxDuration, minScore: d.MinScore}
	if opts.MaxTestCount > 0 {
		p.maxCount = opts.MaxTestCount
	}
	if opts.MaxExecutionTime > 0 {
		p.maxDuration = opts.MaxExecutionTime
	}
	if opts.MinSelectionScore > 0 {
		p.minScore = opts.MinSelectionScore
	}
	return p
}

func (p resolvedPolicy) countExhausted(selected int) bool {
	return p.maxCount > 0 && selected >= p.maxCount
}

func (p resolvedPolicy) wouldExceedDuration(cumulative, next time.Duration) bool {
	return p.maxDuration > 0 && cumulative+next > p.maxDuration
}

// budget tracks the cumulative, non-preemptive duration constraint shared by
// every policy: a test that alone would exceed the remaining budget is
// skipped, not used to terminate selection (spec §4.4).
type budget struct {
	policy    resolvedPolicy
	selected  []*types.TestInfo
	cumulative time.Duration
}

func newBudget(p resolvedPolicy) *budget {
	return &budget{policy: p}
}

func (b *budget) full() bool {
	return b.policy.countExhausted(len(b.selected))
}

func (b *budget) tryAdd(test *types.TestInfo) bool {
	if b.full() {
		return false
	}
	if b.policy.wouldExceedDuration(b.cumulative, test.AverageExecTime) {
		return false
	}
	b.selected = append(b.selected, test)
	b.cumulative += test.AverageExecTime
	return true
}

// Build implements spec §4.4: Full bypasses scoring and filters-only; Fast
// runs the three-pass category-balanced greedy; Medium/High run a single
// score-descending pass with early exit once the score floor is crossed.
// scored must already be ordered by descending combined score (the
// contract scoring.Service.ScoreTests guarantees).
func Build(scored []scoring.ScoredTest, level types.ConfidenceLevel, opts types.TestSelectionOptions, now time.Time) *types.TestExecutionPlan {
	opts = opts.Normalized()
	policy := resolvePolicy(level, opts)

	var selected []*types.TestInfo
	var duration time.Duration

	if level == types.ConfidenceFull {
		selected, duration = buildFull(scored, opts, policy)
	} else if level == types.ConfidenceFast {
		selected, duration = buildFast(scored, opts, policy)
	} else {
		selected, duration = buildGreedy(scored, opts, policy)
	}

	for _, t := range selected {
		t.LastSelected = now
	}

	return &types.TestExecutionPlan{
		Tests:             selected,
		ConfidenceLevel:   level,
		EstimatedDuration: duration,
		Batches:           batch(selected, opts.MaxParallelism),
	}
}

// buildFull bypasses scoring entirely: every candidate that passes the basic
// filters is selected, still honoring the (normally unbounded) duration
// budget so a caller-supplied override on Full still applies.
func buildFull(scored []scoring.ScoredTest, opts types.TestSelectionOptions, policy resolvedPolicy) ([]*types.TestInfo, time.Duration) {
	b := newBudget(policy)
	for _, st := range scored {
		if !PassesBasicFilters(st.Test, opts) {
			continue
		}
		b.tryAdd(st.Test)
	}
	return b.selected, b.cumulative
}

// buildGreedy implements the Medium/High single-pass policy: tests arrive in
// descending score order, so the first test below minScore ends selection.
func buildGreedy(scored []scoring.ScoredTest, opts types.TestSelectionOptions, policy resolvedPolicy) ([]*types.TestInfo, time.Duration) {
	b := newBudget(policy)
	for _, st := range scored {
		if st.Score < policy.minScore {
			break
		}
		if b.full() {
			break
		}
		if !PassesBasicFilters(st.Test, opts) {
			continue
		}
		b.tryAdd(st.Test)
	}
	return b.selected, b.cumulative
}

// buildFast implements the three-pass category-balanced greedy policy.
func buildFast(scored []scoring.ScoredTest, opts types.TestSelectionOptions, policy resolvedPolicy) ([]*types.TestInfo, time.Duration) {
	b := newBudget(policy)

	unitQuota := int(0.8 * float64(policy.maxCount))
	if policy.maxCount == 0 {
		unitQuota = 0
	}
	unitFloor := policy.minScore
	if unitFloor < 0.5 {
		unitFloor = 0.5
	}
	runPass(scored, opts, b, unitQuota, unitFloor, func(t *types.TestInfo) bool {
		return t.Category == types.CategoryUnit
	})

	integrationFloor := policy.minScore
	if integrationFloor < 0.4 {
		integrationFloor = 0.4
	}
	runPass(scored, opts, b, policy.maxCount, integrationFloor, func(t *types.TestInfo) bool {
		return t.Category == types.CategoryIntegration
	})

	runPass(scored, opts, b, policy.maxCount, policy.minScore, func(*types.TestInfo) bool {
		return true
	})

	return b.selected, b.cumulative
}

// runPass sweeps the score-descending list once, selecting candidates that
// match the pass predicate and clear the pass's own score floor, up to
// passQuota total selections (counted against the whole budget, not the
// pass). Already-selected tests are skipped so later passes never re-add a
// test a prior pass already took.
func runPass(scored []scoring.ScoredTest, opts types.TestSelectionOptions, b *budget, passQuota int, floor float64, match func(*types.TestInfo) bool) {
	already := make(map[*types.TestInfo]bool, len(b.selected))
	for _, t := range b.selected {
		already[t] = true
	}

	for _, st := range scored {
		if passQuota > 0 && len(b.selected) >= passQuota {
			return
		}
		if b.full() {
			return
		}
		if already[st.Test] {
			continue
		}
		if st.Score < floor {
			continue
		}
		if !match(st.Test) {
			continue
		}
		if !PassesBasicFilters(st.Test, opts) {
			continue
		}
		b.tryAdd(st.Test)
	}
}

// batch groups selected tests into advisory parallel-execution batches of at
// most maxParallelism tests each, preserving selection order.
func batch(tests []*types.TestInfo, maxParallelism int) []types.TestBatch {
	if maxParallelism < 1 {
		maxParallelism = 1
	}
	var batches []types.TestBatch
	for i := 0; i < len(tests); i += maxParallelism {
		end := i + maxParallelism
		if end > len(tests) {
			end = len(tests)
		}
		batches = append(batches, types.TestBatch{Tests: tests[i:end]})
	}
	return batches
}
