// Package plan builds a TestExecutionPlan from scored tests under a
// confidence-level policy and caller-supplied options (spec §4.4).
package plan

import (
	"github.com/ingo-eichhorst/testselect/internal/scorealgo"
	"github.com/ingo-eichhorst/testselect/pkg/types"
)

// PassesBasicFilters implements spec §4.4's outright-rejection rules:
// excluded category, not in a non-empty included-category set, any excluded
// tag, missing a required tag when the required set is non-empty, or flaky
// when includeFlakyTests is false.
func PassesBasicFilters(test *types.TestInfo, opts types.TestSelectionOptions) bool {
	for _, c := range opts.ExcludedCategories {
		if test.Category == c {
			return false
		}
	}
	if len(opts.IncludedCategories) > 0 {
		included := false
		for _, c := range opts.IncludedCategories {
			if test.Category == c {
				included = true
				break
			}
		}
		if !included {
			return false
		}
	}
	for _, tag := range opts.ExcludedTags {
		if test.HasTag(tag) {
			return false
		}
	}
	if len(opts.RequiredTags) > 0 {
		hasRequired := false
		for _, tag := range opts.RequiredTags {
			if test.HasTag(tag) {
				hasRequired = true
				break
			}
		}
		if !hasRequired {
			return false
		}
	}
	if !opts.IncludeFlakyTests && scorealgo.IsFlaky(test.ExecutionHistory) {
		return false
	}
	return true
}
