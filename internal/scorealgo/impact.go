package scorealgo

import (
	"strings"

	"github.com/ingo-eichhorst/testselect/internal/similarity"
	"github.com/ingo-eichhorst/testselect/pkg/types"
)

// ImpactScorer measures how likely a test is to exercise the code that
// changed, from (a) a direct dependency match on a changed type, (b)
// namespace overlap between the test's dependencies and the changed types,
// and (c) method-name token overlap with the changed methods (spec §4.2).
type ImpactScorer struct{}

func (s *ImpactScorer) Name() string    { return "impact" }
func (s *ImpactScorer) Weight() float64 { return 0.4 }

const impactBaselineNoChanges = 0.5

func (s *ImpactScorer) Score(test *types.TestInfo, ctx Context) (float64, error) {
	if ctx.Changes == nil || ctx.Changes.IsEmpty() {
		return impactBaselineNoChanges, nil
	}

	changedTypes := ctx.Changes.ChangedTypeNames()
	changedMethods := ctx.Changes.ChangedMethodNames()

	var directMatch bool
	for _, dep := range test.Dependencies {
		if containsFold(changedTypes, dep) {
			directMatch = true
			break
		}
	}

	nsOverlap := namespaceOverlap(test.Dependencies, changedTypes)
	methodOverlap := methodTokenOverlap(test.MethodName, changedMethods)

	score := 0.0
	if directMatch {
		score = 0.7
	}
	score += nsOverlap * 0.2
	score += methodOverlap * 0.3
	return clamp01(score), nil
}

func containsFold(set map[string]bool, value string) bool {
	for k := range set {
		if strings.EqualFold(k, value) {
			return true
		}
	}
	return false
}

// namespacePrefix returns all but the last '.'-separated segment of a
// dotted type name, e.g. "MyApp.Services.OrderService" -> "MyApp.Services".
func namespacePrefix(typeName string) string {
	idx := strings.LastIndex(typeName, ".")
	if idx < 0 {
		return ""
	}
	return strings.ToLower(typeName[:idx])
}

func namespaceOverlap(dependencies []string, changedTypes map[string]bool) float64 {
	depNamespaces := make(map[string]bool)
	for _, dep := range dependencies {
		if ns := namespacePrefix(dep); ns != "" {
			depNamespaces[ns] = true
		}
	}
	changedNamespaces := make(map[string]bool)
	for t := range changedTypes {
		if ns := namespacePrefix(t); ns != "" {
			changedNamespaces[ns] = true
		}
	}
	if len(depNamespaces) == 0 || len(changedNamespaces) == 0 {
		return 0
	}
	return similarity.WeightedJaccard(depNamespaces, changedNamespaces, similarity.UnitWeight)
}

func methodTokenOverlap(methodName string, changedMethods map[string]bool) float64 {
	if len(changedMethods) == 0 {
		return 0
	}
	best := 0.0
	for changed := range changedMethods {
		if sim := similarity.NameTokenSimilarity(methodName, changed); sim > best {
			best = sim
		}
	}
	return best
}
