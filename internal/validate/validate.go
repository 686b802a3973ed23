// Package validate implements test-identifier validation with Levenshtein-
// ranked suggestions and a per-solution discovery cache (spec §4.7).
package validate

import (
	"context"
	"runtime"
	"sort"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/errgroup"

	"github.com/ingo-eichhorst/testselect/internal/similarity"
	"github.com/ingo-eichhorst/testselect/pkg/types"
)

// discoveryCacheTTL matches spec §4.7's 5-minute per-solution discovery
// cache.
const discoveryCacheTTL = 5 * time.Minute

// DiscoveryFunc resolves the full known-test set for a solution path; it is
// the caller's TestDiscovery provider (an I/O suspension point per spec
// §4.9), wrapped by Validator's TTL cache.
type DiscoveryFunc func(ctx context.Context, solutionPath string) ([]*types.TestInfo, error)

// Validator caches discovery results per solution path and answers
// existence/suggestion queries against them.
type Validator struct {
	discover DiscoveryFunc
	cache    *lru.LRU[string, []*types.TestInfo]

	maxSuggestions int
}

// NewValidator builds a Validator backed by discover, caching up to
// cacheSize distinct solution paths for discoveryCacheTTL each.
func NewValidator(discover DiscoveryFunc, cacheSize, maxSuggestions int) *Validator {
	if cacheSize <= 0 {
		cacheSize = 16
	}
	if maxSuggestions <= 0 {
		maxSuggestions = 5
	}
	return &Validator{
		discover:       discover,
		cache:          lru.NewLRU[string, []*types.TestInfo](cacheSize, nil, discoveryCacheTTL),
		maxSuggestions: maxSuggestions,
	}
}

func (v *Validator) knownTests(ctx context.Context, solutionPath string) ([]*types.TestInfo, error) {
	if tests, ok := v.cache.Get(solutionPath); ok {
		return tests, nil
	}
	tests, err := v.discover(ctx, solutionPath)
	if err != nil {
		return nil, types.NewError(types.ErrDependencyUnavailable, "discovery failed for "+solutionPath, err)
	}
	v.cache.Add(solutionPath, tests)
	return tests, nil
}

// Validate implements spec §4.7: checks existence (case-insensitive unique
// id match) and, when invalid, ranks suggestions by Levenshtein distance.
func (v *Validator) Validate(ctx context.Context, solutionPath, testID string) (types.ValidationResult, error) {
	known, err := v.knownTests(ctx, solutionPath)
	if err != nil {
		return types.ValidationResult{}, err
	}

	for _, t := range known {
		if types.UniqueIDEqual(t.UniqueID, testID) {
			return types.ValidationResult{Valid: true, Metadata: t}, nil
		}
	}

	return types.ValidationResult{Valid: false, Suggestions: suggest(testID, known, v.maxSuggestions)}, nil
}

// ValidateBatch runs Validate concurrently over testIDs, bounded by
// GOMAXPROCS (spec §4.7: "fan-out ≤ number of processors").
func (v *Validator) ValidateBatch(ctx context.Context, solutionPath string, testIDs []string) ([]types.ValidationResult, error) {
	results := make([]types.ValidationResult, len(testIDs))

	g, gctx := errgroup.WithContext(ctx)
	sem := make(chan struct{}, runtime.GOMAXPROCS(0))

	for i, id := range testIDs {
		i, id := i, id
		g.Go(func() error {
			select {
			case sem <- struct{}{}:
			case <-gctx.Done():
				return gctx.Err()
			}
			defer func() { <-sem }()

			res, err := v.Validate(gctx, solutionPath, id)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

type suggestion struct {
	id       string
	distance int
}

// suggest ranks known test ids by Levenshtein distance to input, filters to
// distance <= max(3, len(input)/3), and tie-breaks by shorter length (spec
// §4.7).
func suggest(input string, known []*types.TestInfo, maxSuggestions int) []string {
	maxDistance := len(input) / 3
	if maxDistance < 3 {
		maxDistance = 3
	}

	var candidates []suggestion
	for _, t := range known {
		d := similarity.Distance(strings.ToLower(input), strings.ToLower(t.UniqueID))
		if d <= maxDistance {
			candidates = append(candidates, suggestion{id: t.UniqueID, distance: d})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].distance != candidates[j].distance {
			return candidates[i].distance < candidates[j].distance
		}
		return len(candidates[i].id) < len(candidates[j].id)
	})

	if len(candidates) > maxSuggestions {
		candidates = candidates[:maxSuggestions]
	}

	out := make([]string, len(candidates))
	for i, c := range candidates {
		out[i] = c.id
	}
	return out
}
