// Package cluster implements agglomerative clustering over a pairwise test
// similarity matrix (spec §4.6).
package cluster

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/ingo-eichhorst/testselect/pkg/types"
)

// PairComparator computes an overall-similarity scalar for one test pair;
// callers typically combine coverage overlap (C5) and metadata similarity
// via similarity.OverallSimilarity.
type PairComparator func(ctx context.Context, idA, idB string) (float64, error)

// pairFanOut is the bound on concurrent comparator calls; the pairwise phase
// is the one place in the system worth data-parallelism (spec §9).
const pairFanOut = 8

// BuildMatrix computes every i<j pairwise similarity by calling compare,
// bounded by a fixed fan-out. A failed comparison yields 0.0 for that pair
// and is appended to warnings rather than aborting the whole matrix (spec
// §4.6).
func BuildMatrix(ctx context.Context, testIDs []string, compare PairComparator) (*types.SimilarityMatrix, []string) {
	matrix := types.NewSimilarityMatrix(testIDs)

	type pair struct{ i, j int }
	var pairs []pair
	for i := 0; i < len(testIDs); i++ {
		for j := i + 1; j < len(testIDs); j++ {
			pairs = append(pairs, pair{i, j})
		}
	}

	var mu sync.Mutex
	var warnings []string

	g, gctx := errgroup.WithContext(ctx)
	sem := make(chan struct{}, pairFanOut)

	for _, p := range pairs {
		p := p
		g.Go(func() error {
			select {
			case sem <- struct{}{}:
			case <-gctx.Done():
				return gctx.Err()
			}
			defer func() { <-sem }()

			sim, err := compare(gctx, testIDs[p.i], testIDs[p.j])
			if err != nil {
				mu.Lock()
				warnings = append(warnings, fmt.Sprintf("pair (%s, %s): %v", testIDs[p.i], testIDs[p.j], err))
				mu.Unlock()
				sim = 0.0
			}
			matrix.Set(p.i, p.j, sim)
			return nil
		})
	}
	_ = g.Wait()

	return matrix, warnings
}
