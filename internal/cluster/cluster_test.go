package cluster

import (
	"context"
	"errors"
	"testing"

	"github.com/ingo-eichhorst/testselect/pkg/types"
)

func TestBuildMatrixFailureYieldsZeroAndWarning(t *testing.T) {
	ids := []string{"a", "b", "c"}
	matrix, warnings := BuildMatrix(context.Background(), ids, func(ctx context.Context, idA, idB string) (float64, error) {
		if idA == "a" && idB == "b" {
			return 0, errors.New("boom")
		}
		return 0.5, nil
	})
	if matrix.Get(0, 1) != 0 {
		t.Fatalf("failed pair should score 0.0, got %v", matrix.Get(0, 1))
	}
	if len(warnings) != 1 {
		t.Fatalf("expected one warning, got %v", warnings)
	}
}

func TestTwoCliqueClusteringScenario(t *testing.T) {
	ids := []string{"t1", "t2", "t3", "t4", "t5"}
	matrix := types.NewSimilarityMatrix(ids)

	within := map[[2]int]bool{
		{0, 1}: true, {0, 2}: true, {1, 2}: true,
		{3, 4}: true,
	}
	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			sim := 0.2
			if within[[2]int{i, j}] {
				sim = 0.9
			}
			matrix.Set(i, j, sim)
		}
	}

	analysis := Analyze(matrix, Options{
		Linkage:                   types.LinkageSingle,
		SimilarityThreshold:       0.5,
		MinClusterSize:            2,
		MinIntraClusterSimilarity: 0,
	})

	if len(analysis.Clusters) != 2 {
		t.Fatalf("expected exactly two clusters, got %d: %+v", len(analysis.Clusters), analysis.Clusters)
	}
	sizes := map[int]int{}
	for _, c := range analysis.Clusters {
		sizes[len(c.Members)]++
	}
	if sizes[3] != 1 || sizes[2] != 1 {
		t.Fatalf("expected one cluster of 3 and one of 2, got sizes %v", sizes)
	}
	if analysis.Quality.MeanSilhouette <= 0.5 {
		t.Fatalf("mean silhouette = %v, want > 0.5", analysis.Quality.MeanSilhouette)
	}
}

func TestLinkageFuncs(t *testing.T) {
	ids := []string{"a", "b", "c", "d"}
	matrix := types.NewSimilarityMatrix(ids)
	matrix.Set(0, 2, 0.9)
	matrix.Set(0, 3, 0.1)
	matrix.Set(1, 2, 0.8)
	matrix.Set(1, 3, 0.2)

	a := node{members: []int{0, 1}}
	b := node{members: []int{2, 3}}

	if got := singleLinkage(a, b, matrix); got != 0.9 {
		t.Fatalf("single linkage = %v, want 0.9", got)
	}
	if got := completeLinkage(a, b, matrix); got != 0.1 {
		t.Fatalf("complete linkage = %v, want 0.1", got)
	}
	avg := averageLinkage(a, b, matrix)
	if avg <= 0.1 || avg >= 0.9 {
		t.Fatalf("average linkage = %v, want strictly between 0.1 and 0.9", avg)
	}
}
