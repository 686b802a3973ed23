package cluster

import (
	"fmt"

	"gonum.org/v1/gonum/stat"

	"github.com/ingo-eichhorst/testselect/pkg/types"
)

// Options configures the agglomerative merge and cluster-acceptance rules
// (spec §4.6).
type Options struct {
	Linkage                   types.LinkageRule
	SimilarityThreshold       float64
	MaxClusters               int
	MinClusterSize            int
	MinIntraClusterSimilarity float64
}

// node is a cluster under construction, tracked by the matrix indices of its
// members.
type node struct {
	members []int
}

// Analyze runs the full agglomerative pipeline over a precomputed similarity
// matrix: merge until the stop condition, discard clusters failing the size/
// cohesion filters, then compute quality statistics (spec §4.6).
func Analyze(matrix *types.SimilarityMatrix, opts Options) types.ClusterAnalysis {
	nodes := initialNodes(len(matrix.TestIDs))
	nodes = merge(nodes, matrix, opts)

	var clusters []types.Cluster
	clusteredCount := 0
	for _, n := range nodes {
		intra := meanIntraSimilarity(n.members, matrix)
		if len(n.members) < opts.MinClusterSize || intra < opts.MinIntraClusterSimilarity {
			continue
		}
		members := make([]string, len(n.members))
		for i, idx := range n.members {
			members[i] = matrix.TestIDs[idx]
		}
		clusters = append(clusters, types.Cluster{
			ID:              fmt.Sprintf("cluster-%d", len(clusters)),
			Members:         members,
			IntraSimilarity: intra,
			Cohesion:        intra,
			Characteristics: map[string]string{},
		})
		clusteredCount += len(n.members)
	}

	quality := computeQuality(clusters, nodes, matrix, len(matrix.TestIDs), clusteredCount)

	return types.ClusterAnalysis{Clusters: clusters, Quality: quality}
}

func initialNodes(n int) []node {
	nodes := make([]node, n)
	for i := range nodes {
		nodes[i] = node{members: []int{i}}
	}
	return nodes
}

// merge repeatedly combines the two clusters with the highest linkage
// similarity, breaking ties at the lowest (i,j) slice position, stopping
// once that similarity falls below the threshold or the cluster count
// reaches maxClusters (spec §4.6, 0 meaning unbounded).
func merge(nodes []node, matrix *types.SimilarityMatrix, opts Options) []node {
	linkFn := linkageFunc(opts.Linkage)

	for len(nodes) > 1 {
		if opts.MaxClusters > 0 && len(nodes) <= opts.MaxClusters {
			break
		}

		bestSim := -1.0
		bestI, bestJ := -1, -1
		for i := 0; i < len(nodes); i++ {
			for j := i + 1; j < len(nodes); j++ {
				sim := linkFn(nodes[i], nodes[j], matrix)
				if sim > bestSim {
					bestSim = sim
					bestI, bestJ = i, j
				}
			}
		}
		if bestI < 0 || bestSim < opts.SimilarityThreshold {
			break
		}

		nodes[bestI].members = append(nodes[bestI].members, nodes[bestJ].members...)
		nodes = append(nodes[:bestJ], nodes[bestJ+1:]...)
	}
	return nodes
}

type linkageFn func(a, b node, matrix *types.SimilarityMatrix) float64

// linkageFunc resolves the inter-cluster similarity rule. Ward linkage falls
// back to average linkage (spec §9 open question: a true Ward variant would
// require Euclidean distances not available here).
func linkageFunc(rule types.LinkageRule) linkageFn {
	switch rule {
	case types.LinkageSingle:
		return singleLinkage
	case types.LinkageComplete:
		return completeLinkage
	default:
		return averageLinkage
	}
}

func singleLinkage(a, b node, matrix *types.SimilarityMatrix) float64 {
	best := -1.0
	for _, i := range a.members {
		for _, j := range b.members {
			if s := matrix.Get(i, j); s > best {
				best = s
			}
		}
	}
	return best
}

func completeLinkage(a, b node, matrix *types.SimilarityMatrix) float64 {
	worst := 1.0
	for _, i := range a.members {
		for _, j := range b.members {
			if s := matrix.Get(i, j); s < worst {
				worst = s
			}
		}
	}
	return worst
}

func averageLinkage(a, b node, matrix *types.SimilarityMatrix) float64 {
	var sum float64
	var count int
	for _, i := range a.members {
		for _, j := range b.members {
			sum += matrix.Get(i, j)
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

func meanIntraSimilarity(members []int, matrix *types.SimilarityMatrix) float64 {
	if len(members) < 2 {
		return 1.0
	}
	var sum float64
	var count int
	for a := 0; a < len(members); a++ {
		for b := a + 1; b < len(members); b++ {
			sum += matrix.Get(members[a], members[b])
			count++
		}
	}
	return sum / float64(count)
}

// computeQuality implements spec §4.6's silhouette (similarity form),
// clustering rate, and size-variance statistics.
func computeQuality(accepted []types.Cluster, allNodes []node, matrix *types.SimilarityMatrix, total, clusteredCount int) types.ClusterQuality {
	q := types.ClusterQuality{}
	if total > 0 {
		q.ClusteringRate = float64(clusteredCount) / float64(total)
	}
	if len(accepted) == 0 {
		return q
	}

	memberIdx := make([][]int, len(accepted))
	idByID := make(map[string]int, len(matrix.TestIDs))
	for i, id := range matrix.TestIDs {
		idByID[id] = i
	}
	for ci, c := range accepted {
		idx := make([]int, len(c.Members))
		for mi, id := range c.Members {
			idx[mi] = idByID[id]
		}
		memberIdx[ci] = idx
	}

	var silhouettes []float64
	sizes := make([]float64, len(accepted))
	for ci, idx := range memberIdx {
		sizes[ci] = float64(len(idx))
		if len(idx) < 2 {
			continue
		}
		for _, p := range idx {
			a := meanSimilarityToOthers(p, idx, matrix)
			b := maxMeanSimilarityToOtherClusters(p, ci, memberIdx, matrix)
			denom := a
			if b > denom {
				denom = b
			}
			if denom == 0 {
				continue
			}
			silhouettes = append(silhouettes, (a-b)/denom)
		}
	}
	if len(silhouettes) > 0 {
		var sum float64
		for _, s := range silhouettes {
			sum += s
		}
		q.MeanSilhouette = sum / float64(len(silhouettes))
	}

	if len(sizes) > 0 {
		q.SizeStdDev = stat.PopStdDev(sizes, nil)
		largest, smallest := sizes[0], sizes[0]
		for _, s := range sizes {
			if s > largest {
				largest = s
			}
			if s < smallest {
				smallest = s
			}
		}
		q.LargestSize = int(largest)
		q.SmallestSize = int(smallest)
	}

	return q
}

func meanSimilarityToOthers(point int, members []int, matrix *types.SimilarityMatrix) float64 {
	var sum float64
	var count int
	for _, m := range members {
		if m == point {
			continue
		}
		sum += matrix.Get(point, m)
		count++
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

func maxMeanSimilarityToOtherClusters(point, ownCluster int, memberIdx [][]int, matrix *types.SimilarityMatrix) float64 {
	best := 0.0
	for ci, idx := range memberIdx {
		if ci == ownCluster || len(idx) == 0 {
			continue
		}
		var sum float64
		for _, m := range idx {
			sum += matrix.Get(point, m)
		}
		mean := sum / float64(len(idx))
		if mean > best {
			best = mean
		}
	}
	return best
}
