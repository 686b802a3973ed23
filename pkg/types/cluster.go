package types

// SimilarityMatrix is a symmetric matrix of pairwise test similarities over
// an ordered list of test ids. Invariant (spec §3): M[i][i] == 1 and
// M[i][j] == M[j][i] in [0,1].
type SimilarityMatrix struct {
	TestIDs []string
	Scores  [][]float64
}

// NewSimilarityMatrix allocates a matrix of the given size with the
// diagonal pre-filled to 1.
func NewSimilarityMatrix(testIDs []string) *SimilarityMatrix {
	n := len(testIDs)
	scores := make([][]float64, n)
	for i := range scores {
		scores[i] = make([]float64, n)
		scores[i][i] = 1
	}
	return &SimilarityMatrix{TestIDs: testIDs, Scores: scores}
}

// Set records sim(i,j) symmetrically.
func (m *SimilarityMatrix) Set(i, j int, sim float64) {
	m.Scores[i][j] = sim
	m.Scores[j][i] = sim
}

// Get returns sim(i,j), 1 when i == j.
func (m *SimilarityMatrix) Get(i, j int) float64 {
	return m.Scores[i][j]
}

// LinkageRule selects how inter-cluster similarity is computed from member
// pairwise similarities during agglomerative clustering.
type LinkageRule string

const (
	LinkageSingle   LinkageRule = "single"
	LinkageComplete LinkageRule = "complete"
	LinkageAverage  LinkageRule = "average"
	LinkageWard     LinkageRule = "ward" // falls back to average; see linkageFunc in internal/cluster
)

// Cluster is a group of similar tests produced by agglomerative clustering.
type Cluster struct {
	ID              string
	Members         []string
	IntraSimilarity float64
	Cohesion        float64
	Characteristics map[string]string
}

// ClusterQuality holds the aggregate quality statistics for a clustering run.
type ClusterQuality struct {
	MeanSilhouette  float64
	ClusteringRate  float64 // clustered / total
	SizeStdDev      float64
	LargestSize     int
	SmallestSize    int
}

// ClusterAnalysis is the full result of analyzeClusters.
type ClusterAnalysis struct {
	Clusters        []Cluster
	Quality         ClusterQuality
	Recommendations []Recommendation
	Warnings        []string
}

// AnalysisDepth controls the coverage/metadata weighting used when composing
// an overall similarity score (spec §4.6).
type AnalysisDepth string

const (
	DepthShallow AnalysisDepth = "Shallow"
	DepthMedium  AnalysisDepth = "Medium"
	DepthDeep    AnalysisDepth = "Deep"
)

// DepthWeights returns (coverageWeight, metadataWeight) for an analysis depth.
func DepthWeights(depth AnalysisDepth) (float64, float64) {
	switch depth {
	case DepthMedium:
		return 0.7, 0.3
	case DepthDeep:
		return 0.6, 0.4
	default:
		return 1.0, 0.0
	}
}
