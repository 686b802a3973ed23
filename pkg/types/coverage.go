package types

// TestCoverage is one covering relation: a production method covered by a
// test, with the call path that reached it.
type TestCoverage struct {
	TestMethodID string
	CallPath     []string
	CallDepth    int
	Confidence   float64
}

// TestCoverageMap maps a production method id to the set of tests that cover
// it. Invariant (spec §3): every TestMethodID referenced has CallDepth >= 1.
type TestCoverageMap struct {
	Methods map[string][]TestCoverage
}

// NewTestCoverageMap returns an empty, ready-to-populate coverage map.
func NewTestCoverageMap() *TestCoverageMap {
	return &TestCoverageMap{Methods: make(map[string][]TestCoverage)}
}

// Add records that testMethodID covers productionMethodID via the given call
// path, depth, and confidence.
func (m *TestCoverageMap) Add(productionMethodID, testMethodID string, callPath []string, callDepth int, confidence float64) {
	m.Methods[productionMethodID] = append(m.Methods[productionMethodID], TestCoverage{
		TestMethodID: testMethodID,
		CallPath:     callPath,
		CallDepth:    callDepth,
		Confidence:   confidence,
	})
}

// MethodWeight describes the weighted contribution of one shared method to
// an overlap report.
type MethodWeight struct {
	MethodID      string
	Weight        float64
	Confidence    float64
	CallDepth     int
	IsProduction  bool
	ContainerName string
}

// OverlapReport is the result of comparing the coverage of two tests.
type OverlapReport struct {
	Shared          []string
	UniqueToA       []string
	UniqueToB       []string
	OverlapPercent  float64
	SharedMethods   []MethodWeight
}
