package output

import (
	"encoding/json"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/ingo-eichhorst/testselect/internal/scoring"
	"github.com/ingo-eichhorst/testselect/pkg/types"
)

// runEnvelope wraps every JSON report with an identifier for the analysis
// run it came from, useful for correlating CLI output with cache/log
// entries when diagnosing a result after the fact.
type runEnvelope struct {
	RunID       string    `json:"runId"`
	GeneratedAt time.Time `json:"generatedAt"`
}

func newRunEnvelope() runEnvelope {
	return runEnvelope{RunID: uuid.NewString(), GeneratedAt: time.Now()}
}

// ScoreReport is the JSON shape for scoreTests.
type ScoreReport struct {
	runEnvelope
	Tests []ScoredTestJSON `json:"tests"`
}

type ScoredTestJSON struct {
	UniqueID string             `json:"uniqueId"`
	Category string             `json:"category"`
	Score    float64            `json:"score"`
	PerAlgo  map[string]float64 `json:"perAlgorithm"`
}

func BuildScoreReport(scored []scoring.ScoredTest) *ScoreReport {
	report := &ScoreReport{runEnvelope: newRunEnvelope()}
	for _, s := range scored {
		report.Tests = append(report.Tests, ScoredTestJSON{
			UniqueID: s.Test.UniqueID,
			Category: string(s.Test.Category),
			Score:    s.Score,
			PerAlgo:  s.PerAlgo,
		})
	}
	return report
}

// PlanReport is the JSON shape for createPlan.
type PlanReport struct {
	runEnvelope
	ConfidenceLevel   string   `json:"confidenceLevel"`
	EstimatedDuration string   `json:"estimatedDuration"`
	TestCount         int      `json:"testCount"`
	BatchCount        int      `json:"batchCount"`
	Tests             []string `json:"tests"`
}

func BuildPlanReport(p *types.TestExecutionPlan) *PlanReport {
	report := &PlanReport{
		runEnvelope:       newRunEnvelope(),
		ConfidenceLevel:   string(p.ConfidenceLevel),
		EstimatedDuration: p.EstimatedDuration.String(),
		TestCount:         len(p.Tests),
		BatchCount:        len(p.Batches),
	}
	for _, t := range p.Tests {
		report.Tests = append(report.Tests, t.UniqueID)
	}
	return report
}

// CompareReport is the JSON shape for compareTests.
type CompareReport struct {
	runEnvelope
	Overall            float64              `json:"overall"`
	CoverageOverlap     float64              `json:"coverageOverlapPercent"`
	MetadataSimilarity  float64              `json:"metadataSimilarity"`
	Recommendations     []RecommendationJSON `json:"recommendations,omitempty"`
	Warnings            []string             `json:"warnings,omitempty"`
	AnalysisDuration    string               `json:"analysisDuration"`
}

type RecommendationJSON struct {
	Type            string  `json:"type"`
	Description     string  `json:"description"`
	ConfidenceScore float64 `json:"confidenceScore"`
	EstimatedEffort string  `json:"estimatedEffort"`
	Rationale       string  `json:"rationale"`
}

func buildRecommendationsJSON(recs []types.Recommendation) []RecommendationJSON {
	out := make([]RecommendationJSON, len(recs))
	for i, r := range recs {
		out[i] = RecommendationJSON{
			Type:            string(r.Type),
			Description:     r.Description,
			ConfidenceScore: r.ConfidenceScore,
			EstimatedEffort: string(r.EstimatedEffort),
			Rationale:       r.Rationale,
		}
	}
	return out
}

func BuildCompareReport(result types.ComparisonResult) *CompareReport {
	return &CompareReport{
		runEnvelope:        newRunEnvelope(),
		Overall:            result.Overall,
		CoverageOverlap:    result.CoverageOverlap.OverlapPercent,
		MetadataSimilarity: result.MetadataSimilarity,
		Recommendations:    buildRecommendationsJSON(result.Recommendations),
		Warnings:           result.Warnings,
		AnalysisDuration:   result.AnalysisDuration.String(),
	}
}

// ClusterReport is the JSON shape for analyzeClusters.
type ClusterReport struct {
	runEnvelope
	Clusters        []ClusterJSON        `json:"clusters"`
	Quality         types.ClusterQuality `json:"quality"`
	Recommendations []RecommendationJSON `json:"recommendations,omitempty"`
	Warnings        []string             `json:"warnings,omitempty"`
}

type ClusterJSON struct {
	ID              string   `json:"id"`
	Members         []string `json:"members"`
	IntraSimilarity float64  `json:"intraSimilarity"`
}

func BuildClusterReport(analysis types.ClusterAnalysis) *ClusterReport {
	report := &ClusterReport{
		runEnvelope:     newRunEnvelope(),
		Quality:         analysis.Quality,
		Recommendations: buildRecommendationsJSON(analysis.Recommendations),
		Warnings:        analysis.Warnings,
	}
	for _, c := range analysis.Clusters {
		report.Clusters = append(report.Clusters, ClusterJSON{
			ID:              c.ID,
			Members:         c.Members,
			IntraSimilarity: c.IntraSimilarity,
		})
	}
	return report
}

// ValidateReport is the JSON shape for validateTest.
type ValidateReport struct {
	runEnvelope
	Valid       bool     `json:"valid"`
	UniqueID    string   `json:"uniqueId,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
}

func BuildValidateReport(result types.ValidationResult) *ValidateReport {
	report := &ValidateReport{runEnvelope: newRunEnvelope(), Valid: result.Valid, Suggestions: result.Suggestions}
	if result.Metadata != nil {
		report.UniqueID = result.Metadata.UniqueID
	}
	return report
}

// RenderJSON writes any report to w with pretty-printed indentation.
func RenderJSON(w io.Writer, report any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
