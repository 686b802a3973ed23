package output

import (
	"bytes"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/ingo-eichhorst/testselect/internal/scoring"
	"github.com/ingo-eichhorst/testselect/pkg/types"
)

func TestBuildScoreReportIncludesPerAlgorithmBreakdown(t *testing.T) {
	scored := []scoring.ScoredTest{{
		Test:    &types.TestInfo{UniqueID: "pkg::A.Test", Category: types.CategoryUnit},
		Score:   0.75,
		PerAlgo: map[string]float64{"impact": 0.8},
	}}

	report := BuildScoreReport(scored)
	if report.RunID == "" {
		t.Fatal("expected a non-empty run id")
	}
	if len(report.Tests) != 1 || report.Tests[0].Score != 0.75 {
		t.Fatalf("unexpected report: %+v", report)
	}

	var buf bytes.Buffer
	if err := RenderJSON(&buf, report); err != nil {
		t.Fatalf("RenderJSON: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("decoding rendered JSON: %v", err)
	}
}

func TestBuildCompareReportCarriesRecommendations(t *testing.T) {
	result := types.ComparisonResult{
		Overall: 0.95,
		Recommendations: []types.Recommendation{{
			Type: types.RecommendationDuplicateCoverage, ConfidenceScore: 0.95, EstimatedEffort: types.EffortLow,
		}},
		AnalysisDuration: 2 * time.Millisecond,
	}
	report := BuildCompareReport(result)
	if len(report.Recommendations) != 1 {
		t.Fatalf("expected 1 recommendation, got %d", len(report.Recommendations))
	}
}

func TestWriterRendersWithoutPanicking(t *testing.T) {
	w := NewWriter(os.Stdout)
	var buf bytes.Buffer

	w.RenderScore(&buf, []scoring.ScoredTest{{
		Test:  &types.TestInfo{UniqueID: "pkg::A.Test", Category: types.CategoryUnit},
		Score: 0.9,
	}})
	if buf.Len() == 0 {
		t.Fatal("expected score rendering to produce output")
	}

	buf.Reset()
	w.RenderValidate(&buf, types.ValidationResult{Valid: false, Suggestions: []string{"pkg::A.Tset"}})
	if buf.Len() == 0 {
		t.Fatal("expected validate rendering to produce output")
	}

	buf.Reset()
	w.RenderCacheStats(&buf, types.CacheStats{Hits: 10, TotalCompressedBytes: 2048})
	if buf.Len() == 0 {
		t.Fatal("expected cache stats rendering to produce output")
	}
}
