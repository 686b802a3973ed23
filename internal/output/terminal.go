package output

import (
	"fmt"
	"io"
	"sort"

	"github.com/dustin/go-humanize"

	"github.com/ingo-eichhorst/testselect/internal/scoring"
	"github.com/ingo-eichhorst/testselect/pkg/types"
)

// RenderScore writes a ranked score listing to w.
func (w *Writer) RenderScore(out io.Writer, scored []scoring.ScoredTest) {
	w.Bold.Fprintf(out, "Scored %d tests\n", len(scored))
	fmt.Fprintln(out, "────────────────────────────────────────")
	for _, s := range scored {
		c := w.colorForScore(s.Score)
		c.Fprintf(out, "  %-6.3f", s.Score)
		fmt.Fprintf(out, " %-10s %s\n", s.Test.Category, s.Test.UniqueID)
	}
}

// RenderPlan writes a createPlan result to w.
func (w *Writer) RenderPlan(out io.Writer, p *types.TestExecutionPlan) {
	w.Bold.Fprintf(out, "Execution plan (%s confidence)\n", p.ConfidenceLevel)
	fmt.Fprintln(out, "────────────────────────────────────────")
	fmt.Fprintf(out, "  Tests selected:     %d\n", len(p.Tests))
	fmt.Fprintf(out, "  Batches:            %d\n", len(p.Batches))
	fmt.Fprintf(out, "  Estimated duration: %s\n", p.EstimatedDuration)
	for i, b := range p.Batches {
		fmt.Fprintf(out, "  Batch %d: %d tests\n", i+1, len(b.Tests))
	}
}

// RenderCompare writes a compareTests result to w.
func (w *Writer) RenderCompare(out io.Writer, result types.ComparisonResult) {
	w.Bold.Fprintln(out, "Comparison")
	fmt.Fprintln(out, "────────────────────────────────────────")
	c := w.colorForScore(result.Overall)
	c.Fprintf(out, "  Overall similarity:    %.2f\n", result.Overall)
	fmt.Fprintf(out, "  Coverage overlap:      %.1f%%\n", result.CoverageOverlap.OverlapPercent)
	fmt.Fprintf(out, "  Metadata similarity:   %.2f\n", result.MetadataSimilarity)
	fmt.Fprintf(out, "  Analysis duration:     %s\n", result.AnalysisDuration)
	renderRecommendations(out, w, result.Recommendations)
	renderWarnings(out, w, result.Warnings)
}

// RenderClusters writes an analyzeClusters result to w.
func (w *Writer) RenderClusters(out io.Writer, analysis types.ClusterAnalysis) {
	w.Bold.Fprintf(out, "Clusters (%d found)\n", len(analysis.Clusters))
	fmt.Fprintln(out, "────────────────────────────────────────")
	for _, c := range analysis.Clusters {
		color := w.colorForScore(c.IntraSimilarity)
		color.Fprintf(out, "  %s", c.ID)
		fmt.Fprintf(out, " — %d members, intra-similarity %.2f\n", len(c.Members), c.IntraSimilarity)
	}
	fmt.Fprintf(out, "  Clustering rate: %.1f%%   Mean silhouette: %.2f\n",
		analysis.Quality.ClusteringRate*100, analysis.Quality.MeanSilhouette)
	renderRecommendations(out, w, analysis.Recommendations)
	renderWarnings(out, w, analysis.Warnings)
}

// RenderValidate writes a validateTest result to w.
func (w *Writer) RenderValidate(out io.Writer, result types.ValidationResult) {
	if result.Valid {
		w.Green.Fprintf(out, "valid: %s\n", result.Metadata.UniqueID)
		return
	}
	w.Red.Fprintln(out, "not found")
	if len(result.Suggestions) > 0 {
		fmt.Fprintln(out, "  did you mean:")
		for _, s := range result.Suggestions {
			fmt.Fprintf(out, "    %s\n", s)
		}
	}
}

// RenderCacheStats writes cache.Stats-derived figures to w, using humanize
// for human-readable byte counts.
func (w *Writer) RenderCacheStats(out io.Writer, stats types.CacheStats) {
	w.Bold.Fprintln(out, "Cache statistics")
	fmt.Fprintln(out, "────────────────────────────────────────")
	fmt.Fprintf(out, "  Hits:              %s\n", humanize.Comma(stats.Hits))
	fmt.Fprintf(out, "  Misses:            %s\n", humanize.Comma(stats.Misses))
	fmt.Fprintf(out, "  Evictions:         %s\n", humanize.Comma(stats.Evictions))
	fmt.Fprintf(out, "  Corrupt removals:  %s\n", humanize.Comma(stats.CorruptRemovals))
	fmt.Fprintf(out, "  Invalidations:     %s\n", humanize.Comma(stats.Invalidations))
	fmt.Fprintf(out, "  Compressed bytes:  %s\n", humanize.Bytes(uint64(stats.TotalCompressedBytes)))
}

func renderRecommendations(out io.Writer, w *Writer, recs []types.Recommendation) {
	if len(recs) == 0 {
		return
	}
	sorted := make([]types.Recommendation, len(recs))
	copy(sorted, recs)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].ConfidenceScore > sorted[j].ConfidenceScore })

	fmt.Fprintln(out, "  recommendations:")
	for _, r := range sorted {
		w.Yellow.Fprintf(out, "    [%s] ", r.Type)
		fmt.Fprintf(out, "%s (effort: %s, confidence: %.2f)\n", r.Description, r.EstimatedEffort, r.ConfidenceScore)
	}
}

func renderWarnings(out io.Writer, w *Writer, warnings []string) {
	for _, msg := range warnings {
		w.Yellow.Fprintf(out, "  warning: %s\n", msg)
	}
}
