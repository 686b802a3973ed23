package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ingo-eichhorst/testselect/pkg/types"
)

func TestLoadProjectConfigValidYml(t *testing.T) {
	tmpDir := t.TempDir()

	content := `version: 1
confidence:
  Fast:
    maxTestCount: 75
    maxDuration: 45s
    minScore: 0.65
scoring:
  weights:
    impact: 0.5
    executionTime: 0.3
    historical: 0.2
clustering:
  linkage: complete
  similarityThreshold: 0.55
cache:
  mode: smallest
  maxSizeBytes: 104857600
`
	if err := os.WriteFile(filepath.Join(tmpDir, ".tselrc.yml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadProjectConfig(tmpDir, "")
	if err != nil {
		t.Fatalf("LoadProjectConfig() error: %v", err)
	}
	if cfg == nil {
		t.Fatal("expected non-nil config")
	}

	defaults := cfg.ConfidenceDefaultsFor(types.ConfidenceFast)
	if defaults.MaxTestCount != 75 {
		t.Errorf("MaxTestCount = %d, want 75", defaults.MaxTestCount)
	}
	if defaults.MaxDuration != 45*time.Second {
		t.Errorf("MaxDuration = %v, want 45s", defaults.MaxDuration)
	}
	if defaults.MinScore != 0.65 {
		t.Errorf("MinScore = %v, want 0.65", defaults.MinScore)
	}

	// Medium was never overridden, so it should keep the compiled-in default.
	mediumDefaults := cfg.ConfidenceDefaultsFor(types.ConfidenceMedium)
	if mediumDefaults != types.DefaultsFor(types.ConfidenceMedium) {
		t.Errorf("expected Medium defaults untouched, got %+v", mediumDefaults)
	}
}

func TestLoadProjectConfigMissingFile(t *testing.T) {
	tmpDir := t.TempDir()

	cfg, err := LoadProjectConfig(tmpDir, "")
	if err != nil {
		t.Fatalf("LoadProjectConfig() error: %v", err)
	}
	if cfg != nil {
		t.Errorf("expected nil config for missing file, got %+v", cfg)
	}
}

func TestLoadProjectConfigInvalidWeight(t *testing.T) {
	tmpDir := t.TempDir()

	content := `version: 1
scoring:
  weights:
    impact: -0.5
`
	if err := os.WriteFile(filepath.Join(tmpDir, ".tselrc.yml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadProjectConfig(tmpDir, ""); err == nil {
		t.Fatal("expected error for negative weight")
	}
}

func TestLoadProjectConfigInvalidVersion(t *testing.T) {
	tmpDir := t.TempDir()

	if err := os.WriteFile(filepath.Join(tmpDir, ".tselrc.yml"), []byte("version: 99\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadProjectConfig(tmpDir, ""); err == nil {
		t.Fatal("expected error for unsupported version")
	}
}

func TestLoadProjectConfigInvalidLinkage(t *testing.T) {
	tmpDir := t.TempDir()

	content := `version: 1
clustering:
  linkage: nonsense
`
	if err := os.WriteFile(filepath.Join(tmpDir, ".tselrc.yml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadProjectConfig(tmpDir, ""); err == nil {
		t.Fatal("expected error for unrecognized linkage rule")
	}
}

func TestLoadProjectConfigExplicitPath(t *testing.T) {
	tmpDir := t.TempDir()

	content := `version: 1
cache:
  directory: /tmp/custom-cache
`
	customPath := filepath.Join(tmpDir, "custom-config.yml")
	if err := os.WriteFile(customPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadProjectConfig(tmpDir, customPath)
	if err != nil {
		t.Fatalf("LoadProjectConfig() error: %v", err)
	}
	if got := cfg.CacheDirectory("fallback"); got != "/tmp/custom-cache" {
		t.Errorf("CacheDirectory = %q, want /tmp/custom-cache", got)
	}
}

func TestProjectConfigAlgorithmsAppliesWeightOverride(t *testing.T) {
	cfg := &ProjectConfig{
		Version: 1,
		Scoring: scoringOverrides{
			Weights: map[string]float64{"impact": 0.9},
		},
	}

	algos := cfg.Algorithms()
	found := false
	for _, a := range algos {
		if a.Name() == "impact" {
			found = true
			if a.Weight() != 0.9 {
				t.Errorf("impact weight = %v, want 0.9", a.Weight())
			}
		}
	}
	if !found {
		t.Fatal("expected an impact algorithm in the returned set")
	}
}

func TestProjectConfigAlgorithmsNilConfigReturnsDefaults(t *testing.T) {
	var cfg *ProjectConfig
	if len(cfg.Algorithms()) == 0 {
		t.Fatal("expected nil config to still return the default algorithm set")
	}
}

func TestProjectConfigClusterOptionsOverridesOnlySetFields(t *testing.T) {
	cfg := &ProjectConfig{
		Clustering: clusteringOverrides{Linkage: "complete"},
	}
	base := ClusterOptions{Linkage: types.LinkageSingle, SimilarityThreshold: 0.5, MinClusterSize: 2}

	out := cfg.ClusterOptions(base)
	if out.Linkage != types.LinkageComplete {
		t.Errorf("Linkage = %v, want complete", out.Linkage)
	}
	if out.SimilarityThreshold != 0.5 {
		t.Errorf("SimilarityThreshold should be untouched, got %v", out.SimilarityThreshold)
	}
}

func TestYamlExtensionFallback(t *testing.T) {
	tmpDir := t.TempDir()

	content := `version: 1
cache:
  mode: fastest
`
	if err := os.WriteFile(filepath.Join(tmpDir, ".tselrc.yaml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadProjectConfig(tmpDir, "")
	if err != nil {
		t.Fatalf("LoadProjectConfig() error: %v", err)
	}
	if cfg == nil {
		t.Fatal("expected non-nil config for .tselrc.yaml")
	}
	if got := cfg.CacheMode(types.CompressionSmallestSize); got != types.CompressionFastest {
		t.Errorf("CacheMode = %v, want fastest", got)
	}
}
