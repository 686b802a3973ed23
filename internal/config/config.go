// Package config handles .tselrc.yml project-level configuration: overrides
// layered onto the compiled-in confidence-level, clustering, and cache
// defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ingo-eichhorst/testselect/internal/scorealgo"
	"github.com/ingo-eichhorst/testselect/pkg/types"
)

// ProjectConfig represents the .tselrc.yml configuration file.
type ProjectConfig struct {
	Version     int                                      `yaml:"version"`
	Confidence  map[string]confidenceOverride             `yaml:"confidence"`
	Scoring     scoringOverrides                          `yaml:"scoring"`
	Clustering  clusteringOverrides                        `yaml:"clustering"`
	Cache       cacheOverrides                             `yaml:"cache"`
}

// confidenceOverride overrides one named confidence level's policy. Zero
// fields fall back to the compiled-in default for that level.
type confidenceOverride struct {
	MaxTestCount int     `yaml:"maxTestCount"`
	MaxDuration  string  `yaml:"maxDuration"`
	MinScore     float64 `yaml:"minScore"`
}

// scoringOverrides rebalances the impact/executionTime/historical algorithm
// weights used by the scoring service.
type scoringOverrides struct {
	Weights map[string]float64 `yaml:"weights"`
}

// clusteringOverrides adjusts the defaults analyzeClusters falls back to
// when a caller doesn't specify explicit cluster options.
type clusteringOverrides struct {
	Linkage                    string  `yaml:"linkage"`
	SimilarityThreshold        float64 `yaml:"similarityThreshold"`
	MinClusterSize             int     `yaml:"minClusterSize"`
	MinIntraClusterSimilarity  float64 `yaml:"minIntraClusterSimilarity"`
}

// cacheOverrides adjusts where and how the byte cache stores entries.
type cacheOverrides struct {
	Directory         string `yaml:"directory"`
	Mode              string `yaml:"mode"`
	MaxSizeBytes      int64  `yaml:"maxSizeBytes"`
}

// LoadProjectConfig loads project configuration from .tselrc.yml or
// .tselrc.yaml. If explicitPath is provided (from --config flag), that file
// is loaded. Otherwise, looks for .tselrc.yml then .tselrc.yaml in dir.
// Returns nil (no error) if no config file is found.
func LoadProjectConfig(dir string, explicitPath string) (*ProjectConfig, error) {
	var configPath string

	if explicitPath != "" {
		configPath = explicitPath
	} else {
		ymlPath := filepath.Join(dir, ".tselrc.yml")
		yamlPath := filepath.Join(dir, ".tselrc.yaml")

		if _, err := os.Stat(ymlPath); err == nil {
			configPath = ymlPath
		} else if _, err := os.Stat(yamlPath); err == nil {
			configPath = yamlPath
		} else {
			return nil, nil // No config found, use compiled-in defaults
		}
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("read project config %s: %w", configPath, err)
	}

	cfg := &ProjectConfig{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse project config %s: %w", configPath, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid project config %s: %w", configPath, err)
	}

	return cfg, nil
}

// Validate checks that the ProjectConfig values are valid.
func (c *ProjectConfig) Validate() error {
	if c.Version != 0 && c.Version != 1 {
		return fmt.Errorf("unsupported config version %d (expected 1)", c.Version)
	}

	for level, ov := range c.Confidence {
		if ov.MaxTestCount < 0 {
			return fmt.Errorf("confidence.%s.maxTestCount must be >= 0", level)
		}
		if ov.MinScore < 0 || ov.MinScore > 1 {
			return fmt.Errorf("confidence.%s.minScore must be in [0,1]", level)
		}
		if ov.MaxDuration != "" {
			if _, err := time.ParseDuration(ov.MaxDuration); err != nil {
				return fmt.Errorf("confidence.%s.maxDuration: %w", level, err)
			}
		}
	}

	for name, weight := range c.Scoring.Weights {
		if weight < 0 {
			return fmt.Errorf("scoring.weights.%s must be >= 0, got %f", name, weight)
		}
	}

	switch c.Clustering.Linkage {
	case "", string(types.LinkageSingle), string(types.LinkageComplete), string(types.LinkageAverage), string(types.LinkageWard):
	default:
		return fmt.Errorf("clustering.linkage %q is not a recognized linkage rule", c.Clustering.Linkage)
	}

	switch c.Cache.Mode {
	case "", string(types.CompressionFastest), string(types.CompressionSmallestSize):
	default:
		return fmt.Errorf("cache.mode %q is not a recognized compression mode", c.Cache.Mode)
	}

	if c.Cache.MaxSizeBytes < 0 {
		return fmt.Errorf("cache.maxSizeBytes must be >= 0")
	}

	return nil
}

// ConfidenceDefaultsFor returns the effective ConfidenceDefaults for level,
// starting from the compiled-in default and applying any override.
func (c *ProjectConfig) ConfidenceDefaultsFor(level types.ConfidenceLevel) types.ConfidenceDefaults {
	base := types.DefaultsFor(level)
	if c == nil {
		return base
	}
	ov, ok := c.Confidence[string(level)]
	if !ok {
		return base
	}
	if ov.MaxTestCount != 0 {
		base.MaxTestCount = ov.MaxTestCount
	}
	if ov.MaxDuration != "" {
		if d, err := time.ParseDuration(ov.MaxDuration); err == nil {
			base.MaxDuration = d
		}
	}
	if ov.MinScore != 0 {
		base.MinScore = ov.MinScore
	}
	return base
}

// weightedAlgorithm wraps a scorealgo.Algorithm, overriding only its weight
// so the underlying scoring logic is reused unchanged.
type weightedAlgorithm struct {
	scorealgo.Algorithm
	weight float64
}

func (w weightedAlgorithm) Weight() float64 { return w.weight }

// Algorithms returns the scoring algorithm set with any configured weight
// overrides applied, falling back to scorealgo.DefaultAlgorithms() weights
// where the project config is silent.
func (c *ProjectConfig) Algorithms() []scorealgo.Algorithm {
	base := scorealgo.DefaultAlgorithms()
	if c == nil || len(c.Scoring.Weights) == 0 {
		return base
	}

	out := make([]scorealgo.Algorithm, len(base))
	for i, a := range base {
		if w, ok := c.Scoring.Weights[a.Name()]; ok {
			out[i] = weightedAlgorithm{Algorithm: a, weight: w}
		} else {
			out[i] = a
		}
	}
	return out
}

// ClusterOptions returns the effective cluster.Options, applying any
// configured override onto the given base (typically the caller-supplied
// request options, already defaulted).
func (c *ProjectConfig) ClusterOptions(base ClusterOptions) ClusterOptions {
	if c == nil {
		return base
	}
	if c.Clustering.Linkage != "" {
		base.Linkage = types.LinkageRule(c.Clustering.Linkage)
	}
	if c.Clustering.SimilarityThreshold != 0 {
		base.SimilarityThreshold = c.Clustering.SimilarityThreshold
	}
	if c.Clustering.MinClusterSize != 0 {
		base.MinClusterSize = c.Clustering.MinClusterSize
	}
	if c.Clustering.MinIntraClusterSimilarity != 0 {
		base.MinIntraClusterSimilarity = c.Clustering.MinIntraClusterSimilarity
	}
	return base
}

// ClusterOptions mirrors cluster.Options' fields without importing the
// cluster package, avoiding an import cycle (cluster does not need to know
// about project configuration).
type ClusterOptions struct {
	Linkage                   types.LinkageRule
	SimilarityThreshold       float64
	MaxClusters               int
	MinClusterSize            int
	MinIntraClusterSimilarity float64
}

// CacheDirectory returns the configured cache directory, or fallback when
// unset.
func (c *ProjectConfig) CacheDirectory(fallback string) string {
	if c == nil || c.Cache.Directory == "" {
		return fallback
	}
	return c.Cache.Directory
}

// CacheMode returns the configured compression mode, or fallback when
// unset.
func (c *ProjectConfig) CacheMode(fallback types.CompressionMode) types.CompressionMode {
	if c == nil || c.Cache.Mode == "" {
		return fallback
	}
	return types.CompressionMode(c.Cache.Mode)
}

// CacheMaxSizeBytes returns the configured cache size ceiling, or fallback
// when unset.
func (c *ProjectConfig) CacheMaxSizeBytes(fallback int64) int64 {
	if c == nil || c.Cache.MaxSizeBytes == 0 {
		return fallback
	}
	return c.Cache.MaxSizeBytes
}
