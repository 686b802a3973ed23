package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ingo-eichhorst/testselect/internal/cache"
	"github.com/ingo-eichhorst/testselect/internal/config"
	"github.com/ingo-eichhorst/testselect/internal/engine"
	"github.com/ingo-eichhorst/testselect/internal/testdiscovery"
	"github.com/ingo-eichhorst/testselect/internal/validate"
	"github.com/ingo-eichhorst/testselect/pkg/types"
)

const (
	defaultCacheDirName   = ".tsel-cache"
	defaultMaxCacheBytes  = 256 << 20 // 256MiB
	defaultDiscoveryCache = 16
	defaultMaxSuggestions = 5
)

// validateProject checks that dir exists, is a directory, and contains a
// Go module (the only language this tool's reference discovery provider
// understands).
func validateProject(dir string) error {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return fmt.Errorf("directory not found: %s", dir)
	}
	if err != nil {
		return fmt.Errorf("cannot access directory: %s", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("not a directory: %s", dir)
	}
	if _, err := os.Stat(filepath.Join(dir, "go.mod")); err != nil {
		return fmt.Errorf("no go.mod found in: %s", dir)
	}
	return nil
}

// loadProjectConfig loads the project's .tselrc.yml, returning nil (not an
// error) when absent.
func loadProjectConfig(dir string) (*config.ProjectConfig, error) {
	cfg, err := config.LoadProjectConfig(dir, configPath)
	if err != nil {
		return nil, fmt.Errorf("load project config: %w", err)
	}
	return cfg, nil
}

// newSession builds an engine.Session wired to dir's project config, a
// go/packages-based Go discovery provider, and an on-disk byte cache rooted
// under dir.
func newSession(dir string, cfg *config.ProjectConfig) (*engine.Session, error) {
	cacheDir := cfg.CacheDirectory(filepath.Join(dir, defaultCacheDirName))
	mode := cfg.CacheMode(types.CompressionFastest)
	maxBytes := cfg.CacheMaxSizeBytes(defaultMaxCacheBytes)

	store, err := cache.NewStore(cacheDir, mode, maxBytes)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	verboseLogf("cache opened at %s (mode=%s, max=%d bytes)", cacheDir, mode, maxBytes)

	discoverer := testdiscovery.NewDiscoverer()
	discover := validate.DiscoveryFunc(func(ctx context.Context, solutionPath string) ([]*types.TestInfo, error) {
		return discoverer.Discover(solutionPath)
	})

	return engine.NewSession(engine.Config{
		Cache:              store,
		Discover:           discover,
		Algorithms:         cfg.Algorithms(),
		DiscoveryCacheSize: defaultDiscoveryCache,
		MaxSuggestions:     defaultMaxSuggestions,
	}), nil
}

// applyConfidenceOverrides layers project-config confidence overrides under
// any CLI-flag value already set on opts: CLI flags win, then .tselrc.yml,
// then the compiled-in default (types.DefaultsFor).
func applyConfidenceOverrides(cfg *config.ProjectConfig, level types.ConfidenceLevel, opts types.TestSelectionOptions) types.TestSelectionOptions {
	compiled := types.DefaultsFor(level)
	effective := cfg.ConfidenceDefaultsFor(level)

	if opts.MaxTestCount == 0 && effective.MaxTestCount != compiled.MaxTestCount {
		opts.MaxTestCount = effective.MaxTestCount
	}
	if opts.MaxExecutionTime == 0 && effective.MaxDuration != compiled.MaxDuration {
		opts.MaxExecutionTime = effective.MaxDuration
	}
	if opts.MinSelectionScore == 0 && effective.MinScore != compiled.MinScore {
		opts.MinSelectionScore = effective.MinScore
	}
	return opts
}

// discoverCandidates runs discovery directly (bypassing the validator's
// cache, which is keyed for single-id lookups) to obtain the full candidate
// list a score/plan/cluster command scores against.
func discoverCandidates(dir string) ([]*types.TestInfo, error) {
	tests, err := testdiscovery.NewDiscoverer().Discover(dir)
	if err != nil {
		return nil, fmt.Errorf("discovering tests: %w", err)
	}
	if len(tests) == 0 {
		return nil, fmt.Errorf("no tests discovered under: %s", dir)
	}
	verboseLogf("discovered %d candidate tests under %s", len(tests), dir)
	return tests, nil
}

// verboseLogf writes a diagnostic line to stderr when --verbose is set.
func verboseLogf(format string, args ...any) {
	if !verbose {
		return
	}
	fmt.Fprintf(os.Stderr, format+"\n", args...)
}
