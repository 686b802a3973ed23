package cmd

import (
	"testing"

	"github.com/ingo-eichhorst/testselect/internal/config"
	"github.com/ingo-eichhorst/testselect/pkg/types"
)

func TestValidateProjectRequiresGoMod(t *testing.T) {
	dir := t.TempDir()
	if err := validateProject(dir); err == nil {
		t.Error("expected error for directory without go.mod")
	}
}

func TestApplyConfidenceOverridesCLIWinsOverConfig(t *testing.T) {
	cfg := &config.ProjectConfig{}
	opts := types.TestSelectionOptions{MaxTestCount: 42}

	resolved := applyConfidenceOverrides(cfg, types.ConfidenceMedium, opts)
	if resolved.MaxTestCount != 42 {
		t.Errorf("expected CLI-set MaxTestCount to survive, got %d", resolved.MaxTestCount)
	}
}

func TestApplyConfidenceOverridesNilConfigLeavesOptsUntouched(t *testing.T) {
	opts := types.TestSelectionOptions{}
	resolved := applyConfidenceOverrides(nil, types.ConfidenceFast, opts)
	if resolved.MaxTestCount != 0 || resolved.MaxExecutionTime != 0 || resolved.MinSelectionScore != 0 {
		t.Errorf("expected zero-value opts with nil config, got %+v", resolved)
	}
}

func TestApplyConfidenceOverridesUnsetOptsFallBackToConfig(t *testing.T) {
	cfg := &config.ProjectConfig{}
	// No Confidence overrides set: effective equals compiled defaults, so
	// opts should remain at their zero value (meaning "use the compiled
	// default", resolved downstream by plan.Build).
	opts := types.TestSelectionOptions{}
	resolved := applyConfidenceOverrides(cfg, types.ConfidenceMedium, opts)
	if resolved.MaxTestCount != 0 {
		t.Errorf("expected no override without config entries, got %d", resolved.MaxTestCount)
	}
}
