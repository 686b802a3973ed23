package cmd

import (
	"os"
	"testing"

	"github.com/ingo-eichhorst/testselect/pkg/types"
)

func TestScoreCommandFlags(t *testing.T) {
	if f := scoreCmd.Flags().Lookup("confidence"); f == nil {
		t.Fatal("score command missing --confidence flag")
	} else if f.DefValue != "Medium" {
		t.Errorf("expected default confidence 'Medium', got %q", f.DefValue)
	}
}

func TestPlanCommandFlags(t *testing.T) {
	names := []string{
		"confidence", "max-tests", "max-duration", "min-score",
		"category", "exclude-category", "tag", "exclude-tag",
		"include-flaky", "parallelism",
	}
	for _, name := range names {
		if f := planCmd.Flags().Lookup(name); f == nil {
			t.Errorf("plan command missing --%s flag", name)
		}
	}
}

func TestCompareCommandRequiresTwoTestIDs(t *testing.T) {
	if compareCmd.Args == nil {
		t.Fatal("compare command should validate argument count")
	}
	if err := compareCmd.Args(compareCmd, []string{"testA", "dir"}); err == nil {
		t.Error("expected error for compare with fewer than 3 positional args")
	}
	if err := compareCmd.Args(compareCmd, []string{"testA", "testB", "dir"}); err != nil {
		t.Errorf("expected no error for exactly 3 positional args, got %v", err)
	}
}

func TestFindTestByIDMatchesUniqueID(t *testing.T) {
	candidates := []*types.TestInfo{
		{UniqueID: "pkg::TypeA.TestOne"},
		{UniqueID: "pkg::TypeB.TestTwo"},
	}

	found, err := findTestByID(candidates, "pkg::TypeB.TestTwo")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found.UniqueID != "pkg::TypeB.TestTwo" {
		t.Errorf("expected to find TypeB.TestTwo, got %q", found.UniqueID)
	}

	if _, err := findTestByID(candidates, "pkg::Missing.Test"); err == nil {
		t.Error("expected error for unknown test ID")
	}
}

func TestClusterCommandFlags(t *testing.T) {
	for _, name := range []string{"linkage", "similarity-threshold", "max-clusters", "min-cluster-size", "min-intra-similarity", "all"} {
		if f := clusterCmd.Flags().Lookup(name); f == nil {
			t.Errorf("cluster command missing --%s flag", name)
		}
	}
}

func TestValidateCommandRequiresAtLeastOneTestID(t *testing.T) {
	if err := validateCmd.Args(validateCmd, []string{"dir"}); err == nil {
		t.Error("expected error for validate with no test IDs")
	}
	if err := validateCmd.Args(validateCmd, []string{"testA", "dir"}); err != nil {
		t.Errorf("expected no error for one test ID, got %v", err)
	}
}

func TestLoadCoverageMapNoFlagsReturnsNil(t *testing.T) {
	cm, err := loadCoverageMap("", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cm != nil {
		t.Error("expected nil coverage map when neither flag is set")
	}
}

func TestLoadCoverageMapRequiresBothFlags(t *testing.T) {
	if _, err := loadCoverageMap("profile.out", ""); err == nil {
		t.Error("expected error when sidecar is missing")
	}
	if _, err := loadCoverageMap("", "sidecar.json"); err == nil {
		t.Error("expected error when profile is missing")
	}
}

func TestLoadCoverageMapBuildsFromProfileAndSidecar(t *testing.T) {
	dir := t.TempDir()
	profilePath := dir + "/profile.out"
	sidecarPath := dir + "/sidecar.json"

	if err := os.WriteFile(profilePath, []byte("mode: set\npkg/foo.go:1.1,2.2 1 1\n"), 0o644); err != nil {
		t.Fatalf("writing profile: %v", err)
	}
	sidecar := `[{"productionMethodId":"pkg/foo.go#Foo.Bar","testMethodId":"pkg::Foo.TestBar","callPath":["Bar"],"callDepth":1,"confidence":0.9}]`
	if err := os.WriteFile(sidecarPath, []byte(sidecar), 0o644); err != nil {
		t.Fatalf("writing sidecar: %v", err)
	}

	cm, err := loadCoverageMap(profilePath, sidecarPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cm == nil {
		t.Fatal("expected a non-nil coverage map")
	}
}

func TestCacheStatsIsRegisteredUnderCache(t *testing.T) {
	found := false
	for _, c := range cacheCmd.Commands() {
		if c.Name() == "stats" {
			found = true
		}
	}
	if !found {
		t.Error("cache command should have a 'stats' subcommand")
	}
}
