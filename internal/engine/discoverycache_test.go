package engine

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ingo-eichhorst/testselect/internal/cache"
	"github.com/ingo-eichhorst/testselect/pkg/types"
)

func newTestCacheStore(t *testing.T) *cache.Store {
	t.Helper()
	s, err := cache.NewStore(t.TempDir(), types.CompressionFastest, 0)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return s
}

func TestCachedDiscoverServesWarmEntry(t *testing.T) {
	solutionDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(solutionDir, "a_test.go"), []byte("package a"), 0o644); err != nil {
		t.Fatalf("writing source file: %v", err)
	}

	calls := 0
	discover := func(ctx context.Context, solutionPath string) ([]*types.TestInfo, error) {
		calls++
		return []*types.TestInfo{{UniqueID: "pkg::A.TestOne"}}, nil
	}

	cached := CachedDiscover(newTestCacheStore(t), discover)

	first, err := cached(context.Background(), solutionDir)
	if err != nil {
		t.Fatalf("first call: %v", err)
	}
	second, err := cached(context.Background(), solutionDir)
	if err != nil {
		t.Fatalf("second call: %v", err)
	}

	if calls != 1 {
		t.Fatalf("expected discover to run once, ran %d times", calls)
	}
	if len(first) != 1 || len(second) != 1 || first[0].UniqueID != second[0].UniqueID {
		t.Fatalf("expected identical cached results, got %+v and %+v", first, second)
	}
}

func TestCachedDiscoverInvalidatesOnSourceChange(t *testing.T) {
	solutionDir := t.TempDir()
	srcPath := filepath.Join(solutionDir, "a_test.go")
	if err := os.WriteFile(srcPath, []byte("package a"), 0o644); err != nil {
		t.Fatalf("writing source file: %v", err)
	}

	calls := 0
	discover := func(ctx context.Context, solutionPath string) ([]*types.TestInfo, error) {
		calls++
		return []*types.TestInfo{{UniqueID: "pkg::A.TestOne"}}, nil
	}

	cached := CachedDiscover(newTestCacheStore(t), discover)

	if _, err := cached(context.Background(), solutionDir); err != nil {
		t.Fatalf("first call: %v", err)
	}

	if err := os.WriteFile(srcPath, []byte("package a\n// changed"), 0o644); err != nil {
		t.Fatalf("rewriting source file: %v", err)
	}
	if err := os.Chtimes(srcPath, time.Now(), time.Now()); err != nil {
		t.Fatalf("touching source file: %v", err)
	}

	if _, err := cached(context.Background(), solutionDir); err != nil {
		t.Fatalf("second call: %v", err)
	}

	if calls != 2 {
		t.Fatalf("expected discover to re-run after a source file changed, ran %d times", calls)
	}
}

func TestSourceFileDigestsSkipsNonGoAndVendor(t *testing.T) {
	dir := t.TempDir()
	mustWrite := func(rel, content string) {
		path := filepath.Join(dir, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	mustWrite("main.go", "package main")
	mustWrite("README.md", "not go")
	mustWrite("vendor/dep/dep.go", "package dep")

	deps := sourceFileDigests(dir)

	if _, ok := deps[filepath.Join(dir, "main.go")]; !ok {
		t.Error("expected main.go to be tracked")
	}
	if _, ok := deps[filepath.Join(dir, "README.md")]; ok {
		t.Error("expected README.md to be skipped")
	}
	if _, ok := deps[filepath.Join(dir, "vendor/dep/dep.go")]; ok {
		t.Error("expected vendor/ to be skipped")
	}
}
