package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ingo-eichhorst/testselect/pkg/types"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	s, err := NewStore(dir, types.CompressionFastest, 0)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return s
}

func TestSetThenGetIdempotent(t *testing.T) {
	s := newTestStore(t)
	if err := s.Set("key1", []byte("hello world"), nil, 0, time.Now()); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, ok := s.Get("key1")
	if !ok {
		t.Fatal("expected hit after set")
	}
	if string(got) != "hello world" {
		t.Fatalf("got %q, want %q", got, "hello world")
	}
}

func TestGetMissingKey(t *testing.T) {
	s := newTestStore(t)
	if _, ok := s.Get("nope"); ok {
		t.Fatal("expected miss for unknown key")
	}
}

func TestInvalidationOnDependentFileChange(t *testing.T) {
	s := newTestStore(t)
	dir := t.TempDir()
	depPath := filepath.Join(dir, "dep.go")
	if err := os.WriteFile(depPath, []byte("package a"), 0o644); err != nil {
		t.Fatalf("writing dep file: %v", err)
	}

	digest, ok := liveDigest(depPath)
	if !ok {
		t.Fatal("expected to hash dep file")
	}
	deps := map[string]types.FileDigest{depPath: {Digest: digest, LastModifiedUnixMs: 1}}

	if err := s.Set("key1", []byte("value"), deps, 0, time.Now()); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, ok := s.Get("key1"); !ok {
		t.Fatal("expected hit before dependency changes")
	}

	if err := os.WriteFile(depPath, []byte("package a // changed"), 0o644); err != nil {
		t.Fatalf("rewriting dep file: %v", err)
	}

	if _, ok := s.Get("key1"); ok {
		t.Fatal("expected miss after dependent file digest changed")
	}
}

func TestCorruptPayloadTreatedAsMiss(t *testing.T) {
	s := newTestStore(t)
	if err := s.Set("key1", []byte("value"), nil, 0, time.Now()); err != nil {
		t.Fatalf("Set: %v", err)
	}

	if err := os.WriteFile(s.path("key1"), []byte("not a valid cache entry"), 0o644); err != nil {
		t.Fatalf("corrupting entry: %v", err)
	}

	if _, ok := s.Get("key1"); ok {
		t.Fatal("expected miss for corrupted entry")
	}
	if _, err := os.Stat(s.path("key1")); !os.IsNotExist(err) {
		t.Fatal("expected corrupted file to be removed")
	}
}

func TestGetOrSetFactoryRunsOnce(t *testing.T) {
	s := newTestStore(t)
	calls := 0
	factory := func() ([]byte, error) {
		calls++
		return []byte("computed"), nil
	}

	v1, err := s.GetOrSet("key1", nil, 0, factory)
	if err != nil {
		t.Fatalf("GetOrSet: %v", err)
	}
	v2, err := s.GetOrSet("key1", nil, 0, factory)
	if err != nil {
		t.Fatalf("GetOrSet: %v", err)
	}
	if string(v1) != "computed" || string(v2) != "computed" {
		t.Fatalf("unexpected values: %q %q", v1, v2)
	}
	if calls != 1 {
		t.Fatalf("factory called %d times, want 1", calls)
	}
}

func TestPerformMaintenanceEvictsOldestByCreatedAt(t *testing.T) {
	s := newTestStore(t)
	base := time.Now()

	if err := s.Set("old", make([]byte, 100), nil, 0, base); err != nil {
		t.Fatalf("Set old: %v", err)
	}
	if err := s.Set("new", make([]byte, 100), nil, 0, base.Add(time.Second)); err != nil {
		t.Fatalf("Set new: %v", err)
	}

	s.maxCacheSizeBytes = 1

	s.PerformMaintenance(base.Add(2 * time.Second))

	if _, err := os.Stat(s.path("old")); !os.IsNotExist(err) {
		t.Fatal("expected oldest entry to be evicted first")
	}
}
