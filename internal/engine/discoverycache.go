package engine

import (
	"bytes"
	"context"
	"encoding/gob"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/ingo-eichhorst/testselect/internal/cache"
	"github.com/ingo-eichhorst/testselect/internal/validate"
	"github.com/ingo-eichhorst/testselect/pkg/types"
)

// discoveryCacheTTL matches the byte-cache-backed discovery layer to the
// same freshness window as the validator's own in-memory discovery cache
// (spec §4.7's 5-minute TTL), so a cold validator still benefits from a
// warm on-disk cache within the same window.
const discoveryCacheTTL = 5 * time.Minute

// CachedDiscover wraps a DiscoveryFunc with the byte cache, keyed by
// solution path: the project-cache layer spec §4.8 describes sitting above
// the byte cache, specialized to one project identity (the solution path)
// per entry. A nil store disables caching and calls discover directly.
func CachedDiscover(store interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, deps map[string]types.FileDigest, ttl time.Duration, now time.Time) error
}, discover validate.DiscoveryFunc) validate.DiscoveryFunc {
	if store == nil {
		return discover
	}

	return func(ctx context.Context, solutionPath string) ([]*types.TestInfo, error) {
		key := "discovery:" + solutionPath
		if raw, ok := store.Get(key); ok {
			tests, err := decodeTests(raw)
			if err == nil {
				return tests, nil
			}
		}

		tests, err := discover(ctx, solutionPath)
		if err != nil {
			return nil, err
		}

		if raw, encErr := encodeTests(tests); encErr == nil {
			deps := sourceFileDigests(solutionPath)
			_ = store.Set(key, raw, deps, discoveryCacheTTL, time.Now())
		}
		return tests, nil
	}
}

// sourceFileDigests walks solutionPath for tracked Go source files and
// digests each one, giving Set the dependent-file map spec §4.8 requires:
// any one of these files changing invalidates the discovery entry on the
// next Get, whether that happens inside the TTL window or, via the cache
// header persisted to disk, on the first query after a process restart.
func sourceFileDigests(solutionPath string) map[string]types.FileDigest {
	deps := make(map[string]types.FileDigest)
	_ = filepath.WalkDir(solutionPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			switch d.Name() {
			case "vendor", "testdata", ".git", ".tsel-cache":
				return fs.SkipDir
			}
			if strings.HasPrefix(d.Name(), ".") && d.Name() != "." {
				return fs.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(d.Name(), ".go") {
			return nil
		}
		if digest, ok := cache.Digest(path); ok {
			deps[path] = digest
		}
		return nil
	})
	return deps
}

func encodeTests(tests []*types.TestInfo) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(tests); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodeTests(raw []byte) ([]*types.TestInfo, error) {
	var tests []*types.TestInfo
	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(&tests); err != nil {
		return nil, err
	}
	return tests, nil
}
