package cache

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"
	"golang.org/x/sync/singleflight"

	"github.com/ingo-eichhorst/testselect/pkg/types"
)

// Store is the process-wide, content-addressed byte cache described by spec
// §4.8. Callers serialize/deserialize their own values; Store deals only in
// raw bytes plus the dependent-file digests needed for invalidation.
type Store struct {
	dir               string
	mode              types.CompressionMode
	maxCacheSizeBytes int64

	mu    sync.Mutex
	stats types.CacheStats

	group singleflight.Group
}

// NewStore opens (creating if necessary) a byte cache rooted at dir.
func NewStore(dir string, mode types.CompressionMode, maxCacheSizeBytes int64) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, types.NewError(types.ErrDependencyUnavailable, "creating cache directory", err)
	}
	return &Store{dir: dir, mode: mode, maxCacheSizeBytes: maxCacheSizeBytes}, nil
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, fileName(key))
}

// Get returns the decompressed payload for key, or (nil, false) on miss,
// including a content-hash or dependent-file mismatch (spec §4.8). A
// corrupt file is silently removed.
func (s *Store) Get(key string) ([]byte, bool) {
	raw, err := os.ReadFile(s.path(key))
	if err != nil {
		s.recordMiss()
		return nil, false
	}

	hdr, payload, ok := s.parse(raw)
	if !ok {
		s.removeCorrupt(key)
		return nil, false
	}

	decompressed, err := decompress(payload)
	if err != nil {
		s.removeCorrupt(key)
		return nil, false
	}
	if contentHash(decompressed) != hdr.contentHash {
		s.removeCorrupt(key)
		return nil, false
	}

	for path, want := range hdr.deps {
		live, ok := liveDigest(path)
		if !ok || live != want {
			s.removeCorrupt(key)
			s.recordInvalidation()
			return nil, false
		}
	}

	if hdr.expiresAtUnixMs > 0 && time.Now().UnixMilli() > hdr.expiresAtUnixMs {
		s.removeCorrupt(key)
		return nil, false
	}

	s.mu.Lock()
	s.stats.Hits++
	s.mu.Unlock()
	return decompressed, true
}

func (s *Store) parse(raw []byte) (decodedHeader, []byte, bool) {
	hdr, ok := decodeHeader(raw)
	if !ok {
		return decodedHeader{}, nil, false
	}
	if hdr.headerLen > len(raw) {
		return decodedHeader{}, nil, false
	}
	return hdr, raw[hdr.headerLen:], true
}

// Set compresses and atomically writes value under key, recording the
// digests of its dependent files for later invalidation. A zero ttl means
// no expiry.
func (s *Store) Set(key string, value []byte, deps map[string]types.FileDigest, ttl time.Duration, now time.Time) error {
	compressed, err := compress(value, s.mode)
	if err != nil {
		return types.NewError(types.ErrInvalid, "compressing cache payload", err)
	}

	var expiresAt int64
	if ttl > 0 {
		expiresAt = now.Add(ttl).UnixMilli()
	}
	header := encodeHeader(int64(len(value)), contentHash(value), deps, now.UnixMilli(), expiresAt)

	out := make([]byte, 0, len(header)+len(compressed))
	out = append(out, header...)
	out = append(out, compressed...)

	if err := atomicWrite(s.path(key), out); err != nil {
		return types.NewError(types.ErrDependencyUnavailable, "writing cache entry", err)
	}

	s.mu.Lock()
	s.stats.TotalCompressedBytes += int64(len(compressed))
	s.mu.Unlock()
	return nil
}

// GetOrSet guarantees at-most-one concurrent invocation of factory per key
// across the process; other callers for the same key await the in-flight
// result (spec §4.8).
func (s *Store) GetOrSet(key string, deps map[string]types.FileDigest, ttl time.Duration, factory func() ([]byte, error)) ([]byte, error) {
	if v, ok := s.Get(key); ok {
		return v, nil
	}

	v, err, _ := s.group.Do(key, func() (interface{}, error) {
		if v, ok := s.Get(key); ok {
			return v, nil
		}
		value, err := factory()
		if err != nil {
			return nil, err
		}
		if err := s.Set(key, value, deps, ttl, time.Now()); err != nil {
			return nil, err
		}
		return value, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

// Remove deletes a single entry. A missing file is not an error.
func (s *Store) Remove(key string) error {
	if err := os.Remove(s.path(key)); err != nil && !os.IsNotExist(err) {
		return types.NewError(types.ErrDependencyUnavailable, "removing cache entry", err)
	}
	return nil
}

// Clear removes every entry in the store.
func (s *Store) Clear() error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return types.NewError(types.ErrDependencyUnavailable, "reading cache directory", err)
	}
	for _, e := range entries {
		if err := os.Remove(filepath.Join(s.dir, e.Name())); err != nil && !os.IsNotExist(err) {
			return types.NewError(types.ErrDependencyUnavailable, "clearing cache entry", err)
		}
	}
	return nil
}

// entryInfo is the bookkeeping performMaintenance needs per on-disk file.
type entryInfo struct {
	path      string
	createdAt int64
	expiresAt int64
	size      int64
}

// PerformMaintenance removes expired entries, then evicts oldest-by-
// createdAt entries while total compressed bytes exceed maxCacheSizeBytes
// (spec §4.8). Returns the updated stats snapshot.
func (s *Store) PerformMaintenance(now time.Time) types.CacheStats {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return s.Stats()
	}

	var infos []entryInfo
	var totalSize int64
	nowMs := now.UnixMilli()

	for _, e := range entries {
		full := filepath.Join(s.dir, e.Name())
		raw, err := os.ReadFile(full)
		if err != nil {
			continue
		}
		hdr, ok := decodeHeader(raw)
		if !ok {
			os.Remove(full)
			s.mu.Lock()
			s.stats.CorruptRemovals++
			s.mu.Unlock()
			continue
		}
		if hdr.expiresAtUnixMs > 0 && nowMs > hdr.expiresAtUnixMs {
			os.Remove(full)
			continue
		}
		size := int64(len(raw) - hdr.headerLen)
		infos = append(infos, entryInfo{path: full, createdAt: hdr.createdAtUnixMs, expiresAt: hdr.expiresAtUnixMs, size: size})
		totalSize += size
	}

	sort.Slice(infos, func(i, j int) bool { return infos[i].createdAt < infos[j].createdAt })

	if s.maxCacheSizeBytes > 0 {
		i := 0
		for totalSize > s.maxCacheSizeBytes && i < len(infos) {
			os.Remove(infos[i].path)
			totalSize -= infos[i].size
			s.mu.Lock()
			s.stats.Evictions++
			s.mu.Unlock()
			i++
		}
	}

	return s.Stats()
}

// Stats returns a copy of the current counters.
func (s *Store) Stats() types.CacheStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

func (s *Store) recordMiss() {
	s.mu.Lock()
	s.stats.Misses++
	s.mu.Unlock()
}

func (s *Store) removeCorrupt(key string) {
	os.Remove(s.path(key))
	s.mu.Lock()
	s.stats.CorruptRemovals++
	s.mu.Unlock()
}

func (s *Store) recordInvalidation() {
	s.mu.Lock()
	s.stats.Invalidations++
	s.mu.Unlock()
}

// atomicWrite implements write-then-rename so a reader never observes a
// partially written entry (spec §4.8).
func atomicWrite(path string, data []byte) error {
	tmp := fmt.Sprintf("%s.tmp-%d", path, time.Now().UnixNano())
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// liveDigest hashes a file's current contents for dependent-file
// invalidation checks.
func liveDigest(path string) ([32]byte, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return [32]byte{}, false
	}
	return sha256.Sum256(data), true
}

// Digest hashes path's current contents and stats its modification time,
// producing the types.FileDigest callers outside this package need to
// populate Set's deps map. It reports false when path cannot be read.
func Digest(path string) (types.FileDigest, bool) {
	digest, ok := liveDigest(path)
	if !ok {
		return types.FileDigest{}, false
	}
	info, err := os.Stat(path)
	if err != nil {
		return types.FileDigest{}, false
	}
	return types.FileDigest{
		Digest:             digest,
		LastModifiedUnixMs: info.ModTime().UnixMilli(),
	}, true
}

func compress(data []byte, mode types.CompressionMode) ([]byte, error) {
	level := zstd.SpeedFastest
	if mode == types.CompressionSmallestSize {
		level = zstd.SpeedBestCompression
	}
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(level))
	if err != nil {
		return nil, err
	}
	defer enc.Close()
	return enc.EncodeAll(data, nil), nil
}

func decompress(data []byte) ([]byte, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	return dec.DecodeAll(data, nil)
}
