package types

import "time"

// CompressionMode selects the stream-compressor speed/ratio trade-off used
// by the byte cache (spec §4.8: "Fastest or SmallestSize per options").
type CompressionMode string

const (
	CompressionFastest      CompressionMode = "fastest"
	CompressionSmallestSize CompressionMode = "smallest"
)

// CacheEntry is the logical record behind one on-disk cache file (spec §3,
// §6 "Cache on-disk layout"). DependentFileHashes maps a tracked file path
// to the digest it had when the entry was written; a live mismatch on any of
// them invalidates the entry on read.
type CacheEntry struct {
	Key                 string
	ContentHash         [32]byte
	CompressedPayload    []byte
	UncompressedSize     int64
	DependentFileHashes  map[string]FileDigest
	CreatedAt            time.Time
	ExpiresAt            *time.Time
}

// FileDigest is the recorded digest and modification time of one dependent
// file at the moment a cache entry was written.
type FileDigest struct {
	Digest          [32]byte
	LastModifiedUnixMs int64
}

// CacheStats accumulates the counters performMaintenance and get/set report.
type CacheStats struct {
	Hits             int64
	Misses           int64
	Evictions        int64
	CorruptRemovals  int64
	Invalidations    int64
	TotalCompressedBytes int64
}
