// Package cache implements the compressed, content-addressed byte store
// (spec §4.8): one file per key under a directory, atomic writes, zstd
// compression, and a fixed-layout header for dependent-file invalidation.
package cache

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/ingo-eichhorst/testselect/pkg/types"
)

// schemaMagic and schemaVersion identify the on-disk header format (spec
// §6 "Cache on-disk layout"). Any other version is treated as a miss so a
// future format change never misreads an older file.
var schemaMagic = [4]byte{'T', 'S', 'E', 'L'}

const schemaVersion uint32 = 1

// encodeHeader serializes the fixed-order header: magic, schema version,
// uncompressed size, dependent-file count, then each dependent file's
// pathLen/path/digest/lastModifiedUnixMs (spec §6), followed by the
// implementation's own createdAt/expiresAt trailer used for LRU-by-creation
// eviction and TTL expiry — fields the documented, compatibility-relevant
// prefix does not cover but that performMaintenance needs on disk.
func encodeHeader(uncompressedSize int64, contentHash [32]byte, deps map[string]types.FileDigest, createdAtUnixMs int64, expiresAtUnixMs int64) []byte {
	var buf bytes.Buffer
	buf.Write(schemaMagic[:])
	writeU32(&buf, schemaVersion)
	writeU64(&buf, uint64(uncompressedSize))
	writeU32(&buf, uint32(len(deps)))

	paths := sortedKeys(deps)
	for _, path := range paths {
		d := deps[path]
		writeU32(&buf, uint32(len(path)))
		buf.WriteString(path)
		buf.Write(d.Digest[:])
		writeI64(&buf, d.LastModifiedUnixMs)
	}
	writeI64(&buf, createdAtUnixMs)
	writeI64(&buf, expiresAtUnixMs)
	buf.Write(contentHash[:])
	return buf.Bytes()
}

// decodedHeader is the parsed form of one on-disk entry's header.
type decodedHeader struct {
	uncompressedSize int64
	contentHash      [32]byte
	deps             map[string]types.FileDigest
	createdAtUnixMs  int64
	expiresAtUnixMs  int64
	headerLen        int
}

// decodeHeader parses a header previously written by encodeHeader. ok is
// false for a bad magic, a mismatched schema version, or a truncated/corrupt
// buffer — any of which is treated as a cache miss (spec §4.8, §6).
func decodeHeader(data []byte) (decodedHeader, bool) {
	r := bytes.NewReader(data)
	fail := func() (decodedHeader, bool) { return decodedHeader{}, false }

	var magic [4]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil || magic != schemaMagic {
		return fail()
	}
	version, ok := readU32(r)
	if !ok || version != schemaVersion {
		return fail()
	}
	uncompressedSize, ok := readU64(r)
	if !ok {
		return fail()
	}
	count, ok := readU32(r)
	if !ok {
		return fail()
	}

	deps := make(map[string]types.FileDigest, count)
	for i := uint32(0); i < count; i++ {
		pathLen, ok := readU32(r)
		if !ok {
			return fail()
		}
		pathBytes := make([]byte, pathLen)
		if _, err := io.ReadFull(r, pathBytes); err != nil {
			return fail()
		}
		var digest [32]byte
		if _, err := io.ReadFull(r, digest[:]); err != nil {
			return fail()
		}
		lastModified, ok := readI64(r)
		if !ok {
			return fail()
		}
		deps[string(pathBytes)] = types.FileDigest{Digest: digest, LastModifiedUnixMs: lastModified}
	}

	createdAt, ok := readI64(r)
	if !ok {
		return fail()
	}
	expiresAt, ok := readI64(r)
	if !ok {
		return fail()
	}
	var hash [32]byte
	if _, err := io.ReadFull(r, hash[:]); err != nil {
		return fail()
	}

	headerLen := len(data) - r.Len()
	return decodedHeader{
		uncompressedSize: int64(uncompressedSize),
		contentHash:      hash,
		deps:             deps,
		createdAtUnixMs:  createdAt,
		expiresAtUnixMs:  expiresAt,
		headerLen:        headerLen,
	}, true
}

func writeU32(buf *bytes.Buffer, v uint32) {
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], v)
	buf.Write(tmp[:])
}

func writeU64(buf *bytes.Buffer, v uint64) {
	var tmp [8]byte
	binary.BigEndian.PutUint64(tmp[:], v)
	buf.Write(tmp[:])
}

func writeI64(buf *bytes.Buffer, v int64) {
	writeU64(buf, uint64(v))
}

func readU32(r *bytes.Reader) (uint32, bool) {
	var tmp [4]byte
	if _, err := io.ReadFull(r, tmp[:]); err != nil {
		return 0, false
	}
	return binary.BigEndian.Uint32(tmp[:]), true
}

func readU64(r *bytes.Reader) (uint64, bool) {
	var tmp [8]byte
	if _, err := io.ReadFull(r, tmp[:]); err != nil {
		return 0, false
	}
	return binary.BigEndian.Uint64(tmp[:]), true
}

func readI64(r *bytes.Reader) (int64, bool) {
	v, ok := readU64(r)
	return int64(v), ok
}

func sortedKeys(m map[string]types.FileDigest) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && keys[j] < keys[j-1]; j-- {
			keys[j], keys[j-1] = keys[j-1], keys[j]
		}
	}
	return keys
}

// contentHash computes the digest recorded against a payload for the
// integrity check performed on get (spec §4.8).
func contentHash(payload []byte) [32]byte {
	return sha256.Sum256(payload)
}

// fileName derives the on-disk filename for a key: the hex-encoded digest
// of the key (spec §6 "filename = hex-encoded digest of the key").
func fileName(key string) string {
	sum := sha256.Sum256([]byte(key))
	return fmt.Sprintf("%x", sum)
}
