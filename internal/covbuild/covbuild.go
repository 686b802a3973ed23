// Package covbuild is a reference CoverageMapBuilder (spec §6): it turns a
// `go test -coverprofile` profile plus a JSON call-path sidecar into a
// TestCoverageMap. Like testdiscovery, this is one concrete implementation
// of an external contract the core only ever consumes through
// pkg/types.TestCoverageMap.
package covbuild

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/ingo-eichhorst/testselect/pkg/types"
)

// sidecarEntry is one record of the JSON file pairing a covered production
// method with the tests that cover it and the call path/depth/confidence of
// each covering relation. Real instrumentation tooling would emit this
// alongside the coverage profile; this builder only consumes the format.
type sidecarEntry struct {
	ProductionMethodID string   `json:"productionMethodId"`
	TestMethodID       string   `json:"testMethodId"`
	CallPath           []string `json:"callPath"`
	CallDepth          int      `json:"callDepth"`
	Confidence         float64  `json:"confidence"`
}

// Builder constructs a TestCoverageMap from a coverage profile and its
// sidecar.
type Builder struct{}

// NewBuilder returns a ready-to-use Builder.
func NewBuilder() *Builder { return &Builder{} }

// Build implements spec §6's CoverageMapBuilder.build(solutionPath), reading
// coverageProfilePath (a `go test -coverprofile` file, used only to confirm
// which production files were exercised at all) and sidecarPath (the
// test→method call-path detail the profile itself doesn't carry).
func (b *Builder) Build(coverageProfilePath, sidecarPath string) (*types.TestCoverageMap, error) {
	coveredFiles, err := parseProfile(coverageProfilePath)
	if err != nil {
		return nil, types.NewError(types.ErrNotFound, "reading coverage profile", err)
	}

	entries, err := parseSidecar(sidecarPath)
	if err != nil {
		return nil, types.NewError(types.ErrNotFound, "reading coverage sidecar", err)
	}

	cm := types.NewTestCoverageMap()
	for _, e := range entries {
		file := methodFile(e.ProductionMethodID)
		if file != "" && len(coveredFiles) > 0 && !coveredFiles[file] {
			continue
		}
		depth := e.CallDepth
		if depth < 1 {
			depth = 1
		}
		cm.Add(e.ProductionMethodID, e.TestMethodID, e.CallPath, depth, e.Confidence)
	}
	return cm, nil
}

// parseProfile reads a `go test -coverprofile` file's first line (mode) and
// every subsequent "file:startLine.startCol,endLine.endCol numStmt count"
// line, returning the set of files with at least one executed statement.
func parseProfile(path string) (map[string]bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	covered := make(map[string]bool)
	scanner := bufio.NewScanner(f)
	first := true
	for scanner.Scan() {
		line := scanner.Text()
		if first {
			first = false
			if strings.HasPrefix(line, "mode:") {
				continue
			}
		}
		fields := strings.Fields(line)
		if len(fields) != 3 {
			continue
		}
		count, err := strconv.Atoi(fields[2])
		if err != nil || count == 0 {
			continue
		}
		filePart := strings.SplitN(fields[0], ":", 2)
		if len(filePart) != 2 {
			continue
		}
		covered[filePart[0]] = true
	}
	return covered, scanner.Err()
}

func parseSidecar(path string) ([]sidecarEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var entries []sidecarEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decoding sidecar: %w", err)
	}
	return entries, nil
}

// methodFile returns the file portion (everything before the first '#') of a
// "pkg/path/file.go#Type.Method" style method id; returns "" when the id
// carries no '#'.
func methodFile(methodID string) string {
	if idx := strings.Index(methodID, "#"); idx >= 0 {
		return methodID[:idx]
	}
	return ""
}
