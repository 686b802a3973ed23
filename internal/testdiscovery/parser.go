// Package testdiscovery is a reference TestDiscovery provider (spec §3,
// §6): it walks a Go module, loads its packages with go/packages, and
// returns TestInfo records for every TestXxx(*testing.T) function. The core
// only ever consults the TestDiscovery contract — this package is one
// concrete implementation of it, not part of the core itself.
package testdiscovery

import (
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"log"

	"golang.org/x/tools/go/packages"
)

// parsedPackage holds only the go/packages data the discoverer below
// actually reads: syntax trees to find TestXxx funcs, and type info to
// resolve dependency identifiers in extractDependencies.
type parsedPackage struct {
	pkgPath   string
	name      string
	syntax    []*ast.File
	fset      *token.FileSet
	typesInfo *types.Info
	forTest   string
}

// packagesMode is the set of go/packages.NeedXxx bits this loader asks for.
// Imports and Deps aren't requested: nothing here walks a package's import
// graph, and the type-checker resolves what NeedTypesInfo needs internally
// regardless of those two bits.
const packagesMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedTypes |
	packages.NeedSyntax |
	packages.NeedTypesInfo |
	packages.NeedForTest

// loadPackages loads every package under rootDir, including synthesized
// test-variant packages (ForTest set), keeping at most one non-test copy of
// each package path alongside every test variant.
func loadPackages(rootDir string) ([]*parsedPackage, error) {
	loaded, err := packages.Load(&packages.Config{
		Mode:  packagesMode,
		Dir:   rootDir,
		Tests: true,
	}, "./...")
	if err != nil {
		return nil, fmt.Errorf("packages.Load: %w", err)
	}

	byPath := make(map[string]*parsedPackage, len(loaded))
	var testVariants []*parsedPackage

	for _, pkg := range loaded {
		if !usablePackage(pkg) {
			continue
		}
		rec := toParsedPackage(pkg)
		if pkg.ForTest != "" {
			testVariants = append(testVariants, rec)
			continue
		}
		if _, dup := byPath[pkg.PkgPath]; !dup {
			byPath[pkg.PkgPath] = rec
		}
	}

	out := make([]*parsedPackage, 0, len(byPath)+len(testVariants))
	for _, rec := range byPath {
		out = append(out, rec)
	}
	out = append(out, testVariants...)
	return out, nil
}

// usablePackage logs any load-time errors attached to pkg and reports
// whether enough of it survived (a non-nil type-checked package with at
// least one syntax file) to be worth keeping.
func usablePackage(pkg *packages.Package) bool {
	for _, e := range pkg.Errors {
		log.Printf("warning: package %s: %s", pkg.PkgPath, e)
	}
	if len(pkg.Errors) > 0 && (pkg.Types == nil || len(pkg.Syntax) == 0) {
		return false
	}
	return true
}

func toParsedPackage(pkg *packages.Package) *parsedPackage {
	return &parsedPackage{
		pkgPath:   pkg.PkgPath,
		name:      pkg.Name,
		syntax:    pkg.Syntax,
		fset:      pkg.Fset,
		typesInfo: pkg.TypesInfo,
		forTest:   pkg.ForTest,
	}
}
