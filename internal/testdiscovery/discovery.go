package testdiscovery

import (
	"go/ast"
	"go/types"
	"os"
	"path/filepath"
	"sort"
	"strings"

	gitignore "github.com/sabhiram/go-gitignore"

	pkgtypes "github.com/ingo-eichhorst/testselect/pkg/types"
)

// Discoverer is a reference TestDiscovery implementation over a Go module
// tree (spec §6 "TestDiscovery.discover").
type Discoverer struct{}

// NewDiscoverer returns a ready-to-use Discoverer.
func NewDiscoverer() *Discoverer {
	return &Discoverer{}
}

// Discover walks rootDir's Go packages and returns one TestInfo per
// TestXxx(*testing.T) function found.
func (d *Discoverer) Discover(rootDir string) ([]*pkgtypes.TestInfo, error) {
	ignoreMatcher := loadGitignore(rootDir)

	pkgs, err := loadPackages(rootDir)
	if err != nil {
		return nil, pkgtypes.NewError(pkgtypes.ErrDependencyUnavailable, "loading Go packages", err)
	}

	var tests []*pkgtypes.TestInfo
	for _, pkg := range pkgs {
		if pkg.forTest == "" {
			continue
		}
		for _, file := range pkg.syntax {
			filename := pkg.fset.File(file.Pos()).Name()
			if ignoreMatcher != nil {
				if rel, relErr := filepath.Rel(rootDir, filename); relErr == nil && ignoreMatcher.MatchesPath(rel) {
					continue
				}
			}
			for _, decl := range file.Decls {
				fn, ok := decl.(*ast.FuncDecl)
				if !ok || !isTestFunc(fn) {
					continue
				}
				tests = append(tests, buildTestInfo(pkg, fn))
			}
		}
	}

	return tests, nil
}

func loadGitignore(rootDir string) *gitignore.GitIgnore {
	path := filepath.Join(rootDir, ".gitignore")
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	m, err := gitignore.CompileIgnoreFile(path)
	if err != nil {
		return nil
	}
	return m
}

// isTestFunc matches Go's own convention: an exported-looking TestXxx
// function with no receiver and a single *testing.T parameter.
func isTestFunc(fn *ast.FuncDecl) bool {
	if fn.Recv != nil {
		return false
	}
	if !strings.HasPrefix(fn.Name.Name, "Test") || fn.Name.Name == "Test" {
		return false
	}
	if c := fn.Name.Name[len("Test")]; c >= 'a' && c <= 'z' {
		return false
	}
	if fn.Type.Params == nil || len(fn.Type.Params.List) != 1 || len(fn.Type.Params.List[0].Names) > 1 {
		return false
	}
	star, ok := fn.Type.Params.List[0].Type.(*ast.StarExpr)
	if !ok {
		return false
	}
	sel, ok := star.X.(*ast.SelectorExpr)
	if !ok || sel.Sel.Name != "T" {
		return false
	}
	pkgIdent, ok := sel.X.(*ast.Ident)
	return ok && pkgIdent.Name == "testing"
}

func buildTestInfo(pkg *parsedPackage, fn *ast.FuncDecl) *pkgtypes.TestInfo {
	assembly := strings.TrimSuffix(pkg.pkgPath, "_test")
	declaringType := pkg.name
	methodName := fn.Name.Name

	return &pkgtypes.TestInfo{
		Assembly:       assembly,
		DeclaringType:  declaringType,
		MethodName:     methodName,
		UniqueID:       pkgtypes.BuildUniqueID(assembly, declaringType, methodName),
		Category:       classifyCategory(pkg.pkgPath, methodName),
		Tags:           extractTags(fn),
		Dependencies:   extractDependencies(pkg, fn),
	}
}

// classifyCategory guesses a TestCategory from the package path and test
// name; a real TestCategorizer (spec §6) would consult build tags or
// project configuration instead.
func classifyCategory(pkgPath, methodName string) pkgtypes.TestCategory {
	lower := strings.ToLower(pkgPath + " " + methodName)
	switch {
	case strings.Contains(lower, "e2e") || strings.Contains(lower, "endtoend"):
		return pkgtypes.CategoryEndToEnd
	case strings.Contains(lower, "database") || strings.Contains(lower, "sql") || strings.Contains(lower, "repository"):
		return pkgtypes.CategoryDatabase
	case strings.Contains(lower, "api") || strings.Contains(lower, "handler") || strings.Contains(lower, "http"):
		return pkgtypes.CategoryAPI
	case strings.Contains(lower, "ui") || strings.Contains(lower, "browser"):
		return pkgtypes.CategoryUI
	case strings.Contains(lower, "integration"):
		return pkgtypes.CategoryIntegration
	default:
		return pkgtypes.CategoryUnit
	}
}

// extractTags looks for a leading "// tags: a,b,c" comment immediately
// above the test function.
func extractTags(fn *ast.FuncDecl) []string {
	if fn.Doc == nil {
		return nil
	}
	for _, c := range fn.Doc.List {
		text := strings.TrimPrefix(c.Text, "//")
		text = strings.TrimSpace(text)
		const prefix = "tags:"
		if strings.HasPrefix(strings.ToLower(text), prefix) {
			raw := strings.TrimSpace(text[len(prefix):])
			parts := strings.Split(raw, ",")
			tags := make([]string, 0, len(parts))
			for _, p := range parts {
				if p = strings.TrimSpace(p); p != "" {
					tags = append(tags, p)
				}
			}
			return tags
		}
	}
	return nil
}

// extractDependencies walks a test function body for qualified identifiers
// (pkg.Sel) resolving to another package, producing a deduplicated,
// sorted dependency list used by the impact scorer.
func extractDependencies(pkg *parsedPackage, fn *ast.FuncDecl) []string {
	if fn.Body == nil || pkg.typesInfo == nil {
		return nil
	}

	seen := make(map[string]bool)
	ast.Inspect(fn.Body, func(n ast.Node) bool {
		sel, ok := n.(*ast.SelectorExpr)
		if !ok {
			return true
		}
		ident, ok := sel.X.(*ast.Ident)
		if !ok {
			return true
		}
		obj := pkg.typesInfo.Uses[ident]
		pkgName, ok := obj.(*types.PkgName)
		if !ok {
			return true
		}
		seen[pkgName.Imported().Path()+"."+sel.Sel.Name] = true
		return true
	})

	deps := make([]string, 0, len(seen))
	for d := range seen {
		deps = append(deps, d)
	}
	sort.Strings(deps)
	return deps
}
