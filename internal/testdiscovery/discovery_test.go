package testdiscovery

import (
	"go/ast"
	"go/parser"
	"go/token"
	"testing"
)

func parseFuncDecl(t *testing.T, src string) *ast.FuncDecl {
	t.Helper()
	file, err := parser.ParseFile(token.NewFileSet(), "x.go", "package p\n"+src, 0)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	return file.Decls[0].(*ast.FuncDecl)
}

func TestIsTestFuncRequiresSingleParam(t *testing.T) {
	valid := parseFuncDecl(t, "func TestFoo(t *testing.T) {}")
	if !isTestFunc(valid) {
		t.Fatal("expected TestFoo(t *testing.T) to match")
	}

	noParams := parseFuncDecl(t, "func TestFoo() {}")
	if isTestFunc(noParams) {
		t.Fatal("a TestXxx func with no params should not match")
	}

	notTest := parseFuncDecl(t, "func Helper(t *testing.T) {}")
	if isTestFunc(notTest) {
		t.Fatal("a non-Test-prefixed func should not match")
	}
}

func TestClassifyCategoryHeuristics(t *testing.T) {
	cases := map[string]string{
		"myapp/internal/api":         "API",
		"myapp/internal/database":    "Database",
		"myapp/internal/e2e":         "EndToEnd",
		"myapp/internal/integration": "Integration",
		"myapp/internal/core":        "Unit",
	}
	for pkgPath, want := range cases {
		if got := string(classifyCategory(pkgPath, "TestSomething")); got != want {
			t.Errorf("classifyCategory(%q) = %q, want %q", pkgPath, got, want)
		}
	}
}
