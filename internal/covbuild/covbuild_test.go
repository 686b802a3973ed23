package covbuild

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTemp(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

func TestBuildJoinsProfileAndSidecar(t *testing.T) {
	dir := t.TempDir()
	profile := writeTemp(t, dir, "cover.out", "mode: set\n"+
		"myapp/internal/service.go:10.1,12.2 2 1\n"+
		"myapp/internal/unused.go:1.1,2.2 1 0\n")
	sidecar := writeTemp(t, dir, "sidecar.json", `[
		{"productionMethodId":"myapp/internal/service.go#Service.Do","testMethodId":"pkg.TestDo","callPath":["Do"],"callDepth":1,"confidence":0.9},
		{"productionMethodId":"myapp/internal/unused.go#Unused.Do","testMethodId":"pkg.TestUnused","callPath":["Do"],"callDepth":1,"confidence":0.5}
	]`)

	b := NewBuilder()
	cm, err := b.Build(profile, sidecar)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if _, ok := cm.Methods["myapp/internal/service.go#Service.Do"]; !ok {
		t.Fatal("expected covered method present in map")
	}
	if _, ok := cm.Methods["myapp/internal/unused.go#Unused.Do"]; ok {
		t.Fatal("method from a file with zero executed statements should be excluded")
	}
}

func TestBuildDefaultsCallDepthToOne(t *testing.T) {
	dir := t.TempDir()
	profile := writeTemp(t, dir, "cover.out", "mode: set\n")
	sidecar := writeTemp(t, dir, "sidecar.json", `[
		{"productionMethodId":"pkg#Foo.Bar","testMethodId":"pkg.TestBar","callPath":["Bar"],"callDepth":0,"confidence":1.0}
	]`)

	cm, err := NewBuilder().Build(profile, sidecar)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	covs := cm.Methods["pkg#Foo.Bar"]
	if len(covs) != 1 || covs[0].CallDepth != 1 {
		t.Fatalf("expected call depth defaulted to 1, got %+v", covs)
	}
}

func TestBuildMissingFileReturnsError(t *testing.T) {
	if _, err := NewBuilder().Build("/no/such/profile", "/no/such/sidecar"); err == nil {
		t.Fatal("expected error for missing profile")
	}
}
