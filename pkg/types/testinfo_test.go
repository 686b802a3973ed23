package types

import "testing"

func TestBuildUniqueIDAndEquality(t *testing.T) {
	id := BuildUniqueID("MyApp.Tests.dll", "MyApp.Tests.FooTest", "Bar")
	want := "MyApp.Tests.dll::MyApp.Tests.FooTest.Bar"
	if id != want {
		t.Fatalf("BuildUniqueID = %q, want %q", id, want)
	}
	if !UniqueIDEqual(id, "myapp.tests.dll::myapp.tests.footest.bar") {
		t.Fatalf("UniqueIDEqual should be case-insensitive")
	}
	if UniqueIDEqual(id, "MyApp.Tests.dll::MyApp.Tests.FooTest.Baz") {
		t.Fatalf("UniqueIDEqual matched a different method")
	}
}

func TestHasTag(t *testing.T) {
	ti := &TestInfo{Tags: []string{"smoke", "slow"}}
	if !ti.HasTag("smoke") {
		t.Fatal("expected HasTag(smoke) == true")
	}
	if ti.HasTag("fast") {
		t.Fatal("expected HasTag(fast) == false")
	}
}
