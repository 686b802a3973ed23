package validate

import (
	"context"
	"testing"

	"github.com/ingo-eichhorst/testselect/pkg/types"
)

func fixedDiscovery(tests []*types.TestInfo) DiscoveryFunc {
	calls := 0
	return func(ctx context.Context, solutionPath string) ([]*types.TestInfo, error) {
		calls++
		return tests, nil
	}
}

func TestValidateKnownID(t *testing.T) {
	known := []*types.TestInfo{{UniqueID: "MyApp.Tests.dll::MyApp.Tests.FooTest.Bar"}}
	v := NewValidator(fixedDiscovery(known), 4, 5)

	res, err := v.Validate(context.Background(), "sln", "myapp.tests.dll::myapp.tests.footest.bar")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Valid {
		t.Fatal("expected valid (case-insensitive match)")
	}
}

func TestSuggestionScenario(t *testing.T) {
	known := []*types.TestInfo{
		{UniqueID: "MyApp.Tests.FooTest"},
		{UniqueID: "MyApp.Tests.BarTest"},
	}
	v := NewValidator(fixedDiscovery(known), 4, 5)

	res, err := v.Validate(context.Background(), "sln", "MyApp.Tets.FooTest")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Valid {
		t.Fatal("expected invalid id")
	}
	if len(res.Suggestions) == 0 || res.Suggestions[0] != "MyApp.Tests.FooTest" {
		t.Fatalf("suggestions = %v, want first = MyApp.Tests.FooTest", res.Suggestions)
	}
}

func TestValidateBatchBoundedConcurrency(t *testing.T) {
	known := []*types.TestInfo{{UniqueID: "A::B.C"}}
	v := NewValidator(fixedDiscovery(known), 4, 5)

	results, err := v.ValidateBatch(context.Background(), "sln", []string{"A::B.C", "A::B.D"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !results[0].Valid || results[1].Valid {
		t.Fatalf("unexpected batch results: %+v", results)
	}
}
