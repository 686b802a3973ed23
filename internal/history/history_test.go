package history

import (
	"testing"
	"time"

	"github.com/ingo-eichhorst/testselect/pkg/types"
)

func TestAppendCreatesEntryForUnknownID(t *testing.T) {
	s := NewStore()
	s.Append("A.dll::A.B", types.TestExecutionResult{Passed: true, Duration: 100 * time.Millisecond, ExecutedAt: time.Now()})

	hist, avg, _ := s.Snapshot("a.dll::a.b")
	if len(hist) != 1 {
		t.Fatalf("expected one recorded execution, got %d", len(hist))
	}
	if avg != 100*time.Millisecond {
		t.Fatalf("average = %v, want 100ms", avg)
	}
}

func TestAverageOnlyCountsSuccessfulRuns(t *testing.T) {
	s := NewStore()
	now := time.Now()
	s.Append("A", types.TestExecutionResult{Passed: true, Duration: 100 * time.Millisecond, ExecutedAt: now})
	s.Append("A", types.TestExecutionResult{Passed: false, Duration: 900 * time.Millisecond, ExecutedAt: now})
	s.Append("A", types.TestExecutionResult{Passed: true, Duration: 200 * time.Millisecond, ExecutedAt: now})

	_, avg, _ := s.Snapshot("A")
	if avg != 150*time.Millisecond {
		t.Fatalf("average = %v, want 150ms (excluding the failed run)", avg)
	}
}

func TestLastExecutedUpdatesOnAppend(t *testing.T) {
	s := NewStore()
	first := time.Now().Add(-time.Hour)
	second := time.Now()
	s.Append("A", types.TestExecutionResult{Passed: true, ExecutedAt: first})
	s.Append("A", types.TestExecutionResult{Passed: true, ExecutedAt: second})

	_, _, last := s.Snapshot("A")
	if !last.Equal(second) {
		t.Fatalf("lastExecuted = %v, want %v", last, second)
	}
}

func TestApplyMatchesOnlyByUniqueID(t *testing.T) {
	s := NewStore()
	s.Append("Assembly.dll::Assembly.FooTest.Bar", types.TestExecutionResult{Passed: true, Duration: time.Second, ExecutedAt: time.Now()})

	test := &types.TestInfo{UniqueID: "Assembly.dll::Assembly.FooTest.Bar"}
	s.Apply(test)
	if len(test.ExecutionHistory) != 1 {
		t.Fatalf("expected history applied by exact uniqueId match")
	}

	unrelated := &types.TestInfo{UniqueID: "Other.dll::Other.FooTest.Bar"}
	s.Apply(unrelated)
	if len(unrelated.ExecutionHistory) != 0 {
		t.Fatalf("unrelated test should not pick up history via any substring heuristic")
	}
}
