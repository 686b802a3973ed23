// Package history implements the append-only execution history store keyed
// by test unique-id (spec §4.9).
package history

import (
	"strings"
	"sync"
	"time"

	"github.com/ingo-eichhorst/testselect/pkg/types"
)

// Store holds one execution history per test, guarded by a per-key lock so
// concurrent appends to different tests never contend (spec §5: "appended
// under an exclusive per-test lock; readers obtain a snapshot").
type Store struct {
	mu      sync.RWMutex
	locks   map[string]*sync.Mutex
	records map[string]*record
}

type record struct {
	mu          sync.Mutex
	uniqueID    string
	history     []types.TestExecutionResult
	average     time.Duration
	lastExecuted time.Time
}

// NewStore returns an empty history store.
func NewStore() *Store {
	return &Store{
		locks:   make(map[string]*sync.Mutex),
		records: make(map[string]*record),
	}
}

func normalizeID(uniqueID string) string {
	return strings.ToLower(uniqueID)
}

// lockFor returns (creating if necessary) the per-test mutex for uniqueID.
func (s *Store) lockFor(key string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	if l, ok := s.locks[key]; ok {
		return l
	}
	l := &sync.Mutex{}
	s.locks[key] = l
	return l
}

// Append records a new execution result for uniqueID, creating the entry if
// this is the first-ever execution, and updates the derived
// averageExecutionTime (successful runs only) and lastExecuted (spec §4.9).
func (s *Store) Append(uniqueID string, result types.TestExecutionResult) {
	key := normalizeID(uniqueID)
	lock := s.lockFor(key)
	lock.Lock()
	defer lock.Unlock()

	s.mu.Lock()
	rec, ok := s.records[key]
	if !ok {
		rec = &record{uniqueID: uniqueID}
		s.records[key] = rec
	}
	s.mu.Unlock()

	rec.mu.Lock()
	defer rec.mu.Unlock()

	rec.history = append(rec.history, result)
	rec.lastExecuted = result.ExecutedAt
	rec.average = averageSuccessfulDuration(rec.history)
}

// averageSuccessfulDuration computes the mean duration of passed runs only;
// an entry with no successful runs keeps an average of 0.
func averageSuccessfulDuration(history []types.TestExecutionResult) time.Duration {
	var sum time.Duration
	var count int
	for _, r := range history {
		if r.Passed {
			sum += r.Duration
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return sum / time.Duration(count)
}

// Snapshot returns a defensive copy of a test's recorded history, its
// derived average, and its last-executed timestamp. An unknown id returns a
// zero-valued, empty snapshot.
func (s *Store) Snapshot(uniqueID string) (history []types.TestExecutionResult, average time.Duration, lastExecuted time.Time) {
	key := normalizeID(uniqueID)

	s.mu.RLock()
	rec, ok := s.records[key]
	s.mu.RUnlock()
	if !ok {
		return nil, 0, time.Time{}
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()
	out := make([]types.TestExecutionResult, len(rec.history))
	copy(out, rec.history)
	return out, rec.average, rec.lastExecuted
}

// Apply writes the store's current snapshot for uniqueID onto test, matching
// strictly on uniqueId per spec §9's open-question correction (the source's
// substring-on-display-name matching is not replicated).
func (s *Store) Apply(test *types.TestInfo) {
	history, average, lastExecuted := s.Snapshot(test.UniqueID)
	test.ExecutionHistory = history
	test.AverageExecTime = average
	test.LastExecuted = lastExecuted
}
