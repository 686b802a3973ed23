package types

import "time"

// TestSelectionOptions is the user-facing configuration bundle recognized by
// the plan builder. Zero values mean "not set"; MaxParallelism defaults to 1
// when unset so batching is always well-defined.
type TestSelectionOptions struct {
	MaxTestCount      int           // override; 0 means "use confidence-level default"
	MaxExecutionTime  time.Duration // override; 0 means "use confidence-level default"
	MinSelectionScore float64       // override; 0 means "use confidence-level default"
	IncludedCategories []TestCategory
	ExcludedCategories []TestCategory
	RequiredTags       []string
	ExcludedTags       []string
	IncludeFlakyTests  bool
	MaxParallelism     int
}

// Normalized returns a copy with MaxParallelism clamped to at least 1.
func (o TestSelectionOptions) Normalized() TestSelectionOptions {
	if o.MaxParallelism < 1 {
		o.MaxParallelism = 1
	}
	return o
}

// CodeChangeType classifies a single file-level change.
type CodeChangeType string

const (
	ChangeAdded    CodeChangeType = "Added"
	ChangeModified CodeChangeType = "Modified"
	ChangeDeleted  CodeChangeType = "Deleted"
	ChangeRenamed  CodeChangeType = "Renamed"
)

// CodeChange is one file-level change within a CodeChangeSet.
type CodeChange struct {
	FilePath       string
	ChangeType     CodeChangeType
	ChangedMethods []string
	ChangedTypes   []string
}

// CodeChangeSet is an ordered list of code changes driving impact scoring.
// A nil or empty CodeChangeSet means "no changes known" (the impact scorer's
// 0.5 baseline case), distinct from a CodeChangeSet with zero-impact changes.
type CodeChangeSet struct {
	Changes []CodeChange
}

// IsEmpty reports whether the change set carries no changes.
func (c *CodeChangeSet) IsEmpty() bool {
	return c == nil || len(c.Changes) == 0
}

// ChangedTypeNames returns the set of all changed type names across the
// change set, deduplicated.
func (c *CodeChangeSet) ChangedTypeNames() map[string]bool {
	out := make(map[string]bool)
	if c == nil {
		return out
	}
	for _, ch := range c.Changes {
		for _, t := range ch.ChangedTypes {
			out[t] = true
		}
	}
	return out
}

// ChangedMethodNames returns the set of all changed method names across the
// change set, deduplicated.
func (c *CodeChangeSet) ChangedMethodNames() map[string]bool {
	out := make(map[string]bool)
	if c == nil {
		return out
	}
	for _, ch := range c.Changes {
		for _, m := range ch.ChangedMethods {
			out[m] = true
		}
	}
	return out
}
