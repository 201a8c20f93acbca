// pkg/resolve/types.go

package resolve

// Outcome is the lifecycle state of one conflicted file. A file starts
// Conflicted and moves forward exactly once, to AIResolved,
// FallbackResolved, or Failed. It never moves back.
type Outcome string

const (
	OutcomeConflicted       Outcome = "conflicted"
	OutcomeAIResolved       Outcome = "ai_resolved"
	OutcomeFallbackResolved Outcome = "fallback_resolved"
	OutcomeFailed           Outcome = "failed"
)

// ConflictedFile is the per-file record the pipeline builds up. Diff is
// the staged diff captured right after the winning resolution, Err the
// last error for files that could not be resolved at all.
type ConflictedFile struct {
	Path    string
	Outcome Outcome
	Diff    string
	Err     error
}

// Resolved reports whether the file ended in either success state.
func (f *ConflictedFile) Resolved() bool {
	return f.Outcome == OutcomeAIResolved || f.Outcome == OutcomeFallbackResolved
}

// RunReport is what one pipeline run produced. Every conflicted file
// appears in exactly one of the two slices.
type RunReport struct {
	Successes []*ConflictedFile
	Failures  []*ConflictedFile

	// Body is the rendered review comment, filled in by the caller
	// before publishing.
	Body string

	// CommitCreated is true when at least one file was resolved and the
	// resolution commit landed.
	CommitCreated bool
}

// Total is the number of conflicted files the run saw.
func (r *RunReport) Total() int {
	return len(r.Successes) + len(r.Failures)
}
