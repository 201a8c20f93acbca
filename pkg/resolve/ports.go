// pkg/resolve/ports.go

package resolve

import (
	"github.com/CodeMonkeyCybersecurity/harmonia/pkg/harmonia_io"
)

// VersionControl is the slice of git the pipeline drives. *git.Repository
// satisfies it; tests substitute an in-memory fake.
type VersionControl interface {
	ListConflicts(rc *harmonia_io.RuntimeContext) ([]string, error)
	ReadFile(rc *harmonia_io.RuntimeContext, path string) (string, error)
	WriteFile(rc *harmonia_io.RuntimeContext, path string, content string) error
	CheckoutOurs(rc *harmonia_io.RuntimeContext, path string) error
	Stage(rc *harmonia_io.RuntimeContext, path string) error
	StagedDiff(rc *harmonia_io.RuntimeContext, path string) (string, error)
	Commit(rc *harmonia_io.RuntimeContext, message string) error
}

// CompletionService produces a resolved file body from a prompt.
// *llm.Client satisfies it.
type CompletionService interface {
	Complete(rc *harmonia_io.RuntimeContext, prompt string) (string, error)
	Model() string
}

// ReviewPlatform receives the run summary. *github.CommentPoster
// satisfies it.
type ReviewPlatform interface {
	PostComment(rc *harmonia_io.RuntimeContext, body string) error
}
