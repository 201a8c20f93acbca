// pkg/git/types.go

package git

// GitStatus is a parsed `git status --porcelain` snapshot.
type GitStatus struct {
	IsClean      bool
	Branch       string
	Staged       []string
	Modified     []string
	Untracked    []string
	Conflicted   []string
	HasConflicts bool
}
