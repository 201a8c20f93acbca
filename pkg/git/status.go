// Package git provides the repository operations behind conflict
// detection and resolution.
package git

import (
	"fmt"
	"strings"

	"github.com/CodeMonkeyCybersecurity/harmonia/pkg/execute"
	"github.com/CodeMonkeyCybersecurity/harmonia/pkg/harmonia_err"
	"github.com/CodeMonkeyCybersecurity/harmonia/pkg/harmonia_io"
	"github.com/CodeMonkeyCybersecurity/harmonia/pkg/platform"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// GetStatus retrieves the current Git repository status.
// It follows the Assess → Intervene → Evaluate pattern.
func GetStatus(rc *harmonia_io.RuntimeContext, dir string) (*GitStatus, error) {
	logger := otelzap.Ctx(rc.Ctx)

	// ASSESS - Ensure git is available on this platform
	if !platform.IsCommandAvailable("git") {
		return nil, harmonia_err.NewExpectedError(rc.Ctx, fmt.Errorf("git command not found - please install git"))
	}

	// INTERVENE - Get current branch
	branchOutput, err := execute.Run(rc.Ctx, execute.Options{
		Command: "git",
		Args:    []string{"branch", "--show-current"},
		Dir:     dir,
		Capture: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get current branch: %w", err)
	}

	// Get detailed status
	statusOutput, err := execute.Run(rc.Ctx, execute.Options{
		Command: "git",
		Args:    []string{"status", "--porcelain"},
		Dir:     dir,
		Capture: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get git status: %w", err)
	}

	// EVALUATE - Parse and build status
	status := ParseStatus(branchOutput, statusOutput)

	logger.Debug("Git status retrieved",
		zap.String("branch", status.Branch),
		zap.Bool("is_clean", status.IsClean),
		zap.Bool("has_conflicts", status.HasConflicts),
		zap.Int("staged", len(status.Staged)),
		zap.Int("modified", len(status.Modified)),
		zap.Int("untracked", len(status.Untracked)))

	return status, nil
}

// ParseStatus builds a GitStatus from `branch --show-current` and
// `status --porcelain` output.
func ParseStatus(branchOutput, statusOutput string) *GitStatus {
	status := &GitStatus{
		Branch:     strings.TrimSpace(branchOutput),
		IsClean:    strings.TrimSpace(statusOutput) == "",
		Staged:     []string{},
		Modified:   []string{},
		Untracked:  []string{},
		Conflicted: []string{},
	}

	for _, raw := range strings.Split(statusOutput, "\n") {
		// Porcelain lines are "XY path"; the leading columns are
		// significant, so only trailing space is trimmed.
		line := strings.TrimRight(raw, " \t\r")
		if len(line) < 4 {
			continue
		}

		statusCode := line[:2]
		filename := line[3:]

		switch {
		case isConflictCode(statusCode):
			status.HasConflicts = true
			status.Conflicted = append(status.Conflicted, filename)
		case statusCode == "??":
			status.Untracked = append(status.Untracked, filename)
		case statusCode[0] != ' ':
			status.Staged = append(status.Staged, filename)
		case statusCode[1] != ' ':
			status.Modified = append(status.Modified, filename)
		}
	}

	return status
}

// isConflictCode reports whether a porcelain XY code denotes an unmerged
// path: any side U, or both sides added/deleted.
func isConflictCode(code string) bool {
	return strings.ContainsRune(code, 'U') || code == "AA" || code == "DD"
}
