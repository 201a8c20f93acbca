// pkg/git/repo.go
//
// Repository operations over subprocess git - no orchestration, just the
// focused commands the resolution pipeline needs.

package git

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/CodeMonkeyCybersecurity/harmonia/pkg/execute"
	"github.com/CodeMonkeyCybersecurity/harmonia/pkg/harmonia_io"
	"github.com/CodeMonkeyCybersecurity/harmonia/pkg/shared"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// Repository runs git against a single working directory. File reads and
// writes go straight to the working tree; everything else is one-shot
// subprocess git with captured output.
type Repository struct {
	Dir string
}

// NewRepository returns a Repository rooted at dir ("." when empty).
func NewRepository(dir string) *Repository {
	if dir == "" {
		dir = "."
	}
	return &Repository{Dir: dir}
}

// Verify checks that the directory is a git repository.
func (r *Repository) Verify(rc *harmonia_io.RuntimeContext) error {
	logger := otelzap.Ctx(rc.Ctx)

	gitDir := filepath.Join(r.Dir, ".git")
	if _, err := os.Stat(gitDir); err != nil {
		return fmt.Errorf("not a git repository: %s", r.Dir)
	}

	logger.Debug("Repository verified", zap.String("dir", r.Dir))
	return nil
}

// ListConflicts returns the unmerged paths in the working tree, in the
// order git reports them. An empty slice means the merge is clean.
func (r *Repository) ListConflicts(rc *harmonia_io.RuntimeContext) ([]string, error) {
	output, err := r.run(rc, "diff", "--name-only", "--diff-filter=U")
	if err != nil {
		return nil, fmt.Errorf("failed to list conflicted files: %w", err)
	}

	var paths []string
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			paths = append(paths, line)
		}
	}

	otelzap.Ctx(rc.Ctx).Debug("Conflict detection complete",
		zap.Int("count", len(paths)),
		zap.Strings("paths", paths))

	return paths, nil
}

// ReadFile returns the working-tree content of path, conflict markers
// included.
func (r *Repository) ReadFile(rc *harmonia_io.RuntimeContext, path string) (string, error) {
	content, err := os.ReadFile(filepath.Join(r.Dir, path))
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(content), nil
}

// WriteFile replaces the working-tree content of path.
func (r *Repository) WriteFile(rc *harmonia_io.RuntimeContext, path string, content string) error {
	full := filepath.Join(r.Dir, path)
	if err := os.WriteFile(full, []byte(content), shared.FilePermStandard); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	otelzap.Ctx(rc.Ctx).Debug("Wrote resolved content",
		zap.String("path", path),
		zap.Int("bytes", len(content)))
	return nil
}

// CheckoutOurs restores path to the current branch's side of the merge.
func (r *Repository) CheckoutOurs(rc *harmonia_io.RuntimeContext, path string) error {
	if _, err := r.run(rc, "checkout", "--ours", "--", path); err != nil {
		return fmt.Errorf("failed to checkout ours for %s: %w", path, err)
	}
	return nil
}

// Stage adds path to the index.
func (r *Repository) Stage(rc *harmonia_io.RuntimeContext, path string) error {
	if _, err := r.run(rc, "add", "--", path); err != nil {
		return fmt.Errorf("failed to stage %s: %w", path, err)
	}
	return nil
}

// StagedDiff returns the staged diff for path, for the resolution report.
func (r *Repository) StagedDiff(rc *harmonia_io.RuntimeContext, path string) (string, error) {
	output, err := r.run(rc, "diff", "--cached", "--", path)
	if err != nil {
		return "", fmt.Errorf("failed to diff staged %s: %w", path, err)
	}
	return output, nil
}

// Commit records the staged resolutions in a single commit.
func (r *Repository) Commit(rc *harmonia_io.RuntimeContext, message string) error {
	logger := otelzap.Ctx(rc.Ctx)

	output, err := r.run(rc, "commit", "-m", message)
	if err != nil {
		return fmt.Errorf("commit failed: %w", err)
	}

	logger.Info("✅ Committed resolutions",
		zap.String("message", message),
		zap.String("output", strings.TrimSpace(output)))
	return nil
}

func (r *Repository) run(rc *harmonia_io.RuntimeContext, args ...string) (string, error) {
	return execute.Run(rc.Ctx, execute.Options{
		Command: "git",
		Args:    args,
		Dir:     r.Dir,
		Capture: true,
	})
}
