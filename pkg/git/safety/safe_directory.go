// pkg/git/safety/safe_directory.go

package safety

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/CodeMonkeyCybersecurity/harmonia/pkg/harmonia_io"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// EnsureSafeDirectory registers the repository path in git's global
// safe.directory.
//
// CI checkouts are frequently owned by a different uid than the user the
// job runs as, which makes every git command fail with "detected dubious
// ownership". The entry is added for the current user only.
//
// Best-effort: failures are returned to the caller to log as warnings;
// they should not abort the run.
func EnsureSafeDirectory(rc *harmonia_io.RuntimeContext, repoPath string) error {
	logger := otelzap.Ctx(rc.Ctx)

	absPath, err := filepath.Abs(repoPath)
	if err != nil {
		return fmt.Errorf("resolve absolute path: %w", err)
	}

	configured, err := isPathInSafeDirectory(rc.Ctx, absPath)
	if err != nil {
		// Non-fatal; continue and try to add
		logger.Debug("Could not check git safe.directory entries", zap.Error(err))
	} else if configured {
		logger.Debug("git safe.directory already includes path", zap.String("path", absPath))
		return nil
	}

	if err := addSafeDirectory(rc.Ctx, absPath); err != nil {
		return err
	}
	logger.Debug("Registered repository as safe for git", zap.String("path", absPath))

	return nil
}

func isPathInSafeDirectory(ctx context.Context, path string) (bool, error) {
	out, err := runGitConfig(ctx, "--get-all", "safe.directory")
	if err != nil {
		return false, err
	}

	for _, e := range strings.Split(strings.ReplaceAll(out, "\r\n", "\n"), "\n") {
		e = strings.TrimSpace(e)
		if e == "" {
			continue
		}
		if e == "*" {
			// Global trust; path is implicitly covered
			return true, nil
		}
		if samePath(e, path) {
			return true, nil
		}
	}
	return false, nil
}

func addSafeDirectory(ctx context.Context, path string) error {
	if _, err := runGitConfig(ctx, "--add", "safe.directory", path); err != nil {
		return fmt.Errorf("git config --add safe.directory failed: %w", err)
	}
	return nil
}

// runGitConfig shells out to `git config --global`, treating git's
// exit code 1 (key not found) as an empty result rather than an error.
func runGitConfig(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", append([]string{"config", "--global"}, args...)...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		if ee, ok := err.(*exec.ExitError); ok && ee.ExitCode() == 1 {
			return "", nil
		}
		return "", fmt.Errorf("git config query failed: %w (%s)", err, strings.TrimSpace(string(out)))
	}
	return string(out), nil
}

func samePath(a, b string) bool {
	// filepath.Abs already applied to b; stay case-sensitive (Linux) and
	// lenient about trailing slashes
	cleanA := strings.TrimRight(filepath.Clean(a), string(os.PathSeparator))
	cleanB := strings.TrimRight(filepath.Clean(b), string(os.PathSeparator))
	return cleanA == cleanB
}
