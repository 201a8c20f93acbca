// pkg/git/preflight.go
//
// Git preflight checks - validates the git environment before the
// pipeline mutates anything.

package git

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"

	"github.com/CodeMonkeyCybersecurity/harmonia/pkg/harmonia_io"
)

// CheckGitInstalled verifies git command is available in PATH
func CheckGitInstalled(ctx context.Context) error {
	logger := otelzap.Ctx(ctx)

	gitPath, err := exec.LookPath("git")
	if err != nil {
		return fmt.Errorf("git is not installed or not in PATH\n\n" +
			"Git is required to resolve merge conflicts.\n\n" +
			"To install:\n" +
			"  Ubuntu/Debian: sudo apt-get install git\n" +
			"  macOS:         brew install git\n" +
			"  Or visit:      https://git-scm.com/downloads")
	}

	// Verify git can actually run
	cmd := exec.CommandContext(ctx, "git", "--version")
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("git is installed at %s but failed to execute: %w\nOutput: %s",
			gitPath, err, string(output))
	}

	logger.Debug("Git is installed",
		zap.String("path", gitPath),
		zap.String("version", strings.TrimSpace(string(output))))

	return nil
}

// EnsureCommitIdentity makes sure a commit in this repository can succeed.
// CI runners frequently have no user.name/user.email configured; when both
// lookups come back empty a repo-local bot identity is written so the one
// resolution commit does not fail on a bare image.
func EnsureCommitIdentity(rc *harmonia_io.RuntimeContext, repoDir string) error {
	logger := otelzap.Ctx(rc.Ctx)

	userName, _ := getGitConfig(rc.Ctx, repoDir, "user.name")
	userEmail, _ := getGitConfig(rc.Ctx, repoDir, "user.email")

	if userName != "" && userEmail != "" {
		logger.Debug("Git identity is configured",
			zap.String("user.name", userName),
			zap.String("user.email", userEmail))
		return nil
	}

	logger.Info("📝 No git identity configured, setting repo-local bot identity",
		zap.String("repo", repoDir))

	if userName == "" {
		if err := setLocalGitConfig(rc.Ctx, repoDir, "user.name", "harmonia"); err != nil {
			return fmt.Errorf("failed to set user.name: %w", err)
		}
	}
	if userEmail == "" {
		if err := setLocalGitConfig(rc.Ctx, repoDir, "user.email", "harmonia@cybermonkey.net.au"); err != nil {
			return fmt.Errorf("failed to set user.email: %w", err)
		}
	}

	return nil
}

// getGitConfig retrieves a git config value visible to the repository.
func getGitConfig(ctx context.Context, repoDir, key string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", "-C", repoDir, "config", "--get", key)
	output, err := cmd.CombinedOutput()

	// git config returns exit code 1 if key not found (not an error condition)
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok && exitErr.ExitCode() == 1 {
			return "", nil
		}
		return "", fmt.Errorf("failed to check %s: %w", key, err)
	}

	return strings.TrimSpace(string(output)), nil
}

func setLocalGitConfig(ctx context.Context, repoDir, key, value string) error {
	cmd := exec.CommandContext(ctx, "git", "-C", repoDir, "config", key, value)
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("git config %s failed: %w (%s)", key, err, strings.TrimSpace(string(output)))
	}
	return nil
}
