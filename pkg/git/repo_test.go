// pkg/git/repo_test.go
//
// Integration tests against a real git binary. Each test builds a
// throwaway repository with a genuine merge conflict; everything is
// skipped when git is not installed.

package git

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CodeMonkeyCybersecurity/harmonia/pkg/harmonia_io"
	"github.com/CodeMonkeyCybersecurity/harmonia/pkg/platform"
	"github.com/CodeMonkeyCybersecurity/harmonia/pkg/shared"
)

func testContext(t *testing.T) *harmonia_io.RuntimeContext {
	t.Helper()
	return harmonia_io.NewContext(context.Background(), "test")
}

// gitCmd runs git in dir and fails the test on error unless tolerate is set.
func gitCmd(t *testing.T, dir string, tolerate bool, args ...string) string {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil && !tolerate {
		t.Fatalf("git %s failed: %v\n%s", strings.Join(args, " "), err, out)
	}
	return string(out)
}

// buildConflictRepo creates a repository where a.txt conflicts between the
// base branch ("ours" side: "main change") and a feature branch ("theirs"
// side: "feature change"), leaving the merge unresolved. HOME is pointed
// at a temp dir so no global git config leaks in.
func buildConflictRepo(t *testing.T) string {
	t.Helper()

	if !platform.IsCommandAvailable("git") {
		t.Skip("git not available")
	}

	t.Setenv("HOME", t.TempDir())
	t.Setenv("GIT_CONFIG_SYSTEM", os.DevNull)

	dir := t.TempDir()
	gitCmd(t, dir, false, "init")
	gitCmd(t, dir, false, "config", "user.name", "tester")
	gitCmd(t, dir, false, "config", "user.email", "tester@example.com")

	writeFile(t, dir, "a.txt", "base\n")
	writeFile(t, dir, "untouched.txt", "left alone\n")
	gitCmd(t, dir, false, "add", ".")
	gitCmd(t, dir, false, "commit", "-m", "base")

	base := strings.TrimSpace(gitCmd(t, dir, false, "branch", "--show-current"))

	gitCmd(t, dir, false, "checkout", "-b", "feature")
	writeFile(t, dir, "a.txt", "feature change\n")
	gitCmd(t, dir, false, "commit", "-am", "feature edit")

	gitCmd(t, dir, false, "checkout", base)
	writeFile(t, dir, "a.txt", "main change\n")
	gitCmd(t, dir, false, "commit", "-am", "main edit")

	// The merge is supposed to fail with a conflict.
	gitCmd(t, dir, true, "merge", "feature")

	return dir
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func TestListConflicts(t *testing.T) {
	dir := buildConflictRepo(t)
	rc := testContext(t)
	repo := NewRepository(dir)

	require.NoError(t, repo.Verify(rc))

	paths, err := repo.ListConflicts(rc)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt"}, paths)
}

func TestListConflictsCleanTree(t *testing.T) {
	if !platform.IsCommandAvailable("git") {
		t.Skip("git not available")
	}

	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	gitCmd(t, dir, false, "init")
	gitCmd(t, dir, false, "config", "user.name", "tester")
	gitCmd(t, dir, false, "config", "user.email", "tester@example.com")
	writeFile(t, dir, "a.txt", "content\n")
	gitCmd(t, dir, false, "add", ".")
	gitCmd(t, dir, false, "commit", "-m", "base")

	rc := testContext(t)
	paths, err := NewRepository(dir).ListConflicts(rc)
	require.NoError(t, err)
	assert.Empty(t, paths)
}

func TestReadFileContainsConflictMarkers(t *testing.T) {
	dir := buildConflictRepo(t)
	rc := testContext(t)
	repo := NewRepository(dir)

	content, err := repo.ReadFile(rc, "a.txt")
	require.NoError(t, err)
	assert.Contains(t, content, "<<<<<<<")
	assert.Contains(t, content, "=======")
	assert.Contains(t, content, ">>>>>>>")
	assert.Contains(t, content, "main change")
	assert.Contains(t, content, "feature change")
}

func TestCheckoutOursResolution(t *testing.T) {
	dir := buildConflictRepo(t)
	rc := testContext(t)
	repo := NewRepository(dir)

	require.NoError(t, repo.CheckoutOurs(rc, "a.txt"))
	require.NoError(t, repo.Stage(rc, "a.txt"))

	content, err := repo.ReadFile(rc, "a.txt")
	require.NoError(t, err)
	assert.Equal(t, "main change\n", content)

	// Ours matches HEAD, so the staged diff is empty.
	diff, err := repo.StagedDiff(rc, "a.txt")
	require.NoError(t, err)
	assert.Empty(t, strings.TrimSpace(diff))

	paths, err := repo.ListConflicts(rc)
	require.NoError(t, err)
	assert.Empty(t, paths)
}

func TestWriteFileResolution(t *testing.T) {
	dir := buildConflictRepo(t)
	rc := testContext(t)
	repo := NewRepository(dir)

	require.NoError(t, repo.WriteFile(rc, "a.txt", "merged by machine\n"))
	require.NoError(t, repo.Stage(rc, "a.txt"))

	diff, err := repo.StagedDiff(rc, "a.txt")
	require.NoError(t, err)
	assert.Contains(t, diff, "+merged by machine")
	assert.Contains(t, diff, "-main change")
}

func TestCommitConcludesMerge(t *testing.T) {
	dir := buildConflictRepo(t)
	rc := testContext(t)
	repo := NewRepository(dir)

	require.NoError(t, repo.CheckoutOurs(rc, "a.txt"))
	require.NoError(t, repo.Stage(rc, "a.txt"))
	require.NoError(t, repo.Commit(rc, shared.ResolutionCommitMessage))

	subject := strings.TrimSpace(gitCmd(t, dir, false, "log", "-1", "--format=%s"))
	assert.Equal(t, shared.ResolutionCommitMessage, subject)

	status := gitCmd(t, dir, false, "status", "--porcelain")
	assert.Empty(t, strings.TrimSpace(status))
}

func TestGetStatusOnConflictedRepo(t *testing.T) {
	dir := buildConflictRepo(t)
	rc := testContext(t)

	status, err := GetStatus(rc, dir)
	require.NoError(t, err)
	assert.True(t, status.HasConflicts)
	assert.Contains(t, status.Conflicted, "a.txt")
}

func TestEnsureCommitIdentity(t *testing.T) {
	if !platform.IsCommandAvailable("git") {
		t.Skip("git not available")
	}

	t.Setenv("HOME", t.TempDir())
	t.Setenv("GIT_CONFIG_SYSTEM", os.DevNull)

	dir := t.TempDir()
	gitCmd(t, dir, false, "init")

	rc := testContext(t)
	require.NoError(t, EnsureCommitIdentity(rc, dir))

	name := strings.TrimSpace(gitCmd(t, dir, false, "config", "--get", "user.name"))
	email := strings.TrimSpace(gitCmd(t, dir, false, "config", "--get", "user.email"))
	assert.Equal(t, "harmonia", name)
	assert.Equal(t, "harmonia@cybermonkey.net.au", email)

	// Second call sees the configured identity and leaves it alone.
	require.NoError(t, EnsureCommitIdentity(rc, dir))
	assert.Equal(t, name, strings.TrimSpace(gitCmd(t, dir, false, "config", "--get", "user.name")))
}
