package execute

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestRunShellModeRejected(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	_, err := Run(ctx, Options{
		Command: "echo",
		Args:    []string{"hello"},
		Shell:   true,
	})
	if err == nil {
		t.Fatal("shell mode should be rejected")
	}
	if !strings.Contains(err.Error(), "shell execution mode disabled") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestRunDryRun(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	out, err := Run(ctx, Options{
		Command: "definitely-not-a-real-binary-xyz",
		Args:    []string{"--flag"},
		DryRun:  true,
		Capture: true,
	})
	if err != nil {
		t.Fatalf("dry run should never execute: %v", err)
	}
	if out != "" {
		t.Errorf("dry run should produce no output, got %q", out)
	}
}

func TestRunMissingBinary(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	_, err := Run(ctx, Options{
		Command: "definitely-not-a-real-binary-xyz",
		Capture: true,
	})
	if err == nil {
		t.Fatal("expected an error for a missing binary")
	}
}

func TestDefaultTimeout(t *testing.T) {
	t.Parallel()

	if got := defaultTimeout(0); got != 30*time.Second {
		t.Errorf("zero timeout should default to 30s, got %v", got)
	}
	if got := defaultTimeout(5 * time.Second); got != 5*time.Second {
		t.Errorf("explicit timeout should be kept, got %v", got)
	}
}

func TestBuildCommandString(t *testing.T) {
	t.Parallel()

	if got := buildCommandString("git"); got != "git" {
		t.Errorf("bare command: got %q", got)
	}
	if got := buildCommandString("git", "diff", "--name-only"); got != "git diff --name-only" {
		t.Errorf("command with args: got %q", got)
	}
}
