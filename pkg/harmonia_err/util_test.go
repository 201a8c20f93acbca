package harmonia_err

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestExtractSummary(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	tests := []struct {
		name          string
		output        string
		maxCandidates int
		want          string
	}{
		{
			name:          "empty output",
			output:        "",
			maxCandidates: 3,
			want:          "No output provided.",
		},
		{
			name:          "whitespace only",
			output:        "   \n\n   ",
			maxCandidates: 3,
			want:          "No output provided.",
		},
		{
			name:          "single error line",
			output:        "error: could not apply 3a1f2c9",
			maxCandidates: 3,
			want:          "error: could not apply 3a1f2c9",
		},
		{
			name:          "multiple candidates capped",
			output:        "Merging branch\nerror: patch failed\nCONFLICT (content): merge conflict in a.txt\nhint: fix conflicts",
			maxCandidates: 2,
			want:          "error: patch failed - CONFLICT (content): merge conflict in a.txt",
		},
		{
			name:          "fatal line",
			output:        "Checking index\nfatal: not a git repository\nDone",
			maxCandidates: 3,
			want:          "fatal: not a git repository",
		},
		{
			name:          "no candidates falls back to first line",
			output:        "all good\nnothing to see",
			maxCandidates: 3,
			want:          "all good",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractSummary(ctx, tt.output, tt.maxCandidates)
			if got != tt.want {
				t.Errorf("ExtractSummary() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExpectedUserError(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	if NewExpectedError(ctx, nil) != nil {
		t.Error("NewExpectedError(nil) should return nil")
	}

	base := errors.New("nothing to resolve")
	wrapped := NewExpectedError(ctx, base)
	if !IsExpectedUserError(wrapped) {
		t.Error("wrapped error should be classified as expected")
	}
	if wrapped.Error() != base.Error() {
		t.Errorf("message changed: got %q, want %q", wrapped.Error(), base.Error())
	}
	if !errors.Is(wrapped, base) {
		t.Error("wrapped error should unwrap to its cause")
	}

	// Classification survives further wrapping.
	outer := fmt.Errorf("pipeline: %w", wrapped)
	if !IsExpectedUserError(outer) {
		t.Error("classification should survive fmt.Errorf wrapping")
	}

	if IsExpectedUserError(errors.New("plain")) {
		t.Error("plain error should not be classified as expected")
	}
}
