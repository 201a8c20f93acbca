// pkg/report/render.go
//
// Renders the resolution summary posted to the pull request: one
// Markdown comment with a section for resolved files (each with its
// staged diff collapsed behind <details>) and one for failures.

package report

import (
	"fmt"
	"strings"

	"github.com/CodeMonkeyCybersecurity/harmonia/pkg/resolve"
	"github.com/CodeMonkeyCybersecurity/harmonia/pkg/shared"
)

// MaxDiffBytes caps each embedded diff. GitHub rejects comment bodies
// over 65536 characters, so a handful of large diffs must not sink the
// whole report.
const MaxDiffBytes = 12000

// Meta carries run-level facts that belong in the comment but live
// outside the per-file records.
type Meta struct {
	// Model is the completion model identifier; empty when AI assist
	// was disabled for the run.
	Model string
}

// Render builds the Markdown body for one run. The caller stores it on
// the RunReport before publishing.
func Render(run *resolve.RunReport, meta Meta) string {
	var b strings.Builder

	b.WriteString("## Harmonia merge conflict resolution\n\n")
	b.WriteString(summaryLine(run))

	if len(run.Successes) > 0 {
		b.WriteString(fmt.Sprintf("### ✅ Resolved (%d)\n\n", len(run.Successes)))
		for _, file := range run.Successes {
			b.WriteString(fmt.Sprintf("**`%s`** — %s\n\n", file.Path, strategyLabel(file, meta)))
			b.WriteString(diffSection(file.Diff))
		}
	}

	if len(run.Failures) > 0 {
		b.WriteString(fmt.Sprintf("### ❌ Needs manual resolution (%d)\n\n", len(run.Failures)))
		for _, file := range run.Failures {
			b.WriteString(fmt.Sprintf("**`%s`** — %s\n\n", file.Path, failureReason(file)))
		}
	}

	b.WriteString("---\n")
	b.WriteString(footer(run))

	return b.String()
}

func summaryLine(run *resolve.RunReport) string {
	switch {
	case len(run.Successes) == 0:
		return fmt.Sprintf("Could not automatically resolve any of the **%d** conflicted files.\n\n", run.Total())
	case len(run.Failures) == 0:
		return fmt.Sprintf("Automatically resolved all **%d** conflicted files.\n\n", run.Total())
	default:
		return fmt.Sprintf("Automatically resolved **%d** of **%d** conflicted files.\n\n",
			len(run.Successes), run.Total())
	}
}

func strategyLabel(file *resolve.ConflictedFile, meta Meta) string {
	switch file.Outcome {
	case resolve.OutcomeAIResolved:
		if meta.Model != "" {
			return fmt.Sprintf("merged with AI assistance (`%s`)", meta.Model)
		}
		return "merged with AI assistance"
	case resolve.OutcomeFallbackResolved:
		return "kept our side, incoming changes discarded"
	default:
		return string(file.Outcome)
	}
}

func failureReason(file *resolve.ConflictedFile) string {
	if file.Err == nil {
		return "unknown error"
	}
	return file.Err.Error()
}

// diffSection renders one staged diff collapsed behind <details>, so
// the comment stays scannable when many files resolved. Oversized diffs
// are truncated; an empty diff (ours matched HEAD exactly) is stated
// rather than rendered.
func diffSection(diff string) string {
	if strings.TrimSpace(diff) == "" {
		return "_No staged changes: the kept content matches the current branch head._\n\n"
	}

	diff, truncated := truncateDiff(diff)
	fence := fenceFor(diff)

	var b strings.Builder
	b.WriteString("<details><summary>Staged diff</summary>\n\n")
	b.WriteString(fence + "diff\n")
	b.WriteString(strings.TrimRight(diff, "\n"))
	b.WriteString("\n" + fence + "\n")
	if truncated {
		b.WriteString("\n_Diff truncated; run `git diff HEAD^` locally for the full change._\n")
	}
	b.WriteString("\n</details>\n\n")
	return b.String()
}

// truncateDiff cuts the diff at the last full line under MaxDiffBytes.
func truncateDiff(diff string) (string, bool) {
	if len(diff) <= MaxDiffBytes {
		return diff, false
	}
	cut := strings.LastIndex(diff[:MaxDiffBytes], "\n")
	if cut <= 0 {
		cut = MaxDiffBytes
	}
	return diff[:cut], true
}

// fenceFor widens the code fence when the diff itself contains one, so
// embedded backticks cannot break out of the block.
func fenceFor(diff string) string {
	fence := "```"
	for strings.Contains(diff, fence) {
		fence += "`"
	}
	return fence
}

func footer(run *resolve.RunReport) string {
	var b strings.Builder

	if run.CommitCreated {
		b.WriteString(fmt.Sprintf("Resolutions were committed as `%s`.", shared.ResolutionCommitMessage))
	} else {
		b.WriteString("No commit was created.")
	}

	for _, file := range run.Successes {
		if file.Outcome == resolve.OutcomeFallbackResolved {
			b.WriteString(" Files resolved by keeping our side have **discarded the incoming changes**; review the diffs above before merging.")
			break
		}
	}

	b.WriteString("\n")
	return b.String()
}
