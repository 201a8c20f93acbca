// pkg/resolve/pipeline.go
//
// The resolution pipeline: enumerate conflicted files, resolve each one
// (AI first when enabled, "ours" as the fallback), stage the results,
// and commit once. Per-file errors are recorded and the run continues;
// only environment-level failures abort.

package resolve

import (
	cerr "github.com/cockroachdb/errors"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"

	"github.com/CodeMonkeyCybersecurity/harmonia/pkg/harmonia_io"
	"github.com/CodeMonkeyCybersecurity/harmonia/pkg/llm"
	"github.com/CodeMonkeyCybersecurity/harmonia/pkg/shared"
)

// Pipeline resolves every conflicted file in one repository and commits
// the results. AI is nil when assisted resolution is disabled; every
// file then goes straight to the fallback.
type Pipeline struct {
	VCS    VersionControl
	AI     CompletionService
	DryRun bool
}

// Run walks all conflicted files and returns the per-file accounting.
// The returned error is reserved for environment failures (conflict
// enumeration, the final commit); individual files that could not be
// resolved land in the report's Failures instead.
func (p *Pipeline) Run(rc *harmonia_io.RuntimeContext) (*RunReport, error) {
	logger := otelzap.Ctx(rc.Ctx)

	paths, err := p.VCS.ListConflicts(rc)
	if err != nil {
		return nil, cerr.Wrap(err, "failed to list conflicted files")
	}

	report := &RunReport{}
	if len(paths) == 0 {
		logger.Info("terminal prompt: No conflicts found, nothing to resolve")
		return report, nil
	}

	logger.Info("Found conflicted files", zap.Int("count", len(paths)))

	if p.DryRun {
		p.logPlan(rc, paths)
		return report, nil
	}

	for _, path := range paths {
		file := &ConflictedFile{Path: path, Outcome: OutcomeConflicted}
		p.resolveFile(rc, file)
		if file.Resolved() {
			report.Successes = append(report.Successes, file)
		} else {
			report.Failures = append(report.Failures, file)
		}
	}

	if len(report.Successes) > 0 {
		if err := p.VCS.Commit(rc, shared.ResolutionCommitMessage); err != nil {
			return report, cerr.Wrap(err, "failed to commit resolutions")
		}
		report.CommitCreated = true
		logger.Info("Committed resolutions",
			zap.Int("resolved", len(report.Successes)),
			zap.Int("failed", len(report.Failures)))
	} else {
		logger.Warn("No files were resolved, skipping commit",
			zap.Int("failed", len(report.Failures)))
	}

	return report, nil
}

// resolveFile moves one file from Conflicted to its final outcome. The
// AI attempt runs first when a completion service is wired; any error
// there is logged and the file falls through to the "ours" fallback.
func (p *Pipeline) resolveFile(rc *harmonia_io.RuntimeContext, file *ConflictedFile) {
	logger := otelzap.Ctx(rc.Ctx)

	if p.AI != nil {
		err := p.resolveWithAI(rc, file)
		if err == nil {
			file.Outcome = OutcomeAIResolved
			logger.Info("Resolved with AI assistance", zap.String("path", file.Path))
			return
		}
		logger.Warn("AI resolution failed, falling back to ours",
			zap.String("path", file.Path),
			zap.Error(err))
	}

	if err := p.resolveWithOurs(rc, file); err != nil {
		file.Outcome = OutcomeFailed
		file.Err = err
		logger.Error("Could not resolve file",
			zap.String("path", file.Path),
			zap.Error(err))
		return
	}

	file.Outcome = OutcomeFallbackResolved
	logger.Info("Resolved by keeping our side", zap.String("path", file.Path))
}

// resolveWithAI sends the conflicted content to the completion service
// and stages whatever comes back. The reply is trusted as-is; the staged
// diff in the review comment is where a human checks the merge.
func (p *Pipeline) resolveWithAI(rc *harmonia_io.RuntimeContext, file *ConflictedFile) error {
	content, err := p.VCS.ReadFile(rc, file.Path)
	if err != nil {
		return cerr.Wrap(err, "failed to read conflicted file")
	}

	resolved, err := p.AI.Complete(rc, llm.BuildResolutionPrompt(file.Path, content))
	if err != nil {
		return cerr.Wrap(err, "completion request failed")
	}

	if err := p.VCS.WriteFile(rc, file.Path, resolved); err != nil {
		return cerr.Wrap(err, "failed to write resolved content")
	}
	return p.stageAndCapture(rc, file)
}

// resolveWithOurs discards the incoming side.
func (p *Pipeline) resolveWithOurs(rc *harmonia_io.RuntimeContext, file *ConflictedFile) error {
	if err := p.VCS.CheckoutOurs(rc, file.Path); err != nil {
		return cerr.Wrap(err, "failed to check out our side")
	}
	return p.stageAndCapture(rc, file)
}

// stageAndCapture stages the file and records the staged diff for the
// review comment. A diff failure fails the whole attempt so the outcome
// never claims a resolution the report cannot show.
func (p *Pipeline) stageAndCapture(rc *harmonia_io.RuntimeContext, file *ConflictedFile) error {
	if err := p.VCS.Stage(rc, file.Path); err != nil {
		return cerr.Wrap(err, "failed to stage resolution")
	}

	diff, err := p.VCS.StagedDiff(rc, file.Path)
	if err != nil {
		return cerr.Wrap(err, "failed to capture staged diff")
	}
	file.Diff = diff
	return nil
}

// logPlan prints what a real run would do without touching the tree.
func (p *Pipeline) logPlan(rc *harmonia_io.RuntimeContext, paths []string) {
	logger := otelzap.Ctx(rc.Ctx)

	strategy := "keep our side"
	if p.AI != nil {
		strategy = "AI resolution with ours fallback (model " + p.AI.Model() + ")"
	}

	logger.Info("terminal prompt: Dry run, no files will be modified")
	for _, path := range paths {
		logger.Info("terminal prompt:   would resolve " + path + " via " + strategy)
	}
	logger.Info("terminal prompt: A real run would stage these files and commit once")
}

// Publish sends the rendered report to the review platform. Posting is
// best-effort and never changes the run's exit status, so the result is
// a bool rather than an error.
func Publish(rc *harmonia_io.RuntimeContext, review ReviewPlatform, report *RunReport) bool {
	logger := otelzap.Ctx(rc.Ctx)

	if review == nil || report.Body == "" {
		return false
	}

	if err := review.PostComment(rc, report.Body); err != nil {
		logger.Warn("Failed to post resolution report, continuing", zap.Error(err))
		return false
	}

	logger.Info("Posted resolution report to pull request")
	return true
}
