// cmd/resolve/conflicts.go
//
// The whole pipeline in one command: load and validate configuration,
// preflight the git environment, resolve every conflicted file, commit
// once, and post the summary comment on the pull request.

package resolve

import (
	"github.com/spf13/cobra"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"

	"github.com/CodeMonkeyCybersecurity/harmonia/pkg/config"
	"github.com/CodeMonkeyCybersecurity/harmonia/pkg/git"
	"github.com/CodeMonkeyCybersecurity/harmonia/pkg/git/safety"
	"github.com/CodeMonkeyCybersecurity/harmonia/pkg/github"
	"github.com/CodeMonkeyCybersecurity/harmonia/pkg/harmonia_cli"
	"github.com/CodeMonkeyCybersecurity/harmonia/pkg/harmonia_io"
	"github.com/CodeMonkeyCybersecurity/harmonia/pkg/llm"
	"github.com/CodeMonkeyCybersecurity/harmonia/pkg/report"
	resolvepkg "github.com/CodeMonkeyCybersecurity/harmonia/pkg/resolve"
)

var ConflictsCmd = &cobra.Command{
	Use:   "conflicts",
	Short: "Resolve conflicted files, commit, and report to the pull request",
	Long: `Resolve every file the index reports as unmerged.

Each file is resolved with AI assistance when --ai (or AI_ASSIST) is set and
a completion API key is available; any AI failure falls back to keeping the
current branch's side of the file. If at least one file resolves, a single
commit is created and a summary comment is posted on the pull request
identified by GITHUB_REPOSITORY and PR_NUMBER.

Configuration comes from the environment (see harmonia help), an optional
.env in the working directory, and an optional config file. Flags override
both.

Examples:
  harmonia resolve conflicts                    # fallback-only resolution
  harmonia resolve conflicts --ai               # try AI first, fall back to ours
  harmonia resolve conflicts --dry-run          # show the plan, touch nothing
  harmonia resolve conflicts --no-report        # resolve and commit, skip the comment`,
	RunE: harmonia_cli.Wrap(runResolveConflicts),
}

func init() {
	ConflictsCmd.Flags().Bool("ai", false, "Attempt AI-assisted resolution before the ours fallback")
	ConflictsCmd.Flags().String("dir", "", "Repository working directory (default \".\" or HARMONIA_DIR)")
	ConflictsCmd.Flags().String("model", "", "Completion model identifier")
	ConflictsCmd.Flags().Int("max-tokens", 0, "Completion budget in tokens")
	ConflictsCmd.Flags().Bool("no-report", false, "Skip posting the summary comment")
	ConflictsCmd.Flags().Bool("dry-run", false, "List what would be resolved without touching the tree")
}

func runResolveConflicts(rc *harmonia_io.RuntimeContext, cmd *cobra.Command, args []string) error {
	logger := otelzap.Ctx(rc.Ctx)

	// Configuration problems are fatal before any repository mutation
	// and exit non-zero, so a misconfigured CI job fails loudly.
	cfg, err := config.Load(rc)
	if err != nil {
		return err
	}
	cfg.ApplyFlags(cmd.Flags())
	if err := cfg.Validate(); err != nil {
		return err
	}

	rc.Attributes["repository"] = cfg.Repository

	if err := preflight(rc, cfg); err != nil {
		return err
	}

	var ai resolvepkg.CompletionService
	if cfg.AIAssist {
		client, err := llm.NewClient(&llm.Config{
			APIKey:    cfg.AIAPIKey,
			BaseURL:   cfg.BaseURL,
			Model:     cfg.Model,
			MaxTokens: cfg.MaxTokens,
		})
		if err != nil {
			return err
		}
		ai = client
		logger.Info("AI-assisted resolution enabled",
			zap.String("model", cfg.Model),
			zap.Int("max_tokens", cfg.MaxTokens))
	} else {
		logger.Info("AI assist disabled, resolving by keeping our side")
	}

	pipeline := &resolvepkg.Pipeline{
		VCS:    git.NewRepository(cfg.Dir),
		AI:     ai,
		DryRun: cfg.DryRun,
	}

	run, err := pipeline.Run(rc)
	if err != nil {
		return err
	}

	if run.Total() == 0 {
		return nil
	}

	logger.Info("terminal prompt: Resolution finished",
		zap.Int("resolved", len(run.Successes)),
		zap.Int("failed", len(run.Failures)))

	if cfg.NoReport {
		logger.Debug("Report posting disabled")
		return nil
	}

	meta := report.Meta{}
	if ai != nil {
		meta.Model = cfg.Model
	}
	run.Body = report.Render(run, meta)

	// Reporting is best-effort: from here on nothing changes the exit
	// status of a run whose resolutions already landed.
	gh, err := github.NewClient(&github.Config{Token: cfg.GitHubToken})
	if err != nil {
		logger.Warn("Could not build review platform client, skipping report", zap.Error(err))
		return nil
	}
	resolvepkg.Publish(rc, github.NewCommentPoster(gh, cfg.Repository, cfg.PRNumber), run)

	return nil
}

// preflight verifies the git environment before anything mutates:
// binary present, directory is a repository, checkout registered as
// safe, and a commit identity in place so the one commit cannot fail
// on a bare CI image.
func preflight(rc *harmonia_io.RuntimeContext, cfg *config.Config) error {
	logger := otelzap.Ctx(rc.Ctx)

	if err := git.CheckGitInstalled(rc.Ctx); err != nil {
		return err
	}

	if err := git.NewRepository(cfg.Dir).Verify(rc); err != nil {
		return err
	}

	// CI checkouts are often owned by a different uid; best-effort.
	if err := safety.EnsureSafeDirectory(rc, cfg.Dir); err != nil {
		logger.Warn("Could not register repository as a safe directory, continuing", zap.Error(err))
	}

	if cfg.DryRun {
		return nil
	}
	return git.EnsureCommitIdentity(rc, cfg.Dir)
}
