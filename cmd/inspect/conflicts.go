// cmd/inspect/conflicts.go

package inspect

import (
	"github.com/spf13/cobra"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"

	"github.com/CodeMonkeyCybersecurity/harmonia/pkg/config"
	"github.com/CodeMonkeyCybersecurity/harmonia/pkg/git"
	"github.com/CodeMonkeyCybersecurity/harmonia/pkg/harmonia_cli"
	"github.com/CodeMonkeyCybersecurity/harmonia/pkg/harmonia_err"
	"github.com/CodeMonkeyCybersecurity/harmonia/pkg/harmonia_io"
)

var ConflictsCmd = &cobra.Command{
	Use:   "conflicts",
	Short: "List unmerged paths without modifying anything",
	Long: `List the files the index reports as unmerged, plus the current branch.

This is the read-only counterpart of "harmonia resolve conflicts": useful in
a CI step that only wants to know whether a merge needs help, or locally
before letting the resolver loose. A clean merge exits zero with a short
note; so does a missing git environment, since there is nothing to fail.`,
	RunE: harmonia_cli.Wrap(runInspectConflicts),
}

func init() {
	ConflictsCmd.Flags().String("dir", "", "Repository working directory (default \".\" or HARMONIA_DIR)")
}

func runInspectConflicts(rc *harmonia_io.RuntimeContext, cmd *cobra.Command, args []string) error {
	logger := otelzap.Ctx(rc.Ctx)

	cfg, err := config.Load(rc)
	if err != nil {
		return err
	}
	cfg.ApplyFlags(cmd.Flags())

	// Inspection never mutates, so environment problems are reported to
	// the user rather than failing the job.
	if err := git.CheckGitInstalled(rc.Ctx); err != nil {
		return harmonia_err.NewExpectedError(rc.Ctx, err)
	}
	if err := git.NewRepository(cfg.Dir).Verify(rc); err != nil {
		return harmonia_err.NewExpectedError(rc.Ctx, err)
	}

	status, err := git.GetStatus(rc, cfg.Dir)
	if err != nil {
		return err
	}

	branch := status.Branch
	if branch == "" {
		branch = "(detached HEAD)"
	}
	logger.Info("terminal prompt: Branch: " + branch)

	if !status.HasConflicts {
		logger.Info("terminal prompt: No conflicted files, the merge is clean")
		return nil
	}

	logger.Info("terminal prompt: Conflicted files:", zap.Int("count", len(status.Conflicted)))
	for _, path := range status.Conflicted {
		logger.Info("terminal prompt:   " + path)
	}
	logger.Info("terminal prompt: Run `harmonia resolve conflicts` to resolve them")

	return nil
}
