// pkg/harmonia_cli/wrap.go

package harmonia_cli

import (
	"context"

	cerr "github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/CodeMonkeyCybersecurity/harmonia/pkg/harmonia_err"
	"github.com/CodeMonkeyCybersecurity/harmonia/pkg/harmonia_io"
	"github.com/CodeMonkeyCybersecurity/harmonia/pkg/logger"
)

// Wrap ensures panic recovery, telemetry, logging, and signal handling around
// a command body.
func Wrap(fn func(rc *harmonia_io.RuntimeContext, cmd *cobra.Command, args []string) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		logger.InitFallback()

		// Cancellation is external only: SIGINT/SIGTERM cancel the run context.
		signals := NewSignalHandler(context.Background())
		defer signals.Stop()

		rc := harmonia_io.NewContext(signals.Context(), cmd.Name())
		defer rc.End(&err)

		// Panic recovery
		defer func() {
			if r := recover(); r != nil {
				err = cerr.AssertionFailedf("panic: %v", r)
				rc.Log.Error("Panic recovered", zap.Any("panic", r))
			}
		}()

		harmonia_io.LogRuntimeExecutionContext(rc)

		err = fn(rc, cmd, args)
		if err != nil && !harmonia_err.IsExpectedUserError(err) {
			err = cerr.WithStack(err)
		}
		return err
	}
}
