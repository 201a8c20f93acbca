// cmd/resolve/resolve.go

package resolve

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/CodeMonkeyCybersecurity/harmonia/pkg/logger"
)

// ResolveCmd is the root command for resolution operations.
var ResolveCmd = &cobra.Command{
	Use:     "resolve",
	Short:   "Resolve merge conflicts left in the working tree",
	Long:    `The resolve command runs the conflict resolution pipeline against the current checkout.`,
	Aliases: []string{"fix"},
	Run: func(cmd *cobra.Command, args []string) {
		log := logger.GetLogger()
		log.Info("No subcommand provided for resolve.", zap.String("command", cmd.Use))
		_ = cmd.Help()
	},
}

func init() {
	ResolveCmd.AddCommand(ConflictsCmd)
}
