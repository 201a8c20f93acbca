// cmd/inspect/inspect.go

package inspect

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/CodeMonkeyCybersecurity/harmonia/pkg/logger"
)

// InspectCmd is the root command for read-only operations.
var InspectCmd = &cobra.Command{
	Use:     "inspect",
	Short:   "Inspect repository state (e.g., merge conflicts)",
	Long:    `The inspect command reports on repository state. Nothing under inspect modifies the working tree, the index, or the pull request.`,
	Aliases: []string{"read", "get", "list", "ls"},
	Run: func(cmd *cobra.Command, args []string) {
		log := logger.GetLogger()
		log.Info("No subcommand provided for inspect.", zap.String("command", cmd.Use))
		_ = cmd.Help()
	},
}

// init registers subcommands for the inspect command
func init() {
	InspectCmd.AddCommand(ConflictsCmd)
}
