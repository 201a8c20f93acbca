// cmd/self/self.go

package self

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/CodeMonkeyCybersecurity/harmonia/pkg/logger"
)

// SelfCmd manages harmonia's own configuration and maintenance.
var SelfCmd = &cobra.Command{
	Use:   "self",
	Short: "Manage harmonia itself (telemetry, maintenance)",
	Long:  `The self command groups operations on harmonia's own installation rather than on a repository.`,
	Run: func(cmd *cobra.Command, args []string) {
		log := logger.GetLogger()
		log.Info("No subcommand provided for self.", zap.String("command", cmd.Use))
		_ = cmd.Help()
	},
}
