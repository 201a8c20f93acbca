// cmd/self/telemetry.go

package self

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"

	"github.com/CodeMonkeyCybersecurity/harmonia/pkg/harmonia_cli"
	"github.com/CodeMonkeyCybersecurity/harmonia/pkg/harmonia_io"
	"github.com/CodeMonkeyCybersecurity/harmonia/pkg/telemetry/telemetry_management"
)

var TelemetryCmd = &cobra.Command{
	Use:   "telemetry [on|off|status]",
	Short: "Manage harmonia telemetry collection",
	Long: `Manage local telemetry collection for harmonia usage statistics.

Telemetry data is stored locally in JSONL format and can be analyzed
to understand usage patterns. No data is sent to external servers.

Commands:
  on     - Enable telemetry collection
  off    - Disable telemetry collection
  status - Show telemetry status and output location`,
	Args: cobra.ExactArgs(1),
	RunE: harmonia_cli.Wrap(func(rc *harmonia_io.RuntimeContext, cmd *cobra.Command, args []string) error {
		log := otelzap.Ctx(rc.Ctx)

		switch args[0] {
		case "on":
			return telemetry_management.Enable(rc)
		case "off":
			return telemetry_management.Disable(rc)
		case "status":
			telemetry_management.ShowStatus(rc)
		default:
			log.Warn("Invalid telemetry argument", zap.String("arg", args[0]))
			return fmt.Errorf("usage: telemetry [on|off|status]")
		}

		return nil
	}),
}

func init() {
	SelfCmd.AddCommand(TelemetryCmd)
}
