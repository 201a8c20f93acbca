package telemetry_management

import (
	"os"
	"path/filepath"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	cerr "github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/CodeMonkeyCybersecurity/harmonia/pkg/harmonia_io"
	"github.com/CodeMonkeyCybersecurity/harmonia/pkg/shared"
	"github.com/CodeMonkeyCybersecurity/harmonia/pkg/telemetry"
)

// GetTelemetryFilePath returns the path telemetry spans are written to,
// following the same fallback logic as the telemetry package.
func GetTelemetryFilePath() string {
	// ASSESS - Try the system directory first (production CI runners)
	systemPath := shared.TelemetryLogs
	if _, err := os.Stat(filepath.Dir(systemPath)); err == nil {
		return systemPath
	}

	// EVALUATE - Fall back to the user directory (development/macOS)
	return filepath.Join(os.Getenv("HOME"), ".harmonia", "telemetry", "telemetry.jsonl")
}

// Enable creates the opt-in marker file.
func Enable(rc *harmonia_io.RuntimeContext) error {
	logger := otelzap.Ctx(rc.Ctx)
	path := telemetry.MarkerPath()

	if err := os.MkdirAll(filepath.Dir(path), shared.FilePermOwnerRWX); err != nil {
		return cerr.Wrap(err, "failed to create telemetry directory")
	}
	if err := os.WriteFile(path, []byte{}, shared.FilePermOwnerReadWrite); err != nil {
		return cerr.Wrap(err, "failed to create telemetry marker")
	}

	logger.Info("Telemetry enabled",
		zap.String("marker", path),
		zap.String("output", GetTelemetryFilePath()))
	return nil
}

// Disable removes the opt-in marker file if present.
func Disable(rc *harmonia_io.RuntimeContext) error {
	logger := otelzap.Ctx(rc.Ctx)
	path := telemetry.MarkerPath()

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return cerr.Wrap(err, "failed to remove telemetry marker")
	}

	logger.Info("Telemetry disabled", zap.String("marker", path))
	return nil
}

// ShowStatus displays the current telemetry configuration.
func ShowStatus(rc *harmonia_io.RuntimeContext) {
	logger := otelzap.Ctx(rc.Ctx)

	logger.Info("terminal prompt: Telemetry status",
		zap.Bool("enabled", telemetry.IsEnabled()),
		zap.String("marker", telemetry.MarkerPath()),
		zap.String("file_path", GetTelemetryFilePath()),
		zap.String("privacy", "Local storage only - no external transmission"))
}
