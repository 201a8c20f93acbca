// pkg/shared/sync.go

package shared

import (
	"strings"

	"go.uber.org/zap"
)

// SafeSync flushes the global logger, ignoring the sync errors that stdout and
// stderr produce on most platforms.
func SafeSync() {
	if err := zap.L().Sync(); err != nil {
		msg := err.Error()
		if strings.Contains(msg, "invalid argument") ||
			strings.Contains(msg, "inappropriate ioctl") ||
			strings.Contains(msg, "bad file descriptor") {
			return
		}
	}
}
