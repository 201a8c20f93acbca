// pkg/execute/options.go

package execute

import (
	"time"

	"go.uber.org/zap"
)

// DefaultLogger is used when Options.Logger is nil.
var DefaultLogger *zap.Logger

// DefaultDryRun forces dry-run mode for every execution when set.
var DefaultDryRun bool

// Options configures a single command execution.
type Options struct {
	Command string
	Args    []string

	// Dir sets the working directory; empty means the process cwd.
	Dir string

	// Shell execution is rejected at runtime; the field exists so callers
	// fail loudly instead of silently concatenating arguments.
	Shell bool

	// Capture returns stdout+stderr to the caller instead of discarding it.
	Capture bool

	// DryRun logs the command without executing it.
	DryRun bool

	// Timeout bounds the execution; zero means the 30s default.
	Timeout time.Duration

	// Retries is the total attempt count; zero or one means a single attempt.
	Retries int
	Delay   time.Duration

	Logger *zap.Logger
}
