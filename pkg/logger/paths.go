/* pkg/logger/paths.go */

package logger

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/CodeMonkeyCybersecurity/harmonia/pkg/shared"
	"github.com/CodeMonkeyCybersecurity/harmonia/pkg/xdg"
)

// PlatformLogPaths returns fallback log paths in order of priority for the platform.
func PlatformLogPaths() []string {
	switch runtime.GOOS {
	case "darwin":
		return []string{
			xdg.XDGStatePath(shared.HarmoniaID, "harmonia.log"),
			shared.HarmoniaLogsPWD,
			"/tmp/harmonia/harmonia.log",
		}
	case "linux":
		return []string{
			shared.HarmoniaLogs, // best if writable (root or CI runner)
			xdg.XDGStatePath(shared.HarmoniaID, "harmonia.log"), // user-local fallback (e.g. ~/.local/state/harmonia/harmonia.log)
			shared.HarmoniaLogsPWD,                              // current working dir
			"/tmp/harmonia/harmonia.log",                        // ephemeral
		}
	case "windows":
		return []string{
			filepath.Join(os.Getenv("ProgramData"), shared.HarmoniaID, "harmonia.log"),
			filepath.Join(os.Getenv("LOCALAPPDATA"), shared.HarmoniaID, "harmonia.log"),
			".\\harmonia.log",
		}
	default:
		return []string{shared.HarmoniaLogsPWD}
	}
}
