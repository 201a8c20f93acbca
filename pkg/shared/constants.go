// pkg/shared/constants.go

package shared

const (
	HarmoniaLogDir = "/var/log/harmonia/"
	HarmoniaLogs   = HarmoniaLogDir + "harmonia.log"
	// #nosec G101 - This is a log file path, not a hardcoded credential
	HarmoniaLogsPWD = "./harmonia.log"

	TelemetryLogs = HarmoniaLogDir + "telemetry.jsonl"
)

const (
	// Permission modes (in octal)
	DirPermStandard        = 0755
	FilePermOwnerRWX       = 0700
	FilePermStandard       = 0644
	FilePermOwnerReadWrite = 0600
)

const (
	HarmoniaID = "harmonia"
)

const (
	// ResolutionCommitMessage is the fixed message for every automated
	// resolution commit.
	ResolutionCommitMessage = "harmonia: auto-resolve merge conflicts"
)
