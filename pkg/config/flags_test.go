// pkg/config/flags_test.go

package config

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resolveFlagSet mirrors the flags "resolve conflicts" registers.
func resolveFlagSet() *pflag.FlagSet {
	flags := pflag.NewFlagSet("conflicts", pflag.ContinueOnError)
	flags.Bool("ai", false, "")
	flags.String("dir", "", "")
	flags.String("model", "", "")
	flags.Int("max-tokens", 0, "")
	flags.Bool("no-report", false, "")
	flags.Bool("dry-run", false, "")
	return flags
}

func TestApplyFlagsOverridesPriorValues(t *testing.T) {
	flags := resolveFlagSet()
	require.NoError(t, flags.Parse([]string{
		"--ai", "--model", "gpt-4o", "--max-tokens", "800", "--dry-run",
	}))

	cfg := &Config{Model: "gpt-4o-mini", MaxTokens: 1500, Dir: "/srv/checkout"}
	cfg.ApplyFlags(flags)

	assert.True(t, cfg.AIAssist)
	assert.Equal(t, "gpt-4o", cfg.Model)
	assert.Equal(t, 800, cfg.MaxTokens)
	assert.True(t, cfg.DryRun)
	assert.Equal(t, "/srv/checkout", cfg.Dir, "unset flags keep prior values")
	assert.False(t, cfg.NoReport)
}

func TestApplyFlagsUnsetFlagsDoNotReset(t *testing.T) {
	flags := resolveFlagSet()
	require.NoError(t, flags.Parse(nil))

	cfg := &Config{AIAssist: true, Model: "gpt-4o", MaxTokens: 900, Dir: "elsewhere", NoReport: true}
	cfg.ApplyFlags(flags)

	// Nothing was passed, so flag defaults must not clobber environment
	// or file settings.
	assert.True(t, cfg.AIAssist)
	assert.Equal(t, "gpt-4o", cfg.Model)
	assert.Equal(t, 900, cfg.MaxTokens)
	assert.Equal(t, "elsewhere", cfg.Dir)
	assert.True(t, cfg.NoReport)
}

func TestApplyFlagsDirAndNoReport(t *testing.T) {
	flags := resolveFlagSet()
	require.NoError(t, flags.Parse([]string{"--dir", "/tmp/checkout", "--no-report"}))

	cfg := &Config{Dir: "."}
	cfg.ApplyFlags(flags)

	assert.Equal(t, "/tmp/checkout", cfg.Dir)
	assert.True(t, cfg.NoReport)
}
