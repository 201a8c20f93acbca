// pkg/config/flags.go

package config

import (
	"strconv"

	"github.com/spf13/pflag"
)

// ApplyFlags overlays command-line flags onto the config. Only flags
// the user actually passed are visited, so a flag's default value never
// masks an environment or file setting.
func (c *Config) ApplyFlags(flags *pflag.FlagSet) {
	flags.Visit(func(f *pflag.Flag) {
		switch f.Name {
		case "ai":
			c.AIAssist = f.Value.String() == "true"
		case "dir":
			c.Dir = f.Value.String()
		case "model":
			c.Model = f.Value.String()
		case "max-tokens":
			// cobra rejects a non-integer value before RunE runs.
			if n, err := strconv.Atoi(f.Value.String()); err == nil {
				c.MaxTokens = n
			}
		case "no-report":
			c.NoReport = f.Value.String() == "true"
		case "dry-run":
			c.DryRun = f.Value.String() == "true"
		}
	})
}
