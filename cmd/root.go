/* cmd/root.go */

package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	// Subcommands
	"github.com/CodeMonkeyCybersecurity/harmonia/cmd/inspect"
	"github.com/CodeMonkeyCybersecurity/harmonia/cmd/resolve"
	"github.com/CodeMonkeyCybersecurity/harmonia/cmd/self"

	// Internal packages
	"github.com/CodeMonkeyCybersecurity/harmonia/pkg/harmonia_cli"
	"github.com/CodeMonkeyCybersecurity/harmonia/pkg/harmonia_err"
	"github.com/CodeMonkeyCybersecurity/harmonia/pkg/harmonia_io"
	"github.com/CodeMonkeyCybersecurity/harmonia/pkg/logger"
)

var helpLogged bool // global guard to log help only once

// RootCmd is the base command for harmonia.
var RootCmd = &cobra.Command{
	Use:   "harmonia",
	Short: "Harmonia resolves Git merge conflicts in CI and reports back to the pull request",
	Long: `Harmonia is a CI tool that detects files left conflicted after a merge
attempt, resolves each one (optionally with AI assistance, always with a
deterministic "keep our side" fallback), commits the results once, and posts
a summary comment on the originating pull request.`,

	RunE: harmonia_cli.Wrap(func(rc *harmonia_io.RuntimeContext, cmd *cobra.Command, args []string) error {
		fmt.Println("⚠️  No subcommand provided. Try `harmonia help`.")
		return cmd.Help()
	}),
}

// HelpCmd wraps help so that it can be invoked like a normal command.
var HelpCmd = &cobra.Command{
	Use:   "help",
	Short: "Help about any command",
	Long:  "Displays help for harmonia or a specific subcommand.",
	RunE: harmonia_cli.Wrap(func(rc *harmonia_io.RuntimeContext, cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return RootCmd.Help()
		}
		c, _, err := RootCmd.Find(args)
		if err != nil || c == nil {
			return fmt.Errorf("command not found: %s", strings.Join(args, " "))
		}
		return c.Help()
	}),
}

// RegisterCommands adds all subcommands to the root command.
func RegisterCommands() {
	RootCmd.SetHelpCommand(HelpCmd)

	log := logger.GetLogger()

	RootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		if !helpLogged {
			log.Info("Global help triggered via --help or -h", zap.String("command", cmd.Name()))
			helpLogged = true
			defer log.Info("Global help display complete", zap.String("command", cmd.Name()))
		}
		if err := cmd.Root().Usage(); err != nil {
			log.Warn("Failed to print usage", zap.Error(err))
		}
	})

	for _, subCmd := range []*cobra.Command{
		resolve.ResolveCmd,
		inspect.InspectCmd,
		self.SelfCmd,
	} {
		RootCmd.AddCommand(subCmd)
	}
}

// Execute initializes and runs the root command. Expected user errors
// exit zero; configuration and pipeline failures exit non-zero so the
// CI job fails visibly.
func Execute() {
	defer func() {
		if err := logger.Sync(); err != nil {
			fmt.Fprintf(os.Stderr, "⚠️  Failed to flush logs: %v\n", err)
		}
	}()

	logger.L().Info("Harmonia CLI starting")

	RegisterCommands()

	if err := RootCmd.Execute(); err != nil {
		if harmonia_err.IsExpectedUserError(err) {
			logger.L().Warn("CLI completed with user error", zap.Error(err))
			os.Exit(0)
		} else {
			logger.L().Error("CLI execution error", zap.Error(err))
			os.Exit(1)
		}
	}
}
