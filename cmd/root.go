// Package cmd holds the agence root command shared by every subcommand.
package cmd

import (
	"fmt"
	"strings"

	"github.com/agence-immo/agence/internal/colors"
	"github.com/agence-immo/agence/internal/config"
	"github.com/agence-immo/agence/internal/logging"
	"github.com/agence-immo/agence/internal/version"
	"github.com/spf13/cobra"
)

var (
	debugFlag bool
	quietFlag bool
)

// RootCmd is the base command when called without any subcommands.
var RootCmd = &cobra.Command{
	Use:           "agence",
	Short:         "Back-office access guard and notification inbox.",
	Long:          `Back-office access guard and notification inbox for the agence real estate platform.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup(cmd)
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return logging.ShutdownGlobal()
	},
}

// Execute runs the root command.
func Execute() error {
	return RootCmd.Execute()
}

func init() {
	RootCmd.Version = version.String()
	RootCmd.CompletionOptions.HiddenDefaultCmd = true
	RootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Enable debug output")
	RootCmd.PersistentFlags().BoolVar(&quietFlag, "quiet", false, "Only log errors")
	RootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		if cmd != RootCmd {
			if cmd.Long != "" {
				fmt.Fprintln(cmd.OutOrStdout(), cmd.Long)
				return
			}
			fmt.Fprint(cmd.OutOrStdout(), cmd.UsageString())
			return
		}
		printHelpText(cmd)
	})
}

// setup loads configuration and starts the file logger. Flags outrank
// configuration files and AGENCE_ variables.
func setup(cmd *cobra.Command) error {
	config.Load()
	if debugFlag {
		config.Set("debug", "true")
	}
	if quietFlag {
		config.Set("quiet", "true")
	}
	colors.SetDebug(config.GetBool("debug", false))

	if err := logging.InitGlobal(); err != nil {
		colors.Warning(fmt.Sprintf("file logging disabled: %v", err))
	}
	logging.Debug("command started", "command", cmd.CommandPath())
	return nil
}

func printHelpText(cmd *cobra.Command) {
	commandOrder := []string{
		"serve",
		"watch",
		"guard",
		"session",
		"notify",
		"list",
		"mark-read",
		"mark-all-read",
		"migrate",
		"version",
	}

	var cmdLines []string
	for _, name := range commandOrder {
		for _, c := range cmd.Commands() {
			if c.Name() == name {
				cmdLines = append(cmdLines, fmt.Sprintf("    %-16s %s", c.Name(), c.Short))
				break
			}
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), `agence v%s

Back-office access guard and notification inbox.

USAGE:
    agence [COMMAND] [OPTIONS]

COMMANDS:
%s

OPTIONS:
    --debug         Enable debug output
    --quiet         Only log errors
    -h, --help      Show help message
`, version.String(), strings.Join(cmdLines, "\n"))
}
