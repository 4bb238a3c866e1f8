package cmd

import (
	"github.com/ferama/prelay/pkg/logger"
	"github.com/spf13/cobra"
)

// Version is the actual prelay version. This value
// is set during the build process using -ldflags="-X 'github.com/ferama/prelay/cmd.Version=
var Version = "development"

var cmdLog = logger.NewLogger("[PRLY] ", logger.Red)

func init() {
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "if set disable all logs")
}

// without a Run, cobra prints the usage when no subcommand is given and
// fails on unknown ones
var rootCmd = &cobra.Command{
	Use:          "prelay",
	Long:         "Runs a program and relays your terminal to its stdin and stdout.",
	Version:      Version,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if quiet, _ := cmd.Flags().GetBool("quiet"); quiet {
			logger.DisableLoggers()
		}
	},
}

// Execute executes the root command
func Execute() error {
	return rootCmd.Execute()
}
