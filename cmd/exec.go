package cmd

import (
	"github.com/ferama/prelay/cmd/cmnflags"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(execCmd)

	cmnflags.AddRelayFlags(execCmd.Flags())
	// everything after the program name belongs to the program
	execCmd.Flags().SetInterspersed(false)
}

var execCmd = &cobra.Command{
	Use:   "exec [flags] [program [args...]]",
	Short: "Runs a program relaying the terminal to it",
	Long: `Runs a program relaying the terminal to it.
If no program is given the user shell is started.
Enter sends the typed line, Ctrl-X ends the session.`,
	Example: `
  # the classic dialog
  $ prelay exec sh -c 'echo begin; read name; echo hi $name; echo end'

  # keep the terminal clean, log to a file
  $ prelay exec -l /tmp/prelay.log python3 -i -u
	`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := cmnflags.GetConfig(cmd, args)
		if err != nil {
			cmdLog.Fatalln(err)
		}
		startSession(cfg)
	},
}
