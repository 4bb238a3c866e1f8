package cmnflags

import (
	"fmt"
	"strconv"

	"github.com/ferama/prelay/pkg/child"
	"github.com/ferama/prelay/pkg/conf"
	"github.com/ferama/prelay/pkg/rio"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// AddRelayFlags adds relay common flags to FlagSet
func AddRelayFlags(fs *pflag.FlagSet) {
	fs.StringP("log-file", "l", "", "write diagnostics to this file instead of the terminal")
	fs.StringP("submit", "s", `\n`, "appended to the input when enter is hit. Go escapes are interpreted")
	fs.Uint8("cancel-byte", rio.DefaultCancelByte, "typing this byte ends the session")
	fs.StringP("dir", "d", "", "the program working directory")
	fs.StringToStringP("env", "e", nil, "extra program environment, KEY=VALUE")
	fs.Bool("no-raw", false, "if set the terminal is not put in raw mode")
}

// GetConfig builds a Config object from cmd flags. args are the program
// and its arguments
func GetConfig(cmd *cobra.Command, args []string) (*conf.Config, error) {
	logFile, _ := cmd.Flags().GetString("log-file")
	submit, _ := cmd.Flags().GetString("submit")
	cancelByte, _ := cmd.Flags().GetUint8("cancel-byte")
	dir, _ := cmd.Flags().GetString("dir")
	env, _ := cmd.Flags().GetStringToString("env")
	noRaw, _ := cmd.Flags().GetBool("no-raw")

	unquoted, err := strconv.Unquote(`"` + submit + `"`)
	if err != nil {
		return nil, fmt.Errorf("invalid submit value %q: %w", submit, err)
	}

	cfg := conf.NewDefaultConfig()
	cfg.Child = &child.ChildConf{
		Dir: dir,
		Env: env,
	}
	if len(args) > 0 {
		cfg.Child.Command = args[0]
		cfg.Child.Args = args[1:]
	}
	cfg.Relay.Submit = unquoted
	cfg.Relay.CancelByte = cancelByte
	cfg.Relay.Raw = !noRaw
	cfg.Log.File = logFile

	if err := cfg.Normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}
