package cmd

import (
	"embed"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

//go:embed configs/config_template.yaml
var configTemplate embed.FS

const templatePath = "configs/config_template.yaml"

func init() {
	templateCmd.Flags().StringP("output", "o", "", "write the template to this file instead of stdout")
	rootCmd.AddCommand(templateCmd)
}

var templateCmd = &cobra.Command{
	Use:   "template",
	Short: "Prints a commented config file",
	Long:  "Prints a commented config file, ready to be edited and passed to the run subcommand",
	Example: `
  # store a template into conf.yaml, then run it
  $ prelay template -o conf.yaml
  $ prelay run conf.yaml
	`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		content, err := configTemplate.ReadFile(templatePath)
		if err != nil {
			return err
		}

		path, _ := cmd.Flags().GetString("output")
		if path == "" {
			_, err = cmd.OutOrStdout().Write(content)
			return err
		}
		if err := os.WriteFile(path, content, 0644); err != nil {
			return fmt.Errorf("template: %w", err)
		}
		return nil
	},
}
