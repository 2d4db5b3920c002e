package cmd

import (
	"fmt"

	"github.com/ahmednagradev/ansnips/pkg/config"
	"github.com/ahmednagradev/ansnips/pkg/output"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Read and change configuration",
	Long: `Read and change values in the user config file, for example:

  ansnips config set baas.endpoint https://cloud.example.com/v1
  ansnips config get baas.project`,
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		value := config.GetString(args[0])
		if output.IsJSON() {
			return output.Print("", map[string]string{args[0]: value})
		}
		fmt.Fprintln(output.Stdout(), value)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Store a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.SetString(args[0], args[1]); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
		output.PrintSuccess("✓ %s = %s (%s)", args[0], args[1], config.GetConfigFilePath())
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file location",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(output.Stdout(), config.GetConfigFilePath())
	},
}

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configPathCmd)
}
