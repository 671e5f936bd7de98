package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dotai-labs/dotai/internal/config"
)

func init() {
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configGetCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage user settings",
	Long: `Read and write settings stored at ~/.ai/config.yaml.

Keys:
  catalog_root  template root to use instead of the builtin catalog
  log_level     debug, info, warn or error (default warn)
  log_format    text or json (default text)`,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a := appFrom(cmd)
		key, value := args[0], args[1]
		if err := a.cfg.Set(key, value); err != nil {
			return fmt.Errorf("setting config key %q: %w", key, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", key, value)
		return nil
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Get a configuration value, or all of them",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a := appFrom(cmd)
		out := cmd.OutOrStdout()
		if len(args) == 1 {
			fmt.Fprintln(out, a.cfg.Get(args[0]))
			return nil
		}
		for _, key := range config.Keys() {
			fmt.Fprintf(out, "%s = %s\n", key, a.cfg.Get(key))
		}
		return nil
	},
}
