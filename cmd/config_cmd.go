package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ShivamAgarwal-code/AI-Cortex/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and edit the cortex configuration",
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path in use",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), resolveConfigPath())
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Update a setting in the config file, keeping comments",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setConfigValue(resolveConfigPath(), args[0], args[1])
	},
}

// setConfigValue dispatches the editable keys. Everything else is
// rejected rather than silently written, so typos surface immediately.
func setConfigValue(path, key, value string) error {
	switch key {
	case "server_url":
		if err := config.ValidateServerURL(value); err != nil {
			return err
		}
		return config.SaveServerURL(path, value)
	case "auto_reconnect":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("auto_reconnect must be true or false, got %q", value)
		}
		return config.SaveAutoReconnect(path, b)
	default:
		return fmt.Errorf("unknown config key %q (editable: server_url, auto_reconnect)", key)
	}
}

func init() {
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}
