package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage CLI configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a default config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := configDir()
		if err != nil {
			return err
		}

		path := filepath.Join(dir, "config.yaml")
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config file already exists: %s", path)
		}

		viper.Set("api_url", viper.GetString("api_url"))
		viper.Set("output", viper.GetString("output"))
		if err := viper.WriteConfigAs(path); err != nil {
			return fmt.Errorf("writing config: %w", err)
		}

		fmt.Printf("Created %s\n", path)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a config value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return saveConfigValue(args[0], args[1])
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Show a config value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !viper.IsSet(args[0]) {
			return fmt.Errorf("unknown config key: %s", args[0])
		}
		fmt.Println(viper.GetString(args[0]))
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show all config values",
	RunE: func(cmd *cobra.Command, args []string) error {
		settings := viper.AllSettings()
		// The token is a credential; show presence only
		if _, ok := settings["token"]; ok {
			settings["token"] = "(set)"
		}

		return printOutput(settings, func() {
			w := newTabWriter()
			fmt.Fprintf(w, "KEY\tVALUE\n")
			for k, v := range settings {
				fmt.Fprintf(w, "%s\t%v\n", k, v)
			}
			w.Flush()
		})
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configListCmd)
	rootCmd.AddCommand(configCmd)
}
