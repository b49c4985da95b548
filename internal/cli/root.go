// Package cli implements the ezseo command line interface.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ezseobasics/ezseo/pkg/client"
)

var (
	cfgFile      string
	apiURL       string
	outputFormat string
)

var rootCmd = &cobra.Command{
	Use:   "ezseo",
	Short: "Command line interface for the ezseo API",
	Long: `ezseo is a command line interface for the ezseo SEO tooling API.

Manage your account, browse subscription plans and track tool usage
from the terminal.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default $HOME/.ezseo/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "API base URL")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "table", "output format (table, json, yaml)")

	viper.BindPFlag("api_url", rootCmd.PersistentFlags().Lookup("api-url"))
	viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".ezseo"))
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
	}

	viper.SetEnvPrefix("EZSEO")
	viper.AutomaticEnv()

	viper.SetDefault("api_url", client.DefaultBaseURL)

	// Missing config file is fine; flags and env still apply
	_ = viper.ReadInConfig()
}

// configDir returns the CLI config directory, creating it when absent
func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	dir := filepath.Join(home, ".ezseo")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("creating config directory: %w", err)
	}
	return dir, nil
}

// newClient builds an API client from the effective configuration,
// attaching the stored token when present
func newClient() *client.Client {
	opts := []client.Option{}
	if token := viper.GetString("token"); token != "" {
		opts = append(opts, client.WithToken(token))
	}
	return client.New(viper.GetString("api_url"), opts...)
}
