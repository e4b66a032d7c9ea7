// Package cli implements the crv command-line client for the code
// review service.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	applicationName = "crv"
	version         = "1.0.0"
)

var (
	cfgFile   string
	serverURL string
	verbose   bool
)

var rootCmd = &cobra.Command{
	Use:   applicationName,
	Short: "AI code review from the command line",
	Long: `crv is a command-line client for the code review service.

It authenticates against the server's GitHub OAuth flow, submits code
for AI review and inspects pull requests through the server's GitHub
proxy.`,
	Version: version,
}

// Execute runs the root command. Called once from main.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.crv.yaml)")
	rootCmd.PersistentFlags().StringVarP(&serverURL, "server", "s", "", "server URL (overrides the active profile)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	_ = viper.BindPFlag("server", rootCmd.PersistentFlags().Lookup("server"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

// initConfig reads the config file and matching environment variables.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName("." + applicationName)
	}

	viper.SetEnvPrefix("CRV")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && viper.GetBool("verbose") {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// getConfigPath resolves the config file location.
func getConfigPath() (string, error) {
	if cfgFile != "" {
		absPath, err := filepath.Abs(cfgFile)
		if err != nil {
			return "", fmt.Errorf("resolve config path: %w", err)
		}
		return absPath, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, "."+applicationName+".yaml"), nil
}
