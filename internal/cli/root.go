package cli

import (
	"fmt"

	"ukrbus/internal/config"
	"ukrbus/internal/utils"

	"github.com/spf13/cobra"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:           "ukrbus",
	Short:         "Ukrbus schedule and preorder backend",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "configuration file (yaml or json)")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

func loadEnv() (config.Env, error) {
	env, err := config.Load(cfgPath)
	if err != nil {
		return config.Env{}, fmt.Errorf("load config: %w", err)
	}
	utils.InitLogger(env.Log.Level, env.Log.Format)
	return env, nil
}
