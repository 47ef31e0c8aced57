package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	configPath string

	rootCmd = &cobra.Command{
		Use:           "sentinel",
		Short:         "Strategy simulations (DCA, buy-the-dip, trend following) over daily price history",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
)

func init() {
	defaultPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		defaultPath = v
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", defaultPath, "path to the YAML config file")
	rootCmd.AddCommand(newRunCmd(), newSimulateCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
