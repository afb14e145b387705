package commands

import (
	"github.com/spf13/cobra"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:           "pathwise",
	Short:         "Pathway recommendation service",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default ./configs/config.yaml)")
	rootCmd.AddCommand(serveCmd, trainCmd)
}

// Execute 运行根命令。
func Execute() error {
	return rootCmd.Execute()
}
