// Package main is the entry point for the lampbot CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"lampbot/pkg/version"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "lampbot",
	Short: "lampbot - Telegram front-end for IoT street lamps",
	Long: `lampbot relays chat commands to a device-management platform and
replies with the lamp status in human-readable form.`,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version.GetFullVersion())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file path")

	rootCmd.AddCommand(gatewayCmd)
	rootCmd.AddCommand(execCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
