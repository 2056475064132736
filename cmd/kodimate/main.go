package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const version = "1.0.0"

var configPath string

func main() {
	rootCmd := &cobra.Command{
		Use:   "kodimate",
		Short: "Kodi control tools for AI assistants",
		Long: "KodiMate exposes a Kodi media center's JSON-RPC API as MCP tools\n" +
			"and a small CLI: search the library, check what exists, control\n" +
			"playback, and trigger targeted library scans.",
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to configuration file (default: environment only)")

	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true

	rootCmd.AddCommand(
		newVersionCmd(),
		newServeCmd(),
		newPingCmd(),
		newStatsCmd(),
		newRecentCmd(),
		newScanCmd(),
		newPlayCmd(),
		newRemoteCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, styleError.Render(err.Error()))
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("KodiMate v%s\n", version)
		},
	}
}
