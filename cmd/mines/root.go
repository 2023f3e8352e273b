package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "mines",
		Short: "Minesweeper as a service or in the terminal",
		Long: `mines deals classic Minesweeper boards.

Serve games over HTTP and WebSocket
	mines serve -c config.yaml

Play in the terminal
	mines play --difficulty hard
`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newServeCmd(), newPlayCmd())

	return rootCmd
}
