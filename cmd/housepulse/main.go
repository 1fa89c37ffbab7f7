package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "housepulse",
	Short: "Offline-first household sync core",
	Long: `HousePulse keeps a household's tasks, chores and shopping lists in a
local cache and reconciles them with the shared remote store. Mutations apply
locally first; sync failures roll back or reload, never block.`,
}

func main() {
	rootCmd.AddCommand(daemonCmd, generateCmd, snapshotCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
