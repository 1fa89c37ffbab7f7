package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kochanowski/housepulse/internal/cache"
	"github.com/kochanowski/housepulse/internal/snapshot"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Export or import the local cache as an encrypted snapshot",
}

func snapshotPassphrase() string {
	pass := os.Getenv("HOUSEPULSE_SNAPSHOT_PASSPHRASE")
	if pass == "" {
		fmt.Fprintln(os.Stderr, "Error: HOUSEPULSE_SNAPSHOT_PASSPHRASE is not set")
		os.Exit(1)
	}
	return pass
}

func snapshotRepo() (*cache.Repository, func()) {
	dbPath := envOr("HOUSEPULSE_DB_PATH", "housepulse.db")
	db, err := cache.Open(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening cache: %v\n", err)
		os.Exit(1)
	}
	return cache.NewRepository(db), func() { db.Close() }
}

var snapshotExportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Encrypt the local cache into a snapshot file",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		pass := snapshotPassphrase()
		repo, closeDB := snapshotRepo()
		defer closeDB()

		n, err := snapshot.Export(repo, args[0], pass)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Exported %d record(s) to %s\n", n, args[0])
	},
}

var snapshotImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Decrypt a snapshot file into the local cache",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		pass := snapshotPassphrase()
		repo, closeDB := snapshotRepo()
		defer closeDB()

		n, err := snapshot.Import(repo, args[0], pass)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Imported %d record(s) from %s\n", n, args[0])
	},
}

func init() {
	snapshotCmd.AddCommand(snapshotExportCmd, snapshotImportCmd)
}
