package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate task instances from due recurring chores",
	Run: func(cmd *cobra.Command, args []string) {
		a, err := newApp()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer a.close()

		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		a.loadAll(ctx)
		n := a.chores.GenerateDue(ctx, time.Now().UTC(), a.tasks)
		fmt.Printf("Generated %d task(s) from due chores\n", n)
	},
}
