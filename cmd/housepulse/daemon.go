package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

var choreInterval time.Duration

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Run the sync daemon",
	Long: `Load the household state, watch the remote change feed, fire task
reminders and periodically generate task instances from due recurring chores.`,
	Run: func(cmd *cobra.Command, args []string) {
		a, err := newApp()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer a.close()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		a.loadAll(ctx)
		a.reminders.Start(ctx)

		if a.listener != nil {
			go a.listener.Run(ctx)
		}

		go func() {
			ticker := time.NewTicker(choreInterval)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case now := <-ticker.C:
					if n := a.chores.GenerateDue(ctx, now.UTC(), a.tasks); n > 0 {
						a.logger.Info("generated chore tasks", "count", n)
					}
				}
			}
		}()

		a.logger.Info("daemon running", "db", envOr("HOUSEPULSE_DB_PATH", "housepulse.db"))

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		fmt.Println("\nShutting down...")
		cancel()
	},
}

func init() {
	daemonCmd.Flags().DurationVar(&choreInterval, "chore-interval", time.Hour, "how often to generate tasks from due chores")
}
