package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"mdr/internal/notify"
)

var notifyCmd = &cobra.Command{
	Use:   "notify-test",
	Short: "Send a test notification to the configured Slack channel",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
		defer cancel()
		if err := notify.NewManager(slog.Default()).SendTest(ctx); err != nil {
			return fmt.Errorf("notification failed: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Notification sent.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(notifyCmd)
}
