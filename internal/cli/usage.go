package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var usageCmd = &cobra.Command{
	Use:   "usage",
	Short: "Track and inspect monthly tool usage",
}

var usageStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show quota standing for the current month",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		status, err := newClient().UsageStatus(ctx)
		if err != nil {
			return err
		}

		return printOutput(status, func() {
			w := newTabWriter()
			fmt.Fprintf(w, "PLAN\tUSED\tLIMIT\tCAN PERFORM\n")
			fmt.Fprintf(w, "%s\t%d\t%s\t%t\n",
				status.Plan, status.UsageThisMonth, formatLimit(status.Limit), status.CanPerform)
			w.Flush()
		})
	},
}

var usageTrackCmd = &cobra.Command{
	Use:   "track [action]",
	Short: "Record one tool action (keyword_analysis, page_analysis, topical_map)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		result, err := newClient().TrackUsage(ctx, args[0])
		if err != nil {
			return err
		}

		fmt.Printf("Recorded %s: %d used, %s remaining\n",
			args[0], result.Status.UsageThisMonth, remaining(result.Status.Limit, result.Status.UsageThisMonth))
		return nil
	},
}

var usageEventsCmd = &cobra.Command{
	Use:   "events",
	Short: "List recent usage events",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		events, err := newClient().RecentEvents(ctx, limit)
		if err != nil {
			return err
		}

		return printOutput(events, func() {
			w := newTabWriter()
			fmt.Fprintf(w, "ID\tACTION\tWHEN\n")
			for _, e := range events {
				fmt.Fprintf(w, "%d\t%s\t%s\n", e.ID, e.Action, e.CreatedAt.Local().Format(time.RFC822))
			}
			w.Flush()
		})
	},
}

func remaining(limit, used int) string {
	if limit < 0 {
		return "unlimited"
	}
	left := limit - used
	if left < 0 {
		left = 0
	}
	return fmt.Sprintf("%d", left)
}

func init() {
	usageEventsCmd.Flags().Int("limit", 20, "maximum number of events to list")

	usageCmd.AddCommand(usageStatusCmd)
	usageCmd.AddCommand(usageTrackCmd)
	usageCmd.AddCommand(usageEventsCmd)
	rootCmd.AddCommand(usageCmd)
}
