package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check API availability",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		health, err := newClient().Health(ctx)
		if err != nil {
			return err
		}

		return printOutput(health, func() {
			w := newTabWriter()
			fmt.Fprintf(w, "STATUS\tVERSION\tUPTIME\n")
			fmt.Fprintf(w, "%s\t%s\t%s\n", health.Status, health.Version, health.Uptime)
			w.Flush()
		})
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
