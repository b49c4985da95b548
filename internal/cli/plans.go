package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var plansCmd = &cobra.Command{
	Use:   "plans",
	Short: "List subscription plans",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		plans, err := newClient().ListPlans(ctx)
		if err != nil {
			return err
		}

		return printOutput(plans, func() {
			w := newTabWriter()
			fmt.Fprintf(w, "PLAN\tPRICE\tLIMIT\tFEATURES\n")
			for _, p := range plans {
				name := p.Name
				if p.IsPopular {
					name += " *"
				}
				fmt.Fprintf(w, "%s\t$%d/%s\t%s\t%s\n",
					name, p.Price, p.Interval, formatLimit(p.Limit), strings.Join(p.Features, ", "))
			}
			w.Flush()
		})
	},
}

var checkoutCmd = &cobra.Command{
	Use:   "checkout [plan]",
	Short: "Get a payment page URL to buy or change a plan",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		result, err := newClient().Checkout(ctx, args[0])
		if err != nil {
			return err
		}

		fmt.Println("Complete payment in your browser:")
		fmt.Println()
		fmt.Printf("  %s\n", result.PaymentURL)
		return nil
	},
}

// formatLimit renders the monthly analysis limit, -1 meaning unlimited
func formatLimit(limit int) string {
	if limit < 0 {
		return "unlimited"
	}
	return fmt.Sprintf("%d/month", limit)
}

func init() {
	rootCmd.AddCommand(plansCmd)
	rootCmd.AddCommand(checkoutCmd)
}
