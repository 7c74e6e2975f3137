package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Houssam365/campuShare/internal/pricing"
)

func quoteCmd() *cobra.Command {
	var (
		policy   string
		price    float64
		duration time.Duration
	)
	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Price a booking with a pricing policy",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := pricing.NewRegistry(cfg.HourlyRate, cfg.DailyDiscount).ByName(policy)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s): %.2f\n", p.Name(), p.Description(), p.ComputePrice(price, duration))
			return nil
		},
	}
	cmd.Flags().StringVar(&policy, "policy", pricing.NameHourly, "pricing policy (hourly, daily, flat, free)")
	cmd.Flags().Float64Var(&price, "price", 0, "base price of the listing")
	cmd.Flags().DurationVar(&duration, "duration", time.Hour, "booking length, e.g. 3h or 240h")
	return cmd
}
