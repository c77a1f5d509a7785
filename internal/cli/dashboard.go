package cli

import (
	"github.com/spf13/cobra"

	"investctl/internal/views"
)

// addDashboardCommand adds the dashboard view.
func addDashboardCommand(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "dashboard",
		Short: "Show the portfolio dashboard",
		Long: `Show the dashboard: portfolio summary, recent active signals,
unread alerts, and market snapshots for the configured symbols.

All sections load together; if any fetch fails the dashboard reports
the failure instead of a partial page.`,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return app.requireAuth(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			st := app.Loader.LoadDashboard(cmd.Context())
			if st.Phase != views.Ready {
				output.Error("Failed to load dashboard: %v", st.Err)
				return st.Err
			}
			d := st.Data

			if output.IsJSON() {
				return output.JSON(d)
			}

			output.Bold("Portfolio")
			output.Printf("  Value:       %s\n", FormatUSD(d.Summary.PortfolioValue))
			output.Printf("  Cash:        %s\n", FormatUSD(d.Summary.CashBalance))
			output.Printf("  Day Change:  %s\n", output.FormatPercentColored(d.Summary.DayChangePct))
			output.Printf("  Total P&L:   %s\n", output.FormatPnL(d.Summary.TotalPL))
			output.Println()

			output.Bold("Markets")
			for _, q := range d.Quotes {
				price := "-"
				if q.HasLatest {
					price = FormatUSD(q.Latest.Close)
				}
				change := output.DimText("n/a")
				if q.HasChange {
					change = output.FormatPercentColored(q.PercentChange)
				}
				output.Printf("  %-6s %12s  %s\n", q.Symbol, price, change)
			}
			output.Println()

			output.Bold("Active Signals")
			if len(d.Signals) == 0 {
				output.Dim("  none")
			}
			for _, s := range d.Signals {
				output.Printf("  %s  %s confidence  %s\n",
					output.SignalTag(s.SignalType),
					FormatConfidence(s.Confidence),
					output.DimText(truncate(s.Rationale, 60)))
			}
			output.Println()

			output.Bold("Unread Alerts")
			if len(d.Alerts) == 0 {
				output.Dim("  none")
			}
			for _, a := range d.Alerts {
				output.Printf("  %s  %s %s\n",
					output.DimText(FormatTimeAgo(a.CreatedAt)),
					truncate(a.Message, 70),
					output.DimText("("+a.ID+")"))
			}
			return nil
		},
	})
}
