package cli

import (
	"github.com/spf13/cobra"

	"investctl/internal/views"
)

// addPortfolioCommand adds the portfolio view.
func addPortfolioCommand(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "portfolio",
		Short: "Show portfolio summary, positions, and history",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return app.requireAuth(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			st := app.Loader.LoadPortfolio(cmd.Context())
			if st.Phase != views.Ready {
				output.Error("Failed to load portfolio: %v", st.Err)
				return st.Err
			}
			p := st.Data

			if output.IsJSON() {
				return output.JSON(p)
			}

			output.Bold("Summary")
			output.Printf("  Value:       %s\n", FormatUSD(p.Summary.PortfolioValue))
			output.Printf("  Cash:        %s\n", FormatUSD(p.Summary.CashBalance))
			output.Printf("  Day Change:  %s\n", output.FormatPercentColored(p.Summary.DayChangePct))
			output.Printf("  Total P&L:   %s\n", output.FormatPnL(p.Summary.TotalPL))
			output.Println()

			output.Bold("Positions")
			if len(p.Positions) == 0 {
				output.Dim("  none")
			} else {
				table := NewTable(output, "ASSET", "PROVIDER", "QTY", "ENTRY", "CURRENT", "VALUE", "P&L")
				for _, pos := range p.Positions {
					table.AddRow(
						pos.AssetID,
						string(pos.Provider),
						formatQuantity(pos.Quantity),
						FormatUSD(pos.AvgEntryPrice),
						FormatUSD(pos.CurrentPrice),
						FormatUSD(pos.MarketValue),
						output.FormatPnL(pos.UnrealizedPL),
					)
				}
				table.Render()
			}
			output.Println()

			output.Bold("History")
			showHistory, _ := cmd.Flags().GetBool("history")
			if !showHistory {
				output.Dim("  %d snapshots (use --history to list)", len(p.History))
				return nil
			}
			table := NewTable(output, "DATE", "VALUE", "DAY CHANGE", "TOTAL P&L")
			for _, snap := range p.History {
				table.AddRow(
					snap.Timestamp.Format("2006-01-02"),
					FormatUSD(snap.PortfolioValue),
					FormatPercent(snap.DayChangePct),
					FormatPnL(snap.TotalPL),
				)
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().Bool("history", false, "list historical snapshots")
	rootCmd.AddCommand(cmd)
}

func formatQuantity(qty float64) string {
	if qty == float64(int64(qty)) {
		return FormatCompactInt(int64(qty))
	}
	// Fractional quantities happen with crypto.
	return trimZeros(qty)
}
