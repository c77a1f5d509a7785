package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"investctl/internal/models"
	"investctl/internal/views"
)

// addTradeCommands adds the trades view.
func addTradeCommands(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "trades",
		Short: "Show trade history",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return app.requireAuth(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			limit, _ := cmd.Flags().GetInt("limit")

			st := app.Loader.LoadTrades(cmd.Context(), limit)
			if st.Phase != views.Ready {
				output.Error("Failed to load trades: %v", st.Err)
				return st.Err
			}

			if output.IsJSON() {
				return output.JSON(st.Data)
			}

			if len(st.Data) == 0 {
				output.Dim("No trades yet.")
				return nil
			}

			table := NewTable(output, "TIME", "SIDE", "ASSET", "QTY", "PRICE", "STATUS")
			for _, t := range st.Data {
				side := output.Green(strings.ToUpper(string(t.Side)))
				if t.Side == models.TradeSideSell {
					side = output.Red(strings.ToUpper(string(t.Side)))
				}
				table.AddRow(
					t.CreatedAt.Format("2006-01-02 15:04"),
					side,
					t.AssetID,
					formatQuantity(t.Quantity),
					FormatUSD(t.Price),
					t.Status,
				)
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().Int("limit", 20, "maximum number of trades")
	rootCmd.AddCommand(cmd)
}
