package cli

import (
	"github.com/spf13/cobra"

	"investctl/internal/models"
)

// addMarketCommands adds market data, asset catalog, and news views.
func addMarketCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newAssetsCmd(app))
	rootCmd.AddCommand(newMarketCmd(app))
	rootCmd.AddCommand(newNewsCmd(app))
}

func newAssetsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assets",
		Short: "List tradable assets",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return app.requireAuth(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			assetType, _ := cmd.Flags().GetString("type")
			assets, err := app.Client.MarketAssets(cmd.Context(), models.AssetType(assetType))
			if err != nil {
				output.Error("Failed to load assets: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(assets)
			}

			table := NewTable(output, "SYMBOL", "NAME", "TYPE", "EXCHANGE")
			for _, a := range assets {
				table.AddRow(a.Symbol, a.Name, string(a.AssetType), a.Exchange)
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().String("type", "", "filter by asset type (stock, crypto)")
	return cmd
}

func newMarketCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "market SYMBOL",
		Short: "Show market data for a symbol",
		Args:  cobra.ExactArgs(1),
		Example: `  investctl market AAPL
  investctl market BTC --interval 1h --limit 24`,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return app.requireAuth(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			interval, _ := cmd.Flags().GetString("interval")
			limit, _ := cmd.Flags().GetInt("limit")

			data, err := app.Client.MarketData(cmd.Context(), args[0], interval, limit)
			if err != nil {
				output.Error("Failed to load market data: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(data)
			}

			output.Bold("%s (%s)", data.Symbol, data.Interval)
			if latest, ok := data.Data.Latest(); ok {
				change := output.DimText("n/a")
				if pct, ok := data.Data.PercentChange(); ok {
					change = output.FormatPercentColored(pct)
				}
				output.Printf("  Last:   %s  %s\n", FormatUSD(latest.Close), change)
			}
			output.Println()

			table := NewTable(output, "TIME", "OPEN", "HIGH", "LOW", "CLOSE", "VOLUME")
			for _, bar := range data.Data {
				table.AddRow(
					bar.Timestamp,
					FormatUSD(bar.Open),
					FormatUSD(bar.High),
					FormatUSD(bar.Low),
					FormatUSD(bar.Close),
					FormatCompact(bar.Volume),
				)
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().String("interval", "", "bar interval (1m, 5m, 15m, 1h, 4h, 1d)")
	cmd.Flags().Int("limit", 30, "number of bars (1-1000)")
	return cmd
}

func newNewsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "news [SYMBOL]",
		Short: "Show news sentiment",
		Args:  cobra.MaximumNArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return app.requireAuth(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			symbol := ""
			if len(args) > 0 {
				symbol = args[0]
			}
			limit, _ := cmd.Flags().GetInt("limit")

			items, err := app.Client.News(cmd.Context(), symbol, limit)
			if err != nil {
				output.Error("Failed to load news: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(items)
			}

			if len(items) == 0 {
				output.Dim("No news.")
				return nil
			}

			for _, item := range items {
				output.Printf("%s  %s  %s\n",
					output.SentimentTag(item.SentimentScore),
					output.DimText(FormatTimeAgo(item.PublishedAt)),
					truncate(item.Title, 80))
				output.Dim("        %s", item.Source)
			}
			return nil
		},
	}

	cmd.Flags().Int("limit", 20, "number of items (1-100)")
	return cmd
}
