package cli

import (
	"github.com/spf13/cobra"

	"investctl/internal/views"
)

// addSignalCommands adds the signals view and generation workflow.
func addSignalCommands(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "signals",
		Short: "AI trading signals",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return app.requireAuth(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			all, _ := cmd.Flags().GetBool("all")
			limit, _ := cmd.Flags().GetInt("limit")
			return listSignals(cmd, app, !all, limit)
		},
	}
	cmd.Flags().Bool("all", false, "include expired and inactive signals")
	cmd.Flags().Int("limit", 20, "maximum number of signals")

	cmd.AddCommand(newGenerateCmd(app))
	rootCmd.AddCommand(cmd)
}

func listSignals(cmd *cobra.Command, app *App, activeOnly bool, limit int) error {
	output := NewOutput(cmd)

	st := app.Loader.LoadSignals(cmd.Context(), activeOnly, limit)
	if st.Phase != views.Ready {
		output.Error("Failed to load signals: %v", st.Err)
		return st.Err
	}

	if output.IsJSON() {
		return output.JSON(st.Data)
	}

	assetSymbols := make(map[string]string, len(st.Data.Assets))
	for _, a := range st.Data.Assets {
		assetSymbols[a.ID] = a.Symbol
	}

	if len(st.Data.Signals) == 0 {
		output.Dim("No signals. Run 'investctl signals generate' to create some.")
		return nil
	}

	table := NewTable(output, "SIGNAL", "SYMBOL", "CONFIDENCE", "TARGET", "STOP", "AGE", "RATIONALE")
	for _, s := range st.Data.Signals {
		symbol := assetSymbols[s.AssetID]
		if symbol == "" {
			symbol = s.AssetID
		}
		target, stop := "-", "-"
		if s.PriceTarget != nil {
			target = FormatUSD(*s.PriceTarget)
		}
		if s.StopLoss != nil {
			stop = FormatUSD(*s.StopLoss)
		}
		table.AddRow(
			output.SignalTag(s.SignalType),
			symbol,
			FormatConfidence(s.Confidence),
			target,
			stop,
			FormatTimeAgo(s.CreatedAt),
			truncate(s.Rationale, 50),
		)
	}
	table.Render()
	return nil
}

func newGenerateCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "generate SYMBOL...",
		Short: "Generate fresh signals for the given symbols",
		Example: `  investctl signals generate AAPL MSFT
  investctl signals generate BTC`,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return app.requireAuth(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			result, refreshed, err := app.Workflows.GenerateSignals(cmd.Context(), args)
			if err != nil {
				output.Error("Signal generation failed: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"message": result.Message,
					"signals": refreshed,
				})
			}

			output.Success("✓ %s", result.Message)
			output.Printf("Active signals: %d\n", len(refreshed))
			return nil
		},
	}
}
