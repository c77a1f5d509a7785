package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"investctl/internal/models"
	"investctl/internal/views"
)

// addSettingsCommands adds the settings view and its workflows.
func addSettingsCommands(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Exchange credentials and risk settings",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return app.requireAuth(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			st := app.Loader.LoadSettings(cmd.Context())
			if st.Phase != views.Ready {
				output.Error("Failed to load settings: %v", st.Err)
				return st.Err
			}
			p := st.Data

			if output.IsJSON() {
				return output.JSON(p)
			}

			output.Bold("Exchange Credentials")
			if len(p.Configs) == 0 {
				output.Dim("  none configured")
			} else {
				table := NewTable(output, "PROVIDER", "KEY", "PAPER", "UPDATED", "ID")
				for _, c := range p.Configs {
					paper := "no"
					if c.IsPaperTrading {
						paper = "yes"
					}
					table.AddRow(string(c.Provider), c.MaskedKey(), paper,
						FormatTimeAgo(c.UpdatedAt), output.DimText(c.ID))
				}
				table.Render()
			}
			output.Println()

			output.Bold("Risk Settings")
			output.Printf("  Max Position Size:  %.1f%%\n", p.Risk.MaxPositionSize)
			output.Printf("  Max Loss Per Trade: %.1f%%\n", p.Risk.MaxLossPerTrade)
			output.Printf("  Default Stop Loss:  %.1f%%\n", p.Risk.DefaultStopLoss)
			if p.Risk.TrailingStopLoss && p.Risk.TrailingStopPct != nil {
				output.Printf("  Trailing Stop:      %.1f%%\n", *p.Risk.TrailingStopPct)
			} else {
				output.Printf("  Trailing Stop:      off\n")
			}
			output.Println()

			output.Bold("AI Models")
			for _, m := range p.Models {
				state := output.Green("enabled")
				if !m.Enabled {
					state = output.DimText("disabled")
				}
				output.Printf("  %-20s %s  %s\n", m.Name, state, output.DimText(m.ModelType))
			}
			return nil
		},
	}

	cmd.AddCommand(newSettingsSetKeyCmd(app))
	cmd.AddCommand(newSettingsDeleteKeyCmd(app))
	cmd.AddCommand(newSettingsRiskCmd(app))
	rootCmd.AddCommand(cmd)
}

func newSettingsSetKeyCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set-key PROVIDER",
		Short: "Save exchange API credentials",
		Long: `Save API credentials for a provider (alpaca or binance).
The service keeps one credential set per provider; saving replaces any
existing one.`,
		Args: cobra.ExactArgs(1),
		Example: `  investctl settings set-key alpaca --api-key KEY --api-secret SECRET
  investctl settings set-key binance --api-key KEY --api-secret SECRET --live`,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return app.requireAuth(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			apiKey, _ := cmd.Flags().GetString("api-key")
			apiSecret, _ := cmd.Flags().GetString("api-secret")
			live, _ := cmd.Flags().GetBool("live")

			req := models.APIConfigRequest{
				Provider:       models.Provider(args[0]),
				APIKey:         apiKey,
				APISecret:      apiSecret,
				IsPaperTrading: !live,
			}

			_, saved, err := app.Workflows.SaveAPIConfig(cmd.Context(), nil, req)
			if err != nil {
				output.Error("Failed to save credentials: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(saved)
			}
			output.Success("✓ Credentials saved for %s (%s)", saved.Provider, saved.MaskedKey())
			return nil
		},
	}

	cmd.Flags().String("api-key", "", "provider API key")
	cmd.Flags().String("api-secret", "", "provider API secret")
	cmd.Flags().Bool("live", false, "configure for live trading instead of paper")
	return cmd
}

func newSettingsDeleteKeyCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete-key CONFIG_ID",
		Short: "Delete stored exchange credentials",
		Args:  cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return app.requireAuth(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			if _, err := app.Workflows.DeleteAPIConfig(cmd.Context(), nil, args[0]); err != nil {
				output.Error("Failed to delete credentials: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{"config_id": args[0], "deleted": true})
			}
			output.Success("✓ Credentials deleted")
			return nil
		},
	}
}

func newSettingsRiskCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "risk",
		Short: "Update risk settings",
		Long: `Update risk management settings. Unset flags keep their current
values. Enabling the trailing stop requires --trailing-pct.`,
		Example: `  investctl settings risk --max-position 15 --max-loss 2
  investctl settings risk --trailing --trailing-pct 3.5`,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return app.requireAuth(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			// Start from the current settings so unset flags keep
			// their values.
			current, err := app.Client.RiskSettings(cmd.Context())
			if err != nil {
				output.Error("Failed to load current risk settings: %v", err)
				return err
			}

			if cmd.Flags().Changed("max-position") {
				current.MaxPositionSize, _ = cmd.Flags().GetFloat64("max-position")
			}
			if cmd.Flags().Changed("max-loss") {
				current.MaxLossPerTrade, _ = cmd.Flags().GetFloat64("max-loss")
			}
			if cmd.Flags().Changed("stop-loss") {
				current.DefaultStopLoss, _ = cmd.Flags().GetFloat64("stop-loss")
			}
			if cmd.Flags().Changed("trailing") {
				current.TrailingStopLoss, _ = cmd.Flags().GetBool("trailing")
				if !current.TrailingStopLoss {
					current.TrailingStopPct = nil
				}
			}
			if cmd.Flags().Changed("trailing-pct") {
				pct, _ := cmd.Flags().GetFloat64("trailing-pct")
				current.TrailingStopPct = &pct
			}

			saved, err := app.Workflows.SaveRiskSettings(cmd.Context(), current)
			if err != nil {
				output.Error("Failed to save risk settings: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(saved)
			}
			output.Success("✓ Risk settings saved")
			output.Printf("  Max Position Size:  %s%%\n", strconv.FormatFloat(saved.MaxPositionSize, 'f', -1, 64))
			output.Printf("  Max Loss Per Trade: %s%%\n", strconv.FormatFloat(saved.MaxLossPerTrade, 'f', -1, 64))
			return nil
		},
	}

	cmd.Flags().Float64("max-position", 0, "max position size as % of portfolio")
	cmd.Flags().Float64("max-loss", 0, "max loss per trade as % of portfolio")
	cmd.Flags().Float64("stop-loss", 0, "default stop loss % below entry")
	cmd.Flags().Bool("trailing", false, "enable trailing stop loss")
	cmd.Flags().Float64("trailing-pct", 0, "trailing stop percentage")
	return cmd
}
