package cli

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"investctl/internal/notify"
	"investctl/internal/views"
)

// addWatchCommand adds the live dashboard that hosts the alert
// monitor.
func addWatchCommand(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Live dashboard with background alert polling",
		Long: `Re-render the dashboard on an interval while the alert monitor
polls for unread alerts in the background. Stop with Ctrl-C.`,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return app.requireAuth(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			refresh, _ := cmd.Flags().GetDuration("refresh")

			ctx := cmd.Context()
			app.Monitor.Start(ctx)
			defer app.Monitor.Stop()

			sigs := make(chan os.Signal, 1)
			signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
			defer signal.Stop(sigs)

			ticker := time.NewTicker(refresh)
			defer ticker.Stop()

			notifier := notify.NewTerminalNotifier(cmd.OutOrStdout())
			hadUnread := app.Monitor.HasUnread()

			renderWatch(cmd, app, output)
			for {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-sigs:
					output.Println()
					output.Dim("Stopped.")
					return nil
				case <-ticker.C:
					renderWatch(cmd, app, output)
					unread := app.Monitor.HasUnread()
					if unread && !hadUnread {
						notifier.Notify(ctx, "investctl", "You have unread alerts")
					}
					hadUnread = unread
				}
			}
		},
	}

	cmd.Flags().Duration("refresh", 30*time.Second, "dashboard refresh interval")
	rootCmd.AddCommand(cmd)
}

func renderWatch(cmd *cobra.Command, app *App, output *Output) {
	st := app.Loader.LoadDashboard(cmd.Context())
	if st.Phase != views.Ready {
		output.Error("Refresh failed: %v", st.Err)
		return
	}
	d := st.Data

	output.Println()
	bell := ""
	if app.Monitor.HasUnread() {
		bell = "  " + output.Yellow("● unread alerts")
	}
	output.Bold("%s  %s%s", time.Now().Format("15:04:05"),
		FormatUSD(d.Summary.PortfolioValue), bell)
	output.Printf("  Day %s  Total %s\n",
		output.FormatPercentColored(d.Summary.DayChangePct),
		output.FormatPnL(d.Summary.TotalPL))

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
}
