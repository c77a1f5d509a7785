package cli

import (
	"github.com/spf13/cobra"

	"investctl/internal/views"
)

// addAlertCommands adds the alerts view and the mark-read workflow.
func addAlertCommands(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "alerts",
		Short: "Show notifications",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return app.requireAuth(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			st := app.Loader.LoadAlerts(cmd.Context())
			if st.Phase != views.Ready {
				output.Error("Failed to load alerts: %v", st.Err)
				return st.Err
			}

			if output.IsJSON() {
				return output.JSON(st.Data)
			}

			if len(st.Data) == 0 {
				output.Dim("No alerts.")
				return nil
			}

			table := NewTable(output, "STATUS", "TYPE", "TIME", "MESSAGE", "ID")
			for _, a := range st.Data {
				table.AddRow(
					output.ReadTag(a.IsRead),
					string(a.AlertType),
					FormatTimeAgo(a.CreatedAt),
					truncate(a.Message, 60),
					output.DimText(a.ID),
				)
			}
			table.Render()
			return nil
		},
	}

	cmd.AddCommand(newAlertReadCmd(app))
	rootCmd.AddCommand(cmd)
}

func newAlertReadCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "read ALERT_ID",
		Short: "Mark an alert as read",
		Args:  cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return app.requireAuth(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			if _, err := app.Workflows.MarkAlertRead(cmd.Context(), nil, args[0]); err != nil {
				output.Error("Failed to mark alert read: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{"alert_id": args[0], "read": true})
			}
			output.Success("✓ Alert marked as read")
			return nil
		},
	}
}
