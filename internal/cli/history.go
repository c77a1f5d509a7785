package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// addHistoryCommand adds the local activity history view.
func addHistoryCommand(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show local activity history",
		Long: `Show the local activity journal: logins, generated signals,
acknowledged alerts, and settings changes recorded by this client.
The journal is local; it never leaves this machine.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			if app.Journal == nil {
				return fmt.Errorf("activity journal is unavailable")
			}

			limit, _ := cmd.Flags().GetInt("limit")
			entries, err := app.Journal.Recent(cmd.Context(), limit)
			if err != nil {
				output.Error("Failed to read history: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(entries)
			}

			if len(entries) == 0 {
				output.Dim("No recorded activity.")
				return nil
			}

			table := NewTable(output, "TIME", "ACTION", "DETAIL")
			for _, e := range entries {
				table.AddRow(
					e.CreatedAt.Local().Format("2006-01-02 15:04:05"),
					string(e.Kind),
					truncate(e.Detail, 60),
				)
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().Int("limit", 50, "maximum number of entries")
	rootCmd.AddCommand(cmd)
}
