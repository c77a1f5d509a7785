package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// addAuthCommands adds authentication commands.
func addAuthCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newLoginCmd(app))
	rootCmd.AddCommand(newRegisterCmd(app))
	rootCmd.AddCommand(newLogoutCmd(app))
	rootCmd.AddCommand(newWhoamiCmd(app))
}

// promptIfEmpty reads a value from stdin when the flag was not given.
func promptIfEmpty(cmd *cobra.Command, value, label string) (string, error) {
	if value != "" {
		return value, nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: ", label)
	reader := bufio.NewReader(cmd.InOrStdin())
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func newLoginCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to the investment service",
		Example: `  investctl login --username alice
  investctl login --username alice --password s3cret`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			username, _ := cmd.Flags().GetString("username")
			password, _ := cmd.Flags().GetString("password")

			var err error
			if username, err = promptIfEmpty(cmd, username, "Username"); err != nil {
				return err
			}
			if password, err = promptIfEmpty(cmd, password, "Password"); err != nil {
				return err
			}

			if err := app.Workflows.Login(cmd.Context(), username, password); err != nil {
				output.Error("Login failed: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{"logged_in": true, "username": username})
			}
			output.Success("✓ Logged in as %s", username)
			return nil
		},
	}

	cmd.Flags().String("username", "", "account username")
	cmd.Flags().String("password", "", "account password")
	return cmd
}

func newRegisterCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and log in",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			username, _ := cmd.Flags().GetString("username")
			email, _ := cmd.Flags().GetString("email")
			password, _ := cmd.Flags().GetString("password")

			var err error
			if username, err = promptIfEmpty(cmd, username, "Username"); err != nil {
				return err
			}
			if email, err = promptIfEmpty(cmd, email, "Email"); err != nil {
				return err
			}
			if password, err = promptIfEmpty(cmd, password, "Password"); err != nil {
				return err
			}

			user, err := app.Workflows.Register(cmd.Context(), username, email, password)
			if err != nil {
				output.Error("Registration failed: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(user)
			}
			output.Success("✓ Account created, logged in as %s", user.Username)
			return nil
		},
	}

	cmd.Flags().String("username", "", "account username")
	cmd.Flags().String("email", "", "account email")
	cmd.Flags().String("password", "", "account password")
	return cmd
}

func newLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Drop the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := app.Workflows.Logout(cmd.Context()); err != nil {
				output.Error("Logout failed: %v", err)
				return err
			}
			if output.IsJSON() {
				return output.JSON(map[string]bool{"logged_out": true})
			}
			output.Success("✓ Logged out")
			return nil
		},
	}
}

func newWhoamiCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the authenticated account",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return app.requireAuth(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(app.User)
			}
			output.Bold(app.User.Username)
			output.Printf("  Email:   %s\n", app.User.Email)
			output.Printf("  Member:  %s\n", FormatTimeAgo(app.User.CreatedAt))
			if !app.User.IsActive {
				output.Warning("  Account is inactive")
			}
			return nil
		},
	}
}
