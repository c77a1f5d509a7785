// Package cli provides the command-line interface for the investment
// client.
package cli

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"investctl/internal/api"
	"investctl/internal/config"
	"investctl/internal/guard"
	"investctl/internal/logging"
	"investctl/internal/models"
	"investctl/internal/monitor"
	"investctl/internal/session"
	"investctl/internal/store"
	"investctl/internal/views"
	"investctl/internal/workflows"
)

// Version information
const (
	Version   = "0.1.0"
	BuildDate = "2026-08-30"
)

// App holds the application dependencies.
type App struct {
	Config    *config.Config
	ConfigDir string
	Logger    zerolog.Logger
	Sessions  *session.Store
	Client    *api.Client
	Guard     *guard.Guard
	Loader    *views.Loader
	Workflows *workflows.Workflows
	Monitor   *monitor.Monitor
	Journal   *store.Journal

	// User is filled in by requireAuth before a protected command runs.
	User models.User
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, configDir string, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config:    cfg,
		ConfigDir: configDir,
		Logger:    logger,
	}

	app.Sessions = session.NewStore(config.SessionPath(configDir))
	app.Client = api.New(cfg.Service, app.Sessions, logger)
	app.Guard = guard.New(app.Client, app.Sessions, logger)
	app.Loader = views.NewLoader(app.Client, cfg.Dashboard, logger)
	app.Monitor = monitor.New(app.Client, cfg.Alerts.PollInterval, logger)

	journal, err := store.OpenJournal(config.JournalPath(configDir))
	if err != nil {
		logger.Warn().Err(err).Msg("failed to open activity journal, history will be unavailable")
	} else {
		app.Journal = journal
	}
	// A nil journal degrades to no activity recording.
	var recorder workflows.Recorder
	if app.Journal != nil {
		recorder = app.Journal
	}
	app.Workflows = workflows.New(app.Client, app.Sessions, recorder, logger)

	rootCmd := &cobra.Command{
		Use:   "investctl",
		Short: "Investment tracker CLI - portfolio, AI signals, and alerts",
		Long: `investctl is a command-line client for the AI investment service.

It tracks your portfolio, reads and generates AI trading signals, watches
market data, and keeps you informed through alerts.

Use 'investctl help <command>' for more information about a command.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			debug, _ := cmd.Flags().GetBool("debug")
			if debug {
				logging.SetDebugLevel()
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app.Journal != nil {
				app.Journal.Close()
			}
		},
	}

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/investctl)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	// Add all command groups
	addCoreCommands(rootCmd, app)
	addAuthCommands(rootCmd, app)
	addDashboardCommand(rootCmd, app)
	addPortfolioCommand(rootCmd, app)
	addSignalCommands(rootCmd, app)
	addTradeCommands(rootCmd, app)
	addAlertCommands(rootCmd, app)
	addMarketCommands(rootCmd, app)
	addSettingsCommands(rootCmd, app)
	addHistoryCommand(rootCmd, app)
	addWatchCommand(rootCmd, app)

	return rootCmd
}

// requireAuth validates the stored session before a protected command
// runs. On success the resolved user is available on the App.
func (app *App) requireAuth(cmd *cobra.Command) error {
	user, err := app.Guard.Check(cmd.Context())
	if err != nil {
		return err
	}
	app.User = user
	return nil
}

// addCoreCommands adds core utility commands.
func addCoreCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(app))
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{
					"version":    Version,
					"build_date": BuildDate,
				})
			} else {
				output.Printf("investctl v%s\n", Version)
				output.Dim("Build date: %s", BuildDate)
			}
		},
	}
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "View and manage application configuration.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(app.Config)
			}
			showConfig(output, app.Config)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration directory path",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{"path": app.ConfigDir})
			} else {
				output.Println(app.ConfigDir)
			}
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration files",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := app.Config.Validate(); err != nil {
				output.Error("Configuration validation failed: %v", err)
				return err
			}
			if output.IsJSON() {
				output.JSON(map[string]bool{"valid": true})
			} else {
				output.Success("✓ Configuration is valid")
			}
			return nil
		},
	})

	return cmd
}

func showConfig(output *Output, cfg *config.Config) {
	output.Bold("Service")
	output.Printf("  Base URL:        %s\n", cfg.Service.BaseURL)
	output.Printf("  Request Timeout: %s\n", cfg.Service.RequestTimeout)
	output.Println()

	output.Bold("Dashboard")
	output.Printf("  Symbols:         %v\n", cfg.Dashboard.Symbols)
	output.Printf("  Signal Limit:    %d\n", cfg.Dashboard.SignalLimit)
	output.Printf("  Alert Limit:     %d\n", cfg.Dashboard.AlertLimit)
	output.Printf("  Data Interval:   %s\n", cfg.Dashboard.DataInterval)
	output.Println()

	output.Bold("Alerts")
	output.Printf("  Poll Interval:   %s\n", cfg.Alerts.PollInterval)
	output.Println()

	output.Bold("Logging")
	output.Printf("  Level:           %s\n", cfg.Logging.Level)
	output.Printf("  Console:         %v\n", cfg.Logging.Console)
	output.Printf("  File:            %v\n", cfg.Logging.File)
}
