// Package cmd defines and implements the CLI commands for the
// harvester executable.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/webgov/harvester/internal/config"
	"github.com/webgov/harvester/internal/logging"
)

var cfgFile string

// appKeyType is the key for storing the App in the context.
type appKeyType string

const appKey appKeyType = "app"

// App bundles the services every command needs. Commands pull it from
// the context, so tests can inject a fake via newApp.
type App struct {
	Config config.Config
	Logger *zap.Logger
}

// Close flushes buffered log output.
func (a *App) Close() {
	_ = a.Logger.Sync() //nolint:errcheck // stderr sync is best-effort
}

// newApp is the application factory. It is a variable so tests can
// replace it.
var newApp = func(context.Context) (*App, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return &App{
		Config: cfg,
		Logger: logging.Must(cfg.Logging.Development),
	}, nil
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "harvester",
		Short: "Harvests historical crawler-governance signals from the Internet Archive.",
		Long: `harvester replays the archived history of robots.txt files, meta
robots tags, and X-Robots-Tag headers for a list of domains, building a
panel dataset of how sites governed crawler access over time.`,

		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			appInstance, err := newApp(cmd.Context())
			if err != nil {
				return fmt.Errorf("initialize application services: %w", err)
			}
			cmd.SetContext(context.WithValue(cmd.Context(), appKey, appInstance))
			return nil
		},

		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			if appInstance, ok := cmd.Context().Value(appKey).(*App); ok && appInstance != nil {
				appInstance.Close()
			}
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is built-in defaults plus HARVESTER_* env)")

	cmd.AddCommand(newHarvestCmd())
	cmd.AddCommand(newExportCmd())
	cmd.AddCommand(newSchemaCmd())

	return cmd
}

func resolveApp(ctx context.Context) (*App, error) {
	appInstance, ok := ctx.Value(appKey).(*App)
	if !ok || appInstance == nil {
		return nil, fmt.Errorf("application services not initialized")
	}
	return appInstance, nil
}

// Execute is the main entry point.
func Execute() {
	// A local .env is optional; absence is not an error.
	_ = godotenv.Load() //nolint:errcheck

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
