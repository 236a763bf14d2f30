package main // Entry point package

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/iliyamo/pitch-booking/internal/config"
	"github.com/iliyamo/pitch-booking/internal/database"
	"github.com/iliyamo/pitch-booking/internal/logging"
)

// App holds what every subcommand needs.
type App struct {
	cfg    config.Config
	db     *sql.DB
	logger *zap.Logger
}

var (
	envFile string
	logDir  string
	app     *App
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "pitch-booking",
		Short: "Pitch booking API",
		Long:  `Book five-a-side games, manage lineups and waiting lists, and track player stats.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app == nil {
				return
			}
			if app.db != nil {
				_ = app.db.Close()
			}
			_ = app.logger.Sync()
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	rootCmd.PersistentFlags().StringVar(&logDir, "log-dir", "logs", "directory for JSON log files")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(createAdminCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initApp loads configuration, builds the logger and opens the database.
func initApp() error {
	if err := config.LoadDotEnv(envFile); err != nil {
		return err
	}
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := logging.InitLogger(cfg.Env, logDir)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	app = &App{cfg: cfg, logger: logger}

	logger.Info("connecting to database", zap.String("host", cfg.DBHost), zap.String("name", cfg.DBName))
	app.db, err = database.Open(context.Background(), cfg)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	return nil
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create missing tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := database.Migrate(ctxOrBackground(cmd), app.db); err != nil {
				return err
			}
			app.logger.Info("schema up to date")
			return nil
		},
	}
}

// ctxOrBackground covers commands executed without a context.
func ctxOrBackground(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
