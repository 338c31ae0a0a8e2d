package main

import (
	"fmt"
	"log/slog"
	"os"

	configloader "github.com/foxseedlab/radiobot/external/config"
	"github.com/foxseedlab/radiobot/internal/config"
	"github.com/spf13/cobra"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "radiobot",
	Short: "Discord bot that streams web radio into voice channels",
	Long: `radiobot joins a Discord voice channel and streams a web radio URL into it.
The volume of each server is remembered in PostgreSQL.

Running without a subcommand is the same as 'radiobot serve'.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		slog.Info("startup: loading configuration")
		loaded, err := configloader.Load()
		if err != nil {
			return fmt.Errorf("config validation failed: %w", err)
		}
		cfg = loaded
		initLogger(cfg)
		slog.Info("startup: configuration loaded", "env", cfg.Env)
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBot(cfg)
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Connect to Discord and serve slash commands",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBot(cfg)
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMigrate(cmd.Context(), cfg)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		slog.Error("radiobot exited with error", "error", err)
		os.Exit(1)
	}
}

func initLogger(cfg *config.Config) {
	logLevel := slog.LevelInfo
	if cfg.IsDevelopment() {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))
}
