package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kigo-app/kigo/internal/config"
	"github.com/kigo-app/kigo/internal/engine"
	"github.com/kigo-app/kigo/internal/generator"
	"github.com/kigo-app/kigo/internal/logger"
	"github.com/kigo-app/kigo/internal/notify"
	"github.com/kigo-app/kigo/internal/store"
	"github.com/kigo-app/kigo/internal/tui"
)

var (
	// Version information (set via ldflags during build)
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := fang.Execute(context.Background(), rootCmd); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "kigo",
	Short: "A daily haiku in your terminal",
	Long: `kigo greets you by name, fetches one short haiku from the Groq API at
your chosen time each day, and reminds you with a desktop notification.
The haiku stays on screen until the next scheduled time.`,
	RunE: runApp,
}

func init() {
	rootCmd.AddCommand(setupCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(versionCmd)
}

func runApp(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return fmt.Errorf("failed to init logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	ctx := cmd.Context()

	st, err := store.Open(ctx, cfg.DataDir)
	if err != nil {
		log.Error("open preference store failed", zap.Error(err))
		return fmt.Errorf("failed to open preference store: %w", err)
	}
	defer func() { _ = st.Close() }()

	scheduler := notify.NewScheduler(notify.NewDesktop(), log)
	defer scheduler.Stop()

	// Ask for notification permission up front. Refusal only degrades the
	// reminder; the rest of the app keeps working.
	if err := scheduler.RequestPermission(); err != nil {
		log.Warn("notification permission not granted", zap.Error(err))
	}

	gen := generator.New(cfg.APIURL, cfg.APIKey, cfg.Model, log)
	eng := engine.New(st, gen, scheduler, log)

	log.Info("starting kigo",
		zap.String("data_dir", cfg.DataDir),
		zap.String("model", cfg.Model),
	)
	return tui.Run(ctx, eng, log)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
