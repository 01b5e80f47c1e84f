package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/Lllllllleong/goldflowsync/internal/services"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	verbose bool
	logFile string
	config  *services.SyncConfig
)

var rootCmd = &cobra.Command{
	Use:   "goldflow-sync",
	Short: "Mirror GoldFlow hojas between the local store and a remote document store",
	Long: `goldflow-sync keeps the hojas saved on this device in step with a shared
remote collection (Firestore or CouchDB). Saves are uploaded in the background,
remote changes are pulled on start-up and followed live.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// A missing .env file is fine; the environment may already be set.
		_ = godotenv.Load()

		setupLogging()

		var err error
		config, err = services.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		return nil
	},
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Write logs to this file, rotated, instead of stdout")
}

func setupLogging() {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	var out io.Writer = os.Stdout
	if logFile != "" {
		out = &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
		}
	}

	logger := slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
}
