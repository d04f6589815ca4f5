package cmd

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/charmbracelet/fang"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
)

var (
	// Version is stamped at build time via -ldflags.
	Version = "dev"

	configFlag  string
	verboseFlag bool
)

var rootCmd = &cobra.Command{
	Use:   "bingwall",
	Short: "Bing image of the day as your COSMIC wallpaper.",
	Long: `bingwall downloads the Bing image of the day and sets it as the
desktop background on the COSMIC desktop. It can run once from the
command line, on a daily schedule, or as a system tray application.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging()
	},
}

func Execute() {
	if err := fang.Execute(context.Background(), rootCmd, fang.WithVersion(Version)); err != nil {
		os.Exit(1)
	}
}

// setupLogging configures the default slog logger. The level comes from
// BINGWALL_LOG_LEVEL and is forced to debug by --verbose.
func setupLogging() {
	logLevel := slog.LevelInfo
	if levelStr := os.Getenv("BINGWALL_LOG_LEVEL"); levelStr != "" {
		var l slog.Level
		if err := l.UnmarshalText([]byte(levelStr)); err == nil {
			logLevel = l
		}
	}
	if verboseFlag {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:      logLevel,
			TimeFormat: time.Kitchen,
		}),
	))
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "Path to the configuration file.")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Enable debug logging.")
}
