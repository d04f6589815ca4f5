package cmd

import (
	"fmt"
	"log/slog"

	"github.com/cosmic-utils/bingwall/internal/dbus"
	"github.com/cosmic-utils/bingwall/internal/tray"
	"github.com/spf13/cobra"
)

var trayCmd = &cobra.Command{
	Use:   "tray",
	Short: "Run the system tray application.",
	Long: `Run the system tray application. The tray embeds the daemon, so the
D-Bus interface and the daily schedule are served by the same process.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := buildDaemon()
		if err != nil {
			return err
		}

		service := dbus.NewService(d, slog.Default())
		if err := service.Start(); err != nil {
			return fmt.Errorf("failed to start D-Bus service, is another instance running? %w", err)
		}
		defer func() {
			if err := service.Stop(); err != nil {
				slog.Warn("Failed to stop D-Bus service", "err", err)
			}
		}()
		d.SetEmitter(service)

		return tray.New(d).Run(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(trayCmd)
}
