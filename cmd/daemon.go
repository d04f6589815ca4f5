package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/cosmic-utils/bingwall/internal/dbus"
	"github.com/cosmic-utils/bingwall/internal/systemd"
	"github.com/spf13/cobra"
)

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Manage the bingwall daemon.",
	Long:  `Manage the bingwall daemon and its systemd units.`,
}

var daemonRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the bingwall daemon in the foreground.",
	Long: `Run the bingwall daemon in the foreground. The daemon exposes the
D-Bus control interface and refreshes the wallpaper on the daily
schedule.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		slog.Info("Starting daemon...")

		d, err := buildDaemon()
		if err != nil {
			return err
		}

		service := dbus.NewService(d, slog.Default())
		if err := service.Start(); err != nil {
			return fmt.Errorf("failed to start D-Bus service: %w", err)
		}
		defer func() {
			if err := service.Stop(); err != nil {
				slog.Warn("Failed to stop D-Bus service", "err", err)
			}
		}()
		d.SetEmitter(service)

		slog.Info("Daemon startup successful.", "bus_name", dbus.BusName)
		return d.Run(cmd.Context())
	},
}

var daemonInstallCmd = &cobra.Command{
	Use:   "install",
	Short: "Install the systemd units for daily updates.",
	Long: `Install the systemd user units that fetch the wallpaper every morning
and once after login. Use --print to inspect the units without
installing them.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		executable, err := os.Executable()
		if err != nil {
			return err
		}

		mgr, err := systemd.NewManager()
		if err != nil {
			return err
		}

		if print, _ := cmd.Flags().GetBool("print"); print {
			for name, content := range mgr.Units(executable) {
				fmt.Printf("# %s\n%s\n", name, content)
			}
			fmt.Fprintln(os.Stderr, "WARNING: Unit configuration printed but not installed.")
			return nil
		}

		if err := mgr.Install(executable); err != nil {
			return err
		}
		fmt.Println("Successfully installed the bingwall timer units.")
		return nil
	},
}

var daemonUninstallCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Remove the systemd units.",
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := systemd.NewManager()
		if err != nil {
			return err
		}
		if err := mgr.Uninstall(); err != nil {
			return err
		}
		fmt.Println("Successfully uninstalled the bingwall timer units.")
		return nil
	},
}

var daemonReloadCmd = &cobra.Command{
	Use:   "reload",
	Short: "Restart the installed timer units.",
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := systemd.NewManager()
		if err != nil {
			return err
		}
		if !mgr.IsEnabled() {
			fmt.Println("Timer units not installed, nothing to do.")
			return nil
		}
		if err := mgr.Reload(); err != nil {
			return err
		}
		fmt.Println("Successfully reloaded the bingwall timer units.")
		return nil
	},
}

var daemonStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check whether the daemon and timer are running.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if client := tryClient(); client != nil {
			fmt.Println("Daemon: running")
		} else {
			fmt.Println("Daemon: not running")
		}

		mgr, err := systemd.NewManager()
		if err != nil {
			return err
		}
		if mgr.IsEnabled() {
			fmt.Println("Systemd timer: enabled")
			if next := mgr.NextRun(); next != "" {
				fmt.Printf("Next elapse: %s\n", next)
			}
		} else {
			fmt.Println("Systemd timer: not enabled")
		}
		return nil
	},
}

func init() {
	daemonInstallCmd.Flags().Bool("print", false, "Print the unit configuration to stdout instead of installing it.")
	daemonCmd.AddCommand(daemonRunCmd)
	daemonCmd.AddCommand(daemonInstallCmd)
	daemonCmd.AddCommand(daemonUninstallCmd)
	daemonCmd.AddCommand(daemonReloadCmd)
	daemonCmd.AddCommand(daemonStatusCmd)
	rootCmd.AddCommand(daemonCmd)
}
