package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/cosmic-utils/bingwall/internal/config"
	"github.com/cosmic-utils/bingwall/internal/gallery"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the wallpaper, market, and schedule status.",
	Long:  `Show the current wallpaper, market, and daily update status.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)

		if client := tryClient(); client != nil {
			market, err := client.GetMarket()
			if err != nil {
				return err
			}
			dir, err := client.GetWallpaperDir()
			if err != nil {
				return err
			}
			enabled, err := client.GetTimerEnabled()
			if err != nil {
				return err
			}
			history, err := client.GetHistory()
			if err != nil {
				return err
			}

			fmt.Fprintln(w, "Daemon:\trunning")
			fmt.Fprintf(w, "Market:\t%s (%s)\n", market, config.MarketName(market))
			fmt.Fprintf(w, "Wallpaper dir:\t%s\n", dir)
			fmt.Fprintf(w, "Daily update:\t%s\n", onOff(enabled))
			if enabled {
				next, err := client.GetTimerNextRun()
				if err == nil && next != "" {
					fmt.Fprintf(w, "Next update:\t%s\n", next)
				}
			}
			if len(history) > 0 {
				fmt.Fprintf(w, "Latest:\t%s (%s)\n", history[0].Filename, history[0].Date)
			}
			return w.Flush()
		}

		d, err := buildDaemon()
		if err != nil {
			return err
		}

		fmt.Fprintln(w, "Daemon:\tnot running")
		fmt.Fprintf(w, "Market:\t%s (%s)\n", d.Market(), config.MarketName(d.Market()))
		fmt.Fprintf(w, "Wallpaper dir:\t%s\n", d.WallpaperDir())
		fmt.Fprintf(w, "Daily update:\t%s\n", onOff(d.TimerEnabled()))
		if next := d.TimerNextRun(); next != "" {
			fmt.Fprintf(w, "Next update:\t%s\n", next)
		}
		if latest, err := gallery.Scan(d.WallpaperDir()); err == nil && len(latest) > 0 {
			fmt.Fprintf(w, "Latest:\t%s (%s)\n", latest[0].Filename, latest[0].Date)
		}
		return w.Flush()
	},
}

func onOff(enabled bool) string {
	if enabled {
		return "enabled"
	}
	return "disabled"
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
