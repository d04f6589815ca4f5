package cmd

import (
	"fmt"

	"github.com/cosmic-utils/bingwall/internal/systemd"
	"github.com/cosmic-utils/bingwall/internal/timer"
	"github.com/spf13/cobra"
)

var timerCmd = &cobra.Command{
	Use:   "timer",
	Short: "Manage the daily update schedule.",
	Long: `Manage the daily update schedule. The wallpaper is refreshed every
morning at 08:00 while the schedule is enabled.`,
}

var timerEnableCmd = &cobra.Command{
	Use:   "enable",
	Short: "Enable the daily wallpaper update.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := setTimerEnabled(true); err != nil {
			return err
		}
		fmt.Println("Daily update enabled.")
		return nil
	},
}

var timerDisableCmd = &cobra.Command{
	Use:   "disable",
	Short: "Disable the daily wallpaper update.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := setTimerEnabled(false); err != nil {
			return err
		}
		fmt.Println("Daily update disabled.")
		return nil
	},
}

var timerNextCmd = &cobra.Command{
	Use:   "next",
	Short: "Show the next scheduled update.",
	Long: `Show the next scheduled update. With --systemd the time is read from
the installed systemd timer unit instead of the daemon schedule.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if useSystemd, _ := cmd.Flags().GetBool("systemd"); useSystemd {
			mgr, err := systemd.NewManager()
			if err != nil {
				return err
			}
			next := mgr.NextRun()
			if next == "" {
				fmt.Println("Systemd timer is not active.")
				return nil
			}
			fmt.Printf("Next update: %s\n", next)
			return nil
		}

		if client := tryClient(); client != nil {
			next, err := client.GetTimerNextRun()
			if err != nil {
				return err
			}
			if next == "" {
				fmt.Println("Daily update is disabled.")
				return nil
			}
			fmt.Printf("Next update: %s\n", next)
			return nil
		}

		d, err := buildDaemon()
		if err != nil {
			return err
		}
		if next := d.TimerNextRun(); next != "" {
			fmt.Printf("Next update: %s\n", next)
		} else {
			fmt.Println("Daily update is disabled.")
		}
		return nil
	},
}

func setTimerEnabled(enabled bool) error {
	if client := tryClient(); client != nil {
		return client.SetTimerEnabled(enabled)
	}

	statePath, err := timer.StatePath()
	if err != nil {
		return err
	}
	state, err := timer.LoadState(statePath)
	if err != nil {
		return err
	}
	state.Enabled = enabled
	return state.Save(statePath)
}

func init() {
	timerNextCmd.Flags().Bool("systemd", false, "Read the next run from the systemd timer unit.")
	timerCmd.AddCommand(timerEnableCmd)
	timerCmd.AddCommand(timerDisableCmd)
	timerCmd.AddCommand(timerNextCmd)
	rootCmd.AddCommand(timerCmd)
}
