package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var noApplyFlag bool

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download today's Bing image and set it as wallpaper.",
	Long: `Download today's Bing image of the day for the configured market
and set it as the desktop background. The download is skipped when
today's image is already on disk.

Use --no-apply to download without changing the background.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		apply := !noApplyFlag

		if client := tryClient(); client != nil {
			info, err := client.FetchWallpaper(apply)
			if err != nil {
				return err
			}
			fmt.Printf("Fetched %s (%s)\n", info.Filename, info.Date)
			return nil
		}

		d, err := buildDaemon()
		if err != nil {
			return err
		}
		info, err := d.FetchAndApply(cmd.Context(), apply)
		if err != nil {
			return err
		}
		fmt.Printf("Fetched %s (%s)\n", info.Filename, info.Date)
		return nil
	},
}

func init() {
	fetchCmd.Flags().BoolVar(&noApplyFlag, "no-apply", false, "Download only, do not change the background.")
	rootCmd.AddCommand(fetchCmd)
}
