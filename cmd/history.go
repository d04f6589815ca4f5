package cmd

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/cosmic-utils/bingwall/internal/dbus"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List downloaded wallpapers.",
	Long: `List the downloaded wallpapers, newest first. Use --delete with an
index from the listing to remove a wallpaper from disk.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var history []dbus.WallpaperInfo

		client := tryClient()
		if client != nil {
			h, err := client.GetHistory()
			if err != nil {
				return err
			}
			history = h
		} else {
			d, err := buildDaemon()
			if err != nil {
				return err
			}
			h, err := d.History()
			if err != nil {
				return err
			}
			history = h
		}

		if deleteIdx, _ := cmd.Flags().GetString("delete"); deleteIdx != "" {
			idx, err := strconv.Atoi(deleteIdx)
			if err != nil || idx < 1 || idx > len(history) {
				return fmt.Errorf("invalid history index %q, expected 1-%d", deleteIdx, len(history))
			}
			target := history[idx-1]

			if client != nil {
				err = client.DeleteWallpaper(target.Path)
			} else {
				d, berr := buildDaemon()
				if berr != nil {
					return berr
				}
				err = d.DeleteWallpaper(target.Path)
			}
			if err != nil {
				return err
			}
			fmt.Printf("Deleted %s\n", target.Filename)
			return nil
		}

		if len(history) == 0 {
			fmt.Println("No wallpapers downloaded yet.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "#\tDATE\tFILE")
		for i, item := range history {
			fmt.Fprintf(w, "%d\t%s\t%s\n", i+1, item.Date, item.Filename)
		}
		return w.Flush()
	},
}

func init() {
	historyCmd.Flags().String("delete", "", "Delete the wallpaper at the given history index.")
	rootCmd.AddCommand(historyCmd)
}
