package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

var applyCmd = &cobra.Command{
	Use:   "apply <path>",
	Short: "Set an already downloaded image as the wallpaper.",
	Long:  `Set an image file as the COSMIC desktop background.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := filepath.Abs(args[0])
		if err != nil {
			return err
		}

		if client := tryClient(); client != nil {
			if err := client.ApplyWallpaper(path); err != nil {
				return err
			}
		} else {
			d, err := buildDaemon()
			if err != nil {
				return err
			}
			if err := d.ApplyWallpaper(path); err != nil {
				return err
			}
		}

		fmt.Printf("Applied %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(applyCmd)
}
