package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/cosmic-utils/bingwall/internal/config"
	"github.com/spf13/cobra"
)

var marketCmd = &cobra.Command{
	Use:   "market",
	Short: "Manage the Bing market region.",
	Long: `Manage the Bing market region. The market decides which regional
edition of the image of the day is downloaded.`,
}

var marketListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the supported markets.",
	RunE: func(cmd *cobra.Command, args []string) error {
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "CODE\tREGION")
		for _, m := range config.Markets {
			fmt.Fprintf(w, "%s\t%s\n", m.Code, m.Name)
		}
		return w.Flush()
	},
}

var marketGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Show the configured market.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if client := tryClient(); client != nil {
			market, err := client.GetMarket()
			if err != nil {
				return err
			}
			fmt.Printf("%s (%s)\n", market, config.MarketName(market))
			return nil
		}

		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}
		fmt.Printf("%s (%s)\n", cfg.Market, config.MarketName(cfg.Market))
		return nil
	},
}

var marketSetCmd = &cobra.Command{
	Use:   "set <code>",
	Short: "Change the configured market.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		code := args[0]
		if !config.ValidMarket(code) {
			return fmt.Errorf("unknown market %q, see 'bingwall market list'", code)
		}

		if client := tryClient(); client != nil {
			if err := client.SetMarket(code); err != nil {
				return err
			}
		} else {
			cfg, path, err := loadConfig()
			if err != nil {
				return err
			}
			cfg.Market = code
			if err := cfg.Save(path); err != nil {
				return err
			}
		}

		fmt.Printf("Market set to %s (%s)\n", code, config.MarketName(code))
		return nil
	},
}

func init() {
	marketCmd.AddCommand(marketListCmd)
	marketCmd.AddCommand(marketGetCmd)
	marketCmd.AddCommand(marketSetCmd)
	rootCmd.AddCommand(marketCmd)
}
