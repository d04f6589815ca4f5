package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"

	"github.com/cosmic-utils/bingwall/internal/config"
)

var configOutputFlag string

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect the bingwall configuration.",
	Long:  `Inspect the bingwall configuration.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration.",
	Long: `Print the effective configuration, including defaults for values not
present in the configuration file. The output format is toml by
default; json and yaml are also supported.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := currentConfig()
		if err != nil {
			return err
		}

		switch configOutputFlag {
		case "toml":
			return toml.NewEncoder(os.Stdout).Encode(cfg)
		case "json":
			doc, err := json.MarshalIndent(cfg, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(doc))
			return nil
		case "yaml":
			doc, err := yaml.Marshal(cfg)
			if err != nil {
				return err
			}
			fmt.Print(string(doc))
			return nil
		default:
			return fmt.Errorf("unknown output format %q, expected toml, json, or yaml", configOutputFlag)
		}
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <path>",
	Short: "Print a single configuration value.",
	Long: `Print a single configuration value by path, e.g.

  bingwall config get market
  bingwall config get wallpaper_dir`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := currentConfig()
		if err != nil {
			return err
		}

		doc, err := json.Marshal(cfg)
		if err != nil {
			return err
		}

		result := gjson.GetBytes(doc, args[0])
		if !result.Exists() {
			return fmt.Errorf("no configuration value at %q", args[0])
		}
		fmt.Println(result.String())
		return nil
	},
}

// currentConfig prefers the running daemon's view of the configuration
// and falls back to reading the file.
func currentConfig() (*config.Config, error) {
	if client := tryClient(); client != nil {
		doc, err := client.GetConfig()
		if err != nil {
			return nil, err
		}
		var cfg config.Config
		if err := json.Unmarshal([]byte(doc), &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse daemon config: %w", err)
		}
		return &cfg, nil
	}

	cfg, _, err := loadConfig()
	return cfg, err
}

func init() {
	configShowCmd.Flags().StringVarP(&configOutputFlag, "output", "o", "toml", "Output format: toml, json, or yaml.")
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configGetCmd)
	rootCmd.AddCommand(configCmd)
}
