package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/chazu/facesvg/pkg/config"
)

var configForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Create or show the configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with the defaults for --units",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		file := configPath
		if file == "" {
			file = config.DefaultFile
		}
		if _, err := os.Stat(file); err == nil && !configForce {
			return fmt.Errorf("%s exists, use --force to overwrite", file)
		} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		cfg, err := applyFlags(cmd, config.Defaults(unitsFlag))
		if err != nil {
			return err
		}
		if err := config.Save(file, cfg); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", file)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		data, err := toml.Marshal(cfg)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "overwrite an existing file")
}
