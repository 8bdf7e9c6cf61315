package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/mobile-next/spectrogesture/commands"
	"github.com/mobile-next/spectrogesture/config"
	"github.com/mobile-next/spectrogesture/gesture"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Gesture configuration commands",
	Long:  `Show or create the gesture recognizer configuration file.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective gesture configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		printJson(commands.ConfigCommand())
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with the default values",
	Args:  cobra.NoArgs,
	// the existing file may be the broken one being replaced
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := configTarget()
		if err != nil {
			return err
		}

		if _, err := os.Stat(path); err == nil && !configInitForce {
			return fmt.Errorf("config file %s already exists, use --force to overwrite", path)
		} else if err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to check config file: %w", err)
		}

		if err := config.Save(path, gesture.DefaultConfig()); err != nil {
			return err
		}

		fmt.Printf("Wrote %s\n", path)
		return nil
	},
}

// configTarget is the --config path, or the default location.
func configTarget() (string, error) {
	if configPath != "" {
		return configPath, nil
	}
	return config.DefaultPath()
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd, configInitCmd)

	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "overwrite an existing config file")
}
