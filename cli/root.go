package cli

import (
	"encoding/json"
	"fmt"

	"github.com/mobile-next/spectrogesture/commands"
	"github.com/mobile-next/spectrogesture/config"
	"github.com/mobile-next/spectrogesture/server"
	"github.com/mobile-next/spectrogesture/utils"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "spectrogesture",
	Short: "Touch gesture recognizer for a scrolling spectrogram view",
	Long:  `Recognizes pan, long-press selection and corner-drag gestures from raw touch streams, replays scripted gestures and serves sessions over JSON-RPC.`,
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	Version:       server.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadOrDefault(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		commands.SetBaseConfig(cfg)
		return nil
	},
}

func initConfig() {
	utils.SetVerbose(verbose)
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to the gesture config file (default ~/.spectrogesture/config.ini)")
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// printJson is a helper function to print JSON responses
func printJson(data interface{}) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		utils.Error("Failed to encode output: %v", err)
		return
	}
	fmt.Println(string(jsonData))
}
