package cli

import (
	"fmt"

	"github.com/mobile-next/spectrogesture/commands"
	"github.com/spf13/cobra"
)

var replayCmd = &cobra.Command{
	Use:   "replay [script]",
	Short: "Replay a gesture script and print the resulting intents",
	Long: `Feeds a W3C pointer-actions style gesture script (.json or .plist) through a fresh recognizer.
Pauses and timed moves run on a virtual clock, so a long press completes instantly and deterministically.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		script, err := commands.LoadScript(args[0])
		if err != nil {
			response := commands.NewErrorResponse(err)
			printJson(response)
			return fmt.Errorf("%s", response.Error)
		}

		if replayEndSelection {
			script.EndSelection = true
		}

		response := commands.ReplayCommand(commands.ReplayRequest{Script: *script})
		printJson(response)
		if response.Status == "error" {
			return fmt.Errorf("%s", response.Error)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(replayCmd)

	replayCmd.Flags().BoolVar(&replayEndSelection, "end-selection", false, "leave selection mode after the last action")
}
