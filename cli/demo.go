package cli

import (
	"github.com/mobile-next/spectrogesture/commands"
	"github.com/mobile-next/spectrogesture/terminal"
	"github.com/spf13/cobra"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Try the recognizer on a simulated spectrogram in the terminal",
	Long: `Opens a full-screen spectrogram that scrolls by itself. The left mouse button acts as a finger:
drag sideways to pan, hold still to place a selection box, then drag its corners to resize it.
Press 'd' to finish the selection and 'q' or Esc to quit.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return terminal.Run(commands.BaseConfig(), demoRecordPath)
	},
}

func init() {
	rootCmd.AddCommand(demoCmd)

	demoCmd.Flags().StringVar(&demoRecordPath, "record", "", "write the emitted intents to this JSON file on exit")
}
