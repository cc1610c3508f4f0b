package cli

import (
	"github.com/middleclick/middleclick/commands"
	"github.com/spf13/cobra"
)

var replayCmd = &cobra.Command{
	Use:   "replay <events.jsonl>",
	Short: "Run recorded touch events through the recognizer",
	Long: `Reads one JSON touch event per line and reports the outcome of every
session using the stored preferences. Use - to read from stdin.

Each line looks like:
  {"type":"down","id":1,"x":0.42,"y":0.51,"t":0,"app":"com.apple.Safari"}

type is one of down, move, up, cancel; t is in milliseconds.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return printResponse(commands.ReplayCommand(cmd.Context(), commands.ReplayRequest{
			Path:   args[0],
			Strict: replayStrict,
		}))
	},
}

func init() {
	rootCmd.AddCommand(replayCmd)
	replayCmd.Flags().BoolVar(&replayStrict, "strict", false, "fail if any event is invalid instead of skipping it")
}
