package cli

import (
	"encoding/json"
	"fmt"

	"github.com/middleclick/middleclick/commands"
	"github.com/middleclick/middleclick/daemon"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show counters of a running server",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return printRemote("stats", nil)
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent sessions of a running server, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return printRemote("history", commands.HistoryRequest{Limit: historyLimit})
	},
}

var reloadCmd = &cobra.Command{
	Use:   "reload",
	Short: "Make a running server reread its preferences",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return printRemote("config_reload", nil)
	},
}

// printRemote calls a method on the running server and prints the result in
// the same envelope local commands use
func printRemote(method string, params interface{}) error {
	result, err := daemon.Call(serverAddress(), clientToken(), method, params)
	if err != nil {
		return printResponse(commands.NewErrorResponse(fmt.Errorf("%s failed: %w", method, err)))
	}
	return printResponse(commands.NewSuccessResponse(json.RawMessage(result)))
}

func init() {
	rootCmd.AddCommand(statusCmd, historyCmd, reloadCmd)

	addClientFlags(statusCmd)
	addClientFlags(historyCmd)
	addClientFlags(reloadCmd)
	historyCmd.Flags().IntVar(&historyLimit, "limit", 10, "maximum number of sessions to show")
}
