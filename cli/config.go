package cli

import (
	"fmt"
	"strings"

	"github.com/middleclick/middleclick/commands"
	"github.com/middleclick/middleclick/gesture"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show and change recognition preferences",
	Long: fmt.Sprintf(`Commands for the stored recognition preferences.

Keys: %s
maxTimeDelta is in milliseconds, ignoredAppBundles is a comma separated list.`, strings.Join(gesture.Keys, ", ")),
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the stored preferences",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return printResponse(commands.ConfigShowCommand())
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show the preferences file location",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return printResponse(commands.ConfigPathCommand())
	},
}

var configSetCmd = &cobra.Command{
	Use:     "set <key> <value>",
	Short:   "Change one preference",
	Example: "  middleclick config set fingers 4\n  middleclick config set maxTimeDelta 250",
	Args:    cobra.ExactArgs(2),
	ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) == 0 {
			return gesture.Keys, cobra.ShellCompDirectiveNoFileComp
		}
		return nil, cobra.ShellCompDirectiveNoFileComp
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return printResponse(commands.ConfigSetCommand(commands.ConfigSetRequest{
			Key:   args[0],
			Value: args[1],
		}))
	},
}

var configResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Remove stored preferences so the defaults apply",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return printResponse(commands.ConfigResetCommand())
	},
}

var ignoreCmd = &cobra.Command{
	Use:   "ignore",
	Short: "Manage applications where taps are never turned into clicks",
}

var ignoreListCmd = &cobra.Command{
	Use:   "list",
	Short: "List ignored application bundles",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return printResponse(commands.IgnoreListCommand())
	},
}

var ignoreAddCmd = &cobra.Command{
	Use:     "add <bundle-id>",
	Short:   "Ignore an application",
	Example: "  middleclick ignore add com.blizzard.worldofwarcraft",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return printResponse(commands.IgnoreAddCommand(commands.IgnoreRequest{BundleID: args[0]}))
	},
}

var ignoreRemoveCmd = &cobra.Command{
	Use:   "remove <bundle-id>",
	Short: "Stop ignoring an application",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return printResponse(commands.IgnoreRemoveCommand(commands.IgnoreRequest{BundleID: args[0]}))
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd, configPathCmd, configSetCmd, configResetCmd)

	rootCmd.AddCommand(ignoreCmd)
	ignoreCmd.AddCommand(ignoreListCmd, ignoreAddCmd, ignoreRemoveCmd)
}
