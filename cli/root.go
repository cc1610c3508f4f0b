package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/middleclick/middleclick/commands"
	"github.com/middleclick/middleclick/daemon"
	"github.com/middleclick/middleclick/prefs"
	"github.com/middleclick/middleclick/utils"
	"github.com/spf13/cobra"
)

const version = "dev"

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "middleclick",
	Short: "Emulate a middle mouse click with a multi-finger tap",
	Long: `middleclick recognizes a short multi-finger tap on a touch surface and
turns it into a middle mouse click at the centroid of the fingers.`,
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	Version:           version,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: initConfig,
}

func initConfig(cmd *cobra.Command, args []string) error {
	utils.SetVerbose(verbose)
	if err := utils.SetLogFormat(logFormat); err != nil {
		return err
	}

	path, err := resolveConfigPath(configPath)
	if err != nil {
		return err
	}
	commands.SetConfigPath(path)
	return nil
}

// resolveConfigPath makes a --config or $MIDDLECLICK_CONFIG value absolute, so
// it names the same file after the daemon moves to "/". A daemon child takes
// the path its parent resolved and exported.
func resolveConfigPath(flag string) (string, error) {
	path := flag
	if path == "" || daemon.IsChild() {
		if env := os.Getenv(prefs.EnvConfigPath); env != "" {
			path = env
		}
	}
	if path == "" {
		return "", nil
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve config path %q: %w", path, err)
	}
	return abs, nil
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format: text or json")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", fmt.Sprintf("preferences file (.plist or .ini, default: $%s or the platform location)", prefs.EnvConfigPath))
}

// Execute runs the root command
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// GetVersion returns the version reported by --version and doctor
func GetVersion() string {
	return version
}

// printJson is a helper function to print JSON responses
func printJson(data interface{}) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		utils.Error("failed to encode response: %v", err)
		os.Exit(1)
	}
	fmt.Println(string(jsonData))
}

// printResponse prints a command response and turns an error status into
// the command's error
func printResponse(response *commands.CommandResponse) error {
	printJson(response)
	if response.Status == "error" {
		return fmt.Errorf("%s", response.Error)
	}
	return nil
}
