package cli

import (
	"fmt"
	"os"

	"github.com/middleclick/middleclick/apps"
	"github.com/middleclick/middleclick/commands"
	"github.com/middleclick/middleclick/daemon"
	"github.com/middleclick/middleclick/emitter"
	"github.com/middleclick/middleclick/engine"
	"github.com/middleclick/middleclick/prefs"
	"github.com/middleclick/middleclick/server"
	"github.com/middleclick/middleclick/utils"
	"github.com/spf13/cobra"
)

const defaultServerAddress = "localhost:12100"

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Server management commands",
	Long:  `Commands for managing the middleclick recognizer server.`,
}

var serverStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the recognizer server",
	Long: `Starts the recognizer. A touch event source delivers events over
JSON-RPC (POST /rpc or WebSocket /ws); every recognized tap is logged, passed
to the --emit-cmd injector and pushed to WebSocket clients as a "click"
notification.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		listenAddr := cmd.Flag("listen").Value.String()
		if listenAddr == "" {
			listenAddr = defaultServerAddress
		}

		// GetBool/GetString cannot fail for defined flags
		enableCORS, _ := cmd.Flags().GetBool("cors")
		isDaemon, _ := cmd.Flags().GetBool("daemon")
		requireAuth, _ := cmd.Flags().GetBool("auth")
		emitCmd, _ := cmd.Flags().GetString("emit-cmd")
		emitArgs, _ := cmd.Flags().GetStringArray("emit-arg")

		addr, err := server.NormalizeAddr(listenAddr)
		if err != nil {
			return err
		}

		// checked before forking, a daemon child has nobody to report to
		if !daemon.IsChild() && !utils.IsAddrAvailable(addr) {
			return fmt.Errorf("cannot listen on %s: address is already in use or invalid", listenAddr)
		}

		if isDaemon && !daemon.IsChild() {
			// the child starts in "/" and reads this instead of --config
			if path, err := commands.ConfigPath(); err == nil {
				if err := os.Setenv(prefs.EnvConfigPath, path); err != nil {
					return fmt.Errorf("failed to export config path: %w", err)
				}
			}

			_, err := daemon.Daemonize()
			if err != nil {
				return fmt.Errorf("failed to start daemon: %w", err)
			}

			fmt.Printf("Server daemon spawned, attempting to listen on %s\n", listenAddr)
			return nil
		}

		cfg, path, err := commands.LoadConfig()
		if err != nil {
			utils.Warn("%v, using defaults", err)
		}
		utils.Info("Loaded preferences from %s", path)

		clicks := emitter.NewBroadcaster()
		emitters := emitter.Multi{emitter.Log{}, clicks}
		if emitCmd != "" {
			emitters = append(emitters, emitter.Command{Path: emitCmd, Args: emitArgs})
		}

		eng, err := engine.New(engine.Options{
			Config:    cfg,
			Emitter:   emitters,
			Frontmost: apps.System(),
		})
		if err != nil {
			return err
		}
		commands.SetEngine(eng)

		var token string
		if requireAuth {
			token, err = ensureToken()
			if err != nil {
				return err
			}
		}

		return server.StartServer(cmd.Context(), addr, server.Options{
			EnableCORS: enableCORS,
			Token:      token,
			Clicks:     clicks,
		})
	},
}

var serverKillCmd = &cobra.Command{
	Use:   "kill",
	Short: "Stop the daemonized recognizer server",
	Long:  `Connects to the server and sends a shutdown command via JSON-RPC.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		err := daemon.KillServer(serverAddress(), clientToken())
		if err != nil {
			return err
		}

		fmt.Printf("Server shutdown command sent successfully\n")
		return nil
	},
}

func serverAddress() string {
	if serverAddr == "" {
		return defaultServerAddress
	}
	return serverAddr
}

func addClientFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&serverAddr, "listen", "", fmt.Sprintf("Address of the server (default: %s)", defaultServerAddress))
	cmd.Flags().StringVar(&serverToken, "token", "", "Access token (default: the token stored by 'auth token')")
}

func init() {
	rootCmd.AddCommand(serverCmd)

	// add server subcommands
	serverCmd.AddCommand(serverStartCmd)
	serverCmd.AddCommand(serverKillCmd)

	// server start flags
	serverStartCmd.Flags().String("listen", "", "Address to listen on (e.g., 'localhost:12100' or '0.0.0.0:13000')")
	serverStartCmd.Flags().Bool("cors", false, "Enable CORS support")
	serverStartCmd.Flags().BoolP("daemon", "d", false, "Run server in daemon mode (background)")
	serverStartCmd.Flags().Bool("auth", false, "Require the access token from the system keychain")
	serverStartCmd.Flags().String("emit-cmd", "", "Program that injects the middle click; receives MIDDLECLICK_X, MIDDLECLICK_Y and MIDDLECLICK_FINGERS")
	serverStartCmd.Flags().StringArray("emit-arg", nil, "Argument passed to --emit-cmd (repeatable)")

	// server kill flags
	addClientFlags(serverKillCmd)
}
