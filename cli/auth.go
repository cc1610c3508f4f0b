package cli

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/zalando/go-keyring"
)

const keyringService = "middleclick"
const keyringUser = "rpc-token"

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the server access token",
	Long: `Commands for the bearer token that protects the JSON-RPC server.
The token is kept in the system keychain.`,
}

var authTokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Display the access token, creating one if needed",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		token, err := ensureToken()
		if err != nil {
			return err
		}

		fmt.Println(token)
		return nil
	},
}

var authRotateCmd = &cobra.Command{
	Use:   "rotate",
	Short: "Replace the access token",
	Long:  `Generates a new access token. A running server keeps the token it started with until restarted.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		token := newToken()
		if err := keyring.Set(keyringService, keyringUser, token); err != nil {
			return fmt.Errorf("failed to store access token: %w", err)
		}

		fmt.Println(token)
		return nil
	},
}

var authClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the access token",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := keyring.Delete(keyringService, keyringUser); err != nil {
			if errors.Is(err, keyring.ErrNotFound) {
				fmt.Println("no access token stored")
				return nil
			}
			return fmt.Errorf("failed to remove access token: %w", err)
		}

		fmt.Println("Access token removed.")
		return nil
	},
}

func newToken() string {
	return uuid.NewString()
}

// storedToken returns the keychain token, or "" when none is stored
func storedToken() (string, error) {
	token, err := keyring.Get(keyringService, keyringUser)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read access token: %w", err)
	}
	return token, nil
}

// ensureToken returns the keychain token, storing a fresh one first if needed
func ensureToken() (string, error) {
	token, err := storedToken()
	if err != nil {
		return "", err
	}
	if token != "" {
		return token, nil
	}

	token = newToken()
	if err := keyring.Set(keyringService, keyringUser, token); err != nil {
		return "", fmt.Errorf("failed to store access token: %w", err)
	}
	return token, nil
}

// clientToken is the token presented to a running server: the --token flag,
// then the keychain
func clientToken() string {
	if serverToken != "" {
		return serverToken
	}
	token, err := storedToken()
	if err != nil {
		return ""
	}
	return token
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(authTokenCmd, authRotateCmd, authClearCmd)
}
