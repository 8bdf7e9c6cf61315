package cli

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/zalando/go-keyring"
)

const keyringService = "spectrogesture"
const keyringUser = "server-token"

// tokenBytes is the entropy of a generated server token.
const tokenBytes = 32

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authentication commands",
	Long:  `Commands for managing the bearer token that protects the server.`,
}

var authTokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Display the server auth token",
	Long:  `Displays the bearer token used by 'server start --auth', creating and storing one in the system keyring if none exists.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		token, err := serverToken(authRotate)
		if err != nil {
			return err
		}

		fmt.Println(token)
		return nil
	},
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Delete the server auth token",
	Long:  `Removes the stored server token from the system keyring.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := keyring.Delete(keyringService, keyringUser); err != nil {
			fmt.Println("no server token is stored")
			return nil
		}

		fmt.Println("Server token deleted.")
		return nil
	},
}

// serverToken returns the stored token, generating one when none exists or
// when rotate is set.
func serverToken(rotate bool) (string, error) {
	if !rotate {
		token, err := keyring.Get(keyringService, keyringUser)
		if err == nil {
			return token, nil
		}
		if !errors.Is(err, keyring.ErrNotFound) {
			return "", fmt.Errorf("failed to read server token from keyring: %w", err)
		}
	}

	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	token := hex.EncodeToString(buf)

	if err := keyring.Set(keyringService, keyringUser, token); err != nil {
		return "", fmt.Errorf("failed to store server token in keyring: %w", err)
	}

	return token, nil
}

// storedToken returns the token without creating one.
func storedToken() (string, error) {
	token, err := keyring.Get(keyringService, keyringUser)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", nil
	}
	return token, err
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(authTokenCmd, authLogoutCmd)

	authTokenCmd.Flags().BoolVar(&authRotate, "rotate", false, "replace the stored token with a new one")
}
