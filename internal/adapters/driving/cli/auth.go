package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/jimbaxley/codaframer/internal/core/domain"
	"github.com/jimbaxley/codaframer/internal/core/ports/driven"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Store and validate an API token",
	Long: `Store a Coda API token for subsequent commands.

The token is validated against the API before it is saved. Generate
one under Account Settings > API Tokens in Coda.

Examples:
  codaframer auth                  # Prompt for the token (input hidden)
  codaframer auth --token xxx      # Non-interactive`,
	RunE: runAuth,
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check whether the stored token is valid",
	RunE:  runAuthStatus,
}

var authClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the stored token",
	RunE:  runAuthClear,
}

// authToken is a flag for non-interactive use.
var authToken string

func init() {
	authCmd.Flags().StringVar(&authToken, "token", "", "API token (prompts when omitted)")

	authCmd.AddCommand(authStatusCmd)
	authCmd.AddCommand(authClearCmd)
	rootCmd.AddCommand(authCmd)
}

func runAuth(cmd *cobra.Command, _ []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}
	if newDataSource == nil {
		return errors.New("data source factory not configured")
	}

	token := authToken
	if token == "" {
		cmd.Print("Coda API token: ")
		token = readSecret()
		cmd.Println()
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return fmt.Errorf("%w: empty token", domain.ErrInvalidInput)
	}

	ctx := context.Background()
	if err := newDataSource(ctx, token).Validate(ctx); err != nil {
		return fmt.Errorf("validating token: %w", err)
	}

	configStore.Set(driven.ConfigKeyAPIToken, token)
	if err := configStore.Save(); err != nil {
		return fmt.Errorf("saving token: %w", err)
	}

	cmd.Println("Token validated and saved.")
	return nil
}

func runAuthStatus(cmd *cobra.Command, _ []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}
	if newDataSource == nil {
		return errors.New("data source factory not configured")
	}

	token := configStore.GetString(driven.ConfigKeyAPIToken)
	if token == "" {
		return domain.ErrAuthRequired
	}

	ctx := context.Background()
	if err := newDataSource(ctx, token).Validate(ctx); err != nil {
		return fmt.Errorf("stored token is invalid: %w", err)
	}

	cmd.Println("Token is valid.")
	return nil
}

func runAuthClear(cmd *cobra.Command, _ []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	configStore.Delete(driven.ConfigKeyAPIToken)
	if err := configStore.Save(); err != nil {
		return fmt.Errorf("clearing token: %w", err)
	}

	cmd.Println("Token removed.")
	return nil
}

// readSecret reads a line without echo when stdin is a terminal,
// falling back to plain buffered input otherwise.
func readSecret() string {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		secret, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return string(secret)
		}
	}
	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}
