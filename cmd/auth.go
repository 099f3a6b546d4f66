package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/stellarshank/gdrive-mcp/internal/logging"
)

func newAuthCmd() *cobra.Command {
	var (
		debugMode       bool
		force           bool
		credentialsPath string
		tokenPath       string
	)

	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authorize Google Drive access interactively",
		Long: `Run the interactive browser authorization and persist the resulting
token, so the MCP server can start without prompting.

If a valid or refreshable token is already stored, nothing happens;
use --force to discard it and authorize again.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAuth(debugMode, force, credentialsPath, tokenPath)
		},
	}

	cmd.Flags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	cmd.Flags().BoolVar(&force, "force", false, "Discard any stored token and authorize again")
	cmd.Flags().StringVar(&credentialsPath, "credentials", "", "Path to the OAuth client credentials file. Can also use GDRIVE_MCP_CREDENTIALS env var.")
	cmd.Flags().StringVar(&tokenPath, "token-file", "", "Path to the persisted OAuth token file (default: ~/.gdrive_mcp_token.json)")

	return cmd
}

func runAuth(debugMode, force bool, credentialsPath, tokenPath string) error {
	ctx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logger := logging.Setup(debugMode)

	provider, err := buildAuthProvider(credentialsPath, tokenPath, logger, nil)
	if err != nil {
		return err
	}

	if force {
		if err := provider.Reauthorize(ctx); err != nil {
			return err
		}
		fmt.Fprintln(os.Stderr, "Authorization complete; token stored.")
		return nil
	}

	if _, err := provider.Token(ctx); err != nil {
		return err
	}
	fmt.Fprintln(os.Stderr, "Credential is valid; token stored.")
	return nil
}
