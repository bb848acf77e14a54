package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/rsharma/mailbrief/internal/config"
	"github.com/rsharma/mailbrief/internal/email/gmail"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authenticate with Gmail",
	Long: `Auth runs the Google OAuth consent flow and stores the resulting
token for later runs. Use it to set up a machine once, or to re-consent
after revoking access.`,
	RunE: runAuth,
}

func init() {
	rootCmd.AddCommand(authCmd)
}

func runAuth(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// No API key needed just to authenticate with Gmail
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if err := cfg.EnsureDirectories(); err != nil {
		return err
	}

	provider := gmail.New(cfg.Gmail.CredentialsPath, cfg.Gmail.TokenPath)

	if err := provider.Authenticate(ctx); err != nil {
		if interrupted(ctx, err) {
			return nil
		}
		return fmt.Errorf("authentication failed: %w", err)
	}

	userEmail, _ := provider.GetUserEmail(ctx)
	fmt.Printf("Authenticated as: %s\n", userEmail)
	fmt.Printf("Token saved to: %s\n", cfg.Gmail.TokenPath)

	return nil
}
