package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/rsharma/mailbrief/internal/config"
	"github.com/rsharma/mailbrief/internal/digest"
	"github.com/rsharma/mailbrief/internal/email/gmail"
	"github.com/rsharma/mailbrief/internal/output"
	"github.com/rsharma/mailbrief/internal/summarizer"
)

var (
	runMax   int
	runQuery string
	runWords int
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Fetch recent emails and summarize each one",
	Long: `Run fetches your most recent emails, extracts a plaintext body per
message, and prints an AI-generated summary for each.

On first run, it will open a browser for Google authentication.

Examples:
  mailbrief run                      # Summarize the 10 most recent emails
  mailbrief run --max=25             # Summarize 25 emails
  mailbrief run --query="is:unread"  # Only unread mail
  mailbrief run -o json              # Machine-readable output`,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().IntVar(&runMax, "max", 0, "Maximum number of emails to fetch (default from config)")
	runCmd.Flags().StringVar(&runQuery, "query", "", "Gmail search query, e.g. 'is:unread' (default from config)")
	runCmd.Flags().IntVar(&runWords, "words", 0, "Target summary length in words (default from config)")
}

func runRun(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	// The API key gates everything; fail before any network call
	if err := cfg.ValidateSecrets(); err != nil {
		return err
	}

	if err := cfg.EnsureDirectories(); err != nil {
		return err
	}

	// Flag overrides
	if runMax > 0 {
		cfg.Gmail.MaxResults = runMax
	}
	if runQuery != "" {
		cfg.Gmail.Query = runQuery
	}
	if runWords > 0 {
		cfg.Summarizer.WordBudget = runWords
	}

	// Initialize Gmail provider
	provider := gmail.New(cfg.Gmail.CredentialsPath, cfg.Gmail.TokenPath)

	fmt.Println("Authenticating with Gmail...")
	if err := provider.Authenticate(ctx); err != nil {
		if interrupted(ctx, err) {
			return nil
		}
		return fmt.Errorf("authentication failed: %w", err)
	}

	userEmail, _ := provider.GetUserEmail(ctx)
	fmt.Printf("Authenticated as: %s\n", userEmail)

	// Initialize summarizer
	client := summarizer.New(cfg.Summarizer.BaseURL, cfg.Summarizer.APIKey, cfg.Summarizer.Model)

	runner := digest.New(provider, client)

	fmt.Printf("Fetching last %d emails...\n", cfg.Gmail.MaxResults)
	fmt.Println()

	// Set up progress callback with terminal utilities
	var lastPhase digest.ProgressPhase
	var phaseStartTime time.Time
	terminal := NewTerminal()

	opts := digest.Options{
		MaxResults: cfg.Gmail.MaxResults,
		Query:      cfg.Gmail.Query,
		WordBudget: cfg.Summarizer.WordBudget,
		Progress: func(p digest.Progress) {
			if p.Phase != lastPhase {
				phaseStartTime = time.Now()
			}
			p.StartedAt = phaseStartTime

			terminal.ClearLine()

			var msg string
			switch p.Phase {
			case digest.PhaseFetching:
				msg = fmt.Sprintf("%s Fetching emails...", terminal.Spinner())
			case digest.PhaseSummarizing:
				eta := ""
				if etaDur := p.ETA(); etaDur > 0 {
					eta = fmt.Sprintf(" (ETA: %s)", FormatETA(etaDur))
				}
				msg = fmt.Sprintf("Summarizing: %d/%d (%d%%)%s", p.Current, p.Total, p.Percentage(), eta)
			}

			if terminal.IsTerminal {
				fmt.Print(msg)
				terminal.Flush()
			} else if p.Phase != lastPhase {
				fmt.Println(msg)
			}
			lastPhase = p.Phase
		},
	}

	report, err := runner.Run(ctx, opts)

	terminal.ClearLine()

	if err != nil {
		if interrupted(ctx, err) {
			return nil
		}
		return err
	}

	if err := output.Render(outputFmt, report); err != nil {
		return err
	}

	for _, w := range report.Warnings {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", w)
	}

	if outputFmt != "json" {
		fmt.Println()
		if failed := report.Failed(); failed > 0 {
			fmt.Printf("Summarization complete with %d failure(s) out of %d emails.\n", failed, len(report.Results))
		} else {
			fmt.Println("Summarization complete!")
		}
	}

	return nil
}

// interrupted reports whether err is the user pressing Ctrl-C, which is
// a clean exit rather than a failure.
func interrupted(ctx context.Context, err error) bool {
	if ctx.Err() == nil || !errors.Is(err, context.Canceled) {
		return false
	}
	fmt.Println()
	fmt.Println("Process interrupted by user.")
	return true
}
