// Package digest orchestrates one summarization run: fetch recent
// emails, summarize each body, collect per-message results into a
// report. Messages are processed strictly in list order, one at a time.
package digest

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rsharma/mailbrief/internal/email"
)

// Summarizer produces a natural-language summary of a message body
type Summarizer interface {
	Summarize(ctx context.Context, text string, wordBudget int) (string, error)
}

// Result holds the outcome for a single email. A summarization failure
// is recorded here instead of aborting the run; Summary then carries a
// human-readable placeholder so the report still renders.
type Result struct {
	Email   email.Email
	Summary string
	Err     error
}

// EmailSummary is the flat record exposed on the JSON surface
type EmailSummary struct {
	EmailID string `json:"email_id"`
	Subject string `json:"subject"`
	Summary string `json:"summary"`
}

// Report contains the results of a run
type Report struct {
	RunID     string
	UserEmail string
	StartedAt time.Time
	Duration  time.Duration
	Results   []Result
	Warnings  []error
}

// Summaries returns the flat per-email records, in original order
func (r *Report) Summaries() []EmailSummary {
	out := make([]EmailSummary, 0, len(r.Results))
	for _, res := range r.Results {
		out = append(out, EmailSummary{
			EmailID: res.Email.ID,
			Subject: res.Email.Subject,
			Summary: res.Summary,
		})
	}
	return out
}

// Failed returns how many summaries ended in error
func (r *Report) Failed() int {
	n := 0
	for _, res := range r.Results {
		if res.Err != nil {
			n++
		}
	}
	return n
}

// Options configures a run
type Options struct {
	MaxResults int              // Maximum number of emails to fetch
	Query      string           // Gmail search query, e.g. "is:unread"
	WordBudget int              // Target summary length in words
	Progress   ProgressCallback // Optional progress callback
}

// Runner sequences fetching and summarization
type Runner struct {
	provider   email.Provider
	summarizer Summarizer
}

// New creates a new Runner
func New(provider email.Provider, s Summarizer) *Runner {
	return &Runner{
		provider:   provider,
		summarizer: s,
	}
}

// Run fetches emails and summarizes them one by one. Per-message
// failures never stop the batch: a failed fetch of the whole list
// yields an empty report with a warning, and a failed summary yields a
// placeholder. Only context cancellation aborts the run.
func (r *Runner) Run(ctx context.Context, opts Options) (*Report, error) {
	report := &Report{
		RunID:     uuid.New().String(),
		StartedAt: time.Now(),
	}
	defer func() { report.Duration = time.Since(report.StartedAt) }()

	if addr, err := r.provider.GetUserEmail(ctx); err == nil {
		report.UserEmail = addr
	}

	progress := func(p Progress) {
		if opts.Progress != nil {
			opts.Progress(p)
		}
	}

	fetchStart := time.Now()
	progress(Progress{Phase: PhaseFetching, StartedAt: fetchStart})

	fetchOpts := email.DefaultFetchOptions()
	if opts.MaxResults > 0 {
		fetchOpts.MaxResults = opts.MaxResults
	}
	fetchOpts.Query = opts.Query

	emails, err := r.provider.FetchEmails(ctx, fetchOpts)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		// A failed listing empties the batch rather than aborting
		report.Warnings = append(report.Warnings, fmt.Errorf("fetching emails: %w", err))
		return report, nil
	}

	total := len(emails)
	sumStart := time.Now()

	for i, e := range emails {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		progress(Progress{Phase: PhaseSummarizing, Current: i, Total: total, StartedAt: sumStart})

		summary, err := r.summarizer.Summarize(ctx, e.Body, opts.WordBudget)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			summary = fmt.Sprintf("Error generating summary: %v", err)
		}

		report.Results = append(report.Results, Result{
			Email:   e,
			Summary: summary,
			Err:     err,
		})

		progress(Progress{Phase: PhaseSummarizing, Current: i + 1, Total: total, StartedAt: sumStart})
	}

	return report, nil
}
