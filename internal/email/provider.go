package email

import "context"

// Provider defines the interface for email providers
type Provider interface {
	// Name returns the provider identifier
	Name() string

	// Authenticate performs OAuth or credential validation
	Authenticate(ctx context.Context) error

	// IsAuthenticated checks if valid credentials exist
	IsAuthenticated() bool

	// FetchEmails retrieves recent emails matching criteria
	FetchEmails(ctx context.Context, opts FetchOptions) ([]Email, error)

	// GetUserEmail returns the authenticated user's email address
	GetUserEmail(ctx context.Context) (string, error)
}

// FetchOptions configures email fetching
type FetchOptions struct {
	MaxResults int    // Maximum number of emails to fetch
	Query      string // Provider-specific search query, e.g. "is:unread"
}

// DefaultFetchOptions returns sensible defaults
func DefaultFetchOptions() FetchOptions {
	return FetchOptions{
		MaxResults: 10,
	}
}
