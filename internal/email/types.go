package email

import (
	"strings"
	"time"
)

// Email represents a provider-agnostic email message
type Email struct {
	ID      string    // Provider-specific ID
	Subject string    // Email subject
	From    Address   // Sender address
	Date    time.Time // Send/receive date
	RawDate string    // Date header as received, for display
	Snippet string    // Short preview text
	Body    string    // Extracted plaintext body (may be empty)
}

// Address represents an email address with optional name
type Address struct {
	Name  string
	Email string
}

// String returns the formatted address
func (a Address) String() string {
	if a.Name == "" {
		return a.Email
	}
	return a.Name + " <" + a.Email + ">"
}

// ParseAddress parses an email address string like "Name <email@example.com>"
func ParseAddress(s string) Address {
	s = strings.TrimSpace(s)

	// Try to extract name and email from "Name <email>" format
	if start := strings.Index(s, "<"); start != -1 {
		if end := strings.Index(s, ">"); end > start {
			return Address{
				Name:  strings.TrimSpace(s[:start]),
				Email: strings.TrimSpace(s[start+1 : end]),
			}
		}
	}

	// Just an email address
	return Address{Email: s}
}
